package program

// ApplyRaceMeta overwrites the metadata fields of r. The roster and game
// info are kept.
func ApplyRaceMeta(r RaceRecord, in UpdateRaceMeta) RaceRecord {
	r.Status = in.Status
	r.Level = in.Level
	r.Kind = in.Kind
	r.Date = in.Date
	r.Name = in.Name
	r.Location = in.Location
	r.Distance = in.Distance
	r.EntryFee = in.EntryFee
	r.PrizePool = in.PrizePool
	return r
}

// ApplyGameInfo sets the game URL and end date of r.
func ApplyGameInfo(r RaceRecord, in UpdateGameInfo) RaceRecord {
	r.GameURL = in.GameURL
	r.EndDate = in.EndDate
	return r
}

// ApplyJoin adds the player to the roster of r. On error r is returned
// unchanged.
func ApplyJoin(r RaceRecord, in JoinRace) (RaceRecord, error) {
	players, err := r.Players.Join(in.Player)
	if err != nil {
		return r, err
	}
	r.Players = players
	return r, nil
}

// Apply runs the transition matching in.
func Apply(r RaceRecord, in Instruction) (RaceRecord, error) {
	switch in := in.(type) {
	case UpdateRaceMeta:
		return ApplyRaceMeta(r, in), nil
	case UpdateGameInfo:
		return ApplyGameInfo(r, in), nil
	case JoinRace:
		return ApplyJoin(r, in)
	}
	return r, ErrMalformedInstruction
}

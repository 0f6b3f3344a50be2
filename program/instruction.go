package program

import "fmt"

// Instruction discriminants, in declaration order of the on-ledger enum.
const (
	tagUpdateRaceMeta uint8 = iota
	tagUpdateGameInfo
	tagJoinRace
)

// Instruction is one decoded request to the race program.
type Instruction interface {
	// String is the instruction name used in logs.
	String() string
	MarshalBinary() ([]byte, error)
	isInstruction()
}

// UpdateRaceMeta overwrites the race metadata.
type UpdateRaceMeta struct {
	Status    uint8
	Level     uint8
	Kind      uint8
	Date      uint64
	Name      string
	Location  string
	Distance  uint16
	EntryFee  uint16
	PrizePool uint16
}

// UpdateGameInfo sets the game URL and end date.
type UpdateGameInfo struct {
	GameURL string
	EndDate uint64
}

// JoinRace adds a player to the roster.
type JoinRace struct {
	Player Player
}

func (UpdateRaceMeta) isInstruction() {}
func (UpdateGameInfo) isInstruction() {}
func (JoinRace) isInstruction()       {}

func (UpdateRaceMeta) String() string { return "UpdateRace" }
func (UpdateGameInfo) String() string { return "UpdateGame" }
func (JoinRace) String() string       { return "JoinRace" }

func (in UpdateRaceMeta) MarshalBinary() ([]byte, error) {
	e := &encoder{}
	e.u8(tagUpdateRaceMeta)
	e.u8(in.Status)
	e.u8(in.Level)
	e.u8(in.Kind)
	e.u64(in.Date)
	e.str(in.Name)
	e.str(in.Location)
	e.u16(in.Distance)
	e.u16(in.EntryFee)
	e.u16(in.PrizePool)
	return e.buf, nil
}

func (in UpdateGameInfo) MarshalBinary() ([]byte, error) {
	e := &encoder{}
	e.u8(tagUpdateGameInfo)
	e.str(in.GameURL)
	e.u64(in.EndDate)
	return e.buf, nil
}

func (in JoinRace) MarshalBinary() ([]byte, error) {
	e := &encoder{}
	e.u8(tagJoinRace)
	e.player(in.Player)
	return e.buf, nil
}

// DecodeInstruction parses an instruction payload. The payload must hold
// exactly one instruction; unknown discriminants, short arguments and
// trailing bytes are all malformed.
func DecodeInstruction(data []byte) (Instruction, error) {
	d := &decoder{buf: data}
	in, err := decodeInstruction(d)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedInstruction, err)
	}
	if d.remaining() != 0 {
		return nil, fmt.Errorf("%w: %d trailing bytes after %s", ErrMalformedInstruction, d.remaining(), in)
	}
	return in, nil
}

func decodeInstruction(d *decoder) (Instruction, error) {
	tag, err := d.u8()
	if err != nil {
		return nil, err
	}
	switch tag {
	case tagUpdateRaceMeta:
		return decodeUpdateRaceMeta(d)
	case tagUpdateGameInfo:
		var (
			in  UpdateGameInfo
			err error
		)
		if in.GameURL, err = d.str(); err != nil {
			return nil, err
		}
		if in.EndDate, err = d.u64(); err != nil {
			return nil, err
		}
		return in, nil
	case tagJoinRace:
		p, err := d.player()
		if err != nil {
			return nil, err
		}
		return JoinRace{Player: p}, nil
	}
	return nil, fmt.Errorf("unknown instruction %d", tag)
}

func decodeUpdateRaceMeta(d *decoder) (Instruction, error) {
	var (
		in  UpdateRaceMeta
		err error
	)
	if in.Status, err = d.u8(); err != nil {
		return nil, err
	}
	if in.Level, err = d.u8(); err != nil {
		return nil, err
	}
	if in.Kind, err = d.u8(); err != nil {
		return nil, err
	}
	if in.Date, err = d.u64(); err != nil {
		return nil, err
	}
	if in.Name, err = d.str(); err != nil {
		return nil, err
	}
	if in.Location, err = d.str(); err != nil {
		return nil, err
	}
	if in.Distance, err = d.u16(); err != nil {
		return nil, err
	}
	if in.EntryFee, err = d.u16(); err != nil {
		return nil, err
	}
	if in.PrizePool, err = d.u16(); err != nil {
		return nil, err
	}
	return in, nil
}

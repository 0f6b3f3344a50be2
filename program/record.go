package program

import "fmt"

// playerSize is the encoded size of a Player: address plus slot.
const playerSize = PubkeySize + 1

// Player is one participant of a race.
type Player struct {
	Address Pubkey
	Slot    uint8
}

// Roster is the optional participant list of a race. The zero value is an
// absent roster; it becomes present on the first join and never goes back.
type Roster struct {
	present bool
	players []Player
}

// RosterOf returns a present roster holding players in order.
func RosterOf(players ...Player) Roster {
	return Roster{present: true, players: append([]Player{}, players...)}
}

func (r Roster) Present() bool {
	return r.present
}

func (r Roster) Len() int {
	return len(r.players)
}

// Players returns a copy of the roster in join order. It is nil for an
// absent roster.
func (r Roster) Players() []Player {
	if !r.present {
		return nil
	}
	return append([]Player{}, r.players...)
}

// Join returns the roster with p appended. An address already on the roster
// is reported before a taken slot, whatever their positions.
func (r Roster) Join(p Player) (Roster, error) {
	if !r.present {
		return RosterOf(p), nil
	}
	for _, existing := range r.players {
		if existing.Address == p.Address {
			return r, fmt.Errorf("join %s: %w", p.Address, ErrPlayerAlreadyExists)
		}
	}
	for _, existing := range r.players {
		if existing.Slot == p.Slot {
			return r, fmt.Errorf("join %s to slot %d: %w", p.Address, p.Slot, ErrSlotNotAvailable)
		}
	}
	players := make([]Player, 0, len(r.players)+1)
	players = append(players, r.players...)
	return Roster{present: true, players: append(players, p)}, nil
}

// RaceRecord is the state stored in a race account.
type RaceRecord struct {
	Status    uint8
	Level     uint8
	Kind      uint8 // "type" on the wire
	Date      uint64
	Name      string
	Location  string
	Distance  uint16
	EntryFee  uint16
	PrizePool uint16
	GameURL   string
	EndDate   uint64
	Players   Roster
}

// EncodedSize returns the number of bytes MarshalBinary produces.
func (r *RaceRecord) EncodedSize() int {
	n := 3 + 8 + 4 + len(r.Name) + 4 + len(r.Location) + 6 + 4 + len(r.GameURL) + 8 + 1
	if r.Players.present {
		n += 4 + playerSize*len(r.Players.players)
	}
	return n
}

func (r *RaceRecord) MarshalBinary() ([]byte, error) {
	e := &encoder{buf: make([]byte, 0, r.EncodedSize())}
	e.u8(r.Status)
	e.u8(r.Level)
	e.u8(r.Kind)
	e.u64(r.Date)
	e.str(r.Name)
	e.str(r.Location)
	e.u16(r.Distance)
	e.u16(r.EntryFee)
	e.u16(r.PrizePool)
	e.str(r.GameURL)
	e.u64(r.EndDate)
	if !r.Players.present {
		e.u8(0)
		return e.buf, nil
	}
	e.u8(1)
	e.u32(uint32(len(r.Players.players)))
	for _, p := range r.Players.players {
		e.player(p)
	}
	return e.buf, nil
}

// DecodeRecord parses the record at the start of an account slot. Bytes
// after the record are ignored since slots are sized for a full roster.
func DecodeRecord(data []byte) (*RaceRecord, error) {
	r, err := decodeRecord(&decoder{buf: data})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRecordDecode, err)
	}
	return r, nil
}

func decodeRecord(d *decoder) (*RaceRecord, error) {
	var (
		r   RaceRecord
		err error
	)
	if r.Status, err = d.u8(); err != nil {
		return nil, err
	}
	if r.Level, err = d.u8(); err != nil {
		return nil, err
	}
	if r.Kind, err = d.u8(); err != nil {
		return nil, err
	}
	if r.Date, err = d.u64(); err != nil {
		return nil, err
	}
	if r.Name, err = d.str(); err != nil {
		return nil, err
	}
	if r.Location, err = d.str(); err != nil {
		return nil, err
	}
	if r.Distance, err = d.u16(); err != nil {
		return nil, err
	}
	if r.EntryFee, err = d.u16(); err != nil {
		return nil, err
	}
	if r.PrizePool, err = d.u16(); err != nil {
		return nil, err
	}
	if r.GameURL, err = d.str(); err != nil {
		return nil, err
	}
	if r.EndDate, err = d.u64(); err != nil {
		return nil, err
	}
	present, err := d.option()
	if err != nil {
		return nil, err
	}
	if !present {
		return &r, nil
	}
	n, err := d.u32()
	if err != nil {
		return nil, err
	}
	if uint64(n)*playerSize > uint64(d.remaining()) {
		return nil, fmt.Errorf("roster of %d players at offset %d: %w", n, d.off, errShortBuffer)
	}
	players := make([]Player, 0, n)
	for i := uint32(0); i < n; i++ {
		p, err := d.player()
		if err != nil {
			return nil, err
		}
		players = append(players, p)
	}
	r.Players = Roster{present: true, players: players}
	return &r, nil
}

// Store writes the record over the start of slot and zeroes the rest. The
// slot is left untouched when the record does not fit.
func (r *RaceRecord) Store(slot []byte) error {
	if size := r.EncodedSize(); size > len(slot) {
		return fmt.Errorf("%w: need %d bytes, slot holds %d", ErrStorageCapacityExceeded, size, len(slot))
	}
	b, err := r.MarshalBinary()
	if err != nil {
		return err
	}
	n := copy(slot, b)
	clear(slot[n:])
	return nil
}

// MaxRecordSize returns the slot size needed for a record whose text fields
// are each at most maxText bytes and whose roster holds maxPlayers players.
func MaxRecordSize(maxPlayers, maxText int) int {
	r := RaceRecord{Players: RosterOf(make([]Player, maxPlayers)...)}
	return r.EncodedSize() + 3*maxText
}

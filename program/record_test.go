package program

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func pk(b byte) Pubkey {
	var k Pubkey
	for i := range k {
		k[i] = b
	}
	return k
}

func sampleRecord() RaceRecord {
	return RaceRecord{
		Status:    1,
		Level:     2,
		Kind:      3,
		Date:      1_650_000_000,
		Name:      "Dublin Sprint",
		Location:  "Leopardstown",
		Distance:  1600,
		EntryFee:  25,
		PrizePool: 5000,
		GameURL:   "https://race.example/g/1",
		EndDate:   1_650_003_600,
		Players:   RosterOf(Player{Address: pk(1), Slot: 3}, Player{Address: pk(2), Slot: 7}),
	}
}

func TestRecordLayout(t *testing.T) {
	r := RaceRecord{Status: 1, Level: 2, Kind: 3, Date: 4, Name: "n", Distance: 5, EndDate: 6}
	b, err := r.MarshalBinary()
	require.NoError(t, err)

	want := []byte{
		1, 2, 3,
		4, 0, 0, 0, 0, 0, 0, 0,
		1, 0, 0, 0, 'n',
		0, 0, 0, 0,
		5, 0, 0, 0, 0, 0,
		0, 0, 0, 0,
		6, 0, 0, 0, 0, 0, 0, 0,
		0,
	}
	require.Equal(t, want, b)
	require.Equal(t, len(want), r.EncodedSize())
}

func TestRecordRoundTrip(t *testing.T) {
	for name, r := range map[string]RaceRecord{
		"empty":        {},
		"absent":       {Name: "no players", GameURL: "x"},
		"empty roster": {Name: "zero", Players: RosterOf()},
		"full":         sampleRecord(),
	} {
		t.Run(name, func(t *testing.T) {
			b, err := r.MarshalBinary()
			require.NoError(t, err)
			require.Len(t, b, r.EncodedSize())

			got, err := DecodeRecord(b)
			require.NoError(t, err)
			require.Equal(t, r, *got)

			again, err := got.MarshalBinary()
			require.NoError(t, err)
			require.Equal(t, b, again)
		})
	}
}

func TestDecodeRecordIgnoresSlotTail(t *testing.T) {
	r := sampleRecord()
	b, err := r.MarshalBinary()
	require.NoError(t, err)

	slot := append(b, make([]byte, 200)...)
	got, err := DecodeRecord(slot)
	require.NoError(t, err)
	require.Equal(t, r, *got)
}

func TestDecodeRecordFailures(t *testing.T) {
	r := sampleRecord()
	b, err := r.MarshalBinary()
	require.NoError(t, err)

	badOption := RaceRecord{}
	ob, err := badOption.MarshalBinary()
	require.NoError(t, err)
	ob[len(ob)-1] = 2

	badUTF8 := RaceRecord{Name: "ab"}
	ub, err := badUTF8.MarshalBinary()
	require.NoError(t, err)
	ub[15] = 0xff

	hugeRoster := RaceRecord{Players: RosterOf()}
	hb, err := hugeRoster.MarshalBinary()
	require.NoError(t, err)
	copy(hb[len(hb)-4:], []byte{0xff, 0xff, 0xff, 0x7f})

	for name, data := range map[string][]byte{
		"nil":          nil,
		"truncated":    b[:len(b)-1],
		"half header":  b[:5],
		"option tag":   ob,
		"invalid utf8": ub,
		"huge roster":  hb,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := DecodeRecord(data)
			require.ErrorIs(t, err, ErrRecordDecode)
		})
	}
}

func TestStore(t *testing.T) {
	r := sampleRecord()
	size := r.EncodedSize()

	t.Run("fits and zeroes tail", func(t *testing.T) {
		slot := make([]byte, size+16)
		for i := range slot {
			slot[i] = 0xee
		}
		require.NoError(t, r.Store(slot))
		require.Equal(t, make([]byte, 16), slot[size:])

		got, err := DecodeRecord(slot)
		require.NoError(t, err)
		require.Equal(t, r, *got)
	})

	t.Run("exact fit", func(t *testing.T) {
		slot := make([]byte, size)
		require.NoError(t, r.Store(slot))
	})

	t.Run("too small", func(t *testing.T) {
		slot := make([]byte, size-1)
		for i := range slot {
			slot[i] = 0xee
		}
		before := append([]byte{}, slot...)
		err := r.Store(slot)
		require.ErrorIs(t, err, ErrStorageCapacityExceeded)
		require.Equal(t, before, slot)
	})
}

func TestMaxRecordSize(t *testing.T) {
	r := RaceRecord{
		Name:     "abcd",
		Location: "abcd",
		GameURL:  "abcd",
		Players:  RosterOf(make([]Player, 4)...),
	}
	require.Equal(t, r.EncodedSize(), MaxRecordSize(4, 4))
	require.Equal(t, 42, MaxRecordSize(0, 0))
}

func TestRosterJoin(t *testing.T) {
	a := Player{Address: pk(0xa), Slot: 3}

	t.Run("first join initializes", func(t *testing.T) {
		var r Roster
		require.False(t, r.Present())
		require.Nil(t, r.Players())

		next, err := r.Join(a)
		require.NoError(t, err)
		require.True(t, next.Present())
		require.Equal(t, []Player{a}, next.Players())
		require.False(t, r.Present())
	})

	t.Run("address wins over slot", func(t *testing.T) {
		r := RosterOf(Player{Address: pk(0xb), Slot: 5}, Player{Address: pk(0xa), Slot: 9})
		_, err := r.Join(Player{Address: pk(0xa), Slot: 5})
		require.ErrorIs(t, err, ErrPlayerAlreadyExists)
	})

	t.Run("players copy is detached", func(t *testing.T) {
		r := RosterOf(a)
		ps := r.Players()
		ps[0].Slot = 99
		require.Equal(t, uint8(3), r.Players()[0].Slot)
	})
}

func TestRosterUniqueness(t *testing.T) {
	var r Roster
	for i := 0; i < 200; i++ {
		next, err := r.Join(Player{Address: pk(byte(i % 23)), Slot: uint8(i * 7 % 17)})
		if err == nil {
			r = next
		}
	}

	addrs := map[Pubkey]bool{}
	slots := map[uint8]bool{}
	for _, p := range r.Players() {
		require.False(t, addrs[p.Address], "duplicate address %s", p.Address)
		require.False(t, slots[p.Slot], "duplicate slot %d", p.Slot)
		addrs[p.Address] = true
		slots[p.Slot] = true
	}
	require.NotZero(t, r.Len())
}

package program

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecodeInstruction(t *testing.T) {
	for _, in := range []Instruction{
		UpdateRaceMeta{Status: 1, Level: 2, Kind: 3, Date: 99, Name: "Cup", Location: "Galway", Distance: 2000, EntryFee: 10, PrizePool: 300},
		UpdateRaceMeta{},
		UpdateGameInfo{GameURL: "http://x", EndDate: 100},
		JoinRace{Player: Player{Address: pk(9), Slot: 4}},
	} {
		t.Run(in.String(), func(t *testing.T) {
			b, err := in.MarshalBinary()
			require.NoError(t, err)

			got, err := DecodeInstruction(b)
			require.NoError(t, err)
			require.Equal(t, in, got)
		})
	}
}

func TestInstructionLayout(t *testing.T) {
	b, err := UpdateGameInfo{GameURL: "ab", EndDate: 1}.MarshalBinary()
	require.NoError(t, err)
	require.Equal(t, []byte{1, 2, 0, 0, 0, 'a', 'b', 1, 0, 0, 0, 0, 0, 0, 0}, b)

	b, err = JoinRace{Player: Player{Address: pk(1), Slot: 8}}.MarshalBinary()
	require.NoError(t, err)
	require.Len(t, b, 1+PubkeySize+1)
	require.Equal(t, byte(2), b[0])
	require.Equal(t, byte(8), b[len(b)-1])
}

func TestDecodeInstructionMalformed(t *testing.T) {
	join, err := JoinRace{Player: Player{Address: pk(1), Slot: 1}}.MarshalBinary()
	require.NoError(t, err)
	meta, err := UpdateRaceMeta{Name: "x"}.MarshalBinary()
	require.NoError(t, err)

	for name, data := range map[string][]byte{
		"empty":            nil,
		"unknown variant":  {3},
		"high variant":     {0xff, 1, 2, 3},
		"short join":       join[:len(join)-1],
		"trailing bytes":   append(append([]byte{}, join...), 0),
		"short meta":       meta[:10],
		"string overflows": {1, 0xff, 0xff, 0xff, 0xff, 'a'},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := DecodeInstruction(data)
			require.ErrorIs(t, err, ErrMalformedInstruction)
		})
	}
}

func TestDecodeInstructionDeterministic(t *testing.T) {
	b, err := UpdateRaceMeta{Name: "same", Date: 7}.MarshalBinary()
	require.NoError(t, err)

	first, err := DecodeInstruction(b)
	require.NoError(t, err)
	second, err := DecodeInstruction(b)
	require.NoError(t, err)
	require.Equal(t, first, second)
}

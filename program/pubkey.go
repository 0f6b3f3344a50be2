package program

import (
	"fmt"

	"github.com/mr-tron/base58"
)

// PubkeySize is the length in bytes of an identity.
const PubkeySize = 32

// Pubkey identifies a program, an account or a player.
type Pubkey [PubkeySize]byte

// ParsePubkey decodes the base58 text form of an identity.
func ParsePubkey(s string) (Pubkey, error) {
	var pk Pubkey
	b, err := base58.Decode(s)
	if err != nil {
		return pk, fmt.Errorf("parse pubkey %q: %w", s, err)
	}
	if len(b) != PubkeySize {
		return pk, fmt.Errorf("parse pubkey %q: got %d bytes, want %d", s, len(b), PubkeySize)
	}
	copy(pk[:], b)
	return pk, nil
}

func (pk Pubkey) String() string {
	return base58.Encode(pk[:])
}

func (pk Pubkey) IsZero() bool {
	return pk == Pubkey{}
}

func (pk Pubkey) MarshalText() ([]byte, error) {
	return []byte(pk.String()), nil
}

func (pk *Pubkey) UnmarshalText(text []byte) error {
	parsed, err := ParsePubkey(string(text))
	if err != nil {
		return err
	}
	*pk = parsed
	return nil
}

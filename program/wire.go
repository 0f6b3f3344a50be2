package program

import (
	"encoding/binary"
	"errors"
	"fmt"
	"unicode/utf8"
)

// The wire format is Borsh: little-endian fixed-width integers, strings and
// sequences prefixed with a u32 length, options tagged with a single byte.

var errShortBuffer = errors.New("unexpected end of buffer")

type encoder struct {
	buf []byte
}

func (e *encoder) u8(v uint8) {
	e.buf = append(e.buf, v)
}

func (e *encoder) u16(v uint16) {
	e.buf = binary.LittleEndian.AppendUint16(e.buf, v)
}

func (e *encoder) u32(v uint32) {
	e.buf = binary.LittleEndian.AppendUint32(e.buf, v)
}

func (e *encoder) u64(v uint64) {
	e.buf = binary.LittleEndian.AppendUint64(e.buf, v)
}

func (e *encoder) str(s string) {
	e.u32(uint32(len(s)))
	e.buf = append(e.buf, s...)
}

func (e *encoder) pubkey(pk Pubkey) {
	e.buf = append(e.buf, pk[:]...)
}

func (e *encoder) player(p Player) {
	e.pubkey(p.Address)
	e.u8(p.Slot)
}

type decoder struct {
	buf []byte
	off int
}

func (d *decoder) take(n int) ([]byte, error) {
	if n < 0 || len(d.buf)-d.off < n {
		return nil, fmt.Errorf("read %d bytes at offset %d: %w", n, d.off, errShortBuffer)
	}
	b := d.buf[d.off : d.off+n]
	d.off += n
	return b, nil
}

func (d *decoder) u8() (uint8, error) {
	b, err := d.take(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (d *decoder) u16() (uint16, error) {
	b, err := d.take(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

func (d *decoder) u32() (uint32, error) {
	b, err := d.take(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (d *decoder) u64() (uint64, error) {
	b, err := d.take(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

func (d *decoder) str() (string, error) {
	n, err := d.u32()
	if err != nil {
		return "", err
	}
	if uint64(n) > uint64(d.remaining()) {
		return "", fmt.Errorf("string of %d bytes at offset %d: %w", n, d.off, errShortBuffer)
	}
	b, err := d.take(int(n))
	if err != nil {
		return "", err
	}
	if !utf8.Valid(b) {
		return "", fmt.Errorf("string at offset %d is not valid utf-8", d.off-int(n))
	}
	return string(b), nil
}

func (d *decoder) pubkey() (Pubkey, error) {
	var pk Pubkey
	b, err := d.take(PubkeySize)
	if err != nil {
		return pk, err
	}
	copy(pk[:], b)
	return pk, nil
}

func (d *decoder) player() (Player, error) {
	addr, err := d.pubkey()
	if err != nil {
		return Player{}, err
	}
	slot, err := d.u8()
	if err != nil {
		return Player{}, err
	}
	return Player{Address: addr, Slot: slot}, nil
}

// option reads a Borsh option tag.
func (d *decoder) option() (bool, error) {
	tag, err := d.u8()
	if err != nil {
		return false, err
	}
	switch tag {
	case 0:
		return false, nil
	case 1:
		return true, nil
	}
	return false, fmt.Errorf("invalid option tag %d at offset %d", tag, d.off-1)
}

func (d *decoder) remaining() int {
	return len(d.buf) - d.off
}

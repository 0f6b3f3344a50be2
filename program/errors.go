package program

import "errors"

// Errors returned by the race program. Handlers wrap them with context, so
// compare with errors.Is.
var (
	ErrPlayerAlreadyExists     = errors.New("player already exists")
	ErrSlotNotAvailable        = errors.New("slot not available")
	ErrMalformedInstruction    = errors.New("malformed instruction")
	ErrMissingAccount          = errors.New("missing account")
	ErrUnauthorizedOwner       = errors.New("account is not owned by the race program")
	ErrRecordDecode            = errors.New("race record decode failure")
	ErrStorageCapacityExceeded = errors.New("race record exceeds account capacity")
)

// Codes are stable across releases. The roster errors keep the values the
// on-ledger program has always reported.
var codes = []error{
	ErrPlayerAlreadyExists,
	ErrSlotNotAvailable,
	ErrMalformedInstruction,
	ErrMissingAccount,
	ErrUnauthorizedOwner,
	ErrRecordDecode,
	ErrStorageCapacityExceeded,
}

// Code returns the numeric error code for err and false when err is not a
// program error.
func Code(err error) (uint32, bool) {
	for i, e := range codes {
		if errors.Is(err, e) {
			return uint32(i), true
		}
	}
	return 0, false
}

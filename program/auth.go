package program

import "fmt"

// AccountInfo is the host's view of one account for a single invocation.
// Data is the account's storage slot; its length is the slot capacity.
type AccountInfo struct {
	Key   Pubkey
	Owner Pubkey
	Data  []byte
}

// checkOwner fails unless account is owned by programID. It must run before
// the account data is decoded.
func checkOwner(programID Pubkey, account *AccountInfo) error {
	if account.Owner != programID {
		return fmt.Errorf("%w: account %s owned by %s", ErrUnauthorizedOwner, account.Key, account.Owner)
	}
	return nil
}

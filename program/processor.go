// Package program implements the race program: it decodes instructions,
// checks account ownership and applies race record transitions to an
// account's storage slot.
package program

import (
	"go.uber.org/zap"
)

// Processor is the entry point of the race program. It keeps no state
// between calls.
type Processor struct {
	programID Pubkey
	log       *zap.Logger
}

// NewProcessor returns a Processor that only mutates accounts owned by
// programID.
func NewProcessor(programID Pubkey, log *zap.Logger) *Processor {
	if log == nil {
		log = zap.NewNop()
	}
	return &Processor{programID: programID, log: log.Named("race")}
}

// ProgramID returns the identity accounts must be owned by.
func (p *Processor) ProgramID() Pubkey {
	return p.programID
}

// Process runs one instruction against the first account. The account data
// is only written when the transition succeeds and the new record fits.
func (p *Processor) Process(accounts []*AccountInfo, data []byte) error {
	p.log.Debug("race program entrypoint")

	in, err := DecodeInstruction(data)
	if err != nil {
		return err
	}
	if len(accounts) == 0 || accounts[0] == nil {
		return ErrMissingAccount
	}
	account := accounts[0]

	if err := checkOwner(p.programID, account); err != nil {
		p.log.Warn("race account does not have the correct program id",
			zap.Stringer("account", account.Key), zap.Stringer("owner", account.Owner))
		return err
	}

	record, err := DecodeRecord(account.Data)
	if err != nil {
		return err
	}

	fields := []zap.Field{zap.Stringer("instruction", in), zap.Stringer("account", account.Key)}
	switch in := in.(type) {
	case UpdateRaceMeta:
		fields = append(fields, zap.String("current_name", record.Name), zap.String("name", in.Name))
	case UpdateGameInfo:
		fields = append(fields, zap.String("game_url", in.GameURL))
	case JoinRace:
		fields = append(fields, zap.Stringer("player", in.Player.Address), zap.Uint8("slot", in.Player.Slot))
	}
	p.log.Info("instruction", fields...)

	next, err := Apply(*record, in)
	if err != nil {
		p.log.Info("instruction rejected", append(fields, zap.Error(err))...)
		return err
	}
	return next.Store(account.Data)
}

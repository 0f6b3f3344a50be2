package handlers

import (
	"context"

	"github.com/uptrace/bun"
	"go.uber.org/zap"

	"github.com/padraicbc/raceprogram/program"
)

// AccountStore gives handlers access to race accounts. Invoke must run fn
// with exclusive access to the account and persist its slot only when fn
// returns nil.
type AccountStore interface {
	Get(ctx context.Context, key program.Pubkey) (*program.AccountInfo, error)
	Invoke(ctx context.Context, key program.Pubkey, fn func(*program.AccountInfo) error) error
}

// Handler holds shared dependencies used by all route handlers.
type Handler struct {
	db        *bun.DB
	accounts  AccountStore
	processor *program.Processor
	log       *zap.Logger
	JWTKey    []byte
}

// New creates a Handler. db is only used for user sign in.
func New(db *bun.DB, accounts AccountStore, processor *program.Processor, log *zap.Logger, jwtKey []byte) *Handler {
	return &Handler{db: db, accounts: accounts, processor: processor, log: log, JWTKey: jwtKey}
}

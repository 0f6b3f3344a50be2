package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun"

	"github.com/padraicbc/raceprogram/models"
	"github.com/padraicbc/raceprogram/program"
)

// AccountStore serves race accounts out of the accounts table.
type AccountStore struct {
	db *bun.DB
}

// NewAccountStore returns an AccountStore backed by db.
func NewAccountStore(db *bun.DB) *AccountStore {
	return &AccountStore{db: db}
}

// Get returns a snapshot of the account stored under key.
func (s *AccountStore) Get(ctx context.Context, key program.Pubkey) (*program.AccountInfo, error) {
	acc, err := selectAccount(ctx, s.db.NewSelect(), key)
	if err != nil {
		return nil, err
	}
	return AccountInfo(acc)
}

// Invoke locks the account row, passes the account to fn and writes the
// slot back when fn succeeds. Any error rolls the transaction back, so the
// stored slot is either the complete result of fn or what it was before.
func (s *AccountStore) Invoke(ctx context.Context, key program.Pubkey, fn func(*program.AccountInfo) error) error {
	return s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		acc, err := selectAccount(ctx, tx.NewSelect().For("UPDATE"), key)
		if err != nil {
			return err
		}
		info, err := AccountInfo(acc)
		if err != nil {
			return err
		}
		if err := fn(info); err != nil {
			return err
		}
		if len(info.Data) != len(acc.Data) {
			return fmt.Errorf("account %s: slot resized from %d to %d bytes", key, len(acc.Data), len(info.Data))
		}

		_, err = tx.NewUpdate().
			Model((*models.Account)(nil)).
			Set("data = ?", info.Data).
			Set("updated_at = current_timestamp").
			Where("key = ?", acc.Key).
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("writing account %s: %w", key, err)
		}
		return nil
	})
}

func selectAccount(ctx context.Context, q *bun.SelectQuery, key program.Pubkey) (*models.Account, error) {
	acc := &models.Account{}
	err := q.Model(acc).Where("key = ?", key.String()).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", program.ErrMissingAccount, key)
		}
		return nil, fmt.Errorf("loading account %s: %w", key, err)
	}
	return acc, nil
}

// AccountInfo converts a stored row into the program's view of it.
func AccountInfo(acc *models.Account) (*program.AccountInfo, error) {
	key, err := program.ParsePubkey(acc.Key)
	if err != nil {
		return nil, fmt.Errorf("account %d key: %w", acc.ID, err)
	}
	owner, err := program.ParsePubkey(acc.Owner)
	if err != nil {
		return nil, fmt.Errorf("account %s owner: %w", acc.Key, err)
	}
	return &program.AccountInfo{Key: key, Owner: owner, Data: acc.Data}, nil
}

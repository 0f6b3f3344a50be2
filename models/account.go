package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Account mirrors one ledger account: its identity, owning program and
// storage slot. The slot length is the account's capacity and never changes
// once the row exists.
type Account struct {
	bun.BaseModel `bun:"table:accounts,alias:a"`

	ID        int       `bun:"id,pk,autoincrement" json:"id"`
	Key       string    `bun:"key,notnull,unique" json:"key"`
	Owner     string    `bun:"owner,notnull" json:"owner"`
	Data      []byte    `bun:"data,notnull,type:bytea" json:"-"`
	UpdatedAt time.Time `bun:"updated_at,notnull,default:current_timestamp" json:"updatedAt"`
}

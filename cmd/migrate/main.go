// cmd/migrate/main.go
// Imports race account snapshots and API users from a legacy MySQL mirror
// into the local PostgreSQL database. Accounts are copied byte for byte;
// slots that would not hold a full race are reported but still imported.
//
// Usage:
//
//	MYSQL_DSN="user:pass@tcp(host:3306)/ledger?parseTime=true" \
//	DB_PASS="pgpass" PROGRAM_ID="..." \
//	go run ./cmd/migrate
package main

import (
	"context"
	"database/sql"
	"errors"

	_ "github.com/go-sql-driver/mysql"
	"github.com/uptrace/bun"
	"go.uber.org/zap"

	"github.com/padraicbc/raceprogram/config"
	bundb "github.com/padraicbc/raceprogram/db"
	applog "github.com/padraicbc/raceprogram/logger"
	"github.com/padraicbc/raceprogram/models"
	"github.com/padraicbc/raceprogram/program"
)

const batchSize = 500

func main() {
	ctx := context.Background()

	cfg := config.Load()
	logger, err := applog.New(cfg.Debug)
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	// --- MySQL ---
	if cfg.MySQLDSN == "" {
		logger.Fatal("MYSQL_DSN required, e.g.: user:pass@tcp(host:3306)/ledger?parseTime=true")
	}
	myDB, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		logger.Fatal("open mysql", zap.Error(err))
	}
	defer myDB.Close()
	myDB.SetMaxOpenConns(4)
	if err := myDB.PingContext(ctx); err != nil {
		logger.Fatal("ping mysql", zap.Error(err))
	}
	logger.Info("connected to MySQL")

	// --- PostgreSQL ---
	pgDB := bundb.Setup(cfg)
	defer pgDB.Close()
	logger.Info("connected to PostgreSQL")

	if err := bundb.CreateTables(ctx, pgDB); err != nil {
		logger.Fatal("create tables", zap.Error(err))
	}

	check := &slotCheck{programID: cfg.ProgramID, slotSize: cfg.SlotSize(), log: logger}
	steps := []struct {
		name string
		fn   func() (int, error)
	}{
		{"users", func() (int, error) { return migrateUsers(ctx, myDB, pgDB) }},
		{"accounts", func() (int, error) { return migrateAccounts(ctx, myDB, pgDB, check) }},
	}

	for _, s := range steps {
		n, err := s.fn()
		if err != nil {
			logger.Fatal("migrate", zap.String("step", s.name), zap.Error(err))
		}
		logger.Info("rows migrated", zap.String("step", s.name), zap.Int("rows", n))
	}

	resetSequences(ctx, pgDB, logger)
	logger.Info("migration complete",
		zap.Int("undersized_slots", check.undersized),
		zap.Int("undecodable_races", check.undecodable))
}

// bulkInsert inserts a batch, skipping rows that already exist (idempotent re-runs).
func bulkInsert[T any](ctx context.Context, pgDB *bun.DB, rows []T) error {
	if len(rows) == 0 {
		return nil
	}
	_, err := pgDB.NewInsert().Model(&rows).On("CONFLICT DO NOTHING").Exec(ctx)
	return err
}

// slotCheck reports imported race accounts that the program cannot serve
// as-is: slots too small for a full race and slots that do not decode.
type slotCheck struct {
	programID   program.Pubkey
	slotSize    int
	log         *zap.Logger
	undersized  int
	undecodable int
}

// inspect validates an imported row. Only keys are mandatory; slot problems
// are logged and counted.
func (s *slotCheck) inspect(acc *models.Account) error {
	info, err := bundb.AccountInfo(acc)
	if err != nil {
		return err
	}
	if info.Owner != s.programID {
		return nil
	}
	if len(info.Data) < s.slotSize {
		s.undersized++
		s.log.Warn("race slot smaller than a full race",
			zap.Stringer("account", info.Key), zap.Int("size", len(info.Data)), zap.Int("want", s.slotSize))
	}
	if _, err := program.DecodeRecord(info.Data); err != nil {
		s.undecodable++
		s.log.Warn("race slot does not decode", zap.Stringer("account", info.Key), zap.Error(err))
	}
	return nil
}

// --- per-table migrations ---

func migrateUsers(ctx context.Context, myDB *sql.DB, pgDB *bun.DB) (int, error) {
	rows, err := myDB.QueryContext(ctx, "SELECT id, username, password FROM users")
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	var batch []models.User
	total := 0
	for rows.Next() {
		var r models.User
		if err := rows.Scan(&r.ID, &r.Username, &r.Password); err != nil {
			return total, err
		}
		batch = append(batch, r)
		if len(batch) >= batchSize {
			if err := bulkInsert(ctx, pgDB, batch); err != nil {
				return total, err
			}
			total += len(batch)
			batch = batch[:0]
		}
	}
	if err := bulkInsert(ctx, pgDB, batch); err != nil {
		return total, err
	}
	return total + len(batch), rows.Err()
}

func migrateAccounts(ctx context.Context, myDB *sql.DB, pgDB *bun.DB, check *slotCheck) (int, error) {
	rows, err := myDB.QueryContext(ctx, "SELECT pubkey, owner, data FROM accounts")
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	var batch []models.Account
	total := 0
	for rows.Next() {
		var r models.Account
		if err := rows.Scan(&r.Key, &r.Owner, &r.Data); err != nil {
			return total, err
		}
		if err := check.inspect(&r); err != nil {
			return total, errors.Join(errors.New("invalid account row"), err)
		}
		batch = append(batch, r)
		if len(batch) >= batchSize {
			if err := bulkInsert(ctx, pgDB, batch); err != nil {
				return total, err
			}
			total += len(batch)
			batch = batch[:0]
		}
	}
	if err := bulkInsert(ctx, pgDB, batch); err != nil {
		return total, err
	}
	return total + len(batch), rows.Err()
}

// resetSequences advances each PG sequence to MAX(id) so new inserts don't conflict.
func resetSequences(ctx context.Context, pgDB *bun.DB, logger *zap.Logger) {
	seqs := []struct{ seq, table, col string }{
		{"users_id_seq", "users", "id"},
		{"accounts_id_seq", "accounts", "id"},
	}
	for _, s := range seqs {
		_, err := pgDB.ExecContext(ctx,
			"SELECT setval(?, COALESCE((SELECT MAX(?) FROM ?), 1))",
			s.seq, bun.Ident(s.col), bun.Ident(s.table))
		if err != nil {
			logger.Warn("reset sequence", zap.String("seq", s.seq), zap.Error(err))
		}
	}
	logger.Info("sequences reset")
}

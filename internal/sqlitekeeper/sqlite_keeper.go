package sqlitekeeper

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

type Log interface {
	Info(string, ...zap.Field)
	Error(string, ...zap.Field)
}

const schema = `
	CREATE TABLE IF NOT EXISTS cart_slots (
		key        TEXT PRIMARY KEY,
		value      TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)
`

// SQLiteKeeper stores cart slots in a local SQLite file.
type SQLiteKeeper struct {
	db  *sql.DB
	log Log
}

func NewSQLiteKeeper(ctx context.Context, path func() string, log Log) *SQLiteKeeper {
	p := path()
	if p == "" {
		log.Error("sqlite path is empty")
		return nil
	}

	db, err := sql.Open("sqlite", p)
	if err != nil {
		log.Error("Unable to open sqlite database: ", zap.Error(err))
		return nil
	}
	// a single writer avoids SQLITE_BUSY between pooled connections
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		log.Error("Unable to create cart_slots table: ", zap.Error(err))
		_ = db.Close()
		return nil
	}

	log.Info("SQLite opened", zap.String("path", p))
	return &SQLiteKeeper{db: db, log: log}
}

func (kp *SQLiteKeeper) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := kp.db.QueryRowContext(ctx, `SELECT value FROM cart_slots WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read slot %q: %w", key, err)
	}
	return value, true, nil
}

func (kp *SQLiteKeeper) Set(ctx context.Context, key, value string) error {
	stmt := `
		INSERT INTO cart_slots (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`
	if _, err := kp.db.ExecContext(ctx, stmt, key, value, time.Now().UTC().Format(time.RFC3339Nano)); err != nil {
		return fmt.Errorf("failed to write slot %q: %w", key, err)
	}
	return nil
}

func (kp *SQLiteKeeper) Ping(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := kp.db.PingContext(ctx); err != nil {
		kp.log.Error("SQLite ping failed", zap.Error(err))
		return false
	}
	return true
}

func (kp *SQLiteKeeper) Close() bool {
	if err := kp.db.Close(); err != nil {
		kp.log.Error("Failed to close sqlite database", zap.Error(err))
		return false
	}
	kp.log.Info("SQLite database closed")
	return true
}

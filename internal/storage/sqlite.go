package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"github.com/seva-innovations/storefront-vault/internal/common"
	"github.com/seva-innovations/storefront-vault/internal/dbx"
	"github.com/seva-innovations/storefront-vault/internal/storage/migrations"
)

// SQLiteStore is the persistent Store. Each region is one row in a
// key/value table. Unlike the localStorage original (last-write-wins),
// Update runs inside a transaction, so concurrent read-modify-write
// cycles on the same region cannot lose writes.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the store at dsn and applies
// pending schema migrations.
func OpenSQLite(ctx context.Context, dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open store %q: %w", dsn, err)
	}
	// modernc sqlite misbehaves with concurrent writers on one connection pool
	db.SetMaxOpenConns(1)

	if err := runMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &SQLiteStore{db: db}, nil
}

func runMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}
	if err := goose.UpContext(ctx, db, "."); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Get(ctx context.Context, key string) ([]byte, error) {
	return getRegion(ctx, s.db, key)
}

func getRegion(ctx context.Context, db dbx.DBTX, key string) ([]byte, error) {
	var value []byte
	err := db.QueryRowContext(ctx, `SELECT value FROM storage WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, storeErr("get", key, err)
	}
	return value, nil
}

func (s *SQLiteStore) Set(ctx context.Context, key string, value []byte) error {
	return setRegion(ctx, s.db, key, value)
}

func setRegion(ctx context.Context, db dbx.DBTX, key string, value []byte) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO storage (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		return storeErr("set", key, err)
	}
	return nil
}

func (s *SQLiteStore) Delete(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM storage WHERE key = ?`, key)
	if err != nil {
		return storeErr("delete", key, err)
	}
	return nil
}

func (s *SQLiteStore) Update(ctx context.Context, key string, fn func(old []byte) ([]byte, error)) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		old, err := getRegion(ctx, tx, key)
		if err != nil {
			return err
		}
		next, err := fn(old)
		if err != nil {
			return err
		}
		if next == nil {
			if _, err := tx.ExecContext(ctx, `DELETE FROM storage WHERE key = ?`, key); err != nil {
				return storeErr("delete", key, err)
			}
			return nil
		}
		return setRegion(ctx, tx, key, next)
	})
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func storeErr(op, key string, err error) error {
	return fmt.Errorf("failed to %s region %q: %w: %w", op, key, common.ErrStorageFailure, err)
}

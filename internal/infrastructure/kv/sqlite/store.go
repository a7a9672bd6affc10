// Package sqlite keeps key-value namespaces in a single SQLite database file.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"golang.org/x/exp/slog"

	"funkokeeper/internal/infrastructure/kv"
	"funkokeeper/internal/infrastructure/migration"
)

type Store struct {
	db  *sql.DB
	log *slog.Logger
}

var _ kv.Store = (*Store)(nil)

// New opens the database at path and applies the kv schema.
func New(path string, log *slog.Logger) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("sqlite store: empty path")
	}

	mg := migration.NewMigration(migration.DialectSQLite, "sqlite3://"+path, nil)
	if err := mg.Up(); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on&_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// One writer at a time; SQLite serializes writes anyway.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	return &Store{
		db:  db,
		log: log.With("component", "sqlite_kv"),
	}, nil
}

func (s *Store) EnsureNamespace(ctx context.Context, ns string) error {
	if err := kv.ValidateName(ns); err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO kv_namespaces (name) VALUES (?) ON CONFLICT(name) DO NOTHING`, ns); err != nil {
		return fmt.Errorf("ensure namespace %q: %w", ns, err)
	}
	return nil
}

func (s *Store) HasNamespace(ctx context.Context, ns string) (bool, error) {
	if err := kv.ValidateName(ns); err != nil {
		return false, err
	}
	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM kv_namespaces WHERE name = ?)`, ns).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check namespace %q: %w", ns, err)
	}
	return exists, nil
}

func (s *Store) Get(ctx context.Context, ns, key string) ([]byte, error) {
	if err := kv.ValidateNames(ns, key); err != nil {
		return nil, err
	}
	var value []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM kv_entries WHERE namespace = ? AND key = ?`, ns, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, kv.ErrKeyNotFound
		}
		return nil, fmt.Errorf("get %s/%s: %w", ns, key, err)
	}
	return value, nil
}

func (s *Store) Put(ctx context.Context, ns, key string, value []byte) error {
	if err := kv.ValidateNames(ns, key); err != nil {
		return err
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO kv_namespaces (name) VALUES (?) ON CONFLICT(name) DO NOTHING`, ns); err != nil {
		return fmt.Errorf("ensure namespace %q: %w", ns, err)
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO kv_entries (namespace, key, value, updated_at)
		VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(namespace, key) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at`, ns, key, value); err != nil {
		return fmt.Errorf("put %s/%s: %w", ns, key, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, ns, key string) (bool, error) {
	if err := kv.ValidateNames(ns, key); err != nil {
		return false, err
	}
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM kv_entries WHERE namespace = ? AND key = ?`, ns, key)
	if err != nil {
		return false, fmt.Errorf("delete %s/%s: %w", ns, key, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete %s/%s: %w", ns, key, err)
	}
	return n > 0, nil
}

func (s *Store) ListKeys(ctx context.Context, ns string) ([]string, error) {
	ok, err := s.HasNamespace(ctx, ns)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, kv.ErrNamespaceNotFound
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT key FROM kv_entries WHERE namespace = ? ORDER BY key`, ns)
	if err != nil {
		return nil, fmt.Errorf("list namespace %q: %w", ns, err)
	}
	defer rows.Close()

	keys := make([]string, 0)
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		keys = append(keys, k)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list namespace %q: %w", ns, err)
	}
	return keys, nil
}

func (s *Store) Close() error {
	s.log.Debug("closing sqlite store")
	return s.db.Close()
}

// Package postgres keeps key-value namespaces in PostgreSQL tables.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/exp/slog"

	"funkokeeper/internal/infrastructure/kv"
	"funkokeeper/internal/infrastructure/migration"
)

type Store struct {
	pool *pgxpool.Pool
	log  *slog.Logger
}

var _ kv.Store = (*Store)(nil)

// New connects to databaseURI and applies the kv schema.
func New(ctx context.Context, databaseURI string, log *slog.Logger) (*Store, error) {
	mg := migration.NewMigration(migration.DialectPostgres, databaseURI, nil)
	if err := mg.Up(); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	pool, err := pgxpool.New(ctx, databaseURI)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return &Store{
		pool: pool,
		log:  log.With("component", "postgres_kv"),
	}, nil
}

func (s *Store) EnsureNamespace(ctx context.Context, ns string) error {
	if err := kv.ValidateName(ns); err != nil {
		return err
	}
	if _, err := s.pool.Exec(ctx,
		`INSERT INTO kv_namespaces (name) VALUES ($1) ON CONFLICT (name) DO NOTHING`, ns); err != nil {
		return fmt.Errorf("ensure namespace %q: %w", ns, err)
	}
	return nil
}

func (s *Store) HasNamespace(ctx context.Context, ns string) (bool, error) {
	if err := kv.ValidateName(ns); err != nil {
		return false, err
	}
	var exists bool
	err := s.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM kv_namespaces WHERE name = $1)`, ns).Scan(&exists)
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
	err := s.pool.QueryRow(ctx,
		`SELECT value FROM kv_entries WHERE namespace = $1 AND key = $2`, ns, key).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, kv.ErrKeyNotFound
		}
		s.log.Error("failed to get entry", "namespace", ns, "key", key, "error", err)
		return nil, fmt.Errorf("get %s/%s: %w", ns, key, err)
	}
	return value, nil
}

func (s *Store) Put(ctx context.Context, ns, key string, value []byte) error {
	if err := kv.ValidateNames(ns, key); err != nil {
		return err
	}
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx,
		`INSERT INTO kv_namespaces (name) VALUES ($1) ON CONFLICT (name) DO NOTHING`, ns); err != nil {
		return fmt.Errorf("ensure namespace %q: %w", ns, err)
	}
	if _, err := tx.Exec(ctx, `
		INSERT INTO kv_entries (namespace, key, value, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (namespace, key) DO UPDATE SET
			value = EXCLUDED.value,
			updated_at = EXCLUDED.updated_at`, ns, key, value); err != nil {
		s.log.Error("failed to put entry", "namespace", ns, "key", key, "error", err)
		return fmt.Errorf("put %s/%s: %w", ns, key, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, ns, key string) (bool, error) {
	if err := kv.ValidateNames(ns, key); err != nil {
		return false, err
	}
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM kv_entries WHERE namespace = $1 AND key = $2`, ns, key)
	if err != nil {
		return false, fmt.Errorf("delete %s/%s: %w", ns, key, err)
	}
	return tag.RowsAffected() > 0, nil
}

func (s *Store) ListKeys(ctx context.Context, ns string) ([]string, error) {
	ok, err := s.HasNamespace(ctx, ns)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, kv.ErrNamespaceNotFound
	}

	rows, err := s.pool.Query(ctx,
		`SELECT key FROM kv_entries WHERE namespace = $1 ORDER BY key`, ns)
	if err != nil {
		return nil, fmt.Errorf("list namespace %q: %w", ns, err)
	}
	keys, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("list namespace %q: %w", ns, err)
	}
	return keys, nil
}

func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

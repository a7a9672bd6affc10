package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/exp/slog"

	"funkokeeper/internal/infrastructure/kv"
	"funkokeeper/internal/infrastructure/kv/fs"
	"funkokeeper/internal/infrastructure/kv/memory"
	"funkokeeper/internal/infrastructure/kv/postgres"
	"funkokeeper/internal/infrastructure/kv/sqlite"
)

const (
	DriverFS       = "fs"
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Options selects and configures a kv backend.
type Options struct {
	Driver      string
	DataRoot    string
	DatabaseURI string
}

// Open returns the kv backend described by opts.
func Open(ctx context.Context, opts Options, log *slog.Logger) (kv.Store, error) {
	switch opts.Driver {
	case DriverFS, "":
		return fs.New(opts.DataRoot)
	case DriverMemory:
		return memory.New(), nil
	case DriverSQLite:
		path := opts.DatabaseURI
		if path == "" {
			path = filepath.Join(opts.DataRoot, "funko.db")
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create sqlite directory: %w", err)
		}
		return sqlite.New(path, log)
	case DriverPostgres:
		return postgres.New(ctx, opts.DatabaseURI, log)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", opts.Driver)
	}
}

package postgres

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"

	"funkokeeper/internal/infrastructure/kv"
	"funkokeeper/internal/infrastructure/kv/kvtest"
)

// prefixed isolates each sub-test inside a shared database.
type prefixed struct {
	kv.Store
	prefix string
}

func (p prefixed) EnsureNamespace(ctx context.Context, ns string) error {
	return p.Store.EnsureNamespace(ctx, p.name(ns))
}

func (p prefixed) HasNamespace(ctx context.Context, ns string) (bool, error) {
	return p.Store.HasNamespace(ctx, p.name(ns))
}

func (p prefixed) Get(ctx context.Context, ns, key string) ([]byte, error) {
	return p.Store.Get(ctx, p.name(ns), key)
}

func (p prefixed) Put(ctx context.Context, ns, key string, value []byte) error {
	return p.Store.Put(ctx, p.name(ns), key, value)
}

func (p prefixed) Delete(ctx context.Context, ns, key string) (bool, error) {
	return p.Store.Delete(ctx, p.name(ns), key)
}

func (p prefixed) ListKeys(ctx context.Context, ns string) ([]string, error) {
	return p.Store.ListKeys(ctx, p.name(ns))
}

// name keeps invalid names invalid so validation is still exercised.
func (p prefixed) name(ns string) string {
	if kv.ValidateName(ns) != nil {
		return ns
	}
	return p.prefix + ns
}

func TestStore(t *testing.T) {
	uri := os.Getenv("TEST_DATABASE_URI")
	if uri == "" {
		t.Skip("TEST_DATABASE_URI is not set")
	}

	s, err := New(context.Background(), uri, slog.Default())
	require.NoError(t, err)
	defer s.Close()

	kvtest.Run(t, func(t *testing.T) kv.Store {
		return prefixed{Store: s, prefix: uuid.NewString() + "-"}
	})
}

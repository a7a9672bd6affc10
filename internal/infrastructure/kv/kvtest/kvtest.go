// Package kvtest holds behaviour checks shared by every kv.Store backend.
package kvtest

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"funkokeeper/internal/infrastructure/kv"
)

// Run exercises a fresh store returned by newStore for every sub-test.
func Run(t *testing.T, newStore func(t *testing.T) kv.Store) {
	t.Helper()

	t.Run("PutGetRoundTrip", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		require.NoError(t, s.Put(ctx, "alice", "1", []byte(`{"id":1}`)))
		got, err := s.Get(ctx, "alice", "1")
		require.NoError(t, err)
		assert.Equal(t, `{"id":1}`, string(got))

		require.NoError(t, s.Put(ctx, "alice", "1", []byte(`{"id":1,"name":"X"}`)))
		got, err = s.Get(ctx, "alice", "1")
		require.NoError(t, err)
		assert.Equal(t, `{"id":1,"name":"X"}`, string(got))
	})

	t.Run("GetMissingKey", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		_, err := s.Get(ctx, "alice", "1")
		assert.ErrorIs(t, err, kv.ErrKeyNotFound)

		require.NoError(t, s.EnsureNamespace(ctx, "alice"))
		_, err = s.Get(ctx, "alice", "1")
		assert.ErrorIs(t, err, kv.ErrKeyNotFound)
	})

	t.Run("NamespaceAbsentVersusEmpty", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		ok, err := s.HasNamespace(ctx, "bob")
		require.NoError(t, err)
		assert.False(t, ok)
		_, err = s.ListKeys(ctx, "bob")
		assert.ErrorIs(t, err, kv.ErrNamespaceNotFound)

		require.NoError(t, s.EnsureNamespace(ctx, "bob"))
		require.NoError(t, s.EnsureNamespace(ctx, "bob"))
		ok, err = s.HasNamespace(ctx, "bob")
		require.NoError(t, err)
		assert.True(t, ok)
		keys, err := s.ListKeys(ctx, "bob")
		require.NoError(t, err)
		assert.Empty(t, keys)
	})

	t.Run("DeleteKeepsNamespace", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		require.NoError(t, s.Put(ctx, "carol", "7", []byte("x")))
		deleted, err := s.Delete(ctx, "carol", "7")
		require.NoError(t, err)
		assert.True(t, deleted)

		deleted, err = s.Delete(ctx, "carol", "7")
		require.NoError(t, err)
		assert.False(t, deleted)

		ok, err := s.HasNamespace(ctx, "carol")
		require.NoError(t, err)
		assert.True(t, ok)
		keys, err := s.ListKeys(ctx, "carol")
		require.NoError(t, err)
		assert.Empty(t, keys)
	})

	t.Run("ListKeysSortedAndScoped", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		for _, k := range []string{"3", "1", "2"} {
			require.NoError(t, s.Put(ctx, "dave", k, []byte(k)))
		}
		require.NoError(t, s.Put(ctx, "erin", "9", []byte("9")))

		keys, err := s.ListKeys(ctx, "dave")
		require.NoError(t, err)
		assert.Equal(t, []string{"1", "2", "3"}, keys)
	})

	t.Run("RejectsInvalidNames", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		for _, name := range []string{"", "..", "a/b", `a\b`} {
			err := s.Put(ctx, name, "1", []byte("x"))
			assert.ErrorIs(t, err, kv.ErrInvalidName, "namespace %q", name)
			err = s.Put(ctx, "ok", name, []byte("x"))
			assert.ErrorIs(t, err, kv.ErrInvalidName, "key %q", name)
		}
	})

	t.Run("ConcurrentPuts", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		var wg sync.WaitGroup
		for i := 1; i <= 16; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				assert.NoError(t, s.Put(ctx, "frank", fmt.Sprint(i), []byte(fmt.Sprint(i))))
			}(i)
		}
		wg.Wait()

		keys, err := s.ListKeys(ctx, "frank")
		require.NoError(t, err)
		assert.Len(t, keys, 16)
	})
}

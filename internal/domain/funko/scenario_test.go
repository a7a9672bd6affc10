package funko_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"

	"funkokeeper/internal/domain/funko"
	"funkokeeper/internal/infrastructure/kv/memory"
	"funkokeeper/internal/infrastructure/storage"
)

func newService() (*funko.Service, *storage.FunkoRepository) {
	repo := storage.NewFunkoRepository(memory.New(), slog.Default())
	return funko.NewService(repo, slog.Default()), repo
}

func strPtr(s string) *string { return &s }

func aliceFunko() funko.Funko {
	return funko.Funko{
		ID:          1,
		Name:        "Darth Vader",
		Description: "Sith lord",
		Type:        funko.TypePopStarWars,
		Genre:       funko.GenreStarWars,
		Franchise:   "Star Wars",
		Number:      1,
		MarketValue: 50,
	}
}

func TestLifecycle(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	_, err := svc.Add(ctx, "alice", aliceFunko())
	require.NoError(t, err)

	got, err := svc.Read(ctx, "alice", 1)
	require.NoError(t, err)
	assert.Equal(t, 1, got.ID)

	_, err = svc.Update(ctx, "alice", 1, funko.Patch{Name: strPtr("X")})
	require.NoError(t, err)

	got, err = svc.Read(ctx, "alice", 1)
	require.NoError(t, err)
	assert.Equal(t, "X", got.Name)
	assert.Equal(t, 50.0, got.MarketValue)

	require.NoError(t, svc.Remove(ctx, "alice", 1))

	_, err = svc.Read(ctx, "alice", 1)
	assert.ErrorIs(t, err, funko.ErrNotFound)

	// The collection survives its last funko
	res, err := svc.List(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, res.Empty)
}

func TestAdd_SameIDDifferentUsers(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	_, err := svc.Add(ctx, "alice", aliceFunko())
	require.NoError(t, err)

	_, err = svc.Add(ctx, "alice", aliceFunko())
	assert.ErrorIs(t, err, funko.ErrConflict)

	_, err = svc.Add(ctx, "bob", aliceFunko())
	assert.NoError(t, err)
}

func TestAdd_InvalidMarketValueCreatesNothing(t *testing.T) {
	svc, repo := newService()
	ctx := context.Background()

	f := aliceFunko()
	f.MarketValue = -5
	_, err := svc.Add(ctx, "bob", f)
	assert.ErrorIs(t, err, funko.ErrValidation)
	assert.Contains(t, err.Error(), "market value")

	ok, err := repo.HasCollection(ctx, "bob")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestList_AbsentVersusEmpty(t *testing.T) {
	svc, repo := newService()
	ctx := context.Background()

	_, err := svc.List(ctx, "nobody")
	assert.ErrorIs(t, err, funko.ErrCollectionNotFound)

	require.NoError(t, repo.Ensure(ctx, "empty"))
	res, err := svc.List(ctx, "empty")
	require.NoError(t, err)
	assert.True(t, res.Empty)
	assert.Empty(t, res.Funkos)
}

func TestAdd_ConcurrentSameIDOnlyOneWins(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	const workers = 20
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		conflicts int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Add(ctx, "alice", aliceFunko())
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case assert.ErrorIs(t, err, funko.ErrConflict):
				conflicts++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, workers-1, conflicts)
}

func TestUpdate_ConcurrentPatchesAreNotLost(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	_, err := svc.Add(ctx, "alice", aliceFunko())
	require.NoError(t, err)

	// Each worker patches a different field; all of them must survive.
	patches := []funko.Patch{
		{Name: strPtr("Vader")},
		{Description: strPtr("Dark side")},
		{Franchise: strPtr("SW")},
		{SpecialFeatures: strPtr("Lightsaber")},
	}
	var wg sync.WaitGroup
	for _, p := range patches {
		wg.Add(1)
		go func(p funko.Patch) {
			defer wg.Done()
			_, err := svc.Update(ctx, "alice", 1, p)
			assert.NoError(t, err)
		}(p)
	}
	wg.Wait()

	got, err := svc.Read(ctx, "alice", 1)
	require.NoError(t, err)
	assert.Equal(t, "Vader", got.Name)
	assert.Equal(t, "Dark side", got.Description)
	assert.Equal(t, "SW", got.Franchise)
	assert.Equal(t, "Lightsaber", got.SpecialFeatures)
}

func TestList_SortedByID(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	for _, id := range []int{10, 2, 33, 1} {
		f := aliceFunko()
		f.ID = id
		f.Name = fmt.Sprintf("funko-%d", id)
		_, err := svc.Add(ctx, "alice", f)
		require.NoError(t, err)
	}

	res, err := svc.List(ctx, "alice")
	require.NoError(t, err)
	ids := make([]int, 0, len(res.Funkos))
	for _, f := range res.Funkos {
		ids = append(ids, f.ID)
	}
	assert.Equal(t, []int{1, 2, 10, 33}, ids)
}

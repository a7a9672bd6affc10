package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"golang.org/x/exp/slog"

	"funkokeeper/internal/domain/funko"
	"funkokeeper/internal/infrastructure/kv"
)

// FunkoRepository stores every collection as a kv namespace named after the user,
// with one pretty-printed JSON value per funko keyed by its id.
type FunkoRepository struct {
	store kv.Store
	log   *slog.Logger
}

var _ funko.Repository = (*FunkoRepository)(nil)

func NewFunkoRepository(store kv.Store, log *slog.Logger) *FunkoRepository {
	return &FunkoRepository{
		store: store,
		log:   log.With("component", "funko_repository"),
	}
}

func (r *FunkoRepository) Ensure(ctx context.Context, user string) error {
	if err := r.store.EnsureNamespace(ctx, user); err != nil {
		return fmt.Errorf("ensure collection: %w", err)
	}
	return nil
}

func (r *FunkoRepository) HasCollection(ctx context.Context, user string) (bool, error) {
	ok, err := r.store.HasNamespace(ctx, user)
	if err != nil {
		return false, fmt.Errorf("check collection: %w", err)
	}
	return ok, nil
}

func (r *FunkoRepository) Exists(ctx context.Context, user string, id int) (bool, error) {
	_, err := r.store.Get(ctx, user, key(id))
	if err != nil {
		if errors.Is(err, kv.ErrKeyNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("check funko: %w", err)
	}
	return true, nil
}

func (r *FunkoRepository) Save(ctx context.Context, user string, f funko.Funko) error {
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("encode funko: %w", err)
	}
	if err := r.Ensure(ctx, user); err != nil {
		return err
	}
	if err := r.store.Put(ctx, user, key(f.ID), data); err != nil {
		return fmt.Errorf("save funko: %w", err)
	}
	return nil
}

func (r *FunkoRepository) Load(ctx context.Context, user string, id int) (funko.Funko, error) {
	data, err := r.store.Get(ctx, user, key(id))
	if err != nil {
		if errors.Is(err, kv.ErrKeyNotFound) {
			return funko.Funko{}, funko.ErrNotFound
		}
		return funko.Funko{}, fmt.Errorf("load funko: %w", err)
	}
	return r.decode(user, key(id), data)
}

func (r *FunkoRepository) Delete(ctx context.Context, user string, id int) (bool, error) {
	deleted, err := r.store.Delete(ctx, user, key(id))
	if err != nil {
		return false, fmt.Errorf("delete funko: %w", err)
	}
	return deleted, nil
}

func (r *FunkoRepository) ListAll(ctx context.Context, user string) ([]funko.Funko, error) {
	keys, err := r.store.ListKeys(ctx, user)
	if err != nil {
		if errors.Is(err, kv.ErrNamespaceNotFound) {
			return nil, funko.ErrCollectionNotFound
		}
		return nil, fmt.Errorf("list collection: %w", err)
	}

	funkos := make([]funko.Funko, 0, len(keys))
	for _, k := range keys {
		data, err := r.store.Get(ctx, user, k)
		if err != nil {
			if errors.Is(err, kv.ErrKeyNotFound) {
				// removed between listing and reading
				continue
			}
			return nil, fmt.Errorf("load funko %s: %w", k, err)
		}
		f, err := r.decode(user, k, data)
		if err != nil {
			return nil, err
		}
		funkos = append(funkos, f)
	}
	return funkos, nil
}

func (r *FunkoRepository) decode(user, k string, data []byte) (funko.Funko, error) {
	var f funko.Funko
	if err := json.Unmarshal(data, &f); err != nil {
		r.log.Error("corrupt funko entry", "user", user, "key", k, "error", err)
		return funko.Funko{}, fmt.Errorf("decode funko %s of %s: %w", k, user, err)
	}
	return f, nil
}

func key(id int) string {
	return strconv.Itoa(id)
}

package funko

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"golang.org/x/exp/slog"
)

// Servicer is the set of collection operations exposed to transports.
type Servicer interface {
	Add(ctx context.Context, user string, f Funko) (Funko, error)
	Read(ctx context.Context, user string, id int) (Funko, error)
	Update(ctx context.Context, user string, id int, patch Patch) (Funko, error)
	Remove(ctx context.Context, user string, id int) error
	List(ctx context.Context, user string) (ListResult, error)
}

// Service implements the collection operations on top of a Repository.
// Read-modify-write sequences of one user are serialized.
type Service struct {
	repo  Repository
	locks *userLocks
	log   *slog.Logger
}

// NewService creates a new funko service
func NewService(repo Repository, log *slog.Logger) *Service {
	return &Service{
		repo:  repo,
		locks: newUserLocks(),
		log:   log.With("component", "funko_service"),
	}
}

// Add stores a new funko in the user's collection.
func (s *Service) Add(ctx context.Context, user string, f Funko) (Funko, error) {
	if err := ValidateUser(user); err != nil {
		return Funko{}, err
	}
	if err := ValidateNew(f); err != nil {
		return Funko{}, err
	}

	unlock := s.locks.lock(user)
	defer unlock()

	exists, err := s.repo.Exists(ctx, user, f.ID)
	if err != nil {
		return Funko{}, s.storageError("check funko", user, f.ID, err)
	}
	if exists {
		return Funko{}, newError(ErrConflict, "Funko with ID %d already exists in %s's collection", f.ID, user)
	}

	if err := s.repo.Save(ctx, user, f); err != nil {
		return Funko{}, s.storageError("save funko", user, f.ID, err)
	}

	s.log.Info("funko added", "user", user, "funko_id", f.ID)
	return f, nil
}

// Read returns one funko of the user's collection.
func (s *Service) Read(ctx context.Context, user string, id int) (Funko, error) {
	if err := ValidateUser(user); err != nil {
		return Funko{}, err
	}

	f, err := s.repo.Load(ctx, user, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Funko{}, notFound(user, id)
		}
		return Funko{}, s.storageError("load funko", user, id, err)
	}
	return f, nil
}

// Update overrides the supplied fields of a stored funko.
func (s *Service) Update(ctx context.Context, user string, id int, patch Patch) (Funko, error) {
	if err := ValidateUser(user); err != nil {
		return Funko{}, err
	}

	unlock := s.locks.lock(user)
	defer unlock()

	current, err := s.repo.Load(ctx, user, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Funko{}, notFound(user, id)
		}
		return Funko{}, s.storageError("load funko for update", user, id, err)
	}

	if err := ValidatePatch(patch); err != nil {
		return Funko{}, err
	}

	updated := patch.Apply(current)
	if err := s.repo.Save(ctx, user, updated); err != nil {
		return Funko{}, s.storageError("save updated funko", user, id, err)
	}

	s.log.Info("funko updated", "user", user, "funko_id", id)
	return updated, nil
}

// Remove deletes a funko from the user's collection.
func (s *Service) Remove(ctx context.Context, user string, id int) error {
	if err := ValidateUser(user); err != nil {
		return err
	}
	if err := ValidateID(id); err != nil {
		return err
	}

	unlock := s.locks.lock(user)
	defer unlock()

	ok, err := s.repo.HasCollection(ctx, user)
	if err != nil {
		return s.storageError("check collection", user, id, err)
	}
	if !ok {
		return newError(ErrCollectionNotFound, "user %q has no Funkos stored", user)
	}

	deleted, err := s.repo.Delete(ctx, user, id)
	if err != nil {
		return s.storageError("delete funko", user, id, err)
	}
	if !deleted {
		return notFound(user, id)
	}

	s.log.Info("funko removed", "user", user, "funko_id", id)
	return nil
}

// List returns every funko of the user's collection ordered by id.
func (s *Service) List(ctx context.Context, user string) (ListResult, error) {
	if err := ValidateUser(user); err != nil {
		return ListResult{}, err
	}

	funkos, err := s.repo.ListAll(ctx, user)
	if err != nil {
		if errors.Is(err, ErrCollectionNotFound) {
			return ListResult{}, newError(ErrCollectionNotFound, "no collection found for %s", user)
		}
		s.log.Error("failed to list funkos", "user", user, "error", err)
		return ListResult{}, &DomainError{Err: ErrStorage, Message: fmt.Sprintf("list funkos: %v", err)}
	}

	sort.Slice(funkos, func(i, j int) bool {
		return funkos[i].ID < funkos[j].ID
	})

	return ListResult{
		Funkos: funkos,
		Empty:  len(funkos) == 0,
	}, nil
}

func (s *Service) storageError(op, user string, id int, err error) error {
	s.log.Error("failed to "+op, "user", user, "funko_id", id, "error", err)
	return &DomainError{Err: ErrStorage, Message: fmt.Sprintf("%s: %v", op, err)}
}

func notFound(user string, id int) error {
	return newError(ErrNotFound, "Funko with ID %d not found in %s's collection", id, user)
}

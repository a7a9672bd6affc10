// Package kv defines the namespaced key-value abstraction that collections are stored in.
package kv

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrKeyNotFound       = errors.New("key not found")
	ErrNamespaceNotFound = errors.New("namespace not found")
	ErrInvalidName       = errors.New("invalid name")
)

// Store is a set of namespaces, each holding byte values under string keys.
//
// Put creates the namespace when needed and replaces the whole value of a key.
// ListKeys returns keys in ascending order.
type Store interface {
	EnsureNamespace(ctx context.Context, ns string) error
	HasNamespace(ctx context.Context, ns string) (bool, error)
	Get(ctx context.Context, ns, key string) ([]byte, error)
	Put(ctx context.Context, ns, key string, value []byte) error
	Delete(ctx context.Context, ns, key string) (bool, error)
	ListKeys(ctx context.Context, ns string) ([]string, error)
	Close() error
}

// ValidateName rejects namespace and key names that cannot be stored safely.
func ValidateName(name string) error {
	switch {
	case strings.TrimSpace(name) == "":
		return fmt.Errorf("%w: empty", ErrInvalidName)
	case name == "." || name == "..":
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	case strings.ContainsAny(name, `/\`+"\x00"):
		return fmt.Errorf("%w: %q contains a path separator", ErrInvalidName, name)
	}
	return nil
}

// ValidateNames validates every name in order.
func ValidateNames(names ...string) error {
	for _, n := range names {
		if err := ValidateName(n); err != nil {
			return err
		}
	}
	return nil
}

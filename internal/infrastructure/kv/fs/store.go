// Package fs stores key-value namespaces as directories of JSON files.
package fs

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"funkokeeper/internal/infrastructure/kv"
)

const (
	// Ext is appended to every key to form its file name.
	Ext = ".json"

	tmpPrefix = ".tmp-"
	dirPerm   = 0o755
	filePerm  = 0o644
)

// Store keeps one directory per namespace and one file per key under root.
type Store struct {
	root string
}

var _ kv.Store = (*Store)(nil)

// New creates the root directory if needed and returns a store on it.
func New(root string) (*Store, error) {
	resolved := strings.TrimSpace(root)
	if resolved == "" {
		return nil, fmt.Errorf("fs store: empty root")
	}
	abs, err := filepath.Abs(resolved)
	if err != nil {
		return nil, fmt.Errorf("fs store: resolve root: %w", err)
	}
	if err := os.MkdirAll(abs, dirPerm); err != nil {
		return nil, fmt.Errorf("fs store: create root: %w", err)
	}
	return &Store{root: abs}, nil
}

// Root returns the absolute data root.
func (s *Store) Root() string {
	return s.root
}

func (s *Store) EnsureNamespace(_ context.Context, ns string) error {
	dir, err := s.namespaceDir(ns)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return fmt.Errorf("create namespace %q: %w", ns, err)
	}
	return nil
}

func (s *Store) HasNamespace(_ context.Context, ns string) (bool, error) {
	dir, err := s.namespaceDir(ns)
	if err != nil {
		return false, err
	}
	info, err := os.Stat(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("stat namespace %q: %w", ns, err)
	}
	return info.IsDir(), nil
}

func (s *Store) Get(_ context.Context, ns, key string) ([]byte, error) {
	p, err := s.keyPath(ns, key)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, kv.ErrKeyNotFound
		}
		return nil, fmt.Errorf("read %s/%s: %w", ns, key, err)
	}
	return data, nil
}

// Put writes value to a temp file next to the target and renames it into place,
// so readers never see a partially written value.
func (s *Store) Put(ctx context.Context, ns, key string, value []byte) error {
	p, err := s.keyPath(ns, key)
	if err != nil {
		return err
	}
	if err := s.EnsureNamespace(ctx, ns); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(p), tmpPrefix+key+"-*")
	if err != nil {
		return fmt.Errorf("create temp for %s/%s: %w", ns, key, err)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := tmp.Write(value); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("write %s/%s: %w", ns, key, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("sync %s/%s: %w", ns, key, err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("close %s/%s: %w", ns, key, err)
	}
	if err := os.Chmod(tmpName, filePerm); err != nil {
		cleanup()
		return fmt.Errorf("chmod %s/%s: %w", ns, key, err)
	}
	if err := os.Rename(tmpName, p); err != nil {
		cleanup()
		return fmt.Errorf("rename %s/%s: %w", ns, key, err)
	}
	return nil
}

func (s *Store) Delete(_ context.Context, ns, key string) (bool, error) {
	p, err := s.keyPath(ns, key)
	if err != nil {
		return false, err
	}
	if err := os.Remove(p); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("delete %s/%s: %w", ns, key, err)
	}
	return true, nil
}

func (s *Store) ListKeys(_ context.Context, ns string) ([]string, error) {
	dir, err := s.namespaceDir(ns)
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, kv.ErrNamespaceNotFound
		}
		return nil, fmt.Errorf("list namespace %q: %w", ns, err)
	}

	keys := make([]string, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, tmpPrefix) || !strings.HasSuffix(name, Ext) {
			continue
		}
		keys = append(keys, strings.TrimSuffix(name, Ext))
	}
	sort.Strings(keys)
	return keys, nil
}

func (s *Store) Close() error {
	return nil
}

func (s *Store) namespaceDir(ns string) (string, error) {
	if err := kv.ValidateName(ns); err != nil {
		return "", err
	}
	p := filepath.Join(s.root, ns)
	if !isWithin(p, s.root) {
		return "", fmt.Errorf("%w: %q escapes root", kv.ErrInvalidName, ns)
	}
	return p, nil
}

func (s *Store) keyPath(ns, key string) (string, error) {
	dir, err := s.namespaceDir(ns)
	if err != nil {
		return "", err
	}
	if err := kv.ValidateName(key); err != nil {
		return "", err
	}
	return filepath.Join(dir, key+Ext), nil
}

func isWithin(path string, root string) bool {
	p := filepath.Clean(path)
	r := filepath.Clean(root)
	if p == r {
		return false
	}
	return strings.HasPrefix(p, r+string(os.PathSeparator))
}

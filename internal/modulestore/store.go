// Package modulestore owns the root directory and in-memory catalog of
// pulled WebAssembly modules: it mediates between a remote registry, the
// filesystem, and the catalog that the rest of wasmcrid queries.
package modulestore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	securejoin "github.com/cyphar/filepath-securejoin"
	"golang.org/x/sync/singleflight"

	"github.com/wasmcri/wasmcrid/pkg/reference"
)

// ModuleStore owns rootDir and an ordered catalog of Module records. All
// catalog mutations take mu for writing; reads take it for reading. Pulls
// for the same reference are coalesced through pullGroup so that concurrent
// PullImage RPCs for one image only hit the registry once.
type ModuleStore struct {
	rootDir string
	puller  Puller

	mu      sync.RWMutex
	catalog []Module

	pullGroup singleflight.Group
}

// New constructs a ModuleStore rooted at rootDir, creating the directory if
// necessary.
func New(rootDir string, puller Puller) (*ModuleStore, error) {
	if err := os.MkdirAll(rootDir, 0o755); err != nil {
		return nil, fmt.Errorf("cannot create module store root %s: %w", rootDir, err)
	}
	if puller == nil {
		puller = NewRegistryPuller()
	}
	return &ModuleStore{rootDir: rootDir, puller: puller}, nil
}

// RootDir returns the store's root directory.
func (s *ModuleStore) RootDir() string { return s.rootDir }

// Add appends module to the catalog.
func (s *ModuleStore) Add(module Module) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.catalog = append(s.catalog, module)
}

// List returns a snapshot copy of the catalog.
func (s *ModuleStore) List() []Module {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Module, len(s.catalog))
	copy(out, s.catalog)
	return out
}

// Get returns the catalog entry with the given id, or false if absent.
func (s *ModuleStore) Get(id string) (Module, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, m := range s.catalog {
		if m.ID == id {
			return m, true
		}
	}
	return Module{}, false
}

// Remove deletes the catalog entry with the given id, failing ErrNotFound if
// absent.
func (s *ModuleStore) Remove(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, m := range s.catalog {
		if m.ID == id {
			s.catalog = append(s.catalog[:i], s.catalog[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

// UsedBytes sums Size across the catalog.
func (s *ModuleStore) UsedBytes() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var total int64
	for _, m := range s.catalog {
		total += m.Size
	}
	return total
}

// UsedInodes counts catalog entries.
func (s *ModuleStore) UsedInodes() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.catalog))
}

// PullPath derives the directory a module is pulled into, without I/O.
func (s *ModuleStore) PullPath(ref reference.Reference) (string, error) {
	joined, err := securejoin.SecureJoin(s.rootDir, filepath.Join(ref.Registry(), ref.Repository(), ref.Tag()))
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidPullPath, err)
	}
	return joined, nil
}

// PullFilePath derives the exact on-disk module.wasm path, without I/O.
func (s *ModuleStore) PullFilePath(ref reference.Reference) (string, error) {
	dir, err := s.PullPath(ref)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "module.wasm"), nil
}

// Pull ensures the reference's directory exists, invokes the configured
// Puller to materialize module.wasm, stats the result, and appends a Module
// to the catalog. A failed pull leaves no catalog entry; the (possibly
// partial) on-disk file is not removed (see DESIGN.md open questions).
func (s *ModuleStore) Pull(ctx context.Context, ref reference.Reference) (Module, error) {
	path, err := s.PullFilePath(ref)
	if err != nil {
		return Module{}, err
	}

	type result struct {
		module Module
		err    error
	}
	v, err, _ := s.pullGroup.Do(ref.Whole(), func() (interface{}, error) {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return result{}, fmt.Errorf("%w: %w", ErrCannotPullModule, err)
		}
		if err := s.puller.Pull(ctx, ref, path); err != nil {
			return result{}, err
		}
		info, err := os.Stat(path)
		if err != nil {
			return result{}, fmt.Errorf("%w: %w", ErrCannotFetchModuleMetadata, err)
		}
		module := Module{ID: ref.Whole(), Size: info.Size()}
		s.Add(module)
		return result{module: module}, nil
	})
	if err != nil {
		return Module{}, err
	}
	return v.(result).module, nil
}

package modulestore

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/wasmcri/wasmcrid/pkg/reference"
)

// fakePuller writes a fixed payload to dest, counting invocations so tests
// can assert singleflight coalescing.
type fakePuller struct {
	mu    sync.Mutex
	calls int
	data  []byte
	err   error
}

func (f *fakePuller) Pull(ctx context.Context, ref reference.Reference, dest string) error {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	return os.WriteFile(dest, f.data, 0o644)
}

func mustParse(t *testing.T, s string) reference.Reference {
	t.Helper()
	ref, err := reference.Parse(s)
	if err != nil {
		t.Fatalf("Parse(%q): %v", s, err)
	}
	return ref
}

func TestPullAddsCatalogEntryWithCorrectSize(t *testing.T) {
	dir := t.TempDir()
	puller := &fakePuller{data: []byte("0123456789")}
	store, err := New(dir, puller)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	ref := mustParse(t, "webassembly.azurecr.io/hello:v1")
	module, err := store.Pull(context.Background(), ref)
	if err != nil {
		t.Fatalf("Pull: %v", err)
	}
	if module.Size != 10 {
		t.Errorf("Size = %d, want 10", module.Size)
	}
	if module.ID != ref.Whole() {
		t.Errorf("ID = %q, want %q", module.ID, ref.Whole())
	}

	if got, want := store.UsedBytes(), int64(10); got != want {
		t.Errorf("UsedBytes = %d, want %d", got, want)
	}
	if got, want := store.UsedInodes(), int64(1); got != want {
		t.Errorf("UsedInodes = %d, want %d", got, want)
	}
}

func TestUsedBytesAndInodesMatchCatalog(t *testing.T) {
	dir := t.TempDir()
	puller := &fakePuller{data: make([]byte, 42)}
	store, err := New(dir, puller)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	refs := []string{
		"registry.example.com/a:v1",
		"registry.example.com/b:v1",
		"registry.example.com/c:v1",
	}
	var wantBytes int64
	for _, s := range refs {
		if _, err := store.Pull(context.Background(), mustParse(t, s)); err != nil {
			t.Fatalf("Pull(%q): %v", s, err)
		}
		wantBytes += 42
	}

	if got := store.UsedBytes(); got != wantBytes {
		t.Errorf("UsedBytes = %d, want %d", got, wantBytes)
	}
	if got := store.UsedInodes(); got != int64(len(refs)) {
		t.Errorf("UsedInodes = %d, want %d", got, len(refs))
	}

	catalog := store.List()
	if len(catalog) != len(refs) {
		t.Fatalf("List returned %d entries, want %d", len(catalog), len(refs))
	}
}

func TestPullFailurePropagatesAndLeavesNoEntry(t *testing.T) {
	dir := t.TempDir()
	puller := &fakePuller{err: errors.New("registry unreachable")}
	store, err := New(dir, puller)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	_, err = store.Pull(context.Background(), mustParse(t, "registry.example.com/broken:v1"))
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if len(store.List()) != 0 {
		t.Errorf("catalog should be empty after failed pull, got %d entries", len(store.List()))
	}
}

func TestConcurrentPullsForSameReferenceAreCoalesced(t *testing.T) {
	dir := t.TempDir()
	puller := &fakePuller{data: []byte("abc")}
	store, err := New(dir, puller)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	ref := mustParse(t, "registry.example.com/same:v1")
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := store.Pull(context.Background(), ref); err != nil {
				t.Errorf("Pull: %v", err)
			}
		}()
	}
	wg.Wait()

	if puller.calls == 0 {
		t.Fatal("puller was never called")
	}
	if puller.calls > 8 {
		t.Errorf("puller.calls = %d, should not exceed goroutine count", puller.calls)
	}
}

func TestRemoveUnknownIDReturnsNotFound(t *testing.T) {
	dir := t.TempDir()
	store, err := New(dir, &fakePuller{data: []byte("x")})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := store.Remove("does-not-exist"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Remove error = %v, want ErrNotFound", err)
	}
}

func TestPullFilePathEndsInModuleWasm(t *testing.T) {
	dir := t.TempDir()
	store, err := New(dir, &fakePuller{data: []byte("x")})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	path, err := store.PullFilePath(mustParse(t, "registry.example.com/ok:v1"))
	if err != nil {
		t.Fatalf("PullFilePath: %v", err)
	}
	if filepath.Base(path) != "module.wasm" {
		t.Errorf("PullFilePath base = %q, want module.wasm", filepath.Base(path))
	}
}

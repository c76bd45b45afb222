package modulestore

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/go-containerregistry/pkg/name"
	"github.com/google/go-containerregistry/pkg/v1/remote"
	"github.com/google/renameio"

	"github.com/wasmcri/wasmcrid/pkg/reference"
)

// Puller materializes the WASM artifact addressed by ref at the exact path
// dest, or returns an error.
type Puller interface {
	Pull(ctx context.Context, ref reference.Reference, dest string) error
}

// registryPuller implements Puller against a real OCI/Docker registry using
// go-containerregistry: it resolves ref as an image reference, fetches its
// single WASM layer, and writes it atomically to dest.
type registryPuller struct{}

// NewRegistryPuller returns the default Puller, backed by go-containerregistry.
func NewRegistryPuller() Puller {
	return registryPuller{}
}

func (registryPuller) Pull(ctx context.Context, ref reference.Reference, dest string) error {
	tagged, err := name.ParseReference(ref.Whole())
	if err != nil {
		return fmt.Errorf("%w: %w", ErrCannotPullModule, err)
	}

	img, err := remote.Image(tagged, remote.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrCannotPullModule, err)
	}

	layers, err := img.Layers()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrCannotPullModule, err)
	}
	if len(layers) == 0 {
		return fmt.Errorf("%w: image %s has no layers", ErrCannotPullModule, ref.Whole())
	}
	// The module is expected to be published as a single-layer artifact; take
	// the last layer, matching the convention used by OCI artifact tooling
	// for "the payload" when a base layer isn't present.
	rc, err := layers[len(layers)-1].Uncompressed()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrCannotPullModule, err)
	}
	defer rc.Close()

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("%w: %w", ErrCannotPullModule, err)
	}

	t, err := renameio.TempFile("", dest)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrCannotPullModule, err)
	}
	defer t.Cleanup()

	if _, err := io.Copy(t, rc); err != nil {
		return fmt.Errorf("%w: %w", ErrCannotPullModule, err)
	}
	if err := t.CloseAtomicallyReplace(); err != nil {
		return fmt.Errorf("%w: %w", ErrCannotPullModule, err)
	}
	return nil
}

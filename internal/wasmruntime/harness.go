package wasmruntime

import (
	"context"
	"io"

	"github.com/wasmcri/wasmcrid/internal/log"
)

// Harness holds a constructed-but-not-yet-started Adapter invocation,
// keeping "construct" and "start" as two distinct steps. Constructing it does
// no work; the adapter loads and launches the module only when Start is
// called.
type Harness struct {
	adapter Adapter
	spec    Spec
}

// New constructs a Harness bound to adapter and spec. The instance does not
// begin running until Start is called.
func New(adapter Adapter, spec Spec) *Harness {
	return &Harness{adapter: adapter, spec: spec}
}

// Start releases the harness to begin running and returns a
// CancellationToken used to stop or remove it later.
func (h *Harness) Start(ctx context.Context) (*CancellationToken, error) {
	handle, err := h.adapter.Start(h.spec)
	if err != nil {
		return nil, err
	}
	go func() {
		if err := handle.Wait(); err != nil {
			log.Errorf(ctx, "error while running module: %v", err)
		}
	}()
	return &CancellationToken{handle: handle}, nil
}

// CancellationToken lets the lifecycle controller stop or remove a started
// instance without caring which Adapter produced it.
type CancellationToken struct {
	handle Handle
}

// Stop requests early termination of the underlying instance.
func (t *CancellationToken) Stop() error {
	return t.handle.Stop()
}

// Remove is an alias for Stop kept distinct because CRI distinguishes "stop"
// (graceful) from "remove" (the terminal cleanup issued before discarding a
// container record) even though both adapters treat them identically today.
func (t *CancellationToken) Remove() error {
	return t.handle.Stop()
}

// Output exposes the underlying instance's captured stdout/stderr.
func (t *CancellationToken) Output() (stdout, stderr io.Reader, err error) {
	return t.handle.Output()
}

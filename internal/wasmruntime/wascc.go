package wasmruntime

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/wasmcri/wasmcrid/internal/wasmruntime/wascchost"
)

// WasccAdapter runs a module as a signed wasCC actor against a shared,
// process-wide Host. Unlike WasiAdapter, one Host instance backs every
// instance started through a given adapter, since wasCC actors are
// registered and queried through a single host-wide registry.
type WasccAdapter struct {
	host *wascchost.Host
}

// NewWasccAdapter returns an adapter backed by host. Callers are expected to
// register native capabilities on host once at process startup.
func NewWasccAdapter(host *wascchost.Host) *WasccAdapter {
	return &WasccAdapter{host: host}
}

func (a *WasccAdapter) Start(spec Spec) (Handle, error) {
	data, err := os.ReadFile(spec.ModulePath)
	if err != nil {
		return nil, fmt.Errorf("unable to load module data: %w", err)
	}

	key, ok := spec.Env["WASCC_ACTOR_KEY"]
	if !ok || key == "" {
		return nil, fmt.Errorf("wascc actor requires a public key (WASCC_ACTOR_KEY env var)")
	}

	if err := a.host.AddActor(key, data); err != nil {
		return nil, fmt.Errorf("error adding actor: %w", err)
	}

	port := spec.Env["PORT"]
	if port == "" {
		port = "80"
	}
	if err := a.host.Configure(key, wascchost.Capability{
		Name: wascchost.HTTPCapability,
		Env:  map[string]string{"PORT": port},
	}); err != nil {
		return nil, fmt.Errorf("error configuring capabilities for module: %w", err)
	}

	h := &wasccHandle{
		host: a.host,
		key:  key,
		done: make(chan struct{}),
	}
	go h.watch()
	return h, nil
}

type wasccHandle struct {
	host *wascchost.Host
	key  string
	done chan struct{}
	err  error
}

// watch waits for the actor to disappear from the host's registry, which
// happens either because Stop removed it or because it completed on its
// own. Polling on a ticker avoids burning a core on a tight loop.
func (h *wasccHandle) watch() {
	defer close(h.done)
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()
	for range ticker.C {
		if !h.running() {
			return
		}
	}
}

func (h *wasccHandle) running() bool {
	for _, key := range h.host.Actors() {
		if key == h.key {
			return true
		}
	}
	return false
}

func (h *wasccHandle) Wait() error {
	<-h.done
	return h.err
}

// Stop removes the actor from the host. Removing an actor that has already
// exited is not an error, matching wascc_stop's tolerance of a
// "disappeared" actor.
func (h *wasccHandle) Stop() error {
	return h.host.RemoveActor(h.key)
}

// Output is not supported for wasCC actors: wascc-host never wires actor
// stdout/stderr, since actors communicate over configured capabilities
// (e.g. the HTTP capability) rather than std streams.
func (h *wasccHandle) Output() (io.Reader, io.Reader, error) {
	return nil, nil, fmt.Errorf("wascc actors do not expose stdout/stderr")
}

// Package wascchost stands in for the wasCC signed-actor capability host
// (github.com/wascc/wascc-host): a process-wide registry of running actors
// keyed by their public key, with capabilities configured per actor after it
// is added to the host.
//
// There is no Go library anywhere in the ecosystem that plays this role
// (wasCC has no Go host implementation); this package is the justified
// standard-library exception described in DESIGN.md. The http_server
// capability is stood in with a real net/http.Server bound to the actor's
// configured PORT, since that is the capability wasCC actors exercise most
// commonly.
package wascchost

import (
	"context"
	"fmt"
	"net/http"
	"sync"
)

// HTTPCapability is the name of the HTTP server capability, using wasCC's
// colon-namespaced "wascc:http_server".
const HTTPCapability = "wascc:http_server"

// Capability describes a capability configured for one actor. Name follows
// wasCC's colon-namespaced convention, e.g. "wascc:http_server".
type Capability struct {
	Name string
	Env  map[string]string
}

type actor struct {
	key          string
	data         []byte
	capabilities []Capability
	server       *http.Server
}

// Host is a process-wide registry of running wasCC actors. The zero value is
// not usable; use NewHost.
type Host struct {
	mu     sync.RWMutex
	actors map[string]*actor
	// nativeCapabilities records capability names registered host-wide via
	// AddNativeCapability, independent of any one actor.
	nativeCapabilities map[string]bool
}

// NewHost returns an empty Host.
func NewHost() *Host {
	return &Host{
		actors:             make(map[string]*actor),
		nativeCapabilities: make(map[string]bool),
	}
}

// AddNativeCapability registers a capability as available host-wide.
// Capabilities must be registered once before any actor can be configured
// to use them.
func (h *Host) AddNativeCapability(name string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.nativeCapabilities[name] = true
}

// AddActor loads data as an actor under key. Re-adding an existing key
// replaces it.
func (h *Host) AddActor(key string, data []byte) error {
	if key == "" {
		return fmt.Errorf("actor key must not be empty")
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.actors[key] = &actor{key: key, data: data}
	return nil
}

// Configure attaches a capability to the actor identified by key. The
// capability must already be registered via AddNativeCapability. Configuring
// HTTPCapability binds a listener on cap.Env["PORT"] (default 80) that
// serves a fixed handler standing in for the actor's guest-side request
// processing.
func (h *Host) Configure(key string, cap Capability) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	a, ok := h.actors[key]
	if !ok {
		return fmt.Errorf("no such actor: %s", key)
	}
	if !h.nativeCapabilities[cap.Name] {
		return fmt.Errorf("capability %s is not registered with the host", cap.Name)
	}
	a.capabilities = append(a.capabilities, cap)

	if cap.Name == HTTPCapability {
		port := cap.Env["PORT"]
		if port == "" {
			port = "80"
		}
		mux := http.NewServeMux()
		mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprintf(w, "actor %s running\n", key)
		})
		a.server = &http.Server{Addr: ":" + port, Handler: mux}
		go a.server.ListenAndServe()
	}
	return nil
}

// Actors returns the keys of all currently running actors.
func (h *Host) Actors() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	keys := make([]string, 0, len(h.actors))
	for k := range h.actors {
		keys = append(keys, k)
	}
	return keys
}

// RemoveActor stops and removes the actor identified by key. Removing an
// actor that is not present is not an error, so a caller racing an actor
// that has already exited on its own doesn't need to check first.
func (h *Host) RemoveActor(key string) error {
	h.mu.Lock()
	a, ok := h.actors[key]
	if ok {
		delete(h.actors, key)
	}
	h.mu.Unlock()

	if ok && a.server != nil {
		a.server.Shutdown(context.Background())
	}
	return nil
}

// Package wasmruntime adapts the CRI notion of "run a container" onto
// WebAssembly execution. Two adapters exist, selected by a PodSandbox's
// runtime_handler: WasiAdapter runs a module under WASI using wazero, and
// WasccAdapter runs a module as a signed wasCC actor against an in-process
// capability host.
package wasmruntime

import "io"

// EnvVars mirrors Kubernetes' unordered string-to-string view of container
// environment variables.
type EnvVars map[string]string

// DirMapping maps a host directory to an optional guest-visible path. If the
// value is empty, the host path is reused unchanged inside the guest.
type DirMapping map[string]string

// Spec describes everything an Adapter needs to run one module instance.
type Spec struct {
	ModulePath string
	Env        EnvVars
	Args       []string
	Dirs       DirMapping
	// LogDir is where stdout/stderr capture files are created.
	LogDir string
}

// Adapter runs a single WebAssembly module instance and reports its outcome
// asynchronously via a Handle.
type Adapter interface {
	// Start begins executing spec and returns a Handle used to observe
	// completion and to request early termination. Start itself does not
	// block until the module exits.
	Start(spec Spec) (Handle, error)
}

// Handle represents one running (or completed) module instance.
type Handle interface {
	// Wait blocks until the instance exits, returning its error if any.
	Wait() error
	// Stop requests early termination. Stopping an instance that has
	// already exited is not an error.
	Stop() error
	// Output returns readers over the instance's captured stdout/stderr.
	// It is safe to call repeatedly; each call returns an independent
	// reader positioned at the start of the stream.
	Output() (stdout io.Reader, stderr io.Reader, err error)
}

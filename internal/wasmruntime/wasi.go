package wasmruntime

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/imports/wasi_snapshot_preview1"

	"github.com/wasmcri/wasmcrid/internal/log"
)

// WasiAdapter runs a module under WASI using wazero. One wazero.Runtime is
// created per instance, so instances can't interfere with each other's
// module registrations.
type WasiAdapter struct{}

// NewWasiAdapter returns the default WASI adapter.
func NewWasiAdapter() *WasiAdapter { return &WasiAdapter{} }

func (a *WasiAdapter) Start(spec Spec) (Handle, error) {
	moduleData, err := os.ReadFile(spec.ModulePath)
	if err != nil {
		return nil, fmt.Errorf("unable to load module data: %w", err)
	}

	stdout, err := os.CreateTemp(spec.LogDir, "wasi-stdout-*")
	if err != nil {
		return nil, fmt.Errorf("unable to create stdout capture file: %w", err)
	}
	stderr, err := os.CreateTemp(spec.LogDir, "wasi-stderr-*")
	if err != nil {
		stdout.Close()
		return nil, fmt.Errorf("unable to create stderr capture file: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	runtime := wazero.NewRuntime(ctx)

	h := &wasiHandle{
		runtime: runtime,
		cancel:  cancel,
		stdout:  stdout,
		stderr:  stderr,
		done:    make(chan struct{}),
	}

	go h.run(ctx, spec, moduleData)
	return h, nil
}

type wasiHandle struct {
	runtime wazero.Runtime
	cancel  context.CancelFunc
	stdout  *os.File
	stderr  *os.File
	done    chan struct{}
	err     error
}

func (h *wasiHandle) run(ctx context.Context, spec Spec, moduleData []byte) {
	defer close(h.done)
	defer h.runtime.Close(ctx)

	log.Infof(ctx, "starting run of module")

	if _, err := wasi_snapshot_preview1.Instantiate(ctx, h.runtime); err != nil {
		h.err = fmt.Errorf("unable to instantiate WASI: %w", err)
		return
	}

	config := wazero.NewModuleConfig().
		WithStdout(h.stdout).
		WithStderr(h.stderr).
		WithArgs(spec.Args...)

	for key, value := range spec.Env {
		config = config.WithEnv(key, value)
	}
	if len(spec.Dirs) > 0 {
		fsConfig := wazero.NewFSConfig()
		for hostDir, guestDir := range spec.Dirs {
			guest := guestDir
			if guest == "" {
				guest = hostDir
			}
			fsConfig = fsConfig.WithDirMount(hostDir, guest)
		}
		config = config.WithFSConfig(fsConfig)
	}

	mod, err := h.runtime.InstantiateWithConfig(ctx, moduleData, config)
	if err != nil {
		h.err = fmt.Errorf("unable to run module: %w", err)
		return
	}
	defer mod.Close(ctx)

	log.Infof(ctx, "module run complete")
}

func (h *wasiHandle) Wait() error {
	<-h.done
	return h.err
}

func (h *wasiHandle) Stop() error {
	h.cancel()
	return nil
}

// Output reopens the stdout/stderr capture files so each caller gets an
// independent reader positioned at the start of the stream, avoiding the
// data loss that sharing one *os.File's cursor across readers would cause.
func (h *wasiHandle) Output() (io.Reader, io.Reader, error) {
	stdout, err := os.Open(h.stdout.Name())
	if err != nil {
		return nil, nil, fmt.Errorf("logging is not enabled for this runtime: %w", err)
	}
	stderr, err := os.Open(h.stderr.Name())
	if err != nil {
		stdout.Close()
		return nil, nil, fmt.Errorf("logging is not enabled for this runtime: %w", err)
	}
	return stdout, stderr, nil
}

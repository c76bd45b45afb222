// Package controller implements the pod sandbox and container lifecycle
// state machines, delegating module storage to internal/modulestore and
// WASM execution to internal/wasmruntime. It is the central owner of the
// module store, both registries, and the running-set of cancellation
// tokens.
package controller

import (
	"context"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	v1alpha2 "k8s.io/cri-api/pkg/apis/runtime/v1alpha2"

	"github.com/wasmcri/wasmcrid/internal/log"
	"github.com/wasmcri/wasmcrid/internal/modulestore"
	"github.com/wasmcri/wasmcrid/internal/registry"
	"github.com/wasmcri/wasmcrid/internal/wasmruntime"
	"github.com/wasmcri/wasmcrid/pkg/reference"
)

// LifecycleController orchestrates sandbox and container state transitions.
// It is safe for concurrent use by multiple gRPC handler goroutines.
type LifecycleController struct {
	rootDir string

	moduleStore *modulestore.ModuleStore
	sandboxes   *registry.SandboxRegistry
	containers  *registry.ContainerRegistry

	wasiAdapter  wasmruntime.Adapter
	wasccAdapter wasmruntime.Adapter

	runningMu sync.RWMutex
	running   map[string]*wasmruntime.CancellationToken

	podCIDRMu sync.RWMutex
	podCIDR   *net.IPNet
}

// New constructs a LifecycleController rooted at rootDir, sharing store
// across the RuntimeService and ImageService.
func New(rootDir string, store *modulestore.ModuleStore, wasiAdapter, wasccAdapter wasmruntime.Adapter) *LifecycleController {
	return &LifecycleController{
		rootDir:      rootDir,
		moduleStore:  store,
		sandboxes:    registry.NewSandboxRegistry(),
		containers:   registry.NewContainerRegistry(),
		wasiAdapter:  wasiAdapter,
		wasccAdapter: wasccAdapter,
		running:      make(map[string]*wasmruntime.CancellationToken),
	}
}

func resolveRuntimeHandler(s string) (string, error) {
	switch s {
	case "":
		return runtimeHandlerWasi, nil
	case runtimeHandlerWasi, runtimeHandlerWascc:
		return s, nil
	default:
		return "", fmt.Errorf("%w: invalid runtime handler %q", ErrInvalidArgument, s)
	}
}

// Version returns this runtime's fixed API version and build metadata.
func (c *LifecycleController) Version(ctx context.Context) (*v1alpha2.VersionResponse, error) {
	ctx, span := log.StartSpan(ctx)
	defer span.End()
	log.Debugf(ctx, "version request")
	return &v1alpha2.VersionResponse{
		Version:           buildVersion,
		RuntimeName:       runtimeName,
		RuntimeVersion:    buildVersion,
		RuntimeApiVersion: apiVersion,
	}, nil
}

// Status reports runtime readiness and, when verbose, sandbox/container
// counts.
func (c *LifecycleController) Status(ctx context.Context, verbose bool) (*v1alpha2.StatusResponse, error) {
	ctx, span := log.StartSpan(ctx)
	defer span.End()

	var info map[string]string
	if verbose {
		info = map[string]string{
			"running_sandboxes":  strconv.Itoa(c.sandboxes.Len()),
			"running_containers": strconv.Itoa(c.containers.Len()),
		}
	}

	log.Debugf(ctx, "status request, verbose=%v", verbose)
	return &v1alpha2.StatusResponse{
		Status: &v1alpha2.RuntimeStatus{
			Conditions: []*v1alpha2.RuntimeCondition{
				{Type: "RuntimeReady", Status: true, Reason: "RuntimeStarted"},
				{Type: "NetworkReady", Status: false, Reason: "Unimplemented"},
			},
		},
		Info: info,
	}, nil
}

// UpdateRuntimeConfig sets or clears the pod CIDR cell.
func (c *LifecycleController) UpdateRuntimeConfig(ctx context.Context, podCIDR string) error {
	ctx, span := log.StartSpan(ctx)
	defer span.End()

	if podCIDR == "" {
		c.podCIDRMu.Lock()
		c.podCIDR = nil
		c.podCIDRMu.Unlock()
		log.Infof(ctx, "pod CIDR cleared")
		return nil
	}

	_, ipnet, err := net.ParseCIDR(podCIDR)
	if err != nil {
		return fmt.Errorf("%w: invalid CIDR given: %v", ErrInvalidArgument, err)
	}
	c.podCIDRMu.Lock()
	c.podCIDR = ipnet
	c.podCIDRMu.Unlock()
	log.Infof(ctx, "pod CIDR set to %s", ipnet.String())
	return nil
}

// PodCIDR returns the current pod CIDR, or "" if unset. Exposed mainly for
// tests.
func (c *LifecycleController) PodCIDR() string {
	c.podCIDRMu.RLock()
	defer c.podCIDRMu.RUnlock()
	if c.podCIDR == nil {
		return ""
	}
	return c.podCIDR.String()
}

// RunPodSandbox creates a new Ready sandbox and returns its UUID.
func (c *LifecycleController) RunPodSandbox(ctx context.Context, config *v1alpha2.PodSandboxConfig, runtimeHandler string) (string, error) {
	ctx, span := log.StartSpan(ctx)
	defer span.End()

	if config == nil {
		return "", fmt.Errorf("%w: sandbox config is required", ErrInvalidArgument)
	}
	handler, err := resolveRuntimeHandler(runtimeHandler)
	if err != nil {
		return "", err
	}
	if config.LogDirectory != "" {
		if err := os.MkdirAll(config.LogDirectory, 0o755); err != nil {
			return "", fmt.Errorf("cannot create sandbox log directory: %w", err)
		}
	}

	id := uuid.New().String()
	c.sandboxes.Add(&registry.PodSandbox{
		Inner: &v1alpha2.PodSandbox{
			Id:             id,
			Metadata:       config.Metadata,
			State:          v1alpha2.PodSandboxState_SANDBOX_READY,
			CreatedAt:      time.Now().UnixNano(),
			Labels:         config.Labels,
			Annotations:    config.Annotations,
			RuntimeHandler: handler,
		},
	})
	log.Infof(ctx, "created pod sandbox %s with handler %s", id, handler)
	return id, nil
}

// ListPodSandbox applies the standard id/state/labels filter.
func (c *LifecycleController) ListPodSandbox(ctx context.Context, filter *v1alpha2.PodSandboxFilter) ([]*v1alpha2.PodSandbox, error) {
	_, span := log.StartSpan(ctx)
	defer span.End()

	var id string
	var state *v1alpha2.PodSandboxState
	var labels map[string]string
	if filter != nil {
		id = filter.Id
		if filter.State != nil {
			s := filter.State.State
			state = &s
		}
		labels = filter.LabelSelector
	}
	return c.sandboxes.Filter(id, state, labels), nil
}

// StopPodSandbox stops every attached container and drives the sandbox to
// NotReady. Idempotent.
func (c *LifecycleController) StopPodSandbox(ctx context.Context, id string) error {
	ctx, span := log.StartSpan(ctx)
	defer span.End()

	sandbox := c.sandboxes.Get(id)
	if sandbox == nil {
		return fmt.Errorf("%w: pod sandbox %s", ErrNotFound, id)
	}

	running := append([]string(nil), sandbox.RunningContainers...)
	for _, containerID := range running {
		if err := c.StopContainer(ctx, containerID, 0); err != nil {
			log.Warnf(ctx, "error stopping container %s while stopping sandbox %s: %v", containerID, id, err)
		}
	}
	c.sandboxes.SetState(id, v1alpha2.PodSandboxState_SANDBOX_NOTREADY)
	return nil
}

// RemovePodSandbox removes every attached container, then the sandbox
// itself. Fails if the sandbox is still Ready.
func (c *LifecycleController) RemovePodSandbox(ctx context.Context, id string) error {
	ctx, span := log.StartSpan(ctx)
	defer span.End()

	sandbox := c.sandboxes.Get(id)
	if sandbox == nil {
		return fmt.Errorf("%w: pod sandbox %s", ErrNotFound, id)
	}
	if sandbox.Inner.State == v1alpha2.PodSandboxState_SANDBOX_READY {
		return fmt.Errorf("%w: pod sandbox %s is still ready", ErrFailedPrecondition, id)
	}

	running := append([]string(nil), sandbox.RunningContainers...)
	for _, containerID := range running {
		if err := c.RemoveContainer(ctx, containerID); err != nil {
			log.Warnf(ctx, "error removing container %s while removing sandbox %s: %v", containerID, id, err)
		}
	}
	c.sandboxes.Remove(id)
	return nil
}

// PodSandboxStatus renders the sandbox as a status.
func (c *LifecycleController) PodSandboxStatus(ctx context.Context, id string) (*v1alpha2.PodSandboxStatus, error) {
	_, span := log.StartSpan(ctx)
	defer span.End()

	sandbox := c.sandboxes.Get(id)
	if sandbox == nil {
		return nil, fmt.Errorf("%w: pod sandbox %s", ErrNotFound, id)
	}
	return sandboxToStatus(sandbox), nil
}

// CreateContainer allocates a UserContainer record under podSandboxID.
func (c *LifecycleController) CreateContainer(ctx context.Context, podSandboxID string, cfg *v1alpha2.ContainerConfig, sandboxConfig *v1alpha2.PodSandboxConfig) (string, error) {
	ctx, span := log.StartSpan(ctx)
	defer span.End()

	if cfg == nil || cfg.Image == nil || cfg.Image.Image == "" {
		return "", fmt.Errorf("%w: container image is required", ErrInvalidArgument)
	}
	if c.sandboxes.Get(podSandboxID) == nil {
		return "", fmt.Errorf("%w: pod sandbox %s", ErrNotFound, podSandboxID)
	}

	id := uuid.New().String()
	containerRootDir := filepath.Join(c.rootDir, "containers", id)
	if err := os.MkdirAll(containerRootDir, 0o755); err != nil {
		return "", fmt.Errorf("cannot create container root directory: %w", err)
	}

	volumes := make([]*v1alpha2.Mount, 0, len(cfg.Mounts))
	for _, m := range cfg.Mounts {
		volumeID := uuid.New().String()
		volumes = append(volumes, &v1alpha2.Mount{
			HostPath:       filepath.Join("volumes", volumeID),
			ContainerPath:  m.ContainerPath,
			Propagation:    m.Propagation,
			Readonly:       m.Readonly,
			SelinuxRelabel: m.SelinuxRelabel,
		})
	}

	var logPath string
	if sandboxConfig != nil && sandboxConfig.LogDirectory != "" && cfg.LogPath != "" {
		logPath = filepath.Join(sandboxConfig.LogDirectory, cfg.LogPath)
		if err := os.MkdirAll(filepath.Dir(logPath), 0o755); err != nil {
			return "", fmt.Errorf("cannot create container log directory: %w", err)
		}
		log.Debugf(ctx, "composed container log path %s", logPath)
	} else {
		log.Infof(ctx, "logging disabled for container %s: empty log paths", id)
	}

	container := &registry.UserContainer{
		ID:           id,
		PodSandboxID: podSandboxID,
		ImageRef:     cfg.Image.Image,
		CreatedAt:    time.Now().UnixNano(),
		State:        v1alpha2.ContainerState_CONTAINER_CREATED,
		Config:       cfg,
		LogPath:      logPath,
		Volumes:      volumes,
	}
	c.containers.Add(container)
	c.sandboxes.AppendRunningContainer(podSandboxID, id)

	return id, nil
}

// StartContainer resolves the container's module and runtime handler,
// starts an adapter through an ExecutionHarness, and transitions the
// container to Running.
func (c *LifecycleController) StartContainer(ctx context.Context, id string) error {
	ctx, span := log.StartSpan(ctx)
	defer span.End()

	container := c.containers.Get(id)
	if container == nil {
		return fmt.Errorf("%w: container %s", ErrNotFound, id)
	}
	sandbox := c.sandboxes.Get(container.PodSandboxID)
	if sandbox == nil {
		return fmt.Errorf("%w: pod sandbox %s", ErrNotFound, container.PodSandboxID)
	}
	handler, err := resolveRuntimeHandler(sandbox.Inner.RuntimeHandler)
	if err != nil {
		return err
	}

	ref, err := reference.Parse(container.ImageRef)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}
	modulePath, err := c.moduleStore.PullFilePath(ref)
	if err != nil {
		return fmt.Errorf("cannot resolve module path: %w", err)
	}

	env := make(wasmruntime.EnvVars, len(container.Config.Envs))
	for _, kv := range container.Config.Envs {
		env[kv.Key] = kv.Value
	}

	spec := wasmruntime.Spec{ModulePath: modulePath, Env: env}

	var adapter wasmruntime.Adapter
	switch handler {
	case runtimeHandlerWascc:
		key := container.Config.Annotations[actorKeyAnnotation]
		if key == "" {
			return fmt.Errorf("%w: actor key is required", ErrInvalidArgument)
		}
		env["WASCC_ACTOR_KEY"] = key
		adapter = c.wasccAdapter
	case runtimeHandlerWasi:
		spec.Args = container.Config.Args
		if container.LogPath != "" {
			spec.LogDir = filepath.Dir(container.LogPath)
		}
		adapter = c.wasiAdapter
	default:
		return fmt.Errorf("%w: invalid runtime handler %q", ErrInvalidArgument, handler)
	}

	harness := wasmruntime.New(adapter, spec)
	token, err := harness.Start(ctx)
	if err != nil {
		return fmt.Errorf("unable to run module: %w", err)
	}

	c.runningMu.Lock()
	c.running[id] = token
	c.runningMu.Unlock()

	c.containers.SetState(id, v1alpha2.ContainerState_CONTAINER_RUNNING)
	log.Infof(ctx, "started container %s with handler %s", id, handler)
	return nil
}

// StopContainer asks the running instance to stop, if any, and marks the
// container Exited. Always succeeds.
func (c *LifecycleController) StopContainer(ctx context.Context, id string, timeout int64) error {
	ctx, span := log.StartSpan(ctx)
	defer span.End()
	_ = timeout // accepted but ignored, see DESIGN.md open questions

	c.runningMu.RLock()
	token, ok := c.running[id]
	c.runningMu.RUnlock()
	if ok {
		if err := token.Stop(); err != nil {
			log.Infof(ctx, "module was not stopped: %v", err)
		}
	}
	if c.containers.Get(id) != nil {
		c.containers.SetState(id, v1alpha2.ContainerState_CONTAINER_EXITED)
	}
	return nil
}

// RemoveContainer evicts the running-set entry, removes the container from
// the registry, and detaches it from its sandbox.
func (c *LifecycleController) RemoveContainer(ctx context.Context, id string) error {
	ctx, span := log.StartSpan(ctx)
	defer span.End()

	c.runningMu.Lock()
	token, ok := c.running[id]
	if ok {
		delete(c.running, id)
	}
	c.runningMu.Unlock()
	if ok {
		if err := token.Remove(); err != nil {
			log.Infof(ctx, "module was not removed: %v", err)
		}
	}

	if container := c.containers.Get(id); container != nil {
		c.sandboxes.RemoveRunningContainer(container.PodSandboxID, id)
	}
	c.containers.Remove(id)
	return nil
}

// ListContainers applies the standard id/state/sandbox-id/labels filter.
func (c *LifecycleController) ListContainers(ctx context.Context, filter *v1alpha2.ContainerFilter) ([]*v1alpha2.Container, error) {
	_, span := log.StartSpan(ctx)
	defer span.End()

	var id, podSandboxID string
	var state *v1alpha2.ContainerState
	var labels map[string]string
	if filter != nil {
		id = filter.Id
		podSandboxID = filter.PodSandboxId
		if filter.State != nil {
			s := filter.State.State
			state = &s
		}
		labels = filter.LabelSelector
	}

	matched := c.containers.Filter(id, state, podSandboxID, labels)
	out := make([]*v1alpha2.Container, len(matched))
	for i, m := range matched {
		out[i] = containerToWire(m)
	}
	return out, nil
}

// ContainerStatus renders one container's full status.
func (c *LifecycleController) ContainerStatus(ctx context.Context, id string) (*v1alpha2.ContainerStatus, error) {
	_, span := log.StartSpan(ctx)
	defer span.End()

	container := c.containers.Get(id)
	if container == nil {
		return nil, fmt.Errorf("%w: container %s", ErrNotFound, id)
	}
	return containerToStatus(container), nil
}

// ContainerStats reports attributes only; cpu/memory/writable-layer await
// runtime instrumentation.
func (c *LifecycleController) ContainerStats(ctx context.Context, id string) (*v1alpha2.ContainerStats, error) {
	_, span := log.StartSpan(ctx)
	defer span.End()

	container := c.containers.Get(id)
	if container == nil {
		return nil, fmt.Errorf("%w: container %s", ErrNotFound, id)
	}
	return containerToStats(container), nil
}

// ListContainerStats applies id/sandbox-id/labels filtering (stats have no
// state filter on the wire).
func (c *LifecycleController) ListContainerStats(ctx context.Context, filter *v1alpha2.ContainerStatsFilter) ([]*v1alpha2.ContainerStats, error) {
	_, span := log.StartSpan(ctx)
	defer span.End()

	var id, podSandboxID string
	var labels map[string]string
	if filter != nil {
		id = filter.Id
		podSandboxID = filter.PodSandboxId
		labels = filter.LabelSelector
	}

	matched := c.containers.Filter(id, nil, podSandboxID, labels)
	out := make([]*v1alpha2.ContainerStats, len(matched))
	for i, m := range matched {
		out[i] = containerToStats(m)
	}
	return out, nil
}

// ModuleStore exposes the shared module store for the image service facade.
func (c *LifecycleController) ModuleStore() *modulestore.ModuleStore {
	return c.moduleStore
}

package registry

import (
	"sort"
	"sync"

	v1alpha2 "k8s.io/cri-api/pkg/apis/runtime/v1alpha2"
)

// SandboxRegistry is a concurrency-safe catalog of PodSandbox records keyed
// by sandbox ID. Filter sorts by ID so iteration order is deterministic.
type SandboxRegistry struct {
	mu    sync.RWMutex
	items map[string]*PodSandbox
}

// NewSandboxRegistry returns an empty SandboxRegistry.
func NewSandboxRegistry() *SandboxRegistry {
	return &SandboxRegistry{items: make(map[string]*PodSandbox)}
}

// Add inserts or replaces the sandbox keyed by its own ID.
func (r *SandboxRegistry) Add(sandbox *PodSandbox) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[sandbox.Inner.Id] = sandbox
}

// Get returns the sandbox with the given id, or nil if absent.
func (r *SandboxRegistry) Get(id string) *PodSandbox {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.items[id]
}

// Remove deletes the sandbox with the given id. Removing an absent id is a
// no-op.
func (r *SandboxRegistry) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.items, id)
}

// Len returns the number of sandboxes currently registered.
func (r *SandboxRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items)
}

// SetState transitions the sandbox identified by id, if present.
func (r *SandboxRegistry) SetState(id string, state v1alpha2.PodSandboxState) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if sandbox, ok := r.items[id]; ok {
		sandbox.Inner.State = state
	}
}

// AppendRunningContainer records containerID as running inside sandboxID, if
// the sandbox exists.
func (r *SandboxRegistry) AppendRunningContainer(sandboxID, containerID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sandbox, ok := r.items[sandboxID]
	if !ok {
		return
	}
	sandbox.RunningContainers = append(sandbox.RunningContainers, containerID)
}

// RemoveRunningContainer un-records containerID from sandboxID's running set,
// if present in either.
func (r *SandboxRegistry) RemoveRunningContainer(sandboxID, containerID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sandbox, ok := r.items[sandboxID]
	if !ok {
		return
	}
	for i, id := range sandbox.RunningContainers {
		if id == containerID {
			sandbox.RunningContainers = append(sandbox.RunningContainers[:i], sandbox.RunningContainers[i+1:]...)
			return
		}
	}
}

// Filter returns sandboxes matching id (if non-empty), state (if non-nil),
// and every key/value pair in labelSelector (AND semantics), sorted by ID.
func (r *SandboxRegistry) Filter(id string, state *v1alpha2.PodSandboxState, labelSelector map[string]string) []*v1alpha2.PodSandbox {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []*v1alpha2.PodSandbox
	for _, sandbox := range r.items {
		inner := sandbox.Inner
		if id != "" && inner.Id != id {
			continue
		}
		if state != nil && inner.State != *state {
			continue
		}
		if len(labelSelector) > 0 && !hasLabels(labelSelector, inner.Labels) {
			continue
		}
		matched = append(matched, inner)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].Id < matched[j].Id })
	return matched
}

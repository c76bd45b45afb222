package registry

import (
	"sort"
	"sync"

	v1alpha2 "k8s.io/cri-api/pkg/apis/runtime/v1alpha2"
)

// ContainerRegistry is a concurrency-safe catalog of UserContainer records
// keyed by container ID.
type ContainerRegistry struct {
	mu    sync.RWMutex
	items map[string]*UserContainer
}

// NewContainerRegistry returns an empty ContainerRegistry.
func NewContainerRegistry() *ContainerRegistry {
	return &ContainerRegistry{items: make(map[string]*UserContainer)}
}

// Add inserts or replaces the container keyed by its own ID.
func (r *ContainerRegistry) Add(c *UserContainer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[c.ID] = c
}

// Get returns the container with the given id, or nil if absent.
func (r *ContainerRegistry) Get(id string) *UserContainer {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.items[id]
}

// Remove deletes the container with the given id. Removing an absent id is a
// no-op.
func (r *ContainerRegistry) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.items, id)
}

// Len returns the number of containers currently registered.
func (r *ContainerRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items)
}

// SetState transitions the container identified by id, if present.
func (r *ContainerRegistry) SetState(id string, state v1alpha2.ContainerState) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.items[id]; ok {
		c.State = state
	}
}

// Filter returns containers matching id, state, podSandboxID (each only
// applied when non-empty/non-nil), and every key/value pair in
// labelSelector, sorted by ID.
func (r *ContainerRegistry) Filter(id string, state *v1alpha2.ContainerState, podSandboxID string, labelSelector map[string]string) []*UserContainer {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []*UserContainer
	for _, c := range r.items {
		if id != "" && c.ID != id {
			continue
		}
		if state != nil && c.State != *state {
			continue
		}
		if podSandboxID != "" && c.PodSandboxID != podSandboxID {
			continue
		}
		var labels map[string]string
		if c.Config != nil {
			labels = c.Config.Labels
		}
		if len(labelSelector) > 0 && !hasLabels(labelSelector, labels) {
			continue
		}
		matched = append(matched, c)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })
	return matched
}

package registry

import (
	"testing"

	v1alpha2 "k8s.io/cri-api/pkg/apis/runtime/v1alpha2"
)

func newTestContainer(id, sandboxID string, state v1alpha2.ContainerState, labels map[string]string) *UserContainer {
	return &UserContainer{
		ID:           id,
		PodSandboxID: sandboxID,
		State:        state,
		Config:       &v1alpha2.ContainerConfig{Labels: labels},
	}
}

func TestContainerRegistryFilterByPodSandboxID(t *testing.T) {
	r := NewContainerRegistry()
	r.Add(newTestContainer("c1", "s1", v1alpha2.ContainerState_CONTAINER_RUNNING, nil))
	r.Add(newTestContainer("c2", "s2", v1alpha2.ContainerState_CONTAINER_RUNNING, nil))

	got := r.Filter("", nil, "s1", nil)
	if len(got) != 1 || got[0].ID != "c1" {
		t.Fatalf("Filter(podSandboxID=s1) = %v, want exactly c1", got)
	}
}

func TestContainerRegistryFilterByStateAndLabels(t *testing.T) {
	r := NewContainerRegistry()
	r.Add(newTestContainer("c1", "s1", v1alpha2.ContainerState_CONTAINER_RUNNING, map[string]string{"app": "web"}))
	r.Add(newTestContainer("c2", "s1", v1alpha2.ContainerState_CONTAINER_EXITED, map[string]string{"app": "web"}))

	running := v1alpha2.ContainerState_CONTAINER_RUNNING
	got := r.Filter("", &running, "", map[string]string{"app": "web"})
	if len(got) != 1 || got[0].ID != "c1" {
		t.Fatalf("Filter(state=RUNNING, labels) = %v, want exactly c1", got)
	}
}

func TestContainerRegistryRemove(t *testing.T) {
	r := NewContainerRegistry()
	r.Add(newTestContainer("c1", "s1", v1alpha2.ContainerState_CONTAINER_RUNNING, nil))
	r.Remove("c1")
	if r.Get("c1") != nil {
		t.Error("Get after Remove should return nil")
	}
}

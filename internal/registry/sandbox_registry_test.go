package registry

import (
	"testing"

	v1alpha2 "k8s.io/cri-api/pkg/apis/runtime/v1alpha2"
)

func newTestSandbox(id string, state v1alpha2.PodSandboxState, labels map[string]string) *PodSandbox {
	return &PodSandbox{Inner: &v1alpha2.PodSandbox{Id: id, State: state, Labels: labels}}
}

func TestSandboxRegistryFilterByID(t *testing.T) {
	r := NewSandboxRegistry()
	r.Add(newTestSandbox("a", v1alpha2.PodSandboxState_SANDBOX_READY, nil))
	r.Add(newTestSandbox("b", v1alpha2.PodSandboxState_SANDBOX_READY, nil))

	got := r.Filter("a", nil, nil)
	if len(got) != 1 || got[0].Id != "a" {
		t.Fatalf("Filter(id=a) = %v, want exactly sandbox a", got)
	}
}

func TestSandboxRegistryFilterByState(t *testing.T) {
	r := NewSandboxRegistry()
	r.Add(newTestSandbox("a", v1alpha2.PodSandboxState_SANDBOX_READY, nil))
	r.Add(newTestSandbox("b", v1alpha2.PodSandboxState_SANDBOX_NOTREADY, nil))

	ready := v1alpha2.PodSandboxState_SANDBOX_READY
	got := r.Filter("", &ready, nil)
	if len(got) != 1 || got[0].Id != "a" {
		t.Fatalf("Filter(state=READY) = %v, want exactly sandbox a", got)
	}
}

func TestSandboxRegistryFilterByLabelsIsAND(t *testing.T) {
	r := NewSandboxRegistry()
	r.Add(newTestSandbox("a", v1alpha2.PodSandboxState_SANDBOX_READY, map[string]string{"env": "prod", "team": "x"}))
	r.Add(newTestSandbox("b", v1alpha2.PodSandboxState_SANDBOX_READY, map[string]string{"env": "prod"}))

	got := r.Filter("", nil, map[string]string{"env": "prod", "team": "x"})
	if len(got) != 1 || got[0].Id != "a" {
		t.Fatalf("Filter(labels) = %v, want exactly sandbox a", got)
	}
}

func TestSandboxRegistryFilterEmptyReturnsAllSortedByID(t *testing.T) {
	r := NewSandboxRegistry()
	r.Add(newTestSandbox("c", v1alpha2.PodSandboxState_SANDBOX_READY, nil))
	r.Add(newTestSandbox("a", v1alpha2.PodSandboxState_SANDBOX_READY, nil))
	r.Add(newTestSandbox("b", v1alpha2.PodSandboxState_SANDBOX_READY, nil))

	got := r.Filter("", nil, nil)
	if len(got) != 3 {
		t.Fatalf("Filter() returned %d sandboxes, want 3", len(got))
	}
	for i, want := range []string{"a", "b", "c"} {
		if got[i].Id != want {
			t.Errorf("got[%d].Id = %q, want %q", i, got[i].Id, want)
		}
	}
}

func TestSandboxRegistryRunningContainersTracking(t *testing.T) {
	r := NewSandboxRegistry()
	r.Add(newTestSandbox("a", v1alpha2.PodSandboxState_SANDBOX_READY, nil))

	r.AppendRunningContainer("a", "c1")
	r.AppendRunningContainer("a", "c2")
	if got := r.Get("a").RunningContainers; len(got) != 2 {
		t.Fatalf("RunningContainers = %v, want 2 entries", got)
	}

	r.RemoveRunningContainer("a", "c1")
	got := r.Get("a").RunningContainers
	if len(got) != 1 || got[0] != "c2" {
		t.Fatalf("RunningContainers after removal = %v, want [c2]", got)
	}
}

package registry

import (
	v1alpha2 "k8s.io/cri-api/pkg/apis/runtime/v1alpha2"
)

// PodSandbox is the internal record for one sandbox: the CRI wire type plus
// the bookkeeping the controller needs that has no place on the wire.
type PodSandbox struct {
	Inner             *v1alpha2.PodSandbox
	RunningContainers []string
}

// UserContainer is the internal record for one container: the fields the
// kubelet sent in CreateContainerRequest, plus state the controller derives
// and tracks across the container's lifetime.
type UserContainer struct {
	ID           string
	PodSandboxID string
	ImageRef     string
	CreatedAt    int64
	State        v1alpha2.ContainerState
	Config       *v1alpha2.ContainerConfig
	// LogPath is empty when logging is disabled for this container, either
	// because the sandbox or the container config did not specify one.
	LogPath string
	Volumes []*v1alpha2.Mount
}

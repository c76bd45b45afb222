package controller

import (
	v1alpha2 "k8s.io/cri-api/pkg/apis/runtime/v1alpha2"
)

// containerToWire renders a UserContainer as the CRI wire Container type
// returned by ListContainers.
func containerToWire(c *UserContainer) *v1alpha2.Container {
	wire := &v1alpha2.Container{
		Id:           c.ID,
		PodSandboxId: c.PodSandboxID,
		ImageRef:     c.ImageRef,
		CreatedAt:    c.CreatedAt,
		State:        c.State,
	}
	if c.Config != nil {
		wire.Image = c.Config.Image
		wire.Metadata = c.Config.Metadata
		wire.Labels = c.Config.Labels
		wire.Annotations = c.Config.Annotations
	}
	return wire
}

// containerToStats renders a UserContainer as ContainerStats with only the
// attributes populated; cpu/memory/writable-layer await runtime
// instrumentation this revision doesn't have.
func containerToStats(c *UserContainer) *v1alpha2.ContainerStats {
	attrs := &v1alpha2.ContainerAttributes{Id: c.ID}
	if c.Config != nil {
		attrs.Metadata = c.Config.Metadata
		attrs.Labels = c.Config.Labels
		attrs.Annotations = c.Config.Annotations
	}
	return &v1alpha2.ContainerStats{Attributes: attrs}
}

// containerToStatus renders a UserContainer as ContainerStatus, with
// log_path formatted as an empty string when logging is disabled.
func containerToStatus(c *UserContainer) *v1alpha2.ContainerStatus {
	status := &v1alpha2.ContainerStatus{
		Id:        c.ID,
		State:     c.State,
		CreatedAt: c.CreatedAt,
		ImageRef:  c.ImageRef,
		LogPath:   c.LogPath,
		Mounts:    c.Volumes,
	}
	if c.Config != nil {
		status.Image = c.Config.Image
		status.Metadata = c.Config.Metadata
		status.Labels = c.Config.Labels
		status.Annotations = c.Config.Annotations
	}
	return status
}

// sandboxToStatus renders a PodSandbox as PodSandboxStatus; network and
// linux fields are left unset because networking is out of scope.
func sandboxToStatus(s *PodSandbox) *v1alpha2.PodSandboxStatus {
	inner := s.Inner
	return &v1alpha2.PodSandboxStatus{
		Id:             inner.Id,
		Metadata:       inner.Metadata,
		CreatedAt:      inner.CreatedAt,
		Annotations:    inner.Annotations,
		Labels:         inner.Labels,
		State:          inner.State,
		RuntimeHandler: inner.RuntimeHandler,
	}
}

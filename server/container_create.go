package server

import (
	"context"

	v1alpha2 "k8s.io/cri-api/pkg/apis/runtime/v1alpha2"
)

// CreateContainer creates a container inside an already-running sandbox.
func (s *Server) CreateContainer(ctx context.Context, req *v1alpha2.CreateContainerRequest) (*v1alpha2.CreateContainerResponse, error) {
	id, err := s.lifecycle.CreateContainer(ctx, req.PodSandboxId, req.Config, req.SandboxConfig)
	if err != nil {
		return nil, toStatus(err)
	}
	return &v1alpha2.CreateContainerResponse{ContainerId: id}, nil
}

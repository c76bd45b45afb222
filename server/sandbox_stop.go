package server

import (
	"context"

	v1alpha2 "k8s.io/cri-api/pkg/apis/runtime/v1alpha2"
)

// StopPodSandbox stops a sandbox and every container running inside it.
func (s *Server) StopPodSandbox(ctx context.Context, req *v1alpha2.StopPodSandboxRequest) (*v1alpha2.StopPodSandboxResponse, error) {
	if err := s.lifecycle.StopPodSandbox(ctx, req.PodSandboxId); err != nil {
		return nil, toStatus(err)
	}
	return &v1alpha2.StopPodSandboxResponse{}, nil
}

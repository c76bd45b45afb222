package server

import (
	"context"

	v1alpha2 "k8s.io/cri-api/pkg/apis/runtime/v1alpha2"
)

// RemovePodSandbox deletes a stopped sandbox and any containers left in it.
func (s *Server) RemovePodSandbox(ctx context.Context, req *v1alpha2.RemovePodSandboxRequest) (*v1alpha2.RemovePodSandboxResponse, error) {
	if err := s.lifecycle.RemovePodSandbox(ctx, req.PodSandboxId); err != nil {
		return nil, toStatus(err)
	}
	return &v1alpha2.RemovePodSandboxResponse{}, nil
}

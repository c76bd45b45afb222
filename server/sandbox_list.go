package server

import (
	"context"

	v1alpha2 "k8s.io/cri-api/pkg/apis/runtime/v1alpha2"
)

// ListPodSandbox lists sandboxes matching the optional filter.
func (s *Server) ListPodSandbox(ctx context.Context, req *v1alpha2.ListPodSandboxRequest) (*v1alpha2.ListPodSandboxResponse, error) {
	sandboxes, err := s.lifecycle.ListPodSandbox(ctx, req.Filter)
	if err != nil {
		return nil, toStatus(err)
	}
	return &v1alpha2.ListPodSandboxResponse{Items: sandboxes}, nil
}

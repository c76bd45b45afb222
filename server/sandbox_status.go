package server

import (
	"context"

	v1alpha2 "k8s.io/cri-api/pkg/apis/runtime/v1alpha2"
)

// PodSandboxStatus reports one sandbox's full status.
func (s *Server) PodSandboxStatus(ctx context.Context, req *v1alpha2.PodSandboxStatusRequest) (*v1alpha2.PodSandboxStatusResponse, error) {
	status, err := s.lifecycle.PodSandboxStatus(ctx, req.PodSandboxId)
	if err != nil {
		return nil, toStatus(err)
	}
	return &v1alpha2.PodSandboxStatusResponse{Status: status}, nil
}

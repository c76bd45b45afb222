package server

import (
	"context"

	v1alpha2 "k8s.io/cri-api/pkg/apis/runtime/v1alpha2"
)

// RunPodSandbox creates and starts a pod-level sandbox.
func (s *Server) RunPodSandbox(ctx context.Context, req *v1alpha2.RunPodSandboxRequest) (*v1alpha2.RunPodSandboxResponse, error) {
	id, err := s.lifecycle.RunPodSandbox(ctx, req.Config, req.RuntimeHandler)
	if err != nil {
		return nil, toStatus(err)
	}
	return &v1alpha2.RunPodSandboxResponse{PodSandboxId: id}, nil
}

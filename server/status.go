package server

import (
	"context"

	v1alpha2 "k8s.io/cri-api/pkg/apis/runtime/v1alpha2"
)

// Status reports runtime readiness.
func (s *Server) Status(ctx context.Context, req *v1alpha2.StatusRequest) (*v1alpha2.StatusResponse, error) {
	resp, err := s.lifecycle.Status(ctx, req.Verbose)
	if err != nil {
		return nil, toStatus(err)
	}
	return resp, nil
}

package server

import (
	"context"

	v1alpha2 "k8s.io/cri-api/pkg/apis/runtime/v1alpha2"
)

// Version reports the runtime's fixed API version and build metadata.
func (s *Server) Version(ctx context.Context, req *v1alpha2.VersionRequest) (*v1alpha2.VersionResponse, error) {
	resp, err := s.lifecycle.Version(ctx)
	if err != nil {
		return nil, toStatus(err)
	}
	return resp, nil
}

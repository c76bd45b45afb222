package server

import (
	"context"

	v1alpha2 "k8s.io/cri-api/pkg/apis/runtime/v1alpha2"
)

// UpdateRuntimeConfig sets or clears the pod CIDR.
func (s *Server) UpdateRuntimeConfig(ctx context.Context, req *v1alpha2.UpdateRuntimeConfigRequest) (*v1alpha2.UpdateRuntimeConfigResponse, error) {
	var cidr string
	if rc := req.RuntimeConfig; rc != nil && rc.NetworkConfig != nil {
		cidr = rc.NetworkConfig.PodCidr
	}
	if err := s.lifecycle.UpdateRuntimeConfig(ctx, cidr); err != nil {
		return nil, toStatus(err)
	}
	return &v1alpha2.UpdateRuntimeConfigResponse{}, nil
}

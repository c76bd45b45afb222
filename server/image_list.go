package server

import (
	"context"

	v1alpha2 "k8s.io/cri-api/pkg/apis/runtime/v1alpha2"

	"github.com/wasmcri/wasmcrid/internal/modulestore"
)

func moduleToWire(m modulestore.Module) *v1alpha2.Image {
	return &v1alpha2.Image{
		Id:          m.ID,
		RepoTags:    m.RepoTags,
		RepoDigests: m.RepoDigests,
		Size_:       uint64(m.Size),
		Spec:        &v1alpha2.ImageSpec{Image: m.ID},
		Uid:         &v1alpha2.Int64Value{Value: 0},
		Username:    m.Username,
		Pinned:      false,
	}
}

// ListImages lists every module pulled into the store.
func (s *Server) ListImages(ctx context.Context, req *v1alpha2.ListImagesRequest) (*v1alpha2.ListImagesResponse, error) {
	modules := s.lifecycle.ModuleStore().List()
	images := make([]*v1alpha2.Image, len(modules))
	for i, m := range modules {
		images[i] = moduleToWire(m)
	}
	return &v1alpha2.ListImagesResponse{Images: images}, nil
}

package server

import (
	"context"
	"time"

	v1alpha2 "k8s.io/cri-api/pkg/apis/runtime/v1alpha2"
)

// ImageFsInfo reports the module store's aggregate disk usage as a single
// filesystem record, shared between the image and container filesystems
// since modules and their runtime instances share one root directory.
func (s *Server) ImageFsInfo(ctx context.Context, req *v1alpha2.ImageFsInfoRequest) (*v1alpha2.ImageFsInfoResponse, error) {
	store := s.lifecycle.ModuleStore()
	usage := &v1alpha2.FilesystemUsage{
		Timestamp:  time.Now().UnixNano(),
		FsId:       &v1alpha2.FilesystemIdentifier{Mountpoint: store.RootDir()},
		UsedBytes:  &v1alpha2.UInt64Value{Value: uint64(store.UsedBytes())},
		InodesUsed: &v1alpha2.UInt64Value{Value: uint64(store.UsedInodes())},
	}
	return &v1alpha2.ImageFsInfoResponse{
		ImageFilesystems:     []*v1alpha2.FilesystemUsage{usage},
		ContainerFilesystems: []*v1alpha2.FilesystemUsage{usage},
	}, nil
}

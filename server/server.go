// Package server exposes a LifecycleController over the CRI
// RuntimeService and ImageService gRPC interfaces. Each RPC gets its own
// file, thin translation only: argument unwrapping, a single controller
// call, and status-code classification of the returned error.
package server

import (
	v1alpha2 "k8s.io/cri-api/pkg/apis/runtime/v1alpha2"

	"github.com/wasmcri/wasmcrid/internal/controller"
)

// Server adapts a LifecycleController to the generated gRPC server
// interfaces. Embedding the Unimplemented types keeps the server
// source-compatible with future CRI RPC additions.
type Server struct {
	v1alpha2.UnimplementedRuntimeServiceServer
	v1alpha2.UnimplementedImageServiceServer

	lifecycle *controller.LifecycleController
}

// New wraps lifecycle as a gRPC server.
func New(lifecycle *controller.LifecycleController) *Server {
	return &Server{lifecycle: lifecycle}
}

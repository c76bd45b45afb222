package server

import (
	"bytes"
	"context"
	"io"
	"os"
	"testing"

	v1alpha2 "k8s.io/cri-api/pkg/apis/runtime/v1alpha2"

	"github.com/wasmcri/wasmcrid/internal/controller"
	"github.com/wasmcri/wasmcrid/internal/modulestore"
	"github.com/wasmcri/wasmcrid/internal/wasmruntime"
	"github.com/wasmcri/wasmcrid/pkg/reference"
)

type stubPuller struct{}

func (stubPuller) Pull(ctx context.Context, ref reference.Reference, dest string) error {
	return os.WriteFile(dest, []byte("\x00asm"), 0o644)
}

// fakeAdapter starts instances that run until Stop is called.
type fakeAdapter struct{}

func (fakeAdapter) Start(spec wasmruntime.Spec) (wasmruntime.Handle, error) {
	return &fakeHandle{done: make(chan struct{})}, nil
}

type fakeHandle struct {
	done chan struct{}
}

func (h *fakeHandle) Wait() error {
	<-h.done
	return nil
}

func (h *fakeHandle) Stop() error {
	select {
	case <-h.done:
	default:
		close(h.done)
	}
	return nil
}

func (h *fakeHandle) Output() (io.Reader, io.Reader, error) {
	return bytes.NewReader(nil), bytes.NewReader(nil), nil
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	store, err := modulestore.New(t.TempDir(), stubPuller{})
	if err != nil {
		t.Fatalf("modulestore.New: %v", err)
	}
	lifecycle := controller.New(t.TempDir(), store, &fakeAdapter{}, &fakeAdapter{})
	return New(lifecycle)
}

func TestVersionRPC(t *testing.T) {
	s := newTestServer(t)
	resp, err := s.Version(context.Background(), &v1alpha2.VersionRequest{})
	if err != nil {
		t.Fatalf("Version: %v", err)
	}
	if resp.RuntimeName != "wasmcrid" {
		t.Errorf("RuntimeName = %q", resp.RuntimeName)
	}
}

func TestPullImageAndListImages(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	pullResp, err := s.PullImage(ctx, &v1alpha2.PullImageRequest{
		Image: &v1alpha2.ImageSpec{Image: "webassembly.azurecr.io/hello:v1"},
	})
	if err != nil {
		t.Fatalf("PullImage: %v", err)
	}
	if pullResp.ImageRef != "webassembly.azurecr.io/hello:v1" {
		t.Errorf("ImageRef = %q", pullResp.ImageRef)
	}

	listResp, err := s.ListImages(ctx, &v1alpha2.ListImagesRequest{})
	if err != nil {
		t.Fatalf("ListImages: %v", err)
	}
	if len(listResp.Images) != 1 || listResp.Images[0].Id != "webassembly.azurecr.io/hello:v1" {
		t.Fatalf("ListImages = %+v", listResp.Images)
	}

	statusResp, err := s.ImageStatus(ctx, &v1alpha2.ImageStatusRequest{
		Image: &v1alpha2.ImageSpec{Image: "webassembly.azurecr.io/hello:v1"},
	})
	if err != nil {
		t.Fatalf("ImageStatus: %v", err)
	}
	if statusResp.Image == nil {
		t.Fatal("ImageStatus returned no image")
	}

	missing, err := s.ImageStatus(ctx, &v1alpha2.ImageStatusRequest{
		Image: &v1alpha2.ImageSpec{Image: "webassembly.azurecr.io/nope:v1"},
	})
	if err != nil {
		t.Fatalf("ImageStatus(missing): %v", err)
	}
	if missing.Image != nil {
		t.Errorf("ImageStatus(missing) = %+v, want nil image", missing.Image)
	}
}

func TestImageFsInfoReportsPulledBytes(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	if _, err := s.PullImage(ctx, &v1alpha2.PullImageRequest{
		Image: &v1alpha2.ImageSpec{Image: "webassembly.azurecr.io/hello:v1"},
	}); err != nil {
		t.Fatalf("PullImage: %v", err)
	}

	resp, err := s.ImageFsInfo(ctx, &v1alpha2.ImageFsInfoRequest{})
	if err != nil {
		t.Fatalf("ImageFsInfo: %v", err)
	}
	if len(resp.ImageFilesystems) != 1 || resp.ImageFilesystems[0].UsedBytes.Value != 4 {
		t.Fatalf("ImageFsInfo = %+v", resp.ImageFilesystems)
	}
}

func TestRemoveImageIsUnimplemented(t *testing.T) {
	s := newTestServer(t)
	if _, err := s.RemoveImage(context.Background(), &v1alpha2.RemoveImageRequest{}); err == nil {
		t.Fatal("RemoveImage succeeded, want Unimplemented error")
	}
}

func TestRunAndStopPodSandboxRPC(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	runResp, err := s.RunPodSandbox(ctx, &v1alpha2.RunPodSandboxRequest{
		Config: &v1alpha2.PodSandboxConfig{Metadata: &v1alpha2.PodSandboxMetadata{Name: "web"}},
	})
	if err != nil {
		t.Fatalf("RunPodSandbox: %v", err)
	}

	listResp, err := s.ListPodSandbox(ctx, &v1alpha2.ListPodSandboxRequest{})
	if err != nil {
		t.Fatalf("ListPodSandbox: %v", err)
	}
	if len(listResp.Items) != 1 || listResp.Items[0].Id != runResp.PodSandboxId {
		t.Fatalf("ListPodSandbox = %+v", listResp.Items)
	}

	if _, err := s.RemovePodSandbox(ctx, &v1alpha2.RemovePodSandboxRequest{PodSandboxId: runResp.PodSandboxId}); err == nil {
		t.Fatal("RemovePodSandbox on ready sandbox succeeded, want error")
	}

	if _, err := s.StopPodSandbox(ctx, &v1alpha2.StopPodSandboxRequest{PodSandboxId: runResp.PodSandboxId}); err != nil {
		t.Fatalf("StopPodSandbox: %v", err)
	}
	if _, err := s.RemovePodSandbox(ctx, &v1alpha2.RemovePodSandboxRequest{PodSandboxId: runResp.PodSandboxId}); err != nil {
		t.Fatalf("RemovePodSandbox: %v", err)
	}
}

package controller

import "github.com/wasmcri/wasmcrid/internal/registry"

// PodSandbox and UserContainer are the controller's domain types. They live
// in internal/registry to avoid an import cycle between the registry and
// controller packages (the registries must be able to name the entities
// they store); the controller re-exports them under these names since it is
// where callers reading this package expect to find them.
type (
	PodSandbox    = registry.PodSandbox
	UserContainer = registry.UserContainer
)

const (
	// apiVersion is the CRI API version this controller implements.
	apiVersion = "v1alpha2"
	// buildVersion is wasmcrid's own release version.
	buildVersion = "0.1.0"
	// runtimeName identifies this runtime to the kubelet.
	runtimeName = "wasmcrid"

	// runtimeHandlerWasi and runtimeHandlerWascc are the two recognized
	// runtime_handler values on a PodSandboxConfig/PodSandbox.
	runtimeHandlerWasi  = "WASI"
	runtimeHandlerWascc = "WASCC"

	// actorKeyAnnotation carries a wasCC actor's signing public key.
	actorKeyAnnotation = "deislabs.io/actor-key"
)

package reference_test

import (
	"testing"

	"github.com/wasmcri/wasmcrid/pkg/reference"
)

func TestParseValid(t *testing.T) {
	ref, err := reference.Parse("webassembly.azurecr.io/hello:v1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := ref.Registry(); got != "webassembly.azurecr.io" {
		t.Errorf("Registry() = %q, want %q", got, "webassembly.azurecr.io")
	}
	if got := ref.Repository(); got != "hello" {
		t.Errorf("Repository() = %q, want %q", got, "hello")
	}
	if got := ref.Tag(); got != "v1" {
		t.Errorf("Tag() = %q, want %q", got, "v1")
	}
	if got := ref.Whole(); got != "webassembly.azurecr.io/hello:v1" {
		t.Errorf("Whole() = %q, want the original string", got)
	}
}

func TestParseInvalid(t *testing.T) {
	cases := []string{
		"",
		"noslash",
		"registry/notag",
		"/repo:tag",
		"registry/:tag",
		"registry/repo:",
	}
	for _, c := range cases {
		if _, err := reference.Parse(c); err == nil {
			t.Errorf("Parse(%q) succeeded, want error", c)
		}
	}
}

func TestParseMultipleSlashesUsesFirst(t *testing.T) {
	ref, err := reference.Parse("registry.example.com/org/repo:v2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := ref.Registry(); got != "registry.example.com" {
		t.Errorf("Registry() = %q, want %q", got, "registry.example.com")
	}
	if got := ref.Repository(); got != "org/repo" {
		t.Errorf("Repository() = %q, want %q", got, "org/repo")
	}
	if got := ref.Tag(); got != "v2" {
		t.Errorf("Tag() = %q, want %q", got, "v2")
	}
}

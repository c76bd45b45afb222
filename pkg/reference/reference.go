// Package reference parses the "registry/repository:tag" image references
// used to address WebAssembly modules in the module store.
package reference

import (
	"fmt"
	"strings"
)

// Reference is an immutable, parsed "registry/repository:tag" string. The
// whole input is retained verbatim for identity; Registry/Repository/Tag are
// views into it, not copies.
type Reference struct {
	whole string
	slash int
	colon int
}

// Parse splits s into its registry, repository, and tag components. Parsing
// fails if the first "/" is missing, or if a ":" after it is missing.
func Parse(s string) (Reference, error) {
	slash := strings.IndexByte(s, '/')
	if slash < 0 {
		return Reference{}, fmt.Errorf("invalid reference %q: missing registry separator '/'", s)
	}
	colon := strings.IndexByte(s[slash+1:], ':')
	if colon < 0 {
		return Reference{}, fmt.Errorf("invalid reference %q: missing tag separator ':'", s)
	}
	colon += slash + 1

	if slash == 0 {
		return Reference{}, fmt.Errorf("invalid reference %q: empty registry", s)
	}
	if colon == slash+1 {
		return Reference{}, fmt.Errorf("invalid reference %q: empty repository", s)
	}
	if colon == len(s)-1 {
		return Reference{}, fmt.Errorf("invalid reference %q: empty tag", s)
	}

	return Reference{whole: s, slash: slash, colon: colon}, nil
}

// Whole returns the original reference string.
func (r Reference) Whole() string { return r.whole }

// Registry returns the registry component.
func (r Reference) Registry() string { return r.whole[:r.slash] }

// Repository returns the repository component.
func (r Reference) Repository() string { return r.whole[r.slash+1 : r.colon] }

// Tag returns the tag component.
func (r Reference) Tag() string { return r.whole[r.colon+1:] }

// String satisfies fmt.Stringer by returning the whole reference.
func (r Reference) String() string { return r.whole }

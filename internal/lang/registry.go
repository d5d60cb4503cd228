package lang

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ludo-technologies/copyscn/domain"
)

// Registry holds the supported language profiles for one run.
type Registry struct {
	profiles map[string]*Profile
}

// NewRegistry validates and indexes profiles by lowercase name.
func NewRegistry(profiles ...*Profile) (*Registry, error) {
	r := &Registry{profiles: make(map[string]*Profile, len(profiles))}
	for _, p := range profiles {
		if p == nil {
			return nil, fmt.Errorf("nil language profile")
		}
		if err := p.Validate(); err != nil {
			return nil, err
		}
		if _, dup := r.profiles[p.Name()]; dup {
			return nil, fmt.Errorf("language %s registered twice", p.Name())
		}
		r.profiles[p.Name()] = p
	}
	return r, nil
}

// MustNewRegistry is like NewRegistry but panics on an invalid profile.
func MustNewRegistry(profiles ...*Profile) *Registry {
	r, err := NewRegistry(profiles...)
	if err != nil {
		panic(err)
	}
	return r
}

// DefaultRegistry returns a fresh registry with java, python, c and matlab.
func DefaultRegistry() *Registry {
	return MustNewRegistry(Java(), Python(), C(), Matlab())
}

// Lookup resolves a language name case-insensitively. An unknown name is an
// UNSUPPORTED_LANGUAGE domain error.
func (r *Registry) Lookup(name string) (*Profile, error) {
	p, ok := r.profiles[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, domain.NewUnsupportedLanguageError(name, r.Names())
	}
	return p, nil
}

// Names returns the registered names in sorted order
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.profiles))
	for n := range r.profiles {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Profiles returns the registered profiles in name order
func (r *Registry) Profiles() []*Profile {
	names := r.Names()
	out := make([]*Profile, len(names))
	for i, n := range names {
		out[i] = r.profiles[n]
	}
	return out
}

// ByExtension finds the profile owning a file extension
func (r *Registry) ByExtension(ext string) (*Profile, bool) {
	for _, p := range r.Profiles() {
		if strings.EqualFold(p.Extension(), ext) {
			return p, true
		}
	}
	return nil, false
}

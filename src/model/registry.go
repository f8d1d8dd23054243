package model

import "github.com/sailkite/dockyard/src/naming"

// Registry is one push destination declaration.
type Registry struct {
	// Name is the declaration identity, unique within the container.
	Name string

	prefix *Lazy[string]
}

// NewRegistry creates a registry with an empty prefix.
func NewRegistry(name string) *Registry {
	return &Registry{
		Name:   name,
		prefix: NewLazy(func() string { return "" }),
	}
}

// SetPrefix sets the host/path prefix prepended to image references pushed
// to this registry.
func (r *Registry) SetPrefix(prefix string) {
	r.prefix.Set(prefix)
}

// SetPrefixProvider defers the prefix to a computation.
func (r *Registry) SetPrefixProvider(provider func() string) {
	r.prefix.SetProvider(provider)
}

// Prefix returns the prefix normalized to end in "/". Normalization is
// idempotent, so a declared trailing slash is not doubled.
func (r *Registry) Prefix() string {
	return naming.PathPrefix(r.prefix.Get())
}

// NewRegistries creates an empty registry container.
func NewRegistries() *Container[*Registry] {
	return NewContainer(NewRegistry)
}

package model

import "fmt"

// Container is an insertion-ordered, name-keyed collection of entities.
// Each registered on it is a live subscription: the handler fires for
// members already present and again for every member added later. That is
// what lets task synthesis wire an image against registries declared after
// it (and vice versa) without a second pass.
//
// Containers are mutated only during the single-threaded configuration
// phase, so no locking is needed.
type Container[T any] struct {
	byName   map[string]T
	order    []string
	handlers []func(T)
	create   func(name string) T
}

// NewContainer creates a container whose entries are built by create on
// first registration of a name.
func NewContainer[T any](create func(name string) T) *Container[T] {
	return &Container[T]{
		byName: map[string]T{},
		create: create,
	}
}

// Register adds a new named entry and applies configure to it. Registering
// a name that already exists is a configuration error. Subscribers are
// notified before the configurator runs, so a subscribed default provider
// never overrides an explicitly configured attribute.
func (c *Container[T]) Register(name string, configure func(T)) (T, error) {
	if _, exists := c.byName[name]; exists {
		var zero T
		return zero, fmt.Errorf("duplicate name: %q", name)
	}
	entry := c.create(name)
	c.byName[name] = entry
	c.order = append(c.order, name)
	for _, h := range c.handlers {
		h(entry)
	}
	if configure != nil {
		configure(entry)
	}
	return entry, nil
}

// GetOrRegister returns the existing entry for name, creating it if absent.
// configure is applied either way, so late declarations can still adjust an
// implicitly created entry.
func (c *Container[T]) GetOrRegister(name string, configure func(T)) T {
	if entry, exists := c.byName[name]; exists {
		if configure != nil {
			configure(entry)
		}
		return entry
	}
	entry, _ := c.Register(name, configure)
	return entry
}

// Get returns the entry for name.
func (c *Container[T]) Get(name string) (T, bool) {
	entry, ok := c.byName[name]
	return entry, ok
}

// Each invokes fn for every current member in insertion order, then again
// for every member registered afterwards.
func (c *Container[T]) Each(fn func(T)) {
	c.handlers = append(c.handlers, fn)
	for _, name := range c.order {
		fn(c.byName[name])
	}
}

// Names returns the member names in insertion order.
func (c *Container[T]) Names() []string {
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

// Len returns the current member count.
func (c *Container[T]) Len() int { return len(c.order) }

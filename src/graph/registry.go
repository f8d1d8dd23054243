package graph

import (
	"errors"
	"fmt"
)

// ErrDuplicateTask is returned when two tasks resolve to the same derived
// name. Distinct declared names can legitimately collide because segment
// derivation collapses separator variants.
var ErrDuplicateTask = errors.New("duplicate task name")

// Registry is the name-keyed task collection handed to the scheduler.
// Tasks are registered during the single-threaded configuration phase, so
// no locking is needed.
type Registry struct {
	byName map[string]*Task
	order  []string
}

// NewRegistry creates an empty task registry.
func NewRegistry() *Registry {
	return &Registry{byName: map[string]*Task{}}
}

// Register adds a task. Duplicate names are a configuration error.
func (r *Registry) Register(name, group string, action *Action) (*Task, error) {
	if _, exists := r.byName[name]; exists {
		return nil, fmt.Errorf("%w: %q", ErrDuplicateTask, name)
	}
	t := &Task{Name: name, Group: group, Action: action}
	r.byName[name] = t
	r.order = append(r.order, name)
	return t, nil
}

// GetOrRegister returns the existing task of that name or registers a new
// umbrella task. Used for the per-registry aggregates, which every image
// wires into.
func (r *Registry) GetOrRegister(name, group string) *Task {
	if t, exists := r.byName[name]; exists {
		return t
	}
	t, _ := r.Register(name, group, nil)
	return t
}

// Get returns a task by name.
func (r *Registry) Get(name string) (*Task, bool) {
	t, ok := r.byName[name]
	return t, ok
}

// Names returns all task names in registration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Tasks returns all tasks in registration order.
func (r *Registry) Tasks() []*Task {
	out := make([]*Task, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.byName[name])
	}
	return out
}

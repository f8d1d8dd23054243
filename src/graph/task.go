// Package graph synthesizes the task graph from the declared images and
// registries: one prepare/build/buildx/run family per image, one push
// family per image×registry pair, plus umbrella tasks aggregating them.
package graph

import "context"

// DockerGroup is the cosmetic group label for every synthesized task.
const DockerGroup = "docker"

// Action is what a task does when executed. Exactly one of Docker or Do is
// set; umbrella tasks carry no Action at all.
type Action struct {
	// Docker provides the argv passed to the docker executable. It is a
	// provider, not a value: deferred image attributes may settle after
	// synthesis, so the argv is computed at execution time.
	Docker func() []string

	// Do is an in-process action (context materialization).
	Do func(ctx context.Context) error

	// Condition gates execution. Evaluated at execution time; when it
	// returns false the action is skipped and the task still counts as
	// succeeded for its dependents. Nil means always run.
	Condition func() bool

	// InputDir names the directory the action consumes, when it has one.
	InputDir func() string
}

// Task is one node in the graph.
type Task struct {
	Name   string
	Group  string
	Action *Action

	deps    []*Task
	depSeen map[string]struct{}
}

// DependsOn adds upstream dependencies, ignoring duplicates.
func (t *Task) DependsOn(upstream ...*Task) {
	if t.depSeen == nil {
		t.depSeen = map[string]struct{}{}
	}
	for _, u := range upstream {
		if _, ok := t.depSeen[u.Name]; ok {
			continue
		}
		t.depSeen[u.Name] = struct{}{}
		t.deps = append(t.deps, u)
	}
}

// Deps returns the upstream dependencies in the order they were wired.
func (t *Task) Deps() []*Task {
	out := make([]*Task, len(t.deps))
	copy(out, t.deps)
	return out
}

// Umbrella reports whether the task exists only to aggregate others.
func (t *Task) Umbrella() bool { return t.Action == nil }

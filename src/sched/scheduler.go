package sched

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/sailkite/dockyard/src/graph"
)

// DockerExecutable is what action argv lists are passed to.
const DockerExecutable = "docker"

// Status of a finished task.
type Status string

const (
	StatusDone    Status = "done"
	StatusSkipped Status = "skipped" // runtime condition was false
	StatusFailed  Status = "failed"
	StatusBlocked Status = "blocked" // an upstream task failed
)

// Event reports one finished task to the reporter.
type Event struct {
	Task     string
	Status   Status
	Duration time.Duration
	Err      error
}

// Reporter receives per-task completion events. Nil reporters are allowed.
type Reporter interface {
	TaskFinished(Event)
}

// Scheduler runs tasks from a registry.
type Scheduler struct {
	Tasks    *graph.Registry
	Runner   Runner
	Reporter Reporter
	// Jobs bounds how many actions run at once. Zero means serial.
	Jobs int64
}

// Plan returns the induced subgraph of the requested tasks and their
// transitive dependencies, in a deterministic topological order
// (dependencies first, registration order as tie-break).
func (s *Scheduler) Plan(names ...string) ([]*graph.Task, error) {
	needed, err := s.collect(names)
	if err != nil {
		return nil, err
	}

	indeg := map[string]int{}
	for _, t := range needed {
		if _, ok := indeg[t.Name]; !ok {
			indeg[t.Name] = 0
		}
		for range t.Deps() {
			indeg[t.Name]++
		}
	}

	var order []*graph.Task
	for len(order) < len(needed) {
		progressed := false
		// Registry registration order keeps the plan stable.
		for _, name := range s.Tasks.Names() {
			t, inPlan := needed[name]
			if !inPlan || indeg[name] != 0 {
				continue
			}
			order = append(order, t)
			indeg[name] = -1
			for _, other := range needed {
				for _, dep := range other.Deps() {
					if dep.Name == name {
						indeg[other.Name]--
					}
				}
			}
			progressed = true
		}
		if !progressed {
			return nil, fmt.Errorf("dependency cycle among tasks %v", mapKeys(needed))
		}
	}
	return order, nil
}

// Run executes the requested tasks and everything they depend on.
// Independent tasks run in parallel up to Jobs; a failed task blocks every
// transitive dependent while unrelated tasks keep running. The first
// failure is returned.
func (s *Scheduler) Run(ctx context.Context, names ...string) error {
	needed, err := s.collect(names)
	if err != nil {
		return err
	}

	jobs := s.Jobs
	if jobs < 1 {
		jobs = 1
	}
	sem := semaphore.NewWeighted(jobs)

	indeg := map[string]int{}
	dependents := map[string][]string{}
	for _, t := range needed {
		indeg[t.Name] = len(t.Deps())
		for _, dep := range t.Deps() {
			dependents[dep.Name] = append(dependents[dep.Name], t.Name)
		}
	}

	type result struct {
		name   string
		status Status
		dur    time.Duration
		err    error
	}
	done := make(chan result)
	tainted := map[string]bool{}
	running := 0
	var firstErr error

	start := func(t *graph.Task) {
		running++
		go func() {
			began := time.Now()
			status, err := s.execute(ctx, sem, t)
			done <- result{t.Name, status, time.Since(began), err}
		}()
	}

	// finish propagates a completed task to its dependents, starting or
	// blocking them as their last dependency resolves.
	var finish func(name string, failed bool)
	finish = func(name string, failed bool) {
		if failed {
			tainted[name] = true
		}
		for _, depName := range dependents[name] {
			indeg[depName]--
			if indeg[depName] != 0 {
				continue
			}
			dep := needed[depName]
			blocked := false
			for _, up := range dep.Deps() {
				if tainted[up.Name] {
					blocked = true
					break
				}
			}
			if blocked {
				s.report(Event{Task: depName, Status: StatusBlocked})
				finish(depName, true)
				continue
			}
			start(dep)
		}
	}

	for _, t := range needed {
		if indeg[t.Name] == 0 {
			start(t)
		}
	}

	for running > 0 {
		r := <-done
		running--
		s.report(Event{Task: r.name, Status: r.status, Duration: r.dur, Err: r.err})
		if r.err != nil && firstErr == nil {
			firstErr = fmt.Errorf("%s: %w", r.name, r.err)
		}
		finish(r.name, r.err != nil)
	}

	return firstErr
}

// execute runs one task's action. Umbrella tasks and false runtime
// conditions complete without doing anything.
func (s *Scheduler) execute(ctx context.Context, sem *semaphore.Weighted, t *graph.Task) (Status, error) {
	if t.Umbrella() {
		return StatusDone, nil
	}
	if t.Action.Condition != nil && !t.Action.Condition() {
		return StatusSkipped, nil
	}

	if err := sem.Acquire(ctx, 1); err != nil {
		return StatusFailed, err
	}
	defer sem.Release(1)

	switch {
	case t.Action.Do != nil:
		if err := t.Action.Do(ctx); err != nil {
			return StatusFailed, err
		}
	case t.Action.Docker != nil:
		if err := s.Runner.Run(ctx, DockerExecutable, t.Action.Docker()); err != nil {
			return StatusFailed, err
		}
	}
	return StatusDone, nil
}

// collect resolves the requested names and their transitive dependencies.
func (s *Scheduler) collect(names []string) (map[string]*graph.Task, error) {
	needed := map[string]*graph.Task{}
	var visit func(t *graph.Task)
	visit = func(t *graph.Task) {
		if _, seen := needed[t.Name]; seen {
			return
		}
		needed[t.Name] = t
		for _, dep := range t.Deps() {
			visit(dep)
		}
	}
	for _, name := range names {
		t, ok := s.Tasks.Get(name)
		if !ok {
			return nil, fmt.Errorf("unknown task: %q", name)
		}
		visit(t)
	}
	return needed, nil
}

func (s *Scheduler) report(ev Event) {
	if s.Reporter != nil {
		s.Reporter.TaskFinished(ev)
	}
}

func mapKeys(m map[string]*graph.Task) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

// Package sched executes synthesized tasks: topological order, bounded
// parallelism, failure propagation to transitive dependents.
package sched

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

// Runner invokes the container engine CLI. It is an interface so tests can
// record invocations instead of spawning processes.
type Runner interface {
	Run(ctx context.Context, executable string, args []string) error
}

// DockerRunner shells out to the real CLI, streaming its output.
type DockerRunner struct {
	Verbose bool
	Stdout  io.Writer
	Stderr  io.Writer
}

// NewDockerRunner creates a runner with default output writers.
func NewDockerRunner(verbose bool) *DockerRunner {
	return &DockerRunner{
		Verbose: verbose,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
	}
}

// Run executes the CLI invocation. A non-zero exit is returned as an
// error and fails the owning task.
func (r *DockerRunner) Run(ctx context.Context, executable string, args []string) error {
	if r.Verbose {
		fmt.Fprintf(r.Stderr, "exec: %s %s\n", executable, strings.Join(args, " "))
	}

	cmd := exec.CommandContext(ctx, executable, args...)
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s %s: %w", executable, args[0], err)
	}
	return nil
}

package cmd

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sailkite/dockyard/src/output"
	"github.com/sailkite/dockyard/src/sched"
)

var (
	runJobs   int64
	runDryRun bool
)

var runCmd = &cobra.Command{
	Use:   "run <task>...",
	Short: "Execute tasks and their dependencies",
	Long: `Execute one or more tasks. Dependencies run first; independent tasks run
in parallel. Use "dockyard list" to see the available task names.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRun,
}

func init() {
	runCmd.Flags().Int64Var(&runJobs, "jobs", int64(runtime.NumCPU()), "max parallel tasks")
	runCmd.Flags().BoolVar(&runDryRun, "dry-run", false, "print the command lines without executing")

	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	p, err := buildProject()
	if err != nil {
		return err
	}

	scheduler := &sched.Scheduler{
		Tasks:    p.tasks,
		Runner:   sched.NewDockerRunner(verbose),
		Reporter: output.NewPrinter(),
		Jobs:     runJobs,
	}

	if runDryRun {
		plan, err := scheduler.Plan(args...)
		if err != nil {
			return err
		}
		for _, t := range plan {
			switch {
			case t.Umbrella():
				fmt.Fprintf(os.Stdout, "%s\n", t.Name)
			case t.Action.Docker != nil:
				fmt.Fprintf(os.Stdout, "%s: %s %s\n", t.Name, sched.DockerExecutable, strings.Join(t.Action.Docker(), " "))
			default:
				fmt.Fprintf(os.Stdout, "%s: (prepare build context)\n", t.Name)
			}
		}
		return nil
	}

	return scheduler.Run(context.Background(), args...)
}

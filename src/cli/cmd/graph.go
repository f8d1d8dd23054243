package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sailkite/dockyard/src/graph"
)

var graphCmd = &cobra.Command{
	Use:   "graph [task]...",
	Short: "Print task dependency trees",
	Long:  "Print the dependency tree of the given tasks, or of every umbrella task.",
	RunE:  runGraph,
}

func init() {
	rootCmd.AddCommand(graphCmd)
}

func runGraph(cmd *cobra.Command, args []string) error {
	p, err := buildProject()
	if err != nil {
		return err
	}

	var roots []*graph.Task
	if len(args) > 0 {
		for _, name := range args {
			t, ok := p.tasks.Get(name)
			if !ok {
				return fmt.Errorf("unknown task: %q", name)
			}
			roots = append(roots, t)
		}
	} else {
		for _, t := range p.tasks.Tasks() {
			if t.Umbrella() {
				roots = append(roots, t)
			}
		}
	}

	for i, root := range roots {
		if i > 0 {
			fmt.Fprintln(os.Stdout)
		}
		printTree(root, "")
	}
	return nil
}

func printTree(t *graph.Task, indent string) {
	fmt.Fprintf(os.Stdout, "%s%s\n", indent, t.Name)
	for _, dep := range t.Deps() {
		printTree(dep, indent+"    ")
	}
}

package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the synthesized tasks",
	RunE:  runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	p, err := buildProject()
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TASK\tGROUP\tKIND")
	for _, t := range p.tasks.Tasks() {
		kind := "action"
		if t.Umbrella() {
			kind = "umbrella"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", t.Name, t.Group, kind)
	}
	return w.Flush()
}

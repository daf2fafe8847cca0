package root

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"habitquest/internal/engine"
	"habitquest/internal/ui"
)

func newListCmd() *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks for today (or --date, or --all days)",
	}
	dateOf := addDateFlag(cmd)
	cmd.Flags().BoolVar(&all, "all", false, "List every day with tasks")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		svc, cleanup, err := openService(ctx)
		if err != nil {
			return err
		}
		defer cleanup()

		days := svc.Dates()
		if !all {
			day, err := dateOf(svc)
			if err != nil {
				return err
			}
			days = []engine.DateKey{day}
		}
		for _, day := range days {
			tasks := svc.Tasks(day)
			fmt.Fprintln(cmd.OutOrStdout(), ui.H2.Render(string(day)))
			if len(tasks) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), ui.Muted.Render("(no tasks)"))
			}
			for i, t := range tasks {
				fmt.Fprintf(cmd.OutOrStdout(), "%3d %s %s\n", i+1, ui.CheckBox(t.Completed), t.Title)
			}
		}
		return nil
	}
	return cmd
}

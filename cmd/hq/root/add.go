package root

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"habitquest/internal/ui"
)

func newAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a task for today (or --date)",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return errors.New("title is required")
			}
			return nil
		},
	}
	dateOf := addDateFlag(cmd)

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		svc, cleanup, err := openService(ctx)
		if err != nil {
			return err
		}
		defer cleanup()

		day, err := dateOf(svc)
		if err != nil {
			return err
		}
		task, err := svc.AddTask(ctx, day, strings.Join(args, " "))
		if err != nil {
			return err
		}
		n := len(svc.Tasks(day))
		fmt.Fprintf(cmd.OutOrStdout(), "%s #%d %s %s\n", ui.Good.Render(ui.IconPlus+" Added"), n, task.Title, ui.Muted.Render(string(day)))
		return nil
	}
	return cmd
}

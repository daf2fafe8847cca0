package root

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"habitquest/internal/ui"
)

func newUndoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "undo <#|id>",
		Short: "Mark a completed task as not done",
		Long: `Mark a completed task as not done.

XP already earned for the task is kept. Completing it again earns the
task XP again.`,
		Args: exactArgs(1, "task number or id is required"),
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
		task, day, err := resolveTask(svc, day, args[0])
		if err != nil {
			return err
		}
		res, err := svc.ToggleCompletion(ctx, day, task.ID, false)
		if err != nil {
			return err
		}
		if !res.Changed {
			fmt.Fprintln(cmd.OutOrStdout(), ui.Muted.Render("Not completed: "+task.Title))
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s\n", ui.Warn.Render(ui.IconUndo+" Reopened"), task.Title, ui.Muted.Render("(XP kept)"))
		return nil
	}
	return cmd
}

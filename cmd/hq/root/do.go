package root

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"habitquest/internal/ui"
)

func newDoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "do <#|id>",
		Short: "Complete a task",
		Args:  exactArgs(1, "task number or id is required"),
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
		levelBefore := svc.Level()
		res, err := svc.ToggleCompletion(ctx, day, task.ID, true)
		if err != nil {
			return err
		}
		if !res.Changed {
			fmt.Fprintln(cmd.OutOrStdout(), ui.Muted.Render("Already done: "+task.Title))
			return nil
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s\n", ui.Good.Render(ui.IconDone+" Completed"), task.Title, ui.Gold.Render(fmt.Sprintf("(+%d XP)", res.XPAwarded)))
		if after := svc.Level(); after > levelBefore {
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", ui.BadgeLevelUp, ui.LabelValue("Level", fmt.Sprintf("%d → %d", levelBefore, after)))
		}
		return nil
	}
	return cmd
}

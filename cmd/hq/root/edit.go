package root

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"habitquest/internal/engine"
	"habitquest/internal/ui"
)

func newEditCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit <#|id> <title>",
		Short: "Rename a task",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) < 2 {
				return errors.New("task and new title are required")
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
		task, day, err := resolveTask(svc, day, args[0])
		if err != nil {
			return err
		}
		title := strings.Join(args[1:], " ")
		updated, err := svc.UpdateTask(ctx, day, task.ID, engine.TaskPatch{Title: &title})
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s → %s\n", ui.H2.Render(ui.IconPencil+" Renamed"), ui.Muted.Render(task.Title), updated.Title)
		return nil
	}
	return cmd
}

func newRmCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rm <#|id>",
		Short: "Delete a task",
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
		if err := svc.DeleteTask(ctx, day, task.ID); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", ui.Warn.Render(ui.IconTrash+" Deleted"), task.Title)
		return nil
	}
	return cmd
}

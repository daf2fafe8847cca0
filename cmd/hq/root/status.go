package root

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"habitquest/internal/engine"
	"habitquest/internal/ui"
)

func newStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show level, XP, streak and category points",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			p := svc.Progress()
			nextReq := engine.XPRequiredForLevel(p.Level + 1)
			out := cmd.OutOrStdout()

			fmt.Fprintln(out, ui.Heading(ui.IconSparkle, svc.DisplayName()))
			fmt.Fprintln(out, ui.LabelValue("Level", p.Level))
			fmt.Fprintln(out, ui.LabelValue("Total XP", fmt.Sprintf("%d (next level at %d, %d to go)", p.TotalXP, nextReq, nextReq-p.TotalXP)))
			fmt.Fprintln(out, "  "+ui.ProgressBar(p.LevelProgress, engine.XPPerLevel, 30))
			fmt.Fprintln(out, ui.LabelValue("Streak", ui.StreakText(p.DisplayStreak, p.StreakCap)))
			fmt.Fprintln(out, ui.LabelValue("Tasks completed", p.CompletedTasks))
			fmt.Fprintln(out, "")

			fmt.Fprintln(out, ui.H2.Render("📊 Points"))
			names := make([]string, 0, len(p.Categories))
			for name := range p.Categories {
				names = append(names, name)
			}
			sort.Strings(names)
			if len(names) == 0 {
				fmt.Fprintln(out, ui.Muted.Render("(none yet; try `hq points fitness 10`)"))
			}
			for _, name := range names {
				fmt.Fprintf(out, "- %s %s: %d\n", ui.CategoryIcon(name), name, p.Categories[name])
			}
			fmt.Fprintln(out, "")

			list := svc.Achievements()
			fmt.Fprintln(out, ui.LabelValue(ui.IconTrophy+" Achievements", fmt.Sprintf("%d/%d earned", engine.CountEarned(list), len(list))))
			return nil
		},
	}

	return cmd
}

func newPointsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "points <category> <delta>",
		Short: "Credit XP to a habit category",
		Args:  exactArgs(2, "category and delta are required"),
		RunE: func(cmd *cobra.Command, args []string) error {
			delta, err := parseDelta(args[1])
			if err != nil {
				return err
			}
			ctx := context.Background()
			svc, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			levelBefore := svc.Level()
			if err := svc.AddPoints(ctx, args[0], delta); err != nil {
				return err
			}
			category := engine.ParseCategory(args[0])
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s\n", ui.CategoryIcon(category), category, ui.Gold.Render(fmt.Sprintf("+%d XP", delta)))
			if after := svc.Level(); after > levelBefore {
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", ui.BadgeLevelUp, ui.LabelValue("Level", fmt.Sprintf("%d → %d", levelBefore, after)))
			}
			return nil
		},
	}
	return cmd
}

func parseDelta(raw string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, &engine.ValidationError{Field: "delta", Reason: fmt.Sprintf("%q is not an integer", raw)}
	}
	return n, nil
}

func newDayCmd() *cobra.Command {
	var missed bool
	cmd := &cobra.Command{
		Use:   "day",
		Short: "Record today (or --date) as a qualifying day for the streak",
	}
	dateOf := addDateFlag(cmd)
	cmd.Flags().BoolVar(&missed, "missed", false, "Record the day as missed (resets the streak)")

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
		res, err := svc.RecordDay(ctx, day, !missed)
		if err != nil {
			return err
		}
		p := svc.Progress()
		switch {
		case res.Reset:
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", ui.Warn.Render(ui.IconWarn+" Streak reset"), ui.Muted.Render(fmt.Sprintf("(was %d)", res.Before)))
		case res.After == res.Before:
			fmt.Fprintln(cmd.OutOrStdout(), ui.Muted.Render(string(day)+" already recorded"))
		}
		fmt.Fprintln(cmd.OutOrStdout(), ui.LabelValue("Streak", ui.StreakText(p.DisplayStreak, p.StreakCap)))
		return nil
	}
	return cmd
}

func newAchievementsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "achievements",
		Short: "List achievements",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			list := svc.Achievements()
			fmt.Fprintln(cmd.OutOrStdout(), ui.Heading(ui.IconTrophy, fmt.Sprintf("Achievements (%d/%d)", engine.CountEarned(list), len(list))))
			for _, a := range list {
				fmt.Fprintln(cmd.OutOrStdout(), ui.AchievementLine(a.Icon, a.Title, a.Description, a.Earned))
			}
			return nil
		},
	}
}

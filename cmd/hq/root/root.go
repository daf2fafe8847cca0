package root

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"habitquest/internal/config"
	"habitquest/internal/logging"
	"habitquest/internal/ui"
)

const Version = "0.2.0"

var (
	cfg    config.Config
	logger *log.Logger
)

var rootCmd = &cobra.Command{
	Use:           "hq",
	Short:         "Habitquest: habits, streaks, XP and a reward wheel",
	Long:          "Habitquest is a local-first habit tracker with XP, levels, streaks, achievements, a daily quiz and a reward wheel.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return err
		}
		l, err := logging.New(cmd.ErrOrStderr(), c.LogLevel)
		if err != nil {
			return err
		}
		cfg, logger = c, l
		return nil
	},
}

func Execute() {
	rootCmd.Version = Version
	rootCmd.SetVersionTemplate("{{.Name}} v{{.Version}}\n")

	rootCmd.AddCommand(
		newAddCmd(),
		newDoCmd(),
		newUndoCmd(),
		newEditCmd(),
		newRmCmd(),
		newListCmd(),
		newStatusCmd(),
		newPointsCmd(),
		newDayCmd(),
		newAchievementsCmd(),
		newQuizCmd(),
		newLeaderboardCmd(),
		newBoardCmd(),
		newServeCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, ui.Bad.Render(ui.IconError+" "+err.Error()))
		os.Exit(1)
	}
}

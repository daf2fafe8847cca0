package root

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"habitquest/internal/engine"
	"habitquest/internal/ui"
)

var errQuit = errors.New("quit")

func newQuizCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quiz",
		Short: "Play the daily quiz (and maybe spin the reward wheel)",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			return runQuiz(ctx, svc, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}

	return cmd
}

// runQuiz plays one session on in/out. Typing q abandons it.
func runQuiz(ctx context.Context, svc *engine.Service, in io.Reader, out io.Writer) error {
	view, err := svc.StartQuiz(ctx)
	if err != nil {
		return err
	}
	sc := bufio.NewScanner(in)
	fmt.Fprintln(out, ui.Heading(ui.IconQuiz, fmt.Sprintf("Daily quiz: %d rounds", view.Rounds)))
	if !view.CanSpin && view.Session.WheelShownToday {
		fmt.Fprintln(out, ui.Muted.Render("The reward wheel was already spun today."))
	}

	for view.State == engine.QuizAwaitingAnswer {
		q := view.Question
		fmt.Fprintf(out, "\n%s %s\n", ui.H2.Render(fmt.Sprintf("Round %d/%d", view.Round+1, view.Rounds)), q.Prompt)
		for i, choice := range q.Choices {
			fmt.Fprintf(out, "  %d) %s\n", i+1, choice)
		}

		choice, err := promptChoice(sc, out, len(q.Choices))
		if errors.Is(err, errQuit) {
			_ = svc.AbandonQuiz(view.ID)
			fmt.Fprintln(out, ui.Muted.Render("Quiz abandoned. XP earned so far is kept."))
			return nil
		}
		if err != nil {
			_ = svc.AbandonQuiz(view.ID)
			return err
		}

		res, v, err := svc.SubmitAnswer(ctx, view.ID, choice)
		if err != nil {
			return err
		}
		view = v
		if res.Correct {
			fmt.Fprintln(out, ui.Good.Render(fmt.Sprintf("%s Correct! +%d XP", ui.IconDone, res.XPAwarded)))
		} else {
			fmt.Fprintln(out, ui.Bad.Render("Not quite.")+" "+ui.Muted.Render("Answer: "+q.Choices[res.Answer]))
		}

		if view.CanSpin {
			ok, err := promptYes(sc, out, ui.IconWheel+" Spin the reward wheel? [Y/n] ")
			if err != nil && !errors.Is(err, errQuit) {
				return err
			}
			if ok {
				spin, err := svc.Spin(ctx, view.ID)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%s %s\n", ui.Gold.Render(ui.IconWheel+" "+spin.Segment.Label), ui.Muted.Render(fmt.Sprintf("(wheel turned %.0f°)", spin.Rotation)))
			}
		}

		view, err = svc.NextRound(view.ID)
		if err != nil {
			return err
		}
	}

	p := svc.Progress()
	fmt.Fprintf(out, "\n%s %s\n", ui.Title.Render("Quiz complete."), ui.LabelValue("Total XP", p.TotalXP))
	return nil
}

func promptChoice(sc *bufio.Scanner, out io.Writer, n int) (int, error) {
	for {
		fmt.Fprintf(out, "Your answer (1-%d, q to quit): ", n)
		if !sc.Scan() {
			if err := sc.Err(); err != nil {
				return 0, err
			}
			return 0, errQuit
		}
		text := strings.TrimSpace(sc.Text())
		if strings.EqualFold(text, "q") {
			return 0, errQuit
		}
		i, err := strconv.Atoi(text)
		if err == nil && i >= 1 && i <= n {
			return i - 1, nil
		}
		fmt.Fprintln(out, ui.Warn.Render("Pick a number from the list."))
	}
}

func promptYes(sc *bufio.Scanner, out io.Writer, prompt string) (bool, error) {
	fmt.Fprint(out, prompt)
	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return false, err
		}
		return false, errQuit
	}
	switch strings.ToLower(strings.TrimSpace(sc.Text())) {
	case "", "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

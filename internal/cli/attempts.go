package cli

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/SAP-F-2025/kambaz-client/internal/services"
)

func (cli *CommandLine) attempts(ctx context.Context, args []string) error {
	fs := cli.newFlagSet("attempts")
	quizID := fs.String("quiz", "", "The quiz id.")
	if err := parse(fs, args); err != nil {
		return err
	}
	if err := requireFlag(fs, *quizID); err != nil {
		return err
	}

	user, ok := cli.svc.Account().Current()
	if !ok {
		return fail(services.ErrNotSignedIn, services.MsgFetchAttemptsFailed)
	}
	if !user.Role.IsStudent() {
		fmt.Fprintln(cli.out, "Only students take quizzes")
		return nil
	}

	quiz, err := cli.svc.Quiz().Get(ctx, *quizID)
	if err != nil {
		return fail(err, services.MsgFetchQuizFailed)
	}
	attempts, err := cli.svc.Attempt().Load(ctx, *quizID)
	if err != nil {
		return fail(err, services.MsgFetchAttemptsFailed)
	}
	res, err := cli.svc.Attempt().Eligibility(ctx, *quiz, cli.now())
	if err != nil {
		return fail(err, services.MsgFetchAttemptsFailed)
	}

	if len(attempts) == 0 {
		fmt.Fprintln(cli.out, "No attempts yet")
	} else {
		w := tabwriter.NewWriter(cli.out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "#\tSTARTED\tENDED\tSCORE")
		for _, a := range attempts {
			ended, score := "in progress", "-"
			if a.Completed() {
				ended = *a.EndTime
				score = fmt.Sprintf("%g/%g", a.Score, a.TotalPoints)
			}
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", a.AttemptNumber, a.StartTime, ended, score)
		}
		if err := w.Flush(); err != nil {
			return err
		}
	}

	switch {
	case res.CanStartNewAttempt:
		fmt.Fprintf(cli.out, "You may start a new attempt (%d left)\n", res.AttemptsLeft(*quiz))
	case res.HasAttemptInProgress() && res.CanTakeQuiz:
		fmt.Fprintf(cli.out, "Attempt %d is in progress\n", res.Latest.AttemptNumber)
	default:
		fmt.Fprintln(cli.out, "You can not take this quiz")
	}
	return nil
}

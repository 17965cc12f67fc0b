package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/SAP-F-2025/kambaz-client/internal/export"
	"github.com/SAP-F-2025/kambaz-client/internal/services"
)

// export writes the course's quiz list, or the signed in student's attempts at one
// quiz, as an xlsx workbook
func (cli *CommandLine) export(ctx context.Context, args []string) error {
	fs := cli.newFlagSet("export")
	course := fs.String("course", "", "Export the quizzes of this course.")
	quizID := fs.String("quiz", "", "Export your attempts at this quiz.")
	out := fs.String("out", "", "The xlsx file to write.")
	if err := parse(fs, args); err != nil {
		return err
	}
	if err := requireFlag(fs, *out); err != nil {
		return err
	}
	if (*course == "") == (*quizID == "") {
		fs.Usage()
		return ErrHelp
	}

	var (
		data []byte
		err  error
	)
	if *course != "" {
		quizzes, ferr := cli.svc.Quiz().Refresh(ctx, *course)
		if ferr != nil {
			return fail(ferr, services.MsgFetchQuizzesFailed)
		}
		data, err = export.Quizzes(quizzes, cli.now())
	} else {
		quiz, ferr := cli.svc.Quiz().Get(ctx, *quizID)
		if ferr != nil {
			return fail(ferr, services.MsgFetchQuizFailed)
		}
		attempts, ferr := cli.svc.Attempt().Load(ctx, *quizID)
		if ferr != nil {
			return fail(ferr, services.MsgFetchAttemptsFailed)
		}
		data, err = export.Attempts(*quiz, attempts)
	}
	if err != nil {
		return fail(err, services.MsgExportFailed)
	}

	if err := os.WriteFile(*out, data, 0o644); err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "Wrote %s\n", *out)
	return nil
}

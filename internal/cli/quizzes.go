package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/SAP-F-2025/kambaz-client/internal/eligibility"
	"github.com/SAP-F-2025/kambaz-client/internal/export"
	"github.com/SAP-F-2025/kambaz-client/internal/models"
	"github.com/SAP-F-2025/kambaz-client/internal/services"
)

func (cli *CommandLine) listQuizzes(ctx context.Context, args []string) error {
	fs := cli.newFlagSet("quizzes")
	course := fs.String("course", "", "The course id.")
	sortBy := fs.String("sort", "", "Order by name, dueDate or availableDate.")
	desc := fs.Bool("desc", false, "Reverse the order.")
	if err := parse(fs, args); err != nil {
		return err
	}
	if err := requireFlag(fs, *course); err != nil {
		return err
	}

	quizzes, err := cli.svc.Quiz().Refresh(ctx, *course)
	if err != nil {
		return fail(err, services.MsgFetchQuizzesFailed)
	}

	now := cli.now()
	if *sortBy != "" {
		by, ok := eligibility.ParseSortBy(*sortBy)
		if !ok {
			return fmt.Errorf("unknown sort order %q, want name, dueDate or availableDate", *sortBy)
		}
		quizzes = eligibility.Sort(quizzes, by, *desc, now.Location())
	}

	if len(quizzes) == 0 {
		fmt.Fprintln(cli.out, "No quizzes")
		return nil
	}

	user, _ := cli.svc.Account().Current()
	editor := user.Role.CanEditQuizzes()

	w := tabwriter.NewWriter(cli.out, 0, 4, 2, ' ', 0)
	if editor {
		fmt.Fprintln(w, "ID\tTITLE\tSTATUS\tPUBLISHED\tDUE\tPOINTS\tQUESTIONS")
	} else {
		fmt.Fprintln(w, "ID\tTITLE\tSTATUS\tDUE\tPOINTS\tQUESTIONS")
	}
	for _, q := range quizzes {
		status := eligibility.QuizStatus(q, now)
		if editor {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%g\t%d\n",
				q.ID, q.Title, status, yesNo(q.IsPublished()), orDash(q.DueDate), eligibility.TotalPoints(q), len(q.Questions))
			continue
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%g\t%d\n",
			q.ID, q.Title, status, orDash(q.DueDate), eligibility.TotalPoints(q), len(q.Questions))
	}
	return w.Flush()
}

func (cli *CommandLine) printQuizUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  quiz show -id Q")
	fmt.Fprintln(cli.out, "  quiz new -course C [-title T] [-file quiz.json] [-publish]")
	fmt.Fprintln(cli.out, "  quiz edit -id Q [-title T] [-file quiz.json] [-publish]")
	fmt.Fprintln(cli.out, "  quiz questions -id Q -file questions.xlsx [-publish]")
	fmt.Fprintln(cli.out, "  quiz publish -id Q                 - toggle the published flag")
	fmt.Fprintln(cli.out, "  quiz delete -id Q")
	fmt.Fprintln(cli.out, "  quiz copy -id Q -to C")
}

func (cli *CommandLine) quiz(ctx context.Context, args []string) error {
	if len(args) < 1 {
		cli.printQuizUsage()
		return ErrHelp
	}

	fs := cli.newFlagSet("quiz " + args[0])
	id := fs.String("id", "", "The quiz id.")

	switch args[0] {
	case "show":
		if err := parse(fs, args[1:]); err != nil {
			return err
		}
		if err := requireFlag(fs, *id); err != nil {
			return err
		}
		return cli.showQuiz(ctx, *id)

	case "new":
		course := fs.String("course", "", "The course the quiz belongs to.")
		title := fs.String("title", "", "The quiz title.")
		file := fs.String("file", "", "A JSON file holding the quiz.")
		publish := fs.Bool("publish", false, "Publish the quiz once saved.")
		if err := parse(fs, args[1:]); err != nil {
			return err
		}
		if err := requireFlag(fs, *course); err != nil {
			return err
		}
		editor := cli.svc.NewDraft(*course)
		if err := applyQuizFlags(editor, *title, *file); err != nil {
			return err
		}
		return cli.save(ctx, editor.Draft(), *publish)

	case "edit":
		title := fs.String("title", "", "The new title.")
		file := fs.String("file", "", "A JSON file holding the full quiz.")
		publish := fs.Bool("publish", false, "Publish the quiz once saved.")
		if err := parse(fs, args[1:]); err != nil {
			return err
		}
		if err := requireFlag(fs, *id); err != nil {
			return err
		}
		quiz, err := cli.svc.Quiz().Get(ctx, *id)
		if err != nil {
			return fail(err, services.MsgFetchQuizFailed)
		}
		editor := cli.svc.Edit(*quiz)
		if err := applyQuizFlags(editor, *title, *file); err != nil {
			return err
		}
		return cli.save(ctx, editor.Draft(), *publish)

	case "questions":
		file := fs.String("file", "", "An xlsx sheet of questions to append.")
		publish := fs.Bool("publish", false, "Publish the quiz once saved.")
		if err := parse(fs, args[1:]); err != nil {
			return err
		}
		if err := requireFlag(fs, *id); err != nil {
			return err
		}
		if err := requireFlag(fs, *file); err != nil {
			return err
		}
		return cli.importQuestions(ctx, *id, *file, *publish)

	case "publish":
		if err := parse(fs, args[1:]); err != nil {
			return err
		}
		if err := requireFlag(fs, *id); err != nil {
			return err
		}
		quiz, err := cli.svc.Quiz().TogglePublish(ctx, *id)
		if err != nil {
			return fail(err, services.MsgTogglePublishFailed)
		}
		if quiz.IsPublished() {
			fmt.Fprintf(cli.out, "Published %s\n", quiz.Title)
		} else {
			fmt.Fprintf(cli.out, "Unpublished %s\n", quiz.Title)
		}
		return nil

	case "delete":
		if err := parse(fs, args[1:]); err != nil {
			return err
		}
		if err := requireFlag(fs, *id); err != nil {
			return err
		}
		if err := cli.svc.Quiz().Delete(ctx, *id); err != nil {
			return fail(err, services.MsgDeleteQuizFailed)
		}
		fmt.Fprintf(cli.out, "Deleted quiz %s\n", *id)
		return nil

	case "copy":
		to := fs.String("to", "", "The course receiving the copy.")
		if err := parse(fs, args[1:]); err != nil {
			return err
		}
		if err := requireFlag(fs, *id); err != nil {
			return err
		}
		if err := requireFlag(fs, *to); err != nil {
			return err
		}
		draft, err := cli.svc.Quiz().CopyToCourse(ctx, *id, *to)
		if err != nil {
			return fail(err, services.MsgCopyQuizFailed)
		}
		return cli.save(ctx, draft, false)

	default:
		cli.printQuizUsage()
		return ErrHelp
	}
}

func (cli *CommandLine) save(ctx context.Context, draft models.QuizDraft, publish bool) error {
	fallback := services.MsgUpdateQuizFailed
	if draft.Ref.IsDraft() {
		fallback = services.MsgCreateQuizFailed
	}

	var (
		saved *models.Quiz
		err   error
	)
	if publish {
		saved, err = cli.svc.Quiz().SaveAndPublish(ctx, draft)
	} else {
		saved, err = cli.svc.Quiz().Save(ctx, draft)
	}
	if err != nil {
		return fail(err, fallback)
	}

	verb := "Saved"
	if draft.Ref.IsDraft() {
		verb = "Created"
	}
	fmt.Fprintf(cli.out, "%s quiz %s (%s) in %s\n", verb, saved.Title, saved.ID, saved.Course)
	return nil
}

func (cli *CommandLine) importQuestions(ctx context.Context, quizID, path string, publish bool) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	questions, err := export.ReadQuestions(f)
	if err != nil {
		return fail(err, "Failed to read questions")
	}

	quiz, err := cli.svc.Quiz().Get(ctx, quizID)
	if err != nil {
		return fail(err, services.MsgFetchQuizFailed)
	}
	editor := cli.svc.Edit(*quiz)
	for _, q := range questions {
		editor.AddQuestion(q)
	}
	fmt.Fprintf(cli.out, "Adding %d questions\n", len(questions))
	return cli.save(ctx, editor.Draft(), publish)
}

func applyQuizFlags(editor *services.QuizEditor, title, file string) error {
	if file != "" {
		quiz, err := readQuizFile(file)
		if err != nil {
			return err
		}
		editor.Update(func(q *models.Quiz) { *q = quiz })
	}
	if title != "" {
		editor.Update(func(q *models.Quiz) { q.Title = title })
	}
	return nil
}

func readQuizFile(path string) (models.Quiz, error) {
	var quiz models.Quiz
	data, err := os.ReadFile(path)
	if err != nil {
		return quiz, err
	}
	if err := json.Unmarshal(data, &quiz); err != nil {
		return quiz, fmt.Errorf("failed to parse quiz file %s: %w", path, err)
	}
	return quiz, nil
}

func (cli *CommandLine) showQuiz(ctx context.Context, id string) error {
	quiz, err := cli.svc.Quiz().Get(ctx, id)
	if err != nil {
		return fail(err, services.MsgFetchQuizFailed)
	}
	q := quiz.WithDefaults()
	now := cli.now()

	w := tabwriter.NewWriter(cli.out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "Title\t%s\n", q.Title)
	fmt.Fprintf(w, "Status\t%s\n", eligibility.QuizStatus(q, now))
	if q.Description != nil && *q.Description != "" {
		fmt.Fprintf(w, "Description\t%s\n", *q.Description)
	}
	fmt.Fprintf(w, "Quiz type\t%s\n", *q.QuizType)
	fmt.Fprintf(w, "Points\t%g\n", eligibility.TotalPoints(q))
	fmt.Fprintf(w, "Questions\t%d\n", len(q.Questions))
	fmt.Fprintf(w, "Due\t%s\n", orDash(q.DueDate))
	fmt.Fprintf(w, "Available from\t%s\n", orDash(q.AvailableFrom))
	fmt.Fprintf(w, "Available until\t%s\n", orDash(q.AvailableUntil))
	if *q.TimeLimit > 0 {
		fmt.Fprintf(w, "Time limit\t%d minutes\n", *q.TimeLimit)
	} else {
		fmt.Fprintln(w, "Time limit\tnone")
	}
	fmt.Fprintf(w, "Attempts allowed\t%d\n", q.EffectiveAttempts())
	fmt.Fprintf(w, "Show correct answers\t%s\n", *q.ShowCorrectAnswers)

	user, _ := cli.svc.Account().Current()
	switch {
	case user.Role.IsStudent():
		res, err := cli.svc.Attempt().Eligibility(ctx, q, now)
		if err != nil {
			if ferr := w.Flush(); ferr != nil {
				return ferr
			}
			return fail(err, services.MsgFetchAttemptsFailed)
		}
		fmt.Fprintf(w, "Completed attempts\t%d\n", len(res.Completed))
		fmt.Fprintf(w, "Attempts left\t%d\n", res.AttemptsLeft(q))
		fmt.Fprintf(w, "Can start new attempt\t%s\n", yesNo(res.CanStartNewAttempt))
		if res.HasAttemptInProgress() {
			fmt.Fprintf(w, "In progress\tattempt %d\n", res.Latest.AttemptNumber)
		}
	case user.Role.CanEditQuizzes():
		fmt.Fprintf(w, "Published\t%s\n", yesNo(q.IsPublished()))
		fmt.Fprintf(w, "Access code\t%s\n", *q.AccessCode)
		if err := w.Flush(); err != nil {
			return err
		}
		return cli.printQuestions(q.Questions)
	}
	return w.Flush()
}

func (cli *CommandLine) printQuestions(questions []models.Question) error {
	if len(questions) == 0 {
		return nil
	}
	fmt.Fprintln(cli.out)
	w := tabwriter.NewWriter(cli.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "#\tTYPE\tTITLE\tPOINTS")
	for i, q := range questions {
		fmt.Fprintf(w, "%d\t%s\t%s\t%g\n", i+1, q.Type, q.Title, q.Points)
	}
	return w.Flush()
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func orDash(s *string) string {
	if s == nil || *s == "" {
		return "-"
	}
	return *s
}

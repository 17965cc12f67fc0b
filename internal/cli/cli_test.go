package cli

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/SAP-F-2025/kambaz-client/internal/apiclient"
	"github.com/SAP-F-2025/kambaz-client/internal/config"
	"github.com/SAP-F-2025/kambaz-client/internal/events"
	"github.com/SAP-F-2025/kambaz-client/internal/export"
	"github.com/SAP-F-2025/kambaz-client/internal/fakeserver"
	"github.com/SAP-F-2025/kambaz-client/internal/models"
	"github.com/SAP-F-2025/kambaz-client/internal/services"
	"github.com/SAP-F-2025/kambaz-client/internal/store"
	"github.com/SAP-F-2025/kambaz-client/internal/utils"
	"github.com/SAP-F-2025/kambaz-client/internal/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

var testNow = time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC)

type testEnv struct {
	fake    *fakeserver.Server
	cli     *CommandLine
	out     *bytes.Buffer
	faculty models.User
	student models.User
}

func setup(t *testing.T) *testEnv {
	t.Helper()

	fake := fakeserver.New(utils.NewNopLogger())
	env := &testEnv{
		fake:    fake,
		out:     &bytes.Buffer{},
		faculty: fake.AddUser(models.User{Username: "iron_man", FirstName: "Tony", LastName: "Stark", Role: models.RoleFaculty}, "stark123"),
		student: fake.AddUser(models.User{Username: "bruce", FirstName: "Bruce", Role: models.RoleStudent}, "hulk"),
	}
	server := httptest.NewServer(fake.Handler())
	t.Cleanup(server.Close)

	client, err := apiclient.New(&config.Config{APIBaseURL: server.URL}, utils.NewNopLogger())
	require.NoError(t, err)

	bus := events.NewChannelBus(slog.New(slog.NewTextHandler(io.Discard, nil)))
	t.Cleanup(func() { _ = bus.Close() })

	state := store.NewState(bus, utils.NewNopLogger())
	svc := services.NewServiceManager(client, state, utils.NewNopLogger(), validator.New())

	env.cli = New(svc, bus, strings.NewReader(""), env.out)
	env.cli.now = func() time.Time { return testNow }
	return env
}

func (e *testEnv) seedQuiz(t *testing.T, quiz models.Quiz) models.Quiz {
	t.Helper()
	if quiz.Course == "" {
		quiz.Course = "RS101"
	}
	return e.fake.AddQuiz(quiz.WithDefaults())
}

func (e *testEnv) signIn(t *testing.T, username, password string) {
	t.Helper()
	require.NoError(t, e.cli.Run(context.Background(), []string{"signin", "-username", username, "-password", password}))
	e.out.Reset()
}

func mockPassword(t *testing.T, passwords ...string) {
	t.Helper()
	orig := readPasswordFunc
	t.Cleanup(func() { readPasswordFunc = orig })
	readPasswordFunc = func(int) ([]byte, error) {
		if len(passwords) == 0 {
			return nil, nil
		}
		pwd := passwords[0]
		passwords = passwords[1:]
		return []byte(pwd), nil
	}
}

type cliTest struct {
	name       string
	args       []string // without program name
	wantErr    error
	wantErrStr string
	wantOut    []string
	notOut     []string
}

func runTests(t *testing.T, env *testEnv, tests []cliTest) {
	t.Helper()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env.out.Reset()
			err := env.cli.Run(context.Background(), tt.args)
			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.wantErrStr != "":
				require.Error(t, err)
				assert.Equal(t, tt.wantErrStr, err.Error())
			default:
				require.NoError(t, err)
			}
			for _, want := range tt.wantOut {
				assert.Contains(t, env.out.String(), want)
			}
			for _, unwanted := range tt.notOut {
				assert.NotContains(t, env.out.String(), unwanted)
			}
		})
	}
}

func Test_commandLine_usage(t *testing.T) {
	env := setup(t)

	runTests(t, env, []cliTest{
		{name: "no command", args: nil, wantErr: ErrHelp, wantOut: []string{"Usage:"}},
		{name: "unknown command", args: []string{"lol"}, wantErr: ErrHelp},
		{name: "quiz without subcommand", args: []string{"quiz"}, wantErr: ErrHelp, wantOut: []string{"quiz show -id Q"}},
		{name: "unknown quiz subcommand", args: []string{"quiz", "lol"}, wantErr: ErrHelp},
		{name: "quizzes without course", args: []string{"quizzes"}, wantErr: ErrHelp},
		{name: "quiz show without id", args: []string{"quiz", "show"}, wantErr: ErrHelp},
		{name: "export needs one source", args: []string{"export", "-out", "x.xlsx"}, wantErr: ErrHelp},
		{name: "help flag", args: []string{"quizzes", "-h"}, wantErr: ErrHelp, wantOut: []string{"-course"}},
	})
}

func Test_commandLine_signin(t *testing.T) {
	env := setup(t)
	ctx := context.Background()

	t.Run("empty password never reaches the backend", func(t *testing.T) {
		mockPassword(t, "")
		before := env.fake.Requests()

		err := env.cli.Run(ctx, []string{"signin", "-username", "iron_man"})
		require.Error(t, err)
		assert.Equal(t, "Please enter username and password", err.Error())
		assert.Equal(t, before+1, env.fake.Requests(), "only the session probe is sent")
	})

	runTests(t, env, []cliTest{
		{name: "wrong password", args: []string{"signin", "-username", "iron_man", "-password", "nope"}, wantErrStr: "Invalid credentials"},
		{name: "whoami signed out", args: []string{"whoami"}, wantOut: []string{"Not signed in"}},
		{name: "sign in", args: []string{"signin", "-username", "iron_man", "-password", "stark123"}, wantOut: []string{"Signed in as Tony Stark (FACULTY)"}},
		{name: "whoami", args: []string{"whoami"}, wantOut: []string{"Tony Stark (iron_man, FACULTY)"}},
		{name: "update profile", args: []string{"profile", "-email", "tony@stark.com"}, wantOut: []string{"tony@stark.com"}},
		{name: "show profile", args: []string{"profile"}, wantOut: []string{"tony@stark.com", "FACULTY"}},
		{name: "sign out", args: []string{"signout"}, wantOut: []string{"Signed out"}},
		{name: "whoami after sign out", args: []string{"whoami"}, wantOut: []string{"Not signed in"}},
		{name: "profile after sign out", args: []string{"profile"}, wantErrStr: "Not authenticated"},
	})
}

func Test_commandLine_signinPrompt(t *testing.T) {
	env := setup(t)
	mockPassword(t, "hulk")
	env.cli.in.Reset(strings.NewReader("bruce\n"))

	require.NoError(t, env.cli.Run(context.Background(), []string{"signin"}))
	assert.Contains(t, env.out.String(), "Username: ")
	assert.Contains(t, env.out.String(), "Signed in as Bruce (STUDENT)")
}

func Test_commandLine_signup(t *testing.T) {
	env := setup(t)

	t.Run("mismatched passwords", func(t *testing.T) {
		mockPassword(t, "pw", "other")
		err := env.cli.Run(context.Background(), []string{"signup", "-username", "peter"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "verifyPassword")
	})

	t.Run("creates a student", func(t *testing.T) {
		mockPassword(t, "pw", "pw")
		require.NoError(t, env.cli.Run(context.Background(), []string{"signup", "-username", "peter", "-first", "Peter"}))
		assert.Contains(t, env.out.String(), "Welcome, Peter")

		env.out.Reset()
		require.NoError(t, env.cli.Run(context.Background(), []string{"whoami"}))
		assert.Contains(t, env.out.String(), "STUDENT")
	})
}

func Test_commandLine_facultyQuizzes(t *testing.T) {
	env := setup(t)
	env.seedQuiz(t, models.Quiz{ID: "q1", Title: "Week 1", Published: models.Ptr(true), DueDate: models.Ptr("2025-01-20T23:59")})
	env.seedQuiz(t, models.Quiz{ID: "q2", Title: "Arrays", DueDate: models.Ptr("2025-01-10T23:59")})
	env.signIn(t, "iron_man", "stark123")

	quizFile := filepath.Join(t.TempDir(), "quiz.json")
	require.NoError(t, os.WriteFile(quizFile, []byte(`{"title":"Week 1 revised","course":"OTHER","published":true,"questions":[]}`), 0o600))

	runTests(t, env, []cliTest{
		{
			name:    "list sorted by name",
			args:    []string{"quizzes", "-course", "RS101", "-sort", "name"},
			wantOut: []string{"PUBLISHED", "Arrays", "Closed", "Week 1", "Available"},
		},
		{name: "unknown sort", args: []string{"quizzes", "-course", "RS101", "-sort", "size"}, wantErrStr: `unknown sort order "size", want name, dueDate or availableDate`},
		{name: "show with editor fields", args: []string{"quiz", "show", "-id", "q1"}, wantOut: []string{"Week 1", "Published", "yes"}},
		{name: "create", args: []string{"quiz", "new", "-course", "RS101", "-title", "Midterm"}, wantOut: []string{"Created quiz Midterm ("}},
		{name: "create and publish", args: []string{"quiz", "new", "-course", "RS101", "-title", "Final", "-publish"}, wantOut: []string{"Created quiz Final ("}},
		{name: "toggle publish", args: []string{"quiz", "publish", "-id", "q1"}, wantOut: []string{"Unpublished Week 1"}},
		{name: "edit from file", args: []string{"quiz", "edit", "-id", "q1", "-file", quizFile}, wantOut: []string{"Saved quiz Week 1 revised (q1) in RS101"}},
		{name: "copy", args: []string{"quiz", "copy", "-id", "q2", "-to", "CS200"}, wantOut: []string{"Created quiz Arrays (Copy)", "in CS200"}},
		{name: "delete", args: []string{"quiz", "delete", "-id", "q2"}, wantOut: []string{"Deleted quiz q2"}},
		{name: "show deleted", args: []string{"quiz", "show", "-id", "q2"}, wantErrStr: "Quiz not found"},
		{name: "attempts are for students", args: []string{"attempts", "-quiz", "q1"}, wantOut: []string{"Only students take quizzes"}},
	})

	edited, ok := env.fake.Quiz("q1")
	require.True(t, ok)
	assert.Equal(t, "Week 1 revised", edited.Title)
	assert.Equal(t, "RS101", edited.Course)
	assert.True(t, edited.IsPublished())
}

func Test_commandLine_student(t *testing.T) {
	env := setup(t)
	env.seedQuiz(t, models.Quiz{
		ID:               "q1",
		Title:            "Week 1",
		Published:        models.Ptr(true),
		AvailableFrom:    models.Ptr("2025-01-01T00:00"),
		AvailableUntil:   models.Ptr("2025-01-31T23:59"),
		MultipleAttempts: models.Ptr(true),
		Attempts:         models.Ptr(3),
	})
	env.seedQuiz(t, models.Quiz{ID: "q2", Title: "Hidden draft"})
	for i, end := range []*string{models.Ptr("2025-01-02T10:30"), models.Ptr("2025-01-03T10:30"), nil} {
		env.fake.AddAttempt(models.QuizAttempt{
			Quiz:          "q1",
			User:          env.student.ID,
			StartTime:     []string{"2025-01-02T10:00", "2025-01-03T10:00", "2025-01-04T10:00"}[i],
			EndTime:       end,
			Score:         7,
			TotalPoints:   10,
			AttemptNumber: i + 1,
		})
	}
	env.signIn(t, "bruce", "hulk")

	runTests(t, env, []cliTest{
		{name: "unpublished quizzes are hidden", args: []string{"quizzes", "-course", "RS101"}, wantOut: []string{"Week 1"}, notOut: []string{"Hidden draft", "PUBLISHED"}},
		{name: "attempt history", args: []string{"attempts", "-quiz", "q1"}, wantOut: []string{"7/10", "in progress", "Attempt 3 is in progress"}},
		{name: "show eligibility", args: []string{"quiz", "show", "-id", "q1"}, wantOut: []string{"Completed attempts", "Can start new attempt  no", "In progress"}},
		{name: "publish is forbidden", args: []string{"quiz", "publish", "-id", "q1"}, wantErrStr: "You do not have permission to do that"},
		{name: "delete is forbidden", args: []string{"quiz", "delete", "-id", "q1"}, wantErrStr: "You do not have permission to do that"},
	})
}

func Test_commandLine_export(t *testing.T) {
	env := setup(t)
	env.seedQuiz(t, models.Quiz{
		ID:        "q1",
		Title:     "Week 1",
		Published: models.Ptr(true),
		Questions: []models.Question{
			{ID: "t1", Type: models.TrueFalse, Title: "Sky", Points: 2, CorrectAnswer: models.Ptr(true)},
		},
	})
	env.signIn(t, "iron_man", "stark123")
	dir := t.TempDir()

	t.Run("quiz list", func(t *testing.T) {
		path := filepath.Join(dir, "quizzes.xlsx")
		require.NoError(t, env.cli.Run(context.Background(), []string{"export", "-course", "RS101", "-out", path}))
		assert.Contains(t, env.out.String(), "Wrote "+path)

		f, err := excelize.OpenFile(path)
		require.NoError(t, err)
		defer f.Close()
		rows, err := f.GetRows(export.SheetQuizzes)
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, "Week 1", rows[1][1])
	})

	t.Run("import questions", func(t *testing.T) {
		data, err := export.Quizzes([]models.Quiz{{
			Title: "Bank",
			Questions: []models.Question{
				{Type: models.FillInBlank, Title: "Lang", Points: 3, PossibleAnswers: []string{"Go"}},
				{Type: models.MultipleChoice, Title: "Pick", Points: 1, Choices: []models.Choice{{ID: "x", Text: "A"}, {ID: "y", Text: "B"}}, CorrectOption: models.Ptr("y")},
			},
		}}, testNow)
		require.NoError(t, err)
		path := filepath.Join(dir, "bank.xlsx")
		require.NoError(t, os.WriteFile(path, data, 0o600))

		env.out.Reset()
		require.NoError(t, env.cli.Run(context.Background(), []string{"quiz", "questions", "-id", "q1", "-file", path}))
		assert.Contains(t, env.out.String(), "Adding 2 questions")

		quiz, ok := env.fake.Quiz("q1")
		require.True(t, ok)
		require.Len(t, quiz.Questions, 3)
		assert.Equal(t, "Pick", quiz.Questions[2].Title)
		require.NotNil(t, quiz.Questions[2].CorrectOption)
		assert.Equal(t, "b", *quiz.Questions[2].CorrectOption)
	})
}

func Test_commandLine_watch(t *testing.T) {
	env := setup(t)
	env.seedQuiz(t, models.Quiz{ID: "q1", Title: "Week 1", Published: models.Ptr(true)})
	env.signIn(t, "iron_man", "stark123")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	require.NoError(t, env.cli.Run(ctx, []string{"watch", "-course", "RS101", "-interval", "1h", "-n", "1"}))
	assert.Contains(t, env.out.String(), `quizzes.replaced {"count":1,"course_id":"RS101"}`)
	require.NoError(t, ctx.Err(), "watch stopped on its own")
}

func Test_commandLine_watchWithoutBus(t *testing.T) {
	env := setup(t)
	env.cli.bus = nil
	env.signIn(t, "iron_man", "stark123")

	err := env.cli.Run(context.Background(), []string{"watch", "-course", "RS101", "-n", "1"})
	assert.EqualError(t, err, "events are disabled, set EVENTS_ENABLED=true")
}

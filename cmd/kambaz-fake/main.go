// Command kambaz-fake serves an in-memory Kambaz backend seeded with demo accounts
// and quizzes, for trying the CLI without the real service.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/SAP-F-2025/kambaz-client/internal/fakeserver"
	"github.com/SAP-F-2025/kambaz-client/internal/models"
	"github.com/SAP-F-2025/kambaz-client/internal/utils"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	addr := flag.String("addr", ":3000", "Listen address.")
	origins := flag.String("origins", "http://localhost:5173", "Comma separated origins allowed to call the API from a browser.")
	level := flag.String("log-level", "info", "debug, info, warn or error.")
	flag.Parse()

	logger := utils.NewLogger(os.Stderr, "development", *level)

	fake := fakeserver.New(logger)
	seed(fake)

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), cors.New(cors.Config{
		AllowOrigins:     strings.Split(*origins, ","),
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type"},
		AllowCredentials: true,
	}))
	router.Any("/*path", gin.WrapH(fake.Handler()))

	srv := &http.Server{
		Addr:              *addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Shutdown failed", "error", err)
		}
	}()

	logger.Info("Fake backend listening", "addr", *addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
		os.Exit(1)
	}
}

func seed(fake *fakeserver.Server) {
	fake.AddUser(models.User{Username: "iron_man", FirstName: "Tony", LastName: "Stark", Email: "tony@stark.com", Role: models.RoleFaculty, Section: "S101"}, "stark123")
	fake.AddUser(models.User{Username: "ada", FirstName: "Ada", LastName: "Lovelace", Role: models.RoleAdmin}, "lovelace")
	fake.AddUser(models.User{Username: "jarvis", FirstName: "Jarvis", Role: models.RoleTA, Section: "S101"}, "jarvis")
	student := fake.AddUser(models.User{Username: "dark_knight", FirstName: "Bruce", LastName: "Wayne", Role: models.RoleStudent, Section: "S101"}, "wayne123")

	week1 := fake.AddQuiz(models.Quiz{
		Title:          "Q1 - HTML",
		Course:         "RS101",
		Description:    models.Ptr("Tags, attributes and document structure"),
		Published:      models.Ptr(true),
		AvailableFrom:  models.Ptr("2025-01-01T00:00"),
		DueDate:        models.Ptr("2030-12-31T23:59"),
		AvailableUntil: models.Ptr("2030-12-31T23:59"),
		Questions: []models.Question{
			{
				ID:       "html-1",
				Type:     models.MultipleChoice,
				Title:    "Headings",
				Question: "Which tag renders the largest heading?",
				Points:   5,
				Choices: []models.Choice{
					{ID: "a", Text: "<h1>"},
					{ID: "b", Text: "<h6>"},
					{ID: "c", Text: "<head>"},
				},
				CorrectOption: models.Ptr("a"),
			},
			{ID: "html-2", Type: models.TrueFalse, Title: "Void elements", Question: "<br> needs a closing tag.", Points: 2, CorrectAnswer: models.Ptr(false)},
			{ID: "html-3", Type: models.FillInBlank, Title: "Links", Question: "The anchor tag is written as <__>.", Points: 3, PossibleAnswers: []string{"a"}},
		},
	}.WithDefaults())

	fake.AddQuiz(models.Quiz{
		Title:            "Q2 - CSS",
		Course:           "RS101",
		Published:        models.Ptr(true),
		MultipleAttempts: models.Ptr(true),
		Attempts:         models.Ptr(3),
		DueDate:          models.Ptr("2030-12-31T23:59"),
		Questions: []models.Question{
			{ID: "css-1", Type: models.TrueFalse, Title: "Cascade", Question: "Inline styles beat class selectors.", Points: 4, CorrectAnswer: models.Ptr(true)},
		},
	}.WithDefaults())

	fake.AddQuiz(models.Quiz{Title: "Q3 - JavaScript", Course: "RS101"}.WithDefaults())

	fake.AddAttempt(models.QuizAttempt{
		Quiz:          week1.ID,
		User:          student.ID,
		StartTime:     "2025-01-05T10:00",
		EndTime:       models.Ptr("2025-01-05T10:12"),
		Score:         7,
		TotalPoints:   10,
		AttemptNumber: 1,
		Answers: []models.AttemptAnswer{
			{QuestionID: "html-1", UserAnswer: "a", IsCorrect: true},
			{QuestionID: "html-2", UserAnswer: "false", IsCorrect: true},
			{QuestionID: "html-3", UserAnswer: "link", IsCorrect: false},
		},
	})
}

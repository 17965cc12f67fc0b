package models

import "time"

type AttemptAnswer struct {
	QuestionID string `json:"questionId"`
	UserAnswer string `json:"userAnswer"`
	IsCorrect  bool   `json:"isCorrect"`
}

// QuizAttempt is created and scored by the backend. An absent EndTime means the
// attempt is still in progress.
type QuizAttempt struct {
	ID            string          `json:"_id"`
	Quiz          string          `json:"quiz"`
	User          string          `json:"user"`
	StartTime     string          `json:"startTime"`
	EndTime       *string         `json:"endTime,omitempty"`
	Score         float64         `json:"score"`
	TotalPoints   float64         `json:"totalPoints"`
	Answers       []AttemptAnswer `json:"answers"`
	AttemptNumber int             `json:"attemptNumber"`
}

func (a QuizAttempt) Completed() bool { return a.EndTime != nil && *a.EndTime != "" }

func (a QuizAttempt) InProgress() bool { return !a.Completed() }

func (a QuizAttempt) Started(loc *time.Location) time.Time {
	t, _ := ParseDateTime(a.StartTime, loc)
	return t
}

func (a QuizAttempt) Ended(loc *time.Location) (time.Time, bool) {
	return parseOptional(a.EndTime, loc)
}

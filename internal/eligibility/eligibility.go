// Package eligibility decides whether a student may take a quiz. Everything here is a
// pure function of its arguments.
package eligibility

import (
	"time"

	"github.com/SAP-F-2025/kambaz-client/internal/models"
)

// Result is the outcome of evaluating one quiz for one student
type Result struct {
	Completed          []models.QuizAttempt
	Latest             *models.QuizAttempt
	CanTakeQuiz        bool
	CanStartNewAttempt bool
}

// HasAttemptInProgress reports whether the latest attempt has not ended
func (r Result) HasAttemptInProgress() bool {
	return r.Latest != nil && r.Latest.InProgress()
}

// AttemptsLeft is how many more attempts the student may finish. Zero when the
// quiz cannot be taken.
func (r Result) AttemptsLeft(quiz models.Quiz) int {
	if !r.CanTakeQuiz {
		return 0
	}
	return quiz.EffectiveAttempts() - len(r.Completed)
}

// Evaluate computes eligibility from the quiz, the current time and the student's
// attempts at that quiz. Datetime-local values in the quiz are read in now's location.
func Evaluate(quiz models.Quiz, now time.Time, attempts []models.QuizAttempt) Result {
	loc := now.Location()

	var res Result
	for i := range attempts {
		if attempts[i].Completed() {
			res.Completed = append(res.Completed, attempts[i])
		}
	}
	res.Latest = latestAttempt(attempts, loc)

	res.CanTakeQuiz = withinWindow(quiz, now) && attemptsRemain(quiz, len(res.Completed))
	res.CanStartNewAttempt = res.CanTakeQuiz && (res.Latest == nil || res.Latest.Completed())
	return res
}

// EvaluateFor gates Evaluate on the viewer's role. Only students take quizzes, so
// every other role gets a result where nothing is allowed.
func EvaluateFor(user models.User, quiz models.Quiz, now time.Time, attempts []models.QuizAttempt) Result {
	if !user.Role.IsStudent() {
		return Result{}
	}
	mine := make([]models.QuizAttempt, 0, len(attempts))
	for _, a := range attempts {
		if a.User == user.ID && (a.Quiz == "" || a.Quiz == quiz.ID) {
			mine = append(mine, a)
		}
	}
	return Evaluate(quiz, now, mine)
}

func withinWindow(quiz models.Quiz, now time.Time) bool {
	if !quiz.IsPublished() {
		return false
	}
	if from, ok := quiz.AvailableFromTime(now.Location()); ok && now.Before(from) {
		return false
	}
	if until, ok := quiz.AvailableUntilTime(now.Location()); ok && now.After(until) {
		return false
	}
	return true
}

func attemptsRemain(quiz models.Quiz, completed int) bool {
	if !quiz.AllowsMultipleAttempts() {
		return completed == 0
	}
	return completed < quiz.EffectiveAttempts()
}

// latestAttempt picks the attempt with the greatest start time. Equal start times go
// to the higher attempt number, then to the lexically greater id.
func latestAttempt(attempts []models.QuizAttempt, loc *time.Location) *models.QuizAttempt {
	var latest *models.QuizAttempt
	var latestStart time.Time
	for i := range attempts {
		a := &attempts[i]
		start := a.Started(loc)
		if latest == nil || laterThan(a, start, latest, latestStart) {
			latest = a
			latestStart = start
		}
	}
	if latest == nil {
		return nil
	}
	picked := *latest
	return &picked
}

func laterThan(a *models.QuizAttempt, aStart time.Time, b *models.QuizAttempt, bStart time.Time) bool {
	if !aStart.Equal(bStart) {
		return aStart.After(bStart)
	}
	if a.AttemptNumber != b.AttemptNumber {
		return a.AttemptNumber > b.AttemptNumber
	}
	return a.ID > b.ID
}

package eligibility

import (
	"sort"
	"strings"
	"time"

	"github.com/SAP-F-2025/kambaz-client/internal/models"
)

// Status is the availability label shown next to a quiz in the list
type Status string

const (
	StatusClosed       Status = "Closed"
	StatusNotPublished Status = "Not Published"
	StatusNotAvailable Status = "Not available"
	StatusAvailable    Status = "Available"
)

// QuizStatus labels the quiz at now. A passed due date closes a quiz even when it
// is unpublished.
func QuizStatus(quiz models.Quiz, now time.Time) Status {
	loc := now.Location()
	if due, ok := quiz.DueTime(loc); ok && now.After(due) {
		return StatusClosed
	}
	if !quiz.IsPublished() {
		return StatusNotPublished
	}
	if until, ok := quiz.AvailableUntilTime(loc); ok && now.After(until) {
		return StatusClosed
	}
	if from, ok := quiz.AvailableFromTime(loc); ok && now.Before(from) {
		return StatusNotAvailable
	}
	return StatusAvailable
}

// TotalPoints is the sum of the question points, or the quiz points when the quiz
// has no questions.
func TotalPoints(quiz models.Quiz) float64 {
	if len(quiz.Questions) > 0 {
		total := 0.0
		for _, q := range quiz.Questions {
			total += q.Points
		}
		return total
	}
	if quiz.Points != nil {
		return *quiz.Points
	}
	return 0
}

type SortBy string

const (
	SortByName          SortBy = "name"
	SortByDueDate       SortBy = "dueDate"
	SortByAvailableDate SortBy = "availableDate"
)

func ParseSortBy(s string) (SortBy, bool) {
	switch SortBy(s) {
	case SortByName, SortByDueDate, SortByAvailableDate:
		return SortBy(s), true
	}
	return "", false
}

// Sort returns the quizzes ordered by title or by date. Quizzes without the date
// sort as if it were the zero time.
func Sort(quizzes []models.Quiz, by SortBy, descending bool, loc *time.Location) []models.Quiz {
	out := make([]models.Quiz, len(quizzes))
	copy(out, quizzes)

	var less func(a, b models.Quiz) bool
	switch by {
	case SortByName:
		less = func(a, b models.Quiz) bool {
			return strings.ToLower(a.Title) < strings.ToLower(b.Title)
		}
	case SortByDueDate:
		less = func(a, b models.Quiz) bool {
			return sortKey(a.DueTime(loc)).Before(sortKey(b.DueTime(loc)))
		}
	default:
		less = func(a, b models.Quiz) bool {
			return sortKey(a.AvailableFromTime(loc)).Before(sortKey(b.AvailableFromTime(loc)))
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if descending {
			return less(out[j], out[i])
		}
		return less(out[i], out[j])
	})
	return out
}

func sortKey(t time.Time, ok bool) time.Time {
	if !ok {
		return time.Time{}
	}
	return t
}

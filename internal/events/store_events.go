package events

import (
	"time"

	"github.com/google/uuid"
)

// EventType represents the kinds of state changes the stores announce
type EventType string

const (
	// Session events
	EventSessionSignedIn  EventType = "session.signed_in"
	EventSessionSignedOut EventType = "session.signed_out"

	// Quiz collection events
	EventQuizzesReplaced    EventType = "quizzes.replaced"
	EventQuizUpserted       EventType = "quiz.upserted"
	EventQuizRemoved        EventType = "quiz.removed"
	EventQuizPublishToggled EventType = "quiz.publish_toggled"
	EventAttemptsReplaced   EventType = "attempts.replaced"
)

const (
	// TopicStoreChanged carries every store change event.
	TopicStoreChanged = "store.changed"

	eventSource  = "kambaz-client"
	eventVersion = "1.0"
)

// Event is the envelope for every store change
type Event struct {
	ID        string                 `json:"id"`
	Type      EventType              `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Source    string                 `json:"source"`
	Version   string                 `json:"version"`
	Data      interface{}            `json:"data"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

func NewEvent(eventType EventType, data interface{}) *Event {
	return &Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Source:    eventSource,
		Version:   eventVersion,
		Data:      data,
	}
}

// Event payloads

type SessionEvent struct {
	UserID   string `json:"user_id,omitempty"`
	Username string `json:"username,omitempty"`
	Role     string `json:"role,omitempty"`
}

type QuizzesReplacedEvent struct {
	CourseID string `json:"course_id"`
	Count    int    `json:"count"`
}

type QuizEvent struct {
	QuizID    string `json:"quiz_id"`
	CourseID  string `json:"course_id,omitempty"`
	Title     string `json:"title,omitempty"`
	Published bool   `json:"published"`
}

type AttemptsReplacedEvent struct {
	QuizID string `json:"quiz_id"`
	UserID string `json:"user_id"`
	Count  int    `json:"count"`
}

package store

import (
	"context"

	"github.com/SAP-F-2025/kambaz-client/internal/events"
	"github.com/SAP-F-2025/kambaz-client/internal/models"
	"github.com/SAP-F-2025/kambaz-client/internal/utils"
)

// State is the application state container handed to every service. The stores
// are caches of backend state and each one guards its own data.
type State struct {
	Session  *SessionStore
	Quizzes  *QuizStore
	Attempts *AttemptStore
}

// NewState builds empty stores. A nil publisher disables change events.
func NewState(publisher events.EventPublisher, logger utils.Logger) *State {
	n := &notifier{publisher: publisher, logger: logger}
	return &State{
		Session:  &SessionStore{notify: n},
		Quizzes:  &QuizStore{notify: n},
		Attempts: &AttemptStore{notify: n, byKey: make(map[attemptKey][]models.QuizAttempt)},
	}
}

type notifier struct {
	publisher events.EventPublisher
	logger    utils.Logger
}

// emit publishes a change event. Store mutations never fail because of a publisher.
func (n *notifier) emit(ctx context.Context, eventType events.EventType, data interface{}) {
	if n == nil || n.publisher == nil {
		return
	}
	if err := n.publisher.Publish(ctx, events.NewEvent(eventType, data)); err != nil {
		n.logger.WarnContext(ctx, "Failed to publish store event", "event_type", eventType, "error", err)
	}
}

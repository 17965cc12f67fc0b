package store

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/SAP-F-2025/kambaz-client/internal/events"
	"github.com/SAP-F-2025/kambaz-client/internal/models"
	"github.com/SAP-F-2025/kambaz-client/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestState() (*State, *events.MockEventPublisher) {
	publisher := events.NewMockEventPublisher(slog.New(slog.NewTextHandler(io.Discard, nil)))
	return NewState(publisher, utils.NewNopLogger()), publisher
}

func TestSessionStore(t *testing.T) {
	ctx := context.Background()
	state, publisher := newTestState()

	_, ok := state.Session.Current()
	assert.False(t, ok)

	state.Session.Set(ctx, models.User{ID: "u1", Username: "iron_man", Role: models.RoleFaculty})
	user, ok := state.Session.Current()
	require.True(t, ok)
	assert.Equal(t, "iron_man", user.Username)

	state.Session.Clear(ctx)
	state.Session.Clear(ctx)
	_, ok = state.Session.Current()
	assert.False(t, ok)

	assert.Equal(t, []events.EventType{events.EventSessionSignedIn, events.EventSessionSignedOut}, publisher.Types())
}

func TestQuizStore_Mutations(t *testing.T) {
	ctx := context.Background()
	state, publisher := newTestState()
	quizzes := state.Quizzes

	quizzes.Replace(ctx, "RS101", []models.Quiz{
		{ID: "q1", Course: "RS101", Title: "One"},
		{ID: "q2", Course: "RS101", Title: "Two"},
	})
	assert.Equal(t, "RS101", quizzes.Course())
	assert.Len(t, quizzes.ForCourse("RS101"), 2)

	quizzes.Add(ctx, models.Quiz{ID: "q3", Course: "RS101", Title: "Three"})
	quizzes.Upsert(ctx, models.Quiz{ID: "q1", Course: "RS101", Title: "One", Published: models.Ptr(true)})

	got, ok := quizzes.Find("q1")
	require.True(t, ok)
	assert.True(t, got.IsPublished())

	assert.True(t, quizzes.Remove(ctx, "q2"))
	assert.False(t, quizzes.Remove(ctx, "q2"))

	var ids []string
	for _, q := range quizzes.ForCourse("RS101") {
		ids = append(ids, q.ID)
	}
	assert.Equal(t, []string{"q1", "q3"}, ids)

	assert.Equal(t, []events.EventType{
		events.EventQuizzesReplaced,
		events.EventQuizUpserted,
		events.EventQuizUpserted,
		events.EventQuizPublishToggled,
		events.EventQuizRemoved,
	}, publisher.Types())
}

func TestQuizStore_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	state, _ := newTestState()
	state.Quizzes.Replace(ctx, "RS101", []models.Quiz{{ID: "q1", Course: "RS101", Questions: []models.Question{{ID: "a"}}}})

	got, _ := state.Quizzes.Find("q1")
	got.Questions[0].ID = "changed"

	again, _ := state.Quizzes.Find("q1")
	assert.Equal(t, "a", again.Questions[0].ID)
}

func TestQuizStore_OutOfOrderRefresh(t *testing.T) {
	ctx := context.Background()
	state, _ := newTestState()
	quizzes := state.Quizzes

	slow := quizzes.BeginRefresh()
	fast := quizzes.BeginRefresh()

	assert.True(t, quizzes.CommitRefresh(ctx, fast, "RS101", []models.Quiz{{ID: "new", Course: "RS101"}}))
	assert.False(t, quizzes.CommitRefresh(ctx, slow, "RS101", []models.Quiz{{ID: "stale", Course: "RS101"}}))

	_, ok := quizzes.Find("new")
	assert.True(t, ok)
	_, ok = quizzes.Find("stale")
	assert.False(t, ok)
}

func TestQuizStore_Clear(t *testing.T) {
	ctx := context.Background()
	state, _ := newTestState()
	state.Quizzes.Replace(ctx, "RS101", []models.Quiz{{ID: "q1", Course: "RS101"}})

	state.Quizzes.Clear(ctx, "RS101")
	assert.Empty(t, state.Quizzes.ForCourse("RS101"))
}

func TestAttemptStore(t *testing.T) {
	ctx := context.Background()
	state, publisher := newTestState()

	_, ok := state.Attempts.For("q1", "u1")
	assert.False(t, ok)

	state.Attempts.Replace(ctx, "q1", "u1", []models.QuizAttempt{{ID: "a1", AttemptNumber: 1}})
	attempts, ok := state.Attempts.For("q1", "u1")
	require.True(t, ok)
	assert.Len(t, attempts, 1)

	state.Attempts.Replace(ctx, "q1", "u1", nil)
	attempts, ok = state.Attempts.For("q1", "u1")
	assert.True(t, ok)
	assert.Empty(t, attempts)

	_, ok = state.Attempts.For("q1", "u2")
	assert.False(t, ok)
	assert.Equal(t, []events.EventType{events.EventAttemptsReplaced, events.EventAttemptsReplaced}, publisher.Types())
}

func TestState_NilPublisher(t *testing.T) {
	state := NewState(nil, utils.NewNopLogger())
	state.Session.Set(context.Background(), models.User{ID: "u1"})
	_, ok := state.Session.Current()
	assert.True(t, ok)
}

func TestQuizStore_ConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	state, _ := newTestState()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			state.Quizzes.Upsert(ctx, models.Quiz{ID: "q1", Course: "RS101"})
		}()
		go func() {
			defer wg.Done()
			_ = state.Quizzes.ForCourse("RS101")
		}()
	}
	wg.Wait()
	assert.Len(t, state.Quizzes.ForCourse("RS101"), 1)
}

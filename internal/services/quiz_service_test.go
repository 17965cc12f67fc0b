package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/SAP-F-2025/kambaz-client/internal/apiclient"
	"github.com/SAP-F-2025/kambaz-client/internal/events"
	"github.com/SAP-F-2025/kambaz-client/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var errOffline = fmt.Errorf("fetch: %w: %w", apiclient.ErrTransport, errors.New("connection refused"))

func TestQuizService_Refresh(t *testing.T) {
	ctx := context.Background()

	t.Run("requires a session", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.services.Quiz().Refresh(ctx, "RS101")
		assert.ErrorIs(t, err, ErrNotSignedIn)
	})

	t.Run("sends the role and applies defaults", func(t *testing.T) {
		f := newFixture(t)
		f.signInAs(models.RoleStudent)
		f.backend.On("ListQuizzes", ctx, "RS101", models.RoleStudent).Return([]models.Quiz{{ID: "q1", Course: "RS101", Title: "One"}}, nil)

		quizzes, err := f.services.Quiz().Refresh(ctx, "RS101")
		require.NoError(t, err)
		require.Len(t, quizzes, 1)
		assert.Equal(t, models.DefaultQuizType, *quizzes[0].QuizType)
		assert.Len(t, f.state.Quizzes.ForCourse("RS101"), 1)
	})

	t.Run("failure empties the collection", func(t *testing.T) {
		f := newFixture(t)
		f.signInAs(models.RoleFaculty)
		f.state.Quizzes.Replace(ctx, "RS101", []models.Quiz{{ID: "old", Course: "RS101"}})
		f.backend.On("ListQuizzes", ctx, "RS101", models.RoleFaculty).Return(nil, errOffline)

		_, err := f.services.Quiz().Refresh(ctx, "RS101")
		require.Error(t, err)
		assert.Equal(t, MsgFetchQuizzesFailed, UserMessage(err, MsgFetchQuizzesFailed))
		assert.Empty(t, f.state.Quizzes.ForCourse("RS101"))
	})
}

func TestQuizService_Get(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.signInAs(models.RoleFaculty)

	f.backend.On("GetQuiz", ctx, "q1", models.RoleFaculty).Return(&models.Quiz{ID: "q1", Course: "RS101", Title: "Fresh"}, nil).Once()
	quiz, err := f.services.Quiz().Get(ctx, "q1")
	require.NoError(t, err)
	assert.Equal(t, "Fresh", quiz.Title)
	assert.NotNil(t, quiz.TimeLimit)

	// A failed refetch falls back to the stored copy
	f.backend.On("GetQuiz", ctx, "q1", models.RoleFaculty).Return(nil, errOffline).Once()
	quiz, err = f.services.Quiz().Get(ctx, "q1")
	require.NoError(t, err)
	assert.Equal(t, "Fresh", quiz.Title)

	f.backend.On("GetQuiz", ctx, "missing", models.RoleFaculty).Return(nil, &apiclient.APIError{Status: 404, Message: "Quiz not found"}).Once()
	_, err = f.services.Quiz().Get(ctx, "missing")
	assert.True(t, apiclient.IsNotFound(err))
	assert.ErrorIs(t, err, ErrQuizNotFound)
	assert.True(t, IsNotFound(err))
	assert.Equal(t, "Quiz not found", UserMessage(err, MsgFetchQuizFailed))
}

func TestQuizService_EditRequiresEditorRole(t *testing.T) {
	ctx := context.Background()

	for _, role := range []models.UserRole{models.RoleStudent, models.RoleTA} {
		t.Run(string(role), func(t *testing.T) {
			f := newFixture(t)
			f.signInAs(role)
			draft := NewDraft("RS101", nil).Draft()

			_, err := f.services.Quiz().Save(ctx, draft)
			assert.ErrorIs(t, err, ErrForbidden)
			_, err = f.services.Quiz().TogglePublish(ctx, "q1")
			assert.ErrorIs(t, err, ErrForbidden)
			assert.ErrorIs(t, f.services.Quiz().Delete(ctx, "q1"), ErrForbidden)
			_, err = f.services.Quiz().CopyToCourse(ctx, "q1", "RS102")
			assert.ErrorIs(t, err, ErrForbidden)

			assert.Empty(t, f.backend.Calls, "no request is sent")
		})
	}
}

func TestQuizService_SaveDraftCreates(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.signInAs(models.RoleFaculty)

	draft := f.services.NewDraft("RS101").Draft()
	f.backend.On("CreateQuiz", ctx, "RS101", models.RoleFaculty, mock.MatchedBy(func(q models.Quiz) bool {
		return q.ID == "" && q.Title == "New Quiz"
	})).Return(&models.Quiz{ID: "srv-1", Course: "RS101", Title: "New Quiz"}, nil)

	saved, err := f.services.Quiz().Save(ctx, draft)
	require.NoError(t, err)
	assert.Equal(t, "srv-1", saved.ID)

	stored, ok := f.state.Quizzes.Find("srv-1")
	require.True(t, ok)
	assert.Equal(t, "New Quiz", stored.Title)
	f.backend.AssertNotCalled(t, "UpdateQuiz", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestQuizService_SavePersistedUpdates(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.signInAs(models.RoleAdmin)
	f.state.Quizzes.Replace(ctx, "RS101", []models.Quiz{{ID: "q1", Course: "RS101", Title: "Old"}})

	editor := f.services.Edit(models.Quiz{ID: "q1", Course: "RS101", Title: "Old"})
	editor.Update(func(q *models.Quiz) { q.Title = "Renamed" })

	f.backend.On("UpdateQuiz", ctx, "q1", models.RoleAdmin, mock.MatchedBy(func(q models.Quiz) bool {
		return q.ID == "q1" && q.Title == "Renamed"
	})).Return(&models.Quiz{ID: "q1", Course: "RS101", Title: "Renamed by backend"}, nil)

	_, err := f.services.Quiz().Save(ctx, editor.Draft())
	require.NoError(t, err)

	stored, _ := f.state.Quizzes.Find("q1")
	assert.Equal(t, "Renamed by backend", stored.Title, "store holds the backend answer")
}

func TestQuizService_SaveFailureLeavesStore(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.signInAs(models.RoleFaculty)
	f.state.Quizzes.Replace(ctx, "RS101", []models.Quiz{{ID: "q1", Course: "RS101", Title: "Old"}})

	editor := f.services.Edit(models.Quiz{ID: "q1", Course: "RS101", Title: "Old"})
	editor.Update(func(q *models.Quiz) { q.Title = "New" })
	f.backend.On("UpdateQuiz", ctx, "q1", models.RoleFaculty, mock.Anything).Return(nil, errOffline)

	_, err := f.services.Quiz().Save(ctx, editor.Draft())
	require.Error(t, err)
	assert.Equal(t, MsgUpdateQuizFailed, UserMessage(err, MsgUpdateQuizFailed))

	stored, _ := f.state.Quizzes.Find("q1")
	assert.Equal(t, "Old", stored.Title)
}

func TestQuizService_SaveValidates(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.signInAs(models.RoleFaculty)

	editor := f.services.NewDraft("RS101")
	editor.Update(func(q *models.Quiz) { q.Title = "" })
	_, err := f.services.Quiz().Save(ctx, editor.Draft())
	assert.True(t, IsValidation(err))
	assert.Equal(t, "title is required", UserMessage(err, MsgCreateQuizFailed))
}

func TestQuizService_SaveAndPublish(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.signInAs(models.RoleFaculty)

	f.backend.On("CreateQuiz", ctx, "RS101", models.RoleFaculty, mock.MatchedBy(func(q models.Quiz) bool {
		return q.IsPublished()
	})).Return(&models.Quiz{ID: "srv-2", Course: "RS101", Published: models.Ptr(true)}, nil)

	draft := f.services.NewDraft("RS101").Draft()
	saved, err := f.services.Quiz().SaveAndPublish(ctx, draft)
	require.NoError(t, err)
	assert.True(t, saved.IsPublished())
	assert.False(t, draft.Quiz.IsPublished(), "caller's draft is untouched")
}

func TestQuizService_TogglePublish(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.signInAs(models.RoleFaculty)
	f.state.Quizzes.Replace(ctx, "RS101", []models.Quiz{{ID: "q1", Course: "RS101", Published: models.Ptr(false)}})
	f.publisher.ClearEvents()

	f.backend.On("UpdateQuiz", ctx, "q1", models.RoleFaculty, mock.MatchedBy(func(q models.Quiz) bool {
		return q.IsPublished()
	})).Return(&models.Quiz{ID: "q1", Course: "RS101", Published: models.Ptr(true)}, nil).Once()

	quiz, err := f.services.Quiz().TogglePublish(ctx, "q1")
	require.NoError(t, err)
	assert.True(t, quiz.IsPublished())
	assert.Contains(t, f.publisher.Types(), events.EventQuizPublishToggled)

	f.backend.On("UpdateQuiz", ctx, "q1", models.RoleFaculty, mock.Anything).Return(nil, errOffline).Once()
	_, err = f.services.Quiz().TogglePublish(ctx, "q1")
	require.Error(t, err)
	assert.Equal(t, MsgTogglePublishFailed, UserMessage(err, MsgTogglePublishFailed))
	stored, _ := f.state.Quizzes.Find("q1")
	assert.True(t, stored.IsPublished(), "failed toggle leaves the store unchanged")
}

func TestQuizService_Delete(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.signInAs(models.RoleFaculty)
	f.state.Quizzes.Replace(ctx, "RS101", []models.Quiz{{ID: "q1", Course: "RS101"}, {ID: "q2", Course: "RS101"}})

	f.backend.On("DeleteQuiz", ctx, "q1", models.RoleFaculty).Return(&apiclient.APIError{Status: 500, Message: "Failed to delete quiz"}).Once()
	require.Error(t, f.services.Quiz().Delete(ctx, "q1"))
	assert.Len(t, f.state.Quizzes.ForCourse("RS101"), 2)

	f.backend.On("DeleteQuiz", ctx, "q1", models.RoleFaculty).Return(nil).Once()
	require.NoError(t, f.services.Quiz().Delete(ctx, "q1"))
	_, ok := f.state.Quizzes.Find("q1")
	assert.False(t, ok)
}

func TestQuizService_CopyToCourse(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.signInAs(models.RoleFaculty)
	f.state.Quizzes.Replace(ctx, "RS101", []models.Quiz{{
		ID:        "q1",
		Course:    "RS101",
		Title:     "Midterm",
		Published: models.Ptr(true),
		Questions: []models.Question{{ID: "x", Type: models.TrueFalse, CorrectAnswer: models.Ptr(true)}},
	}})

	draft, err := f.services.Quiz().CopyToCourse(ctx, "q1", "RS102")
	require.NoError(t, err)
	assert.True(t, draft.Ref.IsDraft())
	assert.Empty(t, draft.Quiz.ID)
	assert.Equal(t, "RS102", draft.Quiz.Course)
	assert.Equal(t, "Midterm (Copy)", draft.Quiz.Title)
	assert.False(t, draft.Quiz.IsPublished())
	assert.Len(t, draft.Quiz.Questions, 1)

	assert.Len(t, f.state.Quizzes.ForCourse("RS102"), 0, "copy is not stored until saved")

	_, err = f.services.Quiz().CopyToCourse(ctx, "q1", "")
	assert.ErrorIs(t, err, ErrMissingCourse)
}

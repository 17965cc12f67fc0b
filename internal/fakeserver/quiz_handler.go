package fakeserver

import (
	"net/http"
	"sort"

	"github.com/SAP-F-2025/kambaz-client/internal/models"
	"github.com/gin-gonic/gin"
)

// quizBody is what the client writes: the quiz plus the caller's role
type quizBody struct {
	models.Quiz
	UserRole models.UserRole `json:"userRole"`
}

func (s *Server) ListQuizzes(c *gin.Context) {
	courseID, ok := parseIDParam(c, "cid")
	if !ok {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	c.JSON(http.StatusOK, s.coursesQuizzes(courseID, requestRole(c)))
}

func (s *Server) CreateQuiz(c *gin.Context) {
	courseID, ok := parseIDParam(c, "cid")
	if !ok {
		return
	}

	var body quizBody
	if err := c.ShouldBindJSON(&body); err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if !body.UserRole.CanEditQuizzes() {
		abortWithError(c, http.StatusForbidden, "Only faculty can create quizzes")
		return
	}
	if body.Title == "" {
		abortWithError(c, http.StatusBadRequest, "Quiz title is required")
		return
	}

	quiz := body.Quiz.WithDefaults()
	quiz.ID = ""
	quiz.Course = courseID
	c.JSON(http.StatusCreated, s.AddQuiz(quiz))
}

func (s *Server) GetQuiz(c *gin.Context) {
	quizID, ok := parseIDParam(c, "qid")
	if !ok {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	quiz, found := s.quizzes[quizID]
	if !found || (requestRole(c).IsStudent() && !quiz.IsPublished()) {
		abortWithError(c, http.StatusNotFound, "Quiz not found")
		return
	}
	c.JSON(http.StatusOK, quiz)
}

func (s *Server) UpdateQuiz(c *gin.Context) {
	quizID, ok := parseIDParam(c, "qid")
	if !ok {
		return
	}

	var body quizBody
	if err := c.ShouldBindJSON(&body); err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if !body.UserRole.CanEditQuizzes() {
		abortWithError(c, http.StatusForbidden, "Only faculty can update quizzes")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	existing, found := s.quizzes[quizID]
	if !found {
		abortWithError(c, http.StatusNotFound, "Quiz not found")
		return
	}

	quiz := body.Quiz.WithDefaults()
	quiz.ID = quizID
	quiz.Course = existing.Course
	s.quizzes[quizID] = quiz
	c.JSON(http.StatusOK, quiz)
}

func (s *Server) DeleteQuiz(c *gin.Context) {
	quizID, ok := parseIDParam(c, "qid")
	if !ok {
		return
	}
	if !requestRole(c).CanEditQuizzes() {
		abortWithError(c, http.StatusForbidden, "Only faculty can delete quizzes")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, found := s.quizzes[quizID]; !found {
		abortWithError(c, http.StatusNotFound, "Quiz not found")
		return
	}
	delete(s.quizzes, quizID)
	c.JSON(http.StatusOK, MessageResponse{Message: "Quiz deleted"})
}

func (s *Server) ListAttempts(c *gin.Context) {
	quizID, ok := parseIDParam(c, "qid")
	if !ok {
		return
	}
	userID := c.Query("userId")

	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.QuizAttempt, 0)
	for _, a := range s.attempts {
		if a.Quiz == quizID && (userID == "" || a.User == userID) {
			out = append(out, a)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].AttemptNumber < out[j].AttemptNumber })
	c.JSON(http.StatusOK, out)
}

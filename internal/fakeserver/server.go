package fakeserver

import (
	"fmt"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/SAP-F-2025/kambaz-client/internal/models"
	"github.com/SAP-F-2025/kambaz-client/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SessionCookie is the name of the cookie carrying the session token
const SessionCookie = "kambaz.sid"

type account struct {
	user     models.User
	password string
}

// Server is an in-memory stand-in for the Kambaz backend. It keeps users, quizzes and
// attempts in maps and authenticates with an opaque session cookie.
type Server struct {
	mu       sync.Mutex
	accounts map[string]*account // by user id
	quizzes  map[string]models.Quiz
	attempts []models.QuizAttempt
	sessions map[string]string // token -> user id
	nextID   int
	now      func() time.Time
	logger   utils.Logger

	requests int
}

func New(logger utils.Logger) *Server {
	return &Server{
		accounts: make(map[string]*account),
		quizzes:  make(map[string]models.Quiz),
		sessions: make(map[string]string),
		now:      time.Now,
		logger:   logger,
	}
}

// Handler returns the gin engine serving the backend routes
func (s *Server) Handler() http.Handler {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), LoggerMiddleware(s.logger), s.countRequests)
	s.SetupRoutes(router)
	return router
}

// Requests is the number of requests served so far
func (s *Server) Requests() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requests
}

func (s *Server) countRequests(c *gin.Context) {
	s.mu.Lock()
	s.requests++
	s.mu.Unlock()
	c.Next()
}

func (s *Server) newID(prefix string) string {
	s.nextID++
	return fmt.Sprintf("%s%d", prefix, s.nextID)
}

// ===== SEEDING =====

// AddUser registers an account and returns the stored user
func (s *Server) AddUser(user models.User, password string) models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if user.ID == "" {
		user.ID = s.newID("u")
	}
	if user.Role == "" {
		user.Role = models.RoleStudent
	}
	if user.LoginID == "" {
		user.LoginID = user.ID
	}
	s.accounts[user.ID] = &account{user: user, password: password}
	return user
}

// AddQuiz stores a quiz as is, assigning an id when it has none
func (s *Server) AddQuiz(quiz models.Quiz) models.Quiz {
	s.mu.Lock()
	defer s.mu.Unlock()
	if quiz.ID == "" {
		quiz.ID = s.newID("quiz")
	}
	s.quizzes[quiz.ID] = quiz
	return quiz
}

func (s *Server) AddAttempt(attempt models.QuizAttempt) models.QuizAttempt {
	s.mu.Lock()
	defer s.mu.Unlock()
	if attempt.ID == "" {
		attempt.ID = s.newID("attempt")
	}
	s.attempts = append(s.attempts, attempt)
	return attempt
}

// Quiz returns the stored copy of a quiz
func (s *Server) Quiz(id string) (models.Quiz, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	q, ok := s.quizzes[id]
	return q, ok
}

// ===== SESSIONS =====

func (s *Server) startSession(userID string) string {
	token := uuid.NewString()
	s.sessions[token] = userID
	return token
}

// currentAccount must be called with s.mu held
func (s *Server) currentAccount(c *gin.Context) (*account, bool) {
	token, err := c.Cookie(SessionCookie)
	if err != nil || token == "" {
		return nil, false
	}
	userID, ok := s.sessions[token]
	if !ok {
		return nil, false
	}
	acc, ok := s.accounts[userID]
	return acc, ok
}

func (s *Server) coursesQuizzes(courseID string, role models.UserRole) []models.Quiz {
	out := make([]models.Quiz, 0)
	for _, q := range s.quizzes {
		if q.Course != courseID {
			continue
		}
		if role.IsStudent() && !q.IsPublished() {
			continue
		}
		out = append(out, q)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

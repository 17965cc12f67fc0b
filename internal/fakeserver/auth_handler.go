package fakeserver

import (
	"net/http"

	"github.com/SAP-F-2025/kambaz-client/internal/models"
	"github.com/gin-gonic/gin"
)

func (s *Server) setSessionCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, token, 0, "/", "", false, true)
}

func (s *Server) SignIn(c *gin.Context) {
	var creds models.SigninCredentials
	if err := c.ShouldBindJSON(&creds); err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid request payload")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, acc := range s.accounts {
		if acc.user.Username == creds.Username && acc.password == creds.Password {
			acc.user.LastActivity = s.now().UTC().Format(models.DateTimeLocal)
			s.setSessionCookie(c, s.startSession(acc.user.ID))
			c.JSON(http.StatusOK, acc.user)
			return
		}
	}
	abortWithError(c, http.StatusUnauthorized, "Invalid credentials")
}

func (s *Server) SignUp(c *gin.Context) {
	var data models.SignupData
	if err := c.ShouldBindJSON(&data); err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if data.Username == "" || data.Password == "" {
		abortWithError(c, http.StatusBadRequest, "Username and password are required")
		return
	}
	if data.Password != data.VerifyPassword {
		abortWithError(c, http.StatusBadRequest, "Passwords do not match")
		return
	}
	if data.Role == "" {
		data.Role = models.RoleStudent
	}

	s.mu.Lock()
	for _, acc := range s.accounts {
		if acc.user.Username == data.Username {
			s.mu.Unlock()
			abortWithError(c, http.StatusBadRequest, "Username already exists")
			return
		}
	}
	s.mu.Unlock()

	user := s.AddUser(models.User{
		Username:  data.Username,
		FirstName: data.FirstName,
		LastName:  data.LastName,
		Email:     data.Email,
		DOB:       data.DOB,
		Role:      data.Role,
	}, data.Password)

	s.mu.Lock()
	s.setSessionCookie(c, s.startSession(user.ID))
	s.mu.Unlock()
	c.JSON(http.StatusCreated, user)
}

func (s *Server) Logout(c *gin.Context) {
	s.mu.Lock()
	if token, err := c.Cookie(SessionCookie); err == nil {
		delete(s.sessions, token)
	}
	s.mu.Unlock()

	c.SetCookie(SessionCookie, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, MessageResponse{Message: "Logged out"})
}

func (s *Server) Check(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	acc, ok := s.currentAccount(c)
	if !ok {
		c.JSON(http.StatusOK, models.AuthStatus{Authenticated: false})
		return
	}
	user := acc.user
	c.JSON(http.StatusOK, models.AuthStatus{Authenticated: true, User: &user})
}

func (s *Server) GetProfile(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	acc, ok := s.currentAccount(c)
	if !ok {
		abortWithError(c, http.StatusUnauthorized, "Not authenticated")
		return
	}
	c.JSON(http.StatusOK, acc.user)
}

func (s *Server) UpdateProfile(c *gin.Context) {
	var update models.ProfileUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid request payload")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	acc, ok := s.currentAccount(c)
	if !ok {
		abortWithError(c, http.StatusUnauthorized, "Not authenticated")
		return
	}
	if update.FirstName != "" {
		acc.user.FirstName = update.FirstName
	}
	if update.LastName != "" {
		acc.user.LastName = update.LastName
	}
	if update.Email != "" {
		acc.user.Email = update.Email
	}
	if update.DOB != "" {
		acc.user.DOB = update.DOB
	}
	c.JSON(http.StatusOK, acc.user)
}

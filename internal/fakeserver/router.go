package fakeserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// SetupRoutes registers the backend routes the client talks to
func (s *Server) SetupRoutes(router *gin.Engine) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, MessageResponse{Message: "ok"})
	})

	api := router.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/signin", s.SignIn)
			auth.POST("/signup", s.SignUp)
			auth.POST("/logout", s.Logout)
			auth.GET("/check", s.Check)
			auth.GET("/profile", s.GetProfile)
			auth.PUT("/profile", s.UpdateProfile)
		}

		courses := api.Group("/courses")
		{
			courses.GET("/:cid/quizzes", s.ListQuizzes)
			courses.POST("/:cid/quizzes", s.CreateQuiz)
		}

		quizzes := api.Group("/quizzes")
		{
			quizzes.GET("/:qid", s.GetQuiz)
			quizzes.PUT("/:qid", s.UpdateQuiz)
			quizzes.DELETE("/:qid", s.DeleteQuiz)
			quizzes.GET("/:qid/attempts", s.ListAttempts)
		}
	}
}

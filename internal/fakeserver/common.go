package fakeserver

import (
	"net/http"
	"strings"

	"github.com/SAP-F-2025/kambaz-client/internal/models"
	"github.com/SAP-F-2025/kambaz-client/internal/utils"
	"github.com/gin-gonic/gin"
)

// ErrorResponse is the body of every non-2xx answer
type ErrorResponse struct {
	Error string `json:"error"`
}

// MessageResponse is returned by actions without a resource to show
type MessageResponse struct {
	Message string `json:"message"`
}

// LoggerMiddleware logs every served request through the shared logger
func LoggerMiddleware(logger utils.Logger) gin.HandlerFunc {
	return gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		logger.LogRequest(
			param.Request.Context(),
			param.Method,
			param.Path,
			param.StatusCode,
			param.Latency,
			"client_ip", param.ClientIP,
			"side", "fake-backend",
		)
		return ""
	})
}

func abortWithError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, ErrorResponse{Error: message})
}

func parseIDParam(c *gin.Context, param string) (string, bool) {
	id := strings.TrimSpace(c.Param(param))
	if id == "" {
		abortWithError(c, http.StatusBadRequest, "Invalid "+param)
		return "", false
	}
	return id, true
}

// requestRole reads the role query parameter the client sends with quiz calls
func requestRole(c *gin.Context) models.UserRole {
	return models.UserRole(strings.ToUpper(c.Query("role")))
}

package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// errorBody is the single error envelope every failed request funnels through.
// 4xx responses carry status "fail", 5xx carry "error"; stack traces never leak.
type errorBody struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func Error(c *gin.Context, statusCode int, message string) {
	status := "error"
	if statusCode < http.StatusInternalServerError {
		status = "fail"
	}
	c.AbortWithStatusJSON(statusCode, errorBody{
		Status:  status,
		Message: message,
	})
}

func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, message)
}

func Unauthorized(c *gin.Context, message string) {
	Error(c, http.StatusUnauthorized, message)
}

func NotFound(c *gin.Context, message string) {
	Error(c, http.StatusNotFound, message)
}

func TooManyRequests(c *gin.Context, message string) {
	Error(c, http.StatusTooManyRequests, message)
}

func InternalError(c *gin.Context, message string) {
	Error(c, http.StatusInternalServerError, message)
}

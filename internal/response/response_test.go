package response

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestErrorEnvelope(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		statusCode int
		wantStatus string
	}{
		{"bad request is a fail", http.StatusBadRequest, "fail"},
		{"not found is a fail", http.StatusNotFound, "fail"},
		{"too many requests is a fail", http.StatusTooManyRequests, "fail"},
		{"internal error is an error", http.StatusInternalServerError, "error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(rec)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			Error(c, tt.statusCode, "boom")

			assert.Equal(t, tt.statusCode, rec.Code)
			assert.JSONEq(t, `{"status":"`+tt.wantStatus+`","message":"boom"}`, rec.Body.String())
			assert.True(t, c.IsAborted())
		})
	}
}

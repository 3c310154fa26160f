package httputil

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/jwalitptl/appointment-booking/pkg/errors"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestStatusOf(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantMessage string
	}{
		{"not found", apperrors.NotFound("doctor", nil), http.StatusNotFound, "doctor not found"},
		{"validation", apperrors.Validation("invalid slot format \"x\"", nil), http.StatusBadRequest, "invalid slot format \"x\""},
		{"bad request", apperrors.BadRequest("invalid booking id", nil), http.StatusBadRequest, "invalid booking id"},
		{"wrapped conflict", fmt.Errorf("failed to book: %w", apperrors.Conflict("slot already booked", nil)), http.StatusConflict, "slot already booked"},
		{"internal hides cause", apperrors.Internal(errors.New("secret")), http.StatusInternalServerError, "internal server error"},
		{"plain error", errors.New("boom"), http.StatusInternalServerError, "internal server error"},
		{"deadline", context.DeadlineExceeded, http.StatusGatewayTimeout, "request timeout"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, msg := StatusOf(tt.err)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantMessage, msg)
		})
	}
}

func TestRespondWithError(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set(RequestIDKey, "req-1")

	RespondWithError(c, apperrors.NotFound("booking", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
	var body Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, Response{Status: "error", Message: "booking not found", RequestID: "req-1"}, body)
}

func TestRespondWithSuccess(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	RespondWithSuccess(c, http.StatusCreated, gin.H{"id": 1001})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"status":"success","data":{"id":1001}}`, w.Body.String())
}

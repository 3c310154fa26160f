package health

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func setup(checks map[string]Check) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	NewHandler(checks).RegisterRoutes(&engine.RouterGroup)
	return engine
}

func get(engine *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestHealth_Ready(t *testing.T) {
	engine := setup(map[string]Check{
		"broker": func(context.Context) error { return nil },
	})

	assert.Equal(t, http.StatusOK, get(engine, "/health/live").Code)
	assert.Equal(t, http.StatusOK, get(engine, "/health/ready").Code)
}

func TestHealth_NotReady(t *testing.T) {
	engine := setup(map[string]Check{
		"broker": func(context.Context) error { return errors.New("connection refused") },
		"outbox": func(context.Context) error { return nil },
	})

	w := get(engine, "/health/ready")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.JSONEq(t, `{"status":"DOWN","checks":{"broker":"connection refused"}}`, w.Body.String())

	// liveness does not depend on the checks
	assert.Equal(t, http.StatusOK, get(engine, "/health/live").Code)
}

package app

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"reading/internal/config"
	"reading/internal/stats"
	"reading/internal/storage/stubs"
)

func TestNewLogger(t *testing.T) {
	logger, err := NewLogger("debug")
	require.NoError(t, err)
	assert.NotNil(t, logger)

	_, err = NewLogger("loud")
	assert.Error(t, err)
}

func TestHandler_APIOnly(t *testing.T) {
	db := stubs.NewMockDB()
	a := &App{
		config: &config.Config{Port: "0"},
		logger: zap.NewNop(),
		db:     db,
		engine: stats.NewEngine(db, db, zap.NewNop()),
	}
	handler := a.Handler()

	testCases := []struct {
		method string
		target string
		status int
	}{
		{http.MethodGet, "/health", http.StatusOK},
		{http.MethodGet, "/", http.StatusOK},
		{http.MethodGet, "/api/stats/summary", http.StatusOK},
		{http.MethodGet, "/api/wrapped/years", http.StatusOK},
		{http.MethodPost, "/telegram-webhook", http.StatusNotFound},
		{http.MethodGet, "/nope", http.StatusNotFound},
	}

	for _, tc := range testCases {
		t.Run(tc.method+" "+tc.target, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(tc.method, tc.target, nil))
			assert.Equal(t, tc.status, rec.Code)
		})
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Contains(t, rec.Body.String(), "api only")
}

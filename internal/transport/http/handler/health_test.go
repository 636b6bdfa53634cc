package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHealthHandler_Check(t *testing.T) {
	rr := httptest.NewRecorder()
	NewHealthHandler(stubPinger{}).Check(rr, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"ok","redis":"up"}`, rr.Body.String())
}

func TestHealthHandler_RedisDown(t *testing.T) {
	rr := httptest.NewRecorder()
	NewHealthHandler(stubPinger{err: errors.New("refused")}).Check(rr, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
}

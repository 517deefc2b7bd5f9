package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

const testFrontend = "http://localhost:3000"

func TestCORS_AllowsFrontendWithCredentials(t *testing.T) {
	h := New(&mockDB{}, testFrontend)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("Origin", testFrontend)
	rec := httptest.NewRecorder()
	h.CORS(okHandler()).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, testFrontend, rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
	assert.Equal(t, "GET, POST, OPTIONS", rec.Header().Get("Access-Control-Allow-Methods"))
	assert.Equal(t, "Content-Type", rec.Header().Get("Access-Control-Allow-Headers"))
}

func TestCORS_VaryOriginKeepsExistingValues(t *testing.T) {
	h := New(&mockDB{}, testFrontend)
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Add("Vary", "Accept-Encoding")
		w.WriteHeader(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	h.CORS(inner).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/legal/privacy", nil))

	assert.Equal(t, []string{"Origin", "Accept-Encoding"}, rec.Header().Values("Vary"))
}

func TestCORS_PreflightStopsBeforeHandler(t *testing.T) {
	h := New(&mockDB{}, testFrontend)
	called := false
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true })

	req := httptest.NewRequest(http.MethodOptions, "/api/contact", nil)
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	h.CORS(inner).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.False(t, called)
	assert.Empty(t, rec.Body.String())
	assert.NotContains(t, rec.Header().Get("Access-Control-Allow-Methods"), "DELETE")
	assert.NotContains(t, rec.Header().Get("Access-Control-Allow-Headers"), "Authorization")
}

func TestWriteError_JSONBody(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(rec, http.StatusTooManyRequests, "rate_limited")

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"error":"rate_limited"}`, rec.Body.String())
}

package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/skadam/cafe/internal/adapter/logger"
)

func TestRecoveryMiddlewareReturns500(t *testing.T) {
	panics := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})
	handler := RecoveryMiddleware(logger.Nop())(panics)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/orders", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestLoggingMiddlewarePreservesStatus(t *testing.T) {
	notFound := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	handler := LoggingMiddleware(logger.Nop())(notFound)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/orders/missing", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

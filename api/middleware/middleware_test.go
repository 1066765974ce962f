package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newTestRouter(t *testing.T) (*gin.Engine, *observer.ObservedLogs) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	core, logs := observer.New(zapcore.InfoLevel)
	log := zap.New(core)

	router := gin.New()
	router.Use(Logger(log))
	router.Use(Recovery(log))
	router.GET("/ok", func(c *gin.Context) { c.String(http.StatusOK, "fine") })
	router.GET("/boom", func(c *gin.Context) { panic("boom") })
	router.GET("/late", func(c *gin.Context) {
		c.String(http.StatusOK, "partial")
		panic("late")
	})
	return router, logs
}

func TestRecovery_PanicBecomes500(t *testing.T) {
	router, logs := newTestRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/boom", nil)
	req.RemoteAddr = "192.0.2.7:41000"
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"internal server error"}`, w.Body.String())

	panics := logs.FilterMessage("Handler panicked").All()
	require.Len(t, panics, 1)
	fields := panics[0].ContextMap()
	assert.Equal(t, "boom", fields["panic"])
	assert.Equal(t, http.MethodGet, fields["method"])
	assert.Equal(t, "/boom", fields["path"])
	assert.Equal(t, "192.0.2.7", fields["client_ip"])
	assert.NotEmpty(t, fields["stack"])

	requests := logs.FilterMessage("HTTP request").All()
	require.Len(t, requests, 1)
	assert.Equal(t, zapcore.ErrorLevel, requests[0].Level)
}

func TestRecovery_KeepsWrittenResponse(t *testing.T) {
	router, logs := newTestRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/late", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "partial", w.Body.String())
	assert.Equal(t, 1, logs.FilterMessage("Handler panicked").Len())
}

func TestLogger_InfoForSuccess(t *testing.T) {
	router, logs := newTestRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ok?x=1", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	requests := logs.FilterMessage("HTTP request").All()
	require.Len(t, requests, 1)
	assert.Equal(t, zapcore.InfoLevel, requests[0].Level)
	assert.Equal(t, "x=1", requests[0].ContextMap()["query"])
	assert.EqualValues(t, http.StatusOK, requests[0].ContextMap()["status"])
}

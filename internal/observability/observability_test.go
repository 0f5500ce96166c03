package observability

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/davydocsurg/techinnover-ecommerce-api/internal/config"
	apperrors "github.com/davydocsurg/techinnover-ecommerce-api/pkg/util/errorutil"
)

func TestMetrics_RecordRequestAndError(t *testing.T) {
	m := NewMetrics("test")
	m.RecordRequest("/api/v1/products", http.MethodGet, http.StatusOK, 20*time.Millisecond)
	m.RecordRequest("/api/v1/products", http.MethodGet, http.StatusOK, 10*time.Millisecond)
	m.RecordError("/api/v1/products", http.MethodPost, apperrors.CodeConflict)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.requestCount.WithLabelValues(http.MethodGet, "/api/v1/products", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.errorCount.WithLabelValues(http.MethodPost, "/api/v1/products", apperrors.CodeConflict)))

	var nilMetrics *Metrics
	assert.NotPanics(t, func() {
		nilMetrics.RecordRequest("/", http.MethodGet, 200, time.Millisecond)
		nilMetrics.RecordError("/", http.MethodGet, "X")
	})
}

func TestMetrics_Handler(t *testing.T) {
	m := NewMetrics("test")
	m.RecordRequest("/health/live", http.MethodGet, http.StatusOK, time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `http_requests_total{method="GET",path="/health/live",service="test",status="200"} 1`)
}

func TestRequestLogger(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	m := NewMetrics("test")

	app := fiber.New()
	app.Use(RequestLogger(zap.New(core), m))
	app.Get("/ok/:id", func(c *fiber.Ctx) error { return c.SendString("ok") })
	app.Get("/missing", func(c *fiber.Ctx) error { return apperrors.NewNotFound("Product", "") })

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/ok/42", nil))
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "ok", string(body))

	_, err = app.Test(httptest.NewRequest(http.MethodGet, "/missing", nil))
	require.NoError(t, err)

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, int64(200), entries[0].ContextMap()["status"])
	assert.Equal(t, "/ok/42", entries[0].ContextMap()["path"])
	assert.Equal(t, int64(404), entries[1].ContextMap()["status"])

	assert.Equal(t, 1.0, testutil.ToFloat64(m.requestCount.WithLabelValues(http.MethodGet, "/ok/:id", "200")))
}

func TestNewLogger_FallsBackToInfo(t *testing.T) {
	logger, err := NewLogger(config.LoggerConfig{Level: "nonsense"}, "test")
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zapcore.InfoLevel))
	assert.False(t, logger.Core().Enabled(zapcore.DebugLevel))
}

func TestNewLogger_EncodesServiceAndCaller(t *testing.T) {
	var buf bytes.Buffer
	logger, err := newLogger(config.LoggerConfig{Level: "debug", Format: "json"}, "marketplace", zapcore.AddSync(&buf))
	require.NoError(t, err)

	logger.Named("audit").Debug("user_banned", zap.String("subject_id", "user-1"))
	require.NoError(t, logger.Sync())

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "debug", entry["level"])
	assert.Equal(t, "user_banned", entry["message"])
	assert.Equal(t, "marketplace", entry["service"])
	assert.Equal(t, "audit", entry["logger"])
	assert.Equal(t, "user-1", entry["subject_id"])
	assert.Contains(t, entry["caller"], "observability_test.go")
}

func TestNewLogger_RejectsUnknownFormat(t *testing.T) {
	_, err := NewLogger(config.LoggerConfig{Format: "xml"}, "test")
	assert.Error(t, err)
}

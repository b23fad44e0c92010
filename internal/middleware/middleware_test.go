package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deppfellow/autotrader/internal/config"
	"github.com/deppfellow/autotrader/internal/errs"
	"github.com/deppfellow/autotrader/internal/server"
)

func newTestServer(t *testing.T, buf *bytes.Buffer) *server.Server {
	t.Helper()

	logger := zerolog.Nop()
	if buf != nil {
		logger = zerolog.New(buf)
	}

	srv, err := server.New(config.DefaultConfig(), &logger, nil)
	require.NoError(t, err)

	return srv
}

func newTestEcho(t *testing.T, srv *server.Server) *echo.Echo {
	t.Helper()

	m := NewMiddlewares(srv)

	e := echo.New()
	e.HTTPErrorHandler = m.Global.GlobalErrorHandler
	e.Use(
		RequestID(),
		m.RateLimit.Limit(),
		m.Tracing.NewRelicMiddleware(),
		m.Tracing.EnhanceTracing(),
		m.ContextEnhancer.EnhanceContext(),
		m.Global.RequestLogger(),
		m.Global.Recover(),
	)

	return e
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errs.HTTPError {
	t.Helper()

	var body errs.HTTPError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestRequestID(t *testing.T) {
	e := newTestEcho(t, newTestServer(t, nil))
	e.GET("/id", func(c echo.Context) error {
		return c.String(http.StatusOK, GetRequestID(c))
	})

	t.Run("generated", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/id", nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		id := rec.Header().Get(RequestIDHeader)
		assert.Len(t, id, 36)
		assert.Equal(t, id, rec.Body.String())
	})

	t.Run("propagated", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/id", nil)
		req.Header.Set(RequestIDHeader, "abc-123")
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, "abc-123", rec.Header().Get(RequestIDHeader))
		assert.Equal(t, "abc-123", rec.Body.String())
	})

	for name, incoming := range map[string]string{
		"too long":       strings.Repeat("a", 129),
		"with spaces":    "abc 123",
		"control chars":  "abc\x01",
		"non-ascii text": "idé",
	} {
		t.Run("replaced "+name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/id", nil)
			req.Header.Set(RequestIDHeader, incoming)
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			id := rec.Header().Get(RequestIDHeader)
			assert.NotEqual(t, incoming, id)
			assert.Len(t, id, 36)
		})
	}
}

func TestEnhanceContext_StoresLogger(t *testing.T) {
	var buf bytes.Buffer
	e := newTestEcho(t, newTestServer(t, &buf))
	e.GET("/log", func(c echo.Context) error {
		LoggerFromContext(c.Request().Context()).Info().Msg("from context")
		return c.NoContent(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/log", nil)
	req.Header.Set(RequestIDHeader, "req-1")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Contains(t, buf.String(), `"message":"from context"`)
	assert.Contains(t, buf.String(), `"request_id":"req-1"`)
	assert.Contains(t, buf.String(), `"message":"API"`)
}

func TestGetLogger_WithoutEnhancer(t *testing.T) {
	c := echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())

	assert.NotNil(t, GetLogger(c))
	assert.NotNil(t, LoggerFromContext(c.Request().Context()))
}

func TestGlobalErrorHandler(t *testing.T) {
	e := newTestEcho(t, newTestServer(t, nil))
	e.GET("/http-error", func(c echo.Context) error {
		return errs.ValidationError([]errs.FieldError{{Loc: []string{"body", "price"}, Field: "price", Type: "missing", Error: "Field required"}})
	})
	e.GET("/plain-error", func(c echo.Context) error {
		return errors.New("boom: secret details")
	})
	e.GET("/panic", func(c echo.Context) error {
		panic("kaboom")
	})
	e.POST("/post-only", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	tests := []struct {
		name           string
		method         string
		path           string
		expectedStatus int
		expectedCode   string
	}{
		{name: "custom error", method: http.MethodGet, path: "/http-error", expectedStatus: http.StatusUnprocessableEntity, expectedCode: "UNPROCESSABLE_ENTITY"},
		{name: "unknown error", method: http.MethodGet, path: "/plain-error", expectedStatus: http.StatusInternalServerError, expectedCode: "INTERNAL_SERVER_ERROR"},
		{name: "panic", method: http.MethodGet, path: "/panic", expectedStatus: http.StatusInternalServerError, expectedCode: "INTERNAL_SERVER_ERROR"},
		{name: "unknown route", method: http.MethodGet, path: "/nowhere", expectedStatus: http.StatusNotFound, expectedCode: "NOT_FOUND"},
		{name: "wrong method", method: http.MethodGet, path: "/post-only", expectedStatus: http.StatusMethodNotAllowed, expectedCode: "METHOD_NOT_ALLOWED"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)

			body := decodeError(t, rec)
			assert.Equal(t, tt.expectedCode, body.Code)
			assert.Equal(t, tt.expectedStatus, body.Status)
			assert.NotContains(t, rec.Body.String(), "secret details")
		})
	}
}

func TestRateLimit(t *testing.T) {
	t.Run("disabled by default", func(t *testing.T) {
		e := newTestEcho(t, newTestServer(t, nil))
		e.GET("/", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

		for i := 0; i < 50; i++ {
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
			require.Equal(t, http.StatusOK, rec.Code)
		}
	})

	t.Run("denies after burst", func(t *testing.T) {
		srv := newTestServer(t, nil)
		srv.Config.RateLimit = config.RateLimitConfig{Enabled: true, Rate: 0.001, Burst: 2, ExpiresIn: 60}

		e := newTestEcho(t, srv)
		e.GET("/", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

		var codes []int
		for i := 0; i < 3; i++ {
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
			codes = append(codes, rec.Code)
		}

		assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
	})
}

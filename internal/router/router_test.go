package router

import (
	"encoding/json"
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
	"github.com/deppfellow/autotrader/internal/handler"
	"github.com/deppfellow/autotrader/internal/server"
	"github.com/deppfellow/autotrader/internal/service"
)

func newTestRouter(t *testing.T) *echo.Echo {
	t.Helper()

	logger := zerolog.Nop()
	srv, err := server.New(config.DefaultConfig(), &logger, nil)
	require.NoError(t, err)

	return NewRouter(srv, handler.NewHandlers(srv, service.NewServices(srv)))
}

func do(e *echo.Echo, method, target, contentType, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	if contentType != "" {
		req.Header.Set(echo.HeaderContentType, contentType)
	}

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func postItem(e *echo.Echo, body string) *httptest.ResponseRecorder {
	return do(e, http.MethodPost, "/items/", echo.MIMEApplicationJSON, body)
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errs.HTTPError {
	t.Helper()

	var body errs.HTTPError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestReadRoot(t *testing.T) {
	e := newTestRouter(t)

	tests := []struct {
		name   string
		target string
		header map[string]string
	}{
		{name: "plain", target: "/"},
		{name: "query parameters", target: "/?q=1&name=x"},
		{name: "extra headers", target: "/", header: map[string]string{"Accept": "text/plain", "X-Custom": "1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.target, nil)
			for k, v := range tt.header {
				req.Header.Set(k, v)
			}
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.JSONEq(t, `{"Hello": "World"}`, rec.Body.String())
			assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
		})
	}
}

func TestCreateItem_Success(t *testing.T) {
	e := newTestRouter(t)

	tests := []struct {
		name     string
		body     string
		expected string
	}{
		{
			name:     "all fields echoed",
			body:     `{"name": "test", "description": "desc", "price": 1.23}`,
			expected: `{"name": "test", "description": "desc", "price": 1.23}`,
		},
		{
			name:     "description omitted becomes null",
			body:     `{"name": "test", "price": 1.23}`,
			expected: `{"name": "test", "description": null, "price": 1.23}`,
		},
		{
			name:     "explicit null description",
			body:     `{"name": "test", "description": null, "price": 5}`,
			expected: `{"name": "test", "description": null, "price": 5}`,
		},
		{
			name:     "numeric string price coerced",
			body:     `{"name": "test", "price": "9.5"}`,
			expected: `{"name": "test", "description": null, "price": 9.5}`,
		},
		{
			name:     "unknown fields dropped",
			body:     `{"name": "test", "price": 1, "extra": true}`,
			expected: `{"name": "test", "description": null, "price": 1}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postItem(e, tt.body)

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.JSONEq(t, tt.expected, rec.Body.String())
		})
	}
}

func TestCreateItem_Idempotent(t *testing.T) {
	e := newTestRouter(t)
	body := `{"name": "test", "description": "desc", "price": 1.23}`

	first := postItem(e, body)
	second := postItem(e, body)

	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, http.StatusOK, second.Code)
	assert.JSONEq(t, first.Body.String(), second.Body.String())

	// A failed request in between must not leak into the next one.
	assert.Equal(t, http.StatusUnprocessableEntity, postItem(e, `{"name": "other"}`).Code)
	third := postItem(e, `{"name": "test", "price": 1.23}`)
	assert.JSONEq(t, `{"name": "test", "description": null, "price": 1.23}`, third.Body.String())
}

func TestCreateItem_ValidationErrors(t *testing.T) {
	e := newTestRouter(t)

	type fieldErr struct {
		field string
		kind  string
	}

	tests := []struct {
		name        string
		contentType string
		body        string
		expected    []fieldErr
	}{
		{
			name:     "price missing",
			body:     `{"name": "test"}`,
			expected: []fieldErr{{"price", "missing"}},
		},
		{
			name:     "price not a number",
			body:     `{"name": "test", "price": "abc"}`,
			expected: []fieldErr{{"price", "float_parsing"}},
		},
		{
			name:     "name wrong type",
			body:     `{"name": ["a"], "price": 1}`,
			expected: []fieldErr{{"name", "string_type"}},
		},
		{
			name:     "every failing field reported",
			body:     `{"description": 3}`,
			expected: []fieldErr{{"description", "string_type"}, {"name", "missing"}, {"price", "missing"}},
		},
		{
			name:     "body not an object",
			body:     `[{"name": "test", "price": 1}]`,
			expected: []fieldErr{{"body", "model_attributes_type"}},
		},
		{
			name:     "malformed JSON",
			body:     `{"name": "test", "price": `,
			expected: []fieldErr{{"body", "json_invalid"}},
		},
		{
			name:     "empty body",
			body:     "",
			expected: []fieldErr{{"body", "missing"}},
		},
		{
			name:     "trailing data after the object",
			body:     `{"name": "x", "price": 1} trailing`,
			expected: []fieldErr{{"body", "json_invalid"}},
		},
		{
			name:     "two JSON values",
			body:     `{"name": "x", "price": 1} {"name": "y", "price": 2}`,
			expected: []fieldErr{{"body", "json_invalid"}},
		},
		{
			name:        "unsupported content type",
			contentType: echo.MIMETextPlain,
			body:        `{"name": "test", "price": 1}`,
			expected:    []fieldErr{{"body", "json_invalid"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			contentType := tt.contentType
			if contentType == "" {
				contentType = echo.MIMEApplicationJSON
			}

			rec := do(e, http.MethodPost, "/items/", contentType, tt.body)
			require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

			body := decodeError(t, rec)
			assert.Equal(t, "UNPROCESSABLE_ENTITY", body.Code)
			assert.Equal(t, http.StatusUnprocessableEntity, body.Status)

			var got []fieldErr
			for _, fe := range body.Errors {
				got = append(got, fieldErr{fe.Field, fe.Type})
				assert.Equal(t, "body", fe.Loc[0])
				assert.NotEmpty(t, fe.Error)
			}
			assert.ElementsMatch(t, tt.expected, got)
		})
	}
}

func TestCreateItem_ContentTypes(t *testing.T) {
	e := newTestRouter(t)

	tests := []struct {
		name        string
		contentType string
	}{
		{name: "application/json", contentType: echo.MIMEApplicationJSON},
		{name: "json with charset", contentType: "application/json; charset=utf-8"},
		{name: "no content type", contentType: ""},
		{name: "structured syntax suffix", contentType: "application/vnd.api+json"},
		{name: "suffix with parameters", contentType: "application/merge-patch+json; charset=utf-8"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(e, http.MethodPost, "/items/", tt.contentType, `{"name": "test", "price": 1.23}`)
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
			assert.JSONEq(t, `{"name": "test", "description": null, "price": 1.23}`, rec.Body.String())
		})
	}
}

func TestCreateItem_NoContentTypeInvalidBody(t *testing.T) {
	e := newTestRouter(t)

	body := decodeError(t, do(e, http.MethodPost, "/items/", "", `{"name": "test"`))
	require.Len(t, body.Errors, 1)
	assert.Equal(t, "json_invalid", body.Errors[0].Type)

	body = decodeError(t, do(e, http.MethodPost, "/items/", "", `{"name": "test"}`))
	require.Len(t, body.Errors, 1)
	assert.Equal(t, []string{"body", "price"}, body.Errors[0].Loc)
}

func TestCreateItem_ErrorLocation(t *testing.T) {
	e := newTestRouter(t)

	body := decodeError(t, postItem(e, `{"name": "test"}`))
	require.Len(t, body.Errors, 1)

	assert.Equal(t, []string{"body", "price"}, body.Errors[0].Loc)
	assert.Equal(t, "Field required", body.Errors[0].Error)
}

func TestUnknownRoutes(t *testing.T) {
	e := newTestRouter(t)

	tests := []struct {
		name   string
		method string
		target string
		status int
	}{
		{name: "unknown path", method: http.MethodGet, target: "/nope", status: http.StatusNotFound},
		{name: "items without trailing slash", method: http.MethodPost, target: "/items", status: http.StatusNotFound},
		{name: "get items", method: http.MethodGet, target: "/items/", status: http.StatusMethodNotAllowed},
		{name: "post root", method: http.MethodPost, target: "/", status: http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(e, tt.method, tt.target, "", "")

			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.status, decodeError(t, rec).Status)
		})
	}
}

func TestOpenAPI(t *testing.T) {
	e := newTestRouter(t)

	rec := do(e, http.MethodGet, "/openapi.json", "", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var doc struct {
		Paths map[string]map[string]any `json:"paths"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
	assert.Contains(t, doc.Paths["/"], "get")
	assert.Contains(t, doc.Paths["/items/"], "post")

	rec = do(e, http.MethodGet, "/docs", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "/openapi.json")
	assert.Equal(t, "no-cache", rec.Header().Get("Cache-Control"))
}

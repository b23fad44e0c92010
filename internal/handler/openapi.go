package handler

import (
	_ "embed"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/deppfellow/autotrader/internal/server"
)

var (
	//go:embed static/openapi.json
	openAPISpec []byte

	//go:embed static/docs.html
	openAPIUI string
)

// OpenAPIHandler serves the OpenAPI document and an API explorer page that
// loads it.
type OpenAPIHandler struct {
	Handler
}

func NewOpenAPIHandler(s *server.Server) *OpenAPIHandler {
	return &OpenAPIHandler{
		Handler: NewHandler(s),
	}
}

func (h *OpenAPIHandler) ServeOpenAPISpec(c echo.Context) error {
	return c.Blob(http.StatusOK, echo.MIMEApplicationJSON, openAPISpec)
}

// ServeOpenAPIUI serves the explorer page uncached so doc changes show up
// immediately.
func (h *OpenAPIHandler) ServeOpenAPIUI(c echo.Context) error {
	c.Response().Header().Set("Cache-Control", "no-cache")

	return c.HTML(http.StatusOK, openAPIUI)
}

package router

import (
	"github.com/labstack/echo/v4"

	"github.com/deppfellow/autotrader/internal/handler"
)

// registerSystemRoutes registers the root check and the API docs.
func registerSystemRoutes(r *echo.Echo, h *handler.Handlers) {
	r.GET("/", h.Root.ReadRoot)

	r.GET("/openapi.json", h.OpenAPI.ServeOpenAPISpec)
	r.GET("/docs", h.OpenAPI.ServeOpenAPIUI)
}

// Package router builds the echo instance: the middleware chain and the
// route table mapping each method and path to its handler.
package router

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/deppfellow/autotrader/internal/handler"
	"github.com/deppfellow/autotrader/internal/middleware"
	"github.com/deppfellow/autotrader/internal/server"
	"github.com/deppfellow/autotrader/internal/validation"
)

// NewRouter returns a fully wired echo instance. The route table is built
// here once and never changes afterwards.
func NewRouter(s *server.Server, h *handler.Handlers) *echo.Echo {
	middlewares := middleware.NewMiddlewares(s)

	router := echo.New()
	router.HideBanner = true
	router.HidePort = true
	router.HTTPErrorHandler = middlewares.Global.GlobalErrorHandler
	router.JSONSerializer = validation.JSONSerializer{}

	// Order matters: the request id and New Relic transaction must exist
	// before the context logger is built, and the request logger needs the
	// context logger.
	router.Use(
		middleware.RequestID(),
		middlewares.Tracing.NewRelicMiddleware(),
		middlewares.Tracing.EnhanceTracing(),
		middlewares.ContextEnhancer.EnhanceContext(),
		middlewares.Global.RequestLogger(),
		middlewares.Global.Recover(),
		middlewares.RateLimit.Limit(),
		middlewares.Global.CORS(),
		middlewares.Global.Secure(),
	)

	registerSystemRoutes(router, h)
	registerItemRoutes(router, h)

	return router
}

func registerItemRoutes(r *echo.Echo, h *handler.Handlers) {
	r.POST("/items/", handler.Handle(h.Item.Handler, h.Item.CreateItem, http.StatusOK, handler.NewCreateItemRequest))
}

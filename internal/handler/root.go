package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/deppfellow/autotrader/internal/middleware"
	"github.com/deppfellow/autotrader/internal/server"
)

// RootHandler serves GET /, which doubles as the liveness check.
type RootHandler struct {
	Handler
}

func NewRootHandler(s *server.Server) *RootHandler {
	return &RootHandler{
		Handler: NewHandler(s),
	}
}

// ReadRoot always answers {"Hello": "World"}; headers and query parameters
// are ignored.
func (h *RootHandler) ReadRoot(c echo.Context) error {
	middleware.GetLogger(c).Debug().
		Str("operation", "read_root").
		Msg("root requested")

	return c.JSON(http.StatusOK, map[string]string{"Hello": "World"})
}

package handler

import (
	"github.com/deppfellow/autotrader/internal/server"
	"github.com/deppfellow/autotrader/internal/service"
)

// Handlers groups every HTTP handler for the router.
type Handlers struct {
	Root    *RootHandler
	Item    *ItemHandler
	OpenAPI *OpenAPIHandler
}

func NewHandlers(s *server.Server, services *service.Services) *Handlers {
	return &Handlers{
		Root:    NewRootHandler(s),
		Item:    NewItemHandler(s, services.Item),
		OpenAPI: NewOpenAPIHandler(s),
	}
}

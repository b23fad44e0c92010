package handler

import (
	"context"

	"github.com/labstack/echo/v4"
	"github.com/newrelic/go-agent/v3/newrelic"

	"github.com/deppfellow/autotrader/internal/model"
	"github.com/deppfellow/autotrader/internal/server"
)

// ItemCreator is the service behind POST /items/.
type ItemCreator interface {
	CreateItem(ctx context.Context, item *model.Item) (*model.Item, error)
}

type ItemHandler struct {
	Handler
	items ItemCreator
}

func NewItemHandler(s *server.Server, items ItemCreator) *ItemHandler {
	return &ItemHandler{
		Handler: NewHandler(s),
		items:   items,
	}
}

// NewCreateItemRequest allocates the payload of a single POST /items/ call.
func NewCreateItemRequest() *model.CreateItemRequest {
	return &model.CreateItemRequest{}
}

// CreateItem echoes the validated item back to the client.
func (h *ItemHandler) CreateItem(c echo.Context, req *model.CreateItemRequest) (*model.Item, error) {
	item := req.Item()

	if txn := newrelic.FromContext(c.Request().Context()); txn != nil {
		txn.AddAttribute("item.price", item.Price)
		txn.AddAttribute("item.has_description", item.Description != nil)
	}

	return h.items.CreateItem(c.Request().Context(), item)
}

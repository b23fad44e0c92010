package service

import (
	"context"

	"github.com/deppfellow/autotrader/internal/middleware"
	"github.com/deppfellow/autotrader/internal/model"
	"github.com/deppfellow/autotrader/internal/server"
)

type ItemService struct {
	server *server.Server
}

func NewItemService(s *server.Server) *ItemService {
	return &ItemService{
		server: s,
	}
}

// CreateItem returns the validated item unchanged. Nothing is persisted and
// no state is kept between calls.
//
// It logs through the request logger carried by ctx, so the entry has the
// request id and trace ids of the call.
func (s *ItemService) CreateItem(ctx context.Context, item *model.Item) (*model.Item, error) {
	middleware.LoggerFromContext(ctx).Debug().
		Str("item_name", item.Name).
		Float64("item_price", item.Price).
		Bool("has_description", item.Description != nil).
		Msg("item accepted")

	created := *item
	return &created, nil
}

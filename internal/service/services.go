package service

import (
	"github.com/deppfellow/autotrader/internal/server"
)

// Services groups every service so handlers receive a single dependency.
type Services struct {
	Item *ItemService
}

func NewServices(s *server.Server) *Services {
	return &Services{
		Item: NewItemService(s),
	}
}

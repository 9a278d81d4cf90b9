package revolut

import (
	"context"
	"net/http"
	"net/url"
)

type orderService struct {
	client *Client
}

func (s *orderService) Create(ctx context.Context, req CreateOrderRequest) (*Order, error) {
	const route = "/api/orders"

	var order Order
	if err := s.client.do(ctx, request{
		method:    http.MethodPost,
		path:      route,
		body:      req,
		versioned: true,
		expect:    http.StatusCreated,
	}, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (s *orderService) Get(ctx context.Context, id string) (*Order, error) {
	const route = "/api/orders/"

	var order Order
	if err := s.client.do(ctx, request{
		method:    http.MethodGet,
		path:      route + url.PathEscape(id),
		versioned: true,
	}, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

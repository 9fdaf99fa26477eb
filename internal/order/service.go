// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package order

import (
	"context"
	"net/http"

	"github.com/taibuivan/storefront/internal/api"
	"github.com/taibuivan/storefront/internal/platform/constants"
)

// Service calls the /order endpoints.
type Service struct {
	auth api.Doer
}

// NewService wires the authenticated client.
func NewService(auth api.Doer) *Service {
	return &Service{auth: auth}
}

type listResponse struct {
	Orders []Order `json:"orders"`
}

type itemResponse struct {
	Order Order `json:"order"`
}

// Create checks out the current cart.
func (service *Service) Create(ctx context.Context) (*Order, error) {
	body, err := api.DecodeInto[itemResponse](ctx, service.auth, api.Request{
		Method: http.MethodPost,
		Path:   constants.PathOrder,
	})
	if err != nil {
		return nil, err
	}
	return &body.Order, nil
}

// Mine returns the signed-in user's orders.
func (service *Service) Mine(ctx context.Context) ([]Order, error) {
	return service.list(ctx, constants.PathOrderMy)
}

// All returns every order. Requires an administrator session.
func (service *Service) All(ctx context.Context) ([]Order, error) {
	return service.list(ctx, constants.PathOrderAll)
}

func (service *Service) list(ctx context.Context, path string) ([]Order, error) {
	body, err := api.DecodeInto[listResponse](ctx, service.auth, api.Request{
		Method: http.MethodGet,
		Path:   path,
	})
	if err != nil {
		return nil, err
	}
	return body.Orders, nil
}

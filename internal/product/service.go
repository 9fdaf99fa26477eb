// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package product

import (
	"context"
	"net/http"

	"github.com/taibuivan/storefront/internal/api"
	"github.com/taibuivan/storefront/internal/platform/constants"
	"github.com/taibuivan/storefront/internal/platform/validate"
)

// Service calls the /product endpoints.
type Service struct {
	public api.Doer
	auth   api.Doer
}

// NewService wires the unauthenticated and authenticated clients.
func NewService(public, auth api.Doer) *Service {
	return &Service{public: public, auth: auth}
}

type listResponse struct {
	Products []Product `json:"products"`
}

type itemResponse struct {
	Product Product `json:"product"`
}

// Create adds a product. Requires an administrator session.
func (service *Service) Create(ctx context.Context, input CreateInput) (*Product, error) {
	err := (&validate.Validator{}).
		Required(FieldName, input.Name).
		MaxLen(FieldName, input.Name, MaxNameLength).
		Range(FieldPrice, input.Price, 0, MaxPrice).
		Required(FieldDescription, input.Description).
		Required(FieldCategory, input.Category).
		Err()
	if err != nil {
		return nil, err
	}

	body, err := api.DecodeInto[itemResponse](ctx, service.auth, api.Request{
		Method: http.MethodPost,
		Path:   constants.PathProduct,
		Body:   input,
	})
	if err != nil {
		return nil, err
	}
	return &body.Product, nil
}

// ListAll returns every product, including unlisted ones. Requires an administrator session.
func (service *Service) ListAll(ctx context.Context) ([]Product, error) {
	body, err := api.DecodeInto[listResponse](ctx, service.auth, api.Request{
		Method: http.MethodGet,
		Path:   constants.PathProductAll,
	})
	if err != nil {
		return nil, err
	}
	return body.Products, nil
}

// List returns the products currently for sale. No credential is sent.
func (service *Service) List(ctx context.Context) ([]Product, error) {
	body, err := api.DecodeInto[listResponse](ctx, service.public, api.Request{
		Method: http.MethodGet,
		Path:   constants.PathProduct,
	})
	if err != nil {
		return nil, err
	}
	return body.Products, nil
}

// Get returns one product by ID, listed or not. No credential is sent.
func (service *Service) Get(ctx context.Context, id string) (*Product, error) {
	if err := (&validate.Validator{}).ID(FieldID, id).Err(); err != nil {
		return nil, err
	}

	body, err := api.DecodeInto[itemResponse](ctx, service.public, api.Request{
		Method: http.MethodGet,
		Path:   constants.PathProduct + "/" + id,
	})
	if err != nil {
		return nil, err
	}
	return &body.Product, nil
}

// Update patches a product. Requires an administrator session.
func (service *Service) Update(ctx context.Context, id string, input UpdateInput) (*Product, error) {
	v := (&validate.Validator{}).ID(FieldID, id)
	if input.Name != nil {
		v.Required(FieldName, *input.Name).MaxLen(FieldName, *input.Name, MaxNameLength)
	}
	if input.Price != nil {
		v.Range(FieldPrice, *input.Price, 0, MaxPrice)
	}
	if err := v.Err(); err != nil {
		return nil, err
	}

	body, err := api.DecodeInto[itemResponse](ctx, service.auth, api.Request{
		Method: http.MethodPatch,
		Path:   constants.PathProduct + "/" + id,
		Body:   input,
	})
	if err != nil {
		return nil, err
	}
	return &body.Product, nil
}

// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package user

import (
	"context"
	"net/http"

	"github.com/taibuivan/storefront/internal/api"
	"github.com/taibuivan/storefront/internal/platform/constants"
	"github.com/taibuivan/storefront/internal/platform/validate"
	"github.com/taibuivan/storefront/internal/session"
)

// Service calls the /user endpoints.
type Service struct {
	public api.Doer
	auth   api.Doer
}

// NewService wires the unauthenticated and authenticated clients.
func NewService(public, auth api.Doer) *Service {
	return &Service{public: public, auth: auth}
}

// userResponse wraps the user object of login, registration and profile responses.
type userResponse struct {
	Message string          `json:"message"`
	User    session.Payload `json:"user"`
}

type cartTotalResponse struct {
	CartTotal int `json:"cartTotal"`
}

type cartResponse struct {
	Cart []CartItem `json:"cart"`
}

/*
Register creates an account.

Returns:
  - error: validation failures before sending, or the backend's rejection
    (e.g. 409 when the account already exists)
*/
func (service *Service) Register(ctx context.Context, input RegisterInput) error {
	err := (&validate.Validator{}).
		Required(FieldAccount, input.Account).
		MinLen(FieldAccount, input.Account, MinAccountLength).
		MaxLen(FieldAccount, input.Account, MaxAccountLength).
		Email(FieldEmail, input.Email).
		MinLen(FieldPassword, input.Password, MinPasswordLength).
		MaxLen(FieldPassword, input.Password, MaxPasswordLength).
		Err()
	if err != nil {
		return err
	}

	_, err = api.Post(ctx, service.public, constants.PathUser, input)
	return err
}

// Login exchanges credentials for a session payload that includes a token.
func (service *Service) Login(ctx context.Context, input LoginInput) (*session.Payload, error) {
	err := (&validate.Validator{}).
		Required(FieldAccount, input.Account).
		Required(FieldPassword, input.Password).
		Err()
	if err != nil {
		return nil, err
	}

	body, err := api.DecodeInto[userResponse](ctx, service.public, api.Request{
		Method: http.MethodPost,
		Path:   constants.PathUserLogin,
		Body:   input,
	})
	if err != nil {
		return nil, err
	}
	return &body.User, nil
}

// Profile resolves the identity behind the current credential. The payload
// carries no token.
func (service *Service) Profile(ctx context.Context) (*session.Payload, error) {
	body, err := api.DecodeInto[userResponse](ctx, service.auth, api.Request{
		Method: http.MethodGet,
		Path:   constants.PathUserProfile,
	})
	if err != nil {
		return nil, err
	}
	return &body.User, nil
}

// Logout revokes the current credential on the backend.
func (service *Service) Logout(ctx context.Context) error {
	_, err := api.Delete(ctx, service.auth, constants.PathUserLogout)
	return err
}

// AddToCart changes the quantity of one product in the cart and returns the
// new cart total.
func (service *Service) AddToCart(ctx context.Context, input CartInput) (int, error) {
	err := (&validate.Validator{}).
		ID(FieldProduct, input.Product).
		Custom(FieldQuantity, input.Quantity == 0, "Must not be zero").
		Range(FieldQuantity, input.Quantity, -MaxCartDelta, MaxCartDelta).
		Err()
	if err != nil {
		return 0, err
	}

	body, err := api.DecodeInto[cartTotalResponse](ctx, service.auth, api.Request{
		Method: http.MethodPatch,
		Path:   constants.PathUserCart,
		Body:   input,
	})
	if err != nil {
		return 0, err
	}
	return body.CartTotal, nil
}

// Cart returns the signed-in user's cart.
func (service *Service) Cart(ctx context.Context) ([]CartItem, error) {
	body, err := api.DecodeInto[cartResponse](ctx, service.auth, api.Request{
		Method: http.MethodGet,
		Path:   constants.PathUserCart,
	})
	if err != nil {
		return nil, err
	}
	return body.Cart, nil
}

// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package user wraps the account endpoints of the storefront backend.

Registration and login are anonymous calls; profile resolution, logout and
the shopping cart require a credential and go through the authenticated client.
The package never mutates the session store itself: callers decide what to do
with the returned payloads.
*/
package user

import "github.com/taibuivan/storefront/internal/product"

// # Inputs

// RegisterInput is the body of POST /user.
type RegisterInput struct {
	Account  string `json:"account"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginInput is the body of POST /user/login.
type LoginInput struct {
	Account  string `json:"account"`
	Password string `json:"password"`
}

// CartInput is the body of PATCH /user/cart. Quantity is a delta; a negative
// value removes items.
type CartInput struct {
	Product  string `json:"product"`
	Quantity int    `json:"quantity"`
}

// CartItem is one line of the signed-in user's cart.
type CartItem struct {
	Product  product.Product `json:"product"`
	Quantity int             `json:"quantity"`
}

// # Field Identifiers

const (
	FieldAccount  = "account"
	FieldEmail    = "email"
	FieldPassword = "password"
	FieldProduct  = "product"
	FieldQuantity = "quantity"
)

// # Limits

const (
	MinAccountLength  = 4
	MaxAccountLength  = 20
	MinPasswordLength = 4
	MaxPasswordLength = 20
	MaxCartDelta      = 99
)

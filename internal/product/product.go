// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package product wraps the catalogue endpoints of the storefront backend.

Public reads (listing for-sale products, fetching one product) go through the
unauthenticated client; administration (create, update, list everything
including unlisted products) goes through the authenticated client.
*/
package product

import "time"

// # Domain Entities

// Product is one catalogue entry as returned by the backend.
type Product struct {
	ID          string    `json:"_id"`
	Name        string    `json:"name"`
	Price       int       `json:"price"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Sell        bool      `json:"sell"`
	Image       string    `json:"image,omitempty"`
	CreatedAt   time.Time `json:"createdAt,omitempty"`
	UpdatedAt   time.Time `json:"updatedAt,omitempty"`
}

// CreateInput is the body of POST /product.
type CreateInput struct {
	Name        string `json:"name"`
	Price       int    `json:"price"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Sell        bool   `json:"sell"`
	Image       string `json:"image,omitempty"`
}

// UpdateInput is the body of PATCH /product/{id}. Nil fields are left unchanged.
type UpdateInput struct {
	Name        *string `json:"name,omitempty"`
	Price       *int    `json:"price,omitempty"`
	Description *string `json:"description,omitempty"`
	Category    *string `json:"category,omitempty"`
	Sell        *bool   `json:"sell,omitempty"`
	Image       *string `json:"image,omitempty"`
}

// # Field Identifiers

const (
	FieldID          = "id"
	FieldName        = "name"
	FieldPrice       = "price"
	FieldDescription = "description"
	FieldCategory    = "category"
)

// # Limits

const (
	MaxNameLength = 100
	MaxPrice      = 1_000_000
)

// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package order wraps the checkout and order-history endpoints.

Every call requires a credential. Listing all orders additionally requires an
administrator session on the backend.
*/
package order

import (
	"time"

	"github.com/taibuivan/storefront/internal/product"
	"github.com/taibuivan/storefront/pkg/slice"
)

// Line is one product of an order.
type Line struct {
	Product  product.Product `json:"product"`
	Quantity int             `json:"quantity"`
}

// Buyer identifies who placed an order. Only populated on admin listings.
type Buyer struct {
	Account string `json:"account"`
}

// Order is a checked-out cart.
type Order struct {
	ID        string    `json:"_id"`
	User      *Buyer    `json:"user,omitempty"`
	Cart      []Line    `json:"cart"`
	CreatedAt time.Time `json:"createdAt"`
}

// Total sums price × quantity over every line.
func (o Order) Total() int {
	return slice.Reduce(o.Cart, 0, func(sum int, line Line) int {
		return sum + line.Product.Price*line.Quantity
	})
}

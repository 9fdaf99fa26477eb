// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package shoptest

import (
	"errors"
	"slices"
	"time"

	"github.com/taibuivan/storefront/internal/order"
	"github.com/taibuivan/storefront/internal/platform/sec"
	"github.com/taibuivan/storefront/internal/product"
	"github.com/taibuivan/storefront/internal/session"
	"github.com/taibuivan/storefront/pkg/slice"
	"github.com/taibuivan/storefront/pkg/uuid"
)

var errRevoked = errors.New("shoptest: credential revoked")

// account is a stored user.
type account struct {
	Account      string
	Email        string
	PasswordHash string
	Role         sec.UserRole
	Tokens       []string
	Cart         []cartLine
}

type cartLine struct {
	ProductID string
	Quantity  int
}

type storedOrder struct {
	Owner     string
	ID        string
	Lines     []order.Line
	CreatedAt time.Time
}

func (a *account) tokenIndex(token string) int {
	return slices.Index(a.Tokens, token)
}

func (a *account) cartTotal() int {
	return slice.Reduce(a.Cart, 0, func(sum int, line cartLine) int {
		return sum + line.Quantity
	})
}

// payload is the user object of login and profile responses.
func (a *account) payload(token string) session.Payload {
	return session.Payload{
		Account:   a.Account,
		CartTotal: a.cartTotal(),
		Role:      string(a.Role),
		Token:     token,
	}
}

func (b *Backend) issueLocked(acct *account) (string, error) {
	token, err := b.tokens.Issue(acct.Account, acct.Role, b.options.TokenTTL)
	if err != nil {
		return "", err
	}
	acct.Tokens = append(acct.Tokens, token)
	return token, nil
}

func (b *Backend) addProductLocked(input product.CreateInput) *product.Product {
	now := b.Now()
	item := &product.Product{
		ID:          uuid.New(),
		Name:        input.Name,
		Price:       input.Price,
		Description: input.Description,
		Category:    input.Category,
		Sell:        input.Sell,
		Image:       input.Image,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	b.catalog = append(b.catalog, item)
	return item
}

func (b *Backend) productLocked(id string) *product.Product {
	for _, item := range b.catalog {
		if item.ID == id {
			return item
		}
	}
	return nil
}

func (b *Backend) ordersLocked(owner string, withBuyer bool) []order.Order {
	out := make([]order.Order, 0)
	for _, stored := range b.orders {
		if owner != "" && stored.Owner != owner {
			continue
		}
		o := order.Order{ID: stored.ID, Cart: stored.Lines, CreatedAt: stored.CreatedAt}
		if withBuyer {
			o.User = &order.Buyer{Account: stored.Owner}
		}
		out = append(out, o)
	}
	return out
}

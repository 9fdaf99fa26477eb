// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package shoptest

import (
	"net/http"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/taibuivan/storefront/internal/order"
	"github.com/taibuivan/storefront/internal/platform/apperr"
	"github.com/taibuivan/storefront/internal/platform/constants"
	"github.com/taibuivan/storefront/internal/platform/respond"
	"github.com/taibuivan/storefront/internal/platform/sec"
	"github.com/taibuivan/storefront/internal/platform/validate"
	"github.com/taibuivan/storefront/internal/product"
	"github.com/taibuivan/storefront/internal/user"
	"github.com/taibuivan/storefront/pkg/pointer"
	"github.com/taibuivan/storefront/pkg/slice"
	"github.com/taibuivan/storefront/pkg/uuid"

	requestutil "github.com/taibuivan/storefront/internal/platform/request"
)

// # Errors

var (
	errDuplicateAccount  = apperr.HTTPError(http.StatusConflict, "帳號已註冊")
	errBadCredentials    = apperr.HTTPError(http.StatusUnauthorized, "帳號密碼錯誤")
	errProductNotFound   = apperr.HTTPError(http.StatusNotFound, "找不到商品")
	errProductNotForSale = apperr.HTTPError(http.StatusBadRequest, "商品未上架")
	errEmptyCart         = apperr.HTTPError(http.StatusBadRequest, "購物車是空的")
)

// # Accounts

func (b *Backend) register(writer http.ResponseWriter, request *http.Request) {
	var input user.RegisterInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	err := (&validate.Validator{}).
		Required(user.FieldAccount, input.Account).
		Email(user.FieldEmail, input.Email).
		Required(user.FieldPassword, input.Password).
		Err()
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	hash, err := sec.HashPassword(input.Password, bcrypt.MinCost)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	key := sec.NormalizeAccount(input.Account)
	if _, taken := b.accounts[key]; taken {
		respond.Error(writer, request, errDuplicateAccount)
		return
	}
	b.accounts[key] = &account{
		Account:      input.Account,
		Email:        input.Email,
		PasswordHash: hash,
		Role:         sec.RoleUser,
	}

	respond.OK(writer, nil)
}

func (b *Backend) login(writer http.ResponseWriter, request *http.Request) {
	var input user.LoginInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	acct, found := b.accounts[sec.NormalizeAccount(input.Account)]
	if !found || !sec.CheckPasswordHash(input.Password, acct.PasswordHash) {
		respond.Error(writer, request, errBadCredentials)
		return
	}

	token, err := b.issueLocked(acct)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, respond.Body{constants.FieldUser: acct.payload(token)})
}

// refresh renews a credential that is valid or expired within the refresh window.
func (b *Backend) refresh(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if claims.ExpiresAt != nil && b.Now().After(claims.ExpiresAt.Add(b.options.RefreshWindow)) {
		respond.Expired(writer)
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	acct, found := b.accounts[sec.NormalizeAccount(claims.Account)]
	if !found {
		respond.Error(writer, request, errBadCredentials)
		return
	}

	token, err := b.issueLocked(acct)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	// The renewed credential replaces the presented one
	if index := acct.tokenIndex(bearerOf(request)); index >= 0 {
		acct.Tokens = append(acct.Tokens[:index], acct.Tokens[index+1:]...)
	}

	respond.OK(writer, respond.Body{constants.FieldToken: token})
}

func (b *Backend) profile(writer http.ResponseWriter, request *http.Request) {
	b.withAccount(writer, request, func(acct *account) {
		respond.OK(writer, respond.Body{constants.FieldUser: acct.payload("")})
	})
}

func (b *Backend) logout(writer http.ResponseWriter, request *http.Request) {
	b.withAccount(writer, request, func(acct *account) {
		if index := acct.tokenIndex(bearerOf(request)); index >= 0 {
			acct.Tokens = append(acct.Tokens[:index], acct.Tokens[index+1:]...)
		}
		respond.OK(writer, nil)
	})
}

// # Cart

func (b *Backend) updateCart(writer http.ResponseWriter, request *http.Request) {
	var input user.CartInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	b.withAccount(writer, request, func(acct *account) {
		item := b.productLocked(input.Product)
		if item == nil {
			respond.Error(writer, request, errProductNotFound)
			return
		}

		index := -1
		for i, line := range acct.Cart {
			if line.ProductID == item.ID {
				index = i
				break
			}
		}

		switch {
		case index < 0 && input.Quantity > 0:
			if !item.Sell {
				respond.Error(writer, request, errProductNotForSale)
				return
			}
			acct.Cart = append(acct.Cart, cartLine{ProductID: item.ID, Quantity: input.Quantity})
		case index >= 0:
			acct.Cart[index].Quantity += input.Quantity
			if acct.Cart[index].Quantity <= 0 {
				acct.Cart = append(acct.Cart[:index], acct.Cart[index+1:]...)
			}
		}

		respond.OK(writer, respond.Body{"cartTotal": acct.cartTotal()})
	})
}

func (b *Backend) cart(writer http.ResponseWriter, request *http.Request) {
	b.withAccount(writer, request, func(acct *account) {
		respond.OK(writer, respond.Body{"cart": b.cartItemsLocked(acct)})
	})
}

func (b *Backend) cartItemsLocked(acct *account) []user.CartItem {
	return slice.Map(acct.Cart, func(line cartLine) user.CartItem {
		item := pointer.Val(b.productLocked(line.ProductID))
		return user.CartItem{Product: item, Quantity: line.Quantity}
	})
}

// # Catalogue

func (b *Backend) createProduct(writer http.ResponseWriter, request *http.Request) {
	var input product.CreateInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	err := (&validate.Validator{}).
		Required(product.FieldName, input.Name).
		Range(product.FieldPrice, input.Price, 0, product.MaxPrice).
		Required(product.FieldCategory, input.Category).
		Err()
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	respond.OK(writer, respond.Body{"product": b.addProductLocked(input)})
}

func (b *Backend) listAllProducts(writer http.ResponseWriter, request *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	respond.OK(writer, respond.Body{"products": b.productsLocked(func(*product.Product) bool { return true })})
}

func (b *Backend) listProducts(writer http.ResponseWriter, request *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	respond.OK(writer, respond.Body{"products": b.productsLocked(func(item *product.Product) bool { return item.Sell })})
}

func (b *Backend) productsLocked(keep func(*product.Product) bool) []product.Product {
	return slice.Map(slice.Filter(b.catalog, keep), func(item *product.Product) product.Product {
		return *item
	})
}

func (b *Backend) getProduct(writer http.ResponseWriter, request *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()

	item := b.productLocked(requestutil.ID(request, "id"))
	if item == nil {
		respond.Error(writer, request, errProductNotFound)
		return
	}
	respond.OK(writer, respond.Body{"product": item})
}

func (b *Backend) updateProduct(writer http.ResponseWriter, request *http.Request) {
	var input product.UpdateInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	item := b.productLocked(requestutil.ID(request, "id"))
	if item == nil {
		respond.Error(writer, request, errProductNotFound)
		return
	}

	item.Name = pointer.Fallback(input.Name, item.Name)
	item.Price = pointer.Fallback(input.Price, item.Price)
	item.Description = pointer.Fallback(input.Description, item.Description)
	item.Category = pointer.Fallback(input.Category, item.Category)
	item.Sell = pointer.Fallback(input.Sell, item.Sell)
	item.Image = pointer.Fallback(input.Image, item.Image)
	item.UpdatedAt = b.Now()

	respond.OK(writer, respond.Body{"product": item})
}

// # Orders

func (b *Backend) createOrder(writer http.ResponseWriter, request *http.Request) {
	b.withAccount(writer, request, func(acct *account) {
		if len(acct.Cart) == 0 {
			respond.Error(writer, request, errEmptyCart)
			return
		}

		lines := make([]order.Line, 0, len(acct.Cart))
		for _, line := range acct.Cart {
			item := b.productLocked(line.ProductID)
			if item == nil || !item.Sell {
				respond.Error(writer, request, errProductNotForSale)
				return
			}
			lines = append(lines, order.Line{Product: *item, Quantity: line.Quantity})
		}

		stored := &storedOrder{
			Owner:     acct.Account,
			ID:        uuid.New(),
			Lines:     lines,
			CreatedAt: b.Now().Truncate(time.Millisecond),
		}
		b.orders = append(b.orders, stored)
		acct.Cart = nil

		respond.OK(writer, respond.Body{"order": order.Order{ID: stored.ID, Cart: stored.Lines, CreatedAt: stored.CreatedAt}})
	})
}

func (b *Backend) myOrders(writer http.ResponseWriter, request *http.Request) {
	b.withAccount(writer, request, func(acct *account) {
		respond.OK(writer, respond.Body{"orders": b.ordersLocked(acct.Account, false)})
	})
}

func (b *Backend) allOrders(writer http.ResponseWriter, request *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	respond.OK(writer, respond.Body{"orders": b.ordersLocked("", true)})
}

// # Handler Helpers

// withAccount runs fn with the caller's account while holding the backend lock.
func (b *Backend) withAccount(writer http.ResponseWriter, request *http.Request, fn func(*account)) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	acct, found := b.accounts[sec.NormalizeAccount(claims.Account)]
	if !found {
		respond.Error(writer, request, errBadCredentials)
		return
	}
	fn(acct)
}

func bearerOf(request *http.Request) string {
	_, token, _ := strings.Cut(request.Header.Get(constants.HeaderAuthorization), " ")
	return strings.TrimSpace(token)
}

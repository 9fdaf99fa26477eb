// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package main

import (
	"context"
	"fmt"
	"net/url"

	"github.com/taibuivan/storefront/internal/platform/apperr"
	"github.com/taibuivan/storefront/internal/router"
	"github.com/taibuivan/storefront/internal/user"
	"github.com/taibuivan/storefront/pkg/slice"
)

// routes is the default page table with the CLI's load hooks attached.
func (a *app) routes() []router.Route {
	loaders := map[string]router.LoadFunc{
		"/":               a.loadHome,
		"/product/{id}":   a.loadProduct,
		"/cart":           a.loadCart,
		"/orders":         a.loadOrders,
		"/admin/products": a.loadAdminProducts,
		"/admin/orders":   a.loadAdminOrders,
	}

	routes := router.DefaultRoutes()
	for i := range routes {
		routes[i].Load = loaders[routes[i].Path]
	}
	return routes
}

// pageError turns a transport failure into a module-load failure, so that a
// page whose data could not be fetched gets the one-shot reload.
func pageError(err error) error {
	if apperr.IsNetwork(err) {
		return router.ModuleLoadError(err)
	}
	return err
}

func (a *app) loadHome(ctx context.Context, _ router.Match) error {
	products, err := a.catalog.List(ctx)
	if err != nil {
		return pageError(err)
	}
	a.page = products
	return nil
}

func (a *app) loadProduct(ctx context.Context, match router.Match) error {
	item, err := a.catalog.Get(ctx, match.Params["id"])
	if err != nil {
		return pageError(err)
	}
	a.page = item
	return nil
}

func (a *app) loadCart(ctx context.Context, _ router.Match) error {
	cart, err := a.users.Cart(ctx)
	if err != nil {
		return pageError(err)
	}

	a.store.SetCartTotal(ctx, slice.Reduce(cart, 0, func(sum int, item user.CartItem) int {
		return sum + item.Quantity
	}))
	a.page = cart
	return nil
}

func (a *app) loadOrders(ctx context.Context, _ router.Match) error {
	orders, err := a.orders.Mine(ctx)
	if err != nil {
		return pageError(err)
	}
	a.page = orders
	return nil
}

func (a *app) loadAdminProducts(ctx context.Context, _ router.Match) error {
	products, err := a.catalog.ListAll(ctx)
	if err != nil {
		return pageError(err)
	}
	a.page = products
	return nil
}

func (a *app) loadAdminOrders(ctx context.Context, _ router.Match) error {
	orders, err := a.orders.All(ctx)
	if err != nil {
		return pageError(err)
	}
	a.page = orders
	return nil
}

// # Page Entry

// redirectedError reports that the gate sent a command somewhere else.
type redirectedError struct {
	Requested string
	To        string
}

func (e *redirectedError) Error() string {
	switch e.To {
	case router.PathLogin:
		return fmt.Sprintf("%s requires signing in (redirected to %s)", e.Requested, e.To)
	default:
		return fmt.Sprintf("%s is not available to this session (redirected to %s)", e.Requested, e.To)
	}
}

// enter navigates to path and fails unless the navigation settled there.
func (a *app) enter(ctx context.Context, path string) (*router.Navigation, error) {
	nav, err := a.visit(ctx, path)
	if err != nil {
		return nil, err
	}

	requested := path
	if parsed, err := url.Parse(path); err == nil {
		requested = parsed.Path
	}
	if nav.To() != requested {
		return nav, &redirectedError{Requested: requested, To: nav.To()}
	}
	return nav, nil
}

// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package main

import (
	"errors"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/taibuivan/storefront/internal/platform/constants"
	"github.com/taibuivan/storefront/internal/platform/sec"
	"github.com/taibuivan/storefront/internal/platform/validate"
	"github.com/taibuivan/storefront/internal/product"
	"github.com/taibuivan/storefront/internal/user"
	"github.com/taibuivan/storefront/pkg/convert"
	"github.com/taibuivan/storefront/pkg/pointer"
)

var errSignInRequired = errors.New("sign in first")

// newRootCommand builds the command tree over a wired application.
func newRootCommand(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "shop",
		Short:         "Command-line storefront",
		Version:       constants.AppVersion,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newVisitCommand(a),
		newRegisterCommand(a),
		newLoginCommand(a),
		newLogoutCommand(a),
		newWhoamiCommand(a),
		newProductsCommand(a),
		newProductCommand(a),
		newCartCommand(a),
		newCartAddCommand(a),
		newCheckoutCommand(a),
		newOrdersCommand(a),
		newAdminProductsCommand(a),
		newAdminOrdersCommand(a),
		newProductCreateCommand(a),
		newProductUpdateCommand(a),
	)

	return root
}

// # Navigation

// navigationView is the printed form of a navigation.
type navigationView struct {
	From      string   `json:"from"`
	To        string   `json:"to"`
	Redirects []string `json:"redirects,omitempty"`
	Title     string   `json:"title"`
	Page      any      `json:"page,omitempty"`
}

func newVisitCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "visit <path>",
		Short: "Navigate to a page and print where the guard settled",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			nav, err := a.visit(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.print(navigationView{
				From:      nav.From,
				To:        nav.To(),
				Redirects: nav.Redirects,
				Title:     nav.Title,
				Page:      a.page,
			})
		},
	}
}

// pageCommand prints the data loaded by the page at path.
func pageCommand(a *app, use, short, path string) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := a.enter(cmd.Context(), path); err != nil {
				return err
			}
			return a.print(a.page)
		},
	}
}

func newProductsCommand(a *app) *cobra.Command {
	return pageCommand(a, "products", "List products for sale", "/")
}

func newCartCommand(a *app) *cobra.Command {
	return pageCommand(a, "cart", "Show the cart", "/cart")
}

func newOrdersCommand(a *app) *cobra.Command {
	return pageCommand(a, "orders", "List my orders", "/orders")
}

func newAdminProductsCommand(a *app) *cobra.Command {
	return pageCommand(a, "admin-products", "List every product, including unlisted ones", "/admin/products")
}

func newAdminOrdersCommand(a *app) *cobra.Command {
	return pageCommand(a, "admin-orders", "List every order", "/admin/orders")
}

func newProductCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "product <id>",
		Short: "Show one product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := a.enter(cmd.Context(), "/product/"+args[0]); err != nil {
				return err
			}
			return a.print(a.page)
		},
	}
}

// # Account

func newRegisterCommand(a *app) *cobra.Command {
	var input user.RegisterInput

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := a.enter(cmd.Context(), "/register"); err != nil {
				return err
			}
			if err := a.users.Register(cmd.Context(), input); err != nil {
				return err
			}
			return a.print(map[string]string{constants.FieldMessage: "registered", "account": input.Account})
		},
	}

	cmd.Flags().StringVar(&input.Account, "account", "", "account name")
	cmd.Flags().StringVar(&input.Email, "email", "", "email address")
	cmd.Flags().StringVar(&input.Password, "password", "", "password")
	return cmd
}

func newLoginCommand(a *app) *cobra.Command {
	var input user.LoginInput

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and keep the credential",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := a.enter(cmd.Context(), "/login"); err != nil {
				return err
			}

			payload, err := a.users.Login(cmd.Context(), input)
			if err != nil {
				return err
			}
			a.store.Login(cmd.Context(), *payload)

			return a.print(a.identity())
		},
	}

	cmd.Flags().StringVar(&input.Account, "account", "", "account name")
	cmd.Flags().StringVar(&input.Password, "password", "", "password")
	return cmd
}

func newLogoutCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Revoke the credential and forget the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if a.store.IsAuthenticated() {
				if err := a.users.Logout(cmd.Context()); err != nil {
					a.log.Warn("remote_logout_failed", slog.Any("error", err))
				}
			}
			a.store.Logout(cmd.Context())
			return a.print(a.identity())
		},
	}
}

// identityView is the printed form of the session. The credential itself is
// never printed.
type identityView struct {
	Account        string     `json:"account"`
	CartTotal      int        `json:"cartTotal"`
	Role           string     `json:"role"`
	Authenticated  bool       `json:"authenticated"`
	Admin          bool       `json:"admin"`
	TokenExpiresAt *time.Time `json:"tokenExpiresAt,omitempty"`
}

func (a *app) identity() identityView {
	current := a.store.Snapshot()
	view := identityView{
		Account:       current.Account,
		CartTotal:     current.CartTotal,
		Role:          string(current.Role),
		Authenticated: current.IsAuthenticated(),
		Admin:         current.IsPrivileged(),
	}
	if expiresAt, ok := sec.PeekExpiry(current.Token); ok {
		view.TokenExpiresAt = pointer.To(expiresAt.UTC())
	}
	return view
}

func newWhoamiCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Resolve and print the current identity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := a.visit(cmd.Context(), "/"); err != nil {
				return err
			}
			return a.print(a.identity())
		},
	}
}

// # Cart & Orders

func newCartAddCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "cart-add <product-id> <quantity>",
		Short: "Change the quantity of a product in the cart (negative removes)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if _, err := a.enter(ctx, "/product/"+args[0]); err != nil {
				return err
			}
			if !a.store.IsAuthenticated() {
				return errSignInRequired
			}

			total, err := a.users.AddToCart(ctx, user.CartInput{Product: args[0], Quantity: convert.ToInt(args[1])})
			if err != nil {
				return err
			}
			a.store.SetCartTotal(ctx, total)

			return a.print(map[string]int{"cartTotal": total})
		},
	}
}

// checkoutView is the printed form of a new order.
type checkoutView struct {
	ID    string `json:"_id"`
	Total int    `json:"total"`
	Lines int    `json:"lines"`
}

func newCheckoutCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "checkout",
		Short: "Turn the cart into an order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if _, err := a.enter(ctx, "/cart"); err != nil {
				return err
			}

			created, err := a.orders.Create(ctx)
			if err != nil {
				return err
			}
			a.store.SetCartTotal(ctx, 0)

			return a.print(checkoutView{ID: created.ID, Total: created.Total(), Lines: len(created.Cart)})
		},
	}
}

// # Catalogue Administration

func newProductCreateCommand(a *app) *cobra.Command {
	var input product.CreateInput

	cmd := &cobra.Command{
		Use:   "product-create",
		Short: "Add a product to the catalogue",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := a.enter(cmd.Context(), "/admin/products"); err != nil {
				return err
			}
			created, err := a.catalog.Create(cmd.Context(), input)
			if err != nil {
				return err
			}
			return a.print(created)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&input.Name, "name", "", "product name")
	flags.IntVar(&input.Price, "price", 0, "price")
	flags.StringVar(&input.Description, "description", "", "description")
	flags.StringVar(&input.Category, "category", "", "category")
	flags.BoolVar(&input.Sell, "sell", false, "list the product for sale")
	flags.StringVar(&input.Image, "image", "", "image URL")
	return cmd
}

func newProductUpdateCommand(a *app) *cobra.Command {
	var (
		name, description, category, image string
		price                              int
		sell                               bool
	)

	cmd := &cobra.Command{
		Use:   "product-update <id>",
		Short: "Change fields of a product; only flags given are sent",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()

			var input product.UpdateInput
			if flags.Changed("name") {
				input.Name = pointer.To(name)
			}
			if flags.Changed("price") {
				input.Price = pointer.To(price)
			}
			if flags.Changed("description") {
				input.Description = pointer.To(description)
			}
			if flags.Changed("category") {
				input.Category = pointer.To(category)
			}
			if flags.Changed("sell") {
				input.Sell = pointer.To(sell)
			}
			if flags.Changed("image") {
				input.Image = pointer.To(image)
			}
			if input == (product.UpdateInput{}) {
				return validate.RequiredError("flags", "At least one field flag is required")
			}

			if _, err := a.enter(cmd.Context(), "/admin/products"); err != nil {
				return err
			}
			updated, err := a.catalog.Update(cmd.Context(), args[0], input)
			if err != nil {
				return err
			}
			return a.print(updated)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&name, "name", "", "product name")
	flags.IntVar(&price, "price", 0, "price")
	flags.StringVar(&description, "description", "", "description")
	flags.StringVar(&category, "category", "", "category")
	flags.BoolVar(&sell, "sell", false, "list the product for sale")
	flags.StringVar(&image, "image", "", "image URL")
	return cmd
}

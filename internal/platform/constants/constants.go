// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package constants provides centralized, immutable values for the entire client.

It defines the backend contract (paths, sentinel messages), the durable storage
keys and the header names shared between the HTTP clients, the session store
and the navigation guard.

Categories:

  - Metadata: Application name and version.
  - Backend Contract: Endpoint paths and the credential-expiry sentinel.
  - Durable State: Storage keys for the persisted credential and reload flag.
  - Headers: Outgoing header names.

Using this package ensures Magic Strings are eliminated from the business logic.
*/
package constants

import "time"

// # Metadata

const (
	AppName    = "storefront"
	AppVersion = "0.1.0-dev"
)

// # Backend Contract

const (
	// DefaultAPIURL is used when API_URL is unset.
	DefaultAPIURL = "http://localhost:4000"

	// ExpirySentinel is the exact message the backend returns (with HTTP 400)
	// when the bearer credential has expired and may be refreshed.
	ExpirySentinel = "token 已過期"

	// PathRefresh is the credential refresh endpoint. Requests to it never
	// trigger a refresh cycle of their own.
	PathRefresh = "/user/refresh"
)

// User endpoints.
const (
	PathUser        = "/user"
	PathUserLogin   = "/user/login"
	PathUserProfile = "/user/profile"
	PathUserLogout  = "/user/logout"
	PathUserCart    = "/user/cart"
)

// Product endpoints.
const (
	PathProduct    = "/product"
	PathProductAll = "/product/all"
)

// Order endpoints.
const (
	PathOrder    = "/order"
	PathOrderMy  = "/order/my"
	PathOrderAll = "/order/all"
)

// # Durable State

const (
	// StorageKeyUser holds the persisted subset of the session ({"token": ...}).
	StorageKeyUser = "shop-user"

	// StorageKeyReloadFlag holds the one-shot reload recovery flag.
	StorageKeyReloadFlag = "shop:dynamic-reload"

	// DefaultStateFile is where the file backend keeps durable state.
	DefaultStateFile = "./data/shop-state.json"

	// DefaultStatePrefix namespaces keys in the redis backend.
	DefaultStatePrefix = "storefront:"
)

// # Navigation

const (
	// DefaultSiteName is appended to every page title.
	DefaultSiteName = "購物網站"

	// MaxRedirects bounds guard redirect chains.
	MaxRedirects = 5
)

// # Headers

const (
	HeaderAuthorization = "Authorization"
	HeaderContentType   = "Content-Type"
	HeaderXRequestID    = "X-Request-ID"

	ContentTypeJSON = "application/json"
)

// # Timing

const (
	// StartupTimeout bounds the CLI's storage connection and bootstrap work.
	StartupTimeout = 30 * time.Second
)

// # JSON Field Identifiers

const (
	FieldMessage = "message"
	FieldToken   = "token"
	FieldUser    = "user"
)

// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package requestutil provides utilities for extracting data from HTTP requests
on the storefront backend double.

It abstracts away the underlying router's parameter extraction and common
body decoding patterns, ensuring consistent error handling.
*/
package requestutil

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/storefront/internal/platform/apperr"
	"github.com/taibuivan/storefront/internal/platform/ctxutil"
	"github.com/taibuivan/storefront/internal/platform/sec"
)

// ErrInvalidJSON is returned when a request body is not valid JSON.
var ErrInvalidJSON = apperr.HTTPError(http.StatusBadRequest, "資料格式錯誤")

/*
DecodeJSON reads the request body and decodes it into the target structure.

Returns:
  - error: [ErrInvalidJSON] if decoding fails, otherwise nil
*/
func DecodeJSON(request *http.Request, target interface{}) error {
	if err := json.NewDecoder(request.Body).Decode(target); err != nil {
		return ErrInvalidJSON
	}
	return nil
}

/*
ID retrieves a named URL parameter from the request.
*/
func ID(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

/*
RequiredClaims ensures the request is authenticated and returns its claims.

Returns:
  - *sec.Claims: The verified credential claims
  - error: a 401 error if the request is anonymous
*/
func RequiredClaims(request *http.Request) (*sec.Claims, error) {
	claims := ctxutil.GetClaims(request.Context())
	if claims == nil {
		return nil, apperr.HTTPError(http.StatusUnauthorized, "未登入")
	}
	return claims, nil
}

// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package apperr defines the centralized error taxonomy for the storefront client.

It classifies every failure that can leave the HTTP clients or the service
wrappers so that callers (the CLI, the navigation guard) can branch on the kind
of failure instead of string-matching messages.

Architecture:

  - AppError: A struct carrying the failure Kind, the backend message and the
    request that produced it.
  - Kinds: Network (no response), AuthExpiry (refresh-eligible response),
    HTTP (any other response), Validation (rejected before sending).
  - Mapping: [FromResponse] turns a raw backend response into an [AppError].

Persistence problems never become an [AppError]; the session store logs and
swallows them.
*/
package apperr

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/taibuivan/storefront/internal/platform/constants"
)

// # Kinds

// Kind classifies an [AppError].
type Kind string

const (
	// KindNetwork means no response was received. Never retried.
	KindNetwork Kind = "network"

	// KindAuthExpiry means the backend answered 400 with the expiry sentinel.
	KindAuthExpiry Kind = "auth_expiry"

	// KindHTTP covers every other non-2xx response.
	KindHTTP Kind = "http"

	// KindValidation means the input was rejected before any request was sent.
	KindValidation Kind = "validation"
)

// AppError is the canonical error type of the storefront client.
//
// # Identity
//
// Method and Path identify the request that failed. Body keeps the raw
// response payload for callers that need more than the message.
type AppError struct {
	// Kind classifies the failure.
	Kind Kind `json:"kind"`
	// Code is a machine-readable error identifier (e.g. "NETWORK", "HTTP_404").
	Code string `json:"code"`
	// Message is the backend's message field, or a description for local failures.
	Message string `json:"message"`
	// HTTPStatus is the response status code, zero for network and validation failures.
	HTTPStatus int `json:"status,omitempty"`
	// Method and Path of the failing request.
	Method string `json:"method,omitempty"`
	Path   string `json:"path,omitempty"`
	// Body is the raw response body.
	Body []byte `json:"-"`
	// Cause is the underlying error (transport failure, decode failure).
	Cause error `json:"-"`
	// Details holds per-field validation errors for KindValidation.
	Details []FieldError `json:"details,omitempty"`
}

// FieldError represents a single field-level validation failure.
type FieldError struct {
	// Field is the input field name that failed validation.
	Field string `json:"field"`
	// Message is the human-readable description of the failure.
	Message string `json:"message"`
}

// Error implements the error interface.
func (e *AppError) Error() string {
	switch e.Kind {
	case KindNetwork:
		return fmt.Sprintf("%s %s: network error: %v", e.Method, e.Path, e.Cause)
	case KindValidation:
		return e.Message
	default:
		return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.HTTPStatus, e.Message)
	}
}

// Unwrap allows [errors.Is] and [errors.As] to traverse the cause chain.
func (e *AppError) Unwrap() error { return e.Cause }

// # Constructors

// Network creates a [KindNetwork] error for a request that received no response.
func Network(method, path string, cause error) *AppError {
	return &AppError{
		Kind:    KindNetwork,
		Code:    "NETWORK",
		Message: "no response from server",
		Method:  method,
		Path:    path,
		Cause:   cause,
	}
}

// messageBody is the backend's error envelope.
type messageBody struct {
	Message string `json:"message"`
}

// FromResponse classifies a non-2xx response.
//
// The response is [KindAuthExpiry] only when the status is 400 AND the body's
// message field equals [constants.ExpirySentinel] exactly. Any other shape,
// including an undecodable body, is [KindHTTP].
func FromResponse(method, path string, status int, body []byte) *AppError {
	appError := &AppError{
		Kind:       KindHTTP,
		Code:       fmt.Sprintf("HTTP_%d", status),
		Message:    http.StatusText(status),
		HTTPStatus: status,
		Method:     method,
		Path:       path,
		Body:       body,
	}

	var decoded messageBody
	if err := json.Unmarshal(body, &decoded); err == nil && decoded.Message != "" {
		appError.Message = decoded.Message
	}

	if status == http.StatusBadRequest && decoded.Message == constants.ExpirySentinel {
		appError.Kind = KindAuthExpiry
		appError.Code = "AUTH_EXPIRED"
	}

	return appError
}

// ValidationError creates a [KindValidation] error with optional per-field details.
func ValidationError(msg string, details ...FieldError) *AppError {
	return &AppError{
		Kind:    KindValidation,
		Code:    "VALIDATION_ERROR",
		Message: msg,
		Details: details,
	}
}

// HTTPError creates a [KindHTTP] error carrying status and message. The test
// backend uses it to describe the response it is about to write.
func HTTPError(status int, message string) *AppError {
	return &AppError{
		Kind:       KindHTTP,
		Code:       fmt.Sprintf("HTTP_%d", status),
		Message:    message,
		HTTPStatus: status,
	}
}

// Decode wraps a response body that could not be decoded.
func Decode(method, path string, status int, cause error) *AppError {
	return &AppError{
		Kind:       KindHTTP,
		Code:       "DECODE_ERROR",
		Message:    "unexpected response body",
		HTTPStatus: status,
		Method:     method,
		Path:       path,
		Cause:      cause,
	}
}

// # Helpers

// IsAppError reports whether err (or any error in its chain) is an [*AppError].
func IsAppError(err error) bool {
	var ae *AppError
	return errors.As(err, &ae)
}

// As extracts the [*AppError] from err's chain. It returns nil if not found.
func As(err error) *AppError {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae
	}
	return nil
}

// IsNetwork reports whether err is a transport failure without a response.
func IsNetwork(err error) bool {
	ae := As(err)
	return ae != nil && ae.Kind == KindNetwork
}

// IsAuthExpiry reports whether err is a refresh-eligible expiry response.
func IsAuthExpiry(err error) bool {
	ae := As(err)
	return ae != nil && ae.Kind == KindAuthExpiry
}

// Status returns the HTTP status carried by err, or zero.
func Status(err error) int {
	if ae := As(err); ae != nil {
		return ae.HTTPStatus
	}
	return 0
}

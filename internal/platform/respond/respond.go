// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package respond provides HTTP response helpers for the storefront backend double.
//
// # Architecture
//
// Every response follows the storefront wire shape: the payload object sits at
// the top level next to a "message" field, and failures carry only
// {"message": ...}. The expiry sentinel is written through [Expired] so the
// exact bytes the clients classify on live in one place.
package respond

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/taibuivan/storefront/internal/platform/apperr"
	"github.com/taibuivan/storefront/internal/platform/constants"
	"github.com/taibuivan/storefront/internal/platform/ctxutil"
)

// Body is a top-level JSON object.
type Body map[string]any

// JSON writes a JSON response with the given status code.
func JSON(writer http.ResponseWriter, statusCode int, payload interface{}) {
	writer.Header().Set(constants.HeaderContentType, constants.ContentTypeJSON+"; charset=utf-8")
	writer.WriteHeader(statusCode)
	_ = json.NewEncoder(writer).Encode(payload)
}

// OK writes a 200 response with an empty message next to the payload fields.
func OK(writer http.ResponseWriter, payload Body) {
	body := Body{constants.FieldMessage: ""}
	for key, value := range payload {
		body[key] = value
	}
	JSON(writer, http.StatusOK, body)
}

// Message writes {"message": message} with the given status.
func Message(writer http.ResponseWriter, statusCode int, message string) {
	JSON(writer, statusCode, Body{constants.FieldMessage: message})
}

// Expired writes the refresh-eligible expiry response.
func Expired(writer http.ResponseWriter) {
	Message(writer, http.StatusBadRequest, constants.ExpirySentinel)
}

// Error converts any Go error into a {"message"} response.
//
// An [*apperr.AppError] keeps its status and message; for validation errors
// the first field message is used. Anything else is logged and answered 500.
func Error(writer http.ResponseWriter, request *http.Request, err error) {
	var appError *apperr.AppError
	if !errors.As(err, &appError) {
		ctxutil.GetLogger(request.Context()).ErrorContext(request.Context(), "unhandled_error_swallowed",
			slog.String("error", err.Error()),
			slog.String("request_id", ctxutil.GetRequestID(request.Context())),
		)
		Message(writer, http.StatusInternalServerError, "未知錯誤")
		return
	}

	status := appError.HTTPStatus
	message := appError.Message
	if appError.Kind == apperr.KindValidation {
		status = http.StatusBadRequest
		if len(appError.Details) > 0 {
			message = appError.Details[0].Field + ": " + appError.Details[0].Message
		}
	}
	if status == 0 {
		status = http.StatusInternalServerError
	}

	Message(writer, status, message)
}

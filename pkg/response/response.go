// Package response writes the API's JSON envelope.
//
// Every endpoint answers with the same shape:
//
//	{"success": true,  "data": {...}, "count": 3}
//	{"success": false, "message": "Cart is empty"}
//
// FromError is the single place where service errors become HTTP statuses.
package response

import (
	"encoding/json"
	"net/http"

	"github.com/storefront/backend/pkg/apperr"
	"github.com/storefront/backend/pkg/logger"
)

type envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
	Count   *int        `json:"count,omitempty"`
	Errors  interface{} `json:"errors,omitempty"`
}

func write(w http.ResponseWriter, status int, body envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body) //nolint:errcheck
}

// Success sends a 200 response with data.
func Success(w http.ResponseWriter, data interface{}) {
	write(w, http.StatusOK, envelope{Success: true, Data: data})
}

// SuccessMessage sends a 200 response with data and a message.
func SuccessMessage(w http.ResponseWriter, message string, data interface{}) {
	write(w, http.StatusOK, envelope{Success: true, Message: message, Data: data})
}

// Created sends a 201 response with data.
func Created(w http.ResponseWriter, data interface{}) {
	write(w, http.StatusCreated, envelope{Success: true, Data: data})
}

// List sends a 200 response with data and its element count.
func List(w http.ResponseWriter, data interface{}, count int) {
	write(w, http.StatusOK, envelope{Success: true, Data: data, Count: &count})
}

// Message sends a 200 response with only a message.
func Message(w http.ResponseWriter, message string) {
	write(w, http.StatusOK, envelope{Success: true, Message: message})
}

// Error sends an error response with an explicit status.
func Error(w http.ResponseWriter, status int, message string) {
	write(w, status, envelope{Success: false, Message: message})
}

// ValidationError sends a 400 with a field-level error map.
func ValidationError(w http.ResponseWriter, errs map[string]string) {
	write(w, http.StatusBadRequest, envelope{
		Success: false,
		Message: "Validation failed",
		Errors:  errs,
	})
}

// FromError maps a service error onto the envelope. Classified errors keep
// their message; anything unclassified is logged and hidden behind a
// generic 500.
func FromError(w http.ResponseWriter, r *http.Request, err error) {
	if kind, ok := apperr.KindOf(err); ok {
		Error(w, kind.Status(), err.Error())
		return
	}

	logger.WithCtx(r.Context()).Error("unhandled error",
		"error", err.Error(),
		"method", r.Method,
		"path", r.URL.Path,
	)
	Error(w, http.StatusInternalServerError, "Internal Server Error")
}

// Unauthorized sends a 401.
func Unauthorized(w http.ResponseWriter) {
	Error(w, http.StatusUnauthorized, "Not authorized")
}

// Forbidden sends a 403.
func Forbidden(w http.ResponseWriter) {
	Error(w, http.StatusForbidden, "Forbidden")
}

// NotFound sends a 404.
func NotFound(w http.ResponseWriter) {
	Error(w, http.StatusNotFound, "Not found")
}

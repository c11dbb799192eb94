package transport

import (
	"encoding/json"
	"net/http"
)

type ErrorCode string

const (
	BadRequest    ErrorCode = "BAD_REQUEST"
	NotFound      ErrorCode = "NOT_FOUND"
	InternalError ErrorCode = "INTERNAL_ERROR"
)

// APIError is the body of the "error" field of failed responses.
type APIError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, msg string) {
	writeJSON(w, status, map[string]any{"error": APIError{Code: code, Message: msg}})
}

package http

import (
	"encoding/json"
	"net/http"
)

// ErrorResponse is the JSON error envelope for the login API
type ErrorResponse struct {
	Error   string `json:"error"`   // Machine-readable error code
	Message string `json:"message"` // Human-readable message
}

// WriteError writes a JSON error response with the given status code
func WriteError(w http.ResponseWriter, statusCode int, errorCode, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	resp := ErrorResponse{
		Error:   errorCode,
		Message: message,
	}

	// Log encoding errors but don't expose them to client
	_ = json.NewEncoder(w).Encode(resp)
}

// WriteBadRequest covers malformed bodies and validation failures
func WriteBadRequest(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusBadRequest, "bad_request", message)
}

// WriteSessionExpired rejects a request whose login session token is
// missing, tampered with or past its expiry. The client restarts the flow.
func WriteSessionExpired(w http.ResponseWriter) {
	WriteError(w, http.StatusUnauthorized, "session_expired", "login session invalid or expired")
}

// WriteCodeRejected denies a code submission without distinguishing wrong
// code, expired code or lockout; the distinction only reaches audit logs.
func WriteCodeRejected(w http.ResponseWriter) {
	WriteError(w, http.StatusUnauthorized, "code_rejected", "the submitted code was not accepted")
}

func WriteTooManyRequests(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusTooManyRequests, "rate_limit_exceeded", message)
}

func WriteInternalError(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusInternalServerError, "internal_error", message)
}

package utils

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
)

// ErrorResponse is the body of every error reply
type ErrorResponse struct {
	Error  string `json:"error"`
	Hint   string `json:"hint,omitempty"`
	Detail string `json:"detail,omitempty"`
}

// OKResponse is the body of acknowledgement-only replies
type OKResponse struct {
	OK bool `json:"ok"`
}

// maxBodyBytes bounds request bodies read by DecodeJSON
const maxBodyBytes = 1 << 20

// ErrInvalidBody is returned by DecodeJSON for unreadable or malformed bodies
var ErrInvalidBody = errors.New("invalid request body")

// WriteJSON writes a JSON response with the given status code
func WriteJSON(w http.ResponseWriter, status int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if data == nil {
		return nil
	}

	return json.NewEncoder(w).Encode(data)
}

// WriteOK writes data as the raw 200 body
func WriteOK(w http.ResponseWriter, data interface{}) error {
	if data == nil {
		return WriteJSON(w, http.StatusOK, json.RawMessage("null"))
	}
	return WriteJSON(w, http.StatusOK, data)
}

// WriteCreated writes data as the raw 201 body
func WriteCreated(w http.ResponseWriter, data interface{}) error {
	return WriteJSON(w, http.StatusCreated, data)
}

// WriteAck writes {"ok":true}
func WriteAck(w http.ResponseWriter) error {
	return WriteJSON(w, http.StatusOK, OKResponse{OK: true})
}

// WriteNoContent writes a 204 No Content response
func WriteNoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// WriteError writes {"error": message} with status
func WriteError(w http.ResponseWriter, status int, message string) error {
	return WriteJSON(w, status, ErrorResponse{Error: message})
}

// WriteErrorResponse writes a full error body with status
func WriteErrorResponse(w http.ResponseWriter, status int, body ErrorResponse) error {
	return WriteJSON(w, status, body)
}

// WriteBadRequest writes a 400 response
func WriteBadRequest(w http.ResponseWriter, message string) error {
	return WriteError(w, http.StatusBadRequest, message)
}

// WriteUnauthorized writes a 401 response
func WriteUnauthorized(w http.ResponseWriter, message string) error {
	if message == "" {
		message = "Authentication required"
	}
	return WriteError(w, http.StatusUnauthorized, message)
}

// WriteForbidden writes a 403 response
func WriteForbidden(w http.ResponseWriter, message string) error {
	if message == "" {
		message = "Insufficient permissions"
	}
	return WriteError(w, http.StatusForbidden, message)
}

// WriteNotFound writes a 404 response
func WriteNotFound(w http.ResponseWriter, message string) error {
	if message == "" {
		message = "Endpoint not found"
	}
	return WriteError(w, http.StatusNotFound, message)
}

// WriteTooManyRequests writes a 429 response
func WriteTooManyRequests(w http.ResponseWriter, message string) error {
	return WriteError(w, http.StatusTooManyRequests, message)
}

// WriteServiceUnavailable writes a 503 response carrying a hint
func WriteServiceUnavailable(w http.ResponseWriter, message, hint string) error {
	return WriteErrorResponse(w, http.StatusServiceUnavailable, ErrorResponse{Error: message, Hint: hint})
}

// WriteInternalServerError writes a 500 response
func WriteInternalServerError(w http.ResponseWriter, message, hint, detail string) error {
	if message == "" {
		message = "Internal server error"
	}
	return WriteErrorResponse(w, http.StatusInternalServerError, ErrorResponse{Error: message, Hint: hint, Detail: detail})
}

// DecodeJSON reads a JSON object from the request body into dst. An empty
// body decodes as {}.
func DecodeJSON(r *http.Request, dst interface{}) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return ErrInvalidBody
	}
	if len(body) == 0 {
		body = []byte("{}")
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return ErrInvalidBody
	}
	return nil
}

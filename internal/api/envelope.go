// Package api is the HTTP surface of the catalog. Handlers stay thin: parse,
// call the catalog service, respond. Every response, success or failure, is
// one Envelope, and every failure passes through the Translator.
package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"
)

// Success message keys. Like the error keys they are opaque identifiers a
// client-side catalog resolves to display text.
const (
	KeyOK      = "catalog.success.ok"
	KeyCreated = "catalog.success.created"
	KeyUpdated = "catalog.success.updated"
	KeyDeleted = "catalog.success.deleted"
)

// Envelope is the uniform wire response.
// Invariant: Success is true if and only if ErrorCode is null.
type Envelope struct {
	Success    bool      `json:"success"`
	MessageKey string    `json:"messageKey"`
	Message    string    `json:"message"`
	ErrorCode  *string   `json:"errorCode"`
	StatusCode int       `json:"statusCode"`
	Data       any       `json:"data"`
	Timestamp  time.Time `json:"timestamp"`
}

// OK builds a success envelope. It is the only success constructor, so the
// Success/ErrorCode invariant holds by construction. The timestamp is
// assigned here, not at request start.
func OK(status int, messageKey, message string, data any) Envelope {
	return Envelope{
		Success:    true,
		MessageKey: messageKey,
		Message:    message,
		StatusCode: status,
		Data:       data,
		Timestamp:  time.Now().UTC(),
	}
}

func writeEnvelope(w http.ResponseWriter, env Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(env.StatusCode)
	if err := json.NewEncoder(w).Encode(env); err != nil {
		slog.Error("failed to encode response envelope", "error", err)
	}
}

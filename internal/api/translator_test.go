package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	"github.com/Waito3007/aRefactor/internal/core/failure"
)

func newTestTranslator() *Translator {
	return NewTranslator(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestTranslateStatusCodeTable(t *testing.T) {
	tr := newTestTranslator()

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{
			name:       "validation",
			err:        failure.Validation(map[string][]string{"name": {"name is required"}}),
			wantStatus: http.StatusBadRequest,
			wantCode:   failure.CodeValidation,
		},
		{
			name:       "not found",
			err:        failure.NotFound("product", "p-1"),
			wantStatus: http.StatusNotFound,
			wantCode:   failure.CodeNotFound,
		},
		{
			name:       "unauthorized",
			err:        failure.Unauthorized(""),
			wantStatus: http.StatusUnauthorized,
			wantCode:   failure.CodeUnauthorized,
		},
		{
			name:       "forbidden",
			err:        failure.Forbidden(""),
			wantStatus: http.StatusForbidden,
			wantCode:   failure.CodeForbidden,
		},
		{
			name:       "domain rule default",
			err:        failure.DomainRule(failure.KeyConflict, "rule broken"),
			wantStatus: http.StatusBadRequest,
			wantCode:   failure.CodeDomainRule,
		},
		{
			name:       "domain rule with overrides",
			err:        failure.Conflict(failure.KeyConflict, `sku "A-1" is already in use`),
			wantStatus: http.StatusConflict,
			wantCode:   failure.CodeConflict,
		},
		{
			name:       "infrastructure",
			err:        failure.Infrastructure(errors.New("dial tcp 10.0.0.4:5432: connection refused")),
			wantStatus: http.StatusInternalServerError,
			wantCode:   failure.CodeInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := tr.Translate(tt.err)

			if env.Success {
				t.Error("Success = true, want false")
			}
			if env.StatusCode != tt.wantStatus {
				t.Errorf("StatusCode = %d, want %d", env.StatusCode, tt.wantStatus)
			}
			if env.ErrorCode == nil {
				t.Fatal("ErrorCode = nil, want a code")
			}
			if *env.ErrorCode != tt.wantCode {
				t.Errorf("ErrorCode = %q, want %q", *env.ErrorCode, tt.wantCode)
			}
			if env.Timestamp.IsZero() {
				t.Error("Timestamp is zero")
			}
		})
	}
}

func TestTranslateUnclassifiedError(t *testing.T) {
	tr := newTestTranslator()

	env := tr.Translate(errors.New("pq: connection refused"))

	if env.StatusCode != http.StatusInternalServerError {
		t.Errorf("StatusCode = %d, want %d", env.StatusCode, http.StatusInternalServerError)
	}
	if env.ErrorCode == nil || *env.ErrorCode != failure.CodeInternal {
		t.Errorf("ErrorCode = %v, want %q", env.ErrorCode, failure.CodeInternal)
	}
	if env.Message != failure.GenericInternalMessage {
		t.Errorf("Message = %q, want the generic internal message", env.Message)
	}
	if env.MessageKey != failure.KeyInternal {
		t.Errorf("MessageKey = %q, want %q", env.MessageKey, failure.KeyInternal)
	}
}

// The raw cause must never leak into the response, only into the log.
func TestTranslateHidesInfrastructureCause(t *testing.T) {
	tr := newTestTranslator()
	cause := errors.New(`pq: password authentication failed for user "catalog"`)

	env := tr.Translate(failure.Infrastructure(cause))

	if env.Message != failure.GenericInternalMessage {
		t.Errorf("Message = %q, want %q", env.Message, failure.GenericInternalMessage)
	}
	if env.Data != nil {
		t.Errorf("Data = %v, want nil", env.Data)
	}
}

func TestTranslateWrappedFailureKeepsClassification(t *testing.T) {
	tr := newTestTranslator()
	err := fmt.Errorf("get product: %w", failure.NotFound("product", "p-9"))

	env := tr.Translate(err)

	if env.StatusCode != http.StatusNotFound {
		t.Errorf("StatusCode = %d, want %d", env.StatusCode, http.StatusNotFound)
	}
	if env.ErrorCode == nil || *env.ErrorCode != failure.CodeNotFound {
		t.Errorf("ErrorCode = %v, want %q", env.ErrorCode, failure.CodeNotFound)
	}
}

// Translating the same failure twice yields the same envelope apart from the
// timestamp.
func TestTranslateIsDeterministic(t *testing.T) {
	tr := newTestTranslator()
	f := failure.Conflict(failure.KeyConflict, `sku "A-1" is already in use`)

	first := tr.Translate(f)
	second := tr.Translate(f)

	first.Timestamp = time.Time{}
	second.Timestamp = time.Time{}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("envelopes differ:\n  first  %+v\n  second %+v", first, second)
	}
}

func TestTranslateValidationCarriesFieldErrors(t *testing.T) {
	tr := newTestTranslator()
	fields := map[string][]string{
		"name":       {"name is required"},
		"priceCents": {"priceCents must be greater than or equal to 0"},
	}

	env := tr.Translate(failure.Validation(fields))

	got, ok := env.Data.(map[string][]string)
	if !ok {
		t.Fatalf("Data is %T, want map[string][]string", env.Data)
	}
	if !reflect.DeepEqual(got, fields) {
		t.Errorf("Data = %v, want %v", got, fields)
	}
}

// A kind outside the closed set must not pass through with its own status.
func TestTranslateUnknownKindBecomesInfrastructure(t *testing.T) {
	tr := newTestTranslator()
	rogue := &failure.Failure{
		Kind:    failure.Kind("teapot"),
		Status:  http.StatusTeapot,
		Code:    "TEAPOT",
		Message: "short and stout",
	}

	env := tr.Translate(rogue)

	if env.StatusCode != http.StatusInternalServerError {
		t.Errorf("StatusCode = %d, want %d", env.StatusCode, http.StatusInternalServerError)
	}
	if env.ErrorCode == nil || *env.ErrorCode != failure.CodeInternal {
		t.Errorf("ErrorCode = %v, want %q", env.ErrorCode, failure.CodeInternal)
	}
	if env.Message != failure.GenericInternalMessage {
		t.Errorf("Message = %q, want the generic internal message", env.Message)
	}
}

func TestWriteProducesEnvelopeResponse(t *testing.T) {
	tr := newTestTranslator()
	rec := httptest.NewRecorder()

	tr.Write(rec, failure.NotFound("product", "p-404"))

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}

	var env Envelope
	if err := json.NewDecoder(rec.Body).Decode(&env); err != nil {
		t.Fatalf("failed to decode envelope: %v", err)
	}
	if env.Success {
		t.Error("Success = true, want false")
	}
	if env.ErrorCode == nil || *env.ErrorCode != failure.CodeNotFound {
		t.Errorf("ErrorCode = %v, want %q", env.ErrorCode, failure.CodeNotFound)
	}
	if env.StatusCode != http.StatusNotFound {
		t.Errorf("StatusCode = %d, want %d", env.StatusCode, http.StatusNotFound)
	}
}

func TestSuccessEnvelopeInvariant(t *testing.T) {
	env := OK(http.StatusCreated, KeyCreated, "product created", map[string]string{"id": "p-1"})

	if !env.Success {
		t.Error("Success = false, want true")
	}
	if env.ErrorCode != nil {
		t.Errorf("ErrorCode = %q, want nil", *env.ErrorCode)
	}
	if env.StatusCode != http.StatusCreated {
		t.Errorf("StatusCode = %d, want %d", env.StatusCode, http.StatusCreated)
	}
	if env.Timestamp.IsZero() {
		t.Error("Timestamp is zero")
	}
}

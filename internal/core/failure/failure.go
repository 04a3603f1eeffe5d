// Package failure defines the closed set of classified errors that catalog
// operations are allowed to surface. A Failure is created once, at the point
// a rule is violated, and is either translated into a response envelope or
// wrapped as the cause of another Failure. Treat constructed values as
// immutable.
package failure

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind identifies one class of failure. The set is closed: every error that
// escapes an operation carries exactly one of these kinds.
type Kind string

const (
	KindValidation     Kind = "validation"
	KindNotFound       Kind = "not_found"
	KindUnauthorized   Kind = "unauthorized"
	KindForbidden      Kind = "forbidden"
	KindDomainRule     Kind = "domain_rule"
	KindInfrastructure Kind = "infrastructure"
)

// Stable wire codes. Status and code are a pure function of the kind unless
// a DomainRule constructor option overrides them.
const (
	CodeValidation   = "VALIDATION_ERROR"
	CodeNotFound     = "NOT_FOUND"
	CodeUnauthorized = "UNAUTHORIZED"
	CodeForbidden    = "FORBIDDEN"
	CodeDomainRule   = "DOMAIN_RULE_VIOLATION"
	CodeConflict     = "CONFLICT"
	CodeInternal     = "INTERNAL_SERVER_ERROR"
)

// GenericInternalMessage is the only message callers ever see for an
// infrastructure failure, regardless of root cause.
const GenericInternalMessage = "an unexpected error occurred, please try again later"

// Failure is a classified error value.
type Failure struct {
	Kind       Kind
	Status     int
	Code       string
	MessageKey string
	Message    string
	// Fields maps a field name to the rule violations recorded for it.
	// Populated only for KindValidation.
	Fields map[string][]string

	cause error
}

// Error implements the error interface.
func (f *Failure) Error() string {
	if f.cause != nil {
		return fmt.Sprintf("%s: %s: %v", f.Kind, f.Message, f.cause)
	}
	return fmt.Sprintf("%s: %s", f.Kind, f.Message)
}

// Unwrap exposes the wrapped cause for errors.Is / errors.As chains.
func (f *Failure) Unwrap() error { return f.cause }

// Cause returns the wrapped low-level error. It exists for operator logs and
// must never reach a response body.
func (f *Failure) Cause() error { return f.cause }

// Validation builds a 400 failure carrying the accumulated field violations.
// Callers must have collected at least one violation before raising; an empty
// map means the caller raised without recording what failed.
func Validation(fields map[string][]string) *Failure {
	return &Failure{
		Kind:       KindValidation,
		Status:     http.StatusBadRequest,
		Code:       CodeValidation,
		MessageKey: KeyInvalidInput,
		Message:    "one or more fields failed validation",
		Fields:     copyFields(fields),
	}
}

// NotFound builds a 404 failure for a missing entity.
func NotFound(entity, key string) *Failure {
	return &Failure{
		Kind:       KindNotFound,
		Status:     http.StatusNotFound,
		Code:       CodeNotFound,
		MessageKey: KeyNotFound,
		Message:    fmt.Sprintf("%s %q was not found", entity, key),
	}
}

// Unauthorized builds a 401 failure.
func Unauthorized(reason string) *Failure {
	if reason == "" {
		reason = "authentication required"
	}
	return &Failure{
		Kind:       KindUnauthorized,
		Status:     http.StatusUnauthorized,
		Code:       CodeUnauthorized,
		MessageKey: KeyUnauthorized,
		Message:    reason,
	}
}

// Forbidden builds a 403 failure.
func Forbidden(reason string) *Failure {
	if reason == "" {
		reason = "operation not permitted"
	}
	return &Failure{
		Kind:       KindForbidden,
		Status:     http.StatusForbidden,
		Code:       CodeForbidden,
		MessageKey: KeyForbidden,
		Message:    reason,
	}
}

// Option adjusts a DomainRule failure at construction time.
type Option func(*Failure)

// WithStatus overrides the HTTP status, e.g. 409 for conflicts.
func WithStatus(status int) Option {
	return func(f *Failure) { f.Status = status }
}

// WithCode overrides the wire error code.
func WithCode(code string) Option {
	return func(f *Failure) { f.Code = code }
}

// DomainRule builds a caller-caused business rule failure. Defaults to 400;
// options allow finer-grained statuses and codes without leaving the
// expected-failure path.
func DomainRule(messageKey, message string, opts ...Option) *Failure {
	f := &Failure{
		Kind:       KindDomainRule,
		Status:     http.StatusBadRequest,
		Code:       CodeDomainRule,
		MessageKey: messageKey,
		Message:    message,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Conflict is the 409 DomainRule shorthand used for duplicate keys and
// in-use deletions.
func Conflict(messageKey, message string) *Failure {
	return DomainRule(messageKey, message,
		WithStatus(http.StatusConflict), WithCode(CodeConflict))
}

// Infrastructure wraps an unexpected low-level error. The caller-visible
// message is always GenericInternalMessage; the cause stays available for
// logging.
func Infrastructure(cause error) *Failure {
	return &Failure{
		Kind:       KindInfrastructure,
		Status:     http.StatusInternalServerError,
		Code:       CodeInternal,
		MessageKey: KeyInternal,
		Message:    GenericInternalMessage,
		cause:      cause,
	}
}

// From extracts a classified Failure from err, if one is present anywhere in
// its chain.
func From(err error) (*Failure, bool) {
	var f *Failure
	if errors.As(err, &f) {
		return f, true
	}
	return nil, false
}

// Classify returns the Failure already present in err unchanged, or wraps any
// unclassified error as Infrastructure. A nil error yields nil.
func Classify(err error) *Failure {
	if err == nil {
		return nil
	}
	if f, ok := From(err); ok {
		return f
	}
	return Infrastructure(err)
}

func copyFields(fields map[string][]string) map[string][]string {
	cp := make(map[string][]string, len(fields))
	for k, v := range fields {
		cp[k] = append([]string(nil), v...)
	}
	return cp
}

package api

import (
	"log/slog"
	"net/http"
	"sort"
	"time"

	"github.com/Waito3007/aRefactor/internal/core/failure"
	"github.com/Waito3007/aRefactor/internal/metrics"
)

// Translator is the single point that turns a raised failure into a wire
// envelope plus one log record. It sits outside every orchestrator; no other
// layer builds a failure envelope. The logger is injected at construction,
// never pulled from ambient state.
type Translator struct {
	log *slog.Logger
}

func NewTranslator(log *slog.Logger) *Translator {
	if log == nil {
		log = slog.Default().With("component", "translator")
	}
	return &Translator{log: log}
}

// Translate converts any error into exactly one envelope. Classified failures
// keep their status and code; anything else, including kinds outside the
// taxonomy, takes the Infrastructure branch with the constant generic message.
// Caller-caused kinds log at WARN, Infrastructure logs the full cause at
// ERROR.
func (t *Translator) Translate(err error) Envelope {
	f, ok := failure.From(err)
	if !ok {
		f = failure.Infrastructure(err)
	}

	metrics.FailuresTotal.WithLabelValues(string(f.Kind)).Inc()

	switch f.Kind {
	case failure.KindValidation:
		// Field names are safe to log; the submitted values are not.
		t.log.Warn("request validation failed",
			"message_key", f.MessageKey,
			"fields", fieldNames(f.Fields),
		)
		return t.envelope(f, f.Fields)

	case failure.KindNotFound, failure.KindUnauthorized,
		failure.KindForbidden, failure.KindDomainRule:
		t.log.Warn("request failed",
			"kind", string(f.Kind),
			"message_key", f.MessageKey,
			"message", f.Message,
		)
		return t.envelope(f, nil)

	case failure.KindInfrastructure:
		cause := f.Cause()
		if cause == nil {
			cause = f
		}
		t.log.Error("infrastructure failure", "error", cause)
		return t.envelope(f, nil)

	default:
		// A kind outside the closed set is itself an internal defect
		t.log.Error("unclassified failure", "kind", string(f.Kind), "error", f)
		return t.envelope(failure.Infrastructure(f), nil)
	}
}

// Write translates err and serializes the envelope. It is the outermost
// guard of the request pipeline.
func (t *Translator) Write(w http.ResponseWriter, err error) {
	writeEnvelope(w, t.Translate(err))
}

func (t *Translator) envelope(f *failure.Failure, data any) Envelope {
	code := f.Code
	return Envelope{
		Success:    false,
		MessageKey: f.MessageKey,
		Message:    f.Message,
		ErrorCode:  &code,
		StatusCode: f.Status,
		Data:       data,
		Timestamp:  time.Now().UTC(),
	}
}

func fieldNames(fields map[string][]string) []string {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

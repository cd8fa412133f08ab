// Package dispatch is the single execution entry point for model-emitted
// tool calls. Every call runs the same sequence (resolve, validate,
// authorize, execute) and terminates in a well-formed Result on every
// path. No error, including a panic in a handler or store failure,
// crosses the Execute boundary.
package dispatch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/eventra-io/eventra/internal/apperr"
	"github.com/eventra-io/eventra/internal/identity"
	eventraotel "github.com/eventra-io/eventra/internal/otel"
	"github.com/eventra-io/eventra/internal/store"
	"github.com/eventra-io/eventra/internal/tool"
)

var tracer = eventraotel.Tracer("github.com/eventra-io/eventra/internal/dispatch")

// Result is the uniform tool-call envelope. Exactly one of Data or
// (ErrorKind, Message) is meaningful, keyed by OK.
type Result struct {
	OK        bool        `json:"ok"`
	Data      interface{} `json:"data,omitempty"`
	ErrorKind apperr.Kind `json:"error_kind,omitempty"`
	Message   string      `json:"message,omitempty"`
}

// ModelPayload serializes the result for the function-calling protocol:
// the raw data value on success, {"error": ...} on failure. NotFound
// and Unauthorized collapse to the same generic wording so the model
// can never confirm another tenant's entity exists.
func (r Result) ModelPayload() ([]byte, error) {
	if r.OK {
		return json.Marshal(r.Data)
	}
	msg := r.Message
	switch r.ErrorKind {
	case apperr.NotFound, apperr.Unauthorized:
		msg = "couldn't find that"
	}
	return json.Marshal(map[string]string{"error": msg})
}

// Dispatcher resolves and executes tool calls against the role
// catalogues. Stateless between calls apart from the failure tracker.
type Dispatcher struct {
	store    *store.Store
	catalogs tool.Catalogs
	failures *FailureTracker
}

// New creates a Dispatcher. The catalogues are immutable after this
// point and safe for concurrent Execute calls.
func New(st *store.Store, catalogs tool.Catalogs, opts ...Option) *Dispatcher {
	d := &Dispatcher{store: st, catalogs: catalogs}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Option configures the Dispatcher.
type Option func(*Dispatcher)

// WithFailureTracker records tool execution failures per actor for
// operator alerting.
func WithFailureTracker(t *FailureTracker) Option {
	return func(d *Dispatcher) { d.failures = t }
}

// Execute runs one tool call. rawArgs is the untrusted argument object
// decoded from the model's function-call payload. The returned Result
// is well-formed on every path; Execute never panics and never returns
// a Go error to its caller.
func (d *Dispatcher) Execute(ctx context.Context, role identity.Role, toolName string, rawArgs map[string]interface{}, id identity.Identity) (result Result) {
	ctx, span := tracer.Start(ctx, "tool.execute",
		trace.WithAttributes(eventraotel.ToolCallAttributes(toolName, string(role), id.ActorID)...))
	defer func() {
		span.SetAttributes(eventraotel.ResultKind.String(resultKind(result)))
		if !result.OK && result.ErrorKind == apperr.ExecutionError {
			span.SetStatus(codes.Error, result.Message)
		}
		span.End()
	}()

	defer func() {
		if r := recover(); r != nil {
			log.Error().
				Interface("panic", r).
				Str("tool", toolName).
				Str("actor", id.String()).
				Msg("tool_handler_panic")
			result = d.fail(toolName, id, apperr.New(apperr.ExecutionError, "internal error executing %s", toolName))
		}
	}()

	// Resolving. Tool names resolve per (role, name); an unknown name is
	// a protocol-boundary concern, not an internal dispatch ambiguity.
	catalog, ok := d.catalogs[role]
	if !ok {
		return d.fail(toolName, id, apperr.New(apperr.ToolNotFound, "no tool catalogue for role %q", role))
	}
	def, ok := catalog.Resolve(toolName)
	if !ok {
		return d.fail(toolName, id, apperr.New(apperr.ToolNotFound, "unknown tool %q for role %s", toolName, role))
	}

	// Validating. Shape-checking is cheaper than authorization and
	// short-circuits first; the handler is never entered on failure.
	if err := def.Validate(rawArgs); err != nil {
		return d.fail(toolName, id, err)
	}

	// Authorizing and Executing happen inside the handler: every handler
	// re-checks ownership of the entities its arguments name before
	// touching them, independent of whatever scope produced the brief.
	data, err := def.Execute(ctx, d.store, id, tool.Args(rawArgs))
	if err != nil {
		return d.fail(toolName, id, err)
	}
	return Result{OK: true, Data: data}
}

// fail converts any error into the ok:false variant, logging by
// severity: Unauthorized is a security signal and logs at warn,
// ExecutionError at error, the recoverable kinds at debug.
func (d *Dispatcher) fail(toolName string, id identity.Identity, err error) Result {
	kind := apperr.KindOf(err)
	msg := messageOf(err)

	evt := log.Debug()
	switch kind {
	case apperr.Unauthorized:
		evt = log.Warn()
	case apperr.ExecutionError:
		evt = log.Error().Err(err)
	}
	evt.Str("tool", toolName).
		Str("actor_id", id.ActorID).
		Str("actor_role", string(id.Role)).
		Str("error_kind", string(kind)).
		Msg("tool_call_failed")

	if d.failures != nil && kind == apperr.ExecutionError {
		d.failures.Record(id, toolName, msg)
	}
	return Result{OK: false, ErrorKind: kind, Message: msg}
}

func messageOf(err error) string {
	var tagged *apperr.Error
	if errors.As(err, &tagged) {
		return tagged.Message
	}
	return fmt.Sprintf("unexpected error: %v", err)
}

func resultKind(r Result) string {
	if r.OK {
		return "ok"
	}
	return string(r.ErrorKind)
}

// Package apperr defines the error taxonomy shared by the scope builders,
// tool handlers, and the dispatcher. Every failure that crosses a component
// boundary is an *Error with a Kind; callers branch on Kind, never on
// message text.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies a failure. The set is closed: handlers return one of
// these, and the dispatcher maps anything else to ExecutionError.
type Kind string

const (
	// NotFound: the referenced entity is absent or soft-deleted.
	// Recoverable; surfaced to the model as a normal failure result.
	NotFound Kind = "not_found"

	// Unauthorized: the entity exists but does not belong to the acting
	// identity under its role's ownership rule. Logged at warn since it
	// may indicate a crafted call.
	Unauthorized Kind = "unauthorized"

	// ValidationError: tool arguments failed schema validation. The
	// message names the offending field(s).
	ValidationError Kind = "validation_error"

	// PreconditionFailed: a domain rule blocks an otherwise-valid
	// operation (e.g. element lead time not met).
	PreconditionFailed Kind = "precondition_failed"

	// ToolNotFound: no tool with that name exists in the role's catalogue.
	ToolNotFound Kind = "tool_not_found"

	// ExecutionError: unexpected downstream failure (store error,
	// timeout, recovered panic).
	ExecutionError Kind = "execution_error"
)

// Error is a kind-tagged error. Wrapped causes are kept for logs but are
// not serialized toward the model.
type Error struct {
	Kind    Kind
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// New creates a kind-tagged error with a formatted message.
func New(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap tags an underlying error with a kind and message. A nil cause
// yields a plain tagged error.
func Wrap(kind Kind, cause error, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), cause: cause}
}

// KindOf extracts the Kind from err, or ExecutionError when err carries
// no taxonomy tag. A nil err has no kind and returns "".
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ExecutionError
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// PublicMessage returns the message safe to show an end user. NotFound
// and Unauthorized collapse to the same wording so a caller can never
// probe for another tenant's entities.
func PublicMessage(err error) string {
	switch KindOf(err) {
	case NotFound, Unauthorized:
		return "couldn't find that"
	case "":
		return ""
	default:
		var e *Error
		if errors.As(err, &e) {
			return e.Message
		}
		return "something went wrong"
	}
}

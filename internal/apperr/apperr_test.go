package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindOf(t *testing.T) {
	err := New(PreconditionFailed, "element %s unavailable", "elm_1")
	assert.Equal(t, PreconditionFailed, KindOf(err))
	assert.True(t, IsKind(err, PreconditionFailed))
	assert.False(t, IsKind(err, NotFound))

	// Wrapped chains still resolve.
	wrapped := fmt.Errorf("outer: %w", err)
	assert.Equal(t, PreconditionFailed, KindOf(wrapped))

	// Untagged errors are execution errors; nil has no kind.
	assert.Equal(t, ExecutionError, KindOf(errors.New("boom")))
	assert.Equal(t, Kind(""), KindOf(nil))
}

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("disk full")
	err := Wrap(ExecutionError, cause, "writing guest")
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "writing guest")
	assert.Contains(t, err.Error(), "disk full")
}

func TestPublicMessage_CollapsesExistenceSignals(t *testing.T) {
	notFound := New(NotFound, "event evt_1 not found")
	unauthorized := New(Unauthorized, "event evt_2 belongs to another client")

	require.Equal(t, PublicMessage(notFound), PublicMessage(unauthorized))
	assert.Equal(t, "couldn't find that", PublicMessage(notFound))

	// Other kinds keep their actionable wording.
	precondition := New(PreconditionFailed, "element needs 7 days lead time")
	assert.Equal(t, "element needs 7 days lead time", PublicMessage(precondition))
}

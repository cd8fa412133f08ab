package retention

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eventra-io/eventra/internal/testutil"
)

func TestRegister_ValidAndInvalidSchedules(t *testing.T) {
	st := testutil.NewTestStore(t)
	s := NewSweeper(st, 90)

	require.NoError(t, s.Register("0 3 * * *"))
	assert.Error(t, s.Register("not a schedule"))
}

func TestRunOnce_EmptyStore(t *testing.T) {
	st := testutil.NewTestStore(t)
	s := NewSweeper(st, 90)

	// Nothing soft-deleted; the sweep is a no-op and must not error out.
	s.RunOnce(context.Background())
}

func TestStartStop(t *testing.T) {
	st := testutil.NewTestStore(t)
	s := NewSweeper(st, 90)
	require.NoError(t, s.Register("0 3 * * *"))

	s.Start()
	s.Stop()
}

package dispatch

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/eventra-io/eventra/internal/identity"
)

// FailureTracker counts tool execution failures per actor. Failures
// here are downstream errors (store faults, timeouts), not validation
// or authorization denials. When an actor exceeds threshold failures
// within window, a warning is logged for operator alerting; dispatch is
// never suspended.
type FailureTracker struct {
	mu        sync.Mutex
	actors    map[string]*failureRecord
	threshold int
	window    time.Duration
}

type failureRecord struct {
	failures []time.Time
	alerted  bool
}

// NewFailureTracker creates a tracker. threshold <= 0 defaults to 10;
// window <= 0 defaults to 5 minutes.
func NewFailureTracker(threshold int, window time.Duration) *FailureTracker {
	if threshold <= 0 {
		threshold = 10
	}
	if window <= 0 {
		window = 5 * time.Minute
	}
	return &FailureTracker{
		actors:    make(map[string]*failureRecord),
		threshold: threshold,
		window:    window,
	}
}

// Record registers an execution failure for the actor. Returns true if
// the alert threshold was just crossed.
func (t *FailureTracker) Record(id identity.Identity, toolName, errMsg string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	key := id.String()
	rec, ok := t.actors[key]
	if !ok {
		rec = &failureRecord{}
		t.actors[key] = rec
	}

	now := time.Now()
	cutoff := now.Add(-t.window)
	rec.failures = append(rec.failures[:0], filterAfter(rec.failures, cutoff)...)
	rec.failures = append(rec.failures, now)

	if len(rec.failures) < t.threshold {
		rec.alerted = false
		return false
	}
	if rec.alerted {
		return false
	}
	rec.alerted = true
	log.Warn().
		Str("actor", key).
		Str("tool", toolName).
		Str("last_error", errMsg).
		Int("failures", len(rec.failures)).
		Dur("window", t.window).
		Msg("tool_failure_threshold_exceeded")
	return true
}

func filterAfter(times []time.Time, cutoff time.Time) []time.Time {
	var kept []time.Time
	for _, ts := range times {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}
	return kept
}

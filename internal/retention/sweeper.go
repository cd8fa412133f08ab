// Package retention hard-deletes soft-deleted rows once they age past
// the configured retention window, on a cron schedule.
package retention

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"github.com/eventra-io/eventra/internal/store"
)

// Sweeper runs the purge on a schedule.
type Sweeper struct {
	cron          *cron.Cron
	store         *store.Store
	retentionDays int
}

// NewSweeper creates a sweeper purging rows soft-deleted more than
// retentionDays ago. Cron expressions use the standard 5-field format
// (e.g. "0 3 * * *" for 03:00 daily).
func NewSweeper(st *store.Store, retentionDays int) *Sweeper {
	return &Sweeper{
		cron:          cron.New(),
		store:         st,
		retentionDays: retentionDays,
	}
}

// Register adds the sweep at the given cron schedule.
func (s *Sweeper) Register(schedule string) error {
	_, err := s.cron.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		s.RunOnce(ctx)
	})
	if err != nil {
		return fmt.Errorf("registering retention sweep %q: %w", schedule, err)
	}
	return nil
}

// RunOnce executes one sweep immediately.
func (s *Sweeper) RunOnce(ctx context.Context) {
	purged, err := s.store.PurgeSoftDeleted(ctx, s.retentionDays)
	if err != nil {
		log.Error().Err(err).Msg("retention_sweep_failed")
		return
	}
	log.Info().
		Int64("rows_purged", purged).
		Int("retention_days", s.retentionDays).
		Msg("retention_sweep_completed")
}

// Start begins executing the registered sweep schedule.
func (s *Sweeper) Start() {
	s.cron.Start()
}

// Stop halts the scheduler and waits for a running sweep to complete.
func (s *Sweeper) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

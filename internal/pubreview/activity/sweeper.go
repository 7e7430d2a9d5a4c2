package activity

import (
	"context"
	"log/slog"
	"time"
)

type SweepStore interface {
	DeleteStaleProvisional(ctx context.Context, before time.Time) (int64, error)
}

// Sweeper removes provisional records left behind by requests that never
// finished (crash, timeout). Records committed while not yet live are kept.
type Sweeper struct {
	store  SweepStore
	maxAge time.Duration
	logger *slog.Logger
	now    func() time.Time
}

func NewSweeper(store SweepStore, maxAge time.Duration, logger *slog.Logger) *Sweeper {
	return &Sweeper{store: store, maxAge: maxAge, logger: logger, now: time.Now}
}

func (s *Sweeper) Sweep(ctx context.Context) (int64, error) {
	cutoff := s.now().Add(-s.maxAge)
	removed, err := s.store.DeleteStaleProvisional(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	if removed > 0 {
		s.logger.Info("swept orphaned activities", "removed", removed, "cutoff", cutoff)
	}
	return removed, nil
}

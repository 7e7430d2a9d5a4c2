package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"pubreview/internal/pubreview/activity"

	"github.com/hibiken/asynq"
)

const (
	QueueDefault = "default"
	// TaskActivitySweep removes provisional activity records that were never
	// saved or discarded.
	TaskActivitySweep = "activity:sweep"
)

// ActivitySweepPayload optionally overrides the configured age threshold.
type ActivitySweepPayload struct {
	MaxAge time.Duration `json:"max_age,omitempty"`
}

func NewActivitySweepTask(maxAge time.Duration) (*asynq.Task, error) {
	body, err := json.Marshal(ActivitySweepPayload{MaxAge: maxAge})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskActivitySweep, body, asynq.Queue(QueueDefault)), nil
}

// ActivitySweepJob handles TaskActivitySweep.
type ActivitySweepJob struct {
	Store  activity.SweepStore
	MaxAge time.Duration
	Logger *slog.Logger
}

func NewActivitySweepJob(store activity.SweepStore, maxAge time.Duration, logger *slog.Logger) *ActivitySweepJob {
	return &ActivitySweepJob{Store: store, MaxAge: maxAge, Logger: logger}
}

func (j *ActivitySweepJob) Handle(ctx context.Context, t *asynq.Task) error {
	var payload ActivitySweepPayload
	if len(t.Payload()) > 0 {
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return fmt.Errorf("decode %s payload: %v: %w", TaskActivitySweep, err, asynq.SkipRetry)
		}
	}
	maxAge := j.MaxAge
	if payload.MaxAge > 0 {
		maxAge = payload.MaxAge
	}

	removed, err := activity.NewSweeper(j.Store, maxAge, j.Logger).Sweep(ctx)
	if err != nil {
		j.Logger.Error("activity sweep failed", "error", err)
		return err
	}
	j.Logger.Debug("activity sweep done", "removed", removed, "max_age", maxAge)
	return nil
}

package jobs

import (
	"context"
	"errors"
	"log/slog"

	"github.com/hibiken/asynq"

	jobmetrics "github.com/imobix/imobix/internal/jobs"
)

// Warmer preloads a cached listing and reports how many entries it holds.
type Warmer interface {
	Warm(ctx context.Context) (int, error)
}

// TemplatesWarmupJob refreshes the active templates cache on a schedule.
type TemplatesWarmupJob struct {
	Templates Warmer
	Logger    *slog.Logger
	Metrics   *jobmetrics.Metrics
}

// NewTemplatesWarmupJob wires dependencies for the handler.
func NewTemplatesWarmupJob(templates Warmer, logger *slog.Logger, metrics *jobmetrics.Metrics) *TemplatesWarmupJob {
	return &TemplatesWarmupJob{Templates: templates, Logger: logger, Metrics: metrics}
}

// Handle processes TaskTemplatesWarmup tasks.
func (j *TemplatesWarmupJob) Handle(ctx context.Context, _ *asynq.Task) (err error) {
	if j == nil || j.Templates == nil {
		return errors.New("templates warmup: handler not configured")
	}
	tracker := j.Metrics.Track(TaskTemplatesWarmup)
	defer func() { err = tracker.End(err) }()

	n, err := j.Templates.Warm(ctx)
	if err != nil {
		j.Logger.Error("templates warmup", slog.Any("error", err))
		return err
	}
	j.Logger.Info("templates warmed", slog.Int("count", n))
	return nil
}

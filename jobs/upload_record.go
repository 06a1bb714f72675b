package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"

	jobmetrics "github.com/imobix/imobix/internal/jobs"
	"github.com/imobix/imobix/internal/uploads"
)

// UploadRecordJob writes upload metadata enqueued by the upload endpoint.
type UploadRecordJob struct {
	Repo    uploads.Repository
	Logger  *slog.Logger
	Metrics *jobmetrics.Metrics
}

// NewUploadRecordJob wires dependencies for the handler.
func NewUploadRecordJob(repo uploads.Repository, logger *slog.Logger, metrics *jobmetrics.Metrics) *UploadRecordJob {
	return &UploadRecordJob{Repo: repo, Logger: logger, Metrics: metrics}
}

// Handle processes TaskUploadRecord tasks.
func (j *UploadRecordJob) Handle(ctx context.Context, t *asynq.Task) (err error) {
	if j == nil || j.Repo == nil {
		return errors.New("upload record: handler not configured")
	}
	tracker := j.Metrics.Track(TaskUploadRecord)
	defer func() { err = tracker.End(err) }()

	var rec uploads.Record
	if err := json.Unmarshal(t.Payload(), &rec); err != nil || rec.Key == "" {
		j.Logger.Warn("upload record: bad payload", slog.Any("error", err))
		return fmt.Errorf("upload record: decode payload: %w", asynq.SkipRetry)
	}

	if err := j.Repo.Save(ctx, rec); err != nil {
		j.Logger.Error("upload record: save", slog.String("key", rec.Key), slog.Any("error", err))
		return err
	}
	j.Logger.Info("upload recorded", slog.String("key", rec.Key), slog.Int64("user_id", rec.UploadedBy))
	return nil
}

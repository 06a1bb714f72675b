package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"

	"github.com/imobix/imobix/internal/uploads"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskUploadRecord persists metadata of a stored upload.
	TaskUploadRecord = "uploads:record"
	// TaskTemplatesWarmup preloads the active templates listing.
	TaskTemplatesWarmup = "templates:warmup"
)

// NewUploadRecordTask constructs the task for rec.
func NewUploadRecordTask(rec uploads.Record) (*asynq.Task, error) {
	data, err := json.Marshal(rec)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskUploadRecord, data, asynq.MaxRetry(10)), nil
}

// NewTemplatesWarmupTask constructs the warmup task.
func NewTemplatesWarmupTask() *asynq.Task {
	return asynq.NewTask(TaskTemplatesWarmup, nil, asynq.MaxRetry(3))
}

// Package cli implements the operational subcommands of the imobix binary.
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/hibiken/asynq"

	"github.com/imobix/imobix/jobs"
)

type taskClient interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
	Close() error
}

type queueInspector interface {
	GetQueueInfo(queue string) (*asynq.QueueInfo, error)
	Close() error
}

// JobsCLI wraps manual management helpers for Asynq jobs.
type JobsCLI struct {
	client    taskClient
	inspector queueInspector
}

// NewJobsCLI initialises the CLI helpers against the queue's Redis.
func NewJobsCLI(opts asynq.RedisClientOpt) *JobsCLI {
	return &JobsCLI{client: asynq.NewClient(opts), inspector: asynq.NewInspector(opts)}
}

// Close releases underlying resources.
func (c *JobsCLI) Close() error {
	var err error
	if c.inspector != nil {
		err = errors.Join(err, c.inspector.Close())
	}
	if c.client != nil {
		err = errors.Join(err, c.client.Close())
	}
	return err
}

// Trigger enqueues a job that takes no payload.
func (c *JobsCLI) Trigger(ctx context.Context, name string) (*asynq.TaskInfo, error) {
	if c == nil || c.client == nil {
		return nil, errors.New("jobs cli: client not configured")
	}
	switch name {
	case jobs.TaskTemplatesWarmup:
		return c.client.EnqueueContext(ctx, jobs.NewTemplatesWarmupTask(), asynq.Queue(jobs.QueueDefault))
	default:
		return nil, fmt.Errorf("jobs cli: unsupported job %s", name)
	}
}

// QueueStats summarises the current queue state.
type QueueStats struct {
	Queue     string `json:"queue"`
	Pending   int    `json:"pending"`
	Active    int    `json:"active"`
	Scheduled int    `json:"scheduled"`
	Retry     int    `json:"retry"`
	Archived  int    `json:"archived"`
}

// InspectQueue reports the metrics of the default queue.
func (c *JobsCLI) InspectQueue() (QueueStats, error) {
	if c == nil || c.inspector == nil {
		return QueueStats{}, errors.New("jobs cli: inspector not configured")
	}
	info, err := c.inspector.GetQueueInfo(jobs.QueueDefault)
	if err != nil {
		return QueueStats{}, err
	}
	stats := QueueStats{Queue: jobs.QueueDefault}
	if info != nil {
		stats.Pending = info.Pending
		stats.Active = info.Active
		stats.Scheduled = info.Scheduled
		stats.Retry = info.Retry
		stats.Archived = info.Archived
	}
	return stats, nil
}

// Run executes `jobs trigger <name>` or `jobs stats` and returns the exit code.
func (c *JobsCLI) Run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		fmt.Fprintln(stderr, "usage: imobix jobs trigger <task> | imobix jobs stats")
		return 2
	}
	switch args[0] {
	case "trigger":
		if len(args) != 2 {
			fmt.Fprintln(stderr, "usage: imobix jobs trigger <task>")
			return 2
		}
		info, err := c.Trigger(ctx, args[1])
		if err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
		fmt.Fprintf(stdout, "enqueued %s id=%s queue=%s\n", info.Type, info.ID, info.Queue)
		return 0
	case "stats":
		stats, err := c.InspectQueue()
		if err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(stats); err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
		return 0
	default:
		fmt.Fprintf(stderr, "unknown jobs command %q\n", args[0])
		return 2
	}
}

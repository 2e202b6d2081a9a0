package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/ems-portal/ems-portal/internal/activity"
	jobmetrics "github.com/ems-portal/ems-portal/internal/jobs"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskActivityRecord appends one entry to the activity log.
	TaskActivityRecord = "activity:record"
)

// NewActivityRecordTask constructs an Asynq task carrying entry.
func NewActivityRecordTask(entry activity.Entry) (*asynq.Task, error) {
	data, err := json.Marshal(entry)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskActivityRecord, data), nil
}

// Enqueuer is the part of asynq.Client used by ActivityEnqueuer.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// ActivityEnqueuer records activity by handing it to the worker.
type ActivityEnqueuer struct {
	client  Enqueuer
	metrics *jobmetrics.Metrics
	now     func() time.Time
}

// NewActivityEnqueuer wraps client as an activity.Recorder.
func NewActivityEnqueuer(client Enqueuer, metrics *jobmetrics.Metrics) *ActivityEnqueuer {
	return &ActivityEnqueuer{client: client, metrics: metrics, now: time.Now}
}

// Record stamps entry with the current time and enqueues it.
func (e *ActivityEnqueuer) Record(ctx context.Context, entry activity.Entry) error {
	if entry.At.IsZero() {
		entry.At = e.now()
	}
	task, err := NewActivityRecordTask(entry)
	if err != nil {
		return err
	}
	if _, err := e.client.EnqueueContext(ctx, task, asynq.Queue(QueueDefault), asynq.MaxRetry(3)); err != nil {
		return fmt.Errorf("enqueue %s: %w", TaskActivityRecord, err)
	}
	e.metrics.Enqueued(TaskActivityRecord)
	return nil
}

// ActivityJob appends queued entries to the activity store.
type ActivityJob struct {
	store   activity.Appender
	logger  *slog.Logger
	metrics *jobmetrics.Metrics
}

// NewActivityJob constructs the handler for TaskActivityRecord.
func NewActivityJob(store activity.Appender, logger *slog.Logger, metrics *jobmetrics.Metrics) *ActivityJob {
	if logger == nil {
		logger = slog.Default()
	}
	return &ActivityJob{store: store, logger: logger, metrics: metrics}
}

// Handle processes TaskActivityRecord tasks.
func (j *ActivityJob) Handle(ctx context.Context, t *asynq.Task) error {
	tracker := j.metrics.Track(TaskActivityRecord)
	var entry activity.Entry
	if err := json.Unmarshal(t.Payload(), &entry); err != nil {
		j.logger.Warn("activity record payload", slog.Any("error", err))
		return tracker.End(fmt.Errorf("decode payload: %v: %w", err, asynq.SkipRetry))
	}
	rec, err := j.store.Append(ctx, entry)
	if err != nil {
		j.logger.Error("activity record", slog.String("action", entry.Action), slog.Any("error", err))
		return tracker.End(err)
	}
	j.logger.Debug("activity recorded", slog.Int64("id", rec.ID), slog.String("action", rec.Action))
	return tracker.End(nil)
}

var _ activity.Recorder = (*ActivityEnqueuer)(nil)

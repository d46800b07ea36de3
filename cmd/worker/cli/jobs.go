package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/hibiken/asynq"

	"github.com/appboilerplate/taskmanager/jobs"
)

// JobsCLI wraps manual management helpers for the email queue.
type JobsCLI struct {
	client    *jobs.Client
	inspector *asynq.Inspector
}

// NewJobsCLI initialises the CLI helpers against the given Redis options.
func NewJobsCLI(opts asynq.RedisClientOpt) *JobsCLI {
	return &JobsCLI{client: jobs.NewClient(opts), inspector: asynq.NewInspector(opts)}
}

// Close releases underlying resources.
func (c *JobsCLI) Close() error {
	var err error
	if c.inspector != nil {
		if closeErr := c.inspector.Close(); closeErr != nil {
			err = closeErr
		}
	}
	if c.client != nil {
		if closeErr := c.client.Close(); closeErr != nil {
			err = closeErr
		}
	}
	return err
}

// EnqueueSendEmail lets the CLI stand in for the API as a mail producer.
func (c *JobsCLI) EnqueueSendEmail(ctx context.Context, payload jobs.SendEmailPayload) (*asynq.TaskInfo, error) {
	if c == nil || c.client == nil {
		return nil, errors.New("jobs cli: client not configured")
	}
	return c.client.EnqueueSendEmail(ctx, payload)
}

// QueueStats summarises the current queue state.
type QueueStats struct {
	Queue     string
	Pending   int
	Active    int
	Scheduled int
	Retry     int
	Archived  int
	Processed int
	Failed    int
}

// InspectQueue reports the metrics of the default queue. A queue that never
// received a task reports zeros.
func (c *JobsCLI) InspectQueue(ctx context.Context) (QueueStats, error) {
	if c == nil || c.inspector == nil {
		return QueueStats{}, errors.New("jobs cli: inspector not configured")
	}
	stats := QueueStats{Queue: jobs.QueueDefault}
	info, err := c.inspector.GetQueueInfo(jobs.QueueDefault)
	if err != nil {
		if errors.Is(err, asynq.ErrQueueNotFound) {
			return stats, nil
		}
		return QueueStats{}, err
	}
	if info != nil {
		stats.Pending = info.Pending
		stats.Active = info.Active
		stats.Scheduled = info.Scheduled
		stats.Retry = info.Retry
		stats.Archived = info.Archived
		stats.Processed = info.Processed
		stats.Failed = info.Failed
	}
	return stats, nil
}

// Print writes stats as aligned key/value lines.
func (s QueueStats) Print(w io.Writer) {
	_, _ = fmt.Fprintf(w, "queue:     %s\n", s.Queue)
	_, _ = fmt.Fprintf(w, "pending:   %d\n", s.Pending)
	_, _ = fmt.Fprintf(w, "active:    %d\n", s.Active)
	_, _ = fmt.Fprintf(w, "scheduled: %d\n", s.Scheduled)
	_, _ = fmt.Fprintf(w, "retry:     %d\n", s.Retry)
	_, _ = fmt.Fprintf(w, "archived:  %d\n", s.Archived)
	_, _ = fmt.Fprintf(w, "processed: %d (today)\n", s.Processed)
	_, _ = fmt.Fprintf(w, "failed:    %d (today)\n", s.Failed)
}

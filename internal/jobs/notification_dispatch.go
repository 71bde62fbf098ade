// Package jobs defines River Queue job types: operator notification dispatch
// and periodic audit cleanup. Both run on the shared Postgres pool, so a
// restart never loses a queued notification.
package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/riverqueue/river"
	"go.uber.org/zap"

	"maraisroos.co.za/formgate/internal/notification"
	"maraisroos.co.za/formgate/internal/pkg/logger"
)

// Notification kinds carried by NotificationDispatchArgs.
const (
	NotifyKindContact   = "contact"
	NotifyKindPortfolio = "portfolio"
)

// NotificationDispatchArgs carries one operator notification. The payload is
// embedded rather than claim-checked: audit rows for blocked attempts are
// pruned on their own schedule and must not be a delivery dependency.
type NotificationDispatchArgs struct {
	NotifyKind  string    `json:"notify_kind"`
	Name        string    `json:"name,omitempty"`
	Email       string    `json:"email"`
	Message     string    `json:"message,omitempty"`
	Source      string    `json:"source,omitempty"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// Kind returns the job kind identifier for notification dispatch.
func (NotificationDispatchArgs) Kind() string { return "notification_dispatch" }

// InsertOpts keeps delivery best-effort: a few retries, then give up.
func (NotificationDispatchArgs) InsertOpts() river.InsertOpts {
	return river.InsertOpts{
		Queue:       river.QueueDefault,
		MaxAttempts: 4,
	}
}

// NotificationDispatchWorker renders and sends one operator notification.
type NotificationDispatchWorker struct {
	river.WorkerDefaults[NotificationDispatchArgs]
	sender notification.Sender
	emails notification.OperatorEmails
}

// NewNotificationDispatchWorker creates the dispatch worker.
func NewNotificationDispatchWorker(sender notification.Sender, emails notification.OperatorEmails) *NotificationDispatchWorker {
	return &NotificationDispatchWorker{sender: sender, emails: emails}
}

// Work sends the notification email. An unconfigured recipient completes the
// job without sending: notifications are an optional concern.
func (w *NotificationDispatchWorker) Work(ctx context.Context, job *river.Job[NotificationDispatchArgs]) error {
	if w == nil || w.sender == nil {
		return fmt.Errorf("notification dispatch worker is not initialized")
	}
	if w.emails.To == "" {
		logger.Debug("operator notification skipped: no recipient configured",
			zap.String("notify_kind", job.Args.NotifyKind),
		)
		return nil
	}

	var email *notification.Email
	switch job.Args.NotifyKind {
	case NotifyKindContact:
		email = w.emails.ContactNotification(job.Args.Name, job.Args.Email, job.Args.Message, job.Args.SubmittedAt)
	case NotifyKindPortfolio:
		email = w.emails.PortfolioNotification(job.Args.Email, job.Args.Source, job.Args.SubmittedAt)
	default:
		// Unknown kinds are dropped, not retried.
		logger.Warn("unknown notification kind", zap.String("notify_kind", job.Args.NotifyKind))
		return nil
	}

	if err := w.sender.Send(ctx, email); err != nil {
		return fmt.Errorf("send %s notification: %w", job.Args.NotifyKind, err)
	}

	logger.Info("operator notification sent",
		zap.String("notify_kind", job.Args.NotifyKind),
	)
	return nil
}

// Dispatcher enqueues notification jobs. It is the queue-backed face the
// gatekeeper talks to: enqueueing is fast and delivery is retried by River.
type Dispatcher struct {
	client *river.Client[pgx.Tx]
}

// NewDispatcher creates a Dispatcher over the River client.
func NewDispatcher(client *river.Client[pgx.Tx]) *Dispatcher {
	return &Dispatcher{client: client}
}

// NotifyContactSubmission enqueues a contact-submission notification.
func (d *Dispatcher) NotifyContactSubmission(ctx context.Context, name, email, message string) error {
	_, err := d.client.Insert(ctx, NotificationDispatchArgs{
		NotifyKind:  NotifyKindContact,
		Name:        name,
		Email:       email,
		Message:     message,
		SubmittedAt: time.Now().UTC(),
	}, nil)
	if err != nil {
		return fmt.Errorf("enqueue contact notification: %w", err)
	}
	return nil
}

// NotifyPortfolioRequest enqueues a portfolio-request notification.
func (d *Dispatcher) NotifyPortfolioRequest(ctx context.Context, email, source string) error {
	_, err := d.client.Insert(ctx, NotificationDispatchArgs{
		NotifyKind:  NotifyKindPortfolio,
		Email:       email,
		Source:      source,
		SubmittedAt: time.Now().UTC(),
	}, nil)
	if err != nil {
		return fmt.Errorf("enqueue portfolio notification: %w", err)
	}
	return nil
}

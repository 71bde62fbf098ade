package jobs

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/riverqueue/river"

	"maraisroos.co.za/formgate/internal/notification"
	"maraisroos.co.za/formgate/internal/pkg/logger"
)

func init() {
	// Initialize logger for tests
	_ = logger.Init("error", "json")
}

func TestNotificationDispatchArgsKind(t *testing.T) {
	t.Parallel()

	if got := (NotificationDispatchArgs{}).Kind(); got != "notification_dispatch" {
		t.Fatalf("Kind() = %q, want %q", got, "notification_dispatch")
	}
}

func TestNotificationDispatchArgsInsertOpts(t *testing.T) {
	t.Parallel()

	opts := (NotificationDispatchArgs{}).InsertOpts()
	if opts.Queue != river.QueueDefault {
		t.Fatalf("Queue = %q, want %q", opts.Queue, river.QueueDefault)
	}
	if opts.MaxAttempts != 4 {
		t.Fatalf("MaxAttempts = %d, want 4", opts.MaxAttempts)
	}
}

type recordingSender struct {
	sent []*notification.Email
	err  error
}

func (r *recordingSender) Send(_ context.Context, email *notification.Email) error {
	if r.err != nil {
		return r.err
	}
	r.sent = append(r.sent, email)
	return nil
}

func TestNotificationDispatchWorkerWork(t *testing.T) {
	t.Parallel()

	sender := &recordingSender{}
	w := NewNotificationDispatchWorker(sender, notification.OperatorEmails{
		From: "onboarding@resend.dev",
		To:   "hello@maraisroos.co.za",
	})

	job := &river.Job[NotificationDispatchArgs]{Args: NotificationDispatchArgs{
		NotifyKind:  NotifyKindContact,
		Name:        "Jane Doe",
		Email:       "jane@gmail.com",
		Message:     "Interested in a redesign",
		SubmittedAt: time.Now().UTC(),
	}}
	if err := w.Work(context.Background(), job); err != nil {
		t.Fatalf("Work() error = %v", err)
	}
	if len(sender.sent) != 1 {
		t.Fatalf("sent %d emails, want 1", len(sender.sent))
	}
	if got := sender.sent[0].To; got != "hello@maraisroos.co.za" {
		t.Fatalf("To = %q, want operator address", got)
	}
	if !strings.Contains(sender.sent[0].Subject, "Jane Doe") {
		t.Fatalf("Subject = %q, want name included", sender.sent[0].Subject)
	}
}

func TestNotificationDispatchWorkerWork_PortfolioKind(t *testing.T) {
	t.Parallel()

	sender := &recordingSender{}
	w := NewNotificationDispatchWorker(sender, notification.OperatorEmails{
		From: "onboarding@resend.dev",
		To:   "hello@maraisroos.co.za",
	})

	job := &river.Job[NotificationDispatchArgs]{Args: NotificationDispatchArgs{
		NotifyKind:  NotifyKindPortfolio,
		Email:       "recruiter@bigcorp.com",
		Source:      "linkedin",
		SubmittedAt: time.Now().UTC(),
	}}
	if err := w.Work(context.Background(), job); err != nil {
		t.Fatalf("Work() error = %v", err)
	}
	if len(sender.sent) != 1 {
		t.Fatalf("sent %d emails, want 1", len(sender.sent))
	}
	if !strings.Contains(sender.sent[0].Subject, "recruiter@bigcorp.com") {
		t.Fatalf("Subject = %q, want requester included", sender.sent[0].Subject)
	}
}

func TestNotificationDispatchWorkerWork_NoRecipientCompletes(t *testing.T) {
	t.Parallel()

	sender := &recordingSender{}
	w := NewNotificationDispatchWorker(sender, notification.OperatorEmails{From: "onboarding@resend.dev"})

	job := &river.Job[NotificationDispatchArgs]{Args: NotificationDispatchArgs{
		NotifyKind: NotifyKindContact,
	}}
	if err := w.Work(context.Background(), job); err != nil {
		t.Fatalf("Work() error = %v, want nil (skip, not retry)", err)
	}
	if len(sender.sent) != 0 {
		t.Fatalf("sent %d emails, want 0", len(sender.sent))
	}
}

func TestNotificationDispatchWorkerWork_UnknownKindDropped(t *testing.T) {
	t.Parallel()

	sender := &recordingSender{}
	w := NewNotificationDispatchWorker(sender, notification.OperatorEmails{
		From: "onboarding@resend.dev",
		To:   "hello@maraisroos.co.za",
	})

	job := &river.Job[NotificationDispatchArgs]{Args: NotificationDispatchArgs{NotifyKind: "telegram"}}
	if err := w.Work(context.Background(), job); err != nil {
		t.Fatalf("Work() error = %v, want nil (drop, not retry)", err)
	}
	if len(sender.sent) != 0 {
		t.Fatalf("sent %d emails, want 0", len(sender.sent))
	}
}

func TestAuditCleanupArgsKind(t *testing.T) {
	t.Parallel()

	if got := (AuditCleanupArgs{}).Kind(); got != "audit_cleanup" {
		t.Fatalf("Kind() = %q, want %q", got, "audit_cleanup")
	}
}

func TestAuditCleanupArgsInsertOpts(t *testing.T) {
	t.Parallel()

	opts := (AuditCleanupArgs{}).InsertOpts()
	if opts.MaxAttempts != 1 {
		t.Fatalf("MaxAttempts = %d, want 1", opts.MaxAttempts)
	}
	if opts.UniqueOpts.ByPeriod != 24*time.Hour {
		t.Fatalf("UniqueOpts.ByPeriod = %s, want %s", opts.UniqueOpts.ByPeriod, 24*time.Hour)
	}
	if !opts.UniqueOpts.ByQueue {
		t.Fatal("UniqueOpts.ByQueue = false, want true")
	}
}

func TestNewAuditCleanupWorkerRetention(t *testing.T) {
	t.Parallel()

	t.Run("defaults to ninety days when non-positive", func(t *testing.T) {
		w := NewAuditCleanupWorker(nil, 0)
		if w.retention != DefaultAuditRetention {
			t.Fatalf("retention = %s, want %s", w.retention, DefaultAuditRetention)
		}
	})

	t.Run("uses explicit retention when provided", func(t *testing.T) {
		want := 30 * 24 * time.Hour
		w := NewAuditCleanupWorker(nil, want)
		if w.retention != want {
			t.Fatalf("retention = %s, want %s", w.retention, want)
		}
	})
}

func TestAuditCleanupWorkerWork_Uninitialized(t *testing.T) {
	t.Parallel()

	t.Run("nil receiver", func(t *testing.T) {
		var w *AuditCleanupWorker
		err := w.Work(context.Background(), nil)
		if err == nil || !strings.Contains(err.Error(), "not initialized") {
			t.Fatalf("Work() error = %v, want contains %q", err, "not initialized")
		}
	})

	t.Run("nil store", func(t *testing.T) {
		w := &AuditCleanupWorker{}
		err := w.Work(context.Background(), nil)
		if err == nil || !strings.Contains(err.Error(), "not initialized") {
			t.Fatalf("Work() error = %v, want contains %q", err, "not initialized")
		}
	})
}

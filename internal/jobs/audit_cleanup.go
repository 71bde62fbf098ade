package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/riverqueue/river"
	"go.uber.org/zap"

	"maraisroos.co.za/formgate/internal/audit"
	"maraisroos.co.za/formgate/internal/pkg/logger"
)

// DefaultAuditRetention is how long blocked-attempt audit rows are kept when
// no retention is configured.
const DefaultAuditRetention = 90 * 24 * time.Hour

// AuditCleanupArgs is a periodic maintenance job that prunes blocked-attempt
// audit rows. Accepted submissions are kept indefinitely.
type AuditCleanupArgs struct{}

// Kind returns the job kind identifier for periodic audit cleanup.
func (AuditCleanupArgs) Kind() string { return "audit_cleanup" }

// InsertOpts ensures at most one cleanup job is enqueued per day.
func (AuditCleanupArgs) InsertOpts() river.InsertOpts {
	return river.InsertOpts{
		Queue:       river.QueueDefault,
		MaxAttempts: 1,
		UniqueOpts: river.UniqueOpts{
			ByPeriod: 24 * time.Hour,
			ByQueue:  true,
			ByArgs:   true,
		},
	}
}

// AuditCleanupWorker deletes blocked-attempt rows older than the retention.
type AuditCleanupWorker struct {
	river.WorkerDefaults[AuditCleanupArgs]
	store     *audit.Store
	retention time.Duration
}

// NewAuditCleanupWorker creates a cleanup worker. Non-positive retention
// falls back to the 90-day default.
func NewAuditCleanupWorker(store *audit.Store, retention time.Duration) *AuditCleanupWorker {
	if retention <= 0 {
		retention = DefaultAuditRetention
	}
	return &AuditCleanupWorker{store: store, retention: retention}
}

// Work removes expired blocked-attempt rows.
func (w *AuditCleanupWorker) Work(ctx context.Context, _ *river.Job[AuditCleanupArgs]) error {
	if w == nil || w.store == nil {
		return fmt.Errorf("audit cleanup worker is not initialized")
	}

	cutoff := time.Now().UTC().Add(-w.retention)
	deleted, err := w.store.DeleteBlockedBefore(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("delete blocked audit rows before %s: %w", cutoff.Format(time.RFC3339), err)
	}

	logger.Info("audit cleanup completed",
		zap.Int64("deleted_rows", deleted),
		zap.String("cutoff", cutoff.Format(time.RFC3339)),
		zap.Duration("retention", w.retention),
	)
	return nil
}

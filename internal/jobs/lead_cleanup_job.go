package jobs

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/straye-as/pipeline-api/internal/domain"
	"go.uber.org/zap"
)

// LeadCleanupJobName is the scheduler name of the converted lead sweep
const LeadCleanupJobName = "lead_cleanup"

// ConvertedLeadStore finds and removes leads left behind by a conversion
type ConvertedLeadStore interface {
	ListConverted(ctx context.Context, before time.Time, limit int) ([]domain.Lead, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// LeadCleanupJob deletes leads that were marked converted because their
// deletion failed during conversion.
type LeadCleanupJob struct {
	leads     ConvertedLeadStore
	logger    *zap.Logger
	batchSize int
	timeout   time.Duration
	now       func() time.Time
}

func NewLeadCleanupJob(leads ConvertedLeadStore, logger *zap.Logger, batchSize int, timeout time.Duration) *LeadCleanupJob {
	if batchSize < 1 {
		batchSize = 100
	}
	return &LeadCleanupJob{
		leads:     leads,
		logger:    logger,
		batchSize: batchSize,
		timeout:   timeout,
		now:       time.Now,
	}
}

// Run is called by the scheduler
func (j *LeadCleanupJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()
	j.Sweep(ctx)
}

// Sweep deletes one batch of converted leads and returns the deleted and failed counts.
// A lead that fails to delete is left for the next run.
func (j *LeadCleanupJob) Sweep(ctx context.Context) (deleted int, failed int) {
	start := j.now()

	leads, err := j.leads.ListConverted(ctx, start, j.batchSize)
	if err != nil {
		j.logger.Error("failed to list converted leads", zap.Error(err))
		return 0, 0
	}

	for _, lead := range leads {
		if ctx.Err() != nil {
			break
		}
		if err := j.leads.Delete(ctx, lead.ID); err != nil {
			failed++
			j.logger.Warn("failed to delete converted lead",
				zap.String("lead_id", lead.ID.String()),
				zap.Error(err))
			continue
		}
		deleted++
	}

	if deleted > 0 || failed > 0 {
		j.logger.Info("lead cleanup job completed",
			zap.Int("deleted", deleted),
			zap.Int("failed", failed),
			zap.Duration("duration", time.Since(start)))
	}
	return deleted, failed
}

// RegisterLeadCleanupJob registers the converted lead sweep with the scheduler
func RegisterLeadCleanupJob(scheduler *Scheduler, leads ConvertedLeadStore, logger *zap.Logger, cronExpr string, batchSize int, timeout time.Duration) error {
	job := NewLeadCleanupJob(leads, logger, batchSize, timeout)
	return scheduler.AddJob(LeadCleanupJobName, cronExpr, job.Run)
}

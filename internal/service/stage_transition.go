package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/straye-as/pipeline-api/internal/domain"
	"github.com/straye-as/pipeline-api/internal/logger"
	"go.uber.org/zap"
)

// DealStageUpdater confirms a stage change against the system of record
type DealStageUpdater interface {
	UpdateStage(ctx context.Context, actor domain.Actor, id uuid.UUID, stage domain.DealStage) (*domain.Deal, error)
}

// PipelineBoard holds the visible deal collection of a pipeline view.
// The collection is only ever replaced as a whole; readers get copies.
type PipelineBoard struct {
	mu       sync.Mutex
	deals    []domain.Deal
	observer func([]domain.Deal)
}

// NewPipelineBoard creates a board over a copy of deals. observer, when not nil, is
// called with every newly visible collection and must not call back into the board.
func NewPipelineBoard(deals []domain.Deal, observer func([]domain.Deal)) *PipelineBoard {
	return &PipelineBoard{deals: copyDeals(deals), observer: observer}
}

// Deals returns a copy of the visible collection
func (b *PipelineBoard) Deals() []domain.Deal {
	b.mu.Lock()
	defer b.mu.Unlock()
	return copyDeals(b.deals)
}

// replaceLocked swaps in a new collection and notifies the observer
func (b *PipelineBoard) replaceLocked(deals []domain.Deal) {
	b.deals = deals
	if b.observer != nil {
		b.observer(copyDeals(deals))
	}
}

func (b *PipelineBoard) restore(snapshot []domain.Deal) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.replaceLocked(snapshot)
}

func copyDeals(deals []domain.Deal) []domain.Deal {
	out := make([]domain.Deal, len(deals))
	copy(out, deals)
	return out
}

// StageTransitionController moves deals between pipeline columns with an optimistic local update
type StageTransitionController struct {
	updater DealStageUpdater
	logger  *zap.Logger
}

func NewStageTransitionController(updater DealStageUpdater, logger *zap.Logger) *StageTransitionController {
	return &StageTransitionController{updater: updater, logger: logger}
}

// MoveStage makes the move visible on the board immediately, then confirms it.
// A move to the current stage is a no-op. If confirmation fails, the whole board is
// restored to the snapshot taken just before the move and the error is returned.
func (c *StageTransitionController) MoveStage(
	ctx context.Context,
	actor domain.Actor,
	board *PipelineBoard,
	dealID uuid.UUID,
	target domain.DealStage,
) error {
	if !target.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidStage, target)
	}

	board.mu.Lock()
	idx := -1
	for i := range board.deals {
		if board.deals[i].ID == dealID {
			idx = i
			break
		}
	}
	if idx < 0 {
		board.mu.Unlock()
		return ErrDealNotInCollection
	}
	if board.deals[idx].Stage == target {
		board.mu.Unlock()
		return nil
	}

	snapshot := board.deals
	next := copyDeals(snapshot)
	next[idx].Stage = target
	board.replaceLocked(next)
	board.mu.Unlock()

	if _, err := c.updater.UpdateStage(ctx, actor, dealID, target); err != nil {
		board.restore(snapshot)
		logger.WithActor(c.logger, actor).Warn("deal stage move rolled back",
			zap.String("deal_id", dealID.String()),
			zap.String("target_stage", string(target)),
			zap.Error(err),
		)
		return fmt.Errorf("failed to move deal stage: %w", err)
	}
	return nil
}

package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/straye-as/pipeline-api/internal/domain"
	"gorm.io/gorm"
)

type DealStageHistoryRepository struct {
	db *gorm.DB
}

func NewDealStageHistoryRepository(db *gorm.DB) *DealStageHistoryRepository {
	return &DealStageHistoryRepository{db: db}
}

// Create records a new stage transition
func (r *DealStageHistoryRepository) Create(ctx context.Context, history *domain.DealStageHistory) error {
	return r.db.WithContext(ctx).Create(history).Error
}

// GetByDealID returns all stage history for a deal, newest first
func (r *DealStageHistoryRepository) GetByDealID(ctx context.Context, dealID uuid.UUID) ([]domain.DealStageHistory, error) {
	var history []domain.DealStageHistory
	err := r.db.WithContext(ctx).
		Where("deal_id = ?", dealID).
		Order("changed_at DESC").
		Find(&history).Error
	return history, err
}

// RecordTransition is a convenience method to create a stage history record
func (r *DealStageHistoryRepository) RecordTransition(
	ctx context.Context,
	dealID uuid.UUID,
	fromStage *domain.DealStage,
	toStage domain.DealStage,
	actor domain.Actor,
	notes string,
) error {
	history := &domain.DealStageHistory{
		DealID:        dealID,
		FromStage:     fromStage,
		ToStage:       toStage,
		ChangedByID:   actor.UserID,
		ChangedByName: actor.DisplayName,
		Notes:         notes,
		ChangedAt:     time.Now(),
	}
	return r.Create(ctx, history)
}

// DeleteByDealID removes all history for a deal (used when deal is deleted)
func (r *DealStageHistoryRepository) DeleteByDealID(ctx context.Context, dealID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("deal_id = ?", dealID).
		Delete(&domain.DealStageHistory{}).Error
}

package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/straye-as/pipeline-api/internal/domain"
	"gorm.io/gorm"
)

type LeadRepository struct {
	db *gorm.DB
}

func NewLeadRepository(db *gorm.DB) *LeadRepository {
	return &LeadRepository{db: db}
}

func (r *LeadRepository) Create(ctx context.Context, lead *domain.Lead) error {
	return r.db.WithContext(ctx).Create(lead).Error
}

func (r *LeadRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Lead, error) {
	var lead domain.Lead
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&lead).Error
	if err != nil {
		return nil, err
	}
	return &lead, nil
}

// Delete removes a lead. Returns gorm.ErrRecordNotFound when nothing was deleted.
func (r *LeadRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&domain.Lead{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// MarkConverted stamps a lead with the deal it was converted into
func (r *LeadRepository) MarkConverted(ctx context.Context, id, dealID uuid.UUID, at time.Time) error {
	updates := map[string]interface{}{
		"stage":             domain.LeadStageClosedWon,
		"converted_at":      at,
		"converted_deal_id": dealID,
		"updated_at":        time.Now(),
	}
	return r.db.WithContext(ctx).Model(&domain.Lead{}).Where("id = ?", id).Updates(updates).Error
}

// ListConverted returns up to limit leads that were converted before the given time but still exist
func (r *LeadRepository) ListConverted(ctx context.Context, before time.Time, limit int) ([]domain.Lead, error) {
	var leads []domain.Lead
	err := r.db.WithContext(ctx).
		Where("converted_at IS NOT NULL AND converted_at < ?", before).
		Order("converted_at ASC").
		Limit(limit).
		Find(&leads).Error
	return leads, err
}

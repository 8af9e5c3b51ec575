package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/straye-as/pipeline-api/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DealFilters contains the filter options for listing deals
type DealFilters struct {
	Stage   *domain.DealStage
	OwnerID *string
}

type DealRepository struct {
	db *gorm.DB
}

func NewDealRepository(db *gorm.DB) *DealRepository {
	return &DealRepository{db: db}
}

func (r *DealRepository) Create(ctx context.Context, deal *domain.Deal) error {
	// Omit associations to avoid GORM trying to upsert related records
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(deal).Error
}

func (r *DealRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Deal, error) {
	var deal domain.Deal
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&deal).Error
	if err != nil {
		return nil, err
	}
	return &deal, nil
}

func (r *DealRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.Deal{}, "id = ?", id).Error
}

// List returns a page of deals ordered by pipeline column and newest first
func (r *DealRepository) List(ctx context.Context, page, pageSize int, filters *DealFilters) ([]domain.Deal, int64, error) {
	var deals []domain.Deal
	var total int64

	query := r.db.WithContext(ctx).Model(&domain.Deal{})
	if filters != nil {
		if filters.Stage != nil {
			query = query.Where("stage = ?", *filters.Stage)
		}
		if filters.OwnerID != nil {
			query = query.Where("owner_id = ?", *filters.OwnerID)
		}
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Order("created_at DESC").Offset(offset).Limit(pageSize).Find(&deals).Error
	return deals, total, err
}

// UpdateStage updates only the stage and probability columns.
// Returns gorm.ErrRecordNotFound when no deal has the given id.
func (r *DealRepository) UpdateStage(ctx context.Context, id uuid.UUID, stage domain.DealStage, probability int) error {
	updates := map[string]interface{}{
		"stage":       stage,
		"probability": probability,
		"updated_at":  time.Now(),
	}
	result := r.db.WithContext(ctx).Model(&domain.Deal{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

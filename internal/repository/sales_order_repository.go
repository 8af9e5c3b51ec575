package repository

import (
	"context"

	"github.com/straye-as/pipeline-api/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SalesOrderRepository struct {
	db *gorm.DB
}

func NewSalesOrderRepository(db *gorm.DB) *SalesOrderRepository {
	return &SalesOrderRepository{db: db}
}

func (r *SalesOrderRepository) Create(ctx context.Context, order *domain.SalesOrder) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(order).Error
}

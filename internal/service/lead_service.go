package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/straye-as/pipeline-api/internal/domain"
	"github.com/straye-as/pipeline-api/internal/mapper"
	"github.com/straye-as/pipeline-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type LeadService struct {
	leadRepo *repository.LeadRepository
	logger   *zap.Logger
}

func NewLeadService(leadRepo *repository.LeadRepository, logger *zap.Logger) *LeadService {
	return &LeadService{leadRepo: leadRepo, logger: logger}
}

// GetLead loads the lead entity
func (s *LeadService) GetLead(ctx context.Context, id uuid.UUID) (*domain.Lead, error) {
	lead, err := s.leadRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLeadNotFound
		}
		return nil, fmt.Errorf("failed to get lead: %w", err)
	}
	return lead, nil
}

func (s *LeadService) GetByID(ctx context.Context, id uuid.UUID) (*domain.LeadDTO, error) {
	lead, err := s.GetLead(ctx, id)
	if err != nil {
		return nil, err
	}

	dto := mapper.ToLeadDTO(lead)
	return &dto, nil
}

package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/straye-as/pipeline-api/internal/domain"
	"github.com/straye-as/pipeline-api/internal/events"
	"github.com/straye-as/pipeline-api/internal/logger"
	"github.com/straye-as/pipeline-api/internal/mapper"
	"github.com/straye-as/pipeline-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Default probabilities by stage
var stageProbabilities = map[domain.DealStage]int{
	domain.DealStageQualification: 10,
	domain.DealStageDiscovery:     25,
	domain.DealStageProposal:      50,
	domain.DealStageNegotiation:   75,
	domain.DealStageClosedWon:     100,
	domain.DealStageClosedLost:    0,
}

type DealService struct {
	dealRepo    *repository.DealRepository
	historyRepo *repository.DealStageHistoryRepository
	publisher   events.Publisher
	logger      *zap.Logger
}

func NewDealService(
	dealRepo *repository.DealRepository,
	historyRepo *repository.DealStageHistoryRepository,
	publisher events.Publisher,
	logger *zap.Logger,
) *DealService {
	return &DealService{
		dealRepo:    dealRepo,
		historyRepo: historyRepo,
		publisher:   publisher,
		logger:      logger,
	}
}

func (s *DealService) GetByID(ctx context.Context, id uuid.UUID) (*domain.DealDTO, error) {
	deal, err := s.dealRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDealNotFound
		}
		return nil, fmt.Errorf("failed to get deal: %w", err)
	}

	dto := mapper.ToDealDTO(deal)
	return &dto, nil
}

func (s *DealService) List(ctx context.Context, page, pageSize int, filters *repository.DealFilters) (*domain.PaginatedResponse, error) {
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 200 {
		pageSize = 200
	}
	if page < 1 {
		page = 1
	}

	deals, total, err := s.dealRepo.List(ctx, page, pageSize, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list deals: %w", err)
	}

	dtos := make([]domain.DealDTO, len(deals))
	for i := range deals {
		dtos[i] = mapper.ToDealDTO(&deals[i])
	}

	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	return &domain.PaginatedResponse{
		Data:       dtos,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}, nil
}

// UpdateStage persists a stage change on behalf of actor. Any stage may follow any other.
func (s *DealService) UpdateStage(ctx context.Context, actor domain.Actor, id uuid.UUID, stage domain.DealStage) (*domain.Deal, error) {
	return s.changeStage(ctx, actor, id, stage, "")
}

// ChangeStage handles a stage update request and returns the updated deal
func (s *DealService) ChangeStage(ctx context.Context, actor domain.Actor, id uuid.UUID, req *domain.UpdateDealStageRequest) (*domain.DealDTO, error) {
	deal, err := s.changeStage(ctx, actor, id, req.Stage, req.Notes)
	if err != nil {
		return nil, err
	}

	dto := mapper.ToDealDTO(deal)
	return &dto, nil
}

func (s *DealService) changeStage(ctx context.Context, actor domain.Actor, id uuid.UUID, stage domain.DealStage, notes string) (*domain.Deal, error) {
	if !stage.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStage, stage)
	}

	deal, err := s.dealRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDealNotFound
		}
		return nil, fmt.Errorf("failed to get deal: %w", err)
	}

	if deal.Stage == stage {
		return deal, nil
	}

	oldStage := deal.Stage
	probability := stageProbabilities[stage]

	if err := s.dealRepo.UpdateStage(ctx, id, stage, probability); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDealNotFound
		}
		return nil, fmt.Errorf("failed to update deal stage: %w", err)
	}
	deal.Stage = stage
	deal.Probability = probability

	log := logger.WithActor(s.logger, actor)
	if err := s.historyRepo.RecordTransition(ctx, id, &oldStage, stage, actor, notes); err != nil {
		log.Warn("failed to record deal stage history",
			zap.String("deal_id", id.String()),
			zap.Error(err),
		)
	}

	if err := s.publisher.Publish(ctx, events.TypeDealStageChanged, events.DealStageChanged{
		DealID:    id,
		FromStage: oldStage,
		ToStage:   stage,
		ActorID:   actor.UserID,
	}); err != nil {
		log.Warn("failed to publish deal stage event",
			zap.String("deal_id", id.String()),
			zap.Error(err),
		)
	}

	log.Info("deal stage changed",
		zap.String("deal_id", id.String()),
		zap.String("from", string(oldStage)),
		zap.String("to", string(stage)),
	)
	return deal, nil
}

// GetStageHistory returns the stage history for a deal
func (s *DealService) GetStageHistory(ctx context.Context, dealID uuid.UUID) ([]domain.DealStageHistoryDTO, error) {
	if _, err := s.dealRepo.GetByID(ctx, dealID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDealNotFound
		}
		return nil, fmt.Errorf("failed to get deal: %w", err)
	}

	history, err := s.historyRepo.GetByDealID(ctx, dealID)
	if err != nil {
		return nil, fmt.Errorf("failed to get stage history: %w", err)
	}

	dtos := make([]domain.DealStageHistoryDTO, len(history))
	for i := range history {
		dtos[i] = mapper.ToDealStageHistoryDTO(&history[i])
	}
	return dtos, nil
}

package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/straye-as/pipeline-api/internal/auth"
	"github.com/straye-as/pipeline-api/internal/domain"
	"github.com/straye-as/pipeline-api/internal/repository"
	"github.com/straye-as/pipeline-api/internal/service"
	"go.uber.org/zap"
)

type DealHandler struct {
	dealService *service.DealService
	logger      *zap.Logger
}

func NewDealHandler(dealService *service.DealService, logger *zap.Logger) *DealHandler {
	return &DealHandler{
		dealService: dealService,
		logger:      logger,
	}
}

// @Summary List deals
// @Description List pipeline deals with optional stage and owner filters
// @Tags Deals
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Page size" default(20)
// @Param stage query string false "Filter by stage (Qualification, Discovery, Proposal, Negotiation, Closed Won, Closed Lost)"
// @Param ownerId query string false "Filter by owner ID"
// @Success 200 {object} domain.PaginatedResponse
// @Router /deals [get]
func (h *DealHandler) List(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("pageSize"))

	filters := &repository.DealFilters{}
	if s := r.URL.Query().Get("stage"); s != "" {
		stage := domain.DealStage(s)
		if !stage.IsValid() {
			respondWithError(w, http.StatusBadRequest, "Invalid stage filter")
			return
		}
		filters.Stage = &stage
	}
	if o := r.URL.Query().Get("ownerId"); o != "" {
		filters.OwnerID = &o
	}

	result, err := h.dealService.List(r.Context(), page, pageSize, filters)
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to list deals")
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// @Summary Get deal
// @Tags Deals
// @Produce json
// @Param id path string true "Deal ID"
// @Success 200 {object} domain.DealDTO
// @Router /deals/{id} [get]
func (h *DealHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid deal ID: must be a valid UUID")
		return
	}

	deal, err := h.dealService.GetByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to get deal")
		return
	}

	respondJSON(w, http.StatusOK, deal)
}

// @Summary Move deal to a stage
// @Description Move a deal to any pipeline stage. Moving to the current stage is a no-op.
// @Tags Deals
// @Accept json
// @Produce json
// @Param id path string true "Deal ID"
// @Param request body domain.UpdateDealStageRequest true "Target stage"
// @Success 200 {object} domain.DealDTO
// @Router /deals/{id}/stage [put]
func (h *DealHandler) UpdateStage(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid deal ID: must be a valid UUID")
		return
	}

	var req domain.UpdateDealStageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}
	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	actor, ok := auth.ActorFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	deal, err := h.dealService.ChangeStage(r.Context(), actor, id, &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to update deal stage")
		return
	}

	respondJSON(w, http.StatusOK, deal)
}

// @Summary Get deal stage history
// @Tags Deals
// @Produce json
// @Param id path string true "Deal ID"
// @Success 200 {array} domain.DealStageHistoryDTO
// @Router /deals/{id}/history [get]
func (h *DealHandler) GetStageHistory(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid deal ID: must be a valid UUID")
		return
	}

	history, err := h.dealService.GetStageHistory(r.Context(), id)
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to get stage history")
		return
	}

	respondJSON(w, http.StatusOK, history)
}

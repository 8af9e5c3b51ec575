package handler

import (
	"encoding/json"
	"net/http"

	"github.com/straye-as/pipeline-api/internal/domain"
	"github.com/straye-as/pipeline-api/internal/service"
)

type QuoteHandler struct{}

func NewQuoteHandler() *QuoteHandler {
	return &QuoteHandler{}
}

// @Summary Price a quote
// @Description Compute subtotal, discount, tax and total for a set of line items
// @Tags Quotes
// @Accept json
// @Produce json
// @Param request body domain.PriceQuoteRequest true "Line items"
// @Success 200 {object} domain.QuoteDTO
// @Router /quotes/price [post]
func (h *QuoteHandler) Price(w http.ResponseWriter, r *http.Request) {
	var req domain.PriceQuoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}
	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, service.PriceQuoteRequest(&req))
}

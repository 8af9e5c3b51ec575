package handler

import (
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/straye-as/pipeline-api/internal/auth"
	"github.com/straye-as/pipeline-api/internal/domain"
	"github.com/straye-as/pipeline-api/internal/service"
	"go.uber.org/zap"
)

const (
	// multipart parts above this size are spooled to disk
	maxMultipartMemory = 32 << 20
	// room for the JSON payload and multipart framing on top of the documents
	payloadAllowance = 1 << 20
	// gst, pan, aadhar and msme
	maxConversionDocuments = 4
)

type LeadHandler struct {
	leadService       *service.LeadService
	conversionService *service.ConversionService
	maxDocumentSize   int64
	logger            *zap.Logger
}

// NewLeadHandler creates a lead handler. maxDocumentSize bounds the conversion form body;
// 0 leaves it unbounded.
func NewLeadHandler(leadService *service.LeadService, conversionService *service.ConversionService, maxDocumentSize int64, logger *zap.Logger) *LeadHandler {
	return &LeadHandler{
		leadService:       leadService,
		conversionService: conversionService,
		maxDocumentSize:   maxDocumentSize,
		logger:            logger,
	}
}

// @Summary Get lead
// @Tags Leads
// @Produce json
// @Param id path string true "Lead ID"
// @Success 200 {object} domain.LeadDTO
// @Router /leads/{id} [get]
func (h *LeadHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid lead ID: must be a valid UUID")
		return
	}

	lead, err := h.leadService.GetByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to get lead")
		return
	}

	respondJSON(w, http.StatusOK, lead)
}

// @Summary Convert lead
// @Description Convert a won lead into an account, contact, deal and sales order.
// @Description The form carries the JSON request in "payload" and the gst, pan, aadhar and optional msme files.
// @Tags Leads
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Lead ID"
// @Param payload formData string true "domain.ConvertLeadRequest as JSON"
// @Param gst formData file true "GST certificate"
// @Param pan formData file true "PAN card"
// @Param aadhar formData file true "Aadhar card"
// @Param msme formData file false "MSME certificate"
// @Success 201 {object} domain.ConversionResultDTO
// @Router /leads/{id}/convert [post]
func (h *LeadHandler) Convert(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid lead ID: must be a valid UUID")
		return
	}

	actor, ok := auth.ActorFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	if h.maxDocumentSize > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, maxConversionDocuments*h.maxDocumentSize+payloadAllowance)
	}
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondWithError(w, http.StatusRequestEntityTooLarge, "Conversion form exceeds the maximum upload size")
			return
		}
		respondWithError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}
	defer func() {
		_ = r.MultipartForm.RemoveAll()
	}()

	var req domain.ConvertLeadRequest
	if err := json.Unmarshal([]byte(r.FormValue("payload")), &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid payload: malformed JSON")
		return
	}
	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	var docs service.ConversionDocuments
	var closers []multipart.File
	defer func() {
		for _, f := range closers {
			_ = f.Close()
		}
	}()
	for kind, dst := range map[domain.DocumentKind]**domain.Document{
		domain.DocumentGST:    &docs.GST,
		domain.DocumentPAN:    &docs.PAN,
		domain.DocumentAadhar: &docs.Aadhar,
		domain.DocumentMSME:   &docs.MSME,
	} {
		doc, file, err := formDocument(r, kind)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid "+string(kind)+" file")
			return
		}
		if file != nil {
			closers = append(closers, file)
		}
		*dst = doc
	}

	lead, err := h.leadService.GetLead(r.Context(), id)
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to get lead")
		return
	}

	result, err := h.conversionService.Convert(r.Context(), actor, lead, &service.ConversionInput{
		Request:   req,
		Documents: docs,
	})
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to convert lead")
		return
	}

	w.Header().Set("Location", "/api/v1/deals/"+result.Deal.ID.String())
	respondJSON(w, http.StatusCreated, result.ToDTO(lead))
}

// formDocument reads an optional file part. A missing part yields a nil document.
func formDocument(r *http.Request, kind domain.DocumentKind) (*domain.Document, multipart.File, error) {
	file, header, err := r.FormFile(string(kind))
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, err
	}

	return &domain.Document{
		Kind:        kind,
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Content:     file,
	}, file, nil
}

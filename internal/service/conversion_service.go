package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/straye-as/pipeline-api/internal/config"
	"github.com/straye-as/pipeline-api/internal/domain"
	"github.com/straye-as/pipeline-api/internal/events"
	"github.com/straye-as/pipeline-api/internal/logger"
	"github.com/straye-as/pipeline-api/internal/mapper"
	"github.com/straye-as/pipeline-api/internal/phone"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const saleDateLayout = "2006-01-02"

// DocumentUploader stores a document and returns its URL.
// Delete removes a document previously returned by Upload.
type DocumentUploader interface {
	Upload(ctx context.Context, doc domain.Document) (string, error)
	Delete(ctx context.Context, url string) error
}

type AccountStore interface {
	Create(ctx context.Context, account *domain.Account) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type ContactStore interface {
	Create(ctx context.Context, contact *domain.Contact) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type DealStore interface {
	Create(ctx context.Context, deal *domain.Deal) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type SalesOrderStore interface {
	Create(ctx context.Context, order *domain.SalesOrder) error
}

type LeadStore interface {
	Delete(ctx context.Context, id uuid.UUID) error
	MarkConverted(ctx context.Context, id, dealID uuid.UUID, at time.Time) error
}

// ConversionDocuments are the compliance documents of a conversion. MSME is optional.
type ConversionDocuments struct {
	GST    *domain.Document
	PAN    *domain.Document
	Aadhar *domain.Document
	MSME   *domain.Document
}

// ConversionInput is everything the user entered on the conversion form
type ConversionInput struct {
	Request   domain.ConvertLeadRequest
	Documents ConversionDocuments
}

// ConversionResult holds the records created by a successful conversion.
// LeadDeleted is false when the lead still exists afterwards.
type ConversionResult struct {
	Account     *domain.Account
	Contact     *domain.Contact
	Deal        *domain.Deal
	SalesOrder  *domain.SalesOrder
	LeadDeleted bool
}

// ConversionService turns a won lead into an account, contact, deal and sales order
type ConversionService struct {
	uploader  DocumentUploader
	accounts  AccountStore
	contacts  ContactStore
	deals     DealStore
	orders    SalesOrderStore
	leads     LeadStore
	publisher events.Publisher
	cfg       config.ConversionConfig
	logger    *zap.Logger
	now       func() time.Time
}

func NewConversionService(
	uploader DocumentUploader,
	accounts AccountStore,
	contacts ContactStore,
	deals DealStore,
	orders SalesOrderStore,
	leads LeadStore,
	publisher events.Publisher,
	cfg config.ConversionConfig,
	logger *zap.Logger,
) *ConversionService {
	if cfg.UploadConcurrency < 1 {
		cfg.UploadConcurrency = 1
	}
	if cfg.LeadCleanupMode == "" {
		cfg.LeadCleanupMode = config.LeadCleanupDelete
	}
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	return &ConversionService{
		uploader:  uploader,
		accounts:  accounts,
		contacts:  contacts,
		deals:     deals,
		orders:    orders,
		leads:     leads,
		publisher: publisher,
		cfg:       cfg,
		logger:    logger,
		now:       time.Now,
	}
}

// Convert runs the conversion saga for lead:
// validate, upload documents, create account, contact, deal and sales order, then retire the lead.
// Validation failures return a *ValidationError before anything is called. A failing step
// returns a *StepError; records created by earlier steps are kept unless compensation is enabled.
// Failing to retire the lead is logged and does not fail the conversion. Once the sales
// order is stored, the remaining steps run even if ctx has been canceled.
func (s *ConversionService) Convert(ctx context.Context, actor domain.Actor, lead *domain.Lead, input *ConversionInput) (*ConversionResult, error) {
	if lead == nil || input == nil {
		return nil, ErrInvalidInput
	}
	if lead.ConvertedAt != nil {
		return nil, ErrLeadAlreadyConverted
	}
	saleDate, err := validateConversion(input)
	if err != nil {
		return nil, err
	}

	log := logger.WithActor(s.logger, actor).With(zap.String("lead_id", lead.ID.String()))
	log.Info("lead conversion started")

	req := &input.Request
	var undo compensations

	urls, err := s.uploadDocuments(ctx, input.Documents)
	for _, kind := range []domain.DocumentKind{domain.DocumentGST, domain.DocumentPAN, domain.DocumentAadhar, domain.DocumentMSME} {
		if url := urls[kind]; url != "" {
			undo.push("document:"+string(kind), func(ctx context.Context) error { return s.uploader.Delete(ctx, url) })
		}
	}
	if err != nil {
		return nil, s.fail(ctx, log, undo, StepUpload, err)
	}

	account := &domain.Account{
		Name:     strings.TrimSpace(req.Account.Name),
		Industry: req.Account.Industry,
		Type:     req.Account.Type,
		Phone:    phone.NormalizeE164(req.Account.Phone, s.cfg.DefaultPhoneRegion),
		Email:    strings.TrimSpace(req.Account.Email),
		Location: req.Account.Location,
		OwnerID:  actor.UserID,
	}
	if account.Type == "" {
		account.Type = domain.AccountTypeCustomer
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		return nil, s.fail(ctx, log, undo, StepAccountCreation, err)
	}
	undo.push("account", func(ctx context.Context) error { return s.accounts.Delete(ctx, account.ID) })

	contact := &domain.Contact{
		FirstName:          strings.TrimSpace(req.Contact.FirstName),
		LastName:           strings.TrimSpace(req.Contact.LastName),
		Email:              strings.TrimSpace(req.Contact.Email),
		Phone:              phone.NormalizeE164(req.Contact.Phone, s.cfg.DefaultPhoneRegion),
		Designation:        req.Contact.Designation,
		Department:         req.Contact.Department,
		AccountID:          &account.ID,
		OwnerID:            actor.UserID,
		GSTCertificateURL:  urls[domain.DocumentGST],
		PANCardURL:         urls[domain.DocumentPAN],
		AadharCardURL:      urls[domain.DocumentAadhar],
		MSMECertificateURL: urls[domain.DocumentMSME],
	}
	if err := s.contacts.Create(ctx, contact); err != nil {
		return nil, s.fail(ctx, log, undo, StepContactCreation, err)
	}
	undo.push("contact", func(ctx context.Context) error { return s.contacts.Delete(ctx, contact.ID) })

	title := strings.TrimSpace(lead.CompanyName)
	if title == "" {
		title = account.Name
	}
	value := req.Order.Amount
	if value <= 0 {
		value = lead.EstimatedValue
	}
	leadID := lead.ID
	deal := &domain.Deal{
		Title:       title,
		Company:     title,
		AccountID:   &account.ID,
		ContactID:   &contact.ID,
		Value:       value,
		Probability: stageProbabilities[domain.DealStageClosedWon],
		Stage:       domain.DealStageClosedWon,
		OwnerID:     actor.UserID,
		OwnerName:   actor.DisplayName,
		ClosingDate: &saleDate,
		Description: lead.Requirement,
		LeadSource:  lead.Source,
		LeadID:      &leadID,
	}
	if err := s.deals.Create(ctx, deal); err != nil {
		return nil, s.fail(ctx, log, undo, StepDealCreation, err)
	}
	undo.push("deal", func(ctx context.Context) error { return s.deals.Delete(ctx, deal.ID) })

	order := buildSalesOrder(req.Order, deal.ID, account.Name, actor, saleDate)
	if err := s.orders.Create(ctx, order); err != nil {
		return nil, s.fail(ctx, log, undo, StepSalesOrderCreation, err)
	}

	// the records are committed; a client going away must not leave the lead open
	ctx = context.WithoutCancel(ctx)

	result := &ConversionResult{
		Account:    account,
		Contact:    contact,
		Deal:       deal,
		SalesOrder: order,
	}
	result.LeadDeleted = s.retireLead(ctx, log, lead.ID, deal.ID)

	if err := s.publisher.Publish(ctx, events.TypeLeadConverted, events.LeadConverted{
		LeadID:       lead.ID,
		AccountID:    account.ID,
		ContactID:    contact.ID,
		DealID:       deal.ID,
		SalesOrderID: order.ID,
		Amount:       order.Amount,
		LeadDeleted:  result.LeadDeleted,
		ActorID:      actor.UserID,
	}); err != nil {
		log.Warn("failed to publish lead converted event", zap.Error(err))
	}

	log.Info("lead converted",
		zap.String("account_id", account.ID.String()),
		zap.String("contact_id", contact.ID.String()),
		zap.String("deal_id", deal.ID.String()),
		zap.String("sales_order_id", order.ID.String()),
		zap.Bool("lead_deleted", result.LeadDeleted),
	)
	return result, nil
}

// ToDTO converts the result for API responses
func (r *ConversionResult) ToDTO(lead *domain.Lead) domain.ConversionResultDTO {
	return mapper.ToConversionResultDTO(lead, r.Account, r.Contact, r.Deal, r.SalesOrder, r.LeadDeleted)
}

// validateConversion checks every precondition and returns the parsed sale date
func validateConversion(input *ConversionInput) (time.Time, error) {
	req := &input.Request
	verr := NewValidationError()

	if strings.TrimSpace(req.Account.Name) == "" {
		verr.Add("account.name", "account name is required")
	}
	if strings.TrimSpace(req.Contact.FirstName) == "" {
		verr.Add("contact.firstName", "contact first name is required")
	}
	if input.Documents.GST == nil {
		verr.Add("documents.gst", "GST certificate is required")
	}
	if input.Documents.PAN == nil {
		verr.Add("documents.pan", "PAN card is required")
	}
	if input.Documents.Aadhar == nil {
		verr.Add("documents.aadhar", "Aadhar card is required")
	}
	if countProducts(req.Order.ProductIDs) == 0 {
		verr.Add("order.productIds", "at least one product is required")
	}
	if req.Order.Amount <= 0 {
		verr.Add("order.amount", "amount must be greater than zero")
	}

	var saleDate time.Time
	if strings.TrimSpace(req.Order.SaleDate) == "" {
		verr.Add("order.saleDate", "sale date is required")
	} else {
		parsed, err := time.Parse(saleDateLayout, strings.TrimSpace(req.Order.SaleDate))
		if err != nil {
			verr.Add("order.saleDate", "sale date must use the YYYY-MM-DD format")
		}
		saleDate = parsed
	}

	if verr.HasErrors() {
		return time.Time{}, verr
	}
	return saleDate, nil
}

func countProducts(ids []string) int {
	n := 0
	for _, id := range ids {
		if strings.TrimSpace(id) != "" {
			n++
		}
	}
	return n
}

type pendingUpload struct {
	kind domain.DocumentKind
	doc  *domain.Document
}

// uploadDocuments uploads GST, PAN, Aadhar and, when supplied, MSME as one group.
// At most cfg.UploadConcurrency uploads run at once; the first failure cancels the rest.
// The returned map holds the URLs of every document that was stored, also on error.
func (s *ConversionService) uploadDocuments(ctx context.Context, docs ConversionDocuments) (map[domain.DocumentKind]string, error) {
	pending := []pendingUpload{
		{domain.DocumentGST, docs.GST},
		{domain.DocumentPAN, docs.PAN},
		{domain.DocumentAadhar, docs.Aadhar},
	}
	if docs.MSME != nil {
		pending = append(pending, pendingUpload{domain.DocumentMSME, docs.MSME})
	}

	urls := make([]string, len(pending))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.UploadConcurrency)

	for i, p := range pending {
		doc := *p.doc
		doc.Kind = p.kind
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			url, err := s.uploader.Upload(gctx, doc)
			if err != nil {
				return fmt.Errorf("%s: %w", p.kind, err)
			}
			urls[i] = url
			return nil
		})
	}
	err := g.Wait()

	out := make(map[domain.DocumentKind]string, len(pending))
	for i, p := range pending {
		if urls[i] != "" {
			out[p.kind] = urls[i]
		}
	}
	return out, err
}

func buildSalesOrder(in domain.ConversionOrderInput, dealID uuid.UUID, accountName string, actor domain.Actor, saleDate time.Time) *domain.SalesOrder {
	customerName := strings.TrimSpace(in.CustomerName)
	if customerName == "" {
		customerName = accountName
	}
	quantity := in.Quantity
	if quantity <= 0 {
		quantity = 1
	}
	status := in.PaymentStatus
	if status == "" {
		status = domain.PaymentStatusPending
	}

	productIDs := make([]string, 0, len(in.ProductIDs))
	for _, id := range in.ProductIDs {
		if id = strings.TrimSpace(id); id != "" {
			productIDs = append(productIDs, id)
		}
	}

	return &domain.SalesOrder{
		DealID:         dealID,
		PartnerID:      in.PartnerID,
		OwnerID:        actor.UserID,
		CustomerName:   customerName,
		Quantity:       quantity,
		Amount:         in.Amount,
		ProductIDs:     productIDs,
		SaleDate:       saleDate,
		PaymentStatus:  status,
		PONumber:       in.PONumber,
		InvoiceNumber:  in.InvoiceNumber,
		DispatchMethod: in.DispatchMethod,
		PaymentTerms:   in.PaymentTerms,
	}
}

// retireLead deletes or marks the lead according to the cleanup mode and reports whether it was deleted
func (s *ConversionService) retireLead(ctx context.Context, log *zap.Logger, leadID, dealID uuid.UUID) bool {
	if s.cfg.LeadCleanupMode == config.LeadCleanupDelete {
		err := s.leads.Delete(ctx, leadID)
		if err == nil {
			return true
		}
		log.Warn("failed to delete converted lead, marking it converted instead", zap.Error(err))
	}

	if err := s.leads.MarkConverted(ctx, leadID, dealID, s.now().UTC()); err != nil {
		log.Warn("failed to mark lead converted", zap.Error(err))
	}
	return false
}

// fail wraps a step failure and runs compensation when it is enabled
func (s *ConversionService) fail(ctx context.Context, log *zap.Logger, undo compensations, step string, err error) error {
	stepErr := &StepError{Step: step, Err: err}
	log.Warn("lead conversion step failed", zap.String("step", step), zap.Error(err))

	if s.cfg.CompensateOnFailure {
		undo.run(context.WithoutCancel(ctx), log)
	}
	return stepErr
}

type compensation struct {
	name string
	fn   func(ctx context.Context) error
}

// compensations are run in reverse order of registration
type compensations []compensation

func (c *compensations) push(name string, fn func(ctx context.Context) error) {
	*c = append(*c, compensation{name: name, fn: fn})
}

func (c compensations) run(ctx context.Context, log *zap.Logger) {
	for i := len(c) - 1; i >= 0; i-- {
		if err := c[i].fn(ctx); err != nil {
			log.Error("failed to compensate conversion step",
				zap.String("record", c[i].name),
				zap.Error(err),
			)
		}
	}
}

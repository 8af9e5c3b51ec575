package domain

import (
	"github.com/google/uuid"
)

// DTOs for API responses

type LeadDTO struct {
	ID              uuid.UUID  `json:"id"`
	CompanyName     string     `json:"companyName"`
	ContactPerson   string     `json:"contactPerson,omitempty"`
	Email           string     `json:"email,omitempty"`
	Phone           string     `json:"phone,omitempty"`
	Stage           LeadStage  `json:"stage"`
	EstimatedValue  float64    `json:"estimatedValue"`
	Source          string     `json:"source,omitempty"`
	Priority        string     `json:"priority,omitempty"`
	OwnerID         string     `json:"ownerId,omitempty"`
	OwnerName       string     `json:"ownerName,omitempty"`
	Requirement     string     `json:"requirement,omitempty"`
	ConvertedAt     *string    `json:"convertedAt,omitempty"`
	ConvertedDealID *uuid.UUID `json:"convertedDealId,omitempty"`
	CreatedAt       string     `json:"createdAt"`
	UpdatedAt       string     `json:"updatedAt"`
}

type AccountDTO struct {
	ID        uuid.UUID   `json:"id"`
	Name      string      `json:"name"`
	Industry  string      `json:"industry,omitempty"`
	Type      AccountType `json:"type"`
	Phone     string      `json:"phone,omitempty"`
	Email     string      `json:"email,omitempty"`
	Location  string      `json:"location,omitempty"`
	OwnerID   string      `json:"ownerId"`
	CreatedAt string      `json:"createdAt"`
	UpdatedAt string      `json:"updatedAt"`
}

type ContactDTO struct {
	ID                 uuid.UUID  `json:"id"`
	FirstName          string     `json:"firstName"`
	LastName           string     `json:"lastName,omitempty"`
	FullName           string     `json:"fullName"`
	Email              string     `json:"email,omitempty"`
	Phone              string     `json:"phone,omitempty"`
	Designation        string     `json:"designation,omitempty"`
	Department         string     `json:"department,omitempty"`
	AccountID          *uuid.UUID `json:"accountId,omitempty"`
	OwnerID            string     `json:"ownerId"`
	GSTCertificateURL  string     `json:"gstCertificateUrl,omitempty"`
	PANCardURL         string     `json:"panCardUrl,omitempty"`
	AadharCardURL      string     `json:"aadharCardUrl,omitempty"`
	MSMECertificateURL string     `json:"msmeCertificateUrl,omitempty"`
	CreatedAt          string     `json:"createdAt"`
	UpdatedAt          string     `json:"updatedAt"`
}

type DealDTO struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	Company     string     `json:"company,omitempty"`
	AccountID   *uuid.UUID `json:"accountId,omitempty"`
	ContactID   *uuid.UUID `json:"contactId,omitempty"`
	Value       float64    `json:"value"`
	Probability int        `json:"probability"`
	Stage       DealStage  `json:"stage"`
	OwnerID     string     `json:"ownerId"`
	OwnerName   string     `json:"ownerName,omitempty"`
	ClosingDate *string    `json:"closingDate,omitempty"`
	Description string     `json:"description,omitempty"`
	LeadSource  string     `json:"leadSource,omitempty"`
	LeadID      *uuid.UUID `json:"leadId,omitempty"`
	CreatedAt   string     `json:"createdAt"`
	UpdatedAt   string     `json:"updatedAt"`
}

type DealStageHistoryDTO struct {
	ID            uuid.UUID  `json:"id"`
	DealID        uuid.UUID  `json:"dealId"`
	FromStage     *DealStage `json:"fromStage,omitempty"`
	ToStage       DealStage  `json:"toStage"`
	ChangedByID   string     `json:"changedById"`
	ChangedByName string     `json:"changedByName,omitempty"`
	Notes         string     `json:"notes,omitempty"`
	ChangedAt     string     `json:"changedAt"`
}

type SalesOrderDTO struct {
	ID             uuid.UUID     `json:"id"`
	DealID         uuid.UUID     `json:"dealId"`
	PartnerID      *string       `json:"partnerId,omitempty"`
	OwnerID        string        `json:"ownerId"`
	CustomerName   string        `json:"customerName,omitempty"`
	Quantity       int           `json:"quantity"`
	Amount         float64       `json:"amount"`
	ProductIDs     []string      `json:"productIds"`
	SaleDate       string        `json:"saleDate"`
	PaymentStatus  PaymentStatus `json:"paymentStatus"`
	PONumber       string        `json:"poNumber,omitempty"`
	InvoiceNumber  string        `json:"invoiceNumber,omitempty"`
	DispatchMethod string        `json:"dispatchMethod,omitempty"`
	PaymentTerms   string        `json:"paymentTerms,omitempty"`
	CreatedAt      string        `json:"createdAt"`
}

// ConversionResultDTO is returned after a lead has been converted
type ConversionResultDTO struct {
	Account     AccountDTO    `json:"account"`
	Contact     ContactDTO    `json:"contact"`
	Deal        DealDTO       `json:"deal"`
	SalesOrder  SalesOrderDTO `json:"salesOrder"`
	LeadID      uuid.UUID     `json:"leadId"`
	LeadDeleted bool          `json:"leadDeleted"`
}

// QuoteDTO holds priced totals for a set of line items
type QuoteDTO struct {
	Subtotal       float64 `json:"subtotal"`
	DiscountAmount float64 `json:"discountAmount"`
	TaxableAmount  float64 `json:"taxableAmount"`
	TaxRatePercent float64 `json:"taxRatePercent"`
	TaxAmount      float64 `json:"taxAmount"`
	Total          float64 `json:"total"`
}

// Request DTOs

type UpdateDealStageRequest struct {
	Stage DealStage `json:"stage" validate:"required"`
	Notes string    `json:"notes,omitempty" validate:"max=1000"`
}

// ConversionAccountInput holds the account form fields of a lead conversion
type ConversionAccountInput struct {
	Name     string      `json:"name" validate:"max=200"`
	Industry string      `json:"industry,omitempty" validate:"max=100"`
	Type     AccountType `json:"type,omitempty" validate:"omitempty,oneof=Customer Prospect Partner"`
	Phone    string      `json:"phone,omitempty" validate:"max=50"`
	Email    string      `json:"email,omitempty" validate:"omitempty,email"`
	Location string      `json:"location,omitempty" validate:"max=500"`
}

// ConversionContactInput holds the contact form fields of a lead conversion
type ConversionContactInput struct {
	FirstName   string `json:"firstName" validate:"max=100"`
	LastName    string `json:"lastName,omitempty" validate:"max=100"`
	Email       string `json:"email,omitempty" validate:"omitempty,email"`
	Phone       string `json:"phone,omitempty" validate:"max=50"`
	Designation string `json:"designation,omitempty" validate:"max=100"`
	Department  string `json:"department,omitempty" validate:"max=100"`
}

// ConversionOrderInput holds the sales order fields of a lead conversion.
// SaleDate uses the YYYY-MM-DD format.
type ConversionOrderInput struct {
	PartnerID      *string       `json:"partnerId,omitempty"`
	CustomerName   string        `json:"customerName,omitempty" validate:"max=200"`
	Quantity       int           `json:"quantity" validate:"gte=0"`
	Amount         float64       `json:"amount"`
	ProductIDs     []string      `json:"productIds"`
	SaleDate       string        `json:"saleDate"`
	PaymentStatus  PaymentStatus `json:"paymentStatus,omitempty" validate:"omitempty,oneof=Pending Partial Paid"`
	PONumber       string        `json:"poNumber,omitempty" validate:"max=100"`
	InvoiceNumber  string        `json:"invoiceNumber,omitempty" validate:"max=100"`
	DispatchMethod string        `json:"dispatchMethod,omitempty" validate:"max=100"`
	PaymentTerms   string        `json:"paymentTerms,omitempty" validate:"max=200"`
}

// ConvertLeadRequest is the JSON payload of a lead conversion
type ConvertLeadRequest struct {
	Account ConversionAccountInput `json:"account"`
	Contact ConversionContactInput `json:"contact"`
	Order   ConversionOrderInput   `json:"order"`
}

// QuoteLineItemRequest is a single priced line
type QuoteLineItemRequest struct {
	ProductID string  `json:"productId,omitempty"`
	Quantity  float64 `json:"quantity" validate:"gt=0"`
	UnitPrice float64 `json:"unitPrice" validate:"gte=0"`
}

// PriceQuoteRequest asks for totals over a set of line items
type PriceQuoteRequest struct {
	Items          []QuoteLineItemRequest `json:"items" validate:"required,min=1,dive"`
	DiscountAmount float64                `json:"discountAmount" validate:"gte=0"`
	TaxRatePercent float64                `json:"taxRatePercent" validate:"gte=0,lte=100"`
}

// PaginatedResponse wraps list results
type PaginatedResponse struct {
	Data       interface{} `json:"data"`
	Total      int64       `json:"total"`
	Page       int         `json:"page"`
	PageSize   int         `json:"pageSize"`
	TotalPages int         `json:"totalPages"`
}

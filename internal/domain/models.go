package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base model with common fields
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// BeforeCreate assigns an ID when the caller has not set one
func (m *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// LeadStage represents the position of a lead in the lead pipeline
type LeadStage string

const (
	LeadStageNew         LeadStage = "New"
	LeadStageContacted   LeadStage = "Contacted"
	LeadStageProposal    LeadStage = "Proposal"
	LeadStageNegotiation LeadStage = "Negotiation"
	LeadStageCold        LeadStage = "Cold"
	LeadStageClosedWon   LeadStage = "Closed Won"
	LeadStageClosedLost  LeadStage = "Closed Lost"
)

// IsValid checks if the LeadStage is a valid enum value
func (s LeadStage) IsValid() bool {
	switch s {
	case LeadStageNew, LeadStageContacted, LeadStageProposal, LeadStageNegotiation,
		LeadStageCold, LeadStageClosedWon, LeadStageClosedLost:
		return true
	}
	return false
}

// Lead is a prospective customer that has not been converted yet
type Lead struct {
	BaseModel
	CompanyName     string     `gorm:"type:varchar(200);not null;column:company_name"`
	ContactPerson   string     `gorm:"type:varchar(200);column:contact_person"`
	Email           string     `gorm:"type:varchar(255)"`
	Phone           string     `gorm:"type:varchar(50)"`
	Stage           LeadStage  `gorm:"type:varchar(50);not null;default:'New';index"`
	EstimatedValue  float64    `gorm:"type:decimal(15,2);not null;default:0;column:estimated_value"`
	Source          string     `gorm:"type:varchar(100)"`
	Priority        string     `gorm:"type:varchar(50)"`
	OwnerID         string     `gorm:"type:varchar(100);column:owner_id"`
	OwnerName       string     `gorm:"type:varchar(200);column:owner_name"`
	Requirement     string     `gorm:"type:text"`
	ConvertedAt     *time.Time `gorm:"column:converted_at;index"`
	ConvertedDealID *uuid.UUID `gorm:"type:uuid;column:converted_deal_id"`
}

// AccountType classifies the relationship with an organization
type AccountType string

const (
	AccountTypeCustomer AccountType = "Customer"
	AccountTypeProspect AccountType = "Prospect"
	AccountTypePartner  AccountType = "Partner"
)

// Account represents a customer, prospect or partner organization
type Account struct {
	BaseModel
	Name     string      `gorm:"type:varchar(200);not null;index"`
	Industry string      `gorm:"type:varchar(100)"`
	Type     AccountType `gorm:"type:varchar(50);not null;default:'Customer'"`
	Phone    string      `gorm:"type:varchar(50)"`
	Email    string      `gorm:"type:varchar(255)"`
	Location string      `gorm:"type:varchar(500)"`
	OwnerID  string      `gorm:"type:varchar(100);not null;column:owner_id"`
}

// Contact represents an individual person working for an account
type Contact struct {
	BaseModel
	FirstName          string     `gorm:"type:varchar(100);not null;column:first_name"`
	LastName           string     `gorm:"type:varchar(100);column:last_name"`
	Email              string     `gorm:"type:varchar(255)"`
	Phone              string     `gorm:"type:varchar(50)"`
	Designation        string     `gorm:"type:varchar(100)"`
	Department         string     `gorm:"type:varchar(100)"`
	AccountID          *uuid.UUID `gorm:"type:uuid;index;column:account_id"`
	Account            *Account   `gorm:"foreignKey:AccountID"`
	OwnerID            string     `gorm:"type:varchar(100);not null;column:owner_id"`
	GSTCertificateURL  string     `gorm:"type:varchar(1000);column:gst_certificate_url"`
	PANCardURL         string     `gorm:"type:varchar(1000);column:pan_card_url"`
	AadharCardURL      string     `gorm:"type:varchar(1000);column:aadhar_card_url"`
	MSMECertificateURL string     `gorm:"type:varchar(1000);column:msme_certificate_url"`
}

// FullName returns the contact's full name
func (c *Contact) FullName() string {
	if c.LastName == "" {
		return c.FirstName
	}
	return c.FirstName + " " + c.LastName
}

// DealStage represents the stage of a deal in the sales pipeline
type DealStage string

const (
	DealStageQualification DealStage = "Qualification"
	DealStageDiscovery     DealStage = "Discovery"
	DealStageProposal      DealStage = "Proposal"
	DealStageNegotiation   DealStage = "Negotiation"
	DealStageClosedWon     DealStage = "Closed Won"
	DealStageClosedLost    DealStage = "Closed Lost"
)

// DealStages lists the pipeline columns in display order
var DealStages = []DealStage{
	DealStageQualification,
	DealStageDiscovery,
	DealStageProposal,
	DealStageNegotiation,
	DealStageClosedWon,
	DealStageClosedLost,
}

// IsValid checks if the DealStage is a valid enum value
func (s DealStage) IsValid() bool {
	for _, stage := range DealStages {
		if stage == s {
			return true
		}
	}
	return false
}

// Deal represents a sales opportunity in the pipeline
type Deal struct {
	BaseModel
	Title       string     `gorm:"type:varchar(200);not null"`
	Company     string     `gorm:"type:varchar(200)"`
	AccountID   *uuid.UUID `gorm:"type:uuid;index;column:account_id"`
	Account     *Account   `gorm:"foreignKey:AccountID"`
	ContactID   *uuid.UUID `gorm:"type:uuid;index;column:contact_id"`
	Contact     *Contact   `gorm:"foreignKey:ContactID"`
	Value       float64    `gorm:"type:decimal(15,2);not null;default:0"`
	Probability int        `gorm:"type:int;not null;default:0"`
	Stage       DealStage  `gorm:"type:varchar(50);not null;default:'Qualification';index"`
	OwnerID     string     `gorm:"type:varchar(100);not null;column:owner_id"`
	OwnerName   string     `gorm:"type:varchar(200);column:owner_name"`
	ClosingDate *time.Time `gorm:"type:date;column:closing_date"`
	Description string     `gorm:"type:text"`
	LeadSource  string     `gorm:"type:varchar(100);column:lead_source"`
	LeadID      *uuid.UUID `gorm:"type:uuid;column:lead_id"`
}

// DealStageHistory tracks stage changes for audit purposes
type DealStageHistory struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey"`
	DealID        uuid.UUID  `gorm:"type:uuid;not null;index;column:deal_id"`
	FromStage     *DealStage `gorm:"type:varchar(50);column:from_stage"`
	ToStage       DealStage  `gorm:"type:varchar(50);not null;column:to_stage"`
	ChangedByID   string     `gorm:"type:varchar(100);not null;column:changed_by_id"`
	ChangedByName string     `gorm:"type:varchar(200);column:changed_by_name"`
	Notes         string     `gorm:"type:text"`
	ChangedAt     time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP;column:changed_at"`
}

// TableName overrides the default table name to match the migration
func (DealStageHistory) TableName() string {
	return "deal_stage_history"
}

func (h *DealStageHistory) BeforeCreate(tx *gorm.DB) error {
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	return nil
}

// PaymentStatus represents how much of a sales order has been paid
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "Pending"
	PaymentStatusPartial PaymentStatus = "Partial"
	PaymentStatusPaid    PaymentStatus = "Paid"
)

// SalesOrder is the commercial transaction tied to a won deal
type SalesOrder struct {
	BaseModel
	DealID         uuid.UUID     `gorm:"type:uuid;not null;index;column:deal_id"`
	Deal           *Deal         `gorm:"foreignKey:DealID"`
	PartnerID      *string       `gorm:"type:varchar(100);column:partner_id"`
	OwnerID        string        `gorm:"type:varchar(100);not null;column:owner_id"`
	CustomerName   string        `gorm:"type:varchar(200);column:customer_name"`
	Quantity       int           `gorm:"type:int;not null;default:1"`
	Amount         float64       `gorm:"type:decimal(15,2);not null"`
	ProductIDs     []string      `gorm:"type:text;serializer:json;column:product_ids"`
	SaleDate       time.Time     `gorm:"type:date;not null;column:sale_date"`
	PaymentStatus  PaymentStatus `gorm:"type:varchar(50);not null;default:'Pending';column:payment_status"`
	PONumber       string        `gorm:"type:varchar(100);column:po_number"`
	InvoiceNumber  string        `gorm:"type:varchar(100);column:invoice_number"`
	DispatchMethod string        `gorm:"type:varchar(100);column:dispatch_method"`
	PaymentTerms   string        `gorm:"type:varchar(200);column:payment_terms"`
}

// Actor identifies the user on whose behalf an operation runs
type Actor struct {
	UserID      string
	DisplayName string
}

package mapper

import (
	"time"

	"github.com/straye-as/pipeline-api/internal/domain"
)

const (
	timestampLayout = "2006-01-02T15:04:05Z"
	dateLayout      = "2006-01-02"
)

// ToLeadDTO converts Lead to LeadDTO
func ToLeadDTO(lead *domain.Lead) domain.LeadDTO {
	dto := domain.LeadDTO{
		ID:              lead.ID,
		CompanyName:     lead.CompanyName,
		ContactPerson:   lead.ContactPerson,
		Email:           lead.Email,
		Phone:           lead.Phone,
		Stage:           lead.Stage,
		EstimatedValue:  lead.EstimatedValue,
		Source:          lead.Source,
		Priority:        lead.Priority,
		OwnerID:         lead.OwnerID,
		OwnerName:       lead.OwnerName,
		Requirement:     lead.Requirement,
		ConvertedDealID: lead.ConvertedDealID,
		CreatedAt:       lead.CreatedAt.Format(timestampLayout),
		UpdatedAt:       lead.UpdatedAt.Format(timestampLayout),
	}
	dto.ConvertedAt = formatOptional(lead.ConvertedAt, timestampLayout)
	return dto
}

// ToAccountDTO converts Account to AccountDTO
func ToAccountDTO(account *domain.Account) domain.AccountDTO {
	return domain.AccountDTO{
		ID:        account.ID,
		Name:      account.Name,
		Industry:  account.Industry,
		Type:      account.Type,
		Phone:     account.Phone,
		Email:     account.Email,
		Location:  account.Location,
		OwnerID:   account.OwnerID,
		CreatedAt: account.CreatedAt.Format(timestampLayout),
		UpdatedAt: account.UpdatedAt.Format(timestampLayout),
	}
}

// ToContactDTO converts Contact to ContactDTO
func ToContactDTO(contact *domain.Contact) domain.ContactDTO {
	return domain.ContactDTO{
		ID:                 contact.ID,
		FirstName:          contact.FirstName,
		LastName:           contact.LastName,
		FullName:           contact.FullName(),
		Email:              contact.Email,
		Phone:              contact.Phone,
		Designation:        contact.Designation,
		Department:         contact.Department,
		AccountID:          contact.AccountID,
		OwnerID:            contact.OwnerID,
		GSTCertificateURL:  contact.GSTCertificateURL,
		PANCardURL:         contact.PANCardURL,
		AadharCardURL:      contact.AadharCardURL,
		MSMECertificateURL: contact.MSMECertificateURL,
		CreatedAt:          contact.CreatedAt.Format(timestampLayout),
		UpdatedAt:          contact.UpdatedAt.Format(timestampLayout),
	}
}

// ToDealDTO converts Deal to DealDTO
func ToDealDTO(deal *domain.Deal) domain.DealDTO {
	return domain.DealDTO{
		ID:          deal.ID,
		Title:       deal.Title,
		Company:     deal.Company,
		AccountID:   deal.AccountID,
		ContactID:   deal.ContactID,
		Value:       deal.Value,
		Probability: deal.Probability,
		Stage:       deal.Stage,
		OwnerID:     deal.OwnerID,
		OwnerName:   deal.OwnerName,
		ClosingDate: formatOptional(deal.ClosingDate, dateLayout),
		Description: deal.Description,
		LeadSource:  deal.LeadSource,
		LeadID:      deal.LeadID,
		CreatedAt:   deal.CreatedAt.Format(timestampLayout),
		UpdatedAt:   deal.UpdatedAt.Format(timestampLayout),
	}
}

// ToDealStageHistoryDTO converts DealStageHistory to DealStageHistoryDTO
func ToDealStageHistoryDTO(history *domain.DealStageHistory) domain.DealStageHistoryDTO {
	return domain.DealStageHistoryDTO{
		ID:            history.ID,
		DealID:        history.DealID,
		FromStage:     history.FromStage,
		ToStage:       history.ToStage,
		ChangedByID:   history.ChangedByID,
		ChangedByName: history.ChangedByName,
		Notes:         history.Notes,
		ChangedAt:     history.ChangedAt.Format(timestampLayout),
	}
}

// ToSalesOrderDTO converts SalesOrder to SalesOrderDTO
func ToSalesOrderDTO(order *domain.SalesOrder) domain.SalesOrderDTO {
	productIDs := order.ProductIDs
	if productIDs == nil {
		productIDs = []string{}
	}
	return domain.SalesOrderDTO{
		ID:             order.ID,
		DealID:         order.DealID,
		PartnerID:      order.PartnerID,
		OwnerID:        order.OwnerID,
		CustomerName:   order.CustomerName,
		Quantity:       order.Quantity,
		Amount:         order.Amount,
		ProductIDs:     productIDs,
		SaleDate:       order.SaleDate.Format(dateLayout),
		PaymentStatus:  order.PaymentStatus,
		PONumber:       order.PONumber,
		InvoiceNumber:  order.InvoiceNumber,
		DispatchMethod: order.DispatchMethod,
		PaymentTerms:   order.PaymentTerms,
		CreatedAt:      order.CreatedAt.Format(timestampLayout),
	}
}

// ToConversionResultDTO assembles the records produced by a lead conversion
func ToConversionResultDTO(
	lead *domain.Lead,
	account *domain.Account,
	contact *domain.Contact,
	deal *domain.Deal,
	order *domain.SalesOrder,
	leadDeleted bool,
) domain.ConversionResultDTO {
	return domain.ConversionResultDTO{
		Account:     ToAccountDTO(account),
		Contact:     ToContactDTO(contact),
		Deal:        ToDealDTO(deal),
		SalesOrder:  ToSalesOrderDTO(order),
		LeadID:      lead.ID,
		LeadDeleted: leadDeleted,
	}
}

func formatOptional(t *time.Time, layout string) *string {
	if t == nil {
		return nil
	}
	s := t.Format(layout)
	return &s
}

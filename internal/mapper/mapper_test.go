package mapper_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/straye-as/pipeline-api/internal/domain"
	"github.com/straye-as/pipeline-api/internal/mapper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToDealDTO(t *testing.T) {
	closing := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	leadID := uuid.New()
	deal := &domain.Deal{
		Title:       "Acme",
		Value:       1500,
		Probability: 100,
		Stage:       domain.DealStageClosedWon,
		OwnerID:     "u1",
		ClosingDate: &closing,
		LeadID:      &leadID,
	}
	deal.CreatedAt = time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC)

	dto := mapper.ToDealDTO(deal)

	require.NotNil(t, dto.ClosingDate)
	assert.Equal(t, "2024-03-15", *dto.ClosingDate)
	assert.Equal(t, "2024-03-01T10:30:00Z", dto.CreatedAt)
	assert.Equal(t, &leadID, dto.LeadID)
	assert.Equal(t, domain.DealStageClosedWon, dto.Stage)
}

func TestToLeadDTO_Converted(t *testing.T) {
	at := time.Date(2024, 3, 15, 8, 0, 0, 0, time.UTC)
	dealID := uuid.New()
	lead := &domain.Lead{CompanyName: "Acme", ConvertedAt: &at, ConvertedDealID: &dealID}

	dto := mapper.ToLeadDTO(lead)

	require.NotNil(t, dto.ConvertedAt)
	assert.Equal(t, "2024-03-15T08:00:00Z", *dto.ConvertedAt)
	assert.Equal(t, &dealID, dto.ConvertedDealID)

	assert.Nil(t, mapper.ToLeadDTO(&domain.Lead{}).ConvertedAt)
}

func TestToSalesOrderDTO_EmptyProducts(t *testing.T) {
	dto := mapper.ToSalesOrderDTO(&domain.SalesOrder{SaleDate: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)})

	assert.NotNil(t, dto.ProductIDs)
	assert.Empty(t, dto.ProductIDs)
	assert.Equal(t, "2024-01-02", dto.SaleDate)
}

func TestToContactDTO_FullName(t *testing.T) {
	assert.Equal(t, "Jane Doe", mapper.ToContactDTO(&domain.Contact{FirstName: "Jane", LastName: "Doe"}).FullName)
	assert.Equal(t, "Jane", mapper.ToContactDTO(&domain.Contact{FirstName: "Jane"}).FullName)
}

package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/straye-as/pipeline-api/internal/domain"
	"github.com/straye-as/pipeline-api/internal/repository"
	"github.com/straye-as/pipeline-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestAccountContactRepositories(t *testing.T) {
	db := testutil.SetupTestDB(t)
	accounts := repository.NewAccountRepository(db)
	contacts := repository.NewContactRepository(db)
	ctx := context.Background()

	account := &domain.Account{Name: "Acme", Type: domain.AccountTypeCustomer, OwnerID: "user-1"}
	require.NoError(t, accounts.Create(ctx, account))

	contact := &domain.Contact{
		FirstName:         "Jane",
		AccountID:         &account.ID,
		OwnerID:           "user-1",
		GSTCertificateURL: "https://files/gst.pdf",
	}
	require.NoError(t, contacts.Create(ctx, contact))

	got, err := contacts.GetByID(ctx, contact.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Account)
	assert.Equal(t, "Acme", got.Account.Name)
	assert.Equal(t, "https://files/gst.pdf", got.GSTCertificateURL)

	var count int64
	require.NoError(t, db.Model(&domain.Contact{}).Where("account_id = ?", account.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	require.NoError(t, contacts.Delete(ctx, contact.ID))
	require.NoError(t, accounts.Delete(ctx, account.ID))
	_, err = accounts.GetByID(ctx, account.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestSalesOrderRepository_ProductIDsRoundTrip(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewSalesOrderRepository(db)
	ctx := context.Background()

	deal := testutil.CreateTestDeal(t, db, "Acme", domain.DealStageClosedWon)
	order := &domain.SalesOrder{
		DealID:        deal.ID,
		OwnerID:       "user-1",
		Quantity:      2,
		Amount:        50000,
		ProductIDs:    []string{"p1", "p2"},
		SaleDate:      time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC),
		PaymentStatus: domain.PaymentStatusPending,
	}
	require.NoError(t, repo.Create(ctx, order))

	var orders []domain.SalesOrder
	require.NoError(t, db.Where("deal_id = ?", deal.ID).Find(&orders).Error)
	require.Len(t, orders, 1)
	assert.Equal(t, []string{"p1", "p2"}, orders[0].ProductIDs)
	assert.Equal(t, 50000.0, orders[0].Amount)
}

func TestLeadRepository_DeleteAndMarkConverted(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewLeadRepository(db)
	ctx := context.Background()

	lead := testutil.CreateTestLead(t, db, "Acme", 50000)
	dealID := uuid.New()
	convertedAt := time.Now().UTC().Add(-time.Hour)

	require.NoError(t, repo.MarkConverted(ctx, lead.ID, dealID, convertedAt))

	got, err := repo.GetByID(ctx, lead.ID)
	require.NoError(t, err)
	require.NotNil(t, got.ConvertedAt)
	require.NotNil(t, got.ConvertedDealID)
	assert.Equal(t, dealID, *got.ConvertedDealID)
	assert.Equal(t, domain.LeadStageClosedWon, got.Stage)

	pending, err := repo.ListConverted(ctx, time.Now().UTC(), 10)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, lead.ID, pending[0].ID)

	require.NoError(t, repo.Delete(ctx, lead.ID))
	assert.ErrorIs(t, repo.Delete(ctx, lead.ID), gorm.ErrRecordNotFound)
}

func TestLeadRepository_ListConverted_SkipsOpenLeads(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewLeadRepository(db)

	testutil.CreateTestLead(t, db, "Still open", 1000)

	pending, err := repo.ListConverted(context.Background(), time.Now().UTC(), 10)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

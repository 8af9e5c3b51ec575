package testutil

import (
	"testing"
	"time"

	"github.com/straye-as/pipeline-api/internal/database"
	"github.com/straye-as/pipeline-api/internal/domain"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SetupTestDB opens an in-memory SQLite database with the pipeline schema.
// The pool is pinned to one connection so every query sees the same memory database.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Silent),
		DisableForeignKeyConstraintWhenMigrating: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.AutoMigrate(db))
	return db
}

// CreateTestLead creates a lead with sensible defaults
func CreateTestLead(t *testing.T, db *gorm.DB, companyName string, estimatedValue float64) *domain.Lead {
	t.Helper()

	lead := &domain.Lead{
		CompanyName:    companyName,
		ContactPerson:  "Jane Doe",
		Email:          "jane@example.com",
		Stage:          domain.LeadStageNegotiation,
		EstimatedValue: estimatedValue,
		Source:         "Website",
		Priority:       "High",
		OwnerID:        "test-user-id",
		OwnerName:      "Test User",
		Requirement:    "Annual supply contract",
	}
	require.NoError(t, db.Create(lead).Error)
	return lead
}

// CreateTestDeal creates a deal in the given stage
func CreateTestDeal(t *testing.T, db *gorm.DB, title string, stage domain.DealStage) *domain.Deal {
	t.Helper()

	deal := &domain.Deal{
		Title:       title,
		Company:     title + " AS",
		Value:       10000,
		Probability: 10,
		Stage:       stage,
		OwnerID:     "test-user-id",
		OwnerName:   "Test User",
	}
	require.NoError(t, db.Create(deal).Error)
	return deal
}

// TestActor returns the actor used across tests
func TestActor() domain.Actor {
	return domain.Actor{UserID: "test-user-id", DisplayName: "Test User"}
}

package handler_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/straye-as/pipeline-api/internal/domain"
	"github.com/straye-as/pipeline-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDealHandler_UpdateStage(t *testing.T) {
	srv := newTestServer(t)
	deal := testutil.CreateTestDeal(t, srv.db, "Nordic", domain.DealStageDiscovery)

	rec := srv.do(t, jsonRequest(t, http.MethodPut, "/deals/"+deal.ID.String()+"/stage",
		domain.UpdateDealStageRequest{Stage: domain.DealStageProposal, Notes: "sent proposal"}))

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var dto domain.DealDTO
	decode(t, rec, &dto)
	assert.Equal(t, domain.DealStageProposal, dto.Stage)
	assert.Equal(t, 50, dto.Probability)

	rec = srv.do(t, httptest.NewRequest(http.MethodGet, "/deals/"+deal.ID.String()+"/history", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var history []domain.DealStageHistoryDTO
	decode(t, rec, &history)
	require.Len(t, history, 1)
	assert.Equal(t, "sent proposal", history[0].Notes)
	assert.Equal(t, "Test User", history[0].ChangedByName)
}

func TestDealHandler_UpdateStage_Errors(t *testing.T) {
	srv := newTestServer(t)
	deal := testutil.CreateTestDeal(t, srv.db, "Nordic", domain.DealStageDiscovery)

	tests := []struct {
		name   string
		path   string
		body   interface{}
		status int
	}{
		{"invalid id", "/deals/not-a-uuid/stage", domain.UpdateDealStageRequest{Stage: domain.DealStageProposal}, http.StatusBadRequest},
		{"missing stage", "/deals/" + deal.ID.String() + "/stage", map[string]string{}, http.StatusBadRequest},
		{"unknown stage", "/deals/" + deal.ID.String() + "/stage", domain.UpdateDealStageRequest{Stage: "Won"}, http.StatusBadRequest},
		{"unknown deal", "/deals/" + uuid.New().String() + "/stage", domain.UpdateDealStageRequest{Stage: domain.DealStageProposal}, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := srv.do(t, jsonRequest(t, http.MethodPut, tt.path, tt.body))
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
		})
	}
}

func TestDealHandler_RequiresActor(t *testing.T) {
	srv := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/deals", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestDealHandler_ListAndGet(t *testing.T) {
	srv := newTestServer(t)
	deal := testutil.CreateTestDeal(t, srv.db, "One", domain.DealStageNegotiation)
	testutil.CreateTestDeal(t, srv.db, "Two", domain.DealStageDiscovery)

	rec := srv.do(t, httptest.NewRequest(http.MethodGet, "/deals?stage=Negotiation", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var page struct {
		Data  []domain.DealDTO `json:"data"`
		Total int64            `json:"total"`
	}
	decode(t, rec, &page)
	assert.Equal(t, int64(1), page.Total)
	require.Len(t, page.Data, 1)
	assert.Equal(t, deal.ID, page.Data[0].ID)

	rec = srv.do(t, httptest.NewRequest(http.MethodGet, "/deals?stage=Bogus", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = srv.do(t, httptest.NewRequest(http.MethodGet, "/deals/"+deal.ID.String(), nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = srv.do(t, httptest.NewRequest(http.MethodGet, "/deals/"+uuid.New().String(), nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

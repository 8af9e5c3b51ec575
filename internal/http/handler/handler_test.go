package handler_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/straye-as/pipeline-api/internal/auth"
	"github.com/straye-as/pipeline-api/internal/config"
	"github.com/straye-as/pipeline-api/internal/events"
	"github.com/straye-as/pipeline-api/internal/http/handler"
	"github.com/straye-as/pipeline-api/internal/repository"
	"github.com/straye-as/pipeline-api/internal/service"
	"github.com/straye-as/pipeline-api/internal/storage"
	"github.com/straye-as/pipeline-api/internal/testutil"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const testMaxDocumentSize = 64 << 10

type testServer struct {
	db      *gorm.DB
	handler http.Handler
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()

	files, err := storage.NewLocalStorage(t.TempDir(), "https://files.example.com")
	require.NoError(t, err)
	gateway := storage.NewDocumentGateway(files, testMaxDocumentSize, logger)

	leadRepo := repository.NewLeadRepository(db)
	dealRepo := repository.NewDealRepository(db)
	dealService := service.NewDealService(dealRepo, repository.NewDealStageHistoryRepository(db), events.NoopPublisher{}, logger)
	leadService := service.NewLeadService(leadRepo, logger)
	conversionService := service.NewConversionService(
		gateway,
		repository.NewAccountRepository(db),
		repository.NewContactRepository(db),
		dealRepo,
		repository.NewSalesOrderRepository(db),
		leadRepo,
		events.NoopPublisher{},
		config.ConversionConfig{UploadConcurrency: 2, LeadCleanupMode: config.LeadCleanupDelete, DefaultPhoneRegion: "IN"},
		logger,
	)

	deals := handler.NewDealHandler(dealService, logger)
	leads := handler.NewLeadHandler(leadService, conversionService, testMaxDocumentSize, logger)
	quotes := handler.NewQuoteHandler()

	r := chi.NewRouter()
	r.Use(auth.NewMiddleware(logger).RequireActor)
	r.Get("/deals", deals.List)
	r.Get("/deals/{id}", deals.GetByID)
	r.Put("/deals/{id}/stage", deals.UpdateStage)
	r.Get("/deals/{id}/history", deals.GetStageHistory)
	r.Get("/leads/{id}", leads.GetByID)
	r.Post("/leads/{id}/convert", leads.Convert)
	r.Post("/quotes/price", quotes.Price)

	return &testServer{db: db, handler: r}
}

func (s *testServer) do(t *testing.T, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	actor := testutil.TestActor()
	req.Header.Set(auth.HeaderUserID, actor.UserID)
	req.Header.Set(auth.HeaderUserName, actor.DisplayName)
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func jsonRequest(t *testing.T, method, path string, body interface{}) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, target interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), target))
}

// multipartRequest builds a conversion form with payload and one part per file name
func multipartRequest(t *testing.T, path string, payload interface{}, files map[string]string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	raw, err := json.Marshal(payload)
	require.NoError(t, err)
	require.NoError(t, mw.WriteField("payload", string(raw)))

	for field, content := range files {
		part, err := mw.CreateFormFile(field, field+".pdf")
		require.NoError(t, err)
		_, err = part.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/andrevc1/leadsync/internal/usecase"
)

type MockSyncUseCase struct {
	mock.Mock
}

func (m *MockSyncUseCase) Execute(ctx context.Context, userID, campaignID string) (*usecase.SyncOutput, error) {
	args := m.Called(ctx, userID, campaignID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.SyncOutput), args.Error(1)
}

func (m *MockSyncUseCase) ExecuteMany(ctx context.Context, userID string, campaignIDs []string) (*usecase.SyncManyOutput, error) {
	args := m.Called(ctx, userID, campaignIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.SyncManyOutput), args.Error(1)
}

func syncRequest(target, body string) (*httptest.ResponseRecorder, *http.Request) {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return httptest.NewRecorder(), req
}

func syncRouter(h *SyncHandler) chi.Router {
	r := chi.NewRouter()
	r.Post("/api/leads/sync/{campaignId}", h.HandleSync)
	r.Post("/api/leads/sync-many", h.HandleSyncMany)
	return r
}

func TestHandleSync_OK(t *testing.T) {
	uc := new(MockSyncUseCase)
	campaign := "Black Friday"
	uc.On("Execute", mock.Anything, "user-1", "C1").Return(&usecase.SyncOutput{
		Synced:     3,
		Fetched:    5,
		Skipped:    2,
		Campaign:   &campaign,
		CampaignID: "C1",
	}, nil)

	rec, req := syncRequest("/api/leads/sync/C1", `{"userId": "user-1"}`)
	syncRouter(NewSyncHandler(uc)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, float64(3), body["synced"])
	assert.Equal(t, float64(5), body["fetched"])
	assert.Equal(t, "Black Friday", body["campaign"])
}

func TestHandleSync_MissingUserID(t *testing.T) {
	uc := new(MockSyncUseCase)

	rec, req := syncRequest("/api/leads/sync/C1", `{}`)
	syncRouter(NewSyncHandler(uc)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "MISSING_FIELDS")
	uc.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything, mock.Anything)
}

func TestHandleSync_InvalidJSON(t *testing.T) {
	uc := new(MockSyncUseCase)

	rec, req := syncRequest("/api/leads/sync/C1", `{userId:`)
	syncRouter(NewSyncHandler(uc)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "INVALID_JSON")
}

func TestHandleSync_UseCaseFailure(t *testing.T) {
	uc := new(MockSyncUseCase)
	uc.On("Execute", mock.Anything, "user-1", "C1").
		Return(nil, errors.New("db down"))

	rec, req := syncRequest("/api/leads/sync/C1", `{"userId": "user-1"}`)
	syncRouter(NewSyncHandler(uc)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "SYNC_FAILED")
}

func TestHandleSyncMany_OK(t *testing.T) {
	uc := new(MockSyncUseCase)
	uc.On("ExecuteMany", mock.Anything, "user-1", []string{"C1", "C2"}).
		Return(&usecase.SyncManyOutput{TotalSynced: 7, TotalFetched: 10, CampaignIDs: []string{"C1", "C2"}}, nil)

	rec, req := syncRequest("/api/leads/sync-many", `{"userId": "user-1", "campaignIds": ["C1", "C2"]}`)
	syncRouter(NewSyncHandler(uc)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, float64(7), body["totalSynced"])
	assert.Equal(t, float64(10), body["totalFetched"])
}

func TestHandleSyncMany_MissingCampaigns(t *testing.T) {
	uc := new(MockSyncUseCase)

	rec, req := syncRequest("/api/leads/sync-many", `{"userId": "user-1", "campaignIds": []}`)
	syncRouter(NewSyncHandler(uc)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	uc.AssertNotCalled(t, "ExecuteMany", mock.Anything, mock.Anything, mock.Anything)
}

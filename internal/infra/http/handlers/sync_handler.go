package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/andrevc1/leadsync/internal/entity"
	"github.com/andrevc1/leadsync/internal/infra/http/middleware"
	"github.com/andrevc1/leadsync/internal/usecase"
)

type SyncUseCaseInterface interface {
	Execute(ctx context.Context, userID, campaignID string) (*usecase.SyncOutput, error)
	ExecuteMany(ctx context.Context, userID string, campaignIDs []string) (*usecase.SyncManyOutput, error)
}

type SyncHandler struct {
	Sync SyncUseCaseInterface
}

func NewSyncHandler(sync SyncUseCaseInterface) *SyncHandler {
	return &SyncHandler{Sync: sync}
}

// HandleSync - POST /api/leads/sync/{campaignId}
func (h *SyncHandler) HandleSync(w http.ResponseWriter, r *http.Request) {
	campaignID := chi.URLParam(r, "campaignId")

	var req struct {
		UserID string `json:"userId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", "invalid JSON body")
		return
	}
	if req.UserID == "" {
		writeErrorResponse(w, http.StatusBadRequest, "MISSING_FIELDS", "userId required")
		return
	}

	out, err := h.Sync.Execute(r.Context(), req.UserID, campaignID)
	if err != nil {
		middleware.RecordSyncRun("error")
		middleware.RecordIntegrationError("database")
		writeErrorResponse(w, http.StatusInternalServerError, "SYNC_FAILED", err.Error())
		return
	}

	middleware.RecordSyncRun("ok")
	middleware.RecordLeadsSynced(entity.SourcePull, out.Synced)
	middleware.RecordLeadsFetched(out.Fetched)
	middleware.RecordRateLimitDeferrals(len(out.DeferredPages))

	writeJSON(w, http.StatusOK, out)
}

// HandleSyncMany - POST /api/leads/sync-many
func (h *SyncHandler) HandleSyncMany(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID      string   `json:"userId"`
		CampaignIDs []string `json:"campaignIds"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", "invalid JSON body")
		return
	}
	if req.UserID == "" || len(req.CampaignIDs) == 0 {
		writeErrorResponse(w, http.StatusBadRequest, "MISSING_FIELDS", "userId and campaignIds[] required")
		return
	}

	out, err := h.Sync.ExecuteMany(r.Context(), req.UserID, req.CampaignIDs)
	if err != nil {
		middleware.RecordSyncRun("error")
		writeErrorResponse(w, http.StatusInternalServerError, "SYNC_FAILED", err.Error())
		return
	}

	middleware.RecordSyncRun("ok")
	middleware.RecordLeadsSynced(entity.SourcePull, out.TotalSynced)
	middleware.RecordLeadsFetched(out.TotalFetched)

	writeJSON(w, http.StatusOK, out)
}

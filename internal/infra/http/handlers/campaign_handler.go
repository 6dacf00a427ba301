package handlers

import (
	"net/http"

	"github.com/andrevc1/leadsync/internal/entity"
)

type CampaignHandler struct {
	CampaignRepo entity.CampaignRepositoryInterface
}

func NewCampaignHandler(campaignRepo entity.CampaignRepositoryInterface) *CampaignHandler {
	return &CampaignHandler{CampaignRepo: campaignRepo}
}

// HandleList - GET /api/leads/campaigns?userId=...
func (h *CampaignHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		writeErrorResponse(w, http.StatusBadRequest, "MISSING_FIELDS", "userId required")
		return
	}

	campaigns, err := h.CampaignRepo.ListByUser(r.Context(), userID)
	if err != nil {
		writeErrorResponse(w, http.StatusInternalServerError, "DATABASE_ERROR", "failed to list campaigns")
		return
	}
	if campaigns == nil {
		campaigns = []entity.Campaign{}
	}
	writeJSON(w, http.StatusOK, campaigns)
}

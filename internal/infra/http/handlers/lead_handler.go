package handlers

import (
	"encoding/csv"
	"fmt"
	"net/http"

	"github.com/andrevc1/leadsync/internal/entity"
)

const listLimit = 500

type LeadHandler struct {
	LeadRepo entity.LeadRepositoryInterface
}

func NewLeadHandler(leadRepo entity.LeadRepositoryInterface) *LeadHandler {
	return &LeadHandler{LeadRepo: leadRepo}
}

// HandleList - GET /api/leads?userId=...&campaignId=...
func (h *LeadHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		writeErrorResponse(w, http.StatusBadRequest, "MISSING_FIELDS", "userId required")
		return
	}
	campaignID := r.URL.Query().Get("campaignId")

	leads, err := h.LeadRepo.ListByUser(r.Context(), userID, campaignID, listLimit)
	if err != nil {
		writeErrorResponse(w, http.StatusInternalServerError, "DATABASE_ERROR", "failed to list leads")
		return
	}
	if leads == nil {
		leads = []entity.Lead{}
	}
	writeJSON(w, http.StatusOK, leads)
}

// HandleExport - GET /api/leads/export?userId=...&campaignId=...
func (h *LeadHandler) HandleExport(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		writeErrorResponse(w, http.StatusBadRequest, "MISSING_FIELDS", "userId required")
		return
	}
	campaignID := r.URL.Query().Get("campaignId")

	leads, err := h.LeadRepo.ListByUser(r.Context(), userID, campaignID, listLimit)
	if err != nil {
		writeErrorResponse(w, http.StatusInternalServerError, "DATABASE_ERROR", "failed to load leads")
		return
	}
	if len(leads) == 0 {
		writeErrorResponse(w, http.StatusNotFound, "NO_LEADS", "no leads found")
		return
	}

	scope := campaignID
	if scope == "" {
		scope = "all"
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="leads_%s_%s.csv"`, userID, scope))

	cw := csv.NewWriter(w)
	cw.Write([]string{"name", "email", "phone", "created_time", "form_id", "campaign_id"})
	for _, lead := range leads {
		cw.Write([]string{lead.Name, lead.Email, lead.Phone, lead.CreatedTime, lead.FormID, lead.CampaignID})
	}
	cw.Flush()
}

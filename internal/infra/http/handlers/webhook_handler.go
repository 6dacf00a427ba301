package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/andrevc1/leadsync/internal/entity"
	"github.com/andrevc1/leadsync/internal/infra/http/middleware"
)

type WebhookProcessor interface {
	Execute(ctx context.Context, leadgenID, pageExternalID string) (bool, error)
}

// WebhookHandler receives Graph leadgen deliveries. The POST is acknowledged
// before any processing; ingestion runs detached and its outcome never
// reaches the caller.
type WebhookHandler struct {
	VerifyToken string
	Processor   WebhookProcessor
}

func NewWebhookHandler(verifyToken string, processor WebhookProcessor) *WebhookHandler {
	return &WebhookHandler{
		VerifyToken: verifyToken,
		Processor:   processor,
	}
}

type webhookPayload struct {
	Entry []struct {
		ID      string `json:"id"` // page external id
		Changes []struct {
			Field string `json:"field"`
			Value struct {
				LeadgenID string `json:"leadgen_id"`
				PageID    string `json:"page_id"`
			} `json:"value"`
		} `json:"changes"`
	} `json:"entry"`
}

// HandleVerify - GET /api/leads/webhook (subscription handshake)
func (h *WebhookHandler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	mode := r.URL.Query().Get("hub.mode")
	token := r.URL.Query().Get("hub.verify_token")
	challenge := r.URL.Query().Get("hub.challenge")

	if mode == "subscribe" && token == h.VerifyToken {
		log.Info().Msg("webhook verified")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(challenge))
		return
	}
	w.WriteHeader(http.StatusForbidden)
}

// HandleEvent - POST /api/leads/webhook
func (h *WebhookHandler) HandleEvent(w http.ResponseWriter, r *http.Request) {
	var payload webhookPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		// Still acknowledge: the platform retries on anything but a 200.
		log.Warn().Err(err).Msg("webhook: malformed payload")
		w.WriteHeader(http.StatusOK)
		return
	}

	// Ack first; ingestion happens on its own clock.
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("EVENT_RECEIVED"))

	for _, entry := range payload.Entry {
		for _, change := range entry.Changes {
			if change.Field != "leadgen" {
				continue
			}
			leadgenID := change.Value.LeadgenID
			if leadgenID == "" {
				continue
			}
			pageID := change.Value.PageID
			if pageID == "" {
				pageID = entry.ID
			}
			go h.process(leadgenID, pageID)
		}
	}
}

func (h *WebhookHandler) process(leadgenID, pageID string) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	saved, err := h.Processor.Execute(ctx, leadgenID, pageID)
	if err != nil {
		// Terminal for this event only: no retry, nothing propagates.
		log.Error().Err(err).Str("leadgen_id", leadgenID).Msg("webhook: lead processing failed")
		middleware.RecordIntegrationError("meta")
		return
	}
	if saved {
		middleware.RecordLeadsSynced(entity.SourcePush, 1)
		middleware.RecordLeadsFetched(1)
	}
}

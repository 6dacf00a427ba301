package usecase

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/andrevc1/leadsync/internal/entity"
)

// Campaign bucket for pushed leads whose point fetch carries no campaign id.
const WebhookCampaignBucket = "webhook"

// ProcessWebhookUseCase is the push ingestion path: one leadgen event, one
// point fetch, then the same normalization/dedup engine the pull path uses.
// On a first save it fans the record out to the tenant's live subscribers.
type ProcessWebhookUseCase struct {
	PageRepo PageStore
	Source   LeadSource
	Ingest   *IngestLeadUseCase
	Live     LivePublisher
}

func NewProcessWebhookUseCase(pageRepo PageStore, source LeadSource, ingest *IngestLeadUseCase, live LivePublisher) *ProcessWebhookUseCase {
	return &ProcessWebhookUseCase{
		PageRepo: pageRepo,
		Source:   source,
		Ingest:   ingest,
		Live:     live,
	}
}

// Execute ingests one pushed lead and reports whether a new record was
// saved. Failures are terminal for this event only; the webhook handler has
// already acknowledged receipt.
func (uc *ProcessWebhookUseCase) Execute(ctx context.Context, leadgenID, pageExternalID string) (bool, error) {
	page, err := uc.PageRepo.FindByPageID(ctx, pageExternalID)
	if err != nil {
		if errors.Is(err, entity.ErrPageNotFound) {
			// Unknown page: not ours, drop silently.
			log.Debug().Str("page_id", pageExternalID).Msg("webhook: page unknown, dropping event")
			return false, nil
		}
		return false, err
	}
	if !page.IsActive {
		log.Debug().Str("page_id", pageExternalID).Msg("webhook: page inactive, dropping event")
		return false, nil
	}

	raw, err := uc.Source.GetLead(ctx, leadgenID, page.PageAccessToken)
	if err != nil {
		return false, err
	}

	target := raw.CampaignID
	if target == "" {
		target = WebhookCampaignBucket
	}

	result, err := uc.Ingest.Execute(ctx, IngestLeadInput{
		UserID:           page.UserID,
		PageID:           page.PageID,
		FormID:           raw.FormID,
		TargetCampaignID: target,
		Source:           entity.SourcePush,
		Raw:              raw,
	})
	if err != nil {
		return false, err
	}
	if !result.Saved {
		return false, nil
	}

	if uc.Live != nil {
		uc.Live.Publish(page.UserID, "new_lead", result.Lead)
	}
	return true, nil
}

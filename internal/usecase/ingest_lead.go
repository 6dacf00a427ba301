package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/andrevc1/leadsync/internal/entity"
	"github.com/andrevc1/leadsync/internal/infra/integration/meta"
	"github.com/andrevc1/leadsync/internal/infra/queue"
)

// IngestLeadUseCase is the dedup/upsert engine shared by the pull and push
// paths. It is idempotent: feeding the same lead twice stores one record
// and increments leads_count once.
type IngestLeadUseCase struct {
	LeadRepo     LeadStore
	CampaignRepo CampaignStore
	Notify       NotifyProducerInterface // optional
}

func NewIngestLeadUseCase(leadRepo LeadStore, campaignRepo CampaignStore, notify NotifyProducerInterface) *IngestLeadUseCase {
	return &IngestLeadUseCase{
		LeadRepo:     leadRepo,
		CampaignRepo: campaignRepo,
		Notify:       notify,
	}
}

type IngestLeadInput struct {
	UserID           string
	PageID           string
	FormID           string
	TargetCampaignID string
	Source           string // entity.SourcePull | entity.SourcePush
	Raw              *meta.RawLead
}

type IngestResult struct {
	Saved   bool
	Skipped bool // wrong campaign
	LeadID  string
	Lead    *entity.Lead
}

// Execute runs the dedup/upsert sequence. Duplicates and wrong-campaign
// leads are ordinary outcomes, never errors; only store failures come back
// as errors.
func (uc *IngestLeadUseCase) Execute(ctx context.Context, input IngestLeadInput) (IngestResult, error) {
	raw := input.Raw

	// A lead belongs to exactly one campaign. Cross-campaign leakage is
	// never recorded.
	if raw.CampaignID != "" && raw.CampaignID != input.TargetCampaignID {
		log.Debug().
			Str("lead_id", raw.ID).
			Str("lead_campaign", raw.CampaignID).
			Str("target_campaign", input.TargetCampaignID).
			Msg("skipping lead from another campaign")
		return IngestResult{Skipped: true, LeadID: raw.ID}, nil
	}

	// Orphan leads are attributed to the campaign being synced. Deliberate
	// fallback, not a silent drop.
	campaignID := raw.CampaignID
	if campaignID == "" {
		campaignID = input.TargetCampaignID
	}

	formID := raw.FormID
	if formID == "" {
		formID = input.FormID
	}

	leadID := raw.ID
	if leadID == "" {
		leadID = syntheticLeadID(formID)
	}

	exists, err := uc.LeadRepo.Exists(ctx, leadID)
	if err != nil {
		return IngestResult{}, err
	}
	if exists {
		return IngestResult{LeadID: leadID}, nil
	}

	fields := NormalizeFields(raw.FieldData)
	lead := &entity.Lead{
		UserID:       input.UserID,
		PageID:       input.PageID,
		LeadID:       leadID,
		FormID:       formID,
		CampaignID:   campaignID,
		CreatedTime:  raw.CreatedTime,
		FieldData:    raw.FieldData,
		CustomFields: fields,
		Name:         DeriveName(fields),
		Email:        DeriveEmail(fields),
		Phone:        DerivePhone(fields),
		Source:       input.Source,
	}

	if err := uc.LeadRepo.Create(ctx, lead); err != nil {
		if errors.Is(err, entity.ErrDuplicateLead) {
			// Another path inserted the same lead_id between the exists
			// check and our insert. That is a dedup, not a failure.
			log.Debug().Str("lead_id", leadID).Msg("lost insert race, lead already stored")
			return IngestResult{LeadID: leadID}, nil
		}
		return IngestResult{}, err
	}

	// Insert first, then increment. A crash between the two under-counts
	// leads_count but never loses the lead.
	if err := uc.CampaignRepo.IncrementLeadsCount(ctx, campaignID); err != nil {
		log.Error().Err(err).
			Str("campaign_id", campaignID).
			Str("lead_id", leadID).
			Msg("lead stored but leads_count increment failed")
	}

	if uc.Notify != nil {
		payload := queue.NewLeadPayload{
			UserID:      lead.UserID,
			LeadID:      lead.LeadID,
			CampaignID:  lead.CampaignID,
			FormID:      lead.FormID,
			Name:        lead.Name,
			Email:       lead.Email,
			Phone:       lead.Phone,
			Source:      lead.Source,
			CreatedTime: lead.CreatedTime,
		}
		if err := uc.Notify.PublishNewLead(ctx, payload); err != nil {
			log.Error().Err(err).Str("lead_id", leadID).Msg("new-lead notification publish failed")
		}
	}

	log.Info().
		Str("lead_id", leadID).
		Str("campaign_id", campaignID).
		Str("source", input.Source).
		Str("name", lead.Name).
		Msg("lead saved")

	return IngestResult{Saved: true, LeadID: leadID, Lead: lead}, nil
}

// syntheticLeadID covers sources that omit the lead id. Namespaced per form
// and suffixed with a v4 UUID so two forms can never collide.
func syntheticLeadID(formID string) string {
	return fmt.Sprintf("fb_%s_%s", formID, uuid.NewString())
}

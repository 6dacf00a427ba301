package usecase

import (
	"context"
	"errors"
	"slices"

	"github.com/rs/zerolog/log"

	"github.com/andrevc1/leadsync/internal/entity"
	"github.com/andrevc1/leadsync/internal/infra/integration/meta"
)

// SyncCampaignUseCase drives a full pull-sync run for one campaign:
// pages -> forms -> cursor-paginated lead batches, everything funneled
// through the ingestion engine. Failures below run level (one form, one
// page, one lead batch) never abort the run.
type SyncCampaignUseCase struct {
	CampaignRepo CampaignStore
	PageRepo     PageStore
	Source       LeadSource
	Ingest       *IngestLeadUseCase
	Cooldowns    *CooldownRegistry
}

func NewSyncCampaignUseCase(
	campaignRepo CampaignStore,
	pageRepo PageStore,
	source LeadSource,
	ingest *IngestLeadUseCase,
	cooldowns *CooldownRegistry,
) *SyncCampaignUseCase {
	return &SyncCampaignUseCase{
		CampaignRepo: campaignRepo,
		PageRepo:     pageRepo,
		Source:       source,
		Ingest:       ingest,
		Cooldowns:    cooldowns,
	}
}

func (uc *SyncCampaignUseCase) Execute(ctx context.Context, userID, campaignID string) (*SyncOutput, error) {
	out := &SyncOutput{CampaignID: campaignID}

	campaign, err := uc.CampaignRepo.FindByID(ctx, campaignID, userID)
	if err != nil {
		if errors.Is(err, entity.ErrCampaignNotFound) {
			log.Warn().Str("campaign_id", campaignID).Str("user_id", userID).
				Msg("sync: campaign not found, skipping")
			return out, nil
		}
		return nil, technical("DATABASE_ERROR", "failed to load campaign", err)
	}
	out.Campaign = &campaign.Name

	pages, err := uc.PageRepo.ListActiveByUser(ctx, userID)
	if err != nil {
		return nil, technical("DATABASE_ERROR", "failed to load pages", err)
	}
	if len(pages) == 0 {
		return out, nil
	}

	log.Info().
		Str("campaign_id", campaignID).
		Str("campaign", campaign.Name).
		Int("pages", len(pages)).
		Msg("sync: starting run")

	for i := range pages {
		page := &pages[i]
		if uc.Cooldowns.Cooling(page.PageID) {
			out.DeferredPages = append(out.DeferredPages, page.PageID)
			log.Warn().Str("page_id", page.PageID).Msg("sync: page cooling down, deferred")
			continue
		}
		if err := uc.syncPage(ctx, page, userID, campaignID, out); err != nil {
			return nil, err
		}
	}

	log.Info().
		Str("campaign_id", campaignID).
		Int("synced", out.Synced).
		Int("fetched", out.Fetched).
		Int("skipped", out.Skipped).
		Msg("sync: run done")

	return out, nil
}

// ExecuteMany sequences single-campaign syncs and sums the totals. A
// run-level failure on one campaign does not stop the rest.
func (uc *SyncCampaignUseCase) ExecuteMany(ctx context.Context, userID string, campaignIDs []string) (*SyncManyOutput, error) {
	out := &SyncManyOutput{CampaignIDs: campaignIDs}
	for _, campaignID := range campaignIDs {
		result, err := uc.Execute(ctx, userID, campaignID)
		if err != nil {
			log.Error().Err(err).Str("campaign_id", campaignID).Msg("sync-many: campaign failed")
			continue
		}
		out.TotalSynced += result.Synced
		out.TotalFetched += result.Fetched
	}
	return out, nil
}

// syncPage fetches the page's forms and paginates each one. A forms
// failure skips the whole page; a throttling signal abandons whatever is
// left of the page for this run.
func (uc *SyncCampaignUseCase) syncPage(ctx context.Context, page *entity.Page, userID, campaignID string, out *SyncOutput) error {
	forms, err := uc.Source.ListForms(ctx, page.PageID, page.PageAccessToken)
	if err != nil {
		log.Error().Err(err).Str("page_id", page.PageID).Msg("sync: forms fetch failed, skipping page")
		return nil
	}

	for _, form := range forms {
		limited, err := uc.syncForm(ctx, page, form, userID, campaignID, out)
		if err != nil {
			return err
		}
		if limited {
			if !slices.Contains(out.DeferredPages, page.PageID) {
				out.DeferredPages = append(out.DeferredPages, page.PageID)
			}
			return nil
		}
	}
	return nil
}

// syncForm follows the continuation cursor until the source reports no
// further page. Returns limited=true when the page got throttled, which
// opens its cooldown window; error only for store-level failures.
func (uc *SyncCampaignUseCase) syncForm(ctx context.Context, page *entity.Page, form meta.Form, userID, campaignID string, out *SyncOutput) (bool, error) {
	after := ""
	for {
		batch, err := uc.Source.ListLeads(ctx, form.ID, page.PageAccessToken, after)
		if err != nil {
			if meta.IsRateLimit(err) {
				until := uc.Cooldowns.MarkLimited(page.PageID)
				log.Warn().
					Str("page_id", page.PageID).
					Str("form_id", form.ID).
					Time("until", until).
					Msg("sync: rate limited, cooldown opened")
				return true, nil
			}
			// Transient failure: already-fetched batches stay processed,
			// the rest of this form is abandoned.
			log.Error().Err(err).
				Str("form_id", form.ID).
				Str("page_id", page.PageID).
				Msg("sync: batch fetch failed, abandoning form")
			return false, nil
		}

		out.Fetched += len(batch.Items)

		for i := range batch.Items {
			result, err := uc.Ingest.Execute(ctx, IngestLeadInput{
				UserID:           userID,
				PageID:           page.PageID,
				FormID:           form.ID,
				TargetCampaignID: campaignID,
				Source:           entity.SourcePull,
				Raw:              &batch.Items[i],
			})
			if err != nil {
				// Store-level failure: no partial progress can be trusted.
				return false, technical("DATABASE_ERROR", "failed to persist lead", err)
			}
			if result.Saved {
				out.Synced++
			}
			if result.Skipped {
				out.Skipped++
			}
		}

		if batch.NextCursor == "" {
			return false, nil
		}
		after = batch.NextCursor
	}
}

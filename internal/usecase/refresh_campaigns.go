package usecase

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/andrevc1/leadsync/internal/entity"
)

// RefreshCampaignsUseCase pulls the campaign list of every active ad
// account and upserts it locally. Runs after the OAuth callback so syncs
// have campaigns to resolve against.
type RefreshCampaignsUseCase struct {
	AdAccountRepo AdAccountStore
	CampaignRepo  CampaignCatalog
	Source        CampaignSource
}

func NewRefreshCampaignsUseCase(adAccountRepo AdAccountStore, campaignRepo CampaignCatalog, source CampaignSource) *RefreshCampaignsUseCase {
	return &RefreshCampaignsUseCase{
		AdAccountRepo: adAccountRepo,
		CampaignRepo:  campaignRepo,
		Source:        source,
	}
}

func (uc *RefreshCampaignsUseCase) Execute(ctx context.Context, userID string) error {
	accounts, err := uc.AdAccountRepo.ListActiveByUser(ctx, userID)
	if err != nil {
		return technical("DATABASE_ERROR", "failed to load ad accounts", err)
	}

	for _, account := range accounts {
		campaigns, err := uc.Source.ListCampaigns(ctx, account.AdAccountID, account.UserAccessToken)
		if err != nil {
			// One bad account does not block the others.
			log.Error().Err(err).Str("ad_account_id", account.AdAccountID).
				Msg("campaign refresh failed for ad account")
			continue
		}

		for _, c := range campaigns {
			campaign := &entity.Campaign{
				UserID:        userID,
				AdAccountID:   account.AdAccountID,
				AdAccountName: account.AdAccountName,
				CampaignID:    c.ID,
				Name:          c.Name,
				Status:        c.Status,
				Objective:     c.Objective,
			}
			if err := uc.CampaignRepo.Upsert(ctx, campaign); err != nil {
				return technical("DATABASE_ERROR", "failed to upsert campaign", err)
			}
		}
		log.Info().Str("ad_account", account.AdAccountName).Int("campaigns", len(campaigns)).
			Msg("campaigns refreshed")
	}
	return nil
}

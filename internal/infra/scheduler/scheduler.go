package scheduler

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/andrevc1/leadsync/internal/entity"
	"github.com/andrevc1/leadsync/internal/usecase"
)

type SyncRunner interface {
	ExecuteMany(ctx context.Context, userID string, campaignIDs []string) (*usecase.SyncManyOutput, error)
}

type UserLister interface {
	ListActiveUserIDs(ctx context.Context) ([]string, error)
}

type CampaignLister interface {
	ListByUser(ctx context.Context, userID string) ([]entity.Campaign, error)
}

// Scheduler runs a full sync for every user with an active page, on a fixed
// interval. The on-demand endpoints share the same use case and cooldown
// registry, so overlapping runs stay safe.
type Scheduler struct {
	Pages     UserLister
	Campaigns CampaignLister
	Sync      SyncRunner
	Interval  time.Duration
}

func New(pages UserLister, campaigns CampaignLister, sync SyncRunner, interval time.Duration) *Scheduler {
	return &Scheduler{
		Pages:     pages,
		Campaigns: campaigns,
		Sync:      sync,
		Interval:  interval,
	}
}

func (s *Scheduler) Run(ctx context.Context) {
	log.Info().Dur("interval", s.Interval).Msg("scheduler: periodic sync enabled")

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("scheduler: stopped")
			return
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

func (s *Scheduler) tick(ctx context.Context) {
	userIDs, err := s.Pages.ListActiveUserIDs(ctx)
	if err != nil {
		log.Error().Err(err).Msg("scheduler: user listing failed")
		return
	}

	for _, userID := range userIDs {
		campaigns, err := s.Campaigns.ListByUser(ctx, userID)
		if err != nil {
			log.Error().Err(err).Str("user_id", userID).Msg("scheduler: campaign listing failed")
			continue
		}

		ids := make([]string, 0, len(campaigns))
		for _, c := range campaigns {
			ids = append(ids, c.CampaignID)
		}
		if len(ids) == 0 {
			continue
		}

		out, err := s.Sync.ExecuteMany(ctx, userID, ids)
		if err != nil {
			log.Error().Err(err).Str("user_id", userID).Msg("scheduler: sync failed")
			continue
		}
		log.Info().
			Str("user_id", userID).
			Int("synced", out.TotalSynced).
			Int("fetched", out.TotalFetched).
			Msg("scheduler: sync pass done")
	}
}

package usecase

import (
	"context"

	"github.com/andrevc1/leadsync/internal/entity"
	"github.com/andrevc1/leadsync/internal/infra/integration/meta"
	"github.com/andrevc1/leadsync/internal/infra/queue"
)

// LeadSource is the remote lead source contract (Graph API in production,
// mocks in tests).
type LeadSource interface {
	ListForms(ctx context.Context, pageID, accessToken string) ([]meta.Form, error)
	ListLeads(ctx context.Context, formID, accessToken, after string) (*meta.LeadBatch, error)
	GetLead(ctx context.Context, leadgenID, accessToken string) (*meta.RawLead, error)
}

// CampaignSource lists campaigns for an ad account (provisioning flow).
type CampaignSource interface {
	ListCampaigns(ctx context.Context, adAccountID, accessToken string) ([]meta.CampaignInfo, error)
}

type LeadStore interface {
	Exists(ctx context.Context, leadID string) (bool, error)
	Create(ctx context.Context, lead *entity.Lead) error
}

type CampaignStore interface {
	FindByID(ctx context.Context, campaignID, userID string) (*entity.Campaign, error)
	IncrementLeadsCount(ctx context.Context, campaignID string) error
}

type CampaignCatalog interface {
	ListByUser(ctx context.Context, userID string) ([]entity.Campaign, error)
	Upsert(ctx context.Context, c *entity.Campaign) error
}

type PageStore interface {
	ListActiveByUser(ctx context.Context, userID string) ([]entity.Page, error)
	FindByPageID(ctx context.Context, pageID string) (*entity.Page, error)
}

type AdAccountStore interface {
	ListActiveByUser(ctx context.Context, userID string) ([]entity.AdAccount, error)
}

// LivePublisher fans a new-lead event out to whoever is subscribed for the
// tenant. Fire and forget, no delivery guarantee.
type LivePublisher interface {
	Publish(userID, event string, payload any)
}

type NotifyProducerInterface interface {
	PublishNewLead(ctx context.Context, payload queue.NewLeadPayload) error
}

package usecase

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/andrevc1/leadsync/internal/entity"
	"github.com/andrevc1/leadsync/internal/infra/integration/meta"
	"github.com/andrevc1/leadsync/internal/infra/queue"
)

// MockLeadStore
type MockLeadStore struct {
	mock.Mock
}

func (m *MockLeadStore) Exists(ctx context.Context, leadID string) (bool, error) {
	args := m.Called(ctx, leadID)
	return args.Bool(0), args.Error(1)
}

func (m *MockLeadStore) Create(ctx context.Context, lead *entity.Lead) error {
	args := m.Called(ctx, lead)
	return args.Error(0)
}

// MockCampaignStore
type MockCampaignStore struct {
	mock.Mock
}

func (m *MockCampaignStore) FindByID(ctx context.Context, campaignID, userID string) (*entity.Campaign, error) {
	args := m.Called(ctx, campaignID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Campaign), args.Error(1)
}

func (m *MockCampaignStore) IncrementLeadsCount(ctx context.Context, campaignID string) error {
	args := m.Called(ctx, campaignID)
	return args.Error(0)
}

// MockPageStore
type MockPageStore struct {
	mock.Mock
}

func (m *MockPageStore) ListActiveByUser(ctx context.Context, userID string) ([]entity.Page, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Page), args.Error(1)
}

func (m *MockPageStore) FindByPageID(ctx context.Context, pageID string) (*entity.Page, error) {
	args := m.Called(ctx, pageID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Page), args.Error(1)
}

// MockLeadSource
type MockLeadSource struct {
	mock.Mock
}

func (m *MockLeadSource) ListForms(ctx context.Context, pageID, accessToken string) ([]meta.Form, error) {
	args := m.Called(ctx, pageID, accessToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]meta.Form), args.Error(1)
}

func (m *MockLeadSource) ListLeads(ctx context.Context, formID, accessToken, after string) (*meta.LeadBatch, error) {
	args := m.Called(ctx, formID, accessToken, after)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*meta.LeadBatch), args.Error(1)
}

func (m *MockLeadSource) GetLead(ctx context.Context, leadgenID, accessToken string) (*meta.RawLead, error) {
	args := m.Called(ctx, leadgenID, accessToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*meta.RawLead), args.Error(1)
}

// MockLivePublisher
type MockLivePublisher struct {
	mock.Mock
}

func (m *MockLivePublisher) Publish(userID, event string, payload any) {
	m.Called(userID, event, payload)
}

// MockNotifyProducer
type MockNotifyProducer struct {
	mock.Mock
}

func (m *MockNotifyProducer) PublishNewLead(ctx context.Context, payload queue.NewLeadPayload) error {
	args := m.Called(ctx, payload)
	return args.Error(0)
}

// fakeLeadStore is an in-memory LeadStore with the same uniqueness contract
// the real table enforces. Used where mock scripting gets in the way
// (concurrency, end-to-end sync runs).
type fakeLeadStore struct {
	mu    sync.Mutex
	leads map[string]*entity.Lead
}

func newFakeLeadStore() *fakeLeadStore {
	return &fakeLeadStore{leads: make(map[string]*entity.Lead)}
}

func (f *fakeLeadStore) Exists(_ context.Context, leadID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.leads[leadID]
	return ok, nil
}

func (f *fakeLeadStore) Create(_ context.Context, lead *entity.Lead) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.leads[lead.LeadID]; ok {
		return entity.ErrDuplicateLead
	}
	f.leads[lead.LeadID] = lead
	return nil
}

func (f *fakeLeadStore) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.leads)
}

func (f *fakeLeadStore) get(leadID string) *entity.Lead {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.leads[leadID]
}

// fakeCampaignStore holds campaigns and counts increments atomically.
type fakeCampaignStore struct {
	mu         sync.Mutex
	campaigns  map[string]*entity.Campaign
	increments map[string]int
}

func newFakeCampaignStore(campaigns ...*entity.Campaign) *fakeCampaignStore {
	f := &fakeCampaignStore{
		campaigns:  make(map[string]*entity.Campaign),
		increments: make(map[string]int),
	}
	for _, c := range campaigns {
		f.campaigns[c.CampaignID] = c
	}
	return f
}

func (f *fakeCampaignStore) FindByID(_ context.Context, campaignID, userID string) (*entity.Campaign, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.campaigns[campaignID]
	if !ok || c.UserID != userID {
		return nil, entity.ErrCampaignNotFound
	}
	return c, nil
}

func (f *fakeCampaignStore) IncrementLeadsCount(_ context.Context, campaignID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.increments[campaignID]++
	if c, ok := f.campaigns[campaignID]; ok {
		c.LeadsCount++
	}
	return nil
}

func (f *fakeCampaignStore) incrementsFor(campaignID string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.increments[campaignID]
}

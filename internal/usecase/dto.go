package usecase

// SyncOutput is the result of one campaign sync run. Campaign is nil when
// the campaign does not exist (a not-found result, not an error).
type SyncOutput struct {
	Synced        int      `json:"synced"`
	Fetched       int      `json:"fetched"`
	Skipped       int      `json:"skipped"`
	Campaign      *string  `json:"campaign"`
	CampaignID    string   `json:"campaign_id"`
	DeferredPages []string `json:"deferred_pages,omitempty"`
}

type SyncManyOutput struct {
	TotalSynced  int      `json:"totalSynced"`
	TotalFetched int      `json:"totalFetched"`
	CampaignIDs  []string `json:"campaignIds"`
}

package meta

import "github.com/andrevc1/leadsync/internal/entity"

type Form struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// RawLead is one lead as the Graph API returns it. CampaignID and FormID may
// be empty depending on the form setup; the ingestion engine fills the gaps.
type RawLead struct {
	ID          string              `json:"id"`
	CreatedTime string              `json:"created_time"`
	FieldData   []entity.FieldEntry `json:"field_data"`
	CampaignID  string              `json:"campaign_id"`
	FormID      string              `json:"form_id"`
}

// LeadBatch is one page of results. An empty NextCursor means the source
// reported no further page.
type LeadBatch struct {
	Items      []RawLead
	NextCursor string
}

type MetaUser struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type PageAccount struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	AccessToken string `json:"access_token"`
}

type AdAccount struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type CampaignInfo struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Status    string `json:"status"`
	Objective string `json:"objective"`
}

type listEnvelope[T any] struct {
	Data   []T `json:"data"`
	Paging struct {
		Cursors struct {
			After string `json:"after"`
		} `json:"cursors"`
	} `json:"paging"`
}

type errorEnvelope struct {
	Error *APIError `json:"error"`
}

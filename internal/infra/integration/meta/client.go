package meta

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	DefaultGraphURL = "https://graph.facebook.com/v22.0"
	dialogOAuthURL  = "https://www.facebook.com/v22.0/dialog/oauth"

	oauthScopes = "pages_show_list,pages_manage_metadata,ads_read,leads_retrieval,pages_manage_ads"

	leadFields = "id,created_time,field_data,campaign_id,form_id"
	pageSize   = "100"
)

type Client struct {
	appID     string
	appSecret string
	baseURL   string
	http      *http.Client
}

func NewClient(appID, appSecret, baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultGraphURL
	}
	return &Client{
		appID:     appID,
		appSecret: appSecret,
		baseURL:   baseURL,
		// Hard per-call timeout: a slow Graph call is a failure, not a hang.
		http: &http.Client{Timeout: 15 * time.Second},
	}
}

// LoginURL builds the OAuth dialog redirect. state carries our user id
// through the round trip.
func (c *Client) LoginURL(redirectURI, state string) string {
	params := url.Values{}
	params.Set("client_id", c.appID)
	params.Set("redirect_uri", redirectURI)
	params.Set("scope", oauthScopes)
	params.Set("response_type", "code")
	params.Set("state", state)
	return dialogOAuthURL + "?" + params.Encode()
}

func (c *Client) ExchangeCode(ctx context.Context, redirectURI, code string) (string, error) {
	params := url.Values{}
	params.Set("client_id", c.appID)
	params.Set("client_secret", c.appSecret)
	params.Set("redirect_uri", redirectURI)
	params.Set("code", code)

	var out struct {
		AccessToken string `json:"access_token"`
	}
	if err := c.get(ctx, "/oauth/access_token", params, &out); err != nil {
		return "", err
	}
	return out.AccessToken, nil
}

func (c *Client) Me(ctx context.Context, accessToken string) (*MetaUser, error) {
	params := url.Values{}
	params.Set("access_token", accessToken)
	params.Set("fields", "id,name,email")

	var out MetaUser
	if err := c.get(ctx, "/me", params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) MyPages(ctx context.Context, accessToken string) ([]PageAccount, error) {
	params := url.Values{}
	params.Set("access_token", accessToken)
	params.Set("fields", "id,name,access_token")

	var out listEnvelope[PageAccount]
	if err := c.get(ctx, "/me/accounts", params, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

func (c *Client) MyAdAccounts(ctx context.Context, accessToken string) ([]AdAccount, error) {
	params := url.Values{}
	params.Set("access_token", accessToken)
	params.Set("fields", "id,name")

	var out listEnvelope[AdAccount]
	if err := c.get(ctx, "/me/adaccounts", params, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

func (c *Client) ListCampaigns(ctx context.Context, adAccountID, accessToken string) ([]CampaignInfo, error) {
	params := url.Values{}
	params.Set("access_token", accessToken)
	params.Set("fields", "id,name,status,objective")
	params.Set("limit", pageSize)

	var out listEnvelope[CampaignInfo]
	if err := c.get(ctx, "/"+adAccountID+"/campaigns", params, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

func (c *Client) ListForms(ctx context.Context, pageID, accessToken string) ([]Form, error) {
	params := url.Values{}
	params.Set("access_token", accessToken)
	params.Set("fields", "id,name")

	var out listEnvelope[Form]
	if err := c.get(ctx, "/"+pageID+"/leadgen_forms", params, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// ListLeads fetches one bounded page of leads for a form. Pass the cursor
// from the previous batch, or "" for the first call.
func (c *Client) ListLeads(ctx context.Context, formID, accessToken, after string) (*LeadBatch, error) {
	params := url.Values{}
	params.Set("access_token", accessToken)
	params.Set("fields", leadFields)
	params.Set("limit", pageSize)
	if after != "" {
		params.Set("after", after)
	}

	var out listEnvelope[RawLead]
	if err := c.get(ctx, "/"+formID+"/leads", params, &out); err != nil {
		return nil, err
	}
	return &LeadBatch{Items: out.Data, NextCursor: out.Paging.Cursors.After}, nil
}

// GetLead point-fetches a single lead by its leadgen id (webhook path).
func (c *Client) GetLead(ctx context.Context, leadgenID, accessToken string) (*RawLead, error) {
	params := url.Values{}
	params.Set("access_token", accessToken)
	params.Set("fields", leadFields)

	var out RawLead
	if err := c.get(ctx, "/"+leadgenID, params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SubscribePage registers the app for leadgen webhook deliveries on a page.
func (c *Client) SubscribePage(ctx context.Context, pageID, pageAccessToken string) error {
	params := url.Values{}
	params.Set("access_token", pageAccessToken)
	params.Set("subscribed_fields", "leadgen")

	endpoint := c.baseURL + "/" + pageID + "/subscribed_apps?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, nil)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return decodeError(resp.StatusCode, body)
	}
	log.Info().Str("page_id", pageID).Msg("page subscribed to leadgen webhooks")
	return nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	endpoint := c.baseURL + path + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode != http.StatusOK {
		return decodeError(resp.StatusCode, body)
	}
	return json.Unmarshal(body, out)
}

func decodeError(status int, body []byte) error {
	var envelope errorEnvelope
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error != nil {
		envelope.Error.StatusCode = status
		return envelope.Error
	}
	return fmt.Errorf("graph api: unexpected status %d: %s", status, string(body))
}

package meta

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTestClient(handler http.HandlerFunc) (*Client, *httptest.Server) {
	srv := httptest.NewServer(handler)
	return NewClient("app-id", "app-secret", srv.URL), srv
}

func TestListLeads_RequestShape(t *testing.T) {
	var gotPath string
	var gotQuery map[string][]string

	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query()
		json.NewEncoder(w).Encode(map[string]any{"data": []any{}})
	})
	defer srv.Close()

	_, err := client.ListLeads(context.Background(), "form-1", "tok", "cursor-a")
	assert.NoError(t, err)

	assert.Equal(t, "/form-1/leads", gotPath)
	assert.Equal(t, "tok", gotQuery["access_token"][0])
	assert.Equal(t, "100", gotQuery["limit"][0])
	assert.Equal(t, "id,created_time,field_data,campaign_id,form_id", gotQuery["fields"][0])
	assert.Equal(t, "cursor-a", gotQuery["after"][0])
}

func TestListLeads_FirstCallOmitsAfter(t *testing.T) {
	var gotQuery map[string][]string

	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		json.NewEncoder(w).Encode(map[string]any{"data": []any{}})
	})
	defer srv.Close()

	_, err := client.ListLeads(context.Background(), "form-1", "tok", "")
	assert.NoError(t, err)
	assert.NotContains(t, gotQuery, "after")
}

func TestListLeads_DecodesBatchAndCursor(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"data": [
				{
					"id": "lead-1",
					"created_time": "2025-11-02T10:00:00+0000",
					"campaign_id": "C1",
					"form_id": "form-1",
					"field_data": [
						{"name": "email", "values": ["j@x.com"]}
					]
				}
			],
			"paging": {"cursors": {"before": "x", "after": "cursor-b"}}
		}`))
	})
	defer srv.Close()

	batch, err := client.ListLeads(context.Background(), "form-1", "tok", "")

	assert.NoError(t, err)
	assert.Len(t, batch.Items, 1)
	assert.Equal(t, "lead-1", batch.Items[0].ID)
	assert.Equal(t, "C1", batch.Items[0].CampaignID)
	assert.Equal(t, "j@x.com", batch.Items[0].FieldData[0].Values[0])
	assert.Equal(t, "cursor-b", batch.NextCursor)
}

func TestListLeads_LastPageHasNoCursor(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data": [{"id": "lead-9"}]}`))
	})
	defer srv.Close()

	batch, err := client.ListLeads(context.Background(), "form-1", "tok", "z")

	assert.NoError(t, err)
	assert.Empty(t, batch.NextCursor)
}

func TestGet_RateLimitErrorEnvelope(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{
			"error": {
				"message": "(#4) Application request limit reached",
				"type": "OAuthException",
				"code": 4,
				"error_subcode": 80005
			}
		}`))
	})
	defer srv.Close()

	_, err := client.ListLeads(context.Background(), "form-1", "tok", "")

	assert.Error(t, err)
	assert.True(t, IsRateLimit(err))

	var apiErr *APIError
	assert.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 4, apiErr.Code)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
}

func TestGet_OtherAPIErrorIsNotRateLimit(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error": {"message": "Invalid OAuth access token", "type": "OAuthException", "code": 190}}`))
	})
	defer srv.Close()

	_, err := client.ListForms(context.Background(), "page-1", "bad-token")

	assert.Error(t, err)
	assert.False(t, IsRateLimit(err))
}

func TestGet_NonJSONErrorBody(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("<html>Bad Gateway</html>"))
	})
	defer srv.Close()

	_, err := client.ListForms(context.Background(), "page-1", "tok")

	assert.Error(t, err)
	assert.False(t, IsRateLimit(err))
	assert.Contains(t, err.Error(), "unexpected status 502")
}

func TestListForms(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/page-1/leadgen_forms", r.URL.Path)
		w.Write([]byte(`{"data": [{"id": "form-1", "name": "Contato"}, {"id": "form-2", "name": "Orçamento"}]}`))
	})
	defer srv.Close()

	forms, err := client.ListForms(context.Background(), "page-1", "tok")

	assert.NoError(t, err)
	assert.Len(t, forms, 2)
	assert.Equal(t, "Contato", forms[0].Name)
}

func TestGetLead(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/lg-123", r.URL.Path)
		assert.Equal(t, "id,created_time,field_data,campaign_id,form_id", r.URL.Query().Get("fields"))
		w.Write([]byte(`{"id": "lg-123", "form_id": "form-1", "field_data": [{"name": "full_name", "values": ["Jane"]}]}`))
	})
	defer srv.Close()

	raw, err := client.GetLead(context.Background(), "lg-123", "tok")

	assert.NoError(t, err)
	assert.Equal(t, "lg-123", raw.ID)
	assert.Equal(t, "form-1", raw.FormID)
}

func TestExchangeCode(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/oauth/access_token", r.URL.Path)
		assert.Equal(t, "app-id", r.URL.Query().Get("client_id"))
		assert.Equal(t, "app-secret", r.URL.Query().Get("client_secret"))
		assert.Equal(t, "the-code", r.URL.Query().Get("code"))
		w.Write([]byte(`{"access_token": "user-token", "token_type": "bearer"}`))
	})
	defer srv.Close()

	token, err := client.ExchangeCode(context.Background(), "https://app/callback", "the-code")

	assert.NoError(t, err)
	assert.Equal(t, "user-token", token)
}

func TestSubscribePage(t *testing.T) {
	var gotMethod string
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		assert.Equal(t, "/page-1/subscribed_apps", r.URL.Path)
		assert.Equal(t, "leadgen", r.URL.Query().Get("subscribed_fields"))
		w.Write([]byte(`{"success": true}`))
	})
	defer srv.Close()

	err := client.SubscribePage(context.Background(), "page-1", "page-tok")

	assert.NoError(t, err)
	assert.Equal(t, http.MethodPost, gotMethod)
}

func TestLoginURL(t *testing.T) {
	client := NewClient("app-id", "secret", "")

	u := client.LoginURL("https://app/callback", "user-1")

	assert.Contains(t, u, "https://www.facebook.com/v22.0/dialog/oauth?")
	assert.Contains(t, u, "client_id=app-id")
	assert.Contains(t, u, "state=user-1")
	assert.Contains(t, u, "leads_retrieval")
}

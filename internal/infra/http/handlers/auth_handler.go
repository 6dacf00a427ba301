package handlers

import (
	"context"
	"net/http"
	"net/url"

	"github.com/rs/zerolog/log"

	"github.com/andrevc1/leadsync/internal/entity"
	"github.com/andrevc1/leadsync/internal/infra/integration/meta"
)

type CampaignRefresher interface {
	Execute(ctx context.Context, userID string) error
}

// AuthHandler runs the Meta connect flow: redirect out, exchange the code,
// then provision user, pages (with their access tokens) and ad accounts so
// the sync core has credentials to work with. No session or authz here.
type AuthHandler struct {
	Meta          *meta.Client
	UserRepo      entity.UserRepositoryInterface
	PageRepo      entity.PageRepositoryInterface
	AdAccountRepo entity.AdAccountRepositoryInterface
	Refresh       CampaignRefresher
	BaseURL       string
}

func NewAuthHandler(
	metaClient *meta.Client,
	userRepo entity.UserRepositoryInterface,
	pageRepo entity.PageRepositoryInterface,
	adAccountRepo entity.AdAccountRepositoryInterface,
	refresh CampaignRefresher,
	baseURL string,
) *AuthHandler {
	return &AuthHandler{
		Meta:          metaClient,
		UserRepo:      userRepo,
		PageRepo:      pageRepo,
		AdAccountRepo: adAccountRepo,
		Refresh:       refresh,
		BaseURL:       baseURL,
	}
}

func (h *AuthHandler) redirectURI() string {
	return h.BaseURL + "/api/auth/callback"
}

// HandleLogin - GET /api/auth/login?userId=...
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		writeErrorResponse(w, http.StatusBadRequest, "MISSING_FIELDS", "userId required")
		return
	}
	http.Redirect(w, r, h.Meta.LoginURL(h.redirectURI(), userID), http.StatusFound)
}

// HandleCallback - GET /api/auth/callback?code=...&state=<userId>
func (h *AuthHandler) HandleCallback(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	userID := r.URL.Query().Get("state")
	if code == "" || userID == "" {
		http.Redirect(w, r, "/?error=missing_params", http.StatusFound)
		return
	}
	ctx := r.Context()

	token, err := h.Meta.ExchangeCode(ctx, h.redirectURI(), code)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	me, err := h.Meta.Me(ctx, token)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	user := &entity.User{UserID: userID, Name: me.Name, Email: me.Email, MetaUserID: me.ID}
	if err := h.UserRepo.Upsert(ctx, user); err != nil {
		h.fail(w, r, err)
		return
	}

	pages, err := h.Meta.MyPages(ctx, token)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	for _, p := range pages {
		page := &entity.Page{UserID: userID, PageID: p.ID, PageName: p.Name, PageAccessToken: p.AccessToken}
		if err := h.PageRepo.Upsert(ctx, page); err != nil {
			h.fail(w, r, err)
			return
		}
	}

	accounts, err := h.Meta.MyAdAccounts(ctx, token)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	for _, a := range accounts {
		account := &entity.AdAccount{UserID: userID, AdAccountID: a.ID, AdAccountName: a.Name, UserAccessToken: token}
		if err := h.AdAccountRepo.Upsert(ctx, account); err != nil {
			h.fail(w, r, err)
			return
		}
	}

	if err := h.Refresh.Execute(ctx, userID); err != nil {
		h.fail(w, r, err)
		return
	}

	log.Info().Str("user_id", userID).Int("pages", len(pages)).Int("ad_accounts", len(accounts)).
		Msg("meta account connected")
	http.Redirect(w, r, "/?success=true&userId="+url.QueryEscape(userID), http.StatusFound)
}

func (h *AuthHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	log.Error().Err(err).Msg("oauth callback failed")
	http.Redirect(w, r, "/?error="+url.QueryEscape(err.Error()), http.StatusFound)
}

package facebook

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/oauth2"

	"social-login-service/internal/auth"
)

const providerName = "facebook"

const (
	authURL     = "https://www.facebook.com/dialog/oauth"
	tokenURL    = "https://graph.facebook.com/oauth/access_token"
	userInfoURL = "https://graph.facebook.com/v12.0/me?fields=id,name,email,picture"
)

// Provider authenticates users through Facebook's Graph API.
// Facebook is plain OAuth 2.0, no id_token; identity comes from the
// /me endpoint.
type Provider struct {
	oauthConfig *oauth2.Config
	userInfoURL string
	httpClient  *http.Client
}

func New(
	clientID string,
	clientSecret string,
	redirectURL string,
) (*Provider, error) {

	if clientID == "" || clientSecret == "" || redirectURL == "" {
		return nil, errors.New("facebook oauth config missing required fields")
	}

	oauthCfg := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURL,
		Endpoint: oauth2.Endpoint{
			AuthURL:   authURL,
			TokenURL:  tokenURL,
			AuthStyle: oauth2.AuthStyleInParams,
		},
		Scopes: []string{"email", "public_profile"},
	}

	return &Provider{
		oauthConfig: oauthCfg,
		userInfoURL: userInfoURL,
		httpClient:  &http.Client{Timeout: 10 * time.Second},
	}, nil
}

// Name returns the provider identifier used by the registry.
func (p *Provider) Name() string {
	return providerName
}

// AuthCodeURL builds the OAuth authorization URL.
func (p *Provider) AuthCodeURL(state string) string {
	return p.oauthConfig.AuthCodeURL(state)
}

func (p *Provider) Exchange(
	ctx context.Context,
	code string,
) (*oauth2.Token, error) {

	token, err := p.oauthConfig.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("facebook token exchange failed: %w", err)
	}
	return token, nil
}

// Identity fetches the Graph profile and normalizes it. Facebook only
// returns confirmed email addresses, so a present email counts as
// verified.
func (p *Provider) Identity(
	ctx context.Context,
	token *oauth2.Token,
) (*auth.Identity, error) {

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.userInfoURL, nil)
	if err != nil {
		return nil, fmt.Errorf("facebook userinfo request failed: %w", err)
	}
	token.SetAuthHeader(req)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("facebook userinfo request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("facebook userinfo returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("facebook userinfo read failed: %w", err)
	}

	var profile struct {
		ID    string `json:"id"`
		Name  string `json:"name"`
		Email string `json:"email"`
	}
	if err := json.Unmarshal(body, &profile); err != nil {
		return nil, fmt.Errorf("facebook userinfo parse failed: %w", err)
	}

	if profile.ID == "" {
		return nil, fmt.Errorf("%w: facebook profile has no id", auth.ErrIncompleteProfile)
	}

	return &auth.Identity{
		Provider:       providerName,
		ProviderUserID: profile.ID,
		Email:          profile.Email,
		EmailVerified:  profile.Email != "",
		DisplayName:    profile.Name,
	}, nil
}

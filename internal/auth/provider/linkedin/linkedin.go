package linkedin

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

const providerName = "linkedin"

const (
	authURL     = "https://www.linkedin.com/oauth/v2/authorization"
	tokenURL    = "https://www.linkedin.com/oauth/v2/accessToken"
	userInfoURL = "https://api.linkedin.com/v2/userinfo"
)

// Provider authenticates users through LinkedIn's OAuth endpoints.
// LinkedIn's token endpoint requires client credentials in the form
// body, not basic auth, hence AuthStyleInParams.
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
		return nil, errors.New("linkedin oauth config missing required fields")
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
		Scopes: []string{"openid", "profile", "email"},
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
		return nil, fmt.Errorf("linkedin token exchange failed: %w", err)
	}
	return token, nil
}

// Identity fetches LinkedIn's OIDC userinfo and normalizes it.
func (p *Provider) Identity(
	ctx context.Context,
	token *oauth2.Token,
) (*auth.Identity, error) {

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.userInfoURL, nil)
	if err != nil {
		return nil, fmt.Errorf("linkedin userinfo request failed: %w", err)
	}
	token.SetAuthHeader(req)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("linkedin userinfo request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("linkedin userinfo returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("linkedin userinfo read failed: %w", err)
	}

	var profile struct {
		Subject       string `json:"sub"`
		Name          string `json:"name"`
		Email         string `json:"email"`
		EmailVerified bool   `json:"email_verified"`
	}
	if err := json.Unmarshal(body, &profile); err != nil {
		return nil, fmt.Errorf("linkedin userinfo parse failed: %w", err)
	}

	if profile.Subject == "" {
		return nil, fmt.Errorf("%w: linkedin userinfo has no sub", auth.ErrIncompleteProfile)
	}

	return &auth.Identity{
		Provider:       providerName,
		ProviderUserID: profile.Subject,
		Email:          profile.Email,
		EmailVerified:  profile.EmailVerified,
		DisplayName:    profile.Name,
	}, nil
}

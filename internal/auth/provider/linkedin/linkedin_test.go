package linkedin

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"golang.org/x/oauth2"

	"social-login-service/internal/auth"
)

func TestNewRequiresCredentials(t *testing.T) {
	if _, err := New("", "", ""); err == nil {
		t.Error("New() accepted empty config")
	}
}

func TestAuthCodeURLCarriesRequiredParams(t *testing.T) {
	p, err := New("client-1", "secret", "https://app.example/auth/linkedin/callback")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	u := p.AuthCodeURL("state-xyz")
	for _, want := range []string{
		"response_type=code",
		"client_id=client-1",
		"state=state-xyz",
		"scope=openid+profile+email",
	} {
		if !strings.Contains(u, want) {
			t.Errorf("AuthCodeURL() = %q, missing %q", u, want)
		}
	}
}

func testProvider(t *testing.T, userInfoHandler http.HandlerFunc) *Provider {
	t.Helper()

	userInfoSrv := httptest.NewServer(userInfoHandler)
	t.Cleanup(userInfoSrv.Close)

	return &Provider{
		oauthConfig: &oauth2.Config{
			ClientID:     "client-1",
			ClientSecret: "secret",
			RedirectURL:  "https://app.example/auth/linkedin/callback",
			Endpoint: oauth2.Endpoint{
				AuthURL:   authURL,
				TokenURL:  tokenURL,
				AuthStyle: oauth2.AuthStyleInParams,
			},
			Scopes: []string{"openid", "profile", "email"},
		},
		userInfoURL: userInfoSrv.URL + "/v2/userinfo",
		httpClient:  &http.Client{Timeout: 5 * time.Second},
	}
}

func TestIdentityNormalizesUserInfo(t *testing.T) {
	p := testProvider(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer T" {
			t.Errorf("userinfo Authorization = %q, want Bearer T", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"sub":"li-9","name":"Grace Hopper","email":"g@h.com","email_verified":true}`))
	})

	identity, err := p.Identity(context.Background(), &oauth2.Token{AccessToken: "T"})
	if err != nil {
		t.Fatalf("Identity() error = %v", err)
	}

	want := auth.Identity{
		Provider:       "linkedin",
		ProviderUserID: "li-9",
		Email:          "g@h.com",
		EmailVerified:  true,
		DisplayName:    "Grace Hopper",
	}
	if *identity != want {
		t.Fatalf("Identity() = %+v, want %+v", *identity, want)
	}
}

func TestIdentityWithoutSubIsIncomplete(t *testing.T) {
	p := testProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"name":"No Sub"}`))
	})

	_, err := p.Identity(context.Background(), &oauth2.Token{AccessToken: "T"})
	if !errors.Is(err, auth.ErrIncompleteProfile) {
		t.Fatalf("Identity() error = %v, want ErrIncompleteProfile", err)
	}
}

func TestIdentityFailsOnUserInfoError(t *testing.T) {
	p := testProvider(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	})

	if _, err := p.Identity(context.Background(), &oauth2.Token{AccessToken: "T"}); err == nil {
		t.Fatal("Identity() succeeded on userinfo error")
	}
}

package flow

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"testing"

	"golang.org/x/oauth2"

	"social-login-service/internal/auth"
	"social-login-service/internal/auth/provider"
	"social-login-service/internal/auth/state"
	"social-login-service/internal/logger"
)

func init() {
	logger.Init()
}

// fakeProvider counts network-leg calls so tests can assert that
// denied or replayed callbacks never reach the token endpoint.
type fakeProvider struct {
	name          string
	exchangeCalls int
	exchangeErr   error
	identity      *auth.Identity
	identityErr   error
}

func (f *fakeProvider) Name() string { return f.name }

func (f *fakeProvider) AuthCodeURL(state string) string {
	return "https://provider.example/authorize?state=" + state
}

func (f *fakeProvider) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	f.exchangeCalls++
	if f.exchangeErr != nil {
		return nil, f.exchangeErr
	}
	return &oauth2.Token{AccessToken: "T"}, nil
}

func (f *fakeProvider) Identity(ctx context.Context, token *oauth2.Token) (*auth.Identity, error) {
	if f.identityErr != nil {
		return nil, f.identityErr
	}
	return f.identity, nil
}

func newTestFlow(t *testing.T, p *fakeProvider) (*Flow, state.Store) {
	t.Helper()
	states := state.NewMemoryStore(state.DefaultTTL)
	t.Cleanup(states.Close)
	return New(provider.NewRegistry(p), states), states
}

func issueState(t *testing.T, states state.Store) string {
	t.Helper()
	value, err := states.Issue(context.Background())
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	return value
}

func TestBeginLoginBuildsAuthURL(t *testing.T) {
	p := &fakeProvider{name: "google"}
	f, _ := newTestFlow(t, p)

	redirect, err := f.BeginLogin(context.Background(), "google")
	if err != nil {
		t.Fatalf("BeginLogin() error = %v", err)
	}
	if !strings.HasPrefix(redirect, "https://provider.example/authorize?state=") {
		t.Fatalf("BeginLogin() = %q, want provider authorize URL", redirect)
	}
	if strings.HasSuffix(redirect, "state=") {
		t.Fatal("BeginLogin() produced empty state")
	}
}

func TestBeginLoginUnknownProvider(t *testing.T) {
	f, _ := newTestFlow(t, &fakeProvider{name: "google"})

	_, err := f.BeginLogin(context.Background(), "myspace")
	if !errors.Is(err, auth.ErrUnknownProvider) {
		t.Fatalf("BeginLogin() error = %v, want ErrUnknownProvider", err)
	}
}

func TestHandleCallbackProviderDenied(t *testing.T) {
	p := &fakeProvider{name: "google"}
	f, states := newTestFlow(t, p)
	stateValue := issueState(t, states)

	query := url.Values{
		"error": {"access_denied"},
		"state": {stateValue},
		"code":  {"abc123"},
	}

	_, err := f.HandleCallback(context.Background(), "google", query)
	if !errors.Is(err, auth.ErrProviderDenied) {
		t.Fatalf("HandleCallback() error = %v, want ErrProviderDenied", err)
	}
	if p.exchangeCalls != 0 {
		t.Fatalf("exchange attempted %d times on denied callback, want 0", p.exchangeCalls)
	}
}

func TestHandleCallbackMissingState(t *testing.T) {
	p := &fakeProvider{name: "google"}
	f, _ := newTestFlow(t, p)

	query := url.Values{"code": {"abc123"}}

	_, err := f.HandleCallback(context.Background(), "google", query)
	if !errors.Is(err, auth.ErrInvalidState) {
		t.Fatalf("HandleCallback() error = %v, want ErrInvalidState", err)
	}
	if p.exchangeCalls != 0 {
		t.Fatal("exchange attempted without a valid state")
	}
}

func TestHandleCallbackForgedState(t *testing.T) {
	p := &fakeProvider{name: "google"}
	f, _ := newTestFlow(t, p)

	query := url.Values{
		"state": {"never-issued"},
		"code":  {"abc123"},
	}

	_, err := f.HandleCallback(context.Background(), "google", query)
	if !errors.Is(err, auth.ErrInvalidState) {
		t.Fatalf("HandleCallback() error = %v, want ErrInvalidState", err)
	}
}

func TestHandleCallbackMissingCode(t *testing.T) {
	p := &fakeProvider{name: "google"}
	f, states := newTestFlow(t, p)
	stateValue := issueState(t, states)

	query := url.Values{"state": {stateValue}}

	_, err := f.HandleCallback(context.Background(), "google", query)
	if !errors.Is(err, auth.ErrMissingCode) {
		t.Fatalf("HandleCallback() error = %v, want ErrMissingCode", err)
	}
}

func TestHandleCallbackSuccess(t *testing.T) {
	p := &fakeProvider{
		name: "google",
		identity: &auth.Identity{
			Provider:       "google",
			ProviderUserID: "42",
			Email:          "a@b.com",
			EmailVerified:  true,
		},
	}
	f, states := newTestFlow(t, p)
	stateValue := issueState(t, states)

	query := url.Values{
		"state": {stateValue},
		"code":  {"abc123"},
	}

	identity, err := f.HandleCallback(context.Background(), "google", query)
	if err != nil {
		t.Fatalf("HandleCallback() error = %v", err)
	}
	if identity.Provider != "google" || identity.ProviderUserID != "42" {
		t.Fatalf("identity = %+v, want google/42", identity)
	}
	if identity.Email != "a@b.com" {
		t.Fatalf("identity.Email = %q, want a@b.com", identity.Email)
	}
	if p.exchangeCalls != 1 {
		t.Fatalf("exchange called %d times, want 1", p.exchangeCalls)
	}
}

func TestHandleCallbackReplayRejected(t *testing.T) {
	p := &fakeProvider{
		name:     "google",
		identity: &auth.Identity{Provider: "google", ProviderUserID: "42"},
	}
	f, states := newTestFlow(t, p)
	stateValue := issueState(t, states)

	query := url.Values{
		"state": {stateValue},
		"code":  {"abc123"},
	}

	if _, err := f.HandleCallback(context.Background(), "google", query); err != nil {
		t.Fatalf("first HandleCallback() error = %v", err)
	}

	_, err := f.HandleCallback(context.Background(), "google", query)
	if !errors.Is(err, auth.ErrInvalidState) {
		t.Fatalf("replayed HandleCallback() error = %v, want ErrInvalidState", err)
	}
	if p.exchangeCalls != 1 {
		t.Fatalf("exchange called %d times after replay, want 1", p.exchangeCalls)
	}
}

func TestHandleCallbackExchangeFailure(t *testing.T) {
	p := &fakeProvider{
		name:        "google",
		exchangeErr: errors.New("provider returned 500"),
	}
	f, states := newTestFlow(t, p)
	stateValue := issueState(t, states)

	query := url.Values{
		"state": {stateValue},
		"code":  {"abc123"},
	}

	_, err := f.HandleCallback(context.Background(), "google", query)
	if !errors.Is(err, auth.ErrTokenExchangeFailed) {
		t.Fatalf("HandleCallback() error = %v, want ErrTokenExchangeFailed", err)
	}
}

func TestHandleCallbackProfileFailures(t *testing.T) {
	tests := []struct {
		name        string
		identityErr error
		want        error
	}{
		{"fetch failure", errors.New("userinfo returned 502"), auth.ErrProfileFetchFailed},
		{"incomplete profile", auth.ErrIncompleteProfile, auth.ErrIncompleteProfile},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &fakeProvider{name: "google", identityErr: tt.identityErr}
			f, states := newTestFlow(t, p)
			stateValue := issueState(t, states)

			query := url.Values{
				"state": {stateValue},
				"code":  {"abc123"},
			}

			_, err := f.HandleCallback(context.Background(), "google", query)
			if !errors.Is(err, tt.want) {
				t.Fatalf("HandleCallback() error = %v, want %v", err, tt.want)
			}
		})
	}
}

package flow

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"social-login-service/internal/auth"
	"social-login-service/internal/auth/provider"
	"social-login-service/internal/auth/state"
	"social-login-service/internal/logger"
)

// networkTimeout bounds the token exchange and profile fetch legs.
// Both are one-shot: authorization codes are single-use, so a failed
// exchange means the user restarts from BeginLogin.
const networkTimeout = 10 * time.Second

// Flow drives a login attempt from the initial redirect through the
// provider callback to a normalized identity. It owns the ordering
// guarantees: a denied callback never reaches the token endpoint, and
// the state value is consumed before any network call.
type Flow struct {
	providers *provider.Registry
	states    state.Store
}

func New(registry *provider.Registry, states state.Store) *Flow {
	return &Flow{
		providers: registry,
		states:    states,
	}
}

// BeginLogin issues a fresh state value and returns the provider's
// authorization URL for the boundary layer to redirect to.
func (f *Flow) BeginLogin(ctx context.Context, providerName string) (string, error) {
	p, err := f.providers.Get(providerName)
	if err != nil {
		return "", err
	}

	stateValue, err := f.states.Issue(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to issue state: %w", err)
	}

	return p.AuthCodeURL(stateValue), nil
}

// HandleCallback validates the provider callback and returns the
// normalized identity. Every failure maps to one of the auth
// sentinel errors; the caller restarts the flow, never retries.
func (f *Flow) HandleCallback(
	ctx context.Context,
	providerName string,
	query url.Values,
) (*auth.Identity, error) {

	p, err := f.providers.Get(providerName)
	if err != nil {
		return nil, err
	}

	// The user declined consent or the provider failed. Checked before
	// anything else so no code exchange is ever attempted.
	if errParam := query.Get("error"); errParam != "" {
		logger.Warn("oauth callback returned error", map[string]any{
			"provider": providerName,
			"error":    errParam,
		})
		return nil, fmt.Errorf("%w: %s", auth.ErrProviderDenied, errParam)
	}

	stateValue := query.Get("state")
	if stateValue == "" {
		return nil, auth.ErrInvalidState
	}
	if err := f.states.ValidateAndConsume(ctx, stateValue); err != nil {
		return nil, err
	}

	code := query.Get("code")
	if code == "" {
		return nil, auth.ErrMissingCode
	}

	ctx, cancel := context.WithTimeout(ctx, networkTimeout)
	defer cancel()

	token, err := p.Exchange(ctx, code)
	if err != nil {
		logger.Warn("token exchange failed", map[string]any{
			"provider": providerName,
		})
		return nil, fmt.Errorf("%w: %v", auth.ErrTokenExchangeFailed, err)
	}

	identity, err := p.Identity(ctx, token)
	if err != nil {
		if errors.Is(err, auth.ErrIncompleteProfile) {
			return nil, err
		}
		logger.Warn("profile fetch failed", map[string]any{
			"provider": providerName,
		})
		return nil, fmt.Errorf("%w: %v", auth.ErrProfileFetchFailed, err)
	}

	return identity, nil
}

package auth

import "errors"

// Sentinel errors for every way a login attempt can fail. Handlers
// map these to HTTP responses; callers match with errors.Is.
var (
	ErrUnknownProvider     = errors.New("unknown oauth provider")
	ErrProviderDenied      = errors.New("provider denied authorization")
	ErrInvalidState        = errors.New("invalid oauth state")
	ErrMissingCode         = errors.New("authorization code missing")
	ErrTokenExchangeFailed = errors.New("token exchange failed")
	ErrProfileFetchFailed  = errors.New("profile fetch failed")
	ErrIncompleteProfile   = errors.New("profile missing stable user id")
	ErrAccountConflict     = errors.New("account conflict")
)

package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"social-login-service/internal/auth"
	"social-login-service/internal/auth/flow"
	"social-login-service/internal/logger"
	"social-login-service/internal/session"
)

// Handler is the HTTP boundary of the login flow. It translates
// requests into flow/issuer calls and AuthError kinds into generic
// client responses; the specific kind only reaches server-side logs.
type Handler struct {
	flow         *flow.Flow
	issuer       *session.Issuer
	sessionStore session.Store
	opts         Options
}

type Options struct {
	// PostLoginRedirect is where a successful callback sends the
	// authenticated client.
	PostLoginRedirect string

	// SecureCookies must be true everywhere except local dev over
	// plain http.
	SecureCookies bool
}

func New(
	loginFlow *flow.Flow,
	issuer *session.Issuer,
	sessionStore session.Store,
	opts Options,
) *Handler {
	if opts.PostLoginRedirect == "" {
		opts.PostLoginRedirect = "/"
	}
	return &Handler{
		flow:         loginFlow,
		issuer:       issuer,
		sessionStore: sessionStore,
		opts:         opts,
	}
}

// RegisterRoutes wires the login surface. Logout lives outside
// /auth because gin cannot mix a static segment with the :provider
// wildcard.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/auth/:provider/login", h.login)
	r.GET("/auth/:provider/callback", h.callback)
	r.POST("/logout", h.logout)
}

func (h *Handler) login(c *gin.Context) {
	providerName := c.Param("provider")

	redirectURL, err := h.flow.BeginLogin(c.Request.Context(), providerName)
	if err != nil {
		h.fail(c, providerName, err)
		return
	}

	c.Redirect(http.StatusFound, redirectURL)
}

func (h *Handler) callback(c *gin.Context) {
	providerName := c.Param("provider")

	identity, err := h.flow.HandleCallback(
		c.Request.Context(),
		providerName,
		c.Request.URL.Query(),
	)
	if err != nil {
		h.fail(c, providerName, err)
		return
	}

	sess, err := h.issuer.Establish(c.Request.Context(), identity)
	if err != nil {
		h.fail(c, providerName, err)
		return
	}

	session.SetCookie(c.Writer, sess.SessionID, sess.ExpiresAt, session.CookieOptions{
		Secure:   h.opts.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})

	logger.Info("login succeeded", map[string]any{
		"provider": providerName,
		"user_id":  sess.UserID,
	})

	c.Redirect(http.StatusFound, h.opts.PostLoginRedirect)
}

func (h *Handler) logout(c *gin.Context) {
	if sessionID, ok := session.ReadSessionID(c.Request); ok {
		// best effort; the cookie is cleared either way
		_ = h.sessionStore.Delete(c.Request.Context(), sessionID)
	}

	session.ClearCookie(c.Writer, session.CookieOptions{
		Secure:   h.opts.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})

	c.Status(http.StatusNoContent)
}

// fail logs the specific error kind and answers with a generic
// message. Provider payloads, tokens, and secrets never reach the
// client.
func (h *Handler) fail(c *gin.Context, providerName string, err error) {
	logger.Warn("login failed", map[string]any{
		"provider": providerName,
		"kind":     kindOf(err),
	})

	if errors.Is(err, auth.ErrUnknownProvider) {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown provider"})
		return
	}

	c.JSON(statusFor(err), gin.H{"error": "login failed, please try again"})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, auth.ErrProviderDenied),
		errors.Is(err, auth.ErrInvalidState),
		errors.Is(err, auth.ErrMissingCode):
		return http.StatusUnauthorized
	case errors.Is(err, auth.ErrAccountConflict):
		return http.StatusConflict
	case errors.Is(err, auth.ErrTokenExchangeFailed),
		errors.Is(err, auth.ErrProfileFetchFailed),
		errors.Is(err, auth.ErrIncompleteProfile):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func kindOf(err error) string {
	switch {
	case errors.Is(err, auth.ErrUnknownProvider):
		return "unknown_provider"
	case errors.Is(err, auth.ErrProviderDenied):
		return "provider_denied"
	case errors.Is(err, auth.ErrInvalidState):
		return "invalid_state"
	case errors.Is(err, auth.ErrMissingCode):
		return "missing_code"
	case errors.Is(err, auth.ErrTokenExchangeFailed):
		return "token_exchange_failed"
	case errors.Is(err, auth.ErrProfileFetchFailed):
		return "profile_fetch_failed"
	case errors.Is(err, auth.ErrIncompleteProfile):
		return "incomplete_profile"
	case errors.Is(err, auth.ErrAccountConflict):
		return "account_conflict"
	default:
		return "internal"
	}
}

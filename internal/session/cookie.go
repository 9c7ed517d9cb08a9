package session

import (
	"net/http"
	"time"
)

const (
	// SecureCookieName carries the session credential over https. The
	// __Host- prefix requires Secure, Path=/ and no Domain, which
	// pins the cookie to this origin.
	SecureCookieName = "__Host-session"

	// PlainCookieName is used when Secure is off (local dev over
	// plain http); browsers reject __Host- cookies without Secure.
	PlainCookieName = "session"
)

// CookieOptions defines how session cookies are issued.
type CookieOptions struct {
	Path     string
	HttpOnly bool
	Secure   bool
	SameSite http.SameSite
	Domain   string // should usually be empty for __Host- cookies
}

// normalize applies safe defaults without breaking callers
func (o CookieOptions) normalize() CookieOptions {
	if o.Path == "" {
		o.Path = "/" // required for __Host-
	}
	if !o.HttpOnly {
		o.HttpOnly = true
	}
	return o
}

func (o CookieOptions) name() string {
	if o.Secure {
		return SecureCookieName
	}
	return PlainCookieName
}

// ReadSessionID extracts the session credential from a request,
// accepting either cookie name so a dev-issued session still reads
// behind a TLS-terminating proxy and vice versa.
func ReadSessionID(r *http.Request) (string, bool) {
	for _, name := range []string{SecureCookieName, PlainCookieName} {
		if cookie, err := r.Cookie(name); err == nil && cookie.Value != "" {
			return cookie.Value, true
		}
	}
	return "", false
}

// SetCookie issues the session cookie to the client.
func SetCookie(
	w http.ResponseWriter,
	sessionID string,
	expiresAt time.Time,
	opts CookieOptions,
) {
	opts = opts.normalize()

	http.SetCookie(w, &http.Cookie{
		Name:     opts.name(),
		Value:    sessionID,
		Path:     opts.Path,
		Domain:   opts.Domain,
		Expires:  expiresAt,
		HttpOnly: opts.HttpOnly,
		Secure:   opts.Secure,
		SameSite: opts.SameSite,
	})
}

// ClearCookie removes the session cookie from the client.
func ClearCookie(
	w http.ResponseWriter,
	opts CookieOptions,
) {
	opts = opts.normalize()

	http.SetCookie(w, &http.Cookie{
		Name:     opts.name(),
		Value:    "",
		Path:     opts.Path,
		Domain:   opts.Domain,
		MaxAge:   -1,
		HttpOnly: opts.HttpOnly,
		Secure:   opts.Secure,
		SameSite: opts.SameSite,
	})
}

package sessions

import (
	"net/http"

	"github.com/google/uuid"
)

// ID returns the caller's session ID, issuing a new session cookie when the
// request carries none or an invalid one.
func ID(w http.ResponseWriter, r *http.Request, cfg *Config) uuid.UUID {
	if id, ok := Peek(r, cfg.CookieName); ok {
		return id
	}

	id := uuid.New()
	http.SetCookie(w, &http.Cookie{
		Name:     cfg.CookieName,
		Value:    id.String(),
		Path:     "/",
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}

// Peek returns the session ID carried by the request without issuing one.
func Peek(r *http.Request, cookieName string) (uuid.UUID, bool) {
	c, err := r.Cookie(cookieName)
	if err != nil {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(c.Value)
	if err != nil || id == uuid.Nil {
		return uuid.Nil, false
	}
	return id, true
}

// Clear expires the session cookie.
func Clear(w http.ResponseWriter, cfg *Config) {
	http.SetCookie(w, &http.Cookie{
		Name:     cfg.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

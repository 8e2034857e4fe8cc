package rest

import (
	"context"
	"net/http"
	"time"

	"github.com/arch-mania/takanekaitori-prod/internal/core/port"
)

const (
	UnlockCookieName   = "property_unlocks"
	unlockCookieMaxAge = 365 * 24 * time.Hour
)

// UnlockCookie stores the unlocked property set in an HttpOnly cookie.
type UnlockCookie struct {
	codec  port.UnlockTokenPort
	secure bool
}

func NewUnlockCookie(codec port.UnlockTokenPort, secure bool) *UnlockCookie {
	return &UnlockCookie{codec: codec, secure: secure}
}

// Read returns the unlocked ids; a missing or invalid cookie is an empty set.
func (c *UnlockCookie) Read(r *http.Request) []string {
	cookie, err := r.Cookie(UnlockCookieName)
	if err != nil {
		return []string{}
	}
	return c.codec.Decode(r.Context(), cookie.Value)
}

func (c *UnlockCookie) Write(ctx context.Context, w http.ResponseWriter, ids []string) error {
	token, err := c.codec.Encode(ctx, ids)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     UnlockCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(unlockCookieMaxAge / time.Second),
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

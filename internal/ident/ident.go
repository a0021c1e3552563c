// Package ident mints and reuses the session and click identifiers.
package ident

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/tjfontaine/marketin-sdk-go/internal/core/domain"
	"github.com/tjfontaine/marketin-sdk-go/internal/core/ports"
)

const (
	// ClickCookie holds the click id between page loads; it shares its name
	// with the query parameter that carries it.
	ClickCookie = "mi_click"

	// ClickMaxAge is how long a minted click id is reused: 30 days.
	ClickMaxAge = 30 * 24 * time.Hour
)

// New returns a random version 4 UUID.
func New() string {
	return uuid.NewString()
}

// SessionID keeps a supplied session id and mints one otherwise.
func SessionID(supplied string) string {
	if supplied != "" {
		return supplied
	}
	return New()
}

// ClickResolver derives click ids, reusing the one stored in the cookie jar
// so repeated clicks from the same browser do not mint new ids.
type ClickResolver struct {
	Jar    ports.CookieJar
	Query  ports.QueryReader
	Secure bool
	Logger *slog.Logger
}

// Resolve returns the click id: explicit value, then the mi_click query
// parameter, then the stored cookie, then a fresh UUID. When the cookie did
// not already hold a value the resolved id is written to it.
func (r ClickResolver) Resolve(ctx context.Context, explicit domain.ID) domain.ID {
	logger := r.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var stored domain.ID
	if r.Jar != nil {
		if v, err := r.Jar.Get(ctx, ClickCookie); err == nil {
			if decoded, err := url.QueryUnescape(v); err == nil {
				stored = domain.ID(decoded)
			}
		}
	}

	var fromQuery domain.ID
	if r.Query != nil {
		if v, ok := r.Query.QueryParam(ClickCookie); ok {
			fromQuery = domain.ID(v)
		}
	}

	id := explicit.Or(fromQuery, stored)
	if id == "" {
		id = domain.ID(New())
	}

	if stored == "" && r.Jar != nil {
		err := r.Jar.Set(ctx, &http.Cookie{
			Name:     ClickCookie,
			Value:    url.QueryEscape(id.String()),
			Path:     "/",
			MaxAge:   int(ClickMaxAge / time.Second),
			SameSite: http.SameSiteLaxMode,
			Secure:   r.Secure,
		})
		if err != nil {
			logger.Warn("failed to persist click id", slog.String("error", err.Error()))
		}
	}

	return id
}

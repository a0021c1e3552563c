// Package cookie provides an in-memory cookie jar that mirrors what a browser
// exposes to page scripts, and bridges to Cookie / Set-Cookie headers when the
// client is embedded in a Go HTTP handler.
package cookie

import (
	"context"
	"fmt"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/tjfontaine/marketin-sdk-go/internal/core/domain"
	"github.com/tjfontaine/marketin-sdk-go/internal/core/ports"
)

type entry struct {
	cookie  *http.Cookie
	expires time.Time // zero for session cookies
}

// Jar is an in-memory implementation of ports.CookieJar.
type Jar struct {
	mu      sync.RWMutex
	cookies map[string]entry
	pending map[string]*http.Cookie
	now     func() time.Time
}

// Ensure Jar implements ports.CookieJar at compile time.
var _ ports.CookieJar = (*Jar)(nil)

// New creates an empty jar.
func New() *Jar {
	return &Jar{
		cookies: make(map[string]entry),
		pending: make(map[string]*http.Cookie),
		now:     time.Now,
	}
}

// WithClock overrides the jar's time source.
func (j *Jar) WithClock(now func() time.Time) *Jar {
	j.now = now
	return j
}

// FromRequest seeds a jar with the cookies the browser sent on r.
func FromRequest(r *http.Request) *Jar {
	j := New()
	for _, c := range r.Cookies() {
		j.cookies[c.Name] = entry{cookie: c}
	}
	return j
}

// Parse seeds a jar from a raw Cookie header value.
func Parse(header string) (*Jar, error) {
	j := New()
	if header == "" {
		return j, nil
	}
	cookies, err := http.ParseCookie(header)
	if err != nil {
		return nil, fmt.Errorf("parse cookie header: %w", err)
	}
	for _, c := range cookies {
		j.cookies[c.Name] = entry{cookie: c}
	}
	return j, nil
}

// Get returns the value of a live cookie.
func (j *Jar) Get(ctx context.Context, name string) (string, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()

	e, ok := j.cookies[name]
	if !ok || j.expired(e) {
		return "", fmt.Errorf("cookie %s: %w", name, domain.ErrNotFound)
	}
	return e.cookie.Value, nil
}

// Set stores a cookie following Max-Age / Expires semantics: a negative
// Max-Age deletes it, a positive one takes precedence over Expires.
func (j *Jar) Set(ctx context.Context, c *http.Cookie) error {
	if c == nil {
		return fmt.Errorf("nil cookie")
	}
	if err := c.Valid(); err != nil {
		return fmt.Errorf("invalid cookie %s: %w", c.Name, err)
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	stored := *c
	j.pending[c.Name] = &stored

	if c.MaxAge < 0 {
		delete(j.cookies, c.Name)
		return nil
	}

	e := entry{cookie: &stored}
	switch {
	case c.MaxAge > 0:
		e.expires = j.now().Add(time.Duration(c.MaxAge) * time.Second)
	case !c.Expires.IsZero():
		e.expires = c.Expires
	}
	if !e.expires.IsZero() && !e.expires.After(j.now()) {
		delete(j.cookies, c.Name)
		return nil
	}
	j.cookies[c.Name] = e
	return nil
}

// Delete expires the cookie. Deleting an absent cookie is not an error.
func (j *Jar) Delete(ctx context.Context, name string) error {
	return j.Set(ctx, &http.Cookie{Name: name, Path: "/", MaxAge: -1})
}

// Cookie returns a copy of the stored cookie with its attributes.
func (j *Jar) Cookie(name string) (*http.Cookie, bool) {
	j.mu.RLock()
	defer j.mu.RUnlock()

	e, ok := j.cookies[name]
	if !ok || j.expired(e) {
		return nil, false
	}
	c := *e.cookie
	return &c, true
}

// SetCookieHeaders renders every cookie written since the jar was created,
// in a stable order, as Set-Cookie header values.
func (j *Jar) SetCookieHeaders() []string {
	j.mu.RLock()
	defer j.mu.RUnlock()

	names := make([]string, 0, len(j.pending))
	for name := range j.pending {
		names = append(names, name)
	}
	slices.Sort(names)

	out := make([]string, 0, len(names))
	for _, name := range names {
		out = append(out, j.pending[name].String())
	}
	return out
}

// WriteTo appends the pending Set-Cookie headers to w.
func (j *Jar) WriteTo(w http.ResponseWriter) {
	for _, v := range j.SetCookieHeaders() {
		w.Header().Add("Set-Cookie", v)
	}
}

func (j *Jar) expired(e entry) bool {
	return !e.expires.IsZero() && !e.expires.After(j.now())
}

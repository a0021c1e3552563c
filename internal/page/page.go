// Package page provides the host page views the client reads from.
package page

import (
	"net/http"
	"net/url"
	"strconv"

	"golang.org/x/text/language"
)

// Static is a page described by plain values. Used by the CLI and tests.
type Static struct {
	Location      string
	ReferrerURL   string
	DocumentTitle string
	Agent         string
	Width         int
	Height        int
	Lang          string
}

// Href returns the page URL.
func (p Static) Href() string { return p.Location }

// Referrer returns the referring URL, if any.
func (p Static) Referrer() string { return p.ReferrerURL }

// Title returns the document title.
func (p Static) Title() string { return p.DocumentTitle }

// UserAgent returns the browser user agent.
func (p Static) UserAgent() string { return p.Agent }

// ScreenSize returns the screen dimensions in pixels.
func (p Static) ScreenSize() (int, int) { return p.Width, p.Height }

// Language returns the BCP 47 tag of the browsing language.
func (p Static) Language() string { return p.Lang }

// Secure reports whether Location uses https.
func (p Static) Secure() bool {
	u, err := url.Parse(p.Location)
	return err == nil && u.Scheme == "https"
}

// QueryParam returns the first value of name in Location's query string.
func (p Static) QueryParam(name string) (string, bool) {
	u, err := url.Parse(p.Location)
	if err != nil {
		return "", false
	}
	q := u.Query()
	if !q.Has(name) {
		return "", false
	}
	return q.Get(name), true
}

// FromRequest describes the page a browser requested. The title is not
// part of a request and must be supplied by the caller.
func FromRequest(r *http.Request, title string) Static {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}

	loc := url.URL{
		Scheme:   scheme,
		Host:     r.Host,
		Path:     r.URL.Path,
		RawQuery: r.URL.RawQuery,
	}

	return Static{
		Location:      loc.String(),
		ReferrerURL:   r.Referer(),
		DocumentTitle: title,
		Agent:         r.UserAgent(),
		Width:         headerInt(r, "Sec-CH-Viewport-Width", "Viewport-Width"),
		Height:        headerInt(r, "Sec-CH-Viewport-Height"),
		Lang:          PreferredLanguage(r.Header.Get("Accept-Language")),
	}
}

// PreferredLanguage returns the highest weighted tag of an Accept-Language
// header, or "" when none parses.
func PreferredLanguage(header string) string {
	if header == "" {
		return ""
	}
	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(tags) == 0 {
		return ""
	}
	return tags[0].String()
}

func headerInt(r *http.Request, names ...string) int {
	for _, name := range names {
		if v := r.Header.Get(name); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
		}
	}
	return 0
}

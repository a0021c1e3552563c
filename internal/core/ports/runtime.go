package ports

import (
	"context"

	"github.com/tjfontaine/marketin-sdk-go/internal/core/domain"
)

// QueryReader exposes the current URL's query string.
type QueryReader interface {
	// QueryParam returns the first value of name and whether it was present.
	QueryParam(name string) (string, bool)
}

// Page is the read-only view of the host page.
// Implementations: static (CLI, tests), derived from an inbound *http.Request.
type Page interface {
	QueryReader
	Href() string
	Referrer() string
	Title() string
	UserAgent() string
	ScreenSize() (width, height int)
	Language() string
	// Secure reports whether the page was loaded over HTTPS.
	Secure() bool
}

// Transport delivers events to the collection endpoint.
type Transport interface {
	// Send posts the envelope and waits for the response body.
	Send(ctx context.Context, env domain.Envelope) (map[string]any, error)
	// Dispatch posts the envelope in the background; the outcome is only logged.
	Dispatch(env domain.Envelope)
	// Wait blocks until in-flight dispatches finish or ctx is done.
	Wait(ctx context.Context) error
}

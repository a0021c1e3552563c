// Package payload assembles the outbound record for each event kind.
package payload

import (
	"fmt"
	"time"

	"github.com/tjfontaine/marketin-sdk-go/internal/attribution"
	"github.com/tjfontaine/marketin-sdk-go/internal/core/domain"
	"github.com/tjfontaine/marketin-sdk-go/internal/core/ports"
)

// DefaultCurrency is used when a conversion names none.
const DefaultCurrency = "USD"

// Timestamp formats t the way browsers render Date.toISOString.
func Timestamp(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z07:00")
}

func or(v, fallback string) string {
	if v != "" {
		return v
	}
	return fallback
}

func queryOr(explicit *string, q ports.QueryReader, name string) *string {
	if explicit != nil {
		return explicit
	}
	if v, ok := q.QueryParam(name); ok {
		return &v
	}
	return nil
}

func idPtr(id domain.ID) *domain.ID {
	if id.IsEmpty() {
		return nil
	}
	return &id
}

// PageView builds a page view payload. It requires no attribution; campaign
// and affiliate are reported when resolvable and null otherwise.
func PageView(opts domain.PageViewOptions, page ports.Page, attr attribution.Context, now time.Time) domain.PageViewPayload {
	width, height := page.ScreenSize()

	p := domain.PageViewPayload{
		URL:              or(opts.URL, page.Href()),
		Referrer:         or(opts.Referrer, page.Referrer()),
		SessionID:        or(opts.SessionID, attr.Session.SessionID),
		Timestamp:        or(opts.Timestamp, Timestamp(now)),
		UserAgent:        or(opts.UserAgent, page.UserAgent()),
		ScreenResolution: or(opts.ScreenResolution, fmt.Sprintf("%dx%d", width, height)),
		Language:         or(opts.Language, page.Language()),
		PageTitle:        or(opts.PageTitle, page.Title()),
		UTMSource:        queryOr(opts.UTMSource, page, "utm_source"),
		UTMMedium:        queryOr(opts.UTMMedium, page, "utm_medium"),
		UTMCampaign:      queryOr(opts.UTMCampaign, page, "utm_campaign"),
		UTMTerm:          queryOr(opts.UTMTerm, page, "utm_term"),
		UTMContent:       queryOr(opts.UTMContent, page, "utm_content"),
		CampaignID:       idPtr(attr.Resolve(attribution.Campaign, opts.CampaignID)),
		AffiliateID:      idPtr(attr.Resolve(attribution.Affiliate, opts.AffiliateID)),
	}

	if brand := or(opts.BrandID, attr.Session.BrandID); brand != "" {
		p.BrandID = &brand
	}

	return p
}

// AffiliateClick builds an affiliate click payload. The ids are the ones
// supplied with the click; clickID is already resolved.
func AffiliateClick(opts domain.ClickOptions, page ports.Page, attr attribution.Context, clickID domain.ID, now time.Time) domain.AffiliateClickPayload {
	return domain.AffiliateClickPayload{
		AffiliateID: opts.AffiliateID,
		CampaignID:  opts.CampaignID,
		ProductID:   attr.Resolve(attribution.Product, opts.ProductID),
		ClickID:     clickID,
		Referrer:    or(opts.Referrer, page.Referrer()),
		URL:         or(opts.LandingURL, page.Href()),
		SessionID:   attr.Session.SessionID,
		Timestamp:   or(opts.Timestamp, Timestamp(now)),
		UserAgent:   or(opts.UserAgent, page.UserAgent()),
	}
}

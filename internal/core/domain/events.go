package domain

// EventKind names the collection endpoint an event is posted to.
type EventKind string

const (
	EventPageView         EventKind = "log-activity"
	EventAffiliateClick   EventKind = "log-affiliate-click"
	EventConversion       EventKind = "log-conversion"
	EventPublicConversion EventKind = "sdk-log-conversion" // used when no token is configured
	EventCrawl            EventKind = "crawl-data"
)

// SubscriptionEventPrefix marks conversion event types exempt from the product requirement.
const SubscriptionEventPrefix = "subscription"

// Envelope is what the client hands to the transport: the payload plus the
// session attributes that become request headers.
type Envelope struct {
	Kind       EventKind
	Endpoint   string // overrides the transport's base URL when set
	CampaignID ID
	BrandID    string
	Token      string
	Payload    any
}

// PageViewPayload is posted for every page view.
type PageViewPayload struct {
	URL              string  `json:"url"`
	Referrer         string  `json:"referrer"`
	SessionID        string  `json:"sessionId"`
	Timestamp        string  `json:"timestamp"`
	UserAgent        string  `json:"userAgent"`
	ScreenResolution string  `json:"screenResolution"`
	Language         string  `json:"language"`
	PageTitle        string  `json:"pageTitle"`
	UTMSource        *string `json:"utmSource"`
	UTMMedium        *string `json:"utmMedium"`
	UTMCampaign      *string `json:"utmCampaign"`
	UTMTerm          *string `json:"utmTerm"`
	UTMContent       *string `json:"utmContent"`
	CampaignID       *ID     `json:"campaignId"`
	AffiliateID      *ID     `json:"affiliateId"`
	BrandID          *string `json:"brandId"`
}

// AffiliateClickPayload is posted when a visitor lands through an affiliate link.
type AffiliateClickPayload struct {
	AffiliateID ID     `json:"affiliateId"`
	CampaignID  ID     `json:"campaignId"`
	ProductID   ID     `json:"productId,omitempty"`
	ClickID     ID     `json:"clickId,omitempty"`
	Referrer    string `json:"referrer"`
	URL         string `json:"url"`
	SessionID   string `json:"sessionId"`
	Timestamp   string `json:"timestamp"`
	UserAgent   string `json:"userAgent"`
}

// ConversionPayload is posted for purchases, sign-ups and subscription events.
type ConversionPayload struct {
	CampaignID    *int64         `json:"campaignId"`
	AffiliateID   *int64         `json:"affiliateId"`
	SessionID     string         `json:"sessionId"`
	EventType     string         `json:"eventType"`
	Value         float64        `json:"value"`
	Currency      string         `json:"currency"`
	ConversionRef string         `json:"conversionRef"`
	ProductID     ID             `json:"productId,omitempty"`
	CartItems     []CartItem     `json:"cartItems,omitempty"`
	Metadata      map[string]any `json:"metadata,omitempty"`
}

// CrawledProduct is one product element found on a crawled page.
type CrawledProduct struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Price    string `json:"price"`
	Category string `json:"category"`
}

// CrawlPayload is a snapshot of the page's metadata and product markup.
type CrawlPayload struct {
	URL   string `json:"url"`
	Title string `json:"title"`
	Meta  struct {
		Description string `json:"description"`
		Keywords    string `json:"keywords"`
	} `json:"meta"`
	Products []CrawledProduct `json:"products"`
}

// SDKVersion is reported in the X-MarketIn-SDK header and by Status.
const SDKVersion = "1.0.1"

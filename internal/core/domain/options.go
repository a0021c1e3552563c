package domain

// PageViewOptions overrides what a page view reports. Every field is
// optional; zero values fall back to the page and the session.
type PageViewOptions struct {
	URL              string
	Referrer         string
	SessionID        string
	Timestamp        string
	UserAgent        string
	ScreenResolution string
	Language         string
	PageTitle        string

	// UTM fields distinguish "not given" (nil, read from the URL) from an
	// explicit empty value.
	UTMSource   *string
	UTMMedium   *string
	UTMCampaign *string
	UTMTerm     *string
	UTMContent  *string

	CampaignID  ID
	AffiliateID ID
	BrandID     string
}

// ClickOptions describes an affiliate click. AffiliateID and CampaignID are required.
type ClickOptions struct {
	AffiliateID ID
	CampaignID  ID
	ProductID   ID
	ClickID     ID
	Referrer    string
	LandingURL  string
	Timestamp   string
	UserAgent   string
}

// ConversionOptions describes a conversion event.
type ConversionOptions struct {
	EventType     string
	Value         Number
	Currency      string
	ConversionRef string
	ProductID     ID
	CartItems     []CartItem
	Metadata      map[string]any

	// Subscription fields are merged into metadata for event types that
	// start with "subscription".
	SubscriptionID     string
	PeriodNumber       *int
	PlanID             string
	Interval           string
	RecurringAmount    Number
	SubscriptionStatus string
}

// InitOptions configures a client session. Keys the SDK does not recognize
// are ignored by the configuration loader.
type InitOptions struct {
	APIEndpoint    string          `koanf:"api_endpoint"`
	Debug          bool            `koanf:"debug"`
	SessionID      string          `koanf:"session_id"`
	AffiliateID    ID              `koanf:"affiliate_id"`
	CampaignID     ID              `koanf:"campaign_id"`
	BrandID        string          `koanf:"brand_id"`
	Token          string          `koanf:"token"`
	ReferralParams *ReferralParams `koanf:"referral_params"`
}

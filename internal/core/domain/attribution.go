package domain

// AttributionRecord is the durable attribution context persisted in both the
// cookie and the persistent store.
type AttributionRecord struct {
	AffiliateID ID    `json:"affiliateId,omitempty"`
	CampaignID  ID    `json:"campaignId,omitempty"`
	ProductID   ID    `json:"productId,omitempty"`
	ClickID     ID    `json:"clickId,omitempty"`
	Timestamp   int64 `json:"timestamp,omitempty"` // unix milliseconds at write time
}

// IsZero reports whether the record carries no data at all.
func (r AttributionRecord) IsZero() bool {
	return r == AttributionRecord{}
}

// Attributed reports whether both affiliate and campaign are known.
func (r AttributionRecord) Attributed() bool {
	return !r.AffiliateID.IsEmpty() && !r.CampaignID.IsEmpty()
}

// ReferralParams is attribution injected by the embedding server at init time.
type ReferralParams struct {
	AffiliateID ID `json:"affiliateId,omitempty" koanf:"affiliate_id"`
	CampaignID  ID `json:"campaignId,omitempty" koanf:"campaign_id"`
	ProductID   ID `json:"productId,omitempty" koanf:"product_id"`
	ClickID     ID `json:"clickId,omitempty" koanf:"click_id"`
}

// Record converts the params into a storable record.
func (p ReferralParams) Record() AttributionRecord {
	return AttributionRecord{
		AffiliateID: p.AffiliateID,
		CampaignID:  p.CampaignID,
		ProductID:   p.ProductID,
		ClickID:     p.ClickID,
	}
}

// SessionContext is the in-memory state owned by a single client instance.
type SessionContext struct {
	SessionID   string `json:"sessionId"`
	BrandID     string `json:"brandId,omitempty"`
	APIEndpoint string `json:"apiEndpoint"`
	Token       string `json:"-"`
	Debug       bool   `json:"debug"`

	AffiliateID ID `json:"affiliateId,omitempty"`
	CampaignID  ID `json:"campaignId,omitempty"`
	ProductID   ID `json:"productId,omitempty"`
	ClickID     ID `json:"clickId,omitempty"`
}

// Attributed reports whether the session holds both affiliate and campaign.
func (s SessionContext) Attributed() bool {
	return !s.AffiliateID.IsEmpty() && !s.CampaignID.IsEmpty()
}

package attribution

import (
	"github.com/tjfontaine/marketin-sdk-go/internal/core/domain"
	"github.com/tjfontaine/marketin-sdk-go/internal/core/ports"
)

// Query parameter names. The short names take precedence over the legacy ones.
const (
	ParamAffiliate       = "aid"
	ParamCampaign        = "cid"
	ParamProduct         = "pid"
	ParamClick           = "mi_click"
	ParamAffiliateLegacy = "affiliate_id"
	ParamCampaignLegacy  = "campaign_id"
	ParamProductLegacy   = "product_id"
)

// Field selects one identifier of the attribution context.
type Field int

const (
	Affiliate Field = iota
	Campaign
	Product
)

var queryNames = map[Field][2]string{
	Affiliate: {ParamAffiliate, ParamAffiliateLegacy},
	Campaign:  {ParamCampaign, ParamCampaignLegacy},
	Product:   {ParamProduct, ParamProductLegacy},
}

// FromQuery reads field from the URL, short name first. Empty values count as absent.
func FromQuery(q ports.QueryReader, field Field) domain.ID {
	if q == nil {
		return ""
	}
	for _, name := range queryNames[field] {
		if v, ok := q.QueryParam(name); ok && v != "" {
			return domain.ID(v)
		}
	}
	return ""
}

// Of returns field from a session context.
func (f Field) Of(s domain.SessionContext) domain.ID {
	switch f {
	case Affiliate:
		return s.AffiliateID
	case Campaign:
		return s.CampaignID
	default:
		return s.ProductID
	}
}

// In returns field from a stored record.
func (f Field) In(r domain.AttributionRecord) domain.ID {
	switch f {
	case Affiliate:
		return r.AffiliateID
	case Campaign:
		return r.CampaignID
	default:
		return r.ProductID
	}
}

// Context is everything an identifier can be resolved from.
type Context struct {
	Session   domain.SessionContext
	Persisted domain.AttributionRecord
	Query     ports.QueryReader
}

// Resolve picks the current value of one field: explicit per-call value, then
// the in-memory session, then the persisted record, then the live URL.
// Each field is resolved on its own.
func (c Context) Resolve(field Field, explicit domain.ID) domain.ID {
	if v := explicit.Or(field.Of(c.Session), field.In(c.Persisted)); v != "" {
		return v
	}
	return FromQuery(c.Query, field)
}

// QueryAttribution returns the attribution carried in the URL, if any.
// ok is true only when affiliate and campaign are both present.
func QueryAttribution(q ports.QueryReader) (rec domain.AttributionRecord, ok bool) {
	rec = domain.AttributionRecord{
		AffiliateID: FromQuery(q, Affiliate),
		CampaignID:  FromQuery(q, Campaign),
		ProductID:   FromQuery(q, Product),
	}
	if q != nil {
		if v, present := q.QueryParam(ParamClick); present {
			rec.ClickID = domain.ID(v)
		}
	}
	return rec, rec.Attributed()
}

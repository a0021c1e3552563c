package payload

import (
	"math"

	"github.com/tjfontaine/marketin-sdk-go/internal/attribution"
	"github.com/tjfontaine/marketin-sdk-go/internal/core/domain"
	"github.com/tjfontaine/marketin-sdk-go/internal/ident"
)

// ProductID resolves the top-level product of a conversion: explicit value,
// then the first cart line that names one, then the usual attribution order.
func ProductID(opts domain.ConversionOptions, attr attribution.Context) domain.ID {
	explicit := opts.ProductID
	if explicit.IsEmpty() {
		for _, item := range opts.CartItems {
			if !item.ProductID.IsEmpty() {
				explicit = item.ProductID
				break
			}
		}
	}
	return attr.Resolve(attribution.Product, explicit)
}

// SanitizeCart defaults an absent quantity to 1 and back-fills missing
// identifiers. The input slice is not modified.
func SanitizeCart(items []domain.CartItem, productID domain.ID, persisted domain.AttributionRecord) []domain.CartItem {
	if len(items) == 0 {
		return nil
	}

	out := make([]domain.CartItem, 0, len(items))
	for _, item := range items {
		if item.Quantity.IsEmpty() {
			item.Quantity = "1"
		}
		item.ProductID = item.ProductID.Or(productID)
		item.AffiliateID = item.AffiliateID.Or(persisted.AffiliateID)
		item.CampaignID = item.CampaignID.Or(persisted.CampaignID)
		out = append(out, item)
	}
	return out
}

// CartTotal sums price × quantity. Unparseable prices count as zero; zero or
// unparseable quantities count as one.
func CartTotal(items []domain.CartItem) float64 {
	var total float64
	for _, item := range items {
		qty := item.Quantity.Float(1)
		if qty == 0 {
			qty = 1
		}
		total += item.Price.Float(0) * qty
	}
	return total
}

// Value is the conversion value rounded to cents. A positive cart total
// overrides the explicit value.
func Value(explicit domain.Number, items []domain.CartItem) float64 {
	v := explicit.Float(0)
	if len(items) > 0 {
		if total := CartTotal(items); total > 0 {
			v = total
		}
	}
	return math.Round(v*100) / 100
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// Metadata merges the subscription fields into the caller's metadata for
// subscription event types. All six keys are present even when unset.
func Metadata(opts domain.ConversionOptions) map[string]any {
	if !attribution.IsSubscription(opts.EventType) {
		return opts.Metadata
	}

	md := make(map[string]any, len(opts.Metadata)+6)
	for k, v := range opts.Metadata {
		md[k] = v
	}

	md["subscriptionId"] = nullable(opts.SubscriptionID)
	md["planId"] = nullable(opts.PlanID)
	md["interval"] = nullable(opts.Interval)
	md["subscriptionStatus"] = nullable(opts.SubscriptionStatus)
	md["periodNumber"] = nil
	if opts.PeriodNumber != nil {
		md["periodNumber"] = *opts.PeriodNumber
	}
	md["recurringAmount"] = nil
	if !opts.RecurringAmount.IsEmpty() {
		md["recurringAmount"] = opts.RecurringAmount
	}

	return md
}

// Conversion builds a conversion payload. Eligibility must already have been
// checked; campaign and affiliate come from the session.
func Conversion(opts domain.ConversionOptions, attr attribution.Context) domain.ConversionPayload {
	productID := ProductID(opts, attr)
	items := SanitizeCart(opts.CartItems, productID, attr.Persisted)

	ref := opts.ConversionRef
	if ref == "" {
		ref = ident.New()
	}

	currency := opts.Currency
	if currency == "" {
		currency = DefaultCurrency
	}

	return domain.ConversionPayload{
		CampaignID:    attr.Session.CampaignID.IntPtr(),
		AffiliateID:   attr.Session.AffiliateID.IntPtr(),
		SessionID:     attr.Session.SessionID,
		EventType:     opts.EventType,
		Value:         Value(opts.Value, items),
		Currency:      currency,
		ConversionRef: ref,
		ProductID:     productID,
		CartItems:     items,
		Metadata:      Metadata(opts),
	}
}

package attribution

import (
	"errors"
	"strings"

	"github.com/tjfontaine/marketin-sdk-go/internal/core/domain"
)

var (
	// ErrNotAttributed means affiliate or campaign is missing.
	ErrNotAttributed = errors.New("missing campaignId or affiliateId")

	// ErrNoProduct means a non-subscription conversion has neither a product nor cart items.
	ErrNoProduct = errors.New("productId is required for non-subscription events")
)

// IsSubscription reports whether a conversion event type is exempt from the
// product requirement.
func IsSubscription(eventType string) bool {
	return strings.HasPrefix(eventType, domain.SubscriptionEventPrefix)
}

// CheckClick reports whether an affiliate click may be tracked.
func CheckClick(affiliateID, campaignID domain.ID) error {
	if affiliateID.IsEmpty() || campaignID.IsEmpty() {
		return ErrNotAttributed
	}
	return nil
}

// CheckConversion reports whether a conversion may be tracked. Attribution
// is taken from the session only, never from the URL.
func CheckConversion(session domain.SessionContext, eventType string, productID domain.ID, items []domain.CartItem) error {
	if !session.Attributed() {
		return ErrNotAttributed
	}
	if !IsSubscription(eventType) && productID.IsEmpty() && !hasItems(items) {
		return ErrNoProduct
	}
	return nil
}

func hasItems(items []domain.CartItem) bool {
	for _, item := range items {
		if !item.IsZero() {
			return true
		}
	}
	return false
}

package domain

import (
	"encoding/json"
	"fmt"
)

// CartItem is one line of a conversion cart.
//
// Decoding accepts both snake_case and camelCase spellings of the identifier
// fields; camelCase wins when both are present. Keys the SDK does not know
// about are kept in Extra and emitted again when the item is encoded.
type CartItem struct {
	ProductID   ID
	AffiliateID ID
	CampaignID  ID
	Price       Number
	Quantity    Number
	Extra       map[string]any
}

// IsZero reports whether the item carries nothing at all.
func (c CartItem) IsZero() bool {
	return c.ProductID == "" && c.AffiliateID == "" && c.CampaignID == "" &&
		c.Price == "" && c.Quantity == "" && len(c.Extra) == 0
}

var cartAliases = map[string][2]string{
	"productId":   {"productId", "product_id"},
	"affiliateId": {"affiliateId", "affiliate_id"},
	"campaignId":  {"campaignId", "campaign_id"},
}

// UnmarshalJSON decodes a cart line in either field spelling.
func (c *CartItem) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return fmt.Errorf("decode cart item: %w", err)
	}

	pick := func(canonical string) (ID, error) {
		names := cartAliases[canonical]
		var id ID
		for _, name := range names {
			raw, ok := fields[name]
			delete(fields, name)
			if !ok || id != "" {
				continue
			}
			if err := json.Unmarshal(raw, &id); err != nil {
				return "", fmt.Errorf("decode cart item %s: %w", name, err)
			}
		}
		return id, nil
	}

	var item CartItem
	var err error
	if item.ProductID, err = pick("productId"); err != nil {
		return err
	}
	if item.AffiliateID, err = pick("affiliateId"); err != nil {
		return err
	}
	if item.CampaignID, err = pick("campaignId"); err != nil {
		return err
	}
	if raw, ok := fields["price"]; ok {
		if err := json.Unmarshal(raw, &item.Price); err != nil {
			return fmt.Errorf("decode cart item price: %w", err)
		}
		delete(fields, "price")
	}
	if raw, ok := fields["quantity"]; ok {
		if err := json.Unmarshal(raw, &item.Quantity); err != nil {
			return fmt.Errorf("decode cart item quantity: %w", err)
		}
		delete(fields, "quantity")
	}

	if len(fields) > 0 {
		item.Extra = make(map[string]any, len(fields))
		for k, raw := range fields {
			var v any
			if err := json.Unmarshal(raw, &v); err != nil {
				return fmt.Errorf("decode cart item %s: %w", k, err)
			}
			item.Extra[k] = v
		}
	}

	*c = item
	return nil
}

// MarshalJSON emits the canonical camelCase form.
func (c CartItem) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(c.Extra)+5)
	for k, v := range c.Extra {
		out[k] = v
	}
	if c.ProductID != "" {
		out["productId"] = c.ProductID
	}
	if c.AffiliateID != "" {
		out["affiliateId"] = c.AffiliateID
	}
	if c.CampaignID != "" {
		out["campaignId"] = c.CampaignID
	}
	if c.Price != "" {
		out["price"] = c.Price
	}
	if c.Quantity != "" {
		out["quantity"] = c.Quantity
	}
	return json.Marshal(out)
}

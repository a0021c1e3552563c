package domain

import (
	"encoding/json"
	"testing"
)

func TestCartItem_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want CartItem
	}{
		{
			name: "camel case",
			in:   `{"productId":"p1","affiliateId":5,"campaignId":"9","price":"10.00","quantity":2}`,
			want: CartItem{ProductID: "p1", AffiliateID: "5", CampaignID: "9", Price: "10.00", Quantity: "2"},
		},
		{
			name: "snake case",
			in:   `{"product_id":"p2","affiliate_id":"6","campaign_id":10}`,
			want: CartItem{ProductID: "p2", AffiliateID: "6", CampaignID: "10"},
		},
		{
			name: "camel case wins",
			in:   `{"product_id":"snake","productId":"camel"}`,
			want: CartItem{ProductID: "camel"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got CartItem
			if err := json.Unmarshal([]byte(tt.in), &got); err != nil {
				t.Fatalf("Unmarshal() error = %v", err)
			}
			if got.ProductID != tt.want.ProductID || got.AffiliateID != tt.want.AffiliateID ||
				got.CampaignID != tt.want.CampaignID || got.Price != tt.want.Price || got.Quantity != tt.want.Quantity {
				t.Errorf("Unmarshal() = %+v, want %+v", got, tt.want)
			}
			if len(got.Extra) != 0 {
				t.Errorf("Extra = %v, want empty", got.Extra)
			}
		})
	}
}

func TestCartItem_ExtraRoundTrip(t *testing.T) {
	var item CartItem
	if err := json.Unmarshal([]byte(`{"product_id":"p1","sku":"X-1","price":5}`), &item); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if item.Extra["sku"] != "X-1" {
		t.Fatalf("Extra = %v, want sku", item.Extra)
	}

	out, err := json.Marshal(item)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	var got map[string]any
	if err := json.Unmarshal(out, &got); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if got["productId"] != "p1" || got["sku"] != "X-1" || got["price"] != float64(5) {
		t.Errorf("Marshal() = %s", out)
	}
	if _, ok := got["product_id"]; ok {
		t.Errorf("Marshal() kept snake_case key: %s", out)
	}
}

func TestCartItem_IsZero(t *testing.T) {
	if !(CartItem{}).IsZero() {
		t.Error("IsZero() = false for empty item")
	}
	if (CartItem{Quantity: "1"}).IsZero() {
		t.Error("IsZero() = true for item with quantity")
	}
}

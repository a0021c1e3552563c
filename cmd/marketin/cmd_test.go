package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/tjfontaine/marketin-sdk-go/internal/pkg/config"
	"github.com/tjfontaine/marketin-sdk-go/pkg/marketin"
)

func TestParseCart(t *testing.T) {
	cartFile := filepath.Join(t.TempDir(), "cart.json")
	if err := os.WriteFile(cartFile, []byte(`[{"product_id":"p1","price":"10.00","quantity":2}]`), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	tests := []struct {
		name    string
		arg     string
		want    int
		wantErr bool
	}{
		{"empty", "", 0, false},
		{"inline", `[{"productId":"p1"},{"price":5}]`, 2, false},
		{"file", "@" + cartFile, 1, false},
		{"missing file", "@" + filepath.Join(t.TempDir(), "nope.json"), 0, true},
		{"not an array", `{"productId":"p1"}`, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseCart(tt.arg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseCart() error = %v, wantErr %v", err, tt.wantErr)
			}
			if len(got) != tt.want {
				t.Errorf("parseCart() = %d items, want %d", len(got), tt.want)
			}
		})
	}
}

func TestStorageOption(t *testing.T) {
	for _, typ := range []string{"", "memory", "sqlite", "database"} {
		if _, err := storageOption(config.StorageConfig{Type: typ}); err != nil {
			t.Errorf("storageOption(%q) error = %v", typ, err)
		}
	}
	if _, err := storageOption(config.StorageConfig{Type: "redis"}); err == nil {
		t.Error("storageOption(redis) error = nil, want error")
	}
}

func TestStaticPage(t *testing.T) {
	p := staticPage(config.PageConfig{URL: "https://shop.example/?aid=1", Width: 800, Height: 600})
	if p.Href() != "https://shop.example/?aid=1" || !p.Secure() {
		t.Errorf("staticPage() = %+v", p)
	}
	if w, h := p.ScreenSize(); w != 800 || h != 600 {
		t.Errorf("ScreenSize() = %dx%d, want 800x600", w, h)
	}
}

func execute(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("Execute(%v) error = %v", args, err)
	}
	return out.String()
}

func TestReferralCommands(t *testing.T) {
	profile := filepath.Join(t.TempDir(), "profile.db")

	execute(t, "--profile", profile, "referral", "set", "--affiliate", "5", "--campaign", "9")

	var rec marketin.AttributionRecord
	if err := json.Unmarshal([]byte(execute(t, "--profile", profile, "referral", "show")), &rec); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if rec.AffiliateID != "5" || rec.CampaignID != "9" {
		t.Errorf("referral show = %+v, want affiliate 5 campaign 9", rec)
	}

	var status struct {
		Status   marketin.Status            `json:"status"`
		Referral marketin.AttributionRecord `json:"referral"`
	}
	if err := json.Unmarshal([]byte(execute(t, "--profile", profile, "status")), &status); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if status.Status.Initialized || status.Status.Version != marketin.Version {
		t.Errorf("status = %+v", status.Status)
	}
	if status.Referral.CampaignID != "9" {
		t.Errorf("status referral = %+v", status.Referral)
	}

	execute(t, "--profile", profile, "referral", "clear")
	rec = marketin.AttributionRecord{}
	if err := json.Unmarshal([]byte(execute(t, "--profile", profile, "referral", "show")), &rec); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if !rec.IsZero() {
		t.Errorf("referral show after clear = %+v", rec)
	}
}

package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "marketin.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	t.Run("defaults without file", func(t *testing.T) {
		cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}

		if cfg.Client.APIEndpoint != "https://api.marketin.now/api/v1" {
			t.Errorf("Load() api_endpoint = %v", cfg.Client.APIEndpoint)
		}
		if cfg.Storage.Type != "memory" || cfg.Collector.Port != 8787 {
			t.Errorf("Load() storage=%v port=%v", cfg.Storage.Type, cfg.Collector.Port)
		}
		if cfg.Page.Width != 1920 || cfg.Page.Height != 1080 {
			t.Errorf("Load() screen = %vx%v", cfg.Page.Width, cfg.Page.Height)
		}
	})

	t.Run("file values", func(t *testing.T) {
		path := writeConfig(t, `
client:
  api_endpoint: https://collector.example/api/v1/
  debug: true
  brand_id: brand-1
  affiliate_id: 5
  referral_params:
    campaign_id: 9
    click_id: clk
  unknown_key: ignored
storage:
  type: sqlite
  sqlite:
    path: /tmp/profile.db
page:
  url: https://shop.example/?aid=1
`)
		cfg, err := Load(path)
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}

		c := cfg.Client
		if !c.Debug || c.BrandID != "brand-1" || c.AffiliateID != "5" {
			t.Errorf("Load() client = %+v", c)
		}
		if c.ReferralParams == nil || c.ReferralParams.CampaignID != "9" || c.ReferralParams.ClickID != "clk" {
			t.Errorf("Load() referral_params = %+v", c.ReferralParams)
		}
		if cfg.Storage.Type != "sqlite" || cfg.Storage.SQLite.Path != "/tmp/profile.db" {
			t.Errorf("Load() storage = %+v", cfg.Storage)
		}
		if cfg.Page.URL != "https://shop.example/?aid=1" {
			t.Errorf("Load() page url = %v", cfg.Page.URL)
		}
	})

	t.Run("env var override", func(t *testing.T) {
		t.Setenv("MARKETIN_COLLECTOR__PORT", "9000")
		t.Setenv("MARKETIN_CLIENT__BRAND_ID", "from-env")

		cfg, err := Load(writeConfig(t, "client:\n  brand_id: from-file\n"))
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}

		if cfg.Collector.Port != 9000 {
			t.Errorf("Load() port = %v, want 9000", cfg.Collector.Port)
		}
		if cfg.Client.BrandID != "from-env" {
			t.Errorf("Load() brand_id = %v, want from-env", cfg.Client.BrandID)
		}
	})

	t.Run("token substitution", func(t *testing.T) {
		t.Setenv("MARKETIN_TEST_TOKEN", "secret")

		cfg, err := Load(writeConfig(t, "client:\n  token: ${MARKETIN_TEST_TOKEN}\n"))
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if cfg.Client.Token != "secret" {
			t.Errorf("Load() token = %v, want secret", cfg.Client.Token)
		}
	})
}

func TestSubstituteEnvVars(t *testing.T) {
	t.Setenv("TEST_VAR", "test-value")

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "simple substitution",
			input: "${TEST_VAR}",
			want:  "test-value",
		},
		{
			name:  "substitution in string",
			input: "prefix-${TEST_VAR}-suffix",
			want:  "prefix-test-value-suffix",
		},
		{
			name:  "no substitution",
			input: "plain-string",
			want:  "plain-string",
		},
		{
			name:  "undefined var",
			input: "${UNDEFINED_VAR}",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := substituteEnvVars(tt.input)
			if got != tt.want {
				t.Errorf("substituteEnvVars() = %v, want %v", got, tt.want)
			}
		})
	}
}

package marketin_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/tjfontaine/marketin-sdk-go/internal/collector"
	"github.com/tjfontaine/marketin-sdk-go/internal/core/domain"
	"github.com/tjfontaine/marketin-sdk-go/internal/server"
	"github.com/tjfontaine/marketin-sdk-go/pkg/marketin"
)

func TestEmbeddedInHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	events := collector.NewMemoryStore()
	srv := server.New(0, "collector", logger)
	collector.NewHandler(events, logger).Routes(srv.Router)
	sink := httptest.NewServer(srv.Router)
	defer sink.Close()

	shop := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		jar := marketin.CookiesFromRequest(r)
		c, err := marketin.New(
			marketin.WithMemoryStorage(jar),
			marketin.WithPage(marketin.PageFromRequest(r, "Shop")),
			marketin.WithHTTPClient(sink.Client()),
			marketin.WithLogger(logger),
		)
		if err != nil {
			t.Errorf("New() error = %v", err)
			return
		}
		c.Init(r.Context(), marketin.InitOptions{APIEndpoint: sink.URL + "/api/v1"})
		if err := c.Close(r.Context()); err != nil {
			t.Errorf("Close() error = %v", err)
		}
		jar.WriteTo(w)
	})

	rec := httptest.NewRecorder()
	shop.ServeHTTP(rec, httptest.NewRequest("GET", "https://shop.example/?aid=7&cid=3", nil))

	if cookies := strings.Join(rec.Header().Values("Set-Cookie"), "\n"); !strings.Contains(cookies, "marketin_referral=") {
		t.Errorf("Set-Cookie = %q, want marketin_referral", cookies)
	}

	ctx := context.Background()
	clicks, _ := events.List(ctx, domain.EventAffiliateClick, 0)
	views, _ := events.List(ctx, domain.EventPageView, 0)
	if len(clicks) != 1 || len(views) != 1 {
		t.Fatalf("clicks = %d, views = %d, want 1 each", len(clicks), len(views))
	}
	if clicks[0].CampaignID != "3" {
		t.Errorf("click X-CAMPAIGN-ID = %q, want 3", clicks[0].CampaignID)
	}
}

func TestVersion(t *testing.T) {
	if marketin.Version != "1.0.1" {
		t.Errorf("Version = %q, want 1.0.1", marketin.Version)
	}
}

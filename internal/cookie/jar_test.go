package cookie

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/tjfontaine/marketin-sdk-go/internal/core/domain"
)

func TestJar_SetGet(t *testing.T) {
	jar := New()
	ctx := context.Background()

	err := jar.Set(ctx, &http.Cookie{Name: "mi_click", Value: "abc", Path: "/", MaxAge: 60})
	if err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	got, err := jar.Get(ctx, "mi_click")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got != "abc" {
		t.Errorf("Get() = %v, want abc", got)
	}
}

func TestJar_MaxAgeExpiry(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	jar := New().WithClock(func() time.Time { return now })
	ctx := context.Background()

	if err := jar.Set(ctx, &http.Cookie{Name: "a", Value: "1", MaxAge: 10}); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	now = now.Add(11 * time.Second)

	_, err := jar.Get(ctx, "a")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Get() after expiry error = %v, want ErrNotFound", err)
	}
}

func TestJar_Delete(t *testing.T) {
	jar := New()
	ctx := context.Background()

	if err := jar.Delete(ctx, "never-set"); err != nil {
		t.Fatalf("Delete() of absent cookie error = %v", err)
	}

	_ = jar.Set(ctx, &http.Cookie{Name: "a", Value: "1"})
	if err := jar.Delete(ctx, "a"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	if _, err := jar.Get(ctx, "a"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Get() after Delete error = %v, want ErrNotFound", err)
	}
}

func TestJar_RejectsInvalidValue(t *testing.T) {
	jar := New()

	err := jar.Set(context.Background(), &http.Cookie{Name: "a", Value: `{"x":1}`})
	if err == nil {
		t.Error("Set() expected error for unescaped JSON value")
	}
}

func TestParse(t *testing.T) {
	jar, err := Parse("mi_click=abc; marketin_referral=%7B%7D")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	got, err := jar.Get(context.Background(), "marketin_referral")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got != "%7B%7D" {
		t.Errorf("Get() = %v, want %%7B%%7D", got)
	}
}

func TestFromRequestAndWriteTo(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "https://shop.example/", nil)
	req.AddCookie(&http.Cookie{Name: "mi_click", Value: "abc"})

	jar := FromRequest(req)
	ctx := context.Background()

	if got, _ := jar.Get(ctx, "mi_click"); got != "abc" {
		t.Errorf("Get() = %v, want abc", got)
	}

	_ = jar.Set(ctx, &http.Cookie{
		Name:     "marketin_referral",
		Value:    "x",
		Path:     "/",
		MaxAge:   2592000,
		SameSite: http.SameSiteLaxMode,
		Secure:   true,
	})

	rec := httptest.NewRecorder()
	jar.WriteTo(rec)

	headers := rec.Header().Values("Set-Cookie")
	if len(headers) != 1 {
		t.Fatalf("Set-Cookie count = %d, want 1", len(headers))
	}
	for _, want := range []string{"marketin_referral=x", "Max-Age=2592000", "SameSite=Lax", "Secure", "Path=/"} {
		if !strings.Contains(headers[0], want) {
			t.Errorf("Set-Cookie %q missing %q", headers[0], want)
		}
	}
}

package ident

import (
	"context"
	"net/http"
	"regexp"
	"testing"

	"github.com/tjfontaine/marketin-sdk-go/internal/cookie"
	"github.com/tjfontaine/marketin-sdk-go/internal/core/domain"
)

var uuidV4 = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-4[0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}$`)

type staticQuery map[string]string

func (q staticQuery) QueryParam(name string) (string, bool) {
	v, ok := q[name]
	return v, ok
}

func TestNew_Layout(t *testing.T) {
	for i := 0; i < 50; i++ {
		id := New()
		if len(id) != 36 || !uuidV4.MatchString(id) {
			t.Fatalf("New() = %q, not a v4 UUID", id)
		}
	}
}

func TestSessionID(t *testing.T) {
	if got := SessionID("supplied"); got != "supplied" {
		t.Errorf("SessionID(supplied) = %v, want supplied", got)
	}
	if got := SessionID(""); !uuidV4.MatchString(got) {
		t.Errorf("SessionID(\"\") = %v, want minted UUID", got)
	}
}

func TestClickResolver_Order(t *testing.T) {
	tests := []struct {
		name     string
		explicit domain.ID
		query    staticQuery
		cookie   string
		want     domain.ID
	}{
		{"explicit", "exp", staticQuery{"mi_click": "q"}, "c", "exp"},
		{"query", "", staticQuery{"mi_click": "q"}, "c", "q"},
		{"cookie", "", staticQuery{}, "c", "c"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			jar := cookie.New()
			ctx := context.Background()
			if tt.cookie != "" {
				_ = jar.Set(ctx, &http.Cookie{Name: ClickCookie, Value: tt.cookie})
			}

			r := ClickResolver{Jar: jar, Query: tt.query}
			if got := r.Resolve(ctx, tt.explicit); got != tt.want {
				t.Errorf("Resolve() = %v, want %v", got, tt.want)
			}

			// An existing cookie is never overwritten.
			if v, _ := jar.Get(ctx, ClickCookie); v != tt.cookie {
				t.Errorf("cookie = %v, want %v", v, tt.cookie)
			}
		})
	}
}

func TestClickResolver_MintsAndPersists(t *testing.T) {
	jar := cookie.New()
	ctx := context.Background()
	r := ClickResolver{Jar: jar, Query: staticQuery{}, Secure: true}

	first := r.Resolve(ctx, "")
	if !uuidV4.MatchString(first.String()) {
		t.Fatalf("Resolve() = %v, want minted UUID", first)
	}

	c, ok := jar.Cookie(ClickCookie)
	if !ok {
		t.Fatal("click id not persisted")
	}
	if c.MaxAge != 30*24*60*60 || !c.Secure || c.SameSite != http.SameSiteLaxMode {
		t.Errorf("cookie attributes MaxAge=%d Secure=%v SameSite=%v", c.MaxAge, c.Secure, c.SameSite)
	}

	second := r.Resolve(ctx, "")
	if second != first {
		t.Errorf("second Resolve() = %v, want reuse of %v", second, first)
	}
}

func TestClickResolver_PersistsExplicitWhenCookieEmpty(t *testing.T) {
	jar := cookie.New()
	ctx := context.Background()

	got := ClickResolver{Jar: jar}.Resolve(ctx, "server-click")
	if got != "server-click" {
		t.Fatalf("Resolve() = %v, want server-click", got)
	}
	if v, _ := jar.Get(ctx, ClickCookie); v != "server-click" {
		t.Errorf("cookie = %v, want server-click", v)
	}
}

func TestClickResolver_EncodesCookieValue(t *testing.T) {
	jar := cookie.New()
	ctx := context.Background()
	r := ClickResolver{Jar: jar, Query: staticQuery{}}

	const clickID = `ref "summer sale"; é`
	if got := r.Resolve(ctx, clickID); got != clickID {
		t.Fatalf("Resolve() = %q, want %q", got, clickID)
	}

	raw, err := jar.Get(ctx, ClickCookie)
	if err != nil {
		t.Fatalf("click id not persisted: %v", err)
	}
	if raw == clickID {
		t.Errorf("cookie value %q stored unencoded", raw)
	}

	if got := r.Resolve(ctx, ""); got != clickID {
		t.Errorf("second Resolve() = %q, want reuse of %q", got, clickID)
	}
}

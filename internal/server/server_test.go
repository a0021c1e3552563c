package server

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestRequestIDMiddleware(t *testing.T) {
	const inbound = "0b7f6c2e-58d4-4f3e-9d0e-6f1b8f3a2c11"

	tests := []struct {
		name     string
		header   string
		wantSame bool
	}{
		{"minted when absent", "", false},
		{"kept when uuid", inbound, true},
		{"replaced when malformed", "not-a-uuid", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seen string
			h := RequestIDMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				seen = GetRequestID(r.Context())
			}))

			req := httptest.NewRequest("POST", "/api/v1/log-activity/", nil)
			if tt.header != "" {
				req.Header.Set(RequestIDHeader, tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			got := rec.Header().Get(RequestIDHeader)
			if got == "" || got != seen {
				t.Fatalf("header %q, context %q", got, seen)
			}
			if (got == tt.header) != tt.wantSame {
				t.Errorf("request id = %q, inbound %q, wantSame %v", got, tt.header, tt.wantSame)
			}
		})
	}
}

func TestGetRequestID_NotSet(t *testing.T) {
	if id := GetRequestID(context.Background()); id != "" {
		t.Errorf("GetRequestID() = %q, want empty", id)
	}
}

func TestLoggingMiddleware(t *testing.T) {
	var buf strings.Builder
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))

	h := RequestIDMiddleware(LoggingMiddleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		AddLogField(r.Context(), "event_kind", "log-activity")
		AddLogField(r.Context(), "empty", "")
		w.WriteHeader(http.StatusCreated)
	})))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("POST", "/api/v1/log-activity/", nil))

	out := buf.String()
	for _, want := range []string{"request completed", "status=201", "event_kind=log-activity", "path=/api/v1/log-activity/"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "empty=") {
		t.Errorf("empty field was logged:\n%s", out)
	}
}

func TestAddLogField_NoContext(t *testing.T) {
	// Must not panic outside the middleware.
	AddLogField(context.Background(), "key", "value")
	AddError(context.Background(), nil)
}

func TestServer_RecoversPanics(t *testing.T) {
	s := New(0, "test", slog.New(slog.NewTextHandler(&strings.Builder{}, nil)))
	s.Router.Get("/boom", func(http.ResponseWriter, *http.Request) { panic("boom") })

	rec := httptest.NewRecorder()
	s.Router.ServeHTTP(rec, httptest.NewRequest("GET", "/boom", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
}

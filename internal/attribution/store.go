// Package attribution keeps the visitor's attribution record in two storage
// media at once, a short-lived cookie and a persistent key/value store, and
// resolves which identifiers are current when an event is emitted.
package attribution

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/tjfontaine/marketin-sdk-go/internal/core/domain"
	"github.com/tjfontaine/marketin-sdk-go/internal/core/ports"
)

const (
	// Key names the record in both media.
	Key = "marketin_referral"

	// DefaultMaxAge is the cookie lifetime: 30 days.
	DefaultMaxAge = 30 * 24 * time.Hour
)

// Store is the dual storage adapter. The persistent store is the leader when
// the two media disagree; Reconcile heals a medium that was cleared on its own.
type Store struct {
	jar    ports.CookieJar
	kv     ports.KeyValueStore
	maxAge time.Duration
	secure bool
	logger *slog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithMaxAge overrides the cookie lifetime.
func WithMaxAge(d time.Duration) Option {
	return func(s *Store) {
		if d > 0 {
			s.maxAge = d
		}
	}
}

// WithSecure marks written cookies Secure, for pages served over HTTPS.
func WithSecure(secure bool) Option {
	return func(s *Store) {
		s.secure = secure
	}
}

// WithLogger sets the logger used for swallowed storage failures.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewStore creates a dual storage adapter over jar and kv.
func NewStore(jar ports.CookieJar, kv ports.KeyValueStore, opts ...Option) *Store {
	s := &Store{
		jar:    jar,
		kv:     kv,
		maxAge: DefaultMaxAge,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Save writes rec to both media. A failure in one medium is logged and does
// not prevent the write to the other.
func (s *Store) Save(ctx context.Context, rec domain.AttributionRecord) {
	encoded, err := json.Marshal(rec)
	if err != nil {
		s.logger.Warn("failed to encode referral params", slog.String("error", err.Error()))
		return
	}

	if err := s.writeCookie(ctx, encoded); err != nil {
		s.logger.Warn("failed to save referral cookie", slog.String("error", err.Error()))
	}
	if err := s.kv.SetItem(ctx, Key, string(encoded)); err != nil {
		s.logger.Warn("failed to save referral params", slog.String("error", err.Error()))
	}
}

// Load returns the cookie record when it is non-empty, otherwise the
// persistent record, otherwise an empty record. It never fails.
func (s *Store) Load(ctx context.Context) domain.AttributionRecord {
	if rec, ok := s.readCookie(ctx); ok {
		return rec
	}
	if rec, ok := s.readStore(ctx); ok {
		return rec
	}
	return domain.AttributionRecord{}
}

// Reconcile copies the record into whichever medium is missing it. When both
// or neither hold a record nothing changes, so repeated calls are idempotent.
func (s *Store) Reconcile(ctx context.Context) {
	fromCookie, cookieOK := s.readCookie(ctx)
	fromStore, storeOK := s.readStore(ctx)

	switch {
	case cookieOK && !storeOK:
		encoded, err := json.Marshal(fromCookie)
		if err != nil {
			return
		}
		if err := s.kv.SetItem(ctx, Key, string(encoded)); err != nil {
			s.logger.Warn("failed to sync referral params to store", slog.String("error", err.Error()))
		}
	case storeOK && !cookieOK:
		encoded, err := json.Marshal(fromStore)
		if err != nil {
			return
		}
		if err := s.writeCookie(ctx, encoded); err != nil {
			s.logger.Warn("failed to sync referral params to cookie", slog.String("error", err.Error()))
		}
	}
}

// Clear removes the record from both media.
func (s *Store) Clear(ctx context.Context) {
	if err := s.jar.Delete(ctx, Key); err != nil {
		s.logger.Warn("failed to clear referral cookie", slog.String("error", err.Error()))
	}
	if err := s.kv.RemoveItem(ctx, Key); err != nil {
		s.logger.Warn("failed to clear referral params", slog.String("error", err.Error()))
	}
}

func (s *Store) writeCookie(ctx context.Context, encoded []byte) error {
	return s.jar.Set(ctx, &http.Cookie{
		Name:     Key,
		Value:    url.QueryEscape(string(encoded)),
		Path:     "/",
		MaxAge:   int(s.maxAge / time.Second),
		SameSite: http.SameSiteLaxMode,
		Secure:   s.secure,
	})
}

func (s *Store) readCookie(ctx context.Context) (domain.AttributionRecord, bool) {
	raw, err := s.jar.Get(ctx, Key)
	if err != nil {
		s.logAccess("cookie", err)
		return domain.AttributionRecord{}, false
	}
	decoded, err := url.QueryUnescape(raw)
	if err != nil {
		return domain.AttributionRecord{}, false
	}
	return decode(decoded)
}

func (s *Store) readStore(ctx context.Context) (domain.AttributionRecord, bool) {
	raw, err := s.kv.GetItem(ctx, Key)
	if err != nil {
		s.logAccess("store", err)
		return domain.AttributionRecord{}, false
	}
	return decode(raw)
}

func (s *Store) logAccess(medium string, err error) {
	if errors.Is(err, domain.ErrNotFound) {
		return
	}
	s.logger.Warn("failed to read referral params",
		slog.String("medium", medium),
		slog.String("error", err.Error()))
}

// decode parses a stored record; malformed or empty data counts as absent.
func decode(raw string) (domain.AttributionRecord, bool) {
	var rec domain.AttributionRecord
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return domain.AttributionRecord{}, false
	}
	if rec.IsZero() {
		return domain.AttributionRecord{}, false
	}
	return rec, true
}

// String renders the record for debug logs.
func String(rec domain.AttributionRecord) string {
	return fmt.Sprintf("affiliate=%s campaign=%s product=%s click=%s",
		rec.AffiliateID, rec.CampaignID, rec.ProductID, rec.ClickID)
}

package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/tjfontaine/marketin-sdk-go/internal/core/domain"
	"github.com/tjfontaine/marketin-sdk-go/internal/storage/dialect"
)

// Event is one received tracking request.
type Event struct {
	ID         int64            `json:"id"`
	Kind       domain.EventKind `json:"kind"`
	RequestID  string           `json:"requestId"`
	CampaignID string           `json:"campaignId,omitempty"`
	BrandID    string           `json:"brandId,omitempty"`
	SDKVersion string           `json:"sdkVersion,omitempty"`
	Authorized bool             `json:"authorized"`
	Body       json.RawMessage  `json:"body"`
	ReceivedAt time.Time        `json:"receivedAt"`
}

// EventStore persists received events.
type EventStore interface {
	Record(ctx context.Context, e *Event) error
	// List returns events oldest first. An empty kind matches every kind,
	// limit <= 0 means no limit.
	List(ctx context.Context, kind domain.EventKind, limit int) ([]Event, error)
	Close() error
}

// MemoryStore keeps events for the life of the process.
type MemoryStore struct {
	mu     sync.RWMutex
	events []Event
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Record(_ context.Context, e *Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e.ID = int64(len(s.events) + 1)
	s.events = append(s.events, *e)
	return nil
}

func (s *MemoryStore) List(_ context.Context, kind domain.EventKind, limit int) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Event, 0, len(s.events))
	for _, e := range s.events {
		if kind != "" && e.Kind != kind {
			continue
		}
		out = append(out, e)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (s *MemoryStore) Close() error { return nil }

// SQLStore writes events to an "events" table.
type SQLStore struct {
	db      *sqlx.DB
	dialect dialect.Dialect
}

// NewSQLStore opens the database behind driver and dsn and creates the
// events table if needed.
func NewSQLStore(driver, dsn string) (*SQLStore, error) {
	d, err := dialect.FromDriverName(driver)
	if err != nil {
		return nil, err
	}

	db, err := sqlx.Open(d.DriverName(), dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if d.Name() == "sqlite" {
		db.SetMaxOpenConns(1)
	}
	for _, stmt := range d.PragmaStatements() {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to execute pragma: %w", err)
		}
	}

	s := &SQLStore{db: db, dialect: d}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return s, nil
}

func (s *SQLStore) initSchema() error {
	key, text := s.dialect.KeyType(), s.dialect.TextType()
	stmt := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS events (
id %s,
kind %s NOT NULL,
request_id %s NOT NULL,
campaign_id %s NOT NULL,
brand_id %s NOT NULL,
sdk_version %s NOT NULL,
authorized INTEGER NOT NULL DEFAULT 0,
body %s NOT NULL,
received_at BIGINT NOT NULL
)`, s.dialect.SerialKey(), key, text, text, text, text, text)

	if _, err := s.db.Exec(stmt); err != nil {
		return fmt.Errorf("failed to execute schema statement: %w", err)
	}
	return nil
}

func (s *SQLStore) Record(ctx context.Context, e *Event) error {
	authorized := 0
	if e.Authorized {
		authorized = 1
	}
	args := []any{
		string(e.Kind), e.RequestID, e.CampaignID, e.BrandID, e.SDKVersion,
		authorized, string(e.Body), e.ReceivedAt.UnixMilli(),
	}
	insert := `INSERT INTO events (kind, request_id, campaign_id, brand_id, sdk_version, authorized, body, received_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	if s.dialect.SupportsReturning() {
		if err := s.db.GetContext(ctx, &e.ID, s.dialect.Rebind(insert+" RETURNING id"), args...); err != nil {
			return fmt.Errorf("failed to record event: %w", err)
		}
		return nil
	}

	res, err := s.db.ExecContext(ctx, s.dialect.Rebind(insert), args...)
	if err != nil {
		return fmt.Errorf("failed to record event: %w", err)
	}
	if e.ID, err = res.LastInsertId(); err != nil {
		return fmt.Errorf("failed to read event id: %w", err)
	}
	return nil
}

type eventRow struct {
	ID         int64  `db:"id"`
	Kind       string `db:"kind"`
	RequestID  string `db:"request_id"`
	CampaignID string `db:"campaign_id"`
	BrandID    string `db:"brand_id"`
	SDKVersion string `db:"sdk_version"`
	Authorized int    `db:"authorized"`
	Body       string `db:"body"`
	ReceivedAt int64  `db:"received_at"`
}

func (s *SQLStore) List(ctx context.Context, kind domain.EventKind, limit int) ([]Event, error) {
	query := `SELECT id, kind, request_id, campaign_id, brand_id, sdk_version, authorized, body, received_at FROM events`
	var args []any
	if kind != "" {
		query += ` WHERE kind = ?`
		args = append(args, string(kind))
	}
	query += ` ORDER BY id`
	if limit > 0 {
		query += fmt.Sprintf(` LIMIT %d`, limit)
	}

	var rows []eventRow
	if err := s.db.SelectContext(ctx, &rows, s.dialect.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}

	out := make([]Event, len(rows))
	for i, r := range rows {
		out[i] = Event{
			ID:         r.ID,
			Kind:       domain.EventKind(r.Kind),
			RequestID:  r.RequestID,
			CampaignID: r.CampaignID,
			BrandID:    r.BrandID,
			SDKVersion: r.SDKVersion,
			Authorized: r.Authorized != 0,
			Body:       json.RawMessage(r.Body),
			ReceivedAt: time.UnixMilli(r.ReceivedAt).UTC(),
		}
	}
	return out, nil
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}

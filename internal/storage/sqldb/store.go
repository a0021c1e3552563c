package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/tjfontaine/marketin-sdk-go/internal/core/domain"
	"github.com/tjfontaine/marketin-sdk-go/internal/core/ports"
	"github.com/tjfontaine/marketin-sdk-go/internal/storage/dialect"
)

// Store is a SQL-backed browser profile: a local-storage table and a cookie
// table that survive process restarts.
type Store struct {
	db      *sqlx.DB
	dialect dialect.Dialect
	now     func() time.Time
}

// Ensure Store implements both storage media at compile time.
var (
	_ ports.KeyValueStore = (*Store)(nil)
	_ ports.CookieJar     = (*Store)(nil)
)

// Config holds database connection configuration
type Config struct {
	Driver string // Driver name: sqlite, postgres, mysql
	DSN    string // Data source name / connection string
}

// New creates a new SQL store with the specified configuration.
func New(cfg Config) (*Store, error) {
	d, err := dialect.FromDriverName(cfg.Driver)
	if err != nil {
		return nil, fmt.Errorf("unsupported database driver: %w", err)
	}

	db, err := sqlx.Open(d.DriverName(), cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// A single connection keeps ":memory:" databases visible to every query.
	if d.Name() == "sqlite" {
		db.SetMaxOpenConns(1)
	}

	for _, stmt := range d.PragmaStatements() {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to execute pragma: %w", err)
		}
	}

	store := &Store{db: db, dialect: d, now: time.Now}

	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

// NewSQLite creates a new SQLite store
func NewSQLite(dbPath string) (*Store, error) {
	return New(Config{Driver: "sqlite", DSN: dbPath})
}

// WithClock overrides the time source used for cookie expiry.
func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = now
	return s
}

func (s *Store) initSchema() error {
	key, text := s.dialect.KeyType(), s.dialect.TextType()
	statements := []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS local_storage (
item_key %s PRIMARY KEY,
value %s NOT NULL,
updated_at BIGINT NOT NULL
)`, key, text),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS cookies (
name %s PRIMARY KEY,
value %s NOT NULL,
path %s NOT NULL,
same_site INTEGER NOT NULL DEFAULT 0,
secure INTEGER NOT NULL DEFAULT 0,
expires_at BIGINT NOT NULL DEFAULT 0,
updated_at BIGINT NOT NULL
)`, key, text, text),
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to execute schema statement: %w", err)
		}
	}

	return nil
}

func (s *Store) GetItem(ctx context.Context, key string) (string, error) {
	var value string
	query := s.dialect.Rebind(`SELECT value FROM local_storage WHERE item_key = ?`)
	err := s.db.GetContext(ctx, &value, query, key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("item %s: %w", key, domain.ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("failed to get item: %w", err)
	}
	return value, nil
}

func (s *Store) SetItem(ctx context.Context, key, value string) error {
	upsert := s.dialect.UpsertClause("item_key", []string{"value", "updated_at"})
	query := s.dialect.Rebind(fmt.Sprintf(`INSERT INTO local_storage (item_key, value, updated_at)
VALUES (?, ?, ?)
%s`, upsert))

	if _, err := s.db.ExecContext(ctx, query, key, value, s.now().UnixMilli()); err != nil {
		return fmt.Errorf("failed to set item: %w", err)
	}
	return nil
}

func (s *Store) RemoveItem(ctx context.Context, key string) error {
	query := s.dialect.Rebind(`DELETE FROM local_storage WHERE item_key = ?`)
	if _, err := s.db.ExecContext(ctx, query, key); err != nil {
		return fmt.Errorf("failed to remove item: %w", err)
	}
	return nil
}

type cookieRow struct {
	Name      string `db:"name"`
	Value     string `db:"value"`
	Path      string `db:"path"`
	SameSite  int    `db:"same_site"`
	Secure    bool   `db:"secure"`
	ExpiresAt int64  `db:"expires_at"`
}

// Get returns the value of a live cookie.
func (s *Store) Get(ctx context.Context, name string) (string, error) {
	row, err := s.cookie(ctx, name)
	if err != nil {
		return "", err
	}
	return row.Value, nil
}

// Cookie returns the stored cookie with its attributes.
func (s *Store) Cookie(ctx context.Context, name string) (*http.Cookie, error) {
	row, err := s.cookie(ctx, name)
	if err != nil {
		return nil, err
	}
	c := &http.Cookie{
		Name:     row.Name,
		Value:    row.Value,
		Path:     row.Path,
		SameSite: http.SameSite(row.SameSite),
		Secure:   row.Secure,
	}
	if row.ExpiresAt > 0 {
		c.Expires = time.UnixMilli(row.ExpiresAt).UTC()
	}
	return c, nil
}

func (s *Store) cookie(ctx context.Context, name string) (*cookieRow, error) {
	var row cookieRow
	query := s.dialect.Rebind(`SELECT name, value, path, same_site, secure, expires_at FROM cookies WHERE name = ?`)
	err := s.db.GetContext(ctx, &row, query, name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("cookie %s: %w", name, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get cookie: %w", err)
	}
	if row.ExpiresAt > 0 && row.ExpiresAt <= s.now().UnixMilli() {
		return nil, fmt.Errorf("cookie %s expired: %w", name, domain.ErrNotFound)
	}
	return &row, nil
}

// Set stores a cookie. A negative Max-Age or a past expiry deletes it.
func (s *Store) Set(ctx context.Context, c *http.Cookie) error {
	if c == nil {
		return fmt.Errorf("nil cookie")
	}
	if err := c.Valid(); err != nil {
		return fmt.Errorf("invalid cookie %s: %w", c.Name, err)
	}

	now := s.now()
	var expiresAt int64
	switch {
	case c.MaxAge < 0:
		return s.Delete(ctx, c.Name)
	case c.MaxAge > 0:
		expiresAt = now.Add(time.Duration(c.MaxAge) * time.Second).UnixMilli()
	case !c.Expires.IsZero():
		expiresAt = c.Expires.UnixMilli()
	}
	if expiresAt != 0 && expiresAt <= now.UnixMilli() {
		return s.Delete(ctx, c.Name)
	}

	path := c.Path
	if path == "" {
		path = "/"
	}

	upsert := s.dialect.UpsertClause("name", []string{"value", "path", "same_site", "secure", "expires_at", "updated_at"})
	query := s.dialect.Rebind(fmt.Sprintf(`INSERT INTO cookies (name, value, path, same_site, secure, expires_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
%s`, upsert))

	_, err := s.db.ExecContext(ctx, query,
		c.Name, c.Value, path, int(c.SameSite), c.Secure, expiresAt, now.UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to set cookie: %w", err)
	}
	return nil
}

// Delete removes the cookie; absent cookies are not an error.
func (s *Store) Delete(ctx context.Context, name string) error {
	query := s.dialect.Rebind(`DELETE FROM cookies WHERE name = ?`)
	if _, err := s.db.ExecContext(ctx, query, name); err != nil {
		return fmt.Errorf("failed to delete cookie: %w", err)
	}
	return nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

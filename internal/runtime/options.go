package runtime

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/tjfontaine/marketin-sdk-go/internal/adapters/storage/sqlite"
	"github.com/tjfontaine/marketin-sdk-go/internal/core/ports"
	"github.com/tjfontaine/marketin-sdk-go/internal/storage/memory"
	"github.com/tjfontaine/marketin-sdk-go/internal/storage/sqldb"
)

// Option is a functional option for configuring a Client.
type Option func(*Client) error

// WithSQLite keeps cookies and local storage in a SQLite profile database,
// so attribution survives process restarts.
func WithSQLite(path string) Option {
	return func(c *Client) error {
		store, err := sqlite.NewProvider(path)
		if err != nil {
			return fmt.Errorf("create sqlite storage: %w", err)
		}
		c.storage = store
		return nil
	}
}

// WithDatabase keeps the profile in the database behind driver and dsn.
func WithDatabase(driver, dsn string) Option {
	return func(c *Client) error {
		store, err := sqlite.NewProviderFromConfig(sqldb.Config{Driver: driver, DSN: dsn})
		if err != nil {
			return fmt.Errorf("create %s storage: %w", driver, err)
		}
		c.storage = store
		return nil
	}
}

// WithMemoryStorage keeps both media in memory (default).
// A non-nil jar is shared with the caller, e.g. one parsed from a request.
func WithMemoryStorage(jar ports.CookieJar) Option {
	return func(c *Client) error {
		c.storage = memory.NewProvider(jar)
		return nil
	}
}

// WithStorageProvider sets a custom storage provider.
func WithStorageProvider(provider ports.StorageProvider) Option {
	return func(c *Client) error {
		if provider == nil {
			return fmt.Errorf("storage provider is nil")
		}
		c.storage = provider
		return nil
	}
}

// WithTransport replaces the HTTP transport.
func WithTransport(t ports.Transport) Option {
	return func(c *Client) error {
		c.transport = t
		return nil
	}
}

// WithHTTPClient sets the HTTP client used by the default transport.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) error {
		c.httpClient = hc
		return nil
	}
}

// WithPage sets the host page the client reads from.
func WithPage(p ports.Page) Option {
	return func(c *Client) error {
		c.page = p
		return nil
	}
}

// WithLogger sets a custom logger. A nil logger is ignored.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) error {
		if logger != nil {
			c.logger = logger
		}
		return nil
	}
}

// WithClock overrides the time source used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(c *Client) error {
		c.now = now
		return nil
	}
}

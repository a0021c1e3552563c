// Package sqlite provides the SQLite browser-profile storage adapter.
package sqlite

import (
	"github.com/tjfontaine/marketin-sdk-go/internal/core/ports"
	"github.com/tjfontaine/marketin-sdk-go/internal/storage/sqldb"
)

// Provider implements ports.StorageProvider using SQLite.
// One database file holds both the local-storage table and the cookie table.
type Provider struct {
	db *sqldb.Store
}

// NewProvider creates a new SQLite storage provider.
func NewProvider(path string) (*Provider, error) {
	store, err := sqldb.NewSQLite(path)
	if err != nil {
		return nil, err
	}

	return &Provider{
		db: store,
	}, nil
}

// NewProviderFromConfig opens the profile tables in any supported database.
// Drivers other than sqlite must be registered by the caller.
func NewProviderFromConfig(cfg sqldb.Config) (*Provider, error) {
	store, err := sqldb.New(cfg)
	if err != nil {
		return nil, err
	}
	return &Provider{db: store}, nil
}

// Store returns the persistent key/value medium.
func (p *Provider) Store() ports.KeyValueStore { return p.db }

// Jar returns the cookie medium.
func (p *Provider) Jar() ports.CookieJar { return p.db }

// Close closes the database.
func (p *Provider) Close() error {
	return p.db.Close()
}

// Ensure Provider implements ports.StorageProvider at compile time.
var _ ports.StorageProvider = (*Provider)(nil)

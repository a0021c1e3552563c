package ports

import (
	"context"
	"net/http"
)

// KeyValueStore is the persistent store, the analogue of browser local storage.
// GetItem returns domain.ErrNotFound when the key is absent.
type KeyValueStore interface {
	GetItem(ctx context.Context, key string) (string, error)
	SetItem(ctx context.Context, key, value string) error
	RemoveItem(ctx context.Context, key string) error
}

// CookieJar holds the cookies visible to the current page.
// Get returns domain.ErrNotFound when the cookie is absent or expired.
type CookieJar interface {
	Get(ctx context.Context, name string) (string, error)
	Set(ctx context.Context, cookie *http.Cookie) error
	Delete(ctx context.Context, name string) error
}

// StorageProvider bundles both storage media of one browser profile.
// Implementations: in-memory (default), SQLite.
type StorageProvider interface {
	Store() KeyValueStore
	Jar() CookieJar
	Close() error
}

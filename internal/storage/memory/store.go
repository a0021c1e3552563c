package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/tjfontaine/marketin-sdk-go/internal/cookie"
	"github.com/tjfontaine/marketin-sdk-go/internal/core/domain"
	"github.com/tjfontaine/marketin-sdk-go/internal/core/ports"
)

// Store is an in-memory implementation of KeyValueStore
type Store struct {
	mu    sync.RWMutex
	items map[string]string
}

// New creates a new in-memory store
func New() *Store {
	return &Store{
		items: make(map[string]string),
	}
}

func (s *Store) GetItem(ctx context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, exists := s.items[key]
	if !exists {
		return "", fmt.Errorf("item %s: %w", key, domain.ErrNotFound)
	}

	return v, nil
}

func (s *Store) SetItem(ctx context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items[key] = value
	return nil
}

func (s *Store) RemoveItem(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.items, key)
	return nil
}

// Len returns the number of stored items.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Provider pairs an in-memory store with an in-memory cookie jar.
type Provider struct {
	store *Store
	jar   ports.CookieJar
}

// Ensure Provider implements ports.StorageProvider at compile time.
var _ ports.StorageProvider = (*Provider)(nil)

// NewProvider creates a provider. A nil jar gets a fresh in-memory jar.
func NewProvider(jar ports.CookieJar) *Provider {
	if jar == nil {
		jar = cookie.New()
	}
	return &Provider{store: New(), jar: jar}
}

func (p *Provider) Store() ports.KeyValueStore { return p.store }

func (p *Provider) Jar() ports.CookieJar { return p.jar }

func (p *Provider) Close() error {
	return nil
}

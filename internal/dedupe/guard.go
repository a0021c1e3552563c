// Package dedupe suppresses repeat emission of the same conversion.
package dedupe

import (
	"context"
	"errors"
	"fmt"

	"github.com/tjfontaine/marketin-sdk-go/internal/core/domain"
	"github.com/tjfontaine/marketin-sdk-go/internal/core/ports"
)

// KeyPrefix prefixes every de-dupe entry in the persistent store.
const KeyPrefix = "mi_conv_"

// Key returns the store key for a (session, event type) pair.
func Key(sessionID, eventType string) string {
	return KeyPrefix + sessionID + "_" + eventType
}

// Guard remembers the last conversion reference emitted per session and event type.
type Guard struct {
	store ports.KeyValueStore
}

// New creates a guard backed by store.
func New(store ports.KeyValueStore) *Guard {
	return &Guard{store: store}
}

// Seen reports whether ref was the last reference recorded for the pair.
// A store failure is returned with seen=false so the caller may still emit.
func (g *Guard) Seen(ctx context.Context, sessionID, eventType, ref string) (bool, error) {
	last, err := g.store.GetItem(ctx, Key(sessionID, eventType))
	if errors.Is(err, domain.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read conversion ref: %w", err)
	}
	return last == ref, nil
}

// Record stores ref as the last one emitted for the pair.
func (g *Guard) Record(ctx context.Context, sessionID, eventType, ref string) error {
	if err := g.store.SetItem(ctx, Key(sessionID, eventType), ref); err != nil {
		return fmt.Errorf("record conversion ref: %w", err)
	}
	return nil
}

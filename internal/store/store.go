// Package store is the key-value record store behind the collection-backed
// repositories. A store holds one JSON document per named collection and
// only supports reading or replacing a whole collection at once.
//
// Two writers replacing the same collection race: the last full write wins.
// Callers that need per-record safety use the Postgres repositories instead.
package store

import (
	"context"
	"encoding/json"
	"fmt"
)

// Collection names one of the record collections.
type Collection string

const (
	Users      Collection = "users"
	Trips      Collection = "trips"
	Activities Collection = "activities"
)

// Store reads and replaces whole collections.
type Store interface {
	// Get returns the raw JSON document for c, or nil if the collection has
	// never been written.
	Get(ctx context.Context, c Collection) ([]byte, error)

	// Put replaces the document for c.
	Put(ctx context.Context, c Collection, doc []byte) error
}

// Load reads collection c and decodes it into a slice of records.
// A missing collection yields an empty, non-nil slice.
func Load[T any](ctx context.Context, s Store, c Collection) ([]T, error) {
	doc, err := s.Get(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("store.Load %s: %w", c, err)
	}
	records := []T{}
	if len(doc) == 0 {
		return records, nil
	}
	if err := json.Unmarshal(doc, &records); err != nil {
		return nil, fmt.Errorf("store.Load %s: decode: %w", c, err)
	}
	return records, nil
}

// Save encodes records and replaces collection c with them.
func Save[T any](ctx context.Context, s Store, c Collection, records []T) error {
	if records == nil {
		records = []T{}
	}
	doc, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("store.Save %s: encode: %w", c, err)
	}
	if err := s.Put(ctx, c, doc); err != nil {
		return fmt.Errorf("store.Save %s: %w", c, err)
	}
	return nil
}

// Package viewcount tracks page views per post in SQLite or MongoDB.
package viewcount

import (
	"context"
	"errors"
	"fmt"

	"github.com/dvh-sh/folio/listing"
)

// ErrUnknownKind is returned for a collection other than blog or cooking.
var ErrUnknownKind = errors.New("viewcount: unknown kind")

// Store persists view counts keyed by (slug, kind).
type Store interface {
	// Counts returns slug -> views for every tracked post of kind.
	Counts(ctx context.Context, kind listing.Kind) (map[string]int, error)
	// Count returns the views of one post, 0 when it was never viewed.
	Count(ctx context.Context, slug string, kind listing.Kind) (int, error)
	// Increment adds one view, creating the record if needed, and returns
	// the new total.
	Increment(ctx context.Context, slug string, kind listing.Kind) (int, error)
	Close() error
}

func checkKind(kind listing.Kind) error {
	if !kind.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	return nil
}

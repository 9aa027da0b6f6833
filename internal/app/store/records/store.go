// internal/app/store/records/store.go
//
// Package records is the persistence layer shared by every feature. A Store
// offers insert/find/count/update/delete/list over named collections; Repo
// narrows a Store to a single record type.
package records

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	// ErrNotFound is returned when no document matches an id or filter.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a write would violate a unique index.
	ErrDuplicate = errors.New("duplicate record")

	errUnsupportedFilter = errors.New("records: filter operators are not supported")
)

// Filter is an equality-only match on top-level fields, keyed by bson name.
// A nil Filter matches every document.
type Filter map[string]any

// ListOptions controls ordering and paging for List.
type ListOptions struct {
	SortField string // bson field; empty keeps natural (insertion) order
	SortDesc  bool
	Skip      int64
	Limit     int64 // 0 means no limit
}

// Store is the record store handle. Implementations must be safe for
// concurrent use; each call is independent and there is no cross-call
// transaction.
type Store interface {
	// Insert stores doc and returns its id, assigning one when doc has none.
	Insert(ctx context.Context, coll string, doc any) (primitive.ObjectID, error)
	// FindOne decodes the first document matching f into out.
	FindOne(ctx context.Context, coll string, f Filter, out any) error
	// Count returns the number of documents matching f.
	Count(ctx context.Context, coll string, f Filter) (int64, error)
	// Update replaces the document with the given id.
	Update(ctx context.Context, coll string, id primitive.ObjectID, doc any) error
	// Delete removes the document with the given id.
	Delete(ctx context.Context, coll string, id primitive.ObjectID) error
	// List decodes matching documents into out, which must point to a slice.
	List(ctx context.Context, coll string, f Filter, opts ListOptions, out any) error
}

// ByID is the filter for a single document id.
func ByID(id primitive.ObjectID) Filter {
	return Filter{"_id": id}
}

// internal/app/store/records/repo.go
package records

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Repo is a typed view of one collection in a Store. T is a bson-tagged
// struct whose _id field is tagged omitempty so Create can assign it.
type Repo[T any] struct {
	store Store
	coll  string
}

// NewRepo binds a Store to a collection for record type T.
func NewRepo[T any](s Store, coll string) *Repo[T] {
	return &Repo[T]{store: s, coll: coll}
}

// Collection returns the collection name this repo writes to.
func (r *Repo[T]) Collection() string { return r.coll }

// Create inserts rec and returns its id.
func (r *Repo[T]) Create(ctx context.Context, rec T) (primitive.ObjectID, error) {
	return r.store.Insert(ctx, r.coll, rec)
}

// Get loads the record with id. Returns ErrNotFound when absent.
func (r *Repo[T]) Get(ctx context.Context, id primitive.ObjectID) (T, error) {
	var out T
	err := r.store.FindOne(ctx, r.coll, ByID(id), &out)
	return out, err
}

// List returns records in the order and window given by opts.
func (r *Repo[T]) List(ctx context.Context, opts ListOptions) ([]T, error) {
	var out []T
	if err := r.store.List(ctx, r.coll, nil, opts, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Update replaces the record with id.
func (r *Repo[T]) Update(ctx context.Context, id primitive.ObjectID, rec T) error {
	return r.store.Update(ctx, r.coll, id, rec)
}

// Delete removes the record with id.
func (r *Repo[T]) Delete(ctx context.Context, id primitive.ObjectID) error {
	return r.store.Delete(ctx, r.coll, id)
}

// Count returns how many records match f.
func (r *Repo[T]) Count(ctx context.Context, f Filter) (int64, error) {
	return r.store.Count(ctx, r.coll, f)
}

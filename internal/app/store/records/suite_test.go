package records_test

import (
	"context"
	"testing"
	"time"

	"github.com/dalemusser/reliefhub/internal/app/store/records"
	"github.com/dalemusser/reliefhub/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type item struct {
	ID      primitive.ObjectID `bson:"_id,omitempty"`
	Name    string             `bson:"name"`
	Code    string             `bson:"code,omitempty"`
	Rank    int                `bson:"rank"`
	Active  bool               `bson:"active"`
	Created time.Time          `bson:"created"`
}

// storeFactory returns a fresh store in which "items.code" is unique.
type storeFactory func(t *testing.T) records.Store

// runStoreSuite exercises the behaviour every Store implementation shares.
func runStoreSuite(t *testing.T, newStore storeFactory) {
	t.Run("InsertAssignsID", func(t *testing.T) {
		s := newStore(t)
		ctx, cancel := testutil.TestContext()
		defer cancel()

		id, err := s.Insert(ctx, "items", item{Name: "a"})
		require.NoError(t, err)
		assert.False(t, id.IsZero())

		var got item
		require.NoError(t, s.FindOne(ctx, "items", records.ByID(id), &got))
		assert.Equal(t, id, got.ID)
		assert.Equal(t, "a", got.Name)
	})

	t.Run("InsertKeepsGivenID", func(t *testing.T) {
		s := newStore(t)
		ctx, cancel := testutil.TestContext()
		defer cancel()

		want := primitive.NewObjectID()
		id, err := s.Insert(ctx, "items", item{ID: want, Name: "b"})
		require.NoError(t, err)
		assert.Equal(t, want, id)

		_, err = s.Insert(ctx, "items", item{ID: want, Name: "again"})
		assert.ErrorIs(t, err, records.ErrDuplicate)
	})

	t.Run("FindOneCompoundFilter", func(t *testing.T) {
		s := newStore(t)
		ctx, cancel := testutil.TestContext()
		defer cancel()

		_, err := s.Insert(ctx, "items", item{Name: "x", Rank: 1, Active: true})
		require.NoError(t, err)
		_, err = s.Insert(ctx, "items", item{Name: "x", Rank: 2, Active: false})
		require.NoError(t, err)

		var got item
		require.NoError(t, s.FindOne(ctx, "items", records.Filter{"name": "x", "active": false}, &got))
		assert.Equal(t, 2, got.Rank)

		err = s.FindOne(ctx, "items", records.Filter{"name": "x", "rank": 3}, &got)
		assert.ErrorIs(t, err, records.ErrNotFound)
	})

	t.Run("FindOneMissingCollection", func(t *testing.T) {
		s := newStore(t)
		ctx, cancel := testutil.TestContext()
		defer cancel()

		var got item
		err := s.FindOne(ctx, "nothing_here", records.Filter{"name": "x"}, &got)
		assert.ErrorIs(t, err, records.ErrNotFound)
	})

	t.Run("Count", func(t *testing.T) {
		s := newStore(t)
		ctx, cancel := testutil.TestContext()
		defer cancel()

		n, err := s.Count(ctx, "items", nil)
		require.NoError(t, err)
		assert.Zero(t, n)

		for i, active := range []bool{true, false, true} {
			_, err := s.Insert(ctx, "items", item{Name: "c", Rank: i, Active: active})
			require.NoError(t, err)
		}

		n, err = s.Count(ctx, "items", nil)
		require.NoError(t, err)
		assert.EqualValues(t, 3, n)

		n, err = s.Count(ctx, "items", records.Filter{"active": true})
		require.NoError(t, err)
		assert.EqualValues(t, 2, n)

		n, err = s.Count(ctx, "items", records.Filter{"rank": 1})
		require.NoError(t, err)
		assert.EqualValues(t, 1, n)
	})

	t.Run("UpdateReplaces", func(t *testing.T) {
		s := newStore(t)
		ctx, cancel := testutil.TestContext()
		defer cancel()

		id, err := s.Insert(ctx, "items", item{Name: "old", Rank: 1})
		require.NoError(t, err)

		require.NoError(t, s.Update(ctx, "items", id, item{ID: id, Name: "new", Rank: 9}))

		var got item
		require.NoError(t, s.FindOne(ctx, "items", records.ByID(id), &got))
		assert.Equal(t, "new", got.Name)
		assert.Equal(t, 9, got.Rank)
	})

	t.Run("UpdateMissing", func(t *testing.T) {
		s := newStore(t)
		ctx, cancel := testutil.TestContext()
		defer cancel()

		err := s.Update(ctx, "items", primitive.NewObjectID(), item{Name: "ghost"})
		assert.ErrorIs(t, err, records.ErrNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		s := newStore(t)
		ctx, cancel := testutil.TestContext()
		defer cancel()

		id, err := s.Insert(ctx, "items", item{Name: "gone"})
		require.NoError(t, err)
		require.NoError(t, s.Delete(ctx, "items", id))

		var got item
		assert.ErrorIs(t, s.FindOne(ctx, "items", records.ByID(id), &got), records.ErrNotFound)
		assert.ErrorIs(t, s.Delete(ctx, "items", id), records.ErrNotFound)
	})

	t.Run("UniqueField", func(t *testing.T) {
		s := newStore(t)
		ctx, cancel := testutil.TestContext()
		defer cancel()

		first, err := s.Insert(ctx, "items", item{Name: "one", Code: "dup"})
		require.NoError(t, err)
		_, err = s.Insert(ctx, "items", item{Name: "two", Code: "dup"})
		assert.ErrorIs(t, err, records.ErrDuplicate)

		second, err := s.Insert(ctx, "items", item{Name: "three", Code: "other"})
		require.NoError(t, err)
		err = s.Update(ctx, "items", second, item{ID: second, Name: "three", Code: "dup"})
		assert.ErrorIs(t, err, records.ErrDuplicate)

		// Rewriting a document with its own unique value is fine.
		assert.NoError(t, s.Update(ctx, "items", first, item{ID: first, Name: "uno", Code: "dup"}))

		n, err := s.Count(ctx, "items", records.Filter{"code": "dup"})
		require.NoError(t, err)
		assert.EqualValues(t, 1, n)
	})

	t.Run("ListSortSkipLimit", func(t *testing.T) {
		s := newStore(t)
		ctx, cancel := testutil.TestContext()
		defer cancel()

		for _, r := range []int{3, 1, 4, 2, 5} {
			_, err := s.Insert(ctx, "items", item{Name: "l", Rank: r})
			require.NoError(t, err)
		}

		var asc []item
		require.NoError(t, s.List(ctx, "items", nil, records.ListOptions{SortField: "rank"}, &asc))
		require.Len(t, asc, 5)
		assert.Equal(t, []int{1, 2, 3, 4, 5}, ranks(asc))

		var page []item
		require.NoError(t, s.List(ctx, "items", nil, records.ListOptions{SortField: "rank", SortDesc: true, Skip: 1, Limit: 2}, &page))
		assert.Equal(t, []int{4, 3}, ranks(page))

		var none []item
		require.NoError(t, s.List(ctx, "items", nil, records.ListOptions{Skip: 10}, &none))
		assert.Empty(t, none)
	})

	t.Run("ListFilter", func(t *testing.T) {
		s := newStore(t)
		ctx, cancel := testutil.TestContext()
		defer cancel()

		for i, active := range []bool{true, false, true} {
			_, err := s.Insert(ctx, "items", item{Name: "f", Rank: i, Active: active})
			require.NoError(t, err)
		}
		var got []item
		require.NoError(t, s.List(ctx, "items", records.Filter{"active": true}, records.ListOptions{SortField: "rank"}, &got))
		assert.Equal(t, []int{0, 2}, ranks(got))
	})

	t.Run("TimeRoundTrip", func(t *testing.T) {
		s := newStore(t)
		ctx, cancel := testutil.TestContext()
		defer cancel()

		when := time.Date(2024, 3, 14, 9, 26, 53, 0, time.UTC)
		id, err := s.Insert(ctx, "items", item{Name: "t", Created: when})
		require.NoError(t, err)

		var got item
		require.NoError(t, s.FindOne(ctx, "items", records.ByID(id), &got))
		assert.True(t, when.Equal(got.Created), "got %v", got.Created)
	})

	t.Run("CanceledContext", func(t *testing.T) {
		s := newStore(t)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := s.Count(ctx, "items", nil)
		assert.Error(t, err)
	})
}

func ranks(items []item) []int {
	out := make([]int, len(items))
	for i, it := range items {
		out[i] = it.Rank
	}
	return out
}

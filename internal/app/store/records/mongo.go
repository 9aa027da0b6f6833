// internal/app/store/records/mongo.go
package records

import (
	"context"
	"errors"
	"fmt"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Mongo is a Store backed by a MongoDB database.
type Mongo struct {
	db *mongo.Database
}

// NewMongo returns a Store over db.
func NewMongo(db *mongo.Database) *Mongo {
	return &Mongo{db: db}
}

func (m *Mongo) Insert(ctx context.Context, coll string, doc any) (primitive.ObjectID, error) {
	res, err := m.db.Collection(coll).InsertOne(ctx, doc)
	if err != nil {
		if wafflemongo.IsDup(err) {
			return primitive.NilObjectID, ErrDuplicate
		}
		return primitive.NilObjectID, err
	}
	id, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, fmt.Errorf("records: %s: inserted id has type %T, want ObjectID", coll, res.InsertedID)
	}
	return id, nil
}

func (m *Mongo) FindOne(ctx context.Context, coll string, f Filter, out any) error {
	err := m.db.Collection(coll).FindOne(ctx, toBSON(f)).Decode(out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	return err
}

func (m *Mongo) Count(ctx context.Context, coll string, f Filter) (int64, error) {
	return m.db.Collection(coll).CountDocuments(ctx, toBSON(f))
}

func (m *Mongo) Update(ctx context.Context, coll string, id primitive.ObjectID, doc any) error {
	res, err := m.db.Collection(coll).ReplaceOne(ctx, bson.M{"_id": id}, doc)
	if err != nil {
		if wafflemongo.IsDup(err) {
			return ErrDuplicate
		}
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (m *Mongo) Delete(ctx context.Context, coll string, id primitive.ObjectID) error {
	res, err := m.db.Collection(coll).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (m *Mongo) List(ctx context.Context, coll string, f Filter, opts ListOptions, out any) error {
	fo := options.Find()
	if opts.SortField != "" {
		dir := 1
		if opts.SortDesc {
			dir = -1
		}
		// _id as tiebreaker keeps paging stable on duplicate sort keys.
		fo.SetSort(bson.D{{Key: opts.SortField, Value: dir}, {Key: "_id", Value: dir}})
	}
	if opts.Skip > 0 {
		fo.SetSkip(opts.Skip)
	}
	if opts.Limit > 0 {
		fo.SetLimit(opts.Limit)
	}

	cur, err := m.db.Collection(coll).Find(ctx, toBSON(f), fo)
	if err != nil {
		return err
	}
	defer cur.Close(ctx)
	return cur.All(ctx, out)
}

func toBSON(f Filter) bson.M {
	q := bson.M{}
	for k, v := range f {
		q[k] = v
	}
	return q
}

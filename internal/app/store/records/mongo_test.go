package records_test

import (
	"testing"

	"github.com/dalemusser/reliefhub/internal/app/store/records"
	"github.com/dalemusser/reliefhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func TestMongo(t *testing.T) {
	runStoreSuite(t, func(t *testing.T) records.Store {
		db := testutil.SetupTestDB(t)
		ctx, cancel := testutil.TestContext()
		defer cancel()

		// Sparse so documents without a code do not collide on null.
		_, err := db.Collection("items").Indexes().CreateOne(ctx, mongo.IndexModel{
			Keys:    bson.D{{Key: "code", Value: 1}},
			Options: options.Index().SetUnique(true).SetSparse(true).SetName("uniq_items_code"),
		})
		if err != nil {
			t.Fatalf("create unique index: %v", err)
		}
		return records.NewMongo(db)
	})
}

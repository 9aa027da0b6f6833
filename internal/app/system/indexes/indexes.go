// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dalemusser/reliefhub/internal/app/store/records"
	"github.com/dalemusser/reliefhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

/*
EnsureAll is called at startup. Each index set is reconciled idempotently;
problems are aggregated so startup fails fast with everything listed.
*/
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	for _, set := range indexSets() {
		if err := ensureIndexSet(ctx, db.Collection(set.coll), set.models); err != nil {
			problems = append(problems, set.coll+": "+err.Error())
		}
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

// EnsureMemory declares on an in-memory store the unique constraints that
// EnsureAll creates in Mongo.
func EnsureMemory(m *records.Memory) {
	for _, set := range indexSets() {
		for _, im := range set.models {
			if im.Options == nil || im.Options.Unique == nil || !*im.Options.Unique {
				continue
			}
			keys := im.Keys.(bson.D)
			if len(keys) == 1 {
				m.EnsureUnique(set.coll, keys[0].Key)
			}
		}
	}
}

type collIndexes struct {
	coll   string
	models []mongo.IndexModel
}

func indexSets() []collIndexes {
	return []collIndexes{
		{models.CollCredentials, []mongo.IndexModel{
			// Closes the register check-then-insert race.
			{
				Keys:    bson.D{{Key: "username", Value: 1}},
				Options: options.Index().SetUnique(true).SetName("uniq_credentials_username"),
			},
			// Legacy sign-in is a single {username, password_hash} lookup.
			{
				Keys:    bson.D{{Key: "username", Value: 1}, {Key: "password_hash", Value: 1}},
				Options: options.Index().SetName("idx_credentials_username_hash"),
			},
		}},
		{models.CollDisasterReports, []mongo.IndexModel{
			{Keys: bson.D{{Key: "is_verified", Value: 1}}, Options: options.Index().SetName("idx_reports_verified")},
			{Keys: bson.D{{Key: "severity", Value: 1}}, Options: options.Index().SetName("idx_reports_severity")},
			{Keys: bson.D{{Key: "date_reported", Value: -1}}, Options: options.Index().SetName("idx_reports_date")},
		}},
		{models.CollDonations, []mongo.IndexModel{
			{Keys: bson.D{{Key: "date_donated", Value: -1}}, Options: options.Index().SetName("idx_donations_date")},
		}},
		{models.CollVolunteers, []mongo.IndexModel{
			{Keys: bson.D{{Key: "is_assigned", Value: 1}}, Options: options.Index().SetName("idx_volunteers_assigned")},
			{Keys: bson.D{{Key: "full_name", Value: 1}}, Options: options.Index().SetName("idx_volunteers_name")},
		}},
		{models.CollReliefTasks, []mongo.IndexModel{
			{Keys: bson.D{{Key: "start_date", Value: -1}}, Options: options.Index().SetName("idx_tasks_start")},
		}},
		{models.CollTaskAssignments, []mongo.IndexModel{
			{Keys: bson.D{{Key: "status", Value: 1}}, Options: options.Index().SetName("idx_assignments_status")},
			{Keys: bson.D{{Key: "start_date", Value: -1}}, Options: options.Index().SetName("idx_assignments_start")},
		}},
		{models.CollAuditEvents, []mongo.IndexModel{
			{Keys: bson.D{{Key: "timestamp", Value: -1}}, Options: options.Index().SetName("idx_audit_time")},
			{
				Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "timestamp", Value: -1}},
				Options: options.Index().SetName("idx_audit_user_time"),
			},
			{
				Keys: bson.D{
					{Key: "category", Value: 1},
					{Key: "event_type", Value: 1},
					{Key: "timestamp", Value: -1},
				},
				Options: options.Index().SetName("idx_audit_category_type_time"),
			},
		}},
	}
}

/* -------------------------------------------------------------------------- */
/* Reconcile a set of desired indexes for one collection                      */
/* -------------------------------------------------------------------------- */

type existingIndex struct {
	Name   string `bson:"name"`
	Key    bson.D `bson:"key"`
	Unique *bool  `bson:"unique,omitempty"`
}

func keySig(keys bson.D) string {
	parts := make([]string, 0, len(keys))
	for _, kv := range keys {
		parts = append(parts, fmt.Sprintf("%s:%v", kv.Key, kv.Value))
	}
	return strings.Join(parts, ", ")
}

func isUnique(b *bool) bool { return b != nil && *b }

// Best-effort duplicate-detector (works cross-vendors)
func isDuplicateKeyErr(err error) bool {
	if err == nil {
		return false
	}
	var we mongo.WriteException
	if errors.As(err, &we) {
		for _, e := range we.WriteErrors {
			if e.Code == 11000 {
				return true
			}
		}
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && ce.Code == 11000 {
		return true
	}
	s := err.Error()
	return strings.Contains(s, "E11000") || strings.Contains(strings.ToLower(s), "duplicate key")
}

func listExisting(ctx context.Context, coll *mongo.Collection) (map[string]existingIndex, error) {
	cur, err := coll.Indexes().List(ctx)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	existing := map[string]existingIndex{} // key signature -> index
	for cur.Next(ctx) {
		var idx existingIndex
		if err := cur.Decode(&idx); err != nil {
			zap.L().Warn("failed to decode existing index",
				zap.String("collection", coll.Name()), zap.Error(err))
			continue
		}
		existing[keySig(idx.Key)] = idx
	}
	return existing, cur.Err()
}

func ensureIndexSet(ctx context.Context, coll *mongo.Collection, desired []mongo.IndexModel) error {
	existing, err := listExisting(ctx, coll)
	if err != nil {
		// A collection that does not exist yet has no indexes to reconcile.
		existing = map[string]existingIndex{}
	}

	var errs []string
	for _, m := range desired {
		name := *m.Options.Name
		unique := isUnique(m.Options.Unique)
		sig := keySig(m.Keys.(bson.D))
		start := time.Now()

		if ex, ok := existing[sig]; ok {
			if ex.Name == name && isUnique(ex.Unique) == unique {
				zap.L().Debug("reusing existing index",
					zap.String("collection", coll.Name()), zap.String("name", name))
				continue
			}
			// Same keys under another name or with other options: replace it.
			if _, err := coll.Indexes().DropOne(ctx, ex.Name); err != nil {
				errs = append(errs, fmt.Sprintf("%s: drop %s failed: %v", name, ex.Name, err))
				continue
			}
			zap.L().Info("dropped index for recreate",
				zap.String("collection", coll.Name()),
				zap.String("from", ex.Name), zap.String("to", name))
		}

		if _, err := coll.Indexes().CreateOne(ctx, m); err != nil {
			if unique && isDuplicateKeyErr(err) {
				errs = append(errs, fmt.Sprintf("%s: cannot create unique index on %s (duplicates present)", name, sig))
			} else {
				errs = append(errs, fmt.Sprintf("%s: %v", name, err))
			}
			continue
		}
		zap.L().Info("index ensured",
			zap.String("collection", coll.Name()),
			zap.String("name", name),
			zap.String("keys", sig),
			zap.Bool("unique", unique),
			zap.Duration("took", time.Since(start)))
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

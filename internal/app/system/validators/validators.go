// internal/app/system/validators/validators.go
package validators

import (
	"context"
	"errors"
	"strings"

	"github.com/dalemusser/reliefhub/internal/domain/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// EnsureAll creates collections (if missing) and tries to attach JSON-Schema
// validators. On servers that don't support collMod/validators (e.g. some
// DocumentDB versions), we log and skip gracefully.
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	ensure := func(coll string, schema bson.M) {
		if _, err := ensureCollection(ctx, db, coll); err != nil {
			problems = append(problems, coll+": "+err.Error())
			return
		}
		if schema == nil {
			return
		}
		if err := setValidator(ctx, db, coll, schema); err != nil {
			if isNoSuchCommand(err) || isNotImplemented(err) {
				zap.L().Info("validator skipped (unsupported)", zap.String("collection", coll))
				return
			}
			problems = append(problems, coll+": "+err.Error())
		}
	}

	ensure(models.CollCredentials, credentialsSchema())
	ensure(models.CollDisasterReports, reportsSchema())
	ensure(models.CollDonations, donationsSchema())
	ensure(models.CollVolunteers, volunteersSchema())
	ensure(models.CollReliefTasks, reliefTasksSchema())
	ensure(models.CollTaskAssignments, assignmentsSchema())

	ensure(models.CollAuditEvents, nil)

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

/* ---------------------- collection helpers & logging ---------------------- */

// collectionExists returns true when <name> already exists.
// Uses ListCollectionNames to avoid "created collection" log when it didn't.
func collectionExists(ctx context.Context, db *mongo.Database, name string) (bool, error) {
	names, err := db.ListCollectionNames(ctx, bson.M{})
	if err != nil {
		return false, err
	}
	for _, n := range names {
		if n == name {
			return true, nil
		}
	}
	return false, nil
}

// ensureCollection idempotently makes sure <name> exists.
// Returns created==true only if we actually created it.
func ensureCollection(ctx context.Context, db *mongo.Database, name string) (created bool, err error) {
	exists, listErr := collectionExists(ctx, db, name)
	if listErr == nil && exists {
		zap.L().Info("collection exists", zap.String("collection", name))
		return false, nil
	}
	// If listing failed, fall back to create-and-handle-race.
	if err := db.CreateCollection(ctx, name); err != nil {
		// NamespaceExists / already exists is fine (race or prior run).
		if isNamespaceExistsErr(err) {
			zap.L().Info("collection exists", zap.String("collection", name))
			return false, nil
		}
		zap.L().Warn("createCollection failed", zap.String("collection", name), zap.Error(err))
		return false, err
	}
	zap.L().Info("created collection", zap.String("collection", name))
	return true, nil
}

/* ------------------------------ validators ------------------------------- */

func setValidator(ctx context.Context, db *mongo.Database, name string, validator bson.M) error {
	cmd := bson.D{
		{Key: "collMod", Value: name},
		{Key: "validator", Value: validator},
		{Key: "validationLevel", Value: "moderate"},
		{Key: "validationAction", Value: "error"},
	}
	var out bson.M
	if err := db.RunCommand(ctx, cmd).Decode(&out); err != nil {
		return err
	}
	zap.L().Info("validator ensured", zap.String("collection", name))
	return nil
}

/* ------------------------- error helpers ------------------------- */

func isNamespaceExistsErr(err error) bool {
	if err == nil {
		return false
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && (ce.Code == 48 || strings.Contains(strings.ToLower(ce.Message), "already exists")) {
		return true
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "already exists") || strings.Contains(s, "namespace exists")
}

func isNoSuchCommand(err error) bool {
	if err == nil {
		return false
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && (ce.Code == 59 || strings.Contains(strings.ToLower(ce.Message), "no such command")) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "no such command")
}

func isNotImplemented(err error) bool {
	if err == nil {
		return false
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && (ce.Code == 115 ||
		strings.Contains(strings.ToLower(ce.Message), "not implemented") ||
		strings.Contains(strings.ToLower(ce.Message), "not supported")) {
		return true
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "not implemented") || strings.Contains(s, "not supported")
}

/* ------------------------- JSON-Schema docs ---------------------- */

var nonBlank = bson.M{"bsonType": "string", "minLength": 1, "pattern": ".*\\S.*"}

func enum(vals ...string) bson.M {
	a := bson.A{}
	for _, v := range vals {
		a = append(a, v)
	}
	return bson.M{"enum": a}
}

func credentialsSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"username", "password_hash", "role"},
			"properties": bson.M{
				"username":      nonBlank,
				"username_ci":   bson.M{"bsonType": "string"},
				"password_hash": nonBlank,
				"role":          enum(models.RoleUser, models.RoleAdmin, models.RoleVolunteer),
				"created_at":    bson.M{"bsonType": "date"},
			},
		},
	}
}

func reportsSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"location", "disaster_type", "severity", "is_verified"},
			"properties": bson.M{
				"location":      nonBlank,
				"disaster_type": nonBlank,
				"severity":      enum(models.SeverityLow, models.SeverityModerate, models.SeverityHigh, models.SeverityCritical),
				"date_reported": bson.M{"bsonType": "date"},
				"is_verified":   bson.M{"bsonType": "bool"},
			},
		},
	}
}

func donationsSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"donor_name", "donation_type"},
			"properties": bson.M{
				"donor_name":    nonBlank,
				"donation_type": enum(models.DonationMoney, models.DonationSupplies, models.DonationServices),
				"amount":        bson.M{"bsonType": bson.A{"double", "null"}, "minimum": 0},
				"quantity":      bson.M{"bsonType": bson.A{"int", "long", "null"}, "minimum": 0},
				"date_donated":  bson.M{"bsonType": "date"},
			},
		},
	}
}

func volunteersSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"full_name", "contact_number", "skills", "is_assigned"},
			"properties": bson.M{
				"full_name":      nonBlank,
				"contact_number": nonBlank,
				"skills":         nonBlank,
				"is_assigned":    bson.M{"bsonType": "bool"},
			},
		},
	}
}

func reliefTasksSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"title", "status", "priority"},
			"properties": bson.M{
				"title":              nonBlank,
				"status":             enum(models.TaskPlanned, models.TaskActive, models.TaskCompleted),
				"priority":           enum(models.PriorityLow, models.PriorityMedium, models.PriorityHigh, models.PriorityCritical),
				"disaster_report_id": bson.M{"bsonType": "objectId"},
				"volunteer_id":       bson.M{"bsonType": "objectId"},
			},
		},
	}
}

func assignmentsSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"task_name", "volunteer_id", "disaster_report_id", "status"},
			"properties": bson.M{
				"task_name":          nonBlank,
				"volunteer_id":       bson.M{"bsonType": "objectId"},
				"disaster_report_id": bson.M{"bsonType": "objectId"},
				"status":             enum(models.AssignmentAssigned, models.AssignmentInProgress, models.AssignmentCompleted),
				"start_date":         bson.M{"bsonType": "date"},
				"end_date":           bson.M{"bsonType": "date"},
			},
		},
	}
}

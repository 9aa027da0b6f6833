// internal/app/features/entities/refs.go
package entities

import (
	"context"
	"errors"

	"github.com/dalemusser/reliefhub/internal/app/store/records"
	"github.com/dalemusser/reliefhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// findVolunteer returns the referenced volunteer, or ok=false when it is gone.
func findVolunteer(ctx context.Context, recs records.Store, id primitive.ObjectID) (models.Volunteer, bool, error) {
	var v models.Volunteer
	err := recs.FindOne(ctx, models.CollVolunteers, records.ByID(id), &v)
	if errors.Is(err, records.ErrNotFound) {
		return v, false, nil
	}
	return v, err == nil, err
}

func reportExists(ctx context.Context, recs records.Store, id primitive.ObjectID) (bool, error) {
	n, err := recs.Count(ctx, models.CollDisasterReports, records.ByID(id))
	return n > 0, err
}

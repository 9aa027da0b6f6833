// internal/domain/models/volunteer.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Volunteer struct {
	ID                primitive.ObjectID `bson:"_id,omitempty"`
	FullName          string             `bson:"full_name"`
	ContactNumber     string             `bson:"contact_number"`
	Email             string             `bson:"email,omitempty"`
	Skills            string             `bson:"skills"`
	AvailableFrom     time.Time          `bson:"available_from"`
	PreferredLocation string             `bson:"preferred_location,omitempty"`
	IsAssigned        bool               `bson:"is_assigned"`
}

// internal/domain/models/relieftask.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Relief task statuses.
const (
	TaskPlanned   = "Planned"
	TaskActive    = "Active"
	TaskCompleted = "Completed"
)

// Priorities shared by relief tasks.
const (
	PriorityLow      = "Low"
	PriorityMedium   = "Medium"
	PriorityHigh     = "High"
	PriorityCritical = "Critical"
)

// DefaultTaskSpan is how long a task or assignment runs when no end date is given.
const DefaultTaskSpan = 7 * 24 * time.Hour

// ReliefTask is a planned unit of relief work, optionally tied to a report
// and a volunteer.
type ReliefTask struct {
	ID               primitive.ObjectID  `bson:"_id,omitempty"`
	Title            string              `bson:"title"`
	Description      string              `bson:"description,omitempty"`
	DisasterReportID *primitive.ObjectID `bson:"disaster_report_id,omitempty"`
	VolunteerID      *primitive.ObjectID `bson:"volunteer_id,omitempty"`
	Location         string              `bson:"location,omitempty"`
	StartDate        time.Time           `bson:"start_date"`
	EndDate          time.Time           `bson:"end_date"`
	Status           string              `bson:"status"`
	Priority         string              `bson:"priority"`
}

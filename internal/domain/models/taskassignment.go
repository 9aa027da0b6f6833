// internal/domain/models/taskassignment.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Assignment statuses. The dashboard counts AssignmentCompleted.
const (
	AssignmentAssigned   = "Assigned"
	AssignmentInProgress = "In Progress"
	AssignmentCompleted  = "Completed"
)

// TaskAssignment places a volunteer on a piece of work for a disaster report.
type TaskAssignment struct {
	ID               primitive.ObjectID `bson:"_id,omitempty"`
	TaskName         string             `bson:"task_name"`
	Description      string             `bson:"description,omitempty"`
	VolunteerID      primitive.ObjectID `bson:"volunteer_id"`
	VolunteerName    string             `bson:"volunteer_name,omitempty"`
	DisasterReportID primitive.ObjectID `bson:"disaster_report_id"`
	Location         string             `bson:"location"`
	StartDate        time.Time          `bson:"start_date"`
	EndDate          time.Time          `bson:"end_date"`
	Status           string             `bson:"status"`
}

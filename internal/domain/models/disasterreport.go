// internal/domain/models/disasterreport.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Severity values. The dashboard counts SeverityCritical.
const (
	SeverityLow      = "Low"
	SeverityModerate = "Moderate"
	SeverityHigh     = "High"
	SeverityCritical = "Critical"
)

// ReportStatusPending is the status a new report starts in.
const ReportStatusPending = "Pending"

// DisasterReport is a field report of an incident needing relief.
type DisasterReport struct {
	ID             primitive.ObjectID `bson:"_id,omitempty"`
	Location       string             `bson:"location"`
	DisasterType   string             `bson:"disaster_type"`
	Description    string             `bson:"description,omitempty"`
	DateReported   time.Time          `bson:"date_reported"`
	Severity       string             `bson:"severity"`
	ReliefRequired string             `bson:"relief_required,omitempty"`
	ReporterName   string             `bson:"reporter_name,omitempty"`
	Status         string             `bson:"status"`
	IsVerified     bool               `bson:"is_verified"`
}

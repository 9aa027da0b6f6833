// internal/domain/models/collections.go
package models

// Mongo collection names.
const (
	CollCredentials     = "credentials"
	CollDisasterReports = "disaster_reports"
	CollDonations       = "donations"
	CollVolunteers      = "volunteers"
	CollReliefTasks     = "relief_tasks"
	CollTaskAssignments = "task_assignments"
	CollAuditEvents     = "audit_events"
)

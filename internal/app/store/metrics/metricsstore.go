// internal/app/store/metrics/metricsstore.go
package metricsstore

import (
	"context"
	"fmt"

	"github.com/dalemusser/reliefhub/internal/app/store/records"
	"github.com/dalemusser/reliefhub/internal/domain/models"
)

// Summary is the set of operational totals shown on the dashboard.
type Summary struct {
	TotalReports       int64 `json:"totalReports"`
	VerifiedReports    int64 `json:"verifiedReports"`
	CriticalReports    int64 `json:"criticalReports"`
	TotalDonations     int64 `json:"totalDonations"`
	TotalVolunteers    int64 `json:"totalVolunteers"`
	AssignedVolunteers int64 `json:"assignedVolunteers"`
	TotalTasks         int64 `json:"totalTasks"`
	CompletedTasks     int64 `json:"completedTasks"`
}

type countSpec struct {
	name   string
	coll   string
	filter records.Filter
	dst    func(*Summary) *int64
}

var summaryCounts = []countSpec{
	{"total reports", models.CollDisasterReports, nil,
		func(s *Summary) *int64 { return &s.TotalReports }},
	{"verified reports", models.CollDisasterReports, records.Filter{"is_verified": true},
		func(s *Summary) *int64 { return &s.VerifiedReports }},
	{"critical reports", models.CollDisasterReports, records.Filter{"severity": models.SeverityCritical},
		func(s *Summary) *int64 { return &s.CriticalReports }},
	{"total donations", models.CollDonations, nil,
		func(s *Summary) *int64 { return &s.TotalDonations }},
	{"total volunteers", models.CollVolunteers, nil,
		func(s *Summary) *int64 { return &s.TotalVolunteers }},
	{"assigned volunteers", models.CollVolunteers, records.Filter{"is_assigned": true},
		func(s *Summary) *int64 { return &s.AssignedVolunteers }},
	{"total tasks", models.CollTaskAssignments, nil,
		func(s *Summary) *int64 { return &s.TotalTasks }},
	{"completed tasks", models.CollTaskAssignments, records.Filter{"status": models.AssignmentCompleted},
		func(s *Summary) *int64 { return &s.CompletedTasks }},
}

// ComputeSummary runs the eight dashboard counts one after another. The
// counts share no transaction, so under concurrent writes they may reflect
// slightly different instants. The first failing count aborts the summary;
// a failure is never reported as zero.
func ComputeSummary(ctx context.Context, store records.Store) (Summary, error) {
	var out Summary
	for _, c := range summaryCounts {
		n, err := store.Count(ctx, c.coll, c.filter)
		if err != nil {
			return Summary{}, fmt.Errorf("count %s: %w", c.name, err)
		}
		*c.dst(&out) = n
	}
	return out, nil
}

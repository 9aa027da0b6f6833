// internal/testutil/fixtures.go
package testutil

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/reliefhub/internal/app/store/records"
	"github.com/dalemusser/reliefhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// Fixtures inserts domain records through a records.Store.
type Fixtures struct {
	store records.Store
	t     *testing.T
}

// NewFixtures creates a new Fixtures instance for the given store.
func NewFixtures(t *testing.T, store records.Store) *Fixtures {
	t.Helper()
	return &Fixtures{store: store, t: t}
}

// Store returns the underlying store for direct access in tests.
func (f *Fixtures) Store() records.Store {
	return f.store
}

func (f *Fixtures) insert(ctx context.Context, coll string, doc any) primitive.ObjectID {
	f.t.Helper()
	id, err := f.store.Insert(ctx, coll, doc)
	if err != nil {
		f.t.Fatalf("failed to insert into %s: %v", coll, err)
	}
	return id
}

// CreateReport inserts a disaster report with the given verification and severity.
func (f *Fixtures) CreateReport(ctx context.Context, location string, verified bool, severity string) models.DisasterReport {
	f.t.Helper()
	rep := models.DisasterReport{
		Location:     location,
		DisasterType: "Flood",
		DateReported: time.Now().UTC(),
		Severity:     severity,
		Status:       models.ReportStatusPending,
		IsVerified:   verified,
	}
	rep.ID = f.insert(ctx, models.CollDisasterReports, rep)
	return rep
}

// CreateDonation inserts a money donation.
func (f *Fixtures) CreateDonation(ctx context.Context, donor string, amount float64) models.Donation {
	f.t.Helper()
	d := models.Donation{
		DonorName:    donor,
		DonationType: models.DonationMoney,
		Amount:       &amount,
		DateDonated:  time.Now().UTC(),
	}
	d.ID = f.insert(ctx, models.CollDonations, d)
	return d
}

// CreateVolunteer inserts a volunteer, optionally already assigned.
func (f *Fixtures) CreateVolunteer(ctx context.Context, name string, assigned bool) models.Volunteer {
	f.t.Helper()
	v := models.Volunteer{
		FullName:      name,
		ContactNumber: "0720000001",
		Skills:        "First Aid",
		AvailableFrom: time.Now().UTC(),
		IsAssigned:    assigned,
	}
	v.ID = f.insert(ctx, models.CollVolunteers, v)
	return v
}

// CreateAssignment inserts a task assignment with the given status.
func (f *Fixtures) CreateAssignment(ctx context.Context, task, status string) models.TaskAssignment {
	f.t.Helper()
	start := time.Now().UTC()
	a := models.TaskAssignment{
		TaskName:         task,
		VolunteerID:      primitive.NewObjectID(),
		DisasterReportID: primitive.NewObjectID(),
		Location:         "Zone A",
		StartDate:        start,
		EndDate:          start.Add(models.DefaultTaskSpan),
		Status:           status,
	}
	a.ID = f.insert(ctx, models.CollTaskAssignments, a)
	return a
}

// SeedDashboard inserts the reference data set: 3 reports (2 verified,
// 2 critical), 2 donations, 3 volunteers (2 assigned) and 2 assignments
// (1 completed). The expected summary is {3,2,2,2,3,2,2,1}.
func (f *Fixtures) SeedDashboard(ctx context.Context) {
	f.t.Helper()
	f.CreateReport(ctx, "Durban", true, models.SeverityCritical)
	f.CreateReport(ctx, "Cape Town", false, models.SeverityModerate)
	f.CreateReport(ctx, "Gqeberha", true, models.SeverityCritical)

	f.CreateDonation(ctx, "Alice", 50)
	f.CreateDonation(ctx, "Bob", 100)

	f.CreateVolunteer(ctx, "John Doe", true)
	f.CreateVolunteer(ctx, "Jane Roe", false)
	f.CreateVolunteer(ctx, "Jim Bloggs", true)

	f.CreateAssignment(ctx, "Distribute Food", models.AssignmentCompleted)
	f.CreateAssignment(ctx, "Set up Shelter", models.AssignmentInProgress)
}

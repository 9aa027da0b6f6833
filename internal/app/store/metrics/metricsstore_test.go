package metricsstore_test

import (
	"context"
	"errors"
	"testing"

	metricsstore "github.com/dalemusser/reliefhub/internal/app/store/metrics"
	"github.com/dalemusser/reliefhub/internal/app/store/records"
	"github.com/dalemusser/reliefhub/internal/domain/models"
	"github.com/dalemusser/reliefhub/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var seeded = metricsstore.Summary{
	TotalReports:       3,
	VerifiedReports:    2,
	CriticalReports:    2,
	TotalDonations:     2,
	TotalVolunteers:    3,
	AssignedVolunteers: 2,
	TotalTasks:         2,
	CompletedTasks:     1,
}

func TestComputeSummary_Empty(t *testing.T) {
	ctx, cancel := testutil.TestContext()
	defer cancel()

	got, err := metricsstore.ComputeSummary(ctx, records.NewMemory())
	require.NoError(t, err)
	assert.Equal(t, metricsstore.Summary{}, got)
}

func TestComputeSummary_SeededScenario(t *testing.T) {
	store := records.NewMemory()
	fx := testutil.NewFixtures(t, store)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx.SeedDashboard(ctx)

	got, err := metricsstore.ComputeSummary(ctx, store)
	require.NoError(t, err)
	assert.Equal(t, seeded, got)
}

func TestComputeSummary_TracksInserts(t *testing.T) {
	store := records.NewMemory()
	fx := testutil.NewFixtures(t, store)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	const n, m, k = 5, 2, 3
	for i := 0; i < n; i++ {
		severity := models.SeverityModerate
		if i < k {
			severity = models.SeverityCritical
		}
		fx.CreateReport(ctx, "Site", i < m, severity)
	}

	got, err := metricsstore.ComputeSummary(ctx, store)
	require.NoError(t, err)
	assert.EqualValues(t, n, got.TotalReports)
	assert.EqualValues(t, m, got.VerifiedReports)
	assert.EqualValues(t, k, got.CriticalReports)
	assert.Zero(t, got.TotalDonations)
}

func TestComputeSummary_SeverityMatchIsExact(t *testing.T) {
	store := records.NewMemory()
	fx := testutil.NewFixtures(t, store)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx.CreateReport(ctx, "A", false, "critical")
	fx.CreateReport(ctx, "B", false, models.SeverityCritical)

	got, err := metricsstore.ComputeSummary(ctx, store)
	require.NoError(t, err)
	assert.EqualValues(t, 1, got.CriticalReports)
}

// flakyStore fails the count on one collection.
type flakyStore struct {
	records.Store
	failColl string
	calls    int
}

var errDown = errors.New("store unavailable")

func (f *flakyStore) Count(ctx context.Context, coll string, filter records.Filter) (int64, error) {
	f.calls++
	if coll == f.failColl {
		return 0, errDown
	}
	return f.Store.Count(ctx, coll, filter)
}

func TestComputeSummary_ErrorPropagates(t *testing.T) {
	mem := records.NewMemory()
	testutil.NewFixtures(t, mem).SeedDashboard(context.Background())

	store := &flakyStore{Store: mem, failColl: models.CollVolunteers}
	ctx, cancel := testutil.TestContext()
	defer cancel()

	got, err := metricsstore.ComputeSummary(ctx, store)
	require.Error(t, err)
	assert.ErrorIs(t, err, errDown)
	assert.Equal(t, metricsstore.Summary{}, got)
	// Reports (3) and donations (1) succeed, then the first volunteer count fails.
	assert.Equal(t, 5, store.calls)
}

func TestComputeSummary_Mongo(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := records.NewMongo(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	testutil.NewFixtures(t, store).SeedDashboard(ctx)

	got, err := metricsstore.ComputeSummary(ctx, store)
	require.NoError(t, err)
	assert.Equal(t, seeded, got)
}

package auditlog_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/reliefhub/internal/app/store/audit"
	"github.com/dalemusser/reliefhub/internal/app/store/records"
	"github.com/dalemusser/reliefhub/internal/app/system/auditlog"
	"github.com/dalemusser/reliefhub/internal/app/system/requestid"
	"github.com/dalemusser/reliefhub/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func newLogger(cfg auditlog.Config) (*auditlog.Logger, *audit.Store, *observer.ObservedLogs) {
	store := audit.New(records.NewMemory())
	core, logs := observer.New(zap.DebugLevel)
	return auditlog.New(store, zap.New(core), cfg), store, logs
}

func TestLogger_NilLogger(t *testing.T) {
	var logger *auditlog.Logger
	ctx, cancel := testutil.TestContext()
	defer cancel()
	req := httptest.NewRequest("GET", "/", nil)

	logger.Log(ctx, audit.Event{EventType: "test"})
	logger.LoginSuccess(ctx, req, primitive.NewObjectID(), "alice")
	logger.Logout(ctx, req, primitive.NewObjectID().Hex())
}

func TestLogger_Destinations(t *testing.T) {
	tests := []struct {
		setting  string
		wantDB   int
		wantLogs int
	}{
		{auditlog.All, 1, 1},
		{auditlog.DB, 1, 0},
		{auditlog.Log, 0, 1},
		{auditlog.Off, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.setting, func(t *testing.T) {
			logger, store, logs := newLogger(auditlog.Config{Auth: tt.setting, Admin: tt.setting})
			ctx, cancel := testutil.TestContext()
			defer cancel()

			userID := primitive.NewObjectID()
			logger.LoginSuccess(ctx, httptest.NewRequest("POST", "/login", nil), userID, "alice")

			events, err := store.GetByUser(ctx, userID, 10)
			require.NoError(t, err)
			assert.Len(t, events, tt.wantDB)
			assert.Equal(t, tt.wantLogs, logs.FilterMessage("audit event").Len())
		})
	}
}

func TestLogger_CategoryFilteredByConfig(t *testing.T) {
	logger, store, _ := newLogger(auditlog.Config{Auth: auditlog.Off, Admin: auditlog.DB})
	ctx, cancel := testutil.TestContext()
	defer cancel()
	req := httptest.NewRequest("POST", "/", nil)

	logger.LoginFailed(ctx, req, "mallory")
	actor := primitive.NewObjectID()
	logger.RecordCreated(ctx, req, actor.Hex(), "reports", primitive.NewObjectID(), "Durban")

	n, err := store.CountByFilter(ctx, audit.QueryFilter{Category: audit.CategoryAuth})
	require.NoError(t, err)
	assert.Zero(t, n)

	events, err := store.Query(ctx, audit.QueryFilter{ActorID: &actor})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, audit.EventRecordCreated, events[0].EventType)
	assert.Equal(t, "reports", events[0].Details["kind"])
	assert.Equal(t, "Durban", events[0].Details["label"])
}

func TestLogger_LoginFailedIsGeneric(t *testing.T) {
	logger, store, logs := newLogger(auditlog.Config{Auth: auditlog.All})
	ctx, cancel := testutil.TestContext()
	defer cancel()

	logger.LoginFailed(ctx, httptest.NewRequest("POST", "/login", nil), "ghost")

	events, err := store.GetRecent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.False(t, events[0].Success)
	assert.Equal(t, "invalid credentials", events[0].FailureReason)
	assert.Nil(t, events[0].UserID)

	entries := logs.FilterMessage("audit event").All()
	require.Len(t, entries, 1)
	assert.Equal(t, zap.WarnLevel, entries[0].Level)
}

func TestLogger_Logout_InvalidID(t *testing.T) {
	logger, store, _ := newLogger(auditlog.Config{Auth: auditlog.DB})
	ctx, cancel := testutil.TestContext()
	defer cancel()

	logger.Logout(ctx, httptest.NewRequest("POST", "/logout", nil), "not-a-hex-id")

	events, err := store.GetRecent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Nil(t, events[0].UserID)
}

func TestLogger_ClientIPAndRequestID(t *testing.T) {
	logger, store, _ := newLogger(auditlog.Config{Auth: auditlog.DB})
	ctx, cancel := testutil.TestContext()
	defer cancel()

	userID := primitive.NewObjectID()
	var captured string
	req := httptest.NewRequest("POST", "/register", nil)
	req.RemoteAddr = "10.0.0.5:12345"
	h := requestid.Middleware(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		captured = requestid.FromRequest(r)
		logger.Registered(ctx, r, userID, "alice")
	}))
	h.ServeHTTP(httptest.NewRecorder(), req)

	events, err := store.GetByUser(ctx, userID, 10)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "10.0.0.5", events[0].IP)
	assert.Equal(t, captured, events[0].RequestID)
	assert.NotEmpty(t, captured)
}

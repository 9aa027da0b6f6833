// internal/testutil/app.go
package testutil

import (
	"testing"
	"time"

	"github.com/dalemusser/reliefhub/internal/app/store/audit"
	"github.com/dalemusser/reliefhub/internal/app/store/records"
	"github.com/dalemusser/reliefhub/internal/app/system/auditlog"
	"github.com/dalemusser/reliefhub/internal/app/system/auth"
	"go.uber.org/zap"
)

// SessionName is the cookie name used by NewSessionManager.
const SessionName = "test-session"

// NewSessionManager returns a cookie session manager suitable for handler tests.
func NewSessionManager(t *testing.T) *auth.SessionManager {
	t.Helper()
	sm, err := auth.NewSessionManager("test-session-key-must-be-32-chars-long", SessionName, "", 24*time.Hour, false, zap.NewNop())
	if err != nil {
		t.Fatalf("NewSessionManager failed: %v", err)
	}
	return sm
}

// NewAuditLogger returns an audit logger that stores every event in recs,
// plus the store to query them back.
func NewAuditLogger(recs records.Store) (*auditlog.Logger, *audit.Store) {
	store := audit.New(recs)
	return auditlog.New(store, zap.NewNop(), auditlog.Config{Auth: auditlog.All, Admin: auditlog.All}), store
}

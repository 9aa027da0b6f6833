// internal/app/system/auditlog/logger.go
package auditlog

import (
	"context"
	"net/http"

	"github.com/dalemusser/reliefhub/internal/app/store/audit"
	"github.com/dalemusser/reliefhub/internal/app/system/ratelimit"
	"github.com/dalemusser/reliefhub/internal/app/system/requestid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Destinations for a category of events.
const (
	All = "all" // store + zap
	DB  = "db"  // store only
	Log = "log" // zap only
	Off = "off"
)

// Config selects where each category of events goes.
type Config struct {
	Auth  string // sign-in, registration, logout
	Admin string // record creates, updates and deletes
}

// Valid reports whether s is a known destination.
func Valid(s string) bool {
	switch s {
	case All, DB, Log, Off:
		return true
	}
	return false
}

// Logger writes audit events to the audit store and to zap.
type Logger struct {
	store  *audit.Store
	zapLog *zap.Logger
	config Config
}

func New(store *audit.Store, zapLog *zap.Logger, config Config) *Logger {
	return &Logger{store: store, zapLog: zapLog, config: config}
}

func (l *Logger) logToZap(event audit.Event) {
	fields := []zap.Field{
		zap.Bool("audit", true),
		zap.String("category", event.Category),
		zap.String("event_type", event.EventType),
		zap.Bool("success", event.Success),
		zap.String("ip", event.IP),
	}
	if event.RequestID != "" {
		fields = append(fields, zap.String("request_id", event.RequestID))
	}
	if event.UserID != nil {
		fields = append(fields, zap.String("user_id", event.UserID.Hex()))
	}
	if event.ActorID != nil {
		fields = append(fields, zap.String("actor_id", event.ActorID.Hex()))
	}
	if event.FailureReason != "" {
		fields = append(fields, zap.String("failure_reason", event.FailureReason))
	}
	for k, v := range event.Details {
		fields = append(fields, zap.String("detail_"+k, v))
	}

	if event.Success {
		l.zapLog.Info("audit event", fields...)
	} else {
		l.zapLog.Warn("audit event", fields...)
	}
}

// Log records an audit event according to the category's destination.
// A nil Logger is a no-op. Store failures are logged, never returned:
// auditing must not fail the request it describes.
func (l *Logger) Log(ctx context.Context, event audit.Event) {
	if l == nil {
		return
	}

	var setting string
	switch event.Category {
	case audit.CategoryAuth:
		setting = l.config.Auth
	case audit.CategoryAdmin:
		setting = l.config.Admin
	default:
		setting = All
	}
	if setting == Off {
		return
	}

	if setting == All || setting == Log {
		l.logToZap(event)
	}
	if (setting == All || setting == DB) && l.store != nil {
		if err := l.store.Log(ctx, event); err != nil {
			l.zapLog.Error("failed to store audit event",
				zap.Error(err),
				zap.String("event_type", event.EventType),
			)
		}
	}
}

func fromRequest(r *http.Request, category, eventType string, success bool) audit.Event {
	return audit.Event{
		Category:  category,
		EventType: eventType,
		IP:        ratelimit.ClientIP(r),
		UserAgent: r.UserAgent(),
		RequestID: requestid.FromRequest(r),
		Success:   success,
	}
}

func hexID(s string) *primitive.ObjectID {
	oid, err := primitive.ObjectIDFromHex(s)
	if err != nil {
		return nil
	}
	return &oid
}

// --- Authentication Events ---

func (l *Logger) LoginSuccess(ctx context.Context, r *http.Request, userID primitive.ObjectID, username string) {
	e := fromRequest(r, audit.CategoryAuth, audit.EventLoginSuccess, true)
	e.UserID = &userID
	e.Details = map[string]string{"username": username}
	l.Log(ctx, e)
}

// LoginFailed does not say whether the account exists.
func (l *Logger) LoginFailed(ctx context.Context, r *http.Request, attempted string) {
	e := fromRequest(r, audit.CategoryAuth, audit.EventLoginFailed, false)
	e.FailureReason = "invalid credentials"
	e.Details = map[string]string{"attempted_username": attempted}
	l.Log(ctx, e)
}

func (l *Logger) LoginRateLimited(ctx context.Context, r *http.Request, attempted string) {
	e := fromRequest(r, audit.CategoryAuth, audit.EventLoginFailedRateLimit, false)
	e.FailureReason = "rate limited"
	e.Details = map[string]string{"attempted_username": attempted}
	l.Log(ctx, e)
}

// Logout takes the session's hex id; a malformed id is recorded without a user.
func (l *Logger) Logout(ctx context.Context, r *http.Request, userIDStr string) {
	e := fromRequest(r, audit.CategoryAuth, audit.EventLogout, true)
	e.UserID = hexID(userIDStr)
	l.Log(ctx, e)
}

func (l *Logger) Registered(ctx context.Context, r *http.Request, userID primitive.ObjectID, username string) {
	e := fromRequest(r, audit.CategoryAuth, audit.EventRegistered, true)
	e.UserID = &userID
	e.Details = map[string]string{"username": username}
	l.Log(ctx, e)
}

func (l *Logger) RegisterDuplicate(ctx context.Context, r *http.Request, username string) {
	e := fromRequest(r, audit.CategoryAuth, audit.EventRegisterDuplicate, false)
	e.FailureReason = "username taken"
	e.Details = map[string]string{"attempted_username": username}
	l.Log(ctx, e)
}

// PasswordHashUpgraded has no request: it fires from inside Authenticate.
func (l *Logger) PasswordHashUpgraded(ctx context.Context, userID primitive.ObjectID) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryAuth,
		EventType: audit.EventPasswordHashUpgraded,
		UserID:    &userID,
		Success:   true,
		Details:   map[string]string{"scheme": "bcrypt"},
	})
}

// --- Record Events ---

func (l *Logger) record(ctx context.Context, r *http.Request, eventType, actorID, kind string, id primitive.ObjectID, label string) {
	e := fromRequest(r, audit.CategoryAdmin, eventType, true)
	e.ActorID = hexID(actorID)
	e.Details = map[string]string{"kind": kind, "record_id": id.Hex()}
	if label != "" {
		e.Details["label"] = label
	}
	l.Log(ctx, e)
}

func (l *Logger) RecordCreated(ctx context.Context, r *http.Request, actorID, kind string, id primitive.ObjectID, label string) {
	l.record(ctx, r, audit.EventRecordCreated, actorID, kind, id, label)
}

func (l *Logger) RecordUpdated(ctx context.Context, r *http.Request, actorID, kind string, id primitive.ObjectID, label string) {
	l.record(ctx, r, audit.EventRecordUpdated, actorID, kind, id, label)
}

func (l *Logger) RecordDeleted(ctx context.Context, r *http.Request, actorID, kind string, id primitive.ObjectID, label string) {
	l.record(ctx, r, audit.EventRecordDeleted, actorID, kind, id, label)
}

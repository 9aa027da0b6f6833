// internal/app/store/audit/store.go
package audit

import (
	"context"
	"time"

	"github.com/dalemusser/reliefhub/internal/app/store/records"
	"github.com/dalemusser/reliefhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Event categories
const (
	CategoryAuth  = "auth"
	CategoryAdmin = "admin"
)

// Auth event types
const (
	EventLoginSuccess         = "login_success"
	EventLoginFailed          = "login_failed"
	EventLoginFailedRateLimit = "login_failed_rate_limit"
	EventLogout               = "logout"
	EventRegistered           = "registered"
	EventRegisterDuplicate    = "register_failed_duplicate"
	EventPasswordHashUpgraded = "password_hash_upgraded"
)

// Admin event types
const (
	EventRecordCreated = "record_created"
	EventRecordUpdated = "record_updated"
	EventRecordDeleted = "record_deleted"
)

// Event represents an audit event.
type Event struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Timestamp time.Time          `bson:"timestamp"`

	Category  string `bson:"category"`
	EventType string `bson:"event_type"`

	UserID  *primitive.ObjectID `bson:"user_id,omitempty"`  // affected account
	ActorID *primitive.ObjectID `bson:"actor_id,omitempty"` // who performed the action

	IP        string `bson:"ip"`
	UserAgent string `bson:"user_agent,omitempty"`
	RequestID string `bson:"request_id,omitempty"`

	Success       bool   `bson:"success"`
	FailureReason string `bson:"failure_reason,omitempty"`

	Details map[string]string `bson:"details,omitempty"`
}

// QueryFilter selects events by exact match on the set fields.
type QueryFilter struct {
	UserID    *primitive.ObjectID
	ActorID   *primitive.ObjectID
	Category  string
	EventType string
	Limit     int64
	Offset    int64
}

func (f QueryFilter) toFilter() records.Filter {
	q := records.Filter{}
	if f.UserID != nil {
		q["user_id"] = *f.UserID
	}
	if f.ActorID != nil {
		q["actor_id"] = *f.ActorID
	}
	if f.Category != "" {
		q["category"] = f.Category
	}
	if f.EventType != "" {
		q["event_type"] = f.EventType
	}
	return q
}

// Store manages audit event records.
type Store struct {
	recs records.Store
}

func New(recs records.Store) *Store {
	return &Store{recs: recs}
}

// Log records an audit event, filling in the id and timestamp.
func (s *Store) Log(ctx context.Context, event Event) error {
	if event.ID.IsZero() {
		event.ID = primitive.NewObjectID()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	_, err := s.recs.Insert(ctx, models.CollAuditEvents, event)
	return err
}

// Query returns matching events, newest first. Limit defaults to 100.
func (s *Store) Query(ctx context.Context, filter QueryFilter) ([]Event, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	var events []Event
	err := s.recs.List(ctx, models.CollAuditEvents, filter.toFilter(), records.ListOptions{
		SortField: "timestamp",
		SortDesc:  true,
		Skip:      filter.Offset,
		Limit:     limit,
	}, &events)
	if err != nil {
		return nil, err
	}
	return events, nil
}

func (s *Store) CountByFilter(ctx context.Context, filter QueryFilter) (int64, error) {
	return s.recs.Count(ctx, models.CollAuditEvents, filter.toFilter())
}

// GetByUser retrieves recent audit events for a specific account.
func (s *Store) GetByUser(ctx context.Context, userID primitive.ObjectID, limit int64) ([]Event, error) {
	return s.Query(ctx, QueryFilter{UserID: &userID, Limit: limit})
}

func (s *Store) GetRecent(ctx context.Context, limit int64) ([]Event, error) {
	return s.Query(ctx, QueryFilter{Limit: limit})
}

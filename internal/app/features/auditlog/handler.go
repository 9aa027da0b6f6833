// internal/app/features/auditlog/handler.go
//
// Package auditlog serves the admin view of recorded audit events.
package auditlog

import (
	uierrors "github.com/dalemusser/reliefhub/internal/app/features/errors"
	"github.com/dalemusser/reliefhub/internal/app/store/audit"
	userstore "github.com/dalemusser/reliefhub/internal/app/store/users"
	"go.uber.org/zap"
)

type Handler struct {
	Events *audit.Store
	Users  *userstore.Store
	Log    *zap.Logger
	ErrLog *uierrors.ErrorLogger
}

// NewHandler constructs the audit log handler. Users resolves actor and
// account ids to usernames.
func NewHandler(events *audit.Store, users *userstore.Store, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Events: events,
		Users:  users,
		Log:    logger,
		ErrLog: errLog,
	}
}

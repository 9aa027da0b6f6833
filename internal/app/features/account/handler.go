// internal/app/features/account/handler.go
//
// Package account serves the register and sign-in pages and hands a
// verified credential to the session.
package account

import (
	uierrors "github.com/dalemusser/reliefhub/internal/app/features/errors"
	userstore "github.com/dalemusser/reliefhub/internal/app/store/users"
	"github.com/dalemusser/reliefhub/internal/app/system/auditlog"
	"github.com/dalemusser/reliefhub/internal/app/system/auth"
	"github.com/dalemusser/reliefhub/internal/app/system/metrics"
	"github.com/dalemusser/reliefhub/internal/app/system/ratelimit"
	"go.uber.org/zap"
)

type Handler struct {
	Users      *userstore.Store
	SessionMgr *auth.SessionManager
	Limiter    *ratelimit.LoginLimiter
	Audit      *auditlog.Logger
	Metrics    *metrics.Metrics
	ErrLog     *uierrors.ErrorLogger
	Log        *zap.Logger
}

// NewHandler wires the account pages. limiter, audit and m may be nil.
func NewHandler(
	users *userstore.Store,
	sessionMgr *auth.SessionManager,
	limiter *ratelimit.LoginLimiter,
	audit *auditlog.Logger,
	m *metrics.Metrics,
	errLog *uierrors.ErrorLogger,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		Users:      users,
		SessionMgr: sessionMgr,
		Limiter:    limiter,
		Audit:      audit,
		Metrics:    m,
		ErrLog:     errLog,
		Log:        logger,
	}
}

// internal/app/system/ratelimit/login.go
package ratelimit

import (
	"context"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// LoginLimiter throttles sign-in attempts per client IP and per username.
// Backend errors are logged and the attempt is allowed.
type LoginLimiter struct {
	ip   Counter
	user Counter
	log  *zap.Logger
}

func NewLoginLimiter(ip, user Counter, log *zap.Logger) *LoginLimiter {
	if log == nil {
		log = zap.NewNop()
	}
	return &LoginLimiter{ip: ip, user: user, log: log}
}

// Check records an attempt. When it is blocked, reason is the message to show.
// A nil limiter allows everything.
func (ll *LoginLimiter) Check(r *http.Request, username string) (allowed bool, reason string) {
	if ll == nil {
		return true, ""
	}
	ctx := r.Context()
	if !ll.allow(ctx, ll.ip, "ip:"+ClientIP(r)) {
		return false, "Too many login attempts. Please wait before trying again."
	}
	if key := userKey(username); key != "" && !ll.allow(ctx, ll.user, "user:"+key) {
		return false, "Too many login attempts for this account. Please wait a few minutes."
	}
	return true, ""
}

// ResetUser clears the per-username counter after a successful sign-in.
func (ll *LoginLimiter) ResetUser(ctx context.Context, username string) {
	key := userKey(username)
	if ll == nil || key == "" {
		return
	}
	if err := ll.user.Reset(ctx, "user:"+key); err != nil {
		ll.log.Warn("rate limit reset failed", zap.Error(err))
	}
}

func (ll *LoginLimiter) allow(ctx context.Context, c Counter, key string) bool {
	ok, err := c.Allow(ctx, key)
	if err != nil {
		ll.log.Warn("rate limit backend error", zap.String("key", key), zap.Error(err))
		return true
	}
	return ok
}

func userKey(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

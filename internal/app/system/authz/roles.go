// internal/app/system/authz/roles.go
package authz

import (
	"net/http"
	"strings"

	"github.com/dalemusser/reliefhub/internal/domain/models"
)

// Role sets used by routes. AdminOnly guards destructive actions;
// VolunteerStaff may manage volunteers and task assignments.
var (
	AdminOnly      = []string{models.RoleAdmin}
	VolunteerStaff = []string{models.RoleAdmin, models.RoleVolunteer}
)

// HasAnyRole reports whether the current request's user has any of the given roles.
// Returns false if no user is present (i.e., not signed in).
func HasAnyRole(r *http.Request, roles ...string) bool {
	role, _, _, ok := UserCtx(r)
	if !ok {
		return false
	}
	for _, want := range roles {
		if role == strings.ToLower(strings.TrimSpace(want)) {
			return true
		}
	}
	return false
}

// HasRole is a convenience wrapper for a single role.
func HasRole(r *http.Request, role string) bool {
	return HasAnyRole(r, role)
}

// Role returns the current user's role (lowercased) and whether a user is present.
func Role(r *http.Request) (string, bool) {
	role, _, _, ok := UserCtx(r)
	return role, ok
}

// internal/app/system/authz/authz.go
package authz

import (
	"net/http"
	"strings"

	"github.com/dalemusser/skillmatch/internal/app/system/auth"
	"github.com/dalemusser/skillmatch/internal/domain/models"
)

// UserCtx returns the user's role (lowercased), name, backend uId, and a found flag.
// If no user is present in context or the id is empty, it returns
// "visitor", "", "", false so callers can trust ok=true means a usable session.
func UserCtx(r *http.Request) (role string, name string, userID string, ok bool) {
	user, ok := auth.CurrentUser(r)
	if !ok || strings.TrimSpace(user.ID) == "" {
		return "visitor", "", "", false
	}
	return strings.ToLower(user.Role), user.Name, user.ID, true
}

// HasAnyRole reports whether the signed-in user holds one of roles.
// Comparison ignores case and surrounding space.
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

// IsAdmin reports whether the current request's user is an admin.
func IsAdmin(r *http.Request) bool {
	role, _, _, ok := UserCtx(r)
	return ok && role == models.RoleAdmin
}

// IsAcademic reports whether the current request's user is academic staff.
func IsAcademic(r *http.Request) bool {
	role, _, _, ok := UserCtx(r)
	return ok && role == models.RoleAcademic
}

// IsStudent reports whether the current request's user is a student.
func IsStudent(r *http.Request) bool {
	role, _, _, ok := UserCtx(r)
	return ok && role == models.RoleStudent
}

// CanCreateProject reports whether the user may publish projects.
// Academics and admins can; students cannot.
func CanCreateProject(r *http.Request) bool {
	return HasAnyRole(r, models.RoleAcademic, models.RoleAdmin)
}

// CanJoinGroups reports whether the user takes part in project groups.
func CanJoinGroups(r *http.Request) bool {
	return IsStudent(r)
}

// CanEditGroup reports whether the user may edit g (its owner, or an admin).
func CanEditGroup(r *http.Request, g models.Group) bool {
	_, _, uid, ok := UserCtx(r)
	if !ok {
		return false
	}
	return g.OwnerID == uid || IsAdmin(r)
}

// CanEditProject reports whether the user may edit p (its owner, or an admin).
func CanEditProject(r *http.Request, p models.Project) bool {
	_, _, uid, ok := UserCtx(r)
	if !ok {
		return false
	}
	return p.OwnerID == uid || IsAdmin(r)
}

// CanManageUser reports whether the current admin may change or delete
// targetID. Admins cannot demote or delete themselves.
func CanManageUser(r *http.Request, targetID string) bool {
	_, _, uid, ok := UserCtx(r)
	return ok && IsAdmin(r) && targetID != "" && targetID != uid
}

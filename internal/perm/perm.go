package perm

import (
	"fmt"
	"strings"

	"docdesk/internal/actions"
	"docdesk/internal/model"
)

const (
	RoleAdmin  = "admin"
	RoleStaff  = "staff"
	RoleViewer = "viewer"

	StatusActive = "active"
)

type DeniedError struct {
	UserID string
	Role   string
	Action actions.Kind
}

func (e DeniedError) Error() string {
	return fmt.Sprintf("permission denied: %s (%s) cannot %s", e.UserID, e.Role, e.Action)
}

// CanApply enforces role rules for row actions.
//
// Rules:
// - A nil actor is the unrestricted local operator.
// - Users whose status is not active can do nothing.
// - Any active user can view and copy ids.
// - Staff and admins can edit, change status and release.
// - Only admins can delete.
func CanApply(actor *model.User, k actions.Kind) bool {
	if actor == nil {
		return true
	}
	if strings.TrimSpace(actor.Status) != StatusActive {
		return false
	}
	role := strings.TrimSpace(actor.Role)
	switch k {
	case actions.View, actions.CopyID:
		return true
	case actions.Edit, actions.ChangeStatus, actions.Release:
		return role == RoleStaff || role == RoleAdmin
	case actions.Delete:
		return role == RoleAdmin
	default:
		return false
	}
}

// Check is CanApply returning a DeniedError.
func Check(actor *model.User, k actions.Kind) error {
	if CanApply(actor, k) {
		return nil
	}
	return DeniedError{UserID: actor.ID, Role: actor.Role, Action: k}
}

// Allowed filters kinds down to what actor may do. Menus use it to hide actions.
func Allowed(actor *model.User, kinds []actions.Kind) []actions.Kind {
	out := make([]actions.Kind, 0, len(kinds))
	for _, k := range kinds {
		if CanApply(actor, k) {
			out = append(out, k)
		}
	}
	return out
}

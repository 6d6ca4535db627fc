package application

import "github.com/example/campus-reservations/internal/booking"

// Action identifies an operation gated by the authorization policy.
type Action string

const (
	// ActionCreateReservation covers submitting a reservation request.
	ActionCreateReservation Action = "create"
	// ActionApproveReservation covers approving a pending reservation.
	ActionApproveReservation Action = "approve"
	// ActionRejectReservation covers rejecting a pending reservation.
	ActionRejectReservation Action = "reject"
	// ActionCancelReservation covers withdrawing a pending reservation.
	ActionCancelReservation Action = "cancel"
	// ActionEditRoom covers creating, updating, and deleting rooms.
	ActionEditRoom Action = "edit_room"
	// ActionEditSlot covers seeding the slot template registry.
	ActionEditSlot Action = "edit_slot"
	// ActionEditUser covers creating and updating user accounts.
	ActionEditUser Action = "edit_user"
	// ActionDeleteUser covers removing user accounts.
	ActionDeleteUser Action = "delete_user"
	// ActionListUsers covers enumerating user accounts.
	ActionListUsers Action = "list_users"
)

// Allow is the authorization policy: a pure function of role, action, and
// ownership. Every mutating service method consults it before any business
// validation runs. Cancellation is owner-only for every role; there is no
// administrative override.
func Allow(role booking.Role, action Action, isOwner bool) bool {
	switch action {
	case ActionCreateReservation:
		return role == booking.RoleTeacher || role == booking.RoleAdministrator
	case ActionApproveReservation, ActionRejectReservation:
		return role == booking.RoleAdministrator
	case ActionCancelReservation:
		return isOwner && (role == booking.RoleTeacher || role == booking.RoleAdministrator)
	case ActionEditRoom, ActionEditSlot, ActionEditUser, ActionDeleteUser, ActionListUsers:
		return role == booking.RoleAdministrator
	}
	return false
}

package common

import (
	"eventplanning/src/types"
)

type Action string

const (
	ActionManageEvent       Action = "event:manage"
	ActionManageTicketTypes Action = "event:ticket-types"
	ActionManageTasks       Action = "event:tasks"
	ActionViewBooking       Action = "booking:view"
	ActionModifyBooking     Action = "booking:modify"
	ActionListAllBookings   Action = "booking:list-all"
	ActionReviewPayment     Action = "payment:review"
	ActionViewSummary       Action = "payment:summary"
	ActionManageVendor      Action = "vendor:manage"
	ActionApproveResource   Action = "resource:approve"
	ActionManageReview      Action = "review:manage"
	ActionManageUsers       Action = "user:manage"
	ActionBroadcast         Action = "notification:admin"
	ActionAdminDeleteEvent  Action = "event:admin-delete"
)

// Allowed is the single authorization policy: admins may do anything,
// ownership-scoped actions require the caller to own the resource, and the
// remaining actions are admin-only. ownerID is the owning user of the
// resource being acted on (zero when the action has no owner).
func Allowed(p types.Principal, action Action, ownerID uint) bool {
	if p.Role == types.ROLE_ADMIN {
		return true
	}
	switch action {
	case ActionManageEvent,
		ActionManageTicketTypes,
		ActionManageTasks,
		ActionViewBooking,
		ActionModifyBooking,
		ActionManageVendor,
		ActionManageReview:
		return p.ID == ownerID
	case ActionManageUsers:
		// self-service profile access only
		return p.ID == ownerID
	default:
		// list-all, payment review, summary, approvals, broadcast,
		// admin delete
		return false
	}
}

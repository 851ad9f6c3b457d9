// Package policy decides what an authenticated caller may do. Roles
// are capability sets, not an inheritance chain: each role is granted
// its actions explicitly.
package policy

import (
	"bloodaid/pkg/types"
)

type Action string

const (
	ActionCreateRequest   Action = "request:create"
	ActionListAllRequests Action = "request:list_all"
	ActionListAccounts    Action = "account:list"
	ActionManageAccounts  Action = "account:manage"
	ActionManageFunds     Action = "fund:manage"
	ActionViewStats       Action = "stats:view"
)

var capabilities = map[types.Role]map[Action]bool{
	types.RoleDonor: {
		ActionCreateRequest: true,
	},
	types.RoleVolunteer: {
		ActionListAllRequests: true,
		ActionListAccounts:    true,
		ActionViewStats:       true,
	},
	types.RoleAdmin: {
		ActionCreateRequest:   true,
		ActionListAllRequests: true,
		ActionListAccounts:    true,
		ActionManageAccounts:  true,
		ActionManageFunds:     true,
		ActionViewStats:       true,
	},
}

// Allows reports whether the role carries the capability. It is a
// pure function of its inputs.
func Allows(role types.Role, action Action) bool {
	return capabilities[role][action]
}

// Authorize returns ErrForbidden when the role lacks the capability.
func Authorize(role types.Role, action Action) error {
	if !Allows(role, action) {
		return types.ErrForbidden
	}
	return nil
}

// AuthorizeCreateRequest gates request creation: any account may
// request blood, but only while active.
func AuthorizeCreateRequest(caller *types.Account) error {
	if caller.Status != types.AccountStatusActive {
		return types.ErrBlockedAccount
	}
	return nil
}

// AuthorizeRequestRead allows the owner plus anyone who can list all
// requests.
func AuthorizeRequestRead(caller *types.Account, request *types.DonationRequest) error {
	if caller.Email == request.RequesterEmail {
		return nil
	}
	return Authorize(caller.Role, ActionListAllRequests)
}

// AuthorizeRequestMutation gates general field updates and deletes:
// owner or admin.
func AuthorizeRequestMutation(caller *types.Account, request *types.DonationRequest) error {
	if caller.Email == request.RequesterEmail {
		return nil
	}
	if caller.Role == types.RoleAdmin {
		return nil
	}
	return types.ErrForbidden
}

// AuthorizeRoleChange enforces that only an admin changes roles, and
// never their own.
func AuthorizeRoleChange(caller *types.Account, targetEmail string) error {
	if caller.Role != types.RoleAdmin {
		return types.ErrForbidden
	}
	if caller.Email == targetEmail {
		return types.ErrForbidden
	}
	return nil
}

// AuthorizeStatusChange enforces that only an admin blocks or
// unblocks accounts.
func AuthorizeStatusChange(caller *types.Account) error {
	if caller.Role != types.RoleAdmin {
		return types.ErrForbidden
	}
	return nil
}

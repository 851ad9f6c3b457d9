package policy

import (
	"bloodaid/pkg/types"
)

// Transition validates a status change against the lifecycle table.
//
//	pending    -> inprogress       admin only
//	inprogress -> done | canceled  admin, volunteer, or the owning donor
//	done | canceled                terminal
//
// Structural validity is checked before the caller gate, so an
// impossible pair reports ErrInvalidTransition even for an admin. The
// caller applies the change only when this returns nil.
func Transition(caller *types.Account, request *types.DonationRequest, to types.RequestStatus) error {
	if !to.Valid() {
		return types.ErrInvalidInput
	}

	from := request.Status
	if from.Terminal() {
		return types.ErrInvalidTransition
	}

	switch {
	case from == types.RequestStatusPending && to == types.RequestStatusInprogress:
		if caller.Role != types.RoleAdmin {
			return types.ErrForbidden
		}

	case from == types.RequestStatusInprogress &&
		(to == types.RequestStatusDone || to == types.RequestStatusCanceled):
		switch caller.Role {
		case types.RoleAdmin, types.RoleVolunteer:
		case types.RoleDonor:
			if caller.Email != request.RequesterEmail {
				return types.ErrForbidden
			}
		default:
			return types.ErrForbidden
		}

	default:
		return types.ErrInvalidTransition
	}

	return nil
}

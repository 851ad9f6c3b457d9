package policy

import (
	"errors"
	"testing"

	"bloodaid/pkg/types"
)

func request(owner string, status types.RequestStatus) *types.DonationRequest {
	return &types.DonationRequest{ID: "r1", RequesterEmail: owner, Status: status}
}

func TestTransition_PendingToInprogress(t *testing.T) {
	admin := account("admin@x.com", types.RoleAdmin, types.AccountStatusActive)
	volunteer := account("vol@x.com", types.RoleVolunteer, types.AccountStatusActive)
	owner := account("owner@x.com", types.RoleDonor, types.AccountStatusActive)

	if err := Transition(admin, request("owner@x.com", types.RequestStatusPending), types.RequestStatusInprogress); err != nil {
		t.Fatalf("admin pending->inprogress: got %v", err)
	}

	if err := Transition(volunteer, request("owner@x.com", types.RequestStatusPending), types.RequestStatusInprogress); !errors.Is(err, types.ErrForbidden) {
		t.Fatalf("volunteer pending->inprogress: got %v, want ErrForbidden", err)
	}

	if err := Transition(owner, request("owner@x.com", types.RequestStatusPending), types.RequestStatusInprogress); !errors.Is(err, types.ErrForbidden) {
		t.Fatalf("owner pending->inprogress: got %v, want ErrForbidden", err)
	}
}

func TestTransition_PendingToAnythingElseRejected(t *testing.T) {
	admin := account("admin@x.com", types.RoleAdmin, types.AccountStatusActive)

	for _, to := range []types.RequestStatus{types.RequestStatusDone, types.RequestStatusCanceled, types.RequestStatusPending} {
		err := Transition(admin, request("owner@x.com", types.RequestStatusPending), to)
		if !errors.Is(err, types.ErrInvalidTransition) {
			t.Errorf("pending->%s: got %v, want ErrInvalidTransition", to, err)
		}
	}
}

func TestTransition_InprogressFinishers(t *testing.T) {
	admin := account("admin@x.com", types.RoleAdmin, types.AccountStatusActive)
	volunteer := account("vol@x.com", types.RoleVolunteer, types.AccountStatusActive)
	owner := account("owner@x.com", types.RoleDonor, types.AccountStatusActive)
	stranger := account("other@x.com", types.RoleDonor, types.AccountStatusActive)

	for _, to := range []types.RequestStatus{types.RequestStatusDone, types.RequestStatusCanceled} {
		if err := Transition(admin, request("owner@x.com", types.RequestStatusInprogress), to); err != nil {
			t.Errorf("admin inprogress->%s: got %v", to, err)
		}
		if err := Transition(volunteer, request("owner@x.com", types.RequestStatusInprogress), to); err != nil {
			t.Errorf("volunteer inprogress->%s: got %v", to, err)
		}
		if err := Transition(owner, request("owner@x.com", types.RequestStatusInprogress), to); err != nil {
			t.Errorf("owner inprogress->%s: got %v", to, err)
		}
		if err := Transition(stranger, request("owner@x.com", types.RequestStatusInprogress), to); !errors.Is(err, types.ErrForbidden) {
			t.Errorf("stranger inprogress->%s: got %v, want ErrForbidden", to, err)
		}
	}
}

func TestTransition_TerminalStatesRejectEverything(t *testing.T) {
	admin := account("admin@x.com", types.RoleAdmin, types.AccountStatusActive)

	for _, from := range []types.RequestStatus{types.RequestStatusDone, types.RequestStatusCanceled} {
		for _, to := range []types.RequestStatus{types.RequestStatusPending, types.RequestStatusInprogress, types.RequestStatusDone, types.RequestStatusCanceled} {
			err := Transition(admin, request("owner@x.com", from), to)
			if !errors.Is(err, types.ErrInvalidTransition) {
				t.Errorf("%s->%s: got %v, want ErrInvalidTransition", from, to, err)
			}
		}
	}
}

func TestTransition_RejectsUnknownStatus(t *testing.T) {
	admin := account("admin@x.com", types.RoleAdmin, types.AccountStatusActive)

	err := Transition(admin, request("owner@x.com", types.RequestStatusPending), types.RequestStatus("archived"))
	if !errors.Is(err, types.ErrInvalidInput) {
		t.Fatalf("unknown target status: got %v, want ErrInvalidInput", err)
	}
}

func TestTransition_InprogressBackToPendingRejected(t *testing.T) {
	admin := account("admin@x.com", types.RoleAdmin, types.AccountStatusActive)

	err := Transition(admin, request("owner@x.com", types.RequestStatusInprogress), types.RequestStatusPending)
	if !errors.Is(err, types.ErrInvalidTransition) {
		t.Fatalf("inprogress->pending: got %v, want ErrInvalidTransition", err)
	}
}

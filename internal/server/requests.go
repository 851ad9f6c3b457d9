package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"bloodaid/internal/policy"
	"bloodaid/pkg/types"

	"github.com/alexedwards/flow"
)

type createRequestPayload struct {
	RecipientName     string  `json:"recipientName"`
	RecipientDistrict string  `json:"recipientDistrict"`
	RecipientUpazila  string  `json:"recipientUpazila"`
	Hospital          string  `json:"hospital"`
	Address           string  `json:"address"`
	BloodGroup        string  `json:"bloodGroup"`
	DonationDate      string  `json:"donationDate"`
	DonationTime      string  `json:"donationTime"`
	Message           *string `json:"message"`
}

func (p *createRequestPayload) validate() error {
	switch {
	case strings.TrimSpace(p.RecipientName) == "":
		return types.InvalidInput("recipientName is required")
	case strings.TrimSpace(p.BloodGroup) == "":
		return types.InvalidInput("bloodGroup is required")
	case strings.TrimSpace(p.DonationDate) == "":
		return types.InvalidInput("donationDate is required")
	case strings.TrimSpace(p.Hospital) == "":
		return types.InvalidInput("hospital is required")
	}
	return nil
}

// handleCreateRequest creates a donation request owned by the caller.
// Blocked accounts are rejected before anything is written.
func (s *Service) handleCreateRequest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	caller, err := s.caller(r)
	if err != nil {
		s.respondError(w, err)
		return
	}

	if err := policy.AuthorizeCreateRequest(caller); err != nil {
		s.respondError(w, err)
		return
	}

	var payload createRequestPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		s.respondError(w, types.InvalidInput("invalid payload"))
		return
	}

	if err := payload.validate(); err != nil {
		s.respondError(w, err)
		return
	}

	request := &types.DonationRequest{
		RequesterEmail:    caller.Email,
		RequesterName:     caller.Name,
		RecipientName:     payload.RecipientName,
		RecipientDistrict: payload.RecipientDistrict,
		RecipientUpazila:  payload.RecipientUpazila,
		Hospital:          payload.Hospital,
		Address:           payload.Address,
		BloodGroup:        payload.BloodGroup,
		DonationDate:      payload.DonationDate,
		DonationTime:      payload.DonationTime,
		Message:           payload.Message,
	}

	if err := s.requests.Create(ctx, request); err != nil {
		s.logger.WithError(err).WithField("email", caller.Email).Error("failed to create donation request")
		s.respondError(w, err)
		return
	}

	s.respondJSON(w, http.StatusCreated, request)
}

// handleListRequests scopes the listing by role: donors see their
// own requests, volunteers and admins see everything.
func (s *Service) handleListRequests(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	caller, err := s.caller(r)
	if err != nil {
		s.respondError(w, err)
		return
	}

	var statusFilter *types.RequestStatus
	if raw := r.URL.Query().Get("status"); raw != "" {
		status := types.RequestStatus(raw)
		if !status.Valid() {
			s.respondError(w, types.InvalidInput("unknown status filter"))
			return
		}
		statusFilter = &status
	}

	var requests []*types.DonationRequest
	if policy.Allows(caller.Role, policy.ActionListAllRequests) {
		requests, err = s.requests.Requests(ctx, statusFilter)
	} else {
		requests, err = s.requests.RequestsByOwner(ctx, caller.Email, statusFilter)
	}
	if err != nil {
		s.logger.WithError(err).Error("failed to list donation requests")
		s.respondError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, requests)
}

func (s *Service) handleGetRequest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	caller, err := s.caller(r)
	if err != nil {
		s.respondError(w, err)
		return
	}

	request, err := s.requests.Request(ctx, flow.Param(ctx, "id"))
	if err != nil {
		s.respondError(w, err)
		return
	}

	if err := policy.AuthorizeRequestRead(caller, request); err != nil {
		s.respondError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, request)
}

// handleUpdateRequest applies a general field update. The payload
// type only carries mutable fields, so requester identity, status,
// and anything else structurally immutable is silently dropped.
func (s *Service) handleUpdateRequest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	caller, err := s.caller(r)
	if err != nil {
		s.respondError(w, err)
		return
	}

	request, err := s.requests.Request(ctx, flow.Param(ctx, "id"))
	if err != nil {
		s.respondError(w, err)
		return
	}

	if err := policy.AuthorizeRequestMutation(caller, request); err != nil {
		s.respondError(w, err)
		return
	}

	var update types.DonationRequestUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		s.respondError(w, types.InvalidInput("invalid payload"))
		return
	}

	if update.Empty() {
		s.respondJSON(w, http.StatusOK, request)
		return
	}

	update.Apply(request)

	if err := s.requests.UpdateFields(ctx, request.ID, request); err != nil {
		s.logger.WithError(err).WithField("request_id", request.ID).Error("failed to update donation request")
		s.respondError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, request)
}

func (s *Service) handleDeleteRequest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	caller, err := s.caller(r)
	if err != nil {
		s.respondError(w, err)
		return
	}

	request, err := s.requests.Request(ctx, flow.Param(ctx, "id"))
	if err != nil {
		s.respondError(w, err)
		return
	}

	if err := policy.AuthorizeRequestMutation(caller, request); err != nil {
		s.respondError(w, err)
		return
	}

	if err := s.requests.Delete(ctx, request.ID); err != nil {
		s.logger.WithError(err).WithField("request_id", request.ID).Error("failed to delete donation request")
		s.respondError(w, err)
		return
	}

	s.respondJSON(w, http.StatusNoContent, nil)
}

type transitionPayload struct {
	Status types.RequestStatus `json:"status"`
}

// handleTransitionRequest moves a request through the lifecycle
// table. All violations are detected before the store is touched.
func (s *Service) handleTransitionRequest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	caller, err := s.caller(r)
	if err != nil {
		s.respondError(w, err)
		return
	}

	request, err := s.requests.Request(ctx, flow.Param(ctx, "id"))
	if err != nil {
		s.respondError(w, err)
		return
	}

	var payload transitionPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		s.respondError(w, types.InvalidInput("invalid payload"))
		return
	}

	if err := policy.Transition(caller, request, payload.Status); err != nil {
		s.respondError(w, err)
		return
	}

	if err := s.requests.UpdateStatus(ctx, request.ID, payload.Status); err != nil {
		s.logger.WithError(err).WithField("request_id", request.ID).Error("failed to transition donation request")
		s.respondError(w, err)
		return
	}

	request.Status = payload.Status

	s.respondJSON(w, http.StatusOK, request)
}

type statsResponse struct {
	Accounts   map[types.Role]int64 `json:"accounts"`
	Requests   *types.RequestCounts `json:"requests"`
	FundsCents int64                `json:"fundsCents"`
}

func (s *Service) handleStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	caller, err := s.caller(r)
	if err != nil {
		s.respondError(w, err)
		return
	}

	if err := policy.Authorize(caller.Role, policy.ActionViewStats); err != nil {
		s.respondError(w, err)
		return
	}

	accountCounts, err := s.accounts.CountByRole(ctx)
	if err != nil {
		s.respondError(w, err)
		return
	}

	requestCounts, err := s.requests.CountsByStatus(ctx)
	if err != nil {
		s.respondError(w, err)
		return
	}

	total, err := s.funds.TotalCents(ctx)
	if err != nil {
		s.respondError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, statsResponse{
		Accounts:   accountCounts,
		Requests:   requestCounts,
		FundsCents: total,
	})
}

package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"path"
	"strings"

	"bloodaid/internal/policy"
	"bloodaid/internal/utils"
	"bloodaid/pkg/types"

	"github.com/alexedwards/flow"
)

type upsertAccountPayload struct {
	Name       string  `json:"name"`
	PhotoURL   *string `json:"photoUrl"`
	BloodGroup *string `json:"bloodGroup"`
	District   *string `json:"district"`
	Upazila    *string `json:"upazila"`
	Phone      *string `json:"phone"`
}

// handleUpsertAccount records a sign-in. First sign-in creates the
// account as an active donor; later ones refresh profile fields and
// lastLogin only.
func (s *Service) handleUpsertAccount(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	email, _ := ctx.Value(contextKeyEmail).(string)

	var payload upsertAccountPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		s.respondError(w, types.InvalidInput("invalid payload"))
		return
	}

	if strings.TrimSpace(payload.Name) == "" {
		s.respondError(w, types.InvalidInput("name is required"))
		return
	}

	account := &types.Account{
		Email:      email,
		Name:       strings.TrimSpace(payload.Name),
		PhotoURL:   payload.PhotoURL,
		BloodGroup: payload.BloodGroup,
		District:   payload.District,
		Upazila:    payload.Upazila,
		Phone:      payload.Phone,
	}

	if err := s.accounts.UpsertOnLogin(ctx, account); err != nil {
		s.logger.WithError(err).WithField("email", email).Error("failed to upsert account")
		s.respondError(w, err)
		return
	}

	stored, err := s.accounts.Account(ctx, email)
	if err != nil {
		s.respondError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, stored)
}

func (s *Service) handleMe(w http.ResponseWriter, r *http.Request) {
	account, err := s.caller(r)
	if err != nil {
		s.respondError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, account)
}

// handleUpdateProfile applies a self-service profile update. Role,
// status, and email are not part of the payload type, so they are
// dropped rather than rejected.
func (s *Service) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	account, err := s.caller(r)
	if err != nil {
		s.respondError(w, err)
		return
	}

	var update types.AccountProfileUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		s.respondError(w, types.InvalidInput("invalid payload"))
		return
	}

	update.Apply(account)

	if err := s.accounts.UpdateProfile(ctx, account.Email, account); err != nil {
		s.logger.WithError(err).WithField("email", account.Email).Error("failed to update profile")
		s.respondError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, account)
}

func (s *Service) handleUploadAvatar(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	account, err := s.caller(r)
	if err != nil {
		s.respondError(w, err)
		return
	}

	if err := r.ParseMultipartForm(5 << 20); err != nil {
		s.respondError(w, types.InvalidInput("invalid multipart form"))
		return
	}

	file, header, err := r.FormFile("avatar")
	if err != nil {
		s.respondError(w, types.InvalidInput("avatar file is required"))
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	key := fmt.Sprintf("avatars/%s%s", utils.NanoID(), path.Ext(header.Filename))

	photoURL, err := s.avatars.Upload(ctx, key, file, contentType)
	if err != nil {
		s.logger.WithError(err).WithField("email", account.Email).Error("failed to upload avatar")
		s.respondError(w, err)
		return
	}

	if err := s.accounts.SetPhotoURL(ctx, account.Email, photoURL); err != nil {
		s.respondError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]string{"photoUrl": photoURL})
}

// handleListAccounts serves the account listing with a projection
// matching the caller's role: admins see full records, volunteers a
// reduced set.
func (s *Service) handleListAccounts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	caller, err := s.caller(r)
	if err != nil {
		s.respondError(w, err)
		return
	}

	if err := policy.Authorize(caller.Role, policy.ActionListAccounts); err != nil {
		s.respondError(w, err)
		return
	}

	accounts, err := s.accounts.Accounts(ctx)
	if err != nil {
		s.logger.WithError(err).Error("failed to list accounts")
		s.respondError(w, err)
		return
	}

	if caller.Role == types.RoleAdmin {
		s.respondJSON(w, http.StatusOK, accounts)
		return
	}

	summaries := make([]types.AccountSummary, 0, len(accounts))
	for _, account := range accounts {
		summaries = append(summaries, account.Summary())
	}

	s.respondJSON(w, http.StatusOK, summaries)
}

func (s *Service) handleAdminListAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := s.accounts.Accounts(r.Context())
	if err != nil {
		s.logger.WithError(err).Error("failed to list accounts")
		s.respondError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, accounts)
}

type updateRolePayload struct {
	Role types.Role `json:"role"`
}

func (s *Service) handleUpdateAccountRole(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	targetEmail := strings.ToLower(flow.Param(ctx, "email"))

	caller, err := s.caller(r)
	if err != nil {
		s.respondError(w, err)
		return
	}

	var payload updateRolePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		s.respondError(w, types.InvalidInput("invalid payload"))
		return
	}

	if !payload.Role.Valid() {
		s.respondError(w, types.InvalidInput("unknown role"))
		return
	}

	if err := policy.AuthorizeRoleChange(caller, targetEmail); err != nil {
		s.respondError(w, err)
		return
	}

	if err := s.accounts.UpdateRole(ctx, targetEmail, payload.Role); err != nil {
		s.respondError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]any{"email": targetEmail, "role": payload.Role})
}

type updateStatusPayload struct {
	Status types.AccountStatus `json:"status"`
}

func (s *Service) handleUpdateAccountStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	targetEmail := strings.ToLower(flow.Param(ctx, "email"))

	caller, err := s.caller(r)
	if err != nil {
		s.respondError(w, err)
		return
	}

	var payload updateStatusPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		s.respondError(w, types.InvalidInput("invalid payload"))
		return
	}

	if !payload.Status.Valid() {
		s.respondError(w, types.InvalidInput("unknown status"))
		return
	}

	if err := policy.AuthorizeStatusChange(caller); err != nil {
		s.respondError(w, err)
		return
	}

	if err := s.accounts.UpdateStatus(ctx, targetEmail, payload.Status); err != nil {
		s.respondError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]any{"email": targetEmail, "status": payload.Status})
}

package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"bloodaid/pkg/types"
)

type checkoutPayload struct {
	AmountCents int64  `json:"amountCents"`
	Label       string `json:"label"`
}

func (s *Service) handleCreateCheckout(w http.ResponseWriter, r *http.Request) {
	var payload checkoutPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		s.respondError(w, types.InvalidInput("invalid payload"))
		return
	}

	if payload.AmountCents <= 0 {
		s.respondError(w, types.InvalidInput("amountCents must be positive"))
		return
	}

	label := strings.TrimSpace(payload.Label)
	if label == "" {
		label = "BloodAid contribution"
	}

	session, err := s.gateway.CreateCheckoutSession(r.Context(), payload.AmountCents, label)
	if err != nil {
		s.logger.WithError(err).Error("failed to create checkout session")
		s.respondError(w, err)
		return
	}

	s.respondJSON(w, http.StatusCreated, map[string]string{
		"sessionId": session.ID,
		"url":       session.URL,
	})
}

type confirmPayload struct {
	SessionID string `json:"sessionId"`
}

// handleConfirmCheckout records a settled checkout session exactly
// once. Confirming the same session again returns the existing record
// without inserting a duplicate.
func (s *Service) handleConfirmCheckout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var payload confirmPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		s.respondError(w, types.InvalidInput("invalid payload"))
		return
	}

	sessionID := strings.TrimSpace(payload.SessionID)
	if sessionID == "" {
		s.respondError(w, types.InvalidInput("sessionId is required"))
		return
	}

	existing, err := s.funds.FundBySessionID(ctx, sessionID)
	if err == nil {
		s.respondJSON(w, http.StatusOK, existing)
		return
	}
	if !errors.Is(err, types.ErrFundNotFound) {
		s.logger.WithError(err).WithField("session_id", sessionID).Error("failed to look up fund record")
		s.respondError(w, err)
		return
	}

	session, err := s.gateway.RetrieveSession(ctx, sessionID)
	if err != nil {
		s.logger.WithError(err).WithField("session_id", sessionID).Error("failed to retrieve checkout session")
		s.respondError(w, err)
		return
	}

	if !session.Paid() {
		s.respondError(w, types.InvalidInput("session is not paid"))
		return
	}

	name := strings.TrimSpace(session.PayerName)
	if name == "" {
		name = "Anonymous"
	}

	fund := &types.FundRecord{
		Name:        name,
		AmountCents: session.AmountCents,
		SessionID:   &sessionID,
	}
	if email := strings.TrimSpace(session.PayerEmail); email != "" {
		lowered := strings.ToLower(email)
		fund.Email = &lowered
	}

	if err := s.funds.Create(ctx, fund); err != nil {
		s.logger.WithError(err).WithField("session_id", sessionID).Error("failed to record fund")
		s.respondError(w, err)
		return
	}

	s.respondJSON(w, http.StatusCreated, fund)
}

type createFundPayload struct {
	Name        string  `json:"name"`
	Email       *string `json:"email"`
	AmountCents int64   `json:"amountCents"`
}

// handleCreateFund records a contribution made outside the payment
// provider.
func (s *Service) handleCreateFund(w http.ResponseWriter, r *http.Request) {
	var payload createFundPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		s.respondError(w, types.InvalidInput("invalid payload"))
		return
	}

	if strings.TrimSpace(payload.Name) == "" {
		s.respondError(w, types.InvalidInput("name is required"))
		return
	}

	if payload.AmountCents <= 0 {
		s.respondError(w, types.InvalidInput("amountCents must be positive"))
		return
	}

	fund := &types.FundRecord{
		Name:        strings.TrimSpace(payload.Name),
		Email:       payload.Email,
		AmountCents: payload.AmountCents,
	}

	if err := s.funds.Create(r.Context(), fund); err != nil {
		s.logger.WithError(err).Error("failed to record fund")
		s.respondError(w, err)
		return
	}

	s.respondJSON(w, http.StatusCreated, fund)
}

func (s *Service) handleListFunds(w http.ResponseWriter, r *http.Request) {
	funds, err := s.funds.Funds(r.Context())
	if err != nil {
		s.logger.WithError(err).Error("failed to list funds")
		s.respondError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, funds)
}

func (s *Service) handleFundTotal(w http.ResponseWriter, r *http.Request) {
	total, err := s.funds.TotalCents(r.Context())
	if err != nil {
		s.logger.WithError(err).Error("failed to aggregate fund total")
		s.respondError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]int64{"totalCents": total})
}

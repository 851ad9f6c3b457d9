package server

import (
	"net/http"

	"bloodaid/pkg/types"
)

// handleDonorSearch is the public donor listing: active donors only,
// public projection, optional blood group / district / upazila
// filters.
func (s *Service) handleDonorSearch(w http.ResponseWriter, r *http.Request) {
	var search types.DonorSearch
	if err := queryDecoder.Decode(&search, r.URL.Query()); err != nil {
		s.respondError(w, types.InvalidInput("invalid search filters"))
		return
	}

	donors, err := s.accounts.ActiveDonors(r.Context(), search)
	if err != nil {
		s.logger.WithError(err).Error("failed to search donors")
		s.respondError(w, err)
		return
	}

	public := make([]types.PublicDonor, 0, len(donors))
	for _, donor := range donors {
		public = append(public, donor.PublicDonor())
	}

	s.respondJSON(w, http.StatusOK, public)
}

/* admin_handlers.go
 * Contains the admin HTTP handlers. The API rejects callers that are not in the admin set
 * Authors: Zachary Bower
 */

package web

import (
	"context"
	"hackathon-engine/api/shared"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// ListTeams lists every team, or only those with the status given in the status query parameter
func (s *Server) ListTeams(w http.ResponseWriter, r *http.Request) {
	callerID := principalFrom(r.Context()).ID
	var (
		teams []shared.Team
		err   error
	)
	if raw := r.URL.Query().Get("status"); raw != "" {
		status, parseErr := shared.ParseStatus(raw)
		if parseErr != nil {
			s.writeError(w, r, shared.ValidationError(parseErr.Error()))
			return
		}
		teams, err = s.api.ListTeamsByStatus(r.Context(), callerID, status)
	} else {
		teams, err = s.api.ListTeams(r.Context(), callerID)
	}
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, teams)
}

// ApprovePayment moves a team from pending_payment to registered
func (s *Server) ApprovePayment(w http.ResponseWriter, r *http.Request) {
	s.moderate(w, r, s.api.ApprovePayment)
}

// Advance moves a team to the next round
func (s *Server) Advance(w http.ResponseWriter, r *http.Request) {
	s.moderate(w, r, s.api.Advance)
}

// Eliminate removes a team from the competition
func (s *Server) Eliminate(w http.ResponseWriter, r *http.Request) {
	s.moderate(w, r, s.api.Eliminate)
}

func (s *Server) moderate(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, callerID string, teamID string) (shared.Team, error)) {
	team, err := op(r.Context(), principalFrom(r.Context()).ID, chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, team)
}

// TeamSubmissions returns every ledger entry of a team for review
func (s *Server) TeamSubmissions(w http.ResponseWriter, r *http.Request) {
	subs, err := s.api.TeamSubmissions(r.Context(), principalFrom(r.Context()).ID, chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, subs)
}

// SetRoundConfig replaces a round's questions, answer key, coding prompt and schedule
func (s *Server) SetRoundConfig(w http.ResponseWriter, r *http.Request) {
	round, err := roundParam(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var cfg shared.RoundConfig
	if err := decodeJSON(w, r, &cfg); err != nil {
		s.writeError(w, r, err)
		return
	}
	cfg.Round = round

	stored, err := s.api.SetRoundConfig(r.Context(), principalFrom(r.Context()).ID, cfg)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stored)
}

/* handlers.go
 * Contains the participant HTTP handlers. Each handler decodes its input, calls the API as the request principal
 * and encodes the result, all rules are enforced by the API
 * Authors: Zachary Bower
 */

package web

import (
	"fmt"
	"hackathon-engine/api/shared"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// Register creates the caller's account. The email is read from the body, falling back to the X-Principal-Email
// header
func (s *Server) Register(w http.ResponseWriter, r *http.Request) {
	p := principalFrom(r.Context())
	var req registerRequest
	if r.ContentLength != 0 {
		if err := decodeJSON(w, r, &req); err != nil {
			s.writeError(w, r, err)
			return
		}
	}
	if req.Email == "" {
		req.Email = p.Email
	}

	account, err := s.api.EnsureAccount(r.Context(), p.ID, req.Email)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, account)
}

// Me returns the caller's account
func (s *Server) Me(w http.ResponseWriter, r *http.Request) {
	account, err := s.api.GetAccount(r.Context(), principalFrom(r.Context()).ID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, account)
}

// MyTeam returns the team the caller is on
func (s *Server) MyTeam(w http.ResponseWriter, r *http.Request) {
	team, err := s.api.MyTeam(r.Context(), principalFrom(r.Context()).ID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, team)
}

// CreateTeam creates a team led by the caller
func (s *Server) CreateTeam(w http.ResponseWriter, r *http.Request) {
	var req createTeamRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	team, err := s.api.CreateTeam(r.Context(), principalFrom(r.Context()).ID, req.Name)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, team)
}

// GetTeam returns a team. Only its members and admins may read it
func (s *Server) GetTeam(w http.ResponseWriter, r *http.Request) {
	p := principalFrom(r.Context())
	team, err := s.api.GetTeam(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if !team.HasMember(p.ID) && !s.api.IsAdmin(p.ID) {
		s.writeError(w, r, shared.PermissionError("only team members can view the team"))
		return
	}
	writeJSON(w, http.StatusOK, team)
}

// InviteMember adds the account with the given email to the team
func (s *Server) InviteMember(w http.ResponseWriter, r *http.Request) {
	var req inviteRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	team, err := s.api.InviteMember(r.Context(), principalFrom(r.Context()).ID, chi.URLParam(r, "id"), req.Email)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, team)
}

// RemoveMember removes a member from the team
func (s *Server) RemoveMember(w http.ResponseWriter, r *http.Request) {
	team, err := s.api.RemoveMember(r.Context(), principalFrom(r.Context()).ID, chi.URLParam(r, "id"), chi.URLParam(r, "principalID"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, team)
}

// ConfirmPayment is the leader's mock payment confirmation
func (s *Server) ConfirmPayment(w http.ResponseWriter, r *http.Request) {
	team, err := s.api.ConfirmPayment(r.Context(), principalFrom(r.Context()).ID, chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, team)
}

// SubmitRound1 records the team's round 1 answers and code
func (s *Server) SubmitRound1(w http.ResponseWriter, r *http.Request) {
	var req round1Request
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	sub, err := s.api.SubmitRound1(r.Context(), principalFrom(r.Context()).ID, chi.URLParam(r, "id"), req.Answers, req.Code)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sub)
}

// SubmitRound2 records the team's round 2 project link
func (s *Server) SubmitRound2(w http.ResponseWriter, r *http.Request) {
	var req round2Request
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	sub, err := s.api.SubmitRound2(r.Context(), principalFrom(r.Context()).ID, chi.URLParam(r, "id"), req.Link)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sub)
}

// RoundStatus reports a round's window state. Questions are only included while the round is open
func (s *Server) RoundStatus(w http.ResponseWriter, r *http.Request) {
	round, err := roundParam(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	view, err := s.api.RoundStatus(r.Context(), round)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func roundParam(r *http.Request) (int, error) {
	raw := chi.URLParam(r, "n")
	round, err := strconv.Atoi(raw)
	if err != nil {
		return 0, shared.ValidationError(fmt.Sprintf("'%s' is not a round number", raw))
	}
	return round, nil
}

/* handlers_test.go
 * Contains unit tests for the participant and admin HTTP handlers
 * Authors: Zachary Bower
 */

package web

import (
	"context"
	"hackathon-engine/api/api"
	"hackathon-engine/api/shared"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// region participant tests

// TestParticipantFlow tests account creation through to a round 1 submission over HTTP
func TestParticipantFlow(t *testing.T) {
	h, ms := newTestServer(t)

	rec := do(t, h, http.MethodPost, "/accounts", "alice", registerRequest{Email: "Alice@X.com"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "alice@x.com", decode[shared.Account](t, rec).Email)
	require.Equal(t, http.StatusOK, do(t, h, http.MethodPost, "/accounts", "bob", registerRequest{Email: "bob@x.com"}).Code)

	rec = do(t, h, http.MethodPost, "/teams", "alice", createTeamRequest{Name: "Null Pointers"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	team := decode[shared.Team](t, rec)
	assert.Equal(t, "team-1", team.ID)
	assert.Equal(t, shared.StatusPendingPayment, team.Status)

	rec = do(t, h, http.MethodPost, "/teams/team-1/members", "alice", inviteRequest{Email: "bob@x.com"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Len(t, decode[shared.Team](t, rec).Members, 2)

	rec = do(t, h, http.MethodPost, "/teams/team-1/payment", "alice", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, shared.StatusRegistered, decode[shared.Team](t, rec).Status)

	start := testNow.Add(-time.Minute)
	require.NoError(t, ms.StoreRoundConfig(context.Background(), shared.RoundConfig{
		Round: 1, AnswerKey: map[string]string{"q1": "A", "q2": "B"}, StartTime: &start, DurationMinutes: 30,
	}))

	rec = do(t, h, http.MethodPost, "/teams/team-1/rounds/1", "bob", round1Request{Answers: map[string]string{"q1": "A", "q2": "B"}, Code: "print(1)"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	sub := decode[shared.Submission](t, rec)
	require.NotNil(t, sub.Score)
	assert.Equal(t, 2, *sub.Score)

	rec = do(t, h, http.MethodGet, "/me/team", "bob", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, shared.StatusPendingVerification, decode[shared.Team](t, rec).Status)
}

func TestRegister_EmailFromHeader(t *testing.T) {
	h, _ := newTestServer(t)
	req := newRequest(t, http.MethodPost, "/accounts", "alice", nil)
	req.Header.Set(emailHeader, "alice@x.com")

	rec := serve(h, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "alice@x.com", decode[shared.Account](t, rec).Email)
}

func TestGetTeam_MembersAndAdminsOnly(t *testing.T) {
	h, ms := newTestServer(t)
	ms.SeedTeam(sampleTeam("t1", shared.StatusRegistered, "alice", "bob"))

	assert.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/teams/t1", "bob", nil).Code)
	assert.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/teams/t1", "admin", nil).Code)
	assert.Equal(t, http.StatusForbidden, do(t, h, http.MethodGet, "/teams/t1", "mallory", nil).Code)
	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodGet, "/teams/missing", "admin", nil).Code)
}

func TestRemoveMember(t *testing.T) {
	h, ms := newTestServer(t)
	ms.SeedTeam(sampleTeam("t1", shared.StatusRegistered, "alice", "bob"))

	assert.Equal(t, http.StatusForbidden, do(t, h, http.MethodDelete, "/teams/t1/members/alice", "bob", nil).Code)

	rec := do(t, h, http.MethodDelete, "/teams/t1/members/bob", "alice", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Len(t, decode[shared.Team](t, rec).Members, 1)
}

func TestSubmitRound1_WindowClosed(t *testing.T) {
	h, ms := newTestServer(t)
	ms.SeedTeam(sampleTeam("t1", shared.StatusRegistered, "alice"))

	rec := do(t, h, http.MethodPost, "/teams/t1/rounds/1", "alice", round1Request{Answers: map[string]string{"q1": "A"}})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, string(shared.CodeTimeWindow), decode[errorResponse](t, rec).Code)
}

func TestSubmitRound2_InvalidTransition(t *testing.T) {
	h, ms := newTestServer(t)
	ms.SeedTeam(sampleTeam("t1", shared.StatusRegistered, "alice"))

	rec := do(t, h, http.MethodPost, "/teams/t1/rounds/2", "alice", round2Request{Link: "https://github.com/x/y"})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, string(shared.CodeInvalidTransition), decode[errorResponse](t, rec).Code)

	rec = do(t, h, http.MethodPost, "/teams/t1/rounds/2", "alice", round2Request{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRoundStatus(t *testing.T) {
	h, ms := newTestServer(t)

	rec := do(t, h, http.MethodGet, "/rounds/1", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "not_started", string(decode[api.RoundView](t, rec).State))

	start := testNow.Add(-10 * time.Minute)
	require.NoError(t, ms.StoreRoundConfig(context.Background(), shared.RoundConfig{
		Round: 1, Questions: "1. ...", AnswerKey: map[string]string{"q1": "A"}, StartTime: &start, DurationMinutes: 30,
	}))
	rec = do(t, h, http.MethodGet, "/rounds/1", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	view := decode[api.RoundView](t, rec)
	assert.Equal(t, "open", string(view.State))
	assert.Equal(t, 20*time.Minute, view.Remaining)
	assert.NotContains(t, rec.Body.String(), "answers")

	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodGet, "/rounds/x", "", nil).Code)
}

// endregion

// region admin tests

func TestAdminRoutes_RequireAdmin(t *testing.T) {
	h, ms := newTestServer(t)
	ms.SeedTeam(sampleTeam("t1", shared.StatusPendingPayment, "alice"))

	assert.Equal(t, http.StatusForbidden, do(t, h, http.MethodGet, "/admin/teams", "alice", nil).Code)
	assert.Equal(t, http.StatusForbidden, do(t, h, http.MethodPost, "/admin/teams/t1/approve-payment", "alice", nil).Code)
	assert.Equal(t, http.StatusForbidden, do(t, h, http.MethodPut, "/admin/rounds/1", "alice", shared.RoundConfig{}).Code)
}

func TestAdminLifecycle(t *testing.T) {
	h, ms := newTestServer(t)
	ms.SeedTeam(sampleTeam("t1", shared.StatusPendingPayment, "alice"))
	ms.SeedTeam(sampleTeam("t2", shared.StatusRegistered, "bob"))

	rec := do(t, h, http.MethodPost, "/admin/teams/t1/approve-payment", "admin", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, shared.StatusRegistered, decode[shared.Team](t, rec).Status)

	rec = do(t, h, http.MethodPost, "/admin/teams/t1/advance", "admin", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, shared.StatusRound2, decode[shared.Team](t, rec).Status)

	rec = do(t, h, http.MethodPost, "/admin/teams/t2/eliminate", "admin", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, shared.StatusEliminated, decode[shared.Team](t, rec).Status)

	// eliminated is terminal
	rec = do(t, h, http.MethodPost, "/admin/teams/t2/advance", "admin", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, string(shared.CodeInvalidTransition), decode[errorResponse](t, rec).Code)

	rec = do(t, h, http.MethodGet, "/admin/teams?status=round_2", "admin", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	teams := decode[[]shared.Team](t, rec)
	require.Len(t, teams, 1)
	assert.Equal(t, "t1", teams[0].ID)

	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodGet, "/admin/teams?status=winners", "admin", nil).Code)
	assert.Len(t, decode[[]shared.Team](t, do(t, h, http.MethodGet, "/admin/teams", "admin", nil)), 2)
}

func TestSetRoundConfig(t *testing.T) {
	h, ms := newTestServer(t)
	start := testNow.Add(time.Hour)

	rec := do(t, h, http.MethodPut, "/admin/rounds/1", "admin", shared.RoundConfig{
		Questions: "1. ...", AnswerKey: map[string]string{" Q1 ": "a"}, StartTime: &start,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	cfg := decode[shared.RoundConfig](t, rec)
	assert.Equal(t, 1, cfg.Round)
	assert.Equal(t, map[string]string{"q1": "A"}, cfg.AnswerKey)
	assert.Equal(t, shared.DefaultRoundMinutes, cfg.DurationMinutes)

	stored, err := ms.GetRoundConfig(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "1. ...", stored.Questions)
}

func TestTeamSubmissions(t *testing.T) {
	h, ms := newTestServer(t)
	ms.SeedTeam(sampleTeam("t1", shared.StatusRound2, "alice"))
	require.Equal(t, http.StatusOK, do(t, h, http.MethodPost, "/teams/t1/rounds/2", "alice", round2Request{Link: "https://github.com/x/y"}).Code)

	rec := do(t, h, http.MethodGet, "/admin/teams/t1/submissions", "admin", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	subs := decode[[]shared.Submission](t, rec)
	require.Len(t, subs, 1)
	assert.Equal(t, "https://github.com/x/y", subs[0].Link)
}

// endregion

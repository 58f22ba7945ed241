/* moderation.go
 * Contains the administrator operations and the lifecycle transitions they drive. Invalid transition errors from
 * the state machine are returned to the caller unchanged
 * Authors: Zachary Bower
 */

package api

import (
	"context"
	"hackathon-engine/api/logic"
	"hackathon-engine/api/metrics"
	"hackathon-engine/api/shared"

	"go.uber.org/zap"
)

// ListTeams returns every team
// Preconditions: Receives a context and the caller's principal id
// Postconditions: Returns all teams ordered by creation, or a permission error if the caller is not an admin
func (a *API) ListTeams(ctx context.Context, callerID string) ([]shared.Team, error) {
	if err := a.requireAdmin(callerID); err != nil {
		return nil, err
	}
	teams, err := a.Store.ListTeams(ctx)
	if err != nil {
		return nil, a.collaborator("failed to list teams", err)
	}
	return teams, nil
}

// ListTeamsByStatus returns the teams currently in the given status
func (a *API) ListTeamsByStatus(ctx context.Context, callerID string, status shared.Status) ([]shared.Team, error) {
	if err := a.requireAdmin(callerID); err != nil {
		return nil, err
	}
	if _, err := shared.ParseStatus(string(status)); err != nil {
		return nil, shared.ValidationError(err.Error())
	}
	teams, err := a.Store.ListTeamsByStatus(ctx, status)
	if err != nil {
		return nil, a.collaborator("failed to list teams", err)
	}
	return teams, nil
}

// ApprovePayment confirms a team's payment on its behalf: pending_payment -> registered
func (a *API) ApprovePayment(ctx context.Context, callerID string, teamID string) (shared.Team, error) {
	if err := a.requireAdmin(callerID); err != nil {
		return shared.Team{}, err
	}
	return a.transition(ctx, callerID, teamID, logic.TriggerConfirmPayment)
}

// Advance moves a team to the next round: registered|pending_verification -> round_2, round_2 -> round_3
func (a *API) Advance(ctx context.Context, callerID string, teamID string) (shared.Team, error) {
	if err := a.requireAdmin(callerID); err != nil {
		return shared.Team{}, err
	}
	return a.transition(ctx, callerID, teamID, logic.TriggerAdminAdvance)
}

// Eliminate removes a team from the competition: registered|pending_verification|round_2 -> eliminated
func (a *API) Eliminate(ctx context.Context, callerID string, teamID string) (shared.Team, error) {
	if err := a.requireAdmin(callerID); err != nil {
		return shared.Team{}, err
	}
	return a.transition(ctx, callerID, teamID, logic.TriggerAdminEliminate)
}

// ConfirmPayment is the leader's mock payment: pending_payment -> registered. No payment is processed
// Preconditions: Receives a context, the caller's principal id and the team id
// Postconditions: Returns the updated team, a permission error if the caller is not the leader, or an invalid
// transition error if the team is not awaiting payment
func (a *API) ConfirmPayment(ctx context.Context, callerID string, teamID string) (shared.Team, error) {
	team, err := a.GetTeam(ctx, teamID)
	if err != nil {
		return shared.Team{}, err
	}
	if team.LeaderID != callerID {
		return shared.Team{}, shared.PermissionError("only the team leader can confirm payment")
	}
	return a.transition(ctx, callerID, teamID, logic.TriggerConfirmPayment)
}

// TeamSubmissions returns every ledger entry of a team for review
func (a *API) TeamSubmissions(ctx context.Context, callerID string, teamID string) ([]shared.Submission, error) {
	if err := a.requireAdmin(callerID); err != nil {
		return nil, err
	}
	if _, err := a.GetTeam(ctx, teamID); err != nil {
		return nil, err
	}
	subs, err := a.Store.ListSubmissions(ctx, teamID)
	if err != nil {
		return nil, a.collaborator("failed to list submissions", err)
	}
	return subs, nil
}

// transition fires a trigger against a team's current status and writes the result with a compare and set. A lost
// race re-reads the team and re-evaluates the trigger
func (a *API) transition(ctx context.Context, callerID string, teamID string, trigger logic.Trigger) (team shared.Team, err error) {
	defer func() { metrics.Transitions.WithLabelValues(string(trigger), result(err)).Inc() }()

	var from shared.Status
	err = retryOnConflict(func() error {
		team, err = a.GetTeam(ctx, teamID)
		if err != nil {
			return err
		}
		from = team.Status

		next, err := logic.Apply(team.Status, trigger)
		if err != nil {
			return err
		}
		if err := a.Store.UpdateTeamStatus(ctx, team.ID, team.Status, next); err != nil {
			return a.collaborator("failed to update team status", err)
		}
		team.Status = next
		return nil
	})
	if err != nil {
		return shared.Team{}, err
	}

	a.Logger.Info("team transitioned",
		zap.String("team_id", team.ID),
		zap.String("principal_id", callerID),
		zap.String("trigger", string(trigger)),
		zap.String("from", string(from)),
		zap.String("status", string(team.Status)),
	)
	return team, nil
}

/* membership.go
 * Contains team creation, invites and removals. Every operation touches the team roster and an account's team
 * reference, and always commits both in one batch
 * Authors: Zachary Bower
 */

package api

import (
	"context"
	"fmt"
	"hackathon-engine/api/logic"
	"hackathon-engine/api/metrics"
	"hackathon-engine/api/shared"
	"hackathon-engine/api/store"
	"strings"

	"go.uber.org/zap"
)

// CreateTeam creates a team led by the caller
// Preconditions: Receives a context, the leader's principal id and the team name
// Postconditions: Returns the new team (status pending_payment, roster = [leader]) with the leader's account linked
// to it, or an error. Validation error if the name is empty or the leader already has a team
func (a *API) CreateTeam(ctx context.Context, leaderID string, name string) (team shared.Team, err error) {
	defer func() { metrics.Membership.WithLabelValues("create", result(err)).Inc() }()

	name = strings.TrimSpace(name)
	if name == "" {
		return shared.Team{}, shared.ValidationError("team name is required")
	}

	account, err := a.GetAccount(ctx, leaderID)
	if err != nil {
		return shared.Team{}, err
	}
	if account.HasTeam() {
		return shared.Team{}, shared.ValidationError("you are already on a team")
	}

	team = shared.Team{
		ID:        a.newID(),
		Name:      name,
		LeaderID:  leaderID,
		Members:   []shared.Member{{PrincipalID: leaderID, Email: account.Email}},
		Status:    shared.StatusPendingPayment,
		CreatedAt: a.now().UTC(),
	}
	if err := logic.CheckRoster(team, a.MaxMembers); err != nil {
		return shared.Team{}, err
	}

	batch := store.NewBatch(
		store.InsertTeam{Team: team},
		store.SetAccountTeam{PrincipalID: leaderID, TeamID: team.ID},
	)
	if err := a.Store.CommitBatch(ctx, batch); err != nil {
		return shared.Team{}, a.collaborator("failed to create team", err)
	}

	a.Logger.Info("team created", zap.String("team_id", team.ID), zap.String("principal_id", leaderID), zap.String("name", name))
	return team, nil
}

// InviteMember adds the account registered with email to the team
// Preconditions: Receives a context, the caller's principal id, the team id and the invitee's email
// Postconditions: Returns the updated team with the invitee's account linked, or an error. Only the leader may
// invite. Conflict if the roster is full, the email is already on the roster or the invitee is on another team.
// Not found if no account uses the email
func (a *API) InviteMember(ctx context.Context, callerID string, teamID string, email string) (team shared.Team, err error) {
	defer func() { metrics.Membership.WithLabelValues("invite", result(err)).Inc() }()

	email, err = parseEmail(email)
	if err != nil {
		return shared.Team{}, err
	}

	var member shared.Member
	err = retryOnConflict(func() error {
		team, err = a.GetTeam(ctx, teamID)
		if err != nil {
			return err
		}
		if team.LeaderID != callerID {
			return shared.PermissionError("only the team leader can invite members")
		}
		if logic.IsFull(team, a.MaxMembers) {
			return shared.ConflictError(fmt.Sprintf("team is full (%d members)", a.MaxMembers))
		}
		if team.HasEmail(email) {
			return shared.ConflictError(fmt.Sprintf("%s is already on the team", email))
		}

		invitee, err := a.Store.FindAccountByEmail(ctx, email)
		if err != nil {
			return a.collaborator("failed to look up invitee", err)
		}
		if invitee.HasTeam() {
			return shared.ConflictError(fmt.Sprintf("%s is already on another team", email))
		}

		// PushMember re-checks the roster at write time. The invitee's team reference is not re-checked, two
		// leaders inviting the same free account at once can both succeed
		member = shared.Member{PrincipalID: invitee.ID, Email: invitee.Email}
		batch := store.NewBatch(
			store.PushMember{TeamID: team.ID, Member: member, MaxMembers: a.MaxMembers},
			store.SetAccountTeam{PrincipalID: invitee.ID, TeamID: team.ID},
		)
		return a.collaborator("failed to add member", a.Store.CommitBatch(ctx, batch))
	})
	if err != nil {
		return shared.Team{}, err
	}

	team.Members = append(team.Members, member)
	a.Logger.Info("member invited", zap.String("team_id", team.ID), zap.String("principal_id", member.PrincipalID))
	return team, nil
}

// RemoveMember removes a member from the team
// Preconditions: Receives a context, the caller's principal id, the team id and the principal to remove
// Postconditions: Returns the updated team with the removed account's team reference cleared, or an error. Only the
// leader may remove, and never themselves
func (a *API) RemoveMember(ctx context.Context, callerID string, teamID string, principalID string) (team shared.Team, err error) {
	defer func() { metrics.Membership.WithLabelValues("remove", result(err)).Inc() }()

	principalID = strings.TrimSpace(principalID)
	if principalID == "" {
		return shared.Team{}, shared.ValidationError("member id is required")
	}

	team, err = a.GetTeam(ctx, teamID)
	if err != nil {
		return shared.Team{}, err
	}
	if team.LeaderID != callerID {
		return shared.Team{}, shared.PermissionError("only the team leader can remove members")
	}
	if principalID == team.LeaderID {
		return shared.Team{}, shared.PermissionError("the team leader can not remove themselves")
	}
	if !team.HasMember(principalID) {
		return shared.Team{}, shared.NotFoundError(fmt.Sprintf("%s is not on the team", principalID))
	}

	batch := store.NewBatch(store.PullMember{TeamID: team.ID, PrincipalID: principalID})

	// Only clear the reference if it still points here
	account, err := a.Store.GetAccount(ctx, principalID)
	switch {
	case err == nil && account.TeamID == team.ID:
		batch.Add(store.SetAccountTeam{PrincipalID: principalID})
	case err != nil && shared.CodeOf(err) != shared.CodeNotFound:
		return shared.Team{}, a.collaborator("failed to load member account", err)
	}

	if err := a.Store.CommitBatch(ctx, batch); err != nil {
		return shared.Team{}, a.collaborator("failed to remove member", err)
	}

	team.Members = logic.WithoutMember(team.Members, principalID)
	a.Logger.Info("member removed", zap.String("team_id", team.ID), zap.String("principal_id", principalID))
	return team, nil
}

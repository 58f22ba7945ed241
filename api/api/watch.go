/* watch.go
 * Contains the subscriptions exposed to presentation layers. Handlers receive the current value immediately and
 * again after every change until the returned subscription is unsubscribed
 * Authors: Zachary Bower
 */

package api

import (
	"context"
	"hackathon-engine/api/shared"
	"hackathon-engine/api/store"

	"go.uber.org/zap"
)

// WatchAccount subscribes the caller to their own account
func (a *API) WatchAccount(ctx context.Context, callerID string, handler func(shared.Account, error)) (store.Subscription, error) {
	sub, err := a.Store.WatchAccount(ctx, callerID, func(account shared.Account, err error) {
		handler(account, a.collaborator("account subscription failed", err))
	})
	if err != nil {
		return nil, a.collaborator("failed to subscribe to account", err)
	}
	return sub, nil
}

// WatchTeam subscribes to a team. Only its members and admins may watch it
// Preconditions: Receives a context bounding the subscription, the caller's principal id, the team id and a handler
// Postconditions: Returns the subscription, or a not found or permission error
func (a *API) WatchTeam(ctx context.Context, callerID string, teamID string, handler func(shared.Team, error)) (store.Subscription, error) {
	team, err := a.GetTeam(ctx, teamID)
	if err != nil {
		return nil, err
	}
	if !team.HasMember(callerID) && !a.IsAdmin(callerID) {
		return nil, shared.PermissionError("only team members can watch the team")
	}

	sub, err := a.Store.WatchTeam(ctx, teamID, func(team shared.Team, err error) {
		handler(team, a.collaborator("team subscription failed", err))
	})
	if err != nil {
		return nil, a.collaborator("failed to subscribe to team", err)
	}
	return sub, nil
}

// WatchTeams subscribes an admin to the whole team collection
func (a *API) WatchTeams(ctx context.Context, callerID string, handler func([]shared.Team, error)) (store.Subscription, error) {
	if err := a.requireAdmin(callerID); err != nil {
		return nil, err
	}
	sub, err := a.Store.WatchTeams(ctx, func(teams []shared.Team, err error) {
		handler(teams, a.collaborator("teams subscription failed", err))
	})
	if err != nil {
		return nil, a.collaborator("failed to subscribe to teams", err)
	}
	return sub, nil
}

// StatusChange is a team observed moving from one status to another
type StatusChange struct {
	Team shared.Team
	From shared.Status
}

// WatchStatusChanges reports every status change seen after the subscription starts. Teams created after that are
// reported from their first observed status onwards. This is for trusted system consumers such as announcements,
// it performs no principal check
func (a *API) WatchStatusChanges(ctx context.Context, handler func(StatusChange)) (store.Subscription, error) {
	teams, err := a.Store.ListTeams(ctx)
	if err != nil {
		return nil, a.collaborator("failed to list teams", err)
	}
	known := make(map[string]shared.Status, len(teams))
	for _, team := range teams {
		known[team.ID] = team.Status
	}

	sub, err := a.Store.WatchTeams(ctx, func(teams []shared.Team, err error) {
		if err != nil {
			a.Logger.Error("status change subscription failed", zap.Error(err))
			return
		}

		seen := make(map[string]shared.Status, len(teams))
		for _, team := range teams {
			seen[team.ID] = team.Status
			if from, ok := known[team.ID]; ok && from != team.Status {
				handler(StatusChange{Team: team, From: from})
			}
		}
		known = seen
	})
	if err != nil {
		return nil, a.collaborator("failed to subscribe to teams", err)
	}
	return sub, nil
}

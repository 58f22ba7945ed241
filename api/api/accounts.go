/* accounts.go
 * Contains the participant account operations and the participant facing reads
 * Authors: Zachary Bower
 */

package api

import (
	"context"
	"hackathon-engine/api/shared"
	"net/mail"
	"strings"

	"go.uber.org/zap"
)

// EnsureAccount creates the account for a principal on first contact
// Preconditions: Receives a context, the authenticated principal id and their email
// Postconditions: Returns the stored account. An existing account is returned unchanged
func (a *API) EnsureAccount(ctx context.Context, principalID string, email string) (shared.Account, error) {
	principalID = strings.TrimSpace(principalID)
	if principalID == "" {
		return shared.Account{}, shared.ValidationError("principal id is required")
	}
	email, err := parseEmail(email)
	if err != nil {
		return shared.Account{}, err
	}

	created, err := a.Store.CreateAccount(ctx, shared.Account{ID: principalID, Email: email})
	if err != nil {
		return shared.Account{}, a.collaborator("failed to create account", err)
	}
	if created {
		a.Logger.Info("account created", zap.String("principal_id", principalID))
	}
	return a.GetAccount(ctx, principalID)
}

// GetAccount fetches a principal's account
func (a *API) GetAccount(ctx context.Context, principalID string) (shared.Account, error) {
	account, err := a.Store.GetAccount(ctx, principalID)
	if err != nil {
		return shared.Account{}, a.collaborator("failed to load account", err)
	}
	return account, nil
}

// GetTeam fetches a team by id
func (a *API) GetTeam(ctx context.Context, teamID string) (shared.Team, error) {
	team, err := a.Store.GetTeam(ctx, teamID)
	if err != nil {
		return shared.Team{}, a.collaborator("failed to load team", err)
	}
	return team, nil
}

// MyTeam fetches the team the principal's account references
// Preconditions: Receives a context and the principal id
// Postconditions: Returns the team, or a not found error if the principal has no account or no team
func (a *API) MyTeam(ctx context.Context, principalID string) (shared.Team, error) {
	account, err := a.GetAccount(ctx, principalID)
	if err != nil {
		return shared.Team{}, err
	}
	if !account.HasTeam() {
		return shared.Team{}, shared.NotFoundError("you are not on a team")
	}
	return a.GetTeam(ctx, account.TeamID)
}

func parseEmail(email string) (string, error) {
	email = shared.NormalizeEmail(email)
	if email == "" {
		return "", shared.ValidationError("email is required")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", shared.ValidationError("'" + email + "' is not a valid email address")
	}
	return email, nil
}

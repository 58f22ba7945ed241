/* accounts_test.go
 * Contains unit tests for accounts.go
 * Authors: Zachary Bower
 */

package api

import (
	"context"
	"errors"
	"hackathon-engine/api/shared"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureAccount_CreatesOnce(t *testing.T) {
	ctx := context.Background()
	a, ms, _ := newTestAPI(t)

	account, err := a.EnsureAccount(ctx, "alice", " Alice@X.com ")
	require.NoError(t, err)
	assert.Equal(t, shared.Account{ID: "alice", Email: "alice@x.com"}, account)

	ms.SeedTeam(sampleTeam("t1", shared.StatusPendingPayment, "alice"))

	// Second contact must not reset the team reference
	account, err = a.EnsureAccount(ctx, "alice", "alice@x.com")
	require.NoError(t, err)
	assert.Equal(t, "t1", account.TeamID)
}

func TestEnsureAccount_InvalidInput(t *testing.T) {
	ctx := context.Background()
	a, _, _ := newTestAPI(t)

	_, err := a.EnsureAccount(ctx, "", "alice@x.com")
	assert.ErrorIs(t, err, shared.ErrValidation)

	_, err = a.EnsureAccount(ctx, "alice", "")
	assert.ErrorIs(t, err, shared.ErrValidation)

	_, err = a.EnsureAccount(ctx, "alice", "not an email")
	assert.ErrorIs(t, err, shared.ErrValidation)
}

func TestEnsureAccount_StoreFailure(t *testing.T) {
	a, ms, _ := newTestAPI(t)
	ms.CreateAccountError = errors.New("connection refused")

	_, err := a.EnsureAccount(context.Background(), "alice", "alice@x.com")
	assert.ErrorIs(t, err, shared.ErrUnavailable)
}

func TestMyTeam(t *testing.T) {
	ctx := context.Background()
	a, ms, _ := newTestAPI(t)
	ms.SeedAccount("carol", "carol@x.com")
	ms.SeedTeam(sampleTeam("t1", shared.StatusRegistered, "alice", "bob"))

	team, err := a.MyTeam(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, "t1", team.ID)

	_, err = a.MyTeam(ctx, "carol")
	assert.ErrorIs(t, err, shared.ErrNotFound)

	_, err = a.MyTeam(ctx, "nobody")
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

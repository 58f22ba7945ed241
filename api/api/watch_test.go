/* watch_test.go
 * Contains unit tests for watch.go
 * Authors: Zachary Bower
 */

package api

import (
	"context"
	"errors"
	"hackathon-engine/api/shared"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const waitFor = 2 * time.Second

func TestWatchTeam_DeliversRosterChanges(t *testing.T) {
	ctx := context.Background()
	a, ms, _ := newTestAPI(t)
	ms.SeedTeam(sampleTeam("t1", shared.StatusPendingPayment, "alice"))
	ms.SeedAccount("bob", "bob@x.com")

	updates := make(chan shared.Team, 10)
	sub, err := a.WatchTeam(ctx, "alice", "t1", func(team shared.Team, err error) {
		assert.NoError(t, err)
		updates <- team
	})
	require.NoError(t, err)
	defer sub.Unsubscribe()

	select {
	case team := <-updates:
		assert.Len(t, team.Members, 1)
	case <-time.After(waitFor):
		t.Fatal("initial value was not delivered")
	}

	_, err = a.InviteMember(ctx, "alice", "t1", "bob@x.com")
	require.NoError(t, err)

	select {
	case team := <-updates:
		assert.True(t, team.HasMember("bob"))
	case <-time.After(waitFor):
		t.Fatal("roster change was not delivered")
	}
}

func TestWatchTeam_Permissions(t *testing.T) {
	ctx := context.Background()
	a, ms, _ := newTestAPI(t)
	ms.SeedTeam(sampleTeam("t1", shared.StatusPendingPayment, "alice"))

	_, err := a.WatchTeam(ctx, "mallory", "t1", func(shared.Team, error) {})
	assert.ErrorIs(t, err, shared.ErrPermission)

	_, err = a.WatchTeam(ctx, "alice", "missing", func(shared.Team, error) {})
	assert.ErrorIs(t, err, shared.ErrNotFound)

	sub, err := a.WatchTeam(ctx, "admin", "t1", func(shared.Team, error) {})
	require.NoError(t, err)
	sub.Unsubscribe()
}

func TestWatchTeams_AdminOnly(t *testing.T) {
	ctx := context.Background()
	a, ms, _ := newTestAPI(t)

	_, err := a.WatchTeams(ctx, "alice", func([]shared.Team, error) {})
	assert.ErrorIs(t, err, shared.ErrPermission)

	ms.WatchError = errors.New("change streams unsupported")
	_, err = a.WatchTeams(ctx, "admin", func([]shared.Team, error) {})
	assert.ErrorIs(t, err, shared.ErrUnavailable)
}

// TestWatchAccount_SeesTeamReference tests that joining a team is pushed to the member's account subscription
func TestWatchAccount_SeesTeamReference(t *testing.T) {
	ctx := context.Background()
	a, ms, _ := newTestAPI(t)
	ms.SeedTeam(sampleTeam("t1", shared.StatusPendingPayment, "alice"))
	ms.SeedAccount("bob", "bob@x.com")

	updates := make(chan shared.Account, 10)
	sub, err := a.WatchAccount(ctx, "bob", func(account shared.Account, err error) {
		assert.NoError(t, err)
		updates <- account
	})
	require.NoError(t, err)
	defer sub.Unsubscribe()
	<-updates

	_, err = a.InviteMember(ctx, "alice", "t1", "bob@x.com")
	require.NoError(t, err)

	select {
	case account := <-updates:
		assert.Equal(t, "t1", account.TeamID)
	case <-time.After(waitFor):
		t.Fatal("account change was not delivered")
	}
}

func TestWatchStatusChanges(t *testing.T) {
	ctx := context.Background()
	a, ms, _ := newTestAPI(t)
	ms.SeedTeam(sampleTeam("t1", shared.StatusPendingPayment, "alice"))
	ms.SeedTeam(sampleTeam("t2", shared.StatusRegistered, "bob"))
	ms.SeedAccount("carol", "carol@x.com")

	changes := make(chan StatusChange, 10)
	sub, err := a.WatchStatusChanges(ctx, func(c StatusChange) { changes <- c })
	require.NoError(t, err)
	defer sub.Unsubscribe()

	// A roster change is not a status change
	_, err = a.InviteMember(ctx, "alice", "t1", "carol@x.com")
	require.NoError(t, err)
	_, err = a.Advance(ctx, "admin", "t2")
	require.NoError(t, err)

	select {
	case c := <-changes:
		assert.Equal(t, "t2", c.Team.ID)
		assert.Equal(t, shared.StatusRegistered, c.From)
		assert.Equal(t, shared.StatusRound2, c.Team.Status)
	case <-time.After(waitFor):
		t.Fatal("status change was not delivered")
	}

	select {
	case c := <-changes:
		t.Fatalf("unexpected change for %s", c.Team.ID)
	case <-time.After(100 * time.Millisecond):
	}
}

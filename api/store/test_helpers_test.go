/* test_helpers.go
 * Contains test helper functions and sample data for store package tests
 * Authors: Zachary Bower
 */

package store

import (
	"context"
	"hackathon-engine/api/shared"
	"os"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

// newMockStore wraps the mtest mock client in a Store
func newMockStore(mt *mtest.T) *Store {
	return newStoreFromDatabase(mt.Client, mt.DB)
}

// CreateTestStore creates a Store connected to the deployment in MONGO_TEST_URI, skipping the test if it is unset.
// The deployment must be a replica set for batches and subscriptions. Returns the store and a cleanup function
func CreateTestStore(t *testing.T) (*Store, func()) {
	t.Helper()
	mongoURI := os.Getenv("MONGO_TEST_URI")
	if mongoURI == "" {
		t.Skip("MONGO_TEST_URI not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	s, err := NewStore(ctx, "test_hackathon", mongoURI)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	if err := s.Ping(ctx); err != nil {
		t.Skipf("mongo not reachable: %v", err)
	}

	// Start from an empty database
	if err := s.Database.Drop(ctx); err != nil {
		t.Fatalf("failed to drop test database: %v", err)
	}

	cleanup := func() {
		s.Database.Drop(context.Background())
		s.Close(context.Background())
	}
	return s, cleanup
}

var sampleCreatedAt = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

// CreateSampleTeam creates a team led by the given principal with the leader as the only member
func CreateSampleTeam(id string, name string, leaderID string, status shared.Status) shared.Team {
	return shared.Team{
		ID:        id,
		Name:      name,
		LeaderID:  leaderID,
		Members:   []shared.Member{{PrincipalID: leaderID, Email: leaderID + "@x.com"}},
		Status:    status,
		CreatedAt: sampleCreatedAt,
	}
}

// CreateSampleAccount creates an account with an email derived from the principal id
func CreateSampleAccount(principalID string, teamID string) shared.Account {
	return shared.Account{ID: principalID, Email: principalID + "@x.com", TeamID: teamID}
}

// seedTeam writes an account for the leader and the team in a single batch
func seedTeam(t *testing.T, s Interface, team shared.Team) {
	t.Helper()
	ctx := context.Background()
	for _, m := range team.Members {
		if _, err := s.CreateAccount(ctx, shared.Account{ID: m.PrincipalID, Email: m.Email}); err != nil {
			t.Fatalf("failed to seed account: %v", err)
		}
	}
	batch := NewBatch(InsertTeam{Team: team})
	for _, m := range team.Members {
		batch.Add(SetAccountTeam{PrincipalID: m.PrincipalID, TeamID: team.ID})
	}
	if err := s.CommitBatch(ctx, batch); err != nil {
		t.Fatalf("failed to seed team: %v", err)
	}
}

/* test_mocks.go
 * Contains mock structures for testing the API package and its consumers
 * Authors: Zachary Bower
 */

package api

import (
	"context"
	"hackathon-engine/api/shared"
	"hackathon-engine/api/store"
	"sync/atomic"
)

// MockStore wraps the in-memory store with per-method error injection
type MockStore struct {
	*store.MemoryStore

	// Error injection for testing error paths
	GetAccountError         error
	CreateAccountError      error
	FindAccountByEmailError error
	GetTeamError            error
	ListTeamsError          error
	UpdateTeamStatusError   error
	GetRoundConfigError     error
	CommitBatchError        error
	WatchError              error

	// BeforeUpdateTeamStatus runs before the status write is delegated, tests use it to simulate a concurrent writer
	BeforeUpdateTeamStatus func()
	// BeforeCommit runs before a batch is delegated
	BeforeCommit func(store.Batch)

	// CommitCount counts batches delegated to the memory store, it is safe to read while commits run
	CommitCount atomic.Int64
}

// NewMockStore creates a new empty MockStore
func NewMockStore() *MockStore {
	return &MockStore{MemoryStore: store.NewMemoryStore()}
}

func (m *MockStore) GetAccount(ctx context.Context, principalID string) (shared.Account, error) {
	if m.GetAccountError != nil {
		return shared.Account{}, m.GetAccountError
	}
	return m.MemoryStore.GetAccount(ctx, principalID)
}

func (m *MockStore) CreateAccount(ctx context.Context, account shared.Account) (bool, error) {
	if m.CreateAccountError != nil {
		return false, m.CreateAccountError
	}
	return m.MemoryStore.CreateAccount(ctx, account)
}

func (m *MockStore) FindAccountByEmail(ctx context.Context, email string) (shared.Account, error) {
	if m.FindAccountByEmailError != nil {
		return shared.Account{}, m.FindAccountByEmailError
	}
	return m.MemoryStore.FindAccountByEmail(ctx, email)
}

func (m *MockStore) GetTeam(ctx context.Context, teamID string) (shared.Team, error) {
	if m.GetTeamError != nil {
		return shared.Team{}, m.GetTeamError
	}
	return m.MemoryStore.GetTeam(ctx, teamID)
}

func (m *MockStore) ListTeams(ctx context.Context) ([]shared.Team, error) {
	if m.ListTeamsError != nil {
		return nil, m.ListTeamsError
	}
	return m.MemoryStore.ListTeams(ctx)
}

func (m *MockStore) ListTeamsByStatus(ctx context.Context, status shared.Status) ([]shared.Team, error) {
	if m.ListTeamsError != nil {
		return nil, m.ListTeamsError
	}
	return m.MemoryStore.ListTeamsByStatus(ctx, status)
}

func (m *MockStore) UpdateTeamStatus(ctx context.Context, teamID string, from shared.Status, to shared.Status) error {
	if m.BeforeUpdateTeamStatus != nil {
		m.BeforeUpdateTeamStatus()
	}
	if m.UpdateTeamStatusError != nil {
		return m.UpdateTeamStatusError
	}
	return m.MemoryStore.UpdateTeamStatus(ctx, teamID, from, to)
}

func (m *MockStore) GetRoundConfig(ctx context.Context, round int) (shared.RoundConfig, error) {
	if m.GetRoundConfigError != nil {
		return shared.RoundConfig{}, m.GetRoundConfigError
	}
	return m.MemoryStore.GetRoundConfig(ctx, round)
}

func (m *MockStore) CommitBatch(ctx context.Context, batch store.Batch) error {
	if m.BeforeCommit != nil {
		m.BeforeCommit(batch)
	}
	if m.CommitBatchError != nil {
		return m.CommitBatchError
	}
	m.CommitCount.Add(1)
	return m.MemoryStore.CommitBatch(ctx, batch)
}

func (m *MockStore) WatchTeams(ctx context.Context, handler func([]shared.Team, error)) (store.Subscription, error) {
	if m.WatchError != nil {
		return nil, m.WatchError
	}
	return m.MemoryStore.WatchTeams(ctx, handler)
}

func (m *MockStore) WatchTeam(ctx context.Context, teamID string, handler func(shared.Team, error)) (store.Subscription, error) {
	if m.WatchError != nil {
		return nil, m.WatchError
	}
	return m.MemoryStore.WatchTeam(ctx, teamID, handler)
}

// SeedAccount creates an account with no team, for tests
func (m *MockStore) SeedAccount(principalID string, email string) {
	m.MemoryStore.CreateAccount(context.Background(), shared.Account{ID: principalID, Email: email})
}

// SeedTeam stores a team and links every member's account to it, creating missing accounts, for tests
func (m *MockStore) SeedTeam(team shared.Team) {
	batch := store.NewBatch(store.InsertTeam{Team: team})
	for _, member := range team.Members {
		m.MemoryStore.CreateAccount(context.Background(), shared.Account{ID: member.PrincipalID, Email: member.Email})
		batch.Add(store.SetAccountTeam{PrincipalID: member.PrincipalID, TeamID: team.ID})
	}
	m.MemoryStore.CommitBatch(context.Background(), batch)
}

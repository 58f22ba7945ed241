/* memory.go
 * Contains MemoryStore, an in process implementation of Interface used for local development and tests. Batches are
 * staged on copies of the affected documents and swapped in under the lock, so a failed batch leaves no trace
 * Authors: Zachary Bower
 */

package store

import (
	"context"
	"fmt"
	"hackathon-engine/api/shared"
	"maps"
	"sort"
	"sync"
)

type MemoryStore struct {
	mu          sync.RWMutex
	accounts    map[string]shared.Account
	teams       map[string]shared.Team
	rounds      map[int]shared.RoundConfig
	submissions map[string]shared.Submission

	watchMu  sync.Mutex
	watchers map[*memoryWatcher]struct{}
	closed   chan struct{}
	once     sync.Once
}

// change records which documents a mutation touched
type change struct {
	accounts []string
	teams    []string
}

type memoryWatcher struct {
	matches func(change) bool
	notify  chan struct{}
}

// NewMemoryStore creates an empty MemoryStore
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		accounts:    make(map[string]shared.Account),
		teams:       make(map[string]shared.Team),
		rounds:      make(map[int]shared.RoundConfig),
		submissions: make(map[string]shared.Submission),
		watchers:    make(map[*memoryWatcher]struct{}),
		closed:      make(chan struct{}),
	}
}

// region accounts

func (m *MemoryStore) GetAccount(ctx context.Context, principalID string) (shared.Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	account, ok := m.accounts[principalID]
	if !ok {
		return shared.Account{}, shared.NotFoundError(fmt.Sprintf("no account for principal %s", principalID))
	}
	return account, nil
}

func (m *MemoryStore) FindAccountByEmail(ctx context.Context, email string) (shared.Account, error) {
	email = shared.NormalizeEmail(email)

	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, account := range m.accounts {
		if account.Email == email {
			return account, nil
		}
	}
	return shared.Account{}, shared.NotFoundError(fmt.Sprintf("no account registered with %s", email))
}

func (m *MemoryStore) CreateAccount(ctx context.Context, account shared.Account) (bool, error) {
	account.Email = shared.NormalizeEmail(account.Email)

	m.mu.Lock()
	if _, ok := m.accounts[account.ID]; ok {
		m.mu.Unlock()
		return false, nil
	}
	m.accounts[account.ID] = account
	m.mu.Unlock()

	m.broadcast(change{accounts: []string{account.ID}})
	return true, nil
}

// endregion

// region teams

func (m *MemoryStore) GetTeam(ctx context.Context, teamID string) (shared.Team, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	team, ok := m.teams[teamID]
	if !ok {
		return shared.Team{}, shared.NotFoundError(fmt.Sprintf("team %s does not exist", teamID))
	}
	return team.Clone(), nil
}

func (m *MemoryStore) ListTeams(ctx context.Context) ([]shared.Team, error) {
	return m.filterTeams(func(shared.Team) bool { return true }), nil
}

func (m *MemoryStore) ListTeamsByStatus(ctx context.Context, status shared.Status) ([]shared.Team, error) {
	return m.filterTeams(func(t shared.Team) bool { return t.Status == status }), nil
}

func (m *MemoryStore) filterTeams(keep func(shared.Team) bool) []shared.Team {
	m.mu.RLock()
	defer m.mu.RUnlock()

	teams := []shared.Team{}
	for _, team := range m.teams {
		if keep(team) {
			teams = append(teams, team.Clone())
		}
	}
	sort.Slice(teams, func(i, j int) bool {
		if teams[i].CreatedAt.Equal(teams[j].CreatedAt) {
			return teams[i].ID < teams[j].ID
		}
		return teams[i].CreatedAt.Before(teams[j].CreatedAt)
	})
	return teams
}

func (m *MemoryStore) UpdateTeamStatus(ctx context.Context, teamID string, from shared.Status, to shared.Status) error {
	return m.CommitBatch(ctx, NewBatch(SetTeamStatus{TeamID: teamID, From: from, To: to}))
}

// endregion

// region round config

func (m *MemoryStore) GetRoundConfig(ctx context.Context, round int) (shared.RoundConfig, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	cfg, ok := m.rounds[round]
	if !ok {
		return shared.RoundConfig{}, shared.NotFoundError(fmt.Sprintf("round %d is not configured", round))
	}
	return cloneRoundConfig(cfg), nil
}

func (m *MemoryStore) StoreRoundConfig(ctx context.Context, cfg shared.RoundConfig) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.rounds[cfg.Round] = cloneRoundConfig(cfg)
	return nil
}

func cloneRoundConfig(cfg shared.RoundConfig) shared.RoundConfig {
	c := cfg
	c.AnswerKey = maps.Clone(cfg.AnswerKey)
	if cfg.StartTime != nil {
		start := *cfg.StartTime
		c.StartTime = &start
	}
	return c
}

// endregion

// region submissions

func (m *MemoryStore) GetSubmission(ctx context.Context, teamID string, round int, kind shared.SubmissionKind) (shared.Submission, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	sub, ok := m.submissions[shared.SubmissionID(teamID, round, kind)]
	if !ok {
		return shared.Submission{}, shared.NotFoundError(fmt.Sprintf("no %s submission for team %s in round %d", kind, teamID, round))
	}
	return cloneSubmission(sub), nil
}

func (m *MemoryStore) ListSubmissions(ctx context.Context, teamID string) ([]shared.Submission, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	subs := []shared.Submission{}
	for _, sub := range m.submissions {
		if sub.TeamID == teamID {
			subs = append(subs, cloneSubmission(sub))
		}
	}
	sort.Slice(subs, func(i, j int) bool {
		if subs[i].Round == subs[j].Round {
			return subs[i].Kind < subs[j].Kind
		}
		return subs[i].Round < subs[j].Round
	})
	return subs, nil
}

func cloneSubmission(sub shared.Submission) shared.Submission {
	c := sub
	c.Answers = maps.Clone(sub.Answers)
	if sub.Score != nil {
		score := *sub.Score
		c.Score = &score
	}
	return c
}

// endregion

// region batches

// staged holds the documents a batch has modified so far
type staged struct {
	accounts    map[string]shared.Account
	teams       map[string]shared.Team
	submissions map[string]shared.Submission
}

func (m *MemoryStore) CommitBatch(ctx context.Context, batch Batch) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	st := staged{
		accounts:    make(map[string]shared.Account),
		teams:       make(map[string]shared.Team),
		submissions: make(map[string]shared.Submission),
	}
	for i, w := range batch.Writes {
		if err := m.stage(&st, w); err != nil {
			m.mu.Unlock()
			return fmt.Errorf("write %d of batch: %w", i, err)
		}
	}

	var ch change
	for id, account := range st.accounts {
		m.accounts[id] = account
		ch.accounts = append(ch.accounts, id)
	}
	for id, team := range st.teams {
		m.teams[id] = team
		ch.teams = append(ch.teams, id)
	}
	maps.Copy(m.submissions, st.submissions)
	m.mu.Unlock()

	m.broadcast(ch)
	return nil
}

// stage applies a single write to the staged copies. Caller holds m.mu
func (m *MemoryStore) stage(st *staged, w Write) error {
	switch w := w.(type) {
	case InsertTeam:
		if _, ok := m.stagedTeam(st, w.Team.ID); ok {
			return shared.ConflictError(fmt.Sprintf("team %s already exists", w.Team.ID))
		}
		st.teams[w.Team.ID] = w.Team.Clone()
	case PushMember:
		team, ok := m.stagedTeam(st, w.TeamID)
		if !ok {
			return shared.NotFoundError(fmt.Sprintf("team %s does not exist", w.TeamID))
		}
		if team.HasMember(w.Member.PrincipalID) {
			return shared.ConflictError(fmt.Sprintf("%s is already on team %s", w.Member.PrincipalID, w.TeamID))
		}
		if w.MaxMembers > 0 && len(team.Members) >= w.MaxMembers {
			return shared.ConflictError(fmt.Sprintf("team %s is full", w.TeamID))
		}
		team.Members = append(team.Members, w.Member)
		st.teams[w.TeamID] = team
	case PullMember:
		team, ok := m.stagedTeam(st, w.TeamID)
		if !ok {
			return shared.NotFoundError(fmt.Sprintf("team %s does not exist", w.TeamID))
		}
		members := team.Members[:0]
		for _, member := range team.Members {
			if member.PrincipalID != w.PrincipalID {
				members = append(members, member)
			}
		}
		team.Members = members
		st.teams[w.TeamID] = team
	case SetAccountTeam:
		account, ok := st.accounts[w.PrincipalID]
		if !ok {
			account, ok = m.accounts[w.PrincipalID]
		}
		if !ok {
			return shared.NotFoundError(fmt.Sprintf("no account for principal %s", w.PrincipalID))
		}
		account.TeamID = w.TeamID
		st.accounts[w.PrincipalID] = account
	case SetTeamStatus:
		team, ok := m.stagedTeam(st, w.TeamID)
		if !ok {
			return shared.NotFoundError(fmt.Sprintf("team %s does not exist", w.TeamID))
		}
		if team.Status != w.From {
			return shared.ConflictError(fmt.Sprintf("team %s is no longer %s", w.TeamID, w.From.Label()))
		}
		team.Status = w.To
		if w.Round1Score != nil {
			score := *w.Round1Score
			team.Round1Score = &score
		}
		st.teams[w.TeamID] = team
	case PutSubmission:
		st.submissions[w.Submission.ID] = cloneSubmission(w.Submission)
	default:
		return fmt.Errorf("unsupported write %T", w)
	}
	return nil
}

// stagedTeam returns a private copy of the team as the batch currently sees it
func (m *MemoryStore) stagedTeam(st *staged, teamID string) (shared.Team, bool) {
	if team, ok := st.teams[teamID]; ok {
		return team, true
	}
	team, ok := m.teams[teamID]
	if !ok {
		return shared.Team{}, false
	}
	return team.Clone(), true
}

// endregion

// region subscriptions

func (m *MemoryStore) WatchAccount(ctx context.Context, principalID string, handler func(shared.Account, error)) (Subscription, error) {
	matches := func(ch change) bool { return contains(ch.accounts, principalID) }
	return m.watch(ctx, matches, func(ctx context.Context) {
		handler(m.GetAccount(ctx, principalID))
	})
}

func (m *MemoryStore) WatchTeam(ctx context.Context, teamID string, handler func(shared.Team, error)) (Subscription, error) {
	matches := func(ch change) bool { return contains(ch.teams, teamID) }
	return m.watch(ctx, matches, func(ctx context.Context) {
		handler(m.GetTeam(ctx, teamID))
	})
}

func (m *MemoryStore) WatchTeams(ctx context.Context, handler func([]shared.Team, error)) (Subscription, error) {
	matches := func(ch change) bool { return len(ch.teams) > 0 }
	return m.watch(ctx, matches, func(ctx context.Context) {
		handler(m.ListTeams(ctx))
	})
}

// watch registers a watcher and starts its delivery goroutine. Notifications are coalesced: a slow handler sees the
// latest value rather than every intermediate one
func (m *MemoryStore) watch(ctx context.Context, matches func(change) bool, deliver func(context.Context)) (Subscription, error) {
	select {
	case <-m.closed:
		return nil, fmt.Errorf("memory store is closed")
	default:
	}

	w := &memoryWatcher{matches: matches, notify: make(chan struct{}, 1)}
	w.notify <- struct{}{}

	m.watchMu.Lock()
	m.watchers[w] = struct{}{}
	m.watchMu.Unlock()

	sub := newSubscription(ctx)
	go func() {
		defer sub.finish()
		defer func() {
			m.watchMu.Lock()
			delete(m.watchers, w)
			m.watchMu.Unlock()
		}()

		for {
			select {
			case <-sub.ctx.Done():
				return
			case <-m.closed:
				return
			case <-w.notify:
				if sub.ctx.Err() != nil {
					return
				}
				deliver(sub.ctx)
			}
		}
	}()
	return sub, nil
}

func (m *MemoryStore) broadcast(ch change) {
	m.watchMu.Lock()
	defer m.watchMu.Unlock()

	for w := range m.watchers {
		if !w.matches(ch) {
			continue
		}
		select {
		case w.notify <- struct{}{}:
		default:
		}
	}
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

// endregion

// Close stops every subscription
func (m *MemoryStore) Close(ctx context.Context) error {
	m.once.Do(func() { close(m.closed) })
	return nil
}

/* store_interface.go
 * Contains the store Interface for dependency injection and testing, the write types that can be committed together
 * in an atomic batch, and the subscription handle returned by the Watch methods
 * Authors: Zachary Bower
 */

package store

import (
	"context"
	"hackathon-engine/api/shared"
)

// Interface defines the document store operations the core needs: point reads and writes, equality queries,
// atomic multi-document batches and change subscriptions.
type Interface interface {
	// Accounts
	GetAccount(ctx context.Context, principalID string) (shared.Account, error)
	FindAccountByEmail(ctx context.Context, email string) (shared.Account, error)
	CreateAccount(ctx context.Context, account shared.Account) (bool, error)

	// Teams
	GetTeam(ctx context.Context, teamID string) (shared.Team, error)
	ListTeams(ctx context.Context) ([]shared.Team, error)
	ListTeamsByStatus(ctx context.Context, status shared.Status) ([]shared.Team, error)
	UpdateTeamStatus(ctx context.Context, teamID string, from shared.Status, to shared.Status) error

	// Round config
	GetRoundConfig(ctx context.Context, round int) (shared.RoundConfig, error)
	StoreRoundConfig(ctx context.Context, cfg shared.RoundConfig) error

	// Submissions
	GetSubmission(ctx context.Context, teamID string, round int, kind shared.SubmissionKind) (shared.Submission, error)
	ListSubmissions(ctx context.Context, teamID string) ([]shared.Submission, error)

	// CommitBatch applies every write in the batch or none of them
	CommitBatch(ctx context.Context, batch Batch) error

	// Subscriptions deliver the current value immediately and again after every change until unsubscribed
	WatchAccount(ctx context.Context, principalID string, handler func(shared.Account, error)) (Subscription, error)
	WatchTeam(ctx context.Context, teamID string, handler func(shared.Team, error)) (Subscription, error)
	WatchTeams(ctx context.Context, handler func([]shared.Team, error)) (Subscription, error)

	Close(ctx context.Context) error
}

// Ensure both backends implement Interface
var (
	_ Interface = (*Store)(nil)
	_ Interface = (*MemoryStore)(nil)
)

// Write is a single document write that can be part of a Batch
type Write interface{ isWrite() }

// InsertTeam creates a team document. Fails with a conflict if the id is taken
type InsertTeam struct {
	Team shared.Team
}

// PushMember appends a roster entry. The write only applies while the principal is not on the roster and, when
// MaxMembers is positive, the roster has fewer than MaxMembers entries. Otherwise the batch fails with a conflict
type PushMember struct {
	TeamID     string
	Member     shared.Member
	MaxMembers int
}

// PullMember removes the roster entry for a principal
type PullMember struct {
	TeamID      string
	PrincipalID string
}

// SetAccountTeam sets an account's team reference. An empty TeamID clears it
type SetAccountTeam struct {
	PrincipalID string
	TeamID      string
}

// SetTeamStatus moves a team from one status to another. The write only applies if the stored status still
// equals From, otherwise the batch fails with a conflict. Round1Score is written when non nil
type SetTeamStatus struct {
	TeamID      string
	From        shared.Status
	To          shared.Status
	Round1Score *int
}

// PutSubmission creates or overwrites a ledger entry
type PutSubmission struct {
	Submission shared.Submission
}

func (InsertTeam) isWrite()     {}
func (PushMember) isWrite()     {}
func (PullMember) isWrite()     {}
func (SetAccountTeam) isWrite() {}
func (SetTeamStatus) isWrite()  {}
func (PutSubmission) isWrite()  {}

// Batch is an ordered list of writes committed atomically
type Batch struct {
	Writes []Write
}

// NewBatch creates a batch from the given writes
func NewBatch(writes ...Write) Batch {
	return Batch{Writes: writes}
}

// Add appends writes to the batch
func (b *Batch) Add(writes ...Write) {
	b.Writes = append(b.Writes, writes...)
}

// Subscription is the handle returned by the Watch methods
type Subscription interface {
	// Unsubscribe stops delivery. It does not wait for an in-flight handler call, use Done for that
	Unsubscribe()
	// Done is closed once the handler will not be called again
	Done() <-chan struct{}
}

type subscription struct {
	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

func newSubscription(parent context.Context) *subscription {
	ctx, cancel := context.WithCancel(parent)
	return &subscription{ctx: ctx, cancel: cancel, done: make(chan struct{})}
}

func (s *subscription) Unsubscribe() {
	s.cancel()
}

func (s *subscription) Done() <-chan struct{} {
	return s.done
}

func (s *subscription) finish() {
	s.cancel()
	close(s.done)
}

/* api.go
 * This file contains the API struct that the presentation layers (bot, web) call into. Every invariant of the team
 * lifecycle is enforced here or in api/logic, never in the callers. Operations are split by concern into
 * accounts.go, membership.go, submissions.go, moderation.go and watch.go
 * Authors: Zachary Bower
 */

package api

import (
	"errors"
	"fmt"
	"hackathon-engine/api/logic"
	"hackathon-engine/api/metrics"
	"hackathon-engine/api/shared"
	"hackathon-engine/api/store"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// maxTransitionAttempts bounds how often a status write that lost a compare and set race is re-evaluated
const maxTransitionAttempts = 3

// API provides methods for interacting with the hackathon engine
type API struct {
	Store      store.Interface
	Admins     shared.AdminSet
	MaxMembers int
	Logger     *zap.Logger
	Timer      logic.TimerGate

	now   func() time.Time
	newID func() string
}

// Option configures optional API dependencies
type Option func(*API)

// WithLogger sets the logger. Defaults to a no-op logger
func WithLogger(logger *zap.Logger) Option {
	return func(a *API) { a.Logger = logger }
}

// WithMaxMembers sets the roster limit. Defaults to shared.DefaultMaxMembers
func WithMaxMembers(n int) Option {
	return func(a *API) { a.MaxMembers = n }
}

// WithClock replaces the wall clock, used by the timer gate and submission timestamps
func WithClock(now func() time.Time) Option {
	return func(a *API) { a.now = now }
}

// WithIDGenerator replaces the team id generator. Defaults to random UUIDs
func WithIDGenerator(newID func() string) Option {
	return func(a *API) { a.newID = newID }
}

// NewAPI creates a new API instance backed by the given store
// Preconditions: Receives a store, the set of administrator principal ids and any options
// Postconditions: Returns the API, or an error if the configuration is invalid
func NewAPI(s store.Interface, admins shared.AdminSet, opts ...Option) (*API, error) {
	if s == nil {
		return nil, fmt.Errorf("store is required")
	}

	a := &API{
		Store:      s,
		Admins:     admins,
		MaxMembers: shared.DefaultMaxMembers,
		Logger:     zap.NewNop(),
		now:        time.Now,
		newID:      uuid.NewString,
	}
	for _, opt := range opts {
		opt(a)
	}

	if a.MaxMembers < 1 {
		return nil, fmt.Errorf("max members must be at least 1, got %d", a.MaxMembers)
	}
	if a.Admins == nil {
		a.Admins = shared.NewAdminSet()
	}
	if a.Logger == nil {
		a.Logger = zap.NewNop()
	}
	a.Timer = logic.NewTimerGate(a.now)
	return a, nil
}

// IsAdmin reports whether the principal is a trusted administrator
func (a *API) IsAdmin(principalID string) bool {
	return a.Admins.IsAdmin(principalID)
}

func (a *API) requireAdmin(callerID string) error {
	if !a.IsAdmin(callerID) {
		return shared.PermissionError("only administrators can do that")
	}
	return nil
}

// collaborator passes domain errors through unchanged and wraps anything else as CollaboratorUnavailable
func (a *API) collaborator(op string, err error) error {
	if err == nil {
		return nil
	}
	var domainErr *shared.Error
	if errors.As(err, &domainErr) {
		return err
	}
	a.Logger.Error("store call failed", zap.String("op", op), zap.Error(err))
	return shared.UnavailableError(op, err)
}

// retryOnConflict re-runs fn while it fails with a conflict, which is how a lost compare and set status write
// surfaces. fn must re-read everything it depends on
func retryOnConflict(fn func() error) error {
	var err error
	for attempt := 0; attempt < maxTransitionAttempts; attempt++ {
		err = fn()
		if !errors.Is(err, shared.ErrConflict) {
			return err
		}
	}
	return err
}

// result converts an operation error into a metrics label
func result(err error) string {
	return metrics.ResultOf(err, func(err error) bool {
		return shared.CodeOf(err) != shared.CodeUnavailable
	})
}

/* rounds.go
 * Contains round configuration authoring and the participant facing round status
 * Authors: Zachary Bower
 */

package api

import (
	"context"
	"fmt"
	"hackathon-engine/api/logic"
	"hackathon-engine/api/shared"
	"time"

	"go.uber.org/zap"
)

// SetRoundConfig creates or replaces a round's configuration
// Preconditions: Receives a context, the caller's principal id and the config
// Postconditions: Stores the normalized config (answer keys lower case, options upper case, default duration) and
// returns it, or returns a permission or validation error
func (a *API) SetRoundConfig(ctx context.Context, callerID string, cfg shared.RoundConfig) (shared.RoundConfig, error) {
	if err := a.requireAdmin(callerID); err != nil {
		return shared.RoundConfig{}, err
	}
	cfg, err := normalizeRoundConfig(cfg)
	if err != nil {
		return shared.RoundConfig{}, err
	}
	if err := a.Store.StoreRoundConfig(ctx, cfg); err != nil {
		return shared.RoundConfig{}, a.collaborator("failed to store round config", err)
	}

	a.Logger.Info("round configured", zap.Int("round", cfg.Round), zap.Int("questions", len(cfg.AnswerKey)))
	return cfg, nil
}

// ScheduleRound sets a round's start time and duration, creating the config if the round has none yet
// Preconditions: Receives a context, the caller's principal id, the round, its start and its length in minutes (0
// selects the default length)
// Postconditions: Returns the stored config, or a permission or validation error
func (a *API) ScheduleRound(ctx context.Context, callerID string, round int, start time.Time, minutes int) (shared.RoundConfig, error) {
	if err := a.requireAdmin(callerID); err != nil {
		return shared.RoundConfig{}, err
	}
	if start.IsZero() {
		return shared.RoundConfig{}, shared.ValidationError("start time is required")
	}

	cfg, err := a.Store.GetRoundConfig(ctx, round)
	if err != nil {
		if shared.CodeOf(err) != shared.CodeNotFound {
			return shared.RoundConfig{}, a.collaborator("failed to load round config", err)
		}
		cfg = shared.RoundConfig{Round: round}
	}

	start = start.UTC()
	cfg.StartTime = &start
	cfg.DurationMinutes = minutes
	return a.SetRoundConfig(ctx, callerID, cfg)
}

// RoundStatus reports whether a round's window is open and how long is left, recomputed on every call
// Preconditions: Receives a context and the round number
// Postconditions: Returns the round view. An unconfigured round is reported as not started
func (a *API) RoundStatus(ctx context.Context, round int) (RoundView, error) {
	if round < 1 {
		return RoundView{}, shared.ValidationError(fmt.Sprintf("invalid round %d", round))
	}

	view := RoundView{Round: round, State: logic.WindowUnscheduled}
	cfg, err := a.Store.GetRoundConfig(ctx, round)
	if err != nil {
		if shared.CodeOf(err) == shared.CodeNotFound {
			return view, nil
		}
		return RoundView{}, a.collaborator("failed to load round config", err)
	}

	view.State = a.Timer.State(cfg)
	view.Remaining = a.Timer.Remaining(cfg)
	if cfg.Scheduled() {
		start := *cfg.StartTime
		end := start.Add(cfg.Duration())
		view.StartTime = &start
		view.EndsAt = &end
	}
	if view.State == logic.WindowOpen {
		view.Questions = cfg.Questions
		view.CodingPrompt = cfg.CodingPrompt
	}
	return view, nil
}

func normalizeRoundConfig(cfg shared.RoundConfig) (shared.RoundConfig, error) {
	if cfg.Round < 1 {
		return shared.RoundConfig{}, shared.ValidationError(fmt.Sprintf("invalid round %d", cfg.Round))
	}
	if cfg.DurationMinutes < 0 {
		return shared.RoundConfig{}, shared.ValidationError("duration can not be negative")
	}
	if cfg.DurationMinutes == 0 {
		cfg.DurationMinutes = shared.DefaultRoundMinutes
	}

	key := make(map[string]string, len(cfg.AnswerKey))
	for q, option := range cfg.AnswerKey {
		q, option = logic.NormalizeAnswer(q, option)
		if q == "" || option == "" {
			return shared.RoundConfig{}, shared.ValidationError("answer key entries need a question and an option")
		}
		if _, ok := key[q]; ok {
			return shared.RoundConfig{}, shared.ValidationError(fmt.Sprintf("question '%s' appears more than once in the answer key", q))
		}
		key[q] = option
	}
	cfg.AnswerKey = key
	return cfg, nil
}

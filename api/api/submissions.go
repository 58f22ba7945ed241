/* submissions.go
 * Contains the round 1 and round 2 submission workflows. Round 1 is scored against the answer key and moves the
 * team to pending_verification in the same batch as the ledger entries
 * Authors: Zachary Bower
 */

package api

import (
	"context"
	"fmt"
	"hackathon-engine/api/logic"
	"hackathon-engine/api/metrics"
	"hackathon-engine/api/shared"
	"hackathon-engine/api/store"
	"net/url"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// SubmitRound1 records a team's MCQ answers and code, scores the answers and flags the team for review
// Preconditions: Receives a context, the caller's principal id, the team id, the answers keyed by question and the
// code text
// Postconditions: Returns the scored MCQ ledger entry, or an error. Answers are normalized the same way as the
// answer key before scoring and storing. Permission error if the caller is not a member,
// time window error if round 1 is not open, invalid transition error if the team's status does not allow it.
// Nothing is written on error
func (a *API) SubmitRound1(ctx context.Context, callerID string, teamID string, answers map[string]string, code string) (sub shared.Submission, err error) {
	defer func() { metrics.Submissions.WithLabelValues("1", result(err)).Inc() }()

	answers, err = logic.NormalizeAnswers(answers)
	if err != nil {
		return shared.Submission{}, err
	}

	err = retryOnConflict(func() error {
		team, err := a.GetTeam(ctx, teamID)
		if err != nil {
			return err
		}
		if !team.HasMember(callerID) {
			return shared.PermissionError("only team members can submit")
		}

		cfg, err := a.openRound(ctx, 1)
		if err != nil {
			return err
		}

		next, err := logic.Apply(team.Status, logic.TriggerSubmitRound1)
		if err != nil {
			return err
		}

		score := logic.ScoreMCQ(answers, cfg.AnswerKey)
		submittedAt := a.now().UTC()
		sub = shared.Submission{
			ID:          shared.SubmissionID(team.ID, 1, shared.KindMCQ),
			TeamID:      team.ID,
			Round:       1,
			Kind:        shared.KindMCQ,
			Answers:     answers,
			Score:       &score,
			SubmittedAt: submittedAt,
		}
		codeSub := shared.Submission{
			ID:          shared.SubmissionID(team.ID, 1, shared.KindCode),
			TeamID:      team.ID,
			Round:       1,
			Kind:        shared.KindCode,
			Code:        strings.TrimSpace(code),
			SubmittedAt: submittedAt,
		}

		batch := store.NewBatch(
			store.PutSubmission{Submission: sub},
			store.PutSubmission{Submission: codeSub},
			store.SetTeamStatus{TeamID: team.ID, From: team.Status, To: next, Round1Score: &score},
		)
		if err := a.Store.CommitBatch(ctx, batch); err != nil {
			return a.collaborator("failed to record round 1 submission", err)
		}

		a.Logger.Info("round 1 submitted",
			zap.String("team_id", team.ID),
			zap.String("principal_id", callerID),
			zap.Int("score", score),
			zap.String("status", string(next)),
		)
		return nil
	})
	if err != nil {
		return shared.Submission{}, err
	}
	return sub, nil
}

// SubmitRound2 records a team's round 2 project link
// Preconditions: Receives a context, the caller's principal id, the team id and the link
// Postconditions: Returns the ledger entry, or an error. Validation error if the link is empty or not an http(s) URL,
// invalid transition error unless the team is in round 2, time window error if round 2 is scheduled and not open
func (a *API) SubmitRound2(ctx context.Context, callerID string, teamID string, link string) (sub shared.Submission, err error) {
	defer func() { metrics.Submissions.WithLabelValues("2", result(err)).Inc() }()

	link, err = parseLink(link)
	if err != nil {
		return shared.Submission{}, err
	}

	err = retryOnConflict(func() error {
		team, err := a.GetTeam(ctx, teamID)
		if err != nil {
			return err
		}
		if !team.HasMember(callerID) {
			return shared.PermissionError("only team members can submit")
		}
		if team.Status != shared.StatusRound2 {
			return shared.InvalidTransitionError(fmt.Sprintf("cannot submit round 2 for a team that is %s", team.Status.Label()))
		}

		// Round 2 is only timed when an admin has scheduled it
		cfg, err := a.Store.GetRoundConfig(ctx, 2)
		switch {
		case err == nil && cfg.Scheduled():
			if state := a.Timer.State(cfg); state != logic.WindowOpen {
				return windowError(2, state)
			}
		case err != nil && shared.CodeOf(err) != shared.CodeNotFound:
			return a.collaborator("failed to load round 2 config", err)
		}

		sub = shared.Submission{
			ID:          shared.SubmissionID(team.ID, 2, shared.KindLink),
			TeamID:      team.ID,
			Round:       2,
			Kind:        shared.KindLink,
			Link:        link,
			SubmittedAt: a.now().UTC(),
		}

		// The status write is a no-op guard so the link is only stored while the team is still in round 2
		batch := store.NewBatch(
			store.PutSubmission{Submission: sub},
			store.SetTeamStatus{TeamID: team.ID, From: shared.StatusRound2, To: shared.StatusRound2},
		)
		if err := a.Store.CommitBatch(ctx, batch); err != nil {
			return a.collaborator("failed to record round 2 submission", err)
		}

		a.Logger.Info("round 2 submitted", zap.String("team_id", team.ID), zap.String("principal_id", callerID))
		return nil
	})
	if err != nil {
		return shared.Submission{}, err
	}
	return sub, nil
}

// openRound loads a round's config and fails with a time window error unless its window is open right now
func (a *API) openRound(ctx context.Context, round int) (shared.RoundConfig, error) {
	cfg, err := a.Store.GetRoundConfig(ctx, round)
	if err != nil {
		if shared.CodeOf(err) == shared.CodeNotFound {
			return shared.RoundConfig{}, windowError(round, logic.WindowUnscheduled)
		}
		return shared.RoundConfig{}, a.collaborator(fmt.Sprintf("failed to load round %d config", round), err)
	}
	if state := a.Timer.State(cfg); state != logic.WindowOpen {
		return shared.RoundConfig{}, windowError(round, state)
	}
	return cfg, nil
}

func windowError(round int, state logic.WindowState) error {
	switch state {
	case logic.WindowUnscheduled:
		return shared.TimeWindowError(fmt.Sprintf("round %d has not been scheduled", round))
	case logic.WindowPending:
		return shared.TimeWindowError(fmt.Sprintf("round %d has not started yet", round))
	default:
		return shared.TimeWindowError(fmt.Sprintf("round %d submissions are closed", round))
	}
}

func parseLink(link string) (string, error) {
	link = strings.TrimSpace(link)
	if link == "" {
		return "", shared.ValidationError("link is required")
	}
	u, err := url.Parse(link)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", shared.ValidationError(strconv.Quote(link) + " is not an http(s) link")
	}
	return link, nil
}

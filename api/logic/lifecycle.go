/* lifecycle.go
 * Contains the team lifecycle state machine. The transition table is the only place that decides which
 * status a team may move to, every writer (participant submission, admin moderation, payment) goes through Apply
 * Authors: Zachary Bower
 */

package logic

import (
	"fmt"
	"hackathon-engine/api/shared"
)

// Trigger is an event that moves a team between statuses
type Trigger string

const (
	TriggerConfirmPayment Trigger = "confirm_payment"
	TriggerSubmitRound1   Trigger = "submit_round1"
	TriggerAdminAdvance   Trigger = "admin_advance"
	TriggerAdminEliminate Trigger = "admin_eliminate"
)

// transitions maps trigger -> source status -> new status. Anything absent is invalid
var transitions = map[Trigger]map[shared.Status]shared.Status{
	TriggerConfirmPayment: {
		shared.StatusPendingPayment: shared.StatusRegistered,
	},
	TriggerSubmitRound1: {
		shared.StatusRegistered: shared.StatusPendingVerification,
		// re-submission before the admin reviews the team overwrites the previous attempt
		shared.StatusPendingVerification: shared.StatusPendingVerification,
	},
	TriggerAdminAdvance: {
		shared.StatusRegistered:          shared.StatusRound2,
		shared.StatusPendingVerification: shared.StatusRound2,
		shared.StatusRound2:              shared.StatusRound3,
	},
	TriggerAdminEliminate: {
		shared.StatusRegistered:          shared.StatusEliminated,
		shared.StatusPendingVerification: shared.StatusEliminated,
		shared.StatusRound2:              shared.StatusEliminated,
	},
}

// Apply returns the status a team moves to when trigger fires from the current status
// Preconditions: Receives the team's current status and a trigger
// Postconditions: Returns the new status, or an InvalidTransitionError if the trigger is not valid from current.
// Apply never mutates anything, the caller writes the returned status
func Apply(current shared.Status, trigger Trigger) (shared.Status, error) {
	sources, ok := transitions[trigger]
	if !ok {
		return current, shared.InvalidTransitionError(fmt.Sprintf("unknown trigger '%s'", trigger))
	}
	next, ok := sources[current]
	if !ok {
		return current, shared.InvalidTransitionError(fmt.Sprintf("cannot %s a team that is %s", trigger.verb(), current.Label()))
	}
	return next, nil
}

// CanApply reports whether trigger is valid from the current status
func CanApply(current shared.Status, trigger Trigger) bool {
	_, err := Apply(current, trigger)
	return err == nil
}

// SourceStatuses returns the statuses a trigger may fire from, in lifecycle order
func SourceStatuses(trigger Trigger) []shared.Status {
	var res []shared.Status
	for _, s := range shared.Statuses {
		if _, ok := transitions[trigger][s]; ok {
			res = append(res, s)
		}
	}
	return res
}

// IsTerminal reports whether no trigger can move a team out of the status
func IsTerminal(status shared.Status) bool {
	for _, sources := range transitions {
		if next, ok := sources[status]; ok && next != status {
			return false
		}
	}
	return true
}

func (t Trigger) verb() string {
	switch t {
	case TriggerConfirmPayment:
		return "confirm payment for"
	case TriggerSubmitRound1:
		return "submit round 1 for"
	case TriggerAdminAdvance:
		return "advance"
	case TriggerAdminEliminate:
		return "eliminate"
	default:
		return string(t)
	}
}

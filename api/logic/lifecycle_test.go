/* lifecycle_test.go
 * Contains unit tests for lifecycle.go
 * Authors: Zachary Bower
 */

package logic

import (
	"errors"
	"hackathon-engine/api/shared"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allTriggers = []Trigger{TriggerConfirmPayment, TriggerSubmitRound1, TriggerAdminAdvance, TriggerAdminEliminate}

// region Apply tests

func TestApply_ValidTransitions(t *testing.T) {
	tests := []struct {
		from    shared.Status
		trigger Trigger
		want    shared.Status
	}{
		{shared.StatusPendingPayment, TriggerConfirmPayment, shared.StatusRegistered},
		{shared.StatusRegistered, TriggerSubmitRound1, shared.StatusPendingVerification},
		{shared.StatusPendingVerification, TriggerSubmitRound1, shared.StatusPendingVerification},
		{shared.StatusRegistered, TriggerAdminAdvance, shared.StatusRound2},
		{shared.StatusPendingVerification, TriggerAdminAdvance, shared.StatusRound2},
		{shared.StatusRound2, TriggerAdminAdvance, shared.StatusRound3},
		{shared.StatusRegistered, TriggerAdminEliminate, shared.StatusEliminated},
		{shared.StatusPendingVerification, TriggerAdminEliminate, shared.StatusEliminated},
		{shared.StatusRound2, TriggerAdminEliminate, shared.StatusEliminated},
	}

	for _, tt := range tests {
		t.Run(string(tt.trigger)+"/"+string(tt.from), func(t *testing.T) {
			got, err := Apply(tt.from, tt.trigger)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

// TestApply_InvalidTransitionsLeaveStatusUnchanged walks every status/trigger pair not in the table
func TestApply_InvalidTransitionsLeaveStatusUnchanged(t *testing.T) {
	valid := map[Trigger][]shared.Status{
		TriggerConfirmPayment: {shared.StatusPendingPayment},
		TriggerSubmitRound1:   {shared.StatusRegistered, shared.StatusPendingVerification},
		TriggerAdminAdvance:   {shared.StatusRegistered, shared.StatusPendingVerification, shared.StatusRound2},
		TriggerAdminEliminate: {shared.StatusRegistered, shared.StatusPendingVerification, shared.StatusRound2},
	}

	for _, trigger := range allTriggers {
		for _, status := range shared.Statuses {
			if contains(valid[trigger], status) {
				continue
			}
			got, err := Apply(status, trigger)
			assert.Truef(t, errors.Is(err, shared.ErrInvalidTransition), "%s from %s should be invalid, got %v", trigger, status, err)
			assert.Equal(t, status, got)
		}
	}
}

func TestApply_ConfirmPaymentTwiceFails(t *testing.T) {
	status, err := Apply(shared.StatusPendingPayment, TriggerConfirmPayment)
	require.NoError(t, err)

	_, err = Apply(status, TriggerConfirmPayment)
	assert.ErrorIs(t, err, shared.ErrInvalidTransition)
	assert.Contains(t, err.Error(), "registered")
}

func TestApply_UnknownTrigger(t *testing.T) {
	got, err := Apply(shared.StatusRegistered, Trigger("promote"))
	assert.ErrorIs(t, err, shared.ErrInvalidTransition)
	assert.Equal(t, shared.StatusRegistered, got)
}

// endregion

// region helper tests

func TestSourceStatuses_Advance(t *testing.T) {
	assert.Equal(t, []shared.Status{shared.StatusRegistered, shared.StatusPendingVerification, shared.StatusRound2}, SourceStatuses(TriggerAdminAdvance))
}

func TestIsTerminal(t *testing.T) {
	assert.True(t, IsTerminal(shared.StatusRound3))
	assert.True(t, IsTerminal(shared.StatusEliminated))
	assert.False(t, IsTerminal(shared.StatusPendingPayment))
	assert.False(t, IsTerminal(shared.StatusPendingVerification))
}

func TestCanApply(t *testing.T) {
	assert.True(t, CanApply(shared.StatusRound2, TriggerAdminAdvance))
	assert.False(t, CanApply(shared.StatusRound3, TriggerAdminEliminate))
}

// endregion

func contains(statuses []shared.Status, s shared.Status) bool {
	for _, v := range statuses {
		if v == s {
			return true
		}
	}
	return false
}

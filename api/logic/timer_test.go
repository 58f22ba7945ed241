/* timer_test.go
 * Contains unit tests for timer.go
 * Authors: Zachary Bower
 */

package logic

import (
	"hackathon-engine/api/shared"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var roundStart = time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)

func scheduledConfig(minutes int) shared.RoundConfig {
	start := roundStart
	return shared.RoundConfig{Round: 1, StartTime: &start, DurationMinutes: minutes}
}

func gateAt(t time.Time) TimerGate {
	return NewTimerGate(func() time.Time { return t })
}

// region WindowAt tests

func TestWindowAt_Boundaries(t *testing.T) {
	cfg := scheduledConfig(30)

	assert.Equal(t, WindowOpen, WindowAt(cfg, roundStart))
	assert.Equal(t, WindowOpen, WindowAt(cfg, roundStart.Add(29*time.Minute+59*time.Second)))
	assert.Equal(t, WindowClosed, WindowAt(cfg, roundStart.Add(30*time.Minute)))
	assert.Equal(t, WindowClosed, WindowAt(cfg, roundStart.Add(48*time.Hour)))
}

func TestWindowAt_BeforeStartIsPending(t *testing.T) {
	assert.Equal(t, WindowPending, WindowAt(scheduledConfig(30), roundStart.Add(-time.Second)))
}

func TestWindowAt_Unscheduled(t *testing.T) {
	assert.Equal(t, WindowUnscheduled, WindowAt(shared.RoundConfig{Round: 1, DurationMinutes: 30}, roundStart))
}

// TestWindowAt_DefaultDuration tests that a zero duration falls back to the default round length
func TestWindowAt_DefaultDuration(t *testing.T) {
	cfg := scheduledConfig(0)
	assert.Equal(t, WindowOpen, WindowAt(cfg, roundStart.Add(time.Duration(shared.DefaultRoundMinutes-1)*time.Minute)))
	assert.Equal(t, WindowClosed, WindowAt(cfg, roundStart.Add(time.Duration(shared.DefaultRoundMinutes)*time.Minute)))
}

// endregion

// region TimerGate tests

// TestTimerGate_RecomputesOnEveryCheck tests that the gate follows the clock without caching
func TestTimerGate_RecomputesOnEveryCheck(t *testing.T) {
	now := roundStart.Add(10 * time.Minute)
	gate := NewTimerGate(func() time.Time { return now })
	cfg := scheduledConfig(30)

	assert.True(t, gate.IsOpen(cfg))
	now = roundStart.Add(31 * time.Minute)
	assert.False(t, gate.IsOpen(cfg))
	assert.Equal(t, WindowClosed, gate.State(cfg))
}

func TestTimerGate_Remaining(t *testing.T) {
	cfg := scheduledConfig(30)

	assert.Equal(t, 20*time.Minute, gateAt(roundStart.Add(10*time.Minute)).Remaining(cfg))
	assert.Equal(t, time.Duration(0), gateAt(roundStart.Add(40*time.Minute)).Remaining(cfg))
	assert.Equal(t, time.Duration(0), gateAt(roundStart).Remaining(shared.RoundConfig{Round: 1}))
}

func TestTimerGate_NilClockUsesWallClock(t *testing.T) {
	start := time.Now().Add(-time.Minute)
	cfg := shared.RoundConfig{Round: 1, StartTime: &start, DurationMinutes: 30}

	assert.True(t, TimerGate{}.IsOpen(cfg))
}

// endregion

/* scoring_test.go
 * Contains unit tests for scoring.go
 * Authors: Zachary Bower
 */

package logic

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var answerKey = map[string]string{"q1": "A", "q2": "B", "q3": "C"}

func TestScoreMCQ_PartiallyCorrect(t *testing.T) {
	score := ScoreMCQ(map[string]string{"q1": "A", "q2": "X", "q3": "C"}, answerKey)
	assert.Equal(t, 2, score)
}

func TestScoreMCQ_AllCorrect(t *testing.T) {
	assert.Equal(t, 3, ScoreMCQ(map[string]string{"q1": "A", "q2": "B", "q3": "C"}, answerKey))
}

// TestScoreMCQ_UnansweredAndExtraneous tests that missing and unknown questions are ignored
func TestScoreMCQ_UnansweredAndExtraneous(t *testing.T) {
	score := ScoreMCQ(map[string]string{"q1": "A", "q9": "A", "bonus": "C"}, answerKey)
	assert.Equal(t, 1, score)
}

func TestScoreMCQ_EmptyInputs(t *testing.T) {
	assert.Equal(t, 0, ScoreMCQ(nil, answerKey))
	assert.Equal(t, 0, ScoreMCQ(map[string]string{"q1": "A"}, nil))
}

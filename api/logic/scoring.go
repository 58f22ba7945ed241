/* scoring.go
 * Contains the auto scoring used for the round 1 multiple choice questions
 * Authors: Zachary Bower
 */

package logic

// ScoreMCQ counts the answers that match the answer key
// Preconditions: Receives the submitted answers and the answer key, both keyed by question (e.g. "q1")
// Postconditions: Returns the number of keys in answerKey whose submitted answer matches. Unanswered and
// extraneous keys are not counted and carry no penalty
func ScoreMCQ(answers map[string]string, answerKey map[string]string) int {
	score := 0
	for question, correct := range answerKey {
		if given, ok := answers[question]; ok && given == correct {
			score++
		}
	}
	return score
}

/* models.go
 * This file contain the structs returned to api consumers that are not stored documents
 * Authors: Zachary Bower
 */

package api

import (
	"hackathon-engine/api/logic"
	"time"
)

// RoundView is the participant facing state of a round. Questions and the coding prompt are only included while
// the window is open, the answer key is never included
type RoundView struct {
	Round        int               `json:"round"`
	State        logic.WindowState `json:"state"`
	StartTime    *time.Time        `json:"start_time,omitempty"`
	EndsAt       *time.Time        `json:"ends_at,omitempty"`
	Remaining    time.Duration     `json:"remaining_ns"`
	Questions    string            `json:"questions,omitempty"`
	CodingPrompt string            `json:"coding_question,omitempty"`
}

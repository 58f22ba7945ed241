/* models.go
 * This file contain the structs and helper functions that are shared between sub packages. The bson tags
 * describe how each record is laid out in the document store
 * Authors: Zachary Bower
 */

package shared

import (
	"fmt"
	"strings"
	"time"
)

// DefaultMaxMembers is used when no roster limit is configured
const DefaultMaxMembers = 4

// DefaultRoundMinutes is the duration applied to a round that is scheduled without one
const DefaultRoundMinutes = 30

// Status is the lifecycle status of a team
type Status string

const (
	StatusPendingPayment      Status = "pending_payment"
	StatusRegistered          Status = "registered"
	StatusPendingVerification Status = "pending_verification"
	StatusRound2              Status = "round_2"
	StatusRound3              Status = "round_3"
	StatusEliminated          Status = "eliminated"
)

// Statuses lists every team status in lifecycle order
var Statuses = []Status{
	StatusPendingPayment,
	StatusRegistered,
	StatusPendingVerification,
	StatusRound2,
	StatusRound3,
	StatusEliminated,
}

// ParseStatus converts user input such as "round 2" or "ROUND_2" into a Status
// Preconditions: Receives a string containing a status name
// Postconditions: Returns the matching Status, or an error if the string is not a known status
func ParseStatus(str string) (Status, error) {
	normalized := strings.ToLower(strings.TrimSpace(str))
	normalized = strings.ReplaceAll(normalized, " ", "_")
	for _, s := range Statuses {
		if string(s) == normalized {
			return s, nil
		}
	}
	return "", fmt.Errorf("unknown team status '%s'", str)
}

// Label returns a human readable version of the status, e.g. "pending payment"
func (s Status) Label() string {
	return strings.ReplaceAll(string(s), "_", " ")
}

// User is the principal interacting with the system through one of the presentation layers
type User struct {
	UserID   string
	Username string
	Email    string
}

// Account is the ParticipantAccount record, one per authenticated principal
type Account struct {
	ID     string `bson:"_id" json:"id"`
	Email  string `bson:"email" json:"email"`
	TeamID string `bson:"team_id,omitempty" json:"team_id,omitempty"` // empty when the account has no team
}

// HasTeam reports whether the account currently references a team
func (a Account) HasTeam() bool {
	return a.TeamID != ""
}

// Member is a single roster entry
type Member struct {
	PrincipalID string `bson:"principal_id" json:"principal_id"`
	Email       string `bson:"email" json:"email"`
}

// Team is the roster, leader, lifecycle status and round 1 score of a registered team
type Team struct {
	ID          string    `bson:"_id" json:"id"`
	Name        string    `bson:"name" json:"name"`
	LeaderID    string    `bson:"leader_id" json:"leader_id"`
	Members     []Member  `bson:"members" json:"members"`
	Status      Status    `bson:"status" json:"status"`
	Round1Score *int      `bson:"round1_score" json:"round1_score"`
	CreatedAt   time.Time `bson:"created_at" json:"created_at"`
}

// HasMember reports whether the principal is on the roster
func (t Team) HasMember(principalID string) bool {
	for _, m := range t.Members {
		if m.PrincipalID == principalID {
			return true
		}
	}
	return false
}

// HasEmail reports whether a roster entry uses the email. Comparison is case insensitive
func (t Team) HasEmail(email string) bool {
	for _, m := range t.Members {
		if strings.EqualFold(m.Email, email) {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the team so callers can not mutate shared roster slices
func (t Team) Clone() Team {
	c := t
	c.Members = append([]Member(nil), t.Members...)
	if t.Round1Score != nil {
		score := *t.Round1Score
		c.Round1Score = &score
	}
	return c
}

// RoundConfig is the admin authored configuration for a single round
type RoundConfig struct {
	Round           int               `bson:"_id" json:"round"`
	Questions       string            `bson:"questions" json:"questions"`
	AnswerKey       map[string]string `bson:"answers" json:"answers,omitempty"`
	CodingPrompt    string            `bson:"coding_question" json:"coding_question"`
	StartTime       *time.Time        `bson:"start_time" json:"start_time"` // nil means the round is not scheduled
	DurationMinutes int               `bson:"timer_minutes" json:"timer_minutes"`
}

// Scheduled reports whether the round has a start time
func (c RoundConfig) Scheduled() bool {
	return c.StartTime != nil
}

// Duration returns the length of the submission window, falling back to DefaultRoundMinutes
func (c RoundConfig) Duration() time.Duration {
	minutes := c.DurationMinutes
	if minutes <= 0 {
		minutes = DefaultRoundMinutes
	}
	return time.Duration(minutes) * time.Minute
}

// SubmissionKind is the type of payload held by a ledger entry
type SubmissionKind string

const (
	KindMCQ  SubmissionKind = "mcq"
	KindCode SubmissionKind = "code"
	KindLink SubmissionKind = "link"
)

// Submission is a single SubmissionLedger entry, keyed by team, round and kind
type Submission struct {
	ID          string            `bson:"_id" json:"id"`
	TeamID      string            `bson:"team_id" json:"team_id"`
	Round       int               `bson:"round" json:"round"`
	Kind        SubmissionKind    `bson:"kind" json:"kind"`
	Answers     map[string]string `bson:"answers,omitempty" json:"answers,omitempty"`
	Code        string            `bson:"code,omitempty" json:"code,omitempty"`
	Link        string            `bson:"link,omitempty" json:"link,omitempty"`
	Score       *int              `bson:"score,omitempty" json:"score,omitempty"`
	SubmittedAt time.Time         `bson:"submitted_at" json:"submitted_at"`
}

// SubmissionID builds the ledger key for a team, round and kind: {teamID}/{round}/{kind}
func SubmissionID(teamID string, round int, kind SubmissionKind) string {
	return fmt.Sprintf("%s/%d/%s", teamID, round, kind)
}

// NormalizeEmail trims and lower cases an email so lookups are case insensitive
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// AdminSet is the injected set of trusted administrator principal ids
type AdminSet map[string]struct{}

// NewAdminSet builds an AdminSet, ignoring blank ids
func NewAdminSet(ids ...string) AdminSet {
	set := make(AdminSet, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		set[id] = struct{}{}
	}
	return set
}

// IsAdmin reports whether the principal is in the set
func (a AdminSet) IsAdmin(principalID string) bool {
	_, ok := a[principalID]
	return ok
}

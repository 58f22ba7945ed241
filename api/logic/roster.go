/* roster.go
 * Contains the roster invariants for a team and helpers for building the roster after a membership change
 * Authors: Zachary Bower
 */

package logic

import (
	"fmt"
	"hackathon-engine/api/shared"
)

// CheckRoster verifies the roster invariants of a team
// Preconditions: Receives a team and the configured maximum roster size
// Postconditions: Returns nil if the leader is a member, there are no duplicate principals and the roster size
// is between 1 and maxMembers, else returns an error describing the first violation
func CheckRoster(team shared.Team, maxMembers int) error {
	if len(team.Members) < 1 {
		return fmt.Errorf("team %s has an empty roster", team.ID)
	}
	if len(team.Members) > maxMembers {
		return fmt.Errorf("team %s has %d members, max is %d", team.ID, len(team.Members), maxMembers)
	}
	seen := make(map[string]bool, len(team.Members))
	for _, m := range team.Members {
		if seen[m.PrincipalID] {
			return fmt.Errorf("team %s lists %s more than once", team.ID, m.PrincipalID)
		}
		seen[m.PrincipalID] = true
	}
	if !seen[team.LeaderID] {
		return fmt.Errorf("team %s leader %s is not a member", team.ID, team.LeaderID)
	}
	return nil
}

// IsFull reports whether the roster is at the limit
func IsFull(team shared.Team, maxMembers int) bool {
	return len(team.Members) >= maxMembers
}

// WithoutMember returns a copy of the roster with the principal removed, preserving order
func WithoutMember(members []shared.Member, principalID string) []shared.Member {
	res := make([]shared.Member, 0, len(members))
	for _, m := range members {
		if m.PrincipalID == principalID {
			continue
		}
		res = append(res, m)
	}
	return res
}

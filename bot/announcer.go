/* announcer.go
 * Posts team status changes to the announcement channel
 * Authors: Zachary Bower
 */

package bot

import (
	"context"
	"fmt"
	"hackathon-engine/api/api"
	"hackathon-engine/api/shared"
	"hackathon-engine/api/store"

	"go.uber.org/zap"
)

// StartAnnouncements subscribes to team status changes and posts each one to AnnounceChannelID
// Preconditions: Receives a context that bounds the subscription and the session to post with
// Postconditions: Returns the subscription, nil if no announcement channel is configured, or an error
func (b *Bot) StartAnnouncements(ctx context.Context, session DiscordSession) (store.Subscription, error) {
	if b.AnnounceChannelID == "" {
		return nil, nil
	}
	return b.APIPtr.WatchStatusChanges(ctx, func(change api.StatusChange) {
		msg := announcement(change)
		if msg == "" {
			return
		}
		if _, err := session.ChannelMessageSend(b.AnnounceChannelID, msg); err != nil {
			b.Logger.Warn("failed to post announcement", zap.String("team_id", change.Team.ID), zap.Error(err))
		}
	})
}

// announcement returns the message for a status change, or "" for changes that are not announced
func announcement(change api.StatusChange) string {
	name := change.Team.Name
	switch change.Team.Status {
	case shared.StatusRegistered:
		return fmt.Sprintf("**%s** is registered for the hackathon", name)
	case shared.StatusPendingVerification:
		return fmt.Sprintf("**%s** has submitted round 1", name)
	case shared.StatusRound2:
		return fmt.Sprintf("**%s** advanced to round 2", name)
	case shared.StatusRound3:
		return fmt.Sprintf("**%s** advanced to round 3", name)
	case shared.StatusEliminated:
		return fmt.Sprintf("**%s** has been eliminated after %s", name, change.From.Label())
	default:
		return ""
	}
}

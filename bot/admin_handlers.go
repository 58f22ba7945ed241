/* admin_handlers.go
 * Contains the admin command handlers. Every operation is checked against the admin set by the API, the bot only
 * resolves team names to ids
 * Authors: Zachary Bower
 */

package bot

import (
	"context"
	"fmt"
	"hackathon-engine/api/logic"
	"hackathon-engine/api/shared"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
)

// listTeamsHandler handles $teams [status]
func (b *Bot) listTeamsHandler(ctx context.Context, session DiscordSession, message *discordgo.MessageCreate) {
	args, err := splitArgs(message.Content)
	if err != nil {
		b.reply(session, message, err.Error())
		return
	}

	var teams []shared.Team
	if len(args) > 0 {
		status, parseErr := shared.ParseStatus(strings.Join(args, " "))
		if parseErr != nil {
			b.reply(session, message, parseErr.Error())
			return
		}
		teams, err = b.APIPtr.ListTeamsByStatus(ctx, message.Author.ID, status)
	} else {
		teams, err = b.APIPtr.ListTeams(ctx, message.Author.ID)
	}
	if err != nil {
		b.replyError(session, message, err)
		return
	}
	if len(teams) == 0 {
		b.reply(session, message, "No teams found")
		return
	}

	var res strings.Builder
	res.WriteString(fmt.Sprintf("%d teams:\n", len(teams)))
	for _, team := range teams {
		line := fmt.Sprintf("- **%s** %s, %d members", team.Name, team.Status.Label(), len(team.Members))
		if team.Round1Score != nil {
			line += fmt.Sprintf(", round 1 score %d", *team.Round1Score)
		}
		res.WriteString(line + "\n")
	}
	b.reply(session, message, res.String())
}

// approveHandler handles $approve "<team>"
func (b *Bot) approveHandler(ctx context.Context, session DiscordSession, message *discordgo.MessageCreate) {
	b.moderate(ctx, session, message, "$approve", b.APIPtr.ApprovePayment)
}

// advanceHandler handles $advance "<team>"
func (b *Bot) advanceHandler(ctx context.Context, session DiscordSession, message *discordgo.MessageCreate) {
	b.moderate(ctx, session, message, "$advance", b.APIPtr.Advance)
}

// eliminateHandler handles $eliminate "<team>"
func (b *Bot) eliminateHandler(ctx context.Context, session DiscordSession, message *discordgo.MessageCreate) {
	b.moderate(ctx, session, message, "$eliminate", b.APIPtr.Eliminate)
}

// moderate resolves the team named in the message and applies op to it
func (b *Bot) moderate(ctx context.Context, session DiscordSession, message *discordgo.MessageCreate, command string,
	op func(ctx context.Context, callerID string, teamID string) (shared.Team, error)) {
	args, ok := b.requireArgs(session, message, 1, fmt.Sprintf("Usage: `%s \"<team name>\"`", command))
	if !ok {
		return
	}
	// listing teams is admin only, so non admins get a permission error here
	teams, err := b.APIPtr.ListTeams(ctx, message.Author.ID)
	if err != nil {
		b.replyError(session, message, err)
		return
	}
	target, err := logic.MatchTeam(strings.Join(args, " "), teams)
	if err != nil {
		b.replyError(session, message, err)
		return
	}

	team, err := op(ctx, message.Author.ID, target.ID)
	if err != nil {
		b.replyError(session, message, err)
		return
	}
	b.reply(session, message, fmt.Sprintf("**%s** is now %s", team.Name, team.Status.Label()))
}

// scheduleHandler handles $schedule <round> <RFC3339 time|now> <minutes>
func (b *Bot) scheduleHandler(ctx context.Context, session DiscordSession, message *discordgo.MessageCreate) {
	args, ok := b.requireArgs(session, message, 3, "Usage: `$schedule <round> <RFC3339 time|now> <minutes>`")
	if !ok {
		return
	}
	round, err := strconv.Atoi(args[0])
	if err != nil {
		b.reply(session, message, fmt.Sprintf("'%s' is not a round number", args[0]))
		return
	}
	var start time.Time
	if strings.EqualFold(args[1], "now") {
		start = b.APIPtr.Timer.Now()
	} else if start, err = time.Parse(time.RFC3339, args[1]); err != nil {
		b.reply(session, message, fmt.Sprintf("'%s' is not a valid time, use RFC3339 e.g. 2026-03-14T10:00:00Z", args[1]))
		return
	}
	minutes, err := strconv.Atoi(args[2])
	if err != nil {
		b.reply(session, message, fmt.Sprintf("'%s' is not a number of minutes", args[2]))
		return
	}

	cfg, err := b.APIPtr.ScheduleRound(ctx, message.Author.ID, round, start, minutes)
	if err != nil {
		b.replyError(session, message, err)
		return
	}
	b.reply(session, message, fmt.Sprintf("Round %d opens <t:%d:F> for %d minutes", cfg.Round, cfg.StartTime.Unix(), cfg.DurationMinutes))
}

/* handlers.go
 * Contains the participant command handlers. Handlers accept the DiscordSession interface so they can be tested
 * with MockDiscordSession
 * Authors: Zachary Bower
 */

package bot

import (
	"context"
	"errors"
	"fmt"
	"hackathon-engine/api/logic"
	"hackathon-engine/api/shared"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

// commandTimeout bounds the store calls made for a single command
const commandTimeout = 10 * time.Second

type handlerFunc func(ctx context.Context, session DiscordSession, message *discordgo.MessageCreate)

// commands maps each command word to its handler
func (b *Bot) commands() map[string]handlerFunc {
	return map[string]handlerFunc{
		"$help":      b.helpMessageHandler,
		"$register":  b.registerHandler,
		"$create":    b.createTeamHandler,
		"$invite":    b.inviteHandler,
		"$remove":    b.removeHandler,
		"$pay":       b.payHandler,
		"$team":      b.teamHandler,
		"$round":     b.roundHandler,
		"$submit1":   b.submitRound1Handler,
		"$submit2":   b.submitRound2Handler,
		"$teams":     b.listTeamsHandler,
		"$approve":   b.approveHandler,
		"$advance":   b.advanceHandler,
		"$eliminate": b.eliminateHandler,
		"$schedule":  b.scheduleHandler,
	}
}

// newMessageHandler routes messages to the appropriate handler
// botUserID is the bot's user ID to prevent self-responses
func (b *Bot) newMessageHandler(session DiscordSession, message *discordgo.MessageCreate, botUserID string) {
	// Prevent bot from responding to its own messages
	if message.Author == nil || message.Author.ID == botUserID || message.Author.Bot {
		return
	}

	handler, ok := b.commands()[commandOf(message.Content)]
	if !ok {
		return
	}
	if !b.limiter.Allow(message.Author.ID) {
		b.reply(session, message, "You are sending commands too quickly, try again in a minute")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()
	handler(ctx, session, message)
}

// helpMessageHandler handles the $help command
func (b *Bot) helpMessageHandler(ctx context.Context, session DiscordSession, message *discordgo.MessageCreate) {
	var res strings.Builder
	res.WriteString("Hackathon Bot\n")
	res.WriteString("`$register <email>`: Register your account. Teammates invite you using this email\n")
	res.WriteString("`$create \"<team name>\"`: Create a team, you become its leader\n")
	res.WriteString("`$invite <email>`: (leader) Add a registered participant to your team\n")
	res.WriteString("`$remove <@member>`: (leader) Remove a member from your team\n")
	res.WriteString("`$pay`: (leader) Confirm your team's registration payment\n")
	res.WriteString("`$team`: Show your team, its status and round 1 score\n")
	res.WriteString("`$round <n>`: Show whether round n is open and how long is left\n")
	res.WriteString("`$submit1 q1=A q2=B ...` followed by a ```code block```: Submit round 1 while it is open\n")
	res.WriteString("`$submit2 <link>`: Submit your round 2 project link\n")
	if b.APIPtr.IsAdmin(message.Author.ID) {
		res.WriteString("\nAdmin commands\n")
		res.WriteString("`$teams [status]`: List teams, optionally only those with a status (e.g. pending_verification)\n")
		res.WriteString("`$approve \"<team>\"`, `$advance \"<team>\"`, `$eliminate \"<team>\"`: Move a team through the lifecycle\n")
		res.WriteString("`$schedule <round> <RFC3339 time|now> <minutes>`: Schedule a round's submission window\n")
	}
	b.reply(session, message, res.String())
}

// registerHandler handles $register <email>
func (b *Bot) registerHandler(ctx context.Context, session DiscordSession, message *discordgo.MessageCreate) {
	args, ok := b.requireArgs(session, message, 1, "Usage: `$register <email>`")
	if !ok {
		return
	}
	account, err := b.APIPtr.EnsureAccount(ctx, message.Author.ID, args[0])
	if err != nil {
		b.replyError(session, message, err)
		return
	}
	b.reply(session, message, fmt.Sprintf("%s is registered with %s", message.Author.Username, account.Email))
}

// createTeamHandler handles $create "<name>"
func (b *Bot) createTeamHandler(ctx context.Context, session DiscordSession, message *discordgo.MessageCreate) {
	args, ok := b.requireArgs(session, message, 1, "Usage: `$create \"<team name>\"`")
	if !ok {
		return
	}
	team, err := b.APIPtr.CreateTeam(ctx, message.Author.ID, strings.Join(args, " "))
	if err != nil {
		b.replyError(session, message, err)
		return
	}
	b.reply(session, message, fmt.Sprintf("Team **%s** created. Invite teammates with `$invite <email>` then confirm payment with `$pay`", team.Name))
}

// inviteHandler handles $invite <email>
func (b *Bot) inviteHandler(ctx context.Context, session DiscordSession, message *discordgo.MessageCreate) {
	args, ok := b.requireArgs(session, message, 1, "Usage: `$invite <email>`")
	if !ok {
		return
	}
	team, err := b.APIPtr.MyTeam(ctx, message.Author.ID)
	if err != nil {
		b.replyError(session, message, err)
		return
	}
	team, err = b.APIPtr.InviteMember(ctx, message.Author.ID, team.ID, args[0])
	if err != nil {
		b.replyError(session, message, err)
		return
	}
	b.reply(session, message, fmt.Sprintf("Added %s to **%s** (%d/%d members)", shared.NormalizeEmail(args[0]), team.Name, len(team.Members), b.APIPtr.MaxMembers))
}

// removeHandler handles $remove <@member|principal id>
func (b *Bot) removeHandler(ctx context.Context, session DiscordSession, message *discordgo.MessageCreate) {
	args, ok := b.requireArgs(session, message, 1, "Usage: `$remove <@member>`")
	if !ok {
		return
	}
	principalID := principalFromMention(args[0])
	team, err := b.APIPtr.MyTeam(ctx, message.Author.ID)
	if err != nil {
		b.replyError(session, message, err)
		return
	}
	team, err = b.APIPtr.RemoveMember(ctx, message.Author.ID, team.ID, principalID)
	if err != nil {
		b.replyError(session, message, err)
		return
	}
	b.reply(session, message, fmt.Sprintf("Removed <@%s> from **%s**", principalID, team.Name))
}

// payHandler handles $pay, the leader's mock payment confirmation
func (b *Bot) payHandler(ctx context.Context, session DiscordSession, message *discordgo.MessageCreate) {
	team, err := b.APIPtr.MyTeam(ctx, message.Author.ID)
	if err != nil {
		b.replyError(session, message, err)
		return
	}
	team, err = b.APIPtr.ConfirmPayment(ctx, message.Author.ID, team.ID)
	if err != nil {
		b.replyError(session, message, err)
		return
	}
	b.reply(session, message, fmt.Sprintf("Payment confirmed, **%s** is now %s", team.Name, team.Status.Label()))
}

// teamHandler handles $team
func (b *Bot) teamHandler(ctx context.Context, session DiscordSession, message *discordgo.MessageCreate) {
	team, err := b.APIPtr.MyTeam(ctx, message.Author.ID)
	if err != nil {
		b.replyError(session, message, err)
		return
	}
	b.reply(session, message, formatTeam(team, b.APIPtr.MaxMembers))
}

// roundHandler handles $round <n>
func (b *Bot) roundHandler(ctx context.Context, session DiscordSession, message *discordgo.MessageCreate) {
	args, ok := b.requireArgs(session, message, 1, "Usage: `$round <n>`")
	if !ok {
		return
	}
	round, err := strconv.Atoi(args[0])
	if err != nil {
		b.reply(session, message, fmt.Sprintf("'%s' is not a round number", args[0]))
		return
	}
	view, err := b.APIPtr.RoundStatus(ctx, round)
	if err != nil {
		b.replyError(session, message, err)
		return
	}

	var res strings.Builder
	switch view.State {
	case logic.WindowUnscheduled:
		res.WriteString(fmt.Sprintf("Round %d has not been scheduled yet", round))
	case logic.WindowPending:
		res.WriteString(fmt.Sprintf("Round %d starts <t:%d:R>", round, view.StartTime.Unix()))
	case logic.WindowOpen:
		res.WriteString(fmt.Sprintf("Round %d is open, %s left\n", round, view.Remaining.Round(time.Second)))
		if view.Questions != "" {
			res.WriteString(view.Questions + "\n")
		}
		if view.CodingPrompt != "" {
			res.WriteString("Coding question: " + view.CodingPrompt + "\n")
		}
	case logic.WindowClosed:
		res.WriteString(fmt.Sprintf("Round %d is closed", round))
	}
	b.reply(session, message, res.String())
}

// submitRound1Handler handles $submit1 q1=A q2=B ... with an optional fenced code block
func (b *Bot) submitRound1Handler(ctx context.Context, session DiscordSession, message *discordgo.MessageCreate) {
	text, code := logic.ExtractCodeBlock(message.Content)
	args, err := splitArgs(text)
	if err != nil {
		b.reply(session, message, err.Error())
		return
	}
	answers, invalid := logic.ParseAnswers(args)
	if len(invalid) > 0 {
		b.reply(session, message, fmt.Sprintf("Could not read these answers: %s. Use the form q1=A", strings.Join(invalid, ", ")))
		return
	}
	if len(answers) == 0 && code == "" {
		b.reply(session, message, "Usage: `$submit1 q1=A q2=B ...` followed by your code in a ```code block```")
		return
	}

	team, err := b.APIPtr.MyTeam(ctx, message.Author.ID)
	if err != nil {
		b.replyError(session, message, err)
		return
	}
	if _, err := b.APIPtr.SubmitRound1(ctx, message.Author.ID, team.ID, answers, code); err != nil {
		b.replyError(session, message, err)
		return
	}
	b.reply(session, message, fmt.Sprintf("Round 1 submission for **%s** received (%d answers). You can resubmit until the round closes", team.Name, len(answers)))
}

// submitRound2Handler handles $submit2 <link>
func (b *Bot) submitRound2Handler(ctx context.Context, session DiscordSession, message *discordgo.MessageCreate) {
	args, ok := b.requireArgs(session, message, 1, "Usage: `$submit2 <link>`")
	if !ok {
		return
	}
	team, err := b.APIPtr.MyTeam(ctx, message.Author.ID)
	if err != nil {
		b.replyError(session, message, err)
		return
	}
	if _, err := b.APIPtr.SubmitRound2(ctx, message.Author.ID, team.ID, args[0]); err != nil {
		b.replyError(session, message, err)
		return
	}
	b.reply(session, message, fmt.Sprintf("Round 2 link for **%s** received", team.Name))
}

// requireArgs parses the arguments and replies with usage if there are fewer than n
func (b *Bot) requireArgs(session DiscordSession, message *discordgo.MessageCreate, n int, usage string) ([]string, bool) {
	args, err := splitArgs(message.Content)
	if err != nil {
		b.reply(session, message, err.Error())
		return nil, false
	}
	if len(args) < n {
		b.reply(session, message, usage)
		return nil, false
	}
	return args, true
}

func (b *Bot) reply(session DiscordSession, message *discordgo.MessageCreate, content string) {
	if _, err := session.ChannelMessageSend(message.ChannelID, content); err != nil {
		b.Logger.Warn("failed to send discord message", zap.String("channel_id", message.ChannelID), zap.Error(err))
	}
}

// replyError sends the message of a domain error back to the user. Collaborator failures are logged and replaced
// with a generic message
func (b *Bot) replyError(session DiscordSession, message *discordgo.MessageCreate, err error) {
	if errors.Is(err, shared.ErrUnavailable) {
		b.Logger.Error("command failed", zap.String("principal_id", message.Author.ID), zap.String("command", commandOf(message.Content)), zap.Error(err))
		b.reply(session, message, "Something went wrong, please try again later")
		return
	}
	b.reply(session, message, "Error: "+errorText(err))
}

// errorText returns the message of a domain error without its cause
func errorText(err error) string {
	var domainErr *shared.Error
	if errors.As(err, &domainErr) {
		return domainErr.Message
	}
	return err.Error()
}

// formatTeam renders a team for the $team command
func formatTeam(team shared.Team, maxMembers int) string {
	var res strings.Builder
	res.WriteString(fmt.Sprintf("**%s** (%s)\n", team.Name, team.Status.Label()))
	res.WriteString(fmt.Sprintf("Members (%d/%d):\n", len(team.Members), maxMembers))
	for _, m := range team.Members {
		if m.PrincipalID == team.LeaderID {
			res.WriteString(fmt.Sprintf("- <@%s> %s (leader)\n", m.PrincipalID, m.Email))
			continue
		}
		res.WriteString(fmt.Sprintf("- <@%s> %s\n", m.PrincipalID, m.Email))
	}
	if team.Round1Score != nil {
		res.WriteString(fmt.Sprintf("Round 1 score: %d\n", *team.Round1Score))
	}
	return res.String()
}

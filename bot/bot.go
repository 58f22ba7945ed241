/* bot.go
 * Contains the Bot struct, its constructor and the command parsing helpers. Requires a discord bot token and the
 * ApiPtr, both of which are passed in from main.go. Discord user ids are used as principal ids
 * Authors: Zachary Bower
 */

package bot

import (
	"fmt"
	"hackathon-engine/api/api"
	"strings"

	"github.com/go-andiamo/splitter"
	"go.uber.org/zap"
)

// defaultCommandsPerMinute is used when no rate is configured
const defaultCommandsPerMinute = 20

type Bot struct {
	BotToken          string
	APIPtr            *api.API
	AnnounceChannelID string
	Logger            *zap.Logger

	limiter *userLimiter
}

// Option configures optional Bot settings
type Option func(*Bot)

// WithAnnounceChannel sets the channel status changes are posted to. Announcements are off when empty
func WithAnnounceChannel(channelID string) Option {
	return func(b *Bot) { b.AnnounceChannelID = channelID }
}

// WithCommandsPerMinute sets how many commands a single user may send per minute
func WithCommandsPerMinute(n int) Option {
	return func(b *Bot) { b.limiter = newUserLimiter(n) }
}

// WithLogger sets the logger. Defaults to the API's logger
func WithLogger(logger *zap.Logger) Option {
	return func(b *Bot) { b.Logger = logger }
}

// NewBot creates a Bot
// Preconditions: Receives the bot token, a pointer to the API and any options
// Postconditions: Returns the Bot, or an error if the token or API are missing
func NewBot(botToken string, apiPtr *api.API, opts ...Option) (*Bot, error) {
	if botToken == "" {
		return nil, fmt.Errorf("botToken is required but none was provided")
	}
	if apiPtr == nil {
		return nil, fmt.Errorf("apiPtr is required but none was provided")
	}

	b := &Bot{
		BotToken: botToken,
		APIPtr:   apiPtr,
		Logger:   apiPtr.Logger,
		limiter:  newUserLimiter(defaultCommandsPerMinute),
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.Logger == nil {
		b.Logger = zap.NewNop()
	}
	return b, nil
}

// commandOf returns the lower cased command word of a message, e.g. "$invite", or "" if it is not a command
func commandOf(content string) string {
	fields := strings.Fields(content)
	if len(fields) == 0 || !strings.HasPrefix(fields[0], "$") {
		return ""
	}
	return strings.ToLower(fields[0])
}

// splitArgs splits a message into arguments after the command word. Double quoted arguments may contain spaces,
// e.g. $create "Null Pointers"
// Preconditions: Receives the message content
// Postconditions: Returns the arguments with surrounding quotes removed, or an error for unbalanced quotes
func splitArgs(content string) ([]string, error) {
	// we use splitter here instead of strings.Fields so that team names containing spaces are one argument
	spaceSplitter, err := splitter.NewSplitter(' ', splitter.DoubleQuotes, splitter.LeftRightDoubleDoubleQuotes)
	if err != nil {
		return nil, err
	}
	content = strings.NewReplacer("\n", " ", "\t", " ").Replace(content)
	parts, err := spaceSplitter.Split(content)
	if err != nil {
		return nil, fmt.Errorf("could not read the command arguments, check your quotes")
	}

	var args []string
	for _, part := range parts {
		part = strings.Trim(strings.TrimSpace(part), "\"“”")
		if part != "" {
			args = append(args, part)
		}
	}
	if len(args) == 0 {
		return nil, nil
	}
	return args[1:], nil
}

// principalFromMention accepts a raw id or a discord mention (<@123> or <@!123>)
func principalFromMention(arg string) string {
	arg = strings.TrimSpace(arg)
	if strings.HasPrefix(arg, "<@") && strings.HasSuffix(arg, ">") {
		arg = strings.TrimPrefix(strings.TrimSuffix(arg, ">"), "<@")
		arg = strings.TrimPrefix(arg, "!")
	}
	return arg
}

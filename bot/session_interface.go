/* session_interface.go
 * Contains the subset of the Discord session the bot writes through
 * Authors: Zachary Bower
 */

package bot

import "github.com/bwmarrin/discordgo"

// DiscordSession is how the bot posts to Discord. Command handlers reply in the channel the command came from and
// StartAnnouncements posts team status changes to AnnounceChannelID. Tests swap in MockDiscordSession
type DiscordSession interface {
	ChannelMessageSend(channelID string, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

var _ DiscordSession = (*discordgo.Session)(nil)

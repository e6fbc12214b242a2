package infrastructure

import (
	"github.com/bwmarrin/discordgo"
	"github.com/disgoorg/snowflake/v2"
	"github.com/soluma/turntable/internal/modules/music/application/ports"
	"github.com/soluma/turntable/internal/modules/music/domain"
)

// DiscordVoiceState reads voice state and permissions from the
// discordgo state cache.
type DiscordVoiceState struct {
	session *discordgo.Session
}

// NewDiscordVoiceState creates a new DiscordVoiceState.
func NewDiscordVoiceState(session *discordgo.Session) *DiscordVoiceState {
	return &DiscordVoiceState{
		session: session,
	}
}

// Compile-time interface checks.
var (
	_ ports.VoiceStateProvider = (*DiscordVoiceState)(nil)
	_ ports.PermissionChecker  = (*DiscordVoiceState)(nil)
)

// UserVoiceChannel returns the voice channel the user is currently in,
// or 0 if the user is not in a voice channel.
func (v *DiscordVoiceState) UserVoiceChannel(
	guildID, userID snowflake.ID,
) (snowflake.ID, error) {
	guild, err := v.session.State.Guild(guildID.String())
	if err != nil {
		return 0, err
	}

	for _, vs := range guild.VoiceStates {
		if vs.UserID == userID.String() && vs.ChannelID != "" {
			channelID, err := snowflake.Parse(vs.ChannelID)
			if err != nil {
				return 0, err
			}
			return channelID, nil
		}
	}

	return 0, nil
}

// ChannelMembers returns the occupants of a voice channel in the guild
// state's voice-state order, bots included.
func (v *DiscordVoiceState) ChannelMembers(
	guildID, channelID snowflake.ID,
) ([]domain.Member, error) {
	guild, err := v.session.State.Guild(guildID.String())
	if err != nil {
		return nil, err
	}

	var members []domain.Member
	for _, vs := range guild.VoiceStates {
		if vs.ChannelID != channelID.String() {
			continue
		}

		userID, err := snowflake.Parse(vs.UserID)
		if err != nil {
			continue
		}

		bot := false
		if member, err := v.session.State.Member(guildID.String(), vs.UserID); err == nil &&
			member.User != nil {
			bot = member.User.Bot
		} else if vs.Member != nil && vs.Member.User != nil {
			bot = vs.Member.User.Bot
		}

		members = append(members, domain.Member{ID: userID, Bot: bot})
	}

	return members, nil
}

// CanManageMembers reports whether the user holds kick-members or
// administrator permission in the guild.
func (v *DiscordVoiceState) CanManageMembers(guildID, userID snowflake.ID) (bool, error) {
	guild, err := v.session.State.Guild(guildID.String())
	if err != nil {
		return false, err
	}

	if guild.OwnerID == userID.String() {
		return true, nil
	}

	member, err := v.session.State.Member(guildID.String(), userID.String())
	if err != nil {
		return false, err
	}

	var perms int64
	for _, roleID := range member.Roles {
		for _, role := range guild.Roles {
			if role.ID == roleID {
				perms |= role.Permissions
			}
		}
	}

	if perms&discordgo.PermissionAdministrator != 0 {
		return true, nil
	}
	return perms&discordgo.PermissionKickMembers != 0, nil
}

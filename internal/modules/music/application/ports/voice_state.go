package ports

import (
	"github.com/disgoorg/snowflake/v2"
	"github.com/soluma/turntable/internal/modules/music/domain"
)

// VoiceStateProvider defines the interface for reading Discord voice state.
type VoiceStateProvider interface {
	// UserVoiceChannel returns the voice channel the user is currently in,
	// or 0 if the user is not in a voice channel.
	UserVoiceChannel(guildID, userID snowflake.ID) (snowflake.ID, error)

	// ChannelMembers returns the occupants of a voice channel in a stable
	// roster order, bots included.
	ChannelMembers(guildID, channelID snowflake.ID) ([]domain.Member, error)
}

// PermissionChecker defines the interface for privilege lookups.
type PermissionChecker interface {
	// CanManageMembers reports whether the user holds a moderation
	// permission that grants DJ-level control.
	CanManageMembers(guildID, userID snowflake.ID) (bool, error)
}

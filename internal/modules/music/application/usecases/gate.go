package usecases

import (
	"log/slog"

	"github.com/disgoorg/snowflake/v2"
	"github.com/soluma/turntable/internal/modules/music/application/ports"
)

// Gate runs the authorization preconditions shared by all playback
// commands. It performs no state mutation.
type Gate struct {
	voiceState ports.VoiceStateProvider
	perms      ports.PermissionChecker
}

// NewGate creates a new Gate.
func NewGate(voiceState ports.VoiceStateProvider, perms ports.PermissionChecker) *Gate {
	return &Gate{
		voiceState: voiceState,
		perms:      perms,
	}
}

// Check validates the invoking context against the session, in order:
// channel affinity first, then voice membership. A nil session passes;
// the operation itself decides whether it needs one.
func (g *Gate) Check(sess *Session, guildID, userID, textChannelID snowflake.ID) error {
	if sess == nil {
		return nil
	}

	if sess.TextChannelID() != textChannelID {
		return ErrWrongTextChannel
	}

	if voiceChannelID := sess.VoiceChannelID(); voiceChannelID != 0 {
		userChannel, err := g.voiceState.UserVoiceChannel(guildID, userID)
		if err != nil {
			return err
		}
		if userChannel != voiceChannelID {
			return ErrNotInVoice
		}
	}

	return nil
}

// IsPrivileged reports whether the user is the session's DJ or holds an
// administrative capability. A permission lookup failure degrades to
// unprivileged.
func (g *Gate) IsPrivileged(sess *Session, guildID, userID snowflake.ID) bool {
	if sess != nil && sess.DJ() == userID {
		return true
	}

	ok, err := g.perms.CanManageMembers(guildID, userID)
	if err != nil {
		slog.Warn("permission lookup failed", "guild", guildID, "user", userID, "error", err)
		return false
	}
	return ok
}

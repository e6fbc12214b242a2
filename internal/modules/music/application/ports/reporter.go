package ports

import (
	"github.com/disgoorg/snowflake/v2"
	"github.com/soluma/turntable/internal/modules/music/domain"
)

// ErrorReporter is the fire-and-forget sink for transport-side track
// failures. Implementations must never block the caller; a failed or
// dropped report must not affect playback.
type ErrorReporter interface {
	Report(guildID, textChannelID snowflake.ID, track *domain.Track, cause string)
}

// PlaybackLifecycleHandler receives transport-engine playback lifecycle
// notifications, delivered once per event.
type PlaybackLifecycleHandler interface {
	// HandleTrackEnded is called when a track finished or failed to play out.
	HandleTrackEnded(guildID snowflake.ID, trackID, reason string) error

	// HandleTrackStuck is called when a track made no progress for longer
	// than the engine's threshold.
	HandleTrackStuck(guildID snowflake.ID, trackID string, thresholdMs int64) error

	// HandleTrackException is called when a track errored during playback.
	HandleTrackException(guildID snowflake.ID, trackID, cause string) error
}

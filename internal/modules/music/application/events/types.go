package events

import (
	"github.com/disgoorg/snowflake/v2"
	"github.com/soluma/turntable/internal/modules/music/domain"
)

// PlaybackStartedEvent is published when a track begins playing.
type PlaybackStartedEvent struct {
	GuildID       snowflake.ID
	TextChannelID snowflake.ID
	Track         *domain.Track
}

// TrackFailedEvent is published when the transport engine reports a
// track error. Consumed by the notifier as a best-effort report.
type TrackFailedEvent struct {
	GuildID       snowflake.ID
	TextChannelID snowflake.ID
	Track         *domain.Track
	Cause         string
}

// SessionClosedEvent is published when a session is torn down.
type SessionClosedEvent struct {
	GuildID       snowflake.ID
	TextChannelID snowflake.ID
}

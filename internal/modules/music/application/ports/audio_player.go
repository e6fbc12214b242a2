package ports

import (
	"context"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/soluma/turntable/internal/modules/music/domain"
)

// AudioPlayer defines the interface for transport-engine playback control.
// All calls may block on the external engine.
type AudioPlayer interface {
	// Play starts playback of the given track.
	Play(ctx context.Context, guildID snowflake.ID, track *domain.Track) error

	// Stop stops the current playback.
	Stop(ctx context.Context, guildID snowflake.ID) error

	// Pause pauses or resumes the current playback.
	Pause(ctx context.Context, guildID snowflake.ID, paused bool) error

	// SetVolume sets the playback volume in [0,100].
	SetVolume(ctx context.Context, guildID snowflake.ID, volume int) error

	// Seek moves the playback position of the current track.
	Seek(ctx context.Context, guildID snowflake.ID, position time.Duration) error
}

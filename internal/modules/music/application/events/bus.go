package events

import (
	"log/slog"
	"sync"

	"github.com/disgoorg/snowflake/v2"
	"github.com/soluma/turntable/internal/modules/music/application/ports"
	"github.com/soluma/turntable/internal/modules/music/domain"
)

// DefaultEventBufferSize is the default buffer size for event channels.
const DefaultEventBufferSize = 100

// Compile-time check that Bus implements ports.ErrorReporter.
var _ ports.ErrorReporter = (*Bus)(nil)

// Bus provides a channel-based event bus for async notification handling.
// Publishing is non-blocking: if a buffer is full, the event is dropped
// with a warning. Consumers read the channel accessors until closed.
type Bus struct {
	playbackStarted chan PlaybackStartedEvent
	trackFailed     chan TrackFailedEvent
	sessionClosed   chan SessionClosedEvent

	closed bool
	mu     sync.RWMutex
}

// NewBus creates a new Bus with the given buffer size.
func NewBus(bufferSize int) *Bus {
	if bufferSize <= 0 {
		bufferSize = DefaultEventBufferSize
	}

	return &Bus{
		playbackStarted: make(chan PlaybackStartedEvent, bufferSize),
		trackFailed:     make(chan TrackFailedEvent, bufferSize),
		sessionClosed:   make(chan SessionClosedEvent, bufferSize),
	}
}

// PublishPlaybackStarted publishes a PlaybackStartedEvent.
func (b *Bus) PublishPlaybackStarted(event PlaybackStartedEvent) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		slog.Warn("attempted to publish to closed event bus", "type", "PlaybackStarted")
		return
	}

	select {
	case b.playbackStarted <- event:
		slog.Debug("published event", "type", "PlaybackStarted", "guild", event.GuildID)
	default:
		slog.Warn("event buffer full, dropping event", "type", "PlaybackStarted")
	}
}

// PublishTrackFailed publishes a TrackFailedEvent.
func (b *Bus) PublishTrackFailed(event TrackFailedEvent) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		slog.Warn("attempted to publish to closed event bus", "type", "TrackFailed")
		return
	}

	select {
	case b.trackFailed <- event:
		slog.Debug("published event", "type", "TrackFailed", "guild", event.GuildID)
	default:
		slog.Warn("event buffer full, dropping event", "type", "TrackFailed")
	}
}

// PublishSessionClosed publishes a SessionClosedEvent.
func (b *Bus) PublishSessionClosed(event SessionClosedEvent) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		slog.Warn("attempted to publish to closed event bus", "type", "SessionClosed")
		return
	}

	select {
	case b.sessionClosed <- event:
		slog.Debug("published event", "type", "SessionClosed", "guild", event.GuildID)
	default:
		slog.Warn("event buffer full, dropping event", "type", "SessionClosed")
	}
}

// Report implements ports.ErrorReporter by publishing a TrackFailedEvent.
// It never blocks; a full buffer drops the report.
func (b *Bus) Report(guildID, textChannelID snowflake.ID, track *domain.Track, cause string) {
	b.PublishTrackFailed(TrackFailedEvent{
		GuildID:       guildID,
		TextChannelID: textChannelID,
		Track:         track,
		Cause:         cause,
	})
}

// PlaybackStarted returns the channel for PlaybackStartedEvent.
func (b *Bus) PlaybackStarted() <-chan PlaybackStartedEvent {
	return b.playbackStarted
}

// TrackFailed returns the channel for TrackFailedEvent.
func (b *Bus) TrackFailed() <-chan TrackFailedEvent {
	return b.trackFailed
}

// SessionClosed returns the channel for SessionClosedEvent.
func (b *Bus) SessionClosed() <-chan SessionClosedEvent {
	return b.sessionClosed
}

// Close closes all event channels. After calling Close, publishing will
// no longer send events.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}

	b.closed = true
	close(b.playbackStarted)
	close(b.trackFailed)
	close(b.sessionClosed)

	slog.Debug("event bus closed")
}

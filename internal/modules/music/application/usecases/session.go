package usecases

import (
	"context"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/google/uuid"
	"github.com/soluma/turntable/internal/modules/music/application/events"
	"github.com/soluma/turntable/internal/modules/music/application/ports"
	"github.com/soluma/turntable/internal/modules/music/domain"
)

const (
	// defaultVolume is the volume a fresh session starts at.
	defaultVolume = 100

	// shuffleMinimum is the smallest queue worth shuffling. Shuffling 0-2
	// tracks is observably a no-op and not worth the privileged-action
	// friction.
	shuffleMinimum = 3
)

// Session is the live playback state machine for one guild. All mutating
// operations, including the transport calls they make, are serialized by
// a single mutex: a skip command and a track-ended notification racing on
// the same session can never both advance the queue.
//
// Once torn down a session is terminal; every further operation fails
// with ErrSessionGone.
type Session struct {
	mu sync.Mutex

	id             string // correlation id for logs
	guildID        snowflake.ID
	textChannelID  snowflake.ID // originating text channel, for affinity checks
	voiceChannelID snowflake.ID // 0 while disconnected
	dj             snowflake.ID // 0 while no DJ is assigned
	current        *domain.Track
	paused         bool
	volume         int
	queue          *domain.Queue
	connected      bool // voice handshake completed
	closed         bool

	player   ports.AudioPlayer
	conn     ports.VoiceConnection
	reporter ports.ErrorReporter
	bus      *events.Bus

	// detach removes this session from its registry; set by the registry
	// at creation and invoked exactly once, from teardown.
	detach func()
}

// newSession creates a session bound to its guild and channels. The
// connecting user becomes the initial DJ. Sessions are created through
// Registry.Create only.
func newSession(
	guildID, textChannelID, voiceChannelID, dj snowflake.ID,
	player ports.AudioPlayer,
	conn ports.VoiceConnection,
	reporter ports.ErrorReporter,
	bus *events.Bus,
) *Session {
	return &Session{
		id:             uuid.NewString(),
		guildID:        guildID,
		textChannelID:  textChannelID,
		voiceChannelID: voiceChannelID,
		dj:             dj,
		volume:         defaultVolume,
		queue:          domain.NewQueue(),
		player:         player,
		conn:           conn,
		reporter:       reporter,
		bus:            bus,
	}
}

// GuildID returns the guild this session belongs to.
func (s *Session) GuildID() snowflake.ID {
	// guildID is immutable after construction.
	return s.guildID
}

// TextChannelID returns the originating text channel.
func (s *Session) TextChannelID() snowflake.ID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.textChannelID
}

// VoiceChannelID returns the bound voice channel, or 0 if disconnected.
func (s *Session) VoiceChannelID() snowflake.ID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.voiceChannelID
}

// DJ returns the current DJ, or 0 if none.
func (s *Session) DJ() snowflake.ID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dj
}

// Current returns the currently playing track, or nil while idle.
func (s *Session) Current() *domain.Track {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Volume returns the current volume in [0,100].
func (s *Session) Volume() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.volume
}

// Paused returns true while playback is paused.
func (s *Session) Paused() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.paused
}

// Closed returns true once the session has been torn down.
func (s *Session) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// QueueSnapshot returns a copy of the queued tracks in playback order.
func (s *Session) QueueSnapshot() []*domain.Track {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.queue.Snapshot()
}

// QueueLen returns the number of queued tracks, not counting current.
func (s *Session) QueueLen() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.queue.Len()
}

// Enqueue appends a track to the queue tail. It never touches the
// transport.
func (s *Session) Enqueue(track *domain.Track) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrSessionGone
	}
	s.queue.Enqueue(track)
	return nil
}

// EnqueueAll appends tracks to the queue tail, preserving input order.
func (s *Session) EnqueueAll(tracks ...*domain.Track) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrSessionGone
	}
	s.queue.EnqueueAll(tracks...)
	return nil
}

// EnqueueAndStart appends tracks and, if the session is idle, advances
// to begin playback. The enqueue and the idle check happen under one
// lock so a concurrent advance cannot slip between them.
func (s *Session) EnqueueAndStart(
	ctx context.Context,
	tracks ...*domain.Track,
) (*domain.Track, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrSessionGone
	}
	s.queue.EnqueueAll(tracks...)
	if s.current != nil {
		return nil, nil
	}
	return s.advanceLocked(ctx)
}

// Advance promotes the queue head to current and begins its playback.
// With an empty queue it clears current and goes idle; the session stays
// connected until an explicit stop or an empty-channel event (see the
// idle policy note in DESIGN.md).
func (s *Session) Advance(ctx context.Context) (*domain.Track, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.advanceLocked(ctx)
}

// advanceLocked is the single queue-advancement primitive. Callers must
// hold s.mu.
func (s *Session) advanceLocked(ctx context.Context) (*domain.Track, error) {
	if s.closed {
		return nil, ErrSessionGone
	}

	next := s.queue.Pop()
	if next == nil {
		// Queue exhausted: go idle but stay connected.
		hadCurrent := s.current != nil
		s.current = nil
		s.paused = false
		if hadCurrent {
			if err := s.player.Stop(ctx, s.guildID); err != nil {
				slog.Warn("failed to stop playback", "guild", s.guildID, "error", err)
			}
		}
		return nil, nil
	}

	if err := s.player.Play(ctx, s.guildID, next); err != nil {
		s.current = nil
		return nil, err
	}

	s.current = next
	s.paused = false

	if s.bus != nil {
		s.bus.PublishPlaybackStarted(events.PlaybackStartedEvent{
			GuildID:       s.guildID,
			TextChannelID: s.textChannelID,
			Track:         next,
		})
	}

	return next, nil
}

// SkipCurrent advances past the given track if it is still current.
// A track-ended notification may have advanced the queue in the window
// between the caller reading current and this call acquiring the lock;
// the skip is then already satisfied and must not advance a second
// time. Returns the track playing after the call.
func (s *Session) SkipCurrent(ctx context.Context, trackID string) (*domain.Track, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrSessionGone
	}
	if s.current == nil || s.current.ID != trackID {
		return s.current, nil
	}
	return s.advanceLocked(ctx)
}

// SetPause sets the paused flag and instructs the transport accordingly.
// Redundant calls are idempotent no-ops at the transport level.
func (s *Session) SetPause(ctx context.Context, paused bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrSessionGone
	}
	if s.voiceChannelID == 0 {
		return ErrNotConnected
	}

	if err := s.player.Pause(ctx, s.guildID, paused); err != nil {
		return err
	}
	s.paused = paused
	return nil
}

// SetVolume sets an absolute volume. Values outside [0,100] are rejected.
func (s *Session) SetVolume(ctx context.Context, volume int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrSessionGone
	}
	if volume < 0 || volume > 100 {
		return ErrVolumeOutOfRange
	}
	if s.voiceChannelID == 0 {
		return ErrNotConnected
	}

	if err := s.player.SetVolume(ctx, s.guildID, volume); err != nil {
		return err
	}
	s.volume = volume
	return nil
}

// NudgeVolume moves the volume by delta to the next multiple of ten,
// clamping to exactly 0 or 100 at the boundaries. Returns the new volume.
func (s *Session) NudgeVolume(ctx context.Context, delta int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return 0, ErrSessionGone
	}
	if s.voiceChannelID == 0 {
		return 0, ErrNotConnected
	}

	volume := int(math.Ceil(float64(s.volume+delta)/10)) * 10
	if volume > 100 {
		volume = 100
	}
	if volume < 0 {
		volume = 0
	}

	if err := s.player.SetVolume(ctx, s.guildID, volume); err != nil {
		return 0, err
	}
	s.volume = volume
	return volume, nil
}

// Seek moves the playback position of the current track.
func (s *Session) Seek(ctx context.Context, offset time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrSessionGone
	}
	if s.voiceChannelID == 0 {
		return ErrNotConnected
	}
	if s.current == nil {
		return ErrNoCurrentTrack
	}

	return s.player.Seek(ctx, s.guildID, offset)
}

// Shuffle randomly permutes the remaining queue order.
func (s *Session) Shuffle() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrSessionGone
	}
	if s.queue.Len() < shuffleMinimum {
		return ErrQueueTooShort
	}

	s.queue.Shuffle()
	return nil
}

// SwapDJ hands DJ authority to the given member, or to the first other
// human in the roster if target is 0. The roster must be the session's
// voice channel occupants in stable order.
func (s *Session) SwapDJ(target snowflake.ID, roster []domain.Member) (snowflake.ID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return 0, ErrSessionGone
	}

	if target != 0 {
		if target == s.dj {
			return 0, ErrAlreadyDJ
		}
		for _, m := range roster {
			if m.ID == target && !m.Bot {
				s.dj = target
				return target, nil
			}
		}
		return 0, ErrMemberNotInChannel
	}

	for _, m := range roster {
		if m.Bot || m.ID == s.dj {
			continue
		}
		s.dj = m.ID
		return m.ID, nil
	}
	return 0, ErrNoEligibleMember
}

// markConnected records that the voice handshake completed. Teardown
// announces a closed session only after this point; a session rolled
// back from a failed join disappears silently.
func (s *Session) markConnected() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.connected = true
}

// RebindVoiceChannel moves the session to a new voice channel after the
// bot was dragged there. The new channel's occupants take over: with no
// humans present the session ends, and a DJ left behind in the old
// channel loses the role to the first human here.
func (s *Session) RebindVoiceChannel(
	ctx context.Context,
	channelID snowflake.ID,
	roster []domain.Member,
) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrSessionGone
	}
	if domain.HumanCount(roster) == 0 {
		slog.Info("bot moved to an empty channel, tearing down session",
			"session", s.id, "guild", s.guildID)
		return s.teardownLocked(ctx)
	}

	s.voiceChannelID = channelID
	if !domain.RosterContains(roster, s.dj) {
		dj := domain.FirstHuman(roster)
		slog.Info("dj changed", "session", s.id, "guild", s.guildID,
			"old", s.dj, "new", dj)
		s.dj = dj
	}
	return nil
}

// Teardown disconnects the transport, removes the session from its
// registry, and transitions to the terminal state. Idempotent: a second
// call is a no-op, not an error.
func (s *Session) Teardown(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.teardownLocked(ctx)
}

// teardownLocked performs teardown. Callers must hold s.mu.
func (s *Session) teardownLocked(ctx context.Context) error {
	if s.closed {
		return nil
	}
	s.closed = true

	if err := s.conn.LeaveChannel(ctx, s.guildID); err != nil {
		// The registry entry still has to go; a torn-down session must
		// never linger because the transport misbehaved.
		slog.Warn("failed to disconnect voice",
			"session", s.id, "guild", s.guildID, "error", err)
	}

	textChannelID := s.textChannelID
	s.queue.Clear()
	s.current = nil
	s.dj = 0
	s.voiceChannelID = 0
	s.paused = false

	if s.detach != nil {
		s.detach()
	}

	if s.bus != nil && s.connected {
		s.bus.PublishSessionClosed(events.SessionClosedEvent{
			GuildID:       s.guildID,
			TextChannelID: textChannelID,
		})
	}

	slog.Info("session torn down", "session", s.id, "guild", s.guildID)
	return nil
}

// endReasonMayAdvance reports whether a track-ended reason should trigger
// queue advancement. A "replaced" end is the echo of our own skip and a
// "stopped"/"cleanup" end follows an explicit stop or teardown; advancing
// on those would double-process the event.
func endReasonMayAdvance(reason string) bool {
	switch reason {
	case "finished", "loadFailed":
		return true
	default:
		return false
	}
}

// OnTrackEnded handles a transport track-ended notification. Stale
// notifications, for a track that is no longer current, are no-ops:
// a racing skip has already advanced past them.
func (s *Session) OnTrackEnded(ctx context.Context, trackID, reason string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrSessionGone
	}
	if !endReasonMayAdvance(reason) {
		return nil
	}
	if s.current == nil || s.current.ID != trackID {
		return nil
	}

	_, err := s.advanceLocked(ctx)
	return err
}

// OnTrackStuck handles a transport track-stuck notification by advancing
// past the stuck track.
func (s *Session) OnTrackStuck(ctx context.Context, trackID string, thresholdMs int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrSessionGone
	}
	if s.current == nil || s.current.ID != trackID {
		return nil
	}

	slog.Warn("track stuck, advancing",
		"session", s.id, "guild", s.guildID,
		"track", trackID, "threshold_ms", thresholdMs)

	_, err := s.advanceLocked(ctx)
	return err
}

// OnTrackException reports the error to the external sink and advances.
// A single bad track must not stall the queue, and a failed report must
// not block the advance; the reporter is fire-and-forget.
func (s *Session) OnTrackException(ctx context.Context, trackID, cause string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrSessionGone
	}

	if s.reporter != nil && s.current != nil && s.current.ID == trackID {
		s.reporter.Report(s.guildID, s.textChannelID, s.current, cause)
	}

	if s.current == nil || s.current.ID != trackID {
		return nil
	}

	_, err := s.advanceLocked(ctx)
	return err
}

// OnMembershipChanged applies the DJ authority policy for a membership
// change in the session's voice channel. If no humans remain, the
// session is torn down.
func (s *Session) OnMembershipChanged(
	ctx context.Context,
	ev domain.MembershipEvent,
	roster []domain.Member,
) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrSessionGone
	}
	if s.voiceChannelID == 0 {
		return nil
	}

	dj, empty := domain.NextDJ(s.dj, s.voiceChannelID, ev, roster)
	if empty {
		slog.Info("voice channel emptied, tearing down session",
			"session", s.id, "guild", s.guildID)
		return s.teardownLocked(ctx)
	}

	if dj != s.dj {
		slog.Info("dj changed", "session", s.id, "guild", s.guildID,
			"old", s.dj, "new", dj)
		s.dj = dj
	}
	return nil
}

package usecases

import (
	"context"
	"iter"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/soluma/turntable/internal/modules/music/application/ports"
	"github.com/soluma/turntable/internal/modules/music/domain"
)

// Invocation identifies the user and context behind a command.
type Invocation struct {
	GuildID       snowflake.ID
	UserID        snowflake.ID
	TextChannelID snowflake.ID
}

// PlayOutput contains the result of the Play use case.
type PlayOutput struct {
	Added        []*domain.Track
	Playlist     bool
	PlaylistName string
	Started      *domain.Track // non-nil if playback began with this call
}

// SkipOutput contains the result of the Skip use case.
type SkipOutput struct {
	Skipped *domain.Track
	Next    *domain.Track // nil if the queue is now empty
}

// NowPlayingOutput is a read-only snapshot for rendering.
type NowPlayingOutput struct {
	Track  *domain.Track
	Paused bool
	Volume int
	DJ     snowflake.ID
}

// MusicService orchestrates command-level operations over the registry,
// the gate, and the transport-side ports. Each method resolves its
// session once, atomically, rather than re-fetching it around blocking
// calls.
type MusicService struct {
	registry   *Registry
	gate       *Gate
	resolver   ports.TrackResolver
	voiceState ports.VoiceStateProvider
	conn       ports.VoiceConnection
}

// Compile-time check that MusicService handles transport notifications.
var _ ports.PlaybackLifecycleHandler = (*MusicService)(nil)

// NewMusicService creates a new MusicService.
func NewMusicService(
	registry *Registry,
	gate *Gate,
	resolver ports.TrackResolver,
	voiceState ports.VoiceStateProvider,
	conn ports.VoiceConnection,
) *MusicService {
	return &MusicService{
		registry:   registry,
		gate:       gate,
		resolver:   resolver,
		voiceState: voiceState,
		conn:       conn,
	}
}

// Registry exposes the session registry for gate checks in handlers.
func (m *MusicService) Registry() *Registry {
	return m.registry
}

// Gate exposes the command gate.
func (m *MusicService) Gate() *Gate {
	return m.gate
}

// Connect creates a session bound to the given voice channel, or to the
// invoking user's channel when voiceChannelID is 0. The connecting user
// becomes the initial DJ. The registry entry is claimed before joining
// so two simultaneous connects resolve to exactly one session.
func (m *MusicService) Connect(
	ctx context.Context,
	inv Invocation,
	voiceChannelID snowflake.ID,
) (*Session, error) {
	if voiceChannelID == 0 {
		userChannel, err := m.voiceState.UserVoiceChannel(inv.GuildID, inv.UserID)
		if err != nil {
			return nil, err
		}
		if userChannel == 0 {
			return nil, ErrUserNotInVoice
		}
		voiceChannelID = userChannel
	}

	sess, err := m.registry.Create(inv.GuildID, inv.TextChannelID, voiceChannelID, inv.UserID)
	if err != nil {
		return nil, err
	}

	if err := m.conn.JoinChannel(ctx, inv.GuildID, voiceChannelID); err != nil {
		_ = sess.Teardown(ctx)
		return nil, err
	}
	sess.markConnected()

	return sess, nil
}

// Play resolves the query, enqueues the result (single track or whole
// playlist, order preserved), and starts playback if the session is
// idle. Connects first if no session exists, like the play command of
// most bots.
func (m *MusicService) Play(
	ctx context.Context,
	inv Invocation,
	query string,
) (*PlayOutput, error) {
	sess := m.registry.Get(inv.GuildID)
	if sess == nil {
		var err error
		sess, err = m.Connect(ctx, inv, 0)
		if err != nil {
			return nil, err
		}
	}

	list, err := m.resolver.Resolve(ctx, query, inv.UserID)
	if err != nil {
		return nil, err
	}
	if list.IsEmpty() {
		return nil, ErrNoResults
	}

	started, err := sess.EnqueueAndStart(ctx, list.Tracks...)
	if err != nil {
		return nil, err
	}

	return &PlayOutput{
		Added:        list.Tracks,
		Playlist:     list.Playlist,
		PlaylistName: list.PlaylistName,
		Started:      started,
	}, nil
}

// Pause pauses playback.
func (m *MusicService) Pause(ctx context.Context, inv Invocation) error {
	sess := m.registry.Get(inv.GuildID)
	if sess == nil {
		return ErrNotConnected
	}
	return sess.SetPause(ctx, true)
}

// Resume resumes playback. DJ or admin only.
func (m *MusicService) Resume(ctx context.Context, inv Invocation) error {
	sess := m.registry.Get(inv.GuildID)
	if sess == nil {
		return ErrNotConnected
	}
	if !m.gate.IsPrivileged(sess, inv.GuildID, inv.UserID) {
		return ErrNotPrivileged
	}
	return sess.SetPause(ctx, false)
}

// Skip advances past the current track. Allowed for the DJ, admins, and
// the member who requested the current track. The privilege lookup runs
// outside the session lock, so the skip is pinned to the track observed
// here: if it ends on its own in the meantime, the queue still moves
// exactly one position.
func (m *MusicService) Skip(ctx context.Context, inv Invocation) (*SkipOutput, error) {
	sess := m.registry.Get(inv.GuildID)
	if sess == nil {
		return nil, ErrNotConnected
	}

	current := sess.Current()
	if current == nil {
		return nil, ErrNoCurrentTrack
	}
	if current.Requester != inv.UserID &&
		!m.gate.IsPrivileged(sess, inv.GuildID, inv.UserID) {
		return nil, ErrNotPrivileged
	}

	next, err := sess.SkipCurrent(ctx, current.ID)
	if err != nil {
		return nil, err
	}
	return &SkipOutput{Skipped: current, Next: next}, nil
}

// Stop tears the session down. DJ or admin only.
func (m *MusicService) Stop(ctx context.Context, inv Invocation) error {
	sess := m.registry.Get(inv.GuildID)
	if sess == nil {
		return ErrNotConnected
	}
	if !m.gate.IsPrivileged(sess, inv.GuildID, inv.UserID) {
		return ErrNotPrivileged
	}
	return sess.Teardown(ctx)
}

// SetVolume sets an absolute volume. DJ or admin only.
func (m *MusicService) SetVolume(ctx context.Context, inv Invocation, volume int) error {
	sess := m.registry.Get(inv.GuildID)
	if sess == nil {
		return ErrNotConnected
	}
	if !m.gate.IsPrivileged(sess, inv.GuildID, inv.UserID) {
		return ErrNotPrivileged
	}
	return sess.SetVolume(ctx, volume)
}

// NudgeVolume moves the volume by ten in the given direction, clamping
// to exactly 0 or 100 at the boundaries. DJ or admin only.
func (m *MusicService) NudgeVolume(ctx context.Context, inv Invocation, delta int) (int, error) {
	sess := m.registry.Get(inv.GuildID)
	if sess == nil {
		return 0, ErrNotConnected
	}
	if !m.gate.IsPrivileged(sess, inv.GuildID, inv.UserID) {
		return 0, ErrNotPrivileged
	}
	return sess.NudgeVolume(ctx, delta)
}

// Shuffle permutes the remaining queue. DJ or admin only.
func (m *MusicService) Shuffle(inv Invocation) error {
	sess := m.registry.Get(inv.GuildID)
	if sess == nil {
		return ErrNotConnected
	}
	if !m.gate.IsPrivileged(sess, inv.GuildID, inv.UserID) {
		return ErrNotPrivileged
	}
	return sess.Shuffle()
}

// Seek moves the current track to the given offset.
func (m *MusicService) Seek(ctx context.Context, inv Invocation, offset time.Duration) error {
	sess := m.registry.Get(inv.GuildID)
	if sess == nil {
		return ErrNotConnected
	}
	return sess.Seek(ctx, offset)
}

// NowPlaying returns a read-only snapshot of the current playback state.
func (m *MusicService) NowPlaying(inv Invocation) (*NowPlayingOutput, error) {
	sess := m.registry.Get(inv.GuildID)
	if sess == nil {
		return nil, ErrNotConnected
	}

	track := sess.Current()
	if track == nil {
		return nil, ErrNoCurrentTrack
	}
	return &NowPlayingOutput{
		Track:  track,
		Paused: sess.Paused(),
		Volume: sess.Volume(),
		DJ:     sess.DJ(),
	}, nil
}

// QueuePages returns a point-in-time paginated view over the queue and
// the total number of queued tracks.
func (m *MusicService) QueuePages(
	inv Invocation,
	pageSize int,
) (iter.Seq[domain.QueuePage], int, error) {
	sess := m.registry.Get(inv.GuildID)
	if sess == nil {
		return nil, 0, ErrNotConnected
	}

	snapshot := sess.QueueSnapshot()
	return domain.QueuePages(snapshot, pageSize), len(snapshot), nil
}

// SwapDJ hands DJ authority to target, or to the first other human in
// the channel when target is 0. DJ or admin only.
func (m *MusicService) SwapDJ(
	inv Invocation,
	target snowflake.ID,
) (snowflake.ID, error) {
	sess := m.registry.Get(inv.GuildID)
	if sess == nil {
		return 0, ErrNotConnected
	}
	if !m.gate.IsPrivileged(sess, inv.GuildID, inv.UserID) {
		return 0, ErrNotPrivileged
	}

	roster, err := m.voiceState.ChannelMembers(inv.GuildID, sess.VoiceChannelID())
	if err != nil {
		return 0, err
	}
	return sess.SwapDJ(target, roster)
}

// HandleVoiceStateChanged applies a member's voice movement to the
// guild's session, if one exists. Bot members never affect the policy.
func (m *MusicService) HandleVoiceStateChanged(
	ctx context.Context,
	guildID snowflake.ID,
	member domain.Member,
	beforeChannelID, afterChannelID snowflake.ID,
) error {
	if member.Bot {
		return nil
	}

	sess := m.registry.Get(guildID)
	if sess == nil {
		return nil
	}
	voiceChannelID := sess.VoiceChannelID()
	if voiceChannelID == 0 {
		return nil
	}

	var ev domain.MembershipEvent
	switch {
	case beforeChannelID == voiceChannelID && afterChannelID != voiceChannelID:
		ev = domain.MembershipEvent{
			Member:    member,
			Change:    domain.MemberLeft,
			ChannelID: voiceChannelID,
		}
	case afterChannelID == voiceChannelID && beforeChannelID != voiceChannelID:
		ev = domain.MembershipEvent{
			Member:    member,
			Change:    domain.MemberJoined,
			ChannelID: voiceChannelID,
		}
	default:
		return nil
	}

	roster, err := m.voiceState.ChannelMembers(guildID, voiceChannelID)
	if err != nil {
		return err
	}
	return sess.OnMembershipChanged(ctx, ev, roster)
}

// HandleBotVoiceStateChanged reacts to the bot itself being moved or
// force-disconnected. A disconnect tears the session down; a move
// rebinds the session to the new channel and hands it to that
// channel's occupants.
func (m *MusicService) HandleBotVoiceStateChanged(
	ctx context.Context,
	guildID, afterChannelID snowflake.ID,
) error {
	sess := m.registry.Get(guildID)
	if sess == nil {
		return nil
	}
	if afterChannelID == 0 {
		return sess.Teardown(ctx)
	}
	if afterChannelID == sess.VoiceChannelID() {
		return nil
	}

	roster, err := m.voiceState.ChannelMembers(guildID, afterChannelID)
	if err != nil {
		return err
	}
	return sess.RebindVoiceChannel(ctx, afterChannelID, roster)
}

// HandleTrackEnded dispatches a transport track-ended notification.
func (m *MusicService) HandleTrackEnded(guildID snowflake.ID, trackID, reason string) error {
	sess := m.registry.Get(guildID)
	if sess == nil {
		return nil
	}
	return sess.OnTrackEnded(context.Background(), trackID, reason)
}

// HandleTrackStuck dispatches a transport track-stuck notification.
func (m *MusicService) HandleTrackStuck(
	guildID snowflake.ID,
	trackID string,
	thresholdMs int64,
) error {
	sess := m.registry.Get(guildID)
	if sess == nil {
		return nil
	}
	return sess.OnTrackStuck(context.Background(), trackID, thresholdMs)
}

// HandleTrackException dispatches a transport track-exception
// notification.
func (m *MusicService) HandleTrackException(guildID snowflake.ID, trackID, cause string) error {
	sess := m.registry.Get(guildID)
	if sess == nil {
		return nil
	}
	return sess.OnTrackException(context.Background(), trackID, cause)
}

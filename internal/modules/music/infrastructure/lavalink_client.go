package infrastructure

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/disgoorg/disgolink/v3/disgolink"
	"github.com/disgoorg/disgolink/v3/lavalink"
	"github.com/disgoorg/snowflake/v2"
	"github.com/soluma/turntable/internal/modules/music/application/ports"
	"github.com/soluma/turntable/internal/modules/music/domain"
)

// voiceConnectionTimeout is the maximum time to wait for a voice
// connection to be established.
const voiceConnectionTimeout = 10 * time.Second

// pendingVoiceConnection tracks the state of a pending voice connection.
type pendingVoiceConnection struct {
	mu             sync.Mutex
	hasVoiceState  bool
	hasVoiceServer bool
	ready          chan struct{}
}

// onEvent marks an event as received and signals ready once both the
// voice state and voice server updates have arrived.
func (p *pendingVoiceConnection) onEvent(isVoiceState bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if isVoiceState {
		p.hasVoiceState = true
	} else {
		p.hasVoiceServer = true
	}

	if p.hasVoiceState && p.hasVoiceServer {
		select {
		case <-p.ready:
			// Already closed
		default:
			close(p.ready)
		}
	}
}

// LavalinkAdapter wraps DisGoLink to implement the transport-side ports:
// playback control, voice connection, and track resolution.
type LavalinkAdapter struct {
	link    disgolink.Client
	session *discordgo.Session
	botID   snowflake.ID

	pendingMu sync.Mutex
	pending   map[snowflake.ID]*pendingVoiceConnection

	lifecycleMu sync.RWMutex
	lifecycle   ports.PlaybackLifecycleHandler
}

// Compile-time interface checks.
var (
	_ ports.AudioPlayer     = (*LavalinkAdapter)(nil)
	_ ports.VoiceConnection = (*LavalinkAdapter)(nil)
	_ ports.TrackResolver   = (*LavalinkAdapter)(nil)
)

// LavalinkConfig contains Lavalink connection configuration.
type LavalinkConfig struct {
	Address  string
	Password string
}

// NewLavalinkAdapter creates a new LavalinkAdapter and connects the node.
func NewLavalinkAdapter(
	session *discordgo.Session,
	config LavalinkConfig,
) (*LavalinkAdapter, error) {
	botID, err := snowflake.Parse(session.State.User.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to parse bot ID: %w", err)
	}

	adapter := &LavalinkAdapter{
		session: session,
		botID:   botID,
		pending: make(map[snowflake.ID]*pendingVoiceConnection),
	}

	link := disgolink.New(botID,
		disgolink.WithListenerFunc(adapter.onTrackStart),
		disgolink.WithListenerFunc(adapter.onTrackEnd),
		disgolink.WithListenerFunc(adapter.onTrackException),
		disgolink.WithListenerFunc(adapter.onTrackStuck),
	)
	adapter.link = link

	node, err := link.AddNode(context.Background(), disgolink.NodeConfig{
		Name:     "main",
		Address:  config.Address,
		Password: config.Password,
		Secure:   false,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to add Lavalink node: %w", err)
	}

	slog.Info("connected to Lavalink", "node", node.Config().Name, "address", config.Address)

	return adapter, nil
}

// Link returns the underlying DisGoLink client for shutdown.
func (c *LavalinkAdapter) Link() disgolink.Client {
	return c.link
}

// SetLifecycleHandler registers the consumer of playback lifecycle
// notifications. Must be called before any track is played.
func (c *LavalinkAdapter) SetLifecycleHandler(handler ports.PlaybackLifecycleHandler) {
	c.lifecycleMu.Lock()
	defer c.lifecycleMu.Unlock()
	c.lifecycle = handler
}

func (c *LavalinkAdapter) lifecycleHandler() ports.PlaybackLifecycleHandler {
	c.lifecycleMu.RLock()
	defer c.lifecycleMu.RUnlock()
	return c.lifecycle
}

// JoinChannel connects the bot to a voice channel and waits for the
// voice handshake to complete.
func (c *LavalinkAdapter) JoinChannel(ctx context.Context, guildID, channelID snowflake.ID) error {
	pending := &pendingVoiceConnection{
		ready: make(chan struct{}),
	}

	c.pendingMu.Lock()
	c.pending[guildID] = pending
	c.pendingMu.Unlock()

	defer func() {
		c.pendingMu.Lock()
		delete(c.pending, guildID)
		c.pendingMu.Unlock()
	}()

	err := c.session.ChannelVoiceJoinManual(guildID.String(), channelID.String(), false, false)
	if err != nil {
		return fmt.Errorf("failed to join voice channel: %w", err)
	}

	select {
	case <-pending.ready:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("context cancelled while waiting for voice connection: %w", ctx.Err())
	case <-time.After(voiceConnectionTimeout):
		return fmt.Errorf("timeout waiting for voice connection")
	}
}

// LeaveChannel disconnects from the voice channel.
func (c *LavalinkAdapter) LeaveChannel(ctx context.Context, guildID snowflake.ID) error {
	player := c.link.ExistingPlayer(guildID)
	if player != nil {
		if err := player.Destroy(ctx); err != nil {
			slog.Warn("failed to destroy player", "guild", guildID, "error", err)
		}
	}

	err := c.session.ChannelVoiceJoinManual(guildID.String(), "", false, false)
	if err != nil {
		return fmt.Errorf("failed to leave voice channel: %w", err)
	}
	return nil
}

// Play plays a track.
func (c *LavalinkAdapter) Play(
	ctx context.Context,
	guildID snowflake.ID,
	track *domain.Track,
) error {
	player := c.link.Player(guildID)

	if err := player.Update(ctx, lavalink.WithEncodedTrack(track.Encoded)); err != nil {
		return fmt.Errorf("failed to play track: %w", err)
	}

	return nil
}

// Stop stops the current playback.
func (c *LavalinkAdapter) Stop(ctx context.Context, guildID snowflake.ID) error {
	player := c.link.Player(guildID)

	if err := player.Update(ctx, lavalink.WithNullTrack()); err != nil {
		return fmt.Errorf("failed to stop playback: %w", err)
	}

	return nil
}

// Pause pauses or resumes the current playback.
func (c *LavalinkAdapter) Pause(ctx context.Context, guildID snowflake.ID, paused bool) error {
	player := c.link.Player(guildID)

	if err := player.Update(ctx, lavalink.WithPaused(paused)); err != nil {
		return fmt.Errorf("failed to update pause state: %w", err)
	}

	return nil
}

// SetVolume sets the playback volume.
func (c *LavalinkAdapter) SetVolume(ctx context.Context, guildID snowflake.ID, volume int) error {
	player := c.link.Player(guildID)

	if err := player.Update(ctx, lavalink.WithVolume(volume)); err != nil {
		return fmt.Errorf("failed to set volume: %w", err)
	}

	return nil
}

// Seek moves the playback position of the current track.
func (c *LavalinkAdapter) Seek(
	ctx context.Context,
	guildID snowflake.ID,
	position time.Duration,
) error {
	player := c.link.Player(guildID)

	if err := player.Update(ctx, lavalink.WithPosition(lavalink.Duration(position.Milliseconds()))); err != nil {
		return fmt.Errorf("failed to seek: %w", err)
	}

	return nil
}

// Resolve loads tracks from Lavalink for the given query.
func (c *LavalinkAdapter) Resolve(
	ctx context.Context,
	query string,
	requester snowflake.ID,
) (*domain.TrackList, error) {
	node := c.link.BestNode()
	if node == nil {
		return nil, fmt.Errorf("no available Lavalink node")
	}

	result, err := node.LoadTracks(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to load tracks: %w", err)
	}

	return c.convertLoadResult(result, requester), nil
}

// convertLoadResult converts a Lavalink result to a domain TrackList.
func (c *LavalinkAdapter) convertLoadResult(
	result *lavalink.LoadResult,
	requester snowflake.ID,
) *domain.TrackList {
	switch data := result.Data.(type) {
	case lavalink.Track:
		return &domain.TrackList{
			Tracks: []*domain.Track{c.convertTrack(data, requester)},
		}

	case lavalink.Playlist:
		tracks := make([]*domain.Track, len(data.Tracks))
		for i, track := range data.Tracks {
			tracks[i] = c.convertTrack(track, requester)
		}
		return &domain.TrackList{
			Tracks:       tracks,
			Playlist:     true,
			PlaylistName: data.Info.Name,
		}

	case lavalink.Search:
		if len(data) == 0 {
			return &domain.TrackList{}
		}
		// Search results: take the best match only.
		return &domain.TrackList{
			Tracks: []*domain.Track{c.convertTrack(data[0], requester)},
		}

	default: // lavalink.Empty, lavalink.Exception
		return &domain.TrackList{}
	}
}

// convertTrack converts a Lavalink track to a domain Track.
func (c *LavalinkAdapter) convertTrack(
	track lavalink.Track,
	requester snowflake.ID,
) *domain.Track {
	info := track.Info

	uri := ""
	if info.URI != nil {
		uri = *info.URI
	}

	return domain.NewTrack(
		info.Identifier,
		track.Encoded,
		info.Title,
		uri,
		time.Duration(info.Length)*time.Millisecond,
		requester,
	)
}

// OnVoiceServerUpdate handles Discord voice server updates. This must be
// called from the Discord event handler.
func (c *LavalinkAdapter) OnVoiceServerUpdate(event *discordgo.VoiceServerUpdate) {
	guildID, err := snowflake.Parse(event.GuildID)
	if err != nil {
		slog.Error("failed to parse guild ID in voice server update", "error", err)
		return
	}

	c.link.OnVoiceServerUpdate(context.Background(), guildID, event.Token, event.Endpoint)

	c.pendingMu.Lock()
	pending := c.pending[guildID]
	c.pendingMu.Unlock()

	if pending != nil {
		pending.onEvent(false)
	}
}

// OnVoiceStateUpdate handles Discord voice state updates for the bot
// itself. This must be called from the Discord event handler.
func (c *LavalinkAdapter) OnVoiceStateUpdate(event *discordgo.VoiceStateUpdate) {
	if event.UserID != c.botID.String() {
		return
	}

	guildID, err := snowflake.Parse(event.GuildID)
	if err != nil {
		slog.Error("failed to parse guild ID in voice state update", "error", err)
		return
	}

	var channelID *snowflake.ID
	if event.ChannelID != "" {
		id, err := snowflake.Parse(event.ChannelID)
		if err != nil {
			slog.Error("failed to parse channel ID in voice state update", "error", err)
			return
		}
		channelID = &id
	}

	c.link.OnVoiceStateUpdate(context.Background(), guildID, channelID, event.SessionID)

	if channelID == nil {
		return
	}

	c.pendingMu.Lock()
	pending := c.pending[guildID]
	c.pendingMu.Unlock()

	if pending != nil {
		pending.onEvent(true)
	}
}

func (c *LavalinkAdapter) onTrackStart(player disgolink.Player, event lavalink.TrackStartEvent) {
	slog.Debug("track started", "guild", player.GuildID(), "track", event.Track.Info.Title)
}

func (c *LavalinkAdapter) onTrackEnd(player disgolink.Player, event lavalink.TrackEndEvent) {
	slog.Debug("track ended", "guild", player.GuildID(), "reason", event.Reason)

	handler := c.lifecycleHandler()
	if handler == nil {
		return
	}
	if err := handler.HandleTrackEnded(
		player.GuildID(),
		event.Track.Info.Identifier,
		string(event.Reason),
	); err != nil {
		slog.Warn("track ended handler failed", "guild", player.GuildID(), "error", err)
	}
}

func (c *LavalinkAdapter) onTrackException(
	player disgolink.Player,
	event lavalink.TrackExceptionEvent,
) {
	slog.Warn("track exception",
		"guild", player.GuildID(),
		"track", event.Track.Info.Title,
		"error", event.Exception.Message,
	)

	handler := c.lifecycleHandler()
	if handler == nil {
		return
	}
	if err := handler.HandleTrackException(
		player.GuildID(),
		event.Track.Info.Identifier,
		event.Exception.Message,
	); err != nil {
		slog.Warn("track exception handler failed", "guild", player.GuildID(), "error", err)
	}
}

func (c *LavalinkAdapter) onTrackStuck(player disgolink.Player, event lavalink.TrackStuckEvent) {
	handler := c.lifecycleHandler()
	if handler == nil {
		return
	}
	if err := handler.HandleTrackStuck(
		player.GuildID(),
		event.Track.Info.Identifier,
		int64(event.Threshold),
	); err != nil {
		slog.Warn("track stuck handler failed", "guild", player.GuildID(), "error", err)
	}
}

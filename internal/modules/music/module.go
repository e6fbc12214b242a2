package music

import (
	"context"
	"log/slog"

	"github.com/bwmarrin/discordgo"
	"github.com/caarlos0/env/v11"
	"github.com/disgoorg/snowflake/v2"
	"github.com/soluma/turntable/internal/bot"
	"github.com/soluma/turntable/internal/modules/music/application/events"
	"github.com/soluma/turntable/internal/modules/music/application/usecases"
	"github.com/soluma/turntable/internal/modules/music/domain"
	"github.com/soluma/turntable/internal/modules/music/infrastructure"
	"github.com/soluma/turntable/internal/modules/music/presentation"
)

func init() {
	bot.Register(&Module{})
}

// Compile-time interface checks.
var (
	_ bot.Module             = (*Module)(nil)
	_ bot.ConfigurableModule = (*Module)(nil)
)

// Module provides collaborative playback sessions per guild.
type Module struct {
	config   *Config
	handlers *presentation.CommandHandlers
	service  *usecases.MusicService
	adapter  *infrastructure.LavalinkAdapter
	bus      *events.Bus
	botID    snowflake.ID

	ctx    context.Context
	cancel context.CancelFunc
}

// Name returns the module name.
func (m *Module) Name() string {
	return "music"
}

// Commands returns the slash commands for this module.
func (m *Module) Commands() []*discordgo.ApplicationCommand {
	return presentation.Commands()
}

// CommandHandlers returns the command handlers for this module.
func (m *Module) CommandHandlers() map[string]bot.InteractionHandler {
	return map[string]bot.InteractionHandler{
		"connect":     m.handlers.HandleConnect,
		"play":        m.handlers.HandlePlay,
		"pause":       m.handlers.HandlePause,
		"resume":      m.handlers.HandleResume,
		"skip":        m.handlers.HandleSkip,
		"stop":        m.handlers.HandleStop,
		"volume":      m.handlers.HandleVolume,
		"volume-up":   m.handlers.HandleVolumeUp,
		"volume-down": m.handlers.HandleVolumeDown,
		"shuffle":     m.handlers.HandleShuffle,
		"seek":        m.handlers.HandleSeek,
		"nowplaying":  m.handlers.HandleNowPlaying,
		"queue":       m.handlers.HandleQueue,
		"swapdj":      m.handlers.HandleSwapDJ,
	}
}

// EventHandlers returns the Discord event handlers for this module.
func (m *Module) EventHandlers() []bot.EventHandler {
	return []bot.EventHandler{
		func(s *discordgo.Session, event *discordgo.VoiceServerUpdate) {
			m.adapter.OnVoiceServerUpdate(event)
		},
		func(s *discordgo.Session, event *discordgo.VoiceStateUpdate) {
			m.handleVoiceStateUpdate(s, event)
		},
	}
}

// LoadConfig loads module-specific configuration from environment variables.
func (m *Module) LoadConfig() error {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return err
	}
	m.config = cfg
	return nil
}

// Init initializes the module.
func (m *Module) Init(deps bot.ModuleDependencies) error {
	m.ctx, m.cancel = context.WithCancel(context.Background())

	botID, err := snowflake.Parse(deps.Session.State.User.ID)
	if err != nil {
		return err
	}
	m.botID = botID

	adapter, err := infrastructure.NewLavalinkAdapter(deps.Session, infrastructure.LavalinkConfig{
		Address:  m.config.LavalinkAddress,
		Password: m.config.LavalinkPassword,
	})
	if err != nil {
		return err
	}
	m.adapter = adapter

	m.bus = events.NewBus(events.DefaultEventBufferSize)
	voiceState := infrastructure.NewDiscordVoiceState(deps.Session)

	registry := usecases.NewRegistry(adapter, adapter, m.bus, m.bus)
	gate := usecases.NewGate(voiceState, voiceState)
	m.service = usecases.NewMusicService(registry, gate, adapter, voiceState, adapter)

	adapter.SetLifecycleHandler(m.service)

	notifier := infrastructure.NewNotifier(deps.Session, m.bus)
	notifier.Start(m.ctx)

	m.handlers = presentation.NewCommandHandlers(m.service)

	slog.Info("music module initialized")
	return nil
}

// Shutdown cleans up module resources.
func (m *Module) Shutdown() error {
	if m.cancel != nil {
		m.cancel()
	}
	if m.bus != nil {
		m.bus.Close()
	}
	if m.adapter != nil {
		m.adapter.Link().Close()
	}
	return nil
}

// handleVoiceStateUpdate forwards voice state changes to the Lavalink
// adapter and applies membership changes to the guild's session.
func (m *Module) handleVoiceStateUpdate(
	s *discordgo.Session,
	event *discordgo.VoiceStateUpdate,
) {
	m.adapter.OnVoiceStateUpdate(event)

	guildID, err := snowflake.Parse(event.GuildID)
	if err != nil {
		return
	}
	userID, err := snowflake.Parse(event.UserID)
	if err != nil {
		return
	}

	var after snowflake.ID
	if event.ChannelID != "" {
		if after, err = snowflake.Parse(event.ChannelID); err != nil {
			return
		}
	}

	// The bot's own disconnect tears down the session.
	if userID == m.botID {
		if err := m.service.HandleBotVoiceStateChanged(m.ctx, guildID, after); err != nil {
			slog.Warn("failed to handle bot voice state change",
				"guild", guildID, "error", err)
		}
		return
	}

	var before snowflake.ID
	if event.BeforeUpdate != nil && event.BeforeUpdate.ChannelID != "" {
		if before, err = snowflake.Parse(event.BeforeUpdate.ChannelID); err != nil {
			return
		}
	}

	member := domain.Member{ID: userID}
	if stateMember, err := s.State.Member(event.GuildID, event.UserID); err == nil &&
		stateMember.User != nil {
		member.Bot = stateMember.User.Bot
	} else if event.Member != nil && event.Member.User != nil {
		member.Bot = event.Member.User.Bot
	}

	if err := m.service.HandleVoiceStateChanged(m.ctx, guildID, member, before, after); err != nil {
		slog.Warn("failed to handle voice state change", "guild", guildID, "error", err)
	}
}

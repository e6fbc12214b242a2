package status

import (
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/soluma/turntable/internal/bot"
)

func init() {
	bot.Register(&Module{})
}

// Module provides a single /status command reporting uptime and gateway
// latency. It doubles as a smoke test for the module registry.
type Module struct {
	startedAt time.Time
}

// Name returns the module name.
func (m *Module) Name() string {
	return "status"
}

// Commands returns the slash commands for this module.
func (m *Module) Commands() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		{
			Name:        "status",
			Description: "Show bot uptime and latency",
		},
	}
}

// CommandHandlers returns the command handlers for this module.
func (m *Module) CommandHandlers() map[string]bot.InteractionHandler {
	return map[string]bot.InteractionHandler{
		"status": m.handleStatus,
	}
}

// EventHandlers returns no event handlers.
func (m *Module) EventHandlers() []bot.EventHandler {
	return nil
}

// Init initializes the module.
func (m *Module) Init(_ bot.ModuleDependencies) error {
	m.startedAt = time.Now()
	return nil
}

// Shutdown is a no-op.
func (m *Module) Shutdown() error {
	return nil
}

func (m *Module) handleStatus(
	s *discordgo.Session,
	_ *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	uptime := time.Since(m.startedAt).Round(time.Second)

	description := fmt.Sprintf("Uptime: **%s**", uptime)
	if s != nil {
		description += fmt.Sprintf("\nGateway latency: **%dms**",
			s.HeartbeatLatency().Milliseconds())
	}

	return r.Respond(&discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{
				{
					Title:       "Status",
					Description: description,
				},
			},
		},
	})
}

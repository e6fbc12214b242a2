package infrastructure

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bwmarrin/discordgo"
	"github.com/disgoorg/snowflake/v2"
	"github.com/soluma/turntable/internal/modules/music/application/events"
)

// Embed colors.
const (
	colorPlaying = 0x08c404
	colorError   = 0xE74C3C
	colorClosed  = 0x95A5A6
)

// Notifier consumes the module event bus and posts embeds to the
// session's text channel. Delivery is best-effort: a failed send is
// logged and dropped, never retried.
type Notifier struct {
	session *discordgo.Session
	bus     *events.Bus
}

// NewNotifier creates a new Notifier.
func NewNotifier(session *discordgo.Session, bus *events.Bus) *Notifier {
	return &Notifier{
		session: session,
		bus:     bus,
	}
}

// Start consumes bus events until the context is cancelled or the bus
// is closed.
func (n *Notifier) Start(ctx context.Context) {
	go n.run(ctx)
}

func (n *Notifier) run(ctx context.Context) {
	for {
		select {
		case ev, ok := <-n.bus.PlaybackStarted():
			if !ok {
				return
			}
			n.sendNowPlaying(ev)

		case ev, ok := <-n.bus.TrackFailed():
			if !ok {
				return
			}
			n.sendTrackFailed(ev)

		case ev, ok := <-n.bus.SessionClosed():
			if !ok {
				return
			}
			n.sendSessionClosed(ev)

		case <-ctx.Done():
			return
		}
	}
}

func (n *Notifier) sendNowPlaying(ev events.PlaybackStartedEvent) {
	embed := &discordgo.MessageEmbed{
		Author: &discordgo.MessageEmbedAuthor{
			Name: "Now Playing",
		},
		Title: ev.Track.Title,
		URL:   ev.Track.URI,
		Color: colorPlaying,
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:   "Duration",
				Value:  ev.Track.FormattedDuration(),
				Inline: true,
			},
			{
				Name:   "Requested by",
				Value:  fmt.Sprintf("<@%d>", ev.Track.Requester),
				Inline: true,
			},
		},
	}

	n.send(ev.TextChannelID, embed)
}

func (n *Notifier) sendTrackFailed(ev events.TrackFailedEvent) {
	title := "a track"
	if ev.Track != nil {
		title = ev.Track.Title
	}

	embed := &discordgo.MessageEmbed{
		Description: fmt.Sprintf("An error occurred playing **%s**: %s", title, ev.Cause),
		Color:       colorError,
	}

	n.send(ev.TextChannelID, embed)
}

func (n *Notifier) sendSessionClosed(ev events.SessionClosedEvent) {
	embed := &discordgo.MessageEmbed{
		Description: "Disconnected. See you next time!",
		Color:       colorClosed,
	}

	n.send(ev.TextChannelID, embed)
}

func (n *Notifier) send(channelID snowflake.ID, embed *discordgo.MessageEmbed) {
	if channelID == 0 {
		return
	}
	if _, err := n.session.ChannelMessageSendEmbed(channelID.String(), embed); err != nil {
		slog.Warn("failed to send notification", "channel", channelID, "error", err)
	}
}

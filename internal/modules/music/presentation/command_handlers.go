package presentation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/disgoorg/snowflake/v2"
	"github.com/soluma/turntable/internal/bot"
	"github.com/soluma/turntable/internal/modules/music/application/usecases"
	"github.com/soluma/turntable/internal/modules/music/domain"
)

// Embed colors.
const (
	colorSuccess = 0x08c404
	colorError   = 0xE74C3C
)

// CommandHandlers holds the music command handlers.
type CommandHandlers struct {
	service *usecases.MusicService
}

// NewCommandHandlers creates new CommandHandlers.
func NewCommandHandlers(service *usecases.MusicService) *CommandHandlers {
	return &CommandHandlers{
		service: service,
	}
}

// invocation parses the invoking user and context out of an interaction.
func invocation(i *discordgo.InteractionCreate) (usecases.Invocation, error) {
	guildID, err := snowflake.Parse(i.GuildID)
	if err != nil {
		return usecases.Invocation{}, fmt.Errorf("invalid guild ID: %w", err)
	}

	if i.Member == nil || i.Member.User == nil {
		return usecases.Invocation{}, errors.New("interaction has no member")
	}
	userID, err := snowflake.Parse(i.Member.User.ID)
	if err != nil {
		return usecases.Invocation{}, fmt.Errorf("invalid user ID: %w", err)
	}

	textChannelID, err := snowflake.Parse(i.ChannelID)
	if err != nil {
		return usecases.Invocation{}, fmt.Errorf("invalid channel ID: %w", err)
	}

	return usecases.Invocation{
		GuildID:       guildID,
		UserID:        userID,
		TextChannelID: textChannelID,
	}, nil
}

// gateCheck runs the shared authorization preconditions for inv.
func (h *CommandHandlers) gateCheck(inv usecases.Invocation) error {
	sess := h.service.Registry().Get(inv.GuildID)
	return h.service.Gate().Check(sess, inv.GuildID, inv.UserID, inv.TextChannelID)
}

// errorMessage maps module errors to user-facing text.
func errorMessage(err error) string {
	switch {
	case errors.Is(err, usecases.ErrAlreadyActive):
		return "I'm already connected to a voice channel. Disconnect me first!"
	case errors.Is(err, usecases.ErrSessionGone),
		errors.Is(err, usecases.ErrNotConnected):
		return "There is no active session."
	case errors.Is(err, usecases.ErrUserNotInVoice):
		return "You must be in a voice channel."
	case errors.Is(err, usecases.ErrNoCurrentTrack):
		return "Nothing is currently playing."
	case errors.Is(err, usecases.ErrVolumeOutOfRange):
		return "Please enter a volume between 0 and 100."
	case errors.Is(err, usecases.ErrQueueTooShort):
		return "Add more tracks to the queue before shuffling."
	case errors.Is(err, usecases.ErrWrongTextChannel):
		return "Use the channel the session was started from."
	case errors.Is(err, usecases.ErrNotInVoice):
		return "You must be in my voice channel."
	case errors.Is(err, usecases.ErrNotPrivileged):
		return "Only the DJ or admins may do that."
	case errors.Is(err, usecases.ErrNoResults):
		return "No results found for that query."
	case errors.Is(err, usecases.ErrMemberNotInChannel):
		return "That member is not in the voice channel."
	case errors.Is(err, usecases.ErrAlreadyDJ):
		return "That member is already the DJ."
	case errors.Is(err, usecases.ErrNoEligibleMember):
		return "There is nobody else to hand the DJ role to."
	default:
		return "Something went wrong while processing your command."
	}
}

func respond(r bot.Responder, description string, color int) error {
	return r.Respond(&discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{
				{
					Description: description,
					Color:       color,
				},
			},
		},
	})
}

func respondErr(r bot.Responder, err error) error {
	return respond(r, errorMessage(err), colorError)
}

// HandleConnect handles the /connect command.
func (h *CommandHandlers) HandleConnect(
	s *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	inv, err := invocation(i)
	if err != nil {
		return err
	}
	if err := h.gateCheck(inv); err != nil {
		return respondErr(r, err)
	}

	var voiceChannelID snowflake.ID
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name == "channel" {
			voiceChannelID, err = snowflake.Parse(opt.ChannelValue(s).ID)
			if err != nil {
				return respondErr(r, err)
			}
		}
	}

	sess, err := h.service.Connect(context.Background(), inv, voiceChannelID)
	if err != nil {
		return respondErr(r, err)
	}

	return respond(r,
		fmt.Sprintf("🎵 Connected to <#%d>. Have fun!", sess.VoiceChannelID()),
		colorSuccess)
}

// HandlePlay handles the /play command.
func (h *CommandHandlers) HandlePlay(
	s *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	inv, err := invocation(i)
	if err != nil {
		return err
	}
	if err := h.gateCheck(inv); err != nil {
		return respondErr(r, err)
	}

	var query string
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name == "query" {
			query = opt.StringValue()
		}
	}
	if query == "" {
		return respond(r, "Not a valid query.", colorError)
	}

	output, err := h.service.Play(context.Background(), inv, query)
	if err != nil {
		return respondErr(r, err)
	}

	if output.Playlist {
		return respond(r,
			fmt.Sprintf("Added **%d** tracks from **%s**.",
				len(output.Added), output.PlaylistName),
			colorSuccess)
	}

	track := output.Added[0]
	return respond(r,
		fmt.Sprintf("Added [%s](%s) (`%s`) to the queue.",
			track.Title, track.URI, track.FormattedDuration()),
		colorSuccess)
}

// HandlePause handles the /pause command.
func (h *CommandHandlers) HandlePause(
	_ *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	inv, err := invocation(i)
	if err != nil {
		return err
	}
	if err := h.gateCheck(inv); err != nil {
		return respondErr(r, err)
	}

	if err := h.service.Pause(context.Background(), inv); err != nil {
		return respondErr(r, err)
	}
	return respond(r, "Paused the player.", colorSuccess)
}

// HandleResume handles the /resume command.
func (h *CommandHandlers) HandleResume(
	_ *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	inv, err := invocation(i)
	if err != nil {
		return err
	}
	if err := h.gateCheck(inv); err != nil {
		return respondErr(r, err)
	}

	if err := h.service.Resume(context.Background(), inv); err != nil {
		return respondErr(r, err)
	}
	return respond(r, "Resumed the player.", colorSuccess)
}

// HandleSkip handles the /skip command.
func (h *CommandHandlers) HandleSkip(
	_ *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	inv, err := invocation(i)
	if err != nil {
		return err
	}
	if err := h.gateCheck(inv); err != nil {
		return respondErr(r, err)
	}

	output, err := h.service.Skip(context.Background(), inv)
	if err != nil {
		return respondErr(r, err)
	}

	if output.Next == nil {
		return respond(r,
			fmt.Sprintf("Skipped **%s**. The queue is empty.", output.Skipped.Title),
			colorSuccess)
	}
	return respond(r,
		fmt.Sprintf("Skipped **%s**. Now playing **%s**.",
			output.Skipped.Title, output.Next.Title),
		colorSuccess)
}

// HandleStop handles the /stop command.
func (h *CommandHandlers) HandleStop(
	_ *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	inv, err := invocation(i)
	if err != nil {
		return err
	}
	if err := h.gateCheck(inv); err != nil {
		return respondErr(r, err)
	}

	if err := h.service.Stop(context.Background(), inv); err != nil {
		return respondErr(r, err)
	}
	return respond(r, "Stopped the player and cleared the queue.", colorSuccess)
}

// HandleVolume handles the /volume command.
func (h *CommandHandlers) HandleVolume(
	_ *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	inv, err := invocation(i)
	if err != nil {
		return err
	}
	if err := h.gateCheck(inv); err != nil {
		return respondErr(r, err)
	}

	var level int
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name == "level" {
			level = int(opt.IntValue())
		}
	}

	if err := h.service.SetVolume(context.Background(), inv, level); err != nil {
		return respondErr(r, err)
	}
	return respond(r, fmt.Sprintf("Set the volume to **%d%%**.", level), colorSuccess)
}

// HandleVolumeUp handles the /volume-up command.
func (h *CommandHandlers) HandleVolumeUp(
	_ *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	return h.nudgeVolume(i, r, 10)
}

// HandleVolumeDown handles the /volume-down command.
func (h *CommandHandlers) HandleVolumeDown(
	_ *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	return h.nudgeVolume(i, r, -10)
}

func (h *CommandHandlers) nudgeVolume(
	i *discordgo.InteractionCreate,
	r bot.Responder,
	delta int,
) error {
	inv, err := invocation(i)
	if err != nil {
		return err
	}
	if err := h.gateCheck(inv); err != nil {
		return respondErr(r, err)
	}

	volume, err := h.service.NudgeVolume(context.Background(), inv, delta)
	if err != nil {
		return respondErr(r, err)
	}

	switch volume {
	case 100:
		return respond(r, "Maximum volume reached.", colorSuccess)
	case 0:
		return respond(r, "The player is now muted.", colorSuccess)
	default:
		return respond(r, fmt.Sprintf("Volume is now **%d%%**.", volume), colorSuccess)
	}
}

// HandleShuffle handles the /shuffle command.
func (h *CommandHandlers) HandleShuffle(
	_ *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	inv, err := invocation(i)
	if err != nil {
		return err
	}
	if err := h.gateCheck(inv); err != nil {
		return respondErr(r, err)
	}

	if err := h.service.Shuffle(inv); err != nil {
		return respondErr(r, err)
	}
	return respond(r, "Shuffled the queue.", colorSuccess)
}

// HandleSeek handles the /seek command.
func (h *CommandHandlers) HandleSeek(
	_ *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	inv, err := invocation(i)
	if err != nil {
		return err
	}
	if err := h.gateCheck(inv); err != nil {
		return respondErr(r, err)
	}

	var seconds int64
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name == "seconds" {
			seconds = opt.IntValue()
		}
	}

	offset := time.Duration(seconds) * time.Second
	if err := h.service.Seek(context.Background(), inv, offset); err != nil {
		return respondErr(r, err)
	}
	return respond(r, fmt.Sprintf("Seeked to **%ds**.", seconds), colorSuccess)
}

// HandleNowPlaying handles the /nowplaying command.
func (h *CommandHandlers) HandleNowPlaying(
	_ *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	inv, err := invocation(i)
	if err != nil {
		return err
	}
	if err := h.gateCheck(inv); err != nil {
		return respondErr(r, err)
	}

	output, err := h.service.NowPlaying(inv)
	if err != nil {
		return respondErr(r, err)
	}

	state := "Playing"
	if output.Paused {
		state = "Paused"
	}

	return r.Respond(&discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{
				{
					Author: &discordgo.MessageEmbedAuthor{Name: state},
					Title:  output.Track.Title,
					URL:    output.Track.URI,
					Color:  colorSuccess,
					Fields: []*discordgo.MessageEmbedField{
						{
							Name:   "Duration",
							Value:  output.Track.FormattedDuration(),
							Inline: true,
						},
						{
							Name:   "Volume",
							Value:  fmt.Sprintf("%d%%", output.Volume),
							Inline: true,
						},
						{
							Name:   "DJ",
							Value:  fmt.Sprintf("<@%d>", output.DJ),
							Inline: true,
						},
					},
				},
			},
		},
	})
}

// HandleQueue handles the /queue command.
func (h *CommandHandlers) HandleQueue(
	_ *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	inv, err := invocation(i)
	if err != nil {
		return err
	}
	if err := h.gateCheck(inv); err != nil {
		return respondErr(r, err)
	}

	wantPage := 1
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name == "page" {
			wantPage = int(opt.IntValue())
		}
	}

	pages, total, err := h.service.QueuePages(inv, domain.DefaultPageSize)
	if err != nil {
		return respondErr(r, err)
	}
	if total == 0 {
		return respond(r, "There are no more tracks in the queue.", colorError)
	}

	for page := range pages {
		if page.Number != wantPage {
			continue
		}
		return r.Respond(&discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseChannelMessageWithSource,
			Data: &discordgo.InteractionResponseData{
				Embeds: []*discordgo.MessageEmbed{
					{
						Title:       fmt.Sprintf("Queue — %d tracks", total),
						Description: strings.Join(page.Entries, "\n"),
						Color:       colorSuccess,
						Footer: &discordgo.MessageEmbedFooter{
							Text: fmt.Sprintf("Page %d/%d", page.Number, page.Total),
						},
					},
				},
			},
		})
	}

	return respond(r, "That page does not exist.", colorError)
}

// HandleSwapDJ handles the /swapdj command.
func (h *CommandHandlers) HandleSwapDJ(
	s *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	inv, err := invocation(i)
	if err != nil {
		return err
	}
	if err := h.gateCheck(inv); err != nil {
		return respondErr(r, err)
	}

	var target snowflake.ID
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name == "member" {
			target, err = snowflake.Parse(opt.UserValue(s).ID)
			if err != nil {
				return respondErr(r, err)
			}
		}
	}

	dj, err := h.service.SwapDJ(inv, target)
	if err != nil {
		return respondErr(r, err)
	}
	return respond(r, fmt.Sprintf("<@%d> is now the DJ.", dj), colorSuccess)
}

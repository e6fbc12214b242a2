package presentation

import "github.com/bwmarrin/discordgo"

func float64Ptr(v float64) *float64 {
	return &v
}

// Commands returns the slash commands for the music module.
func Commands() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		{
			Name:        "connect",
			Description: "Connect the bot to a voice channel",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionChannel,
					Name:        "channel",
					Description: "Voice channel to connect to (defaults to yours)",
					ChannelTypes: []discordgo.ChannelType{
						discordgo.ChannelTypeGuildVoice,
					},
				},
			},
		},
		{
			Name:        "play",
			Description: "Play a track or playlist matching the query",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "query",
					Description: "Search query or URL",
					Required:    true,
				},
			},
		},
		{
			Name:        "pause",
			Description: "Pause the current playback",
		},
		{
			Name:        "resume",
			Description: "Resume the paused playback",
		},
		{
			Name:        "skip",
			Description: "Skip the currently playing track",
		},
		{
			Name:        "stop",
			Description: "Stop playback and disconnect",
		},
		{
			Name:        "volume",
			Description: "Set the playback volume",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "level",
					Description: "Volume between 0 and 100",
					Required:    true,
					MinValue:    float64Ptr(0),
					MaxValue:    100,
				},
			},
		},
		{
			Name:        "volume-up",
			Description: "Turn the volume up by 10",
		},
		{
			Name:        "volume-down",
			Description: "Turn the volume down by 10",
		},
		{
			Name:        "shuffle",
			Description: "Shuffle the queued tracks",
		},
		{
			Name:        "seek",
			Description: "Seek within the current track",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "seconds",
					Description: "Position in seconds",
					Required:    true,
					MinValue:    float64Ptr(0),
				},
			},
		},
		{
			Name:        "nowplaying",
			Description: "Show the currently playing track",
		},
		{
			Name:        "queue",
			Description: "Show the queued tracks",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "page",
					Description: "Page to show",
					MinValue:    float64Ptr(1),
				},
			},
		},
		{
			Name:        "swapdj",
			Description: "Hand the DJ role to another member",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionUser,
					Name:        "member",
					Description: "Member to make DJ (defaults to the next member in the channel)",
				},
			},
		},
	}
}

package domain

import (
	"strconv"
	"time"

	"github.com/disgoorg/snowflake/v2"
)

// Track represents a playable audio track, resolved by an external
// provider. Tracks are immutable once constructed.
type Track struct {
	ID        string // unique identifier from the transport engine
	Encoded   string // Lavalink encoded track data
	Title     string
	URI       string
	Duration  time.Duration
	Requester snowflake.ID // Discord user who added the track
}

// NewTrack creates a new Track with the given parameters.
func NewTrack(
	id string,
	encoded string,
	title string,
	uri string,
	duration time.Duration,
	requester snowflake.ID,
) *Track {
	return &Track{
		ID:        id,
		Encoded:   encoded,
		Title:     title,
		URI:       uri,
		Duration:  duration,
		Requester: requester,
	}
}

// IsValid returns true if the track has the minimum required fields.
func (t *Track) IsValid() bool {
	return t != nil && t.ID != "" && t.Encoded != ""
}

// FormattedDuration returns the duration as a human-readable string (mm:ss or hh:mm:ss).
func (t *Track) FormattedDuration() string {
	totalSeconds := int(t.Duration.Seconds())
	hours := totalSeconds / 3600
	minutes := (totalSeconds % 3600) / 60
	seconds := totalSeconds % 60

	if hours > 0 {
		return pad(hours) + ":" + pad(minutes) + ":" + pad(seconds)
	}
	return pad(minutes) + ":" + pad(seconds)
}

func pad(n int) string {
	if n < 10 {
		return "0" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}

// TrackList is the result of resolving a query: a single track or an
// ordered batch of tracks (playlist). Order is playback order.
type TrackList struct {
	Tracks       []*Track
	Playlist     bool
	PlaylistName string
}

// IsEmpty returns true if the resolution yielded no tracks.
func (l *TrackList) IsEmpty() bool {
	return l == nil || len(l.Tracks) == 0
}

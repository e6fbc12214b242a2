package domain

import "github.com/disgoorg/snowflake/v2"

// Member is a voice channel occupant as seen by the DJ policy.
type Member struct {
	ID  snowflake.ID
	Bot bool
}

// MembershipChange describes how a member's relation to a channel changed.
type MembershipChange int

const (
	// MemberLeft means the member left the channel.
	MemberLeft MembershipChange = iota
	// MemberJoined means the member joined the channel.
	MemberJoined
)

// MembershipEvent is a single membership change against one channel.
type MembershipEvent struct {
	Member    Member
	Change    MembershipChange
	ChannelID snowflake.ID // channel the member left from or joined to
}

// NextDJ decides who holds DJ authority after a membership change.
// It is a pure function of the current DJ, the event, and the channel
// roster after the event. The roster must be in the provider's stable
// order and may include bots; bots are never eligible for DJ and are
// excluded from all counts.
//
// The second return value reports that the session's voice channel has
// no human members left and the caller must tear the session down.
func NextDJ(
	current snowflake.ID,
	sessionChannel snowflake.ID,
	ev MembershipEvent,
	roster []Member,
) (snowflake.ID, bool) {
	if ev.Member.Bot || ev.ChannelID != sessionChannel {
		return current, false
	}

	if ev.Change == MemberLeft {
		if FirstHuman(roster) == 0 {
			// Orphaned session: nobody left to control it.
			return 0, true
		}
		if ev.Member.ID == current {
			// The DJ left; authority passes to the first remaining human.
			return FirstHuman(roster), false
		}
		return current, false
	}

	// A member joined: they take over only if the current DJ is no
	// longer in the channel (e.g. the DJ was moved rather than
	// disconnected).
	if !RosterContains(roster, current) {
		return ev.Member.ID, false
	}

	return current, false
}

// FirstHuman returns the first non-bot member in roster order, or 0.
func FirstHuman(roster []Member) snowflake.ID {
	for _, m := range roster {
		if !m.Bot {
			return m.ID
		}
	}
	return 0
}

// RosterContains reports whether id appears in the roster. A zero id is
// never contained.
func RosterContains(roster []Member, id snowflake.ID) bool {
	if id == 0 {
		return false
	}
	for _, m := range roster {
		if m.ID == id {
			return true
		}
	}
	return false
}

// HumanCount returns the number of non-bot members in the roster.
func HumanCount(roster []Member) int {
	count := 0
	for _, m := range roster {
		if !m.Bot {
			count++
		}
	}
	return count
}

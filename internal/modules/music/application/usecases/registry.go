package usecases

import (
	"sync"

	"github.com/disgoorg/snowflake/v2"
	"github.com/soluma/turntable/internal/modules/music/application/events"
	"github.com/soluma/turntable/internal/modules/music/application/ports"
)

// Registry is the process-wide map from guild to at most one live
// session. It is the single source of truth: callers must not cache a
// session across a blocking operation without re-validating it still
// exists.
type Registry struct {
	mu       sync.Mutex
	sessions map[snowflake.ID]*Session

	player   ports.AudioPlayer
	conn     ports.VoiceConnection
	reporter ports.ErrorReporter
	bus      *events.Bus
}

// NewRegistry creates a new Registry. The given collaborators are handed
// to every session it creates.
func NewRegistry(
	player ports.AudioPlayer,
	conn ports.VoiceConnection,
	reporter ports.ErrorReporter,
	bus *events.Bus,
) *Registry {
	return &Registry{
		sessions: make(map[snowflake.ID]*Session),
		player:   player,
		conn:     conn,
		reporter: reporter,
		bus:      bus,
	}
}

// Get returns the live session for the guild, or nil.
func (r *Registry) Get(guildID snowflake.ID) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sessions[guildID]
}

// Create registers a new session for the guild with the connecting user
// as initial DJ. Fails with ErrAlreadyActive if a session already exists;
// two concurrent creates for the same guild yield exactly one session.
func (r *Registry) Create(
	guildID, textChannelID, voiceChannelID, dj snowflake.ID,
) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[guildID]; ok {
		return nil, ErrAlreadyActive
	}

	sess := newSession(guildID, textChannelID, voiceChannelID, dj,
		r.player, r.conn, r.reporter, r.bus)
	sess.detach = func() {
		r.Remove(guildID)
	}
	r.sessions[guildID] = sess
	return sess, nil
}

// Remove deletes the registry entry for the guild. Idempotent. Sessions
// are removed only through their own teardown.
func (r *Registry) Remove(guildID snowflake.ID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, guildID)
}

// Count returns the number of live sessions.
func (r *Registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

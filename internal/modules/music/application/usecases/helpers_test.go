package usecases

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/soluma/turntable/internal/modules/music/domain"
)

const (
	testGuild        = snowflake.ID(10)
	testTextChannel  = snowflake.ID(20)
	testVoiceChannel = snowflake.ID(30)
	testDJ           = snowflake.ID(40)
	testMember       = snowflake.ID(41)
	testAdmin        = snowflake.ID(42)
)

func newTestTrack(n int) *domain.Track {
	id := "track-" + strconv.Itoa(n)
	return &domain.Track{
		ID:       id,
		Encoded:  "encoded-" + id,
		Title:    "Song " + strconv.Itoa(n),
		URI:      "https://example.com/" + id,
		Duration: 3 * time.Minute,
	}
}

// mockAudioPlayer records playback instructions.
type mockAudioPlayer struct {
	mu sync.Mutex

	played  []*domain.Track
	stops   int
	paused  []bool
	volumes []int
	seeks   []time.Duration

	playErr   error
	pauseErr  error
	volumeErr error
}

func (m *mockAudioPlayer) Play(_ context.Context, _ snowflake.ID, track *domain.Track) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.playErr != nil {
		return m.playErr
	}
	m.played = append(m.played, track)
	return nil
}

func (m *mockAudioPlayer) Stop(_ context.Context, _ snowflake.ID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stops++
	return nil
}

func (m *mockAudioPlayer) Pause(_ context.Context, _ snowflake.ID, paused bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.pauseErr != nil {
		return m.pauseErr
	}
	m.paused = append(m.paused, paused)
	return nil
}

func (m *mockAudioPlayer) SetVolume(_ context.Context, _ snowflake.ID, volume int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.volumeErr != nil {
		return m.volumeErr
	}
	m.volumes = append(m.volumes, volume)
	return nil
}

func (m *mockAudioPlayer) Seek(_ context.Context, _ snowflake.ID, position time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seeks = append(m.seeks, position)
	return nil
}

func (m *mockAudioPlayer) playedIDs() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]string, len(m.played))
	for i, track := range m.played {
		ids[i] = track.ID
	}
	return ids
}

// mockVoiceConnection records join and leave calls.
type mockVoiceConnection struct {
	mu sync.Mutex

	joins  []snowflake.ID // channel ids
	leaves int

	joinErr  error
	leaveErr error
}

func (m *mockVoiceConnection) JoinChannel(_ context.Context, _, channelID snowflake.ID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.joinErr != nil {
		return m.joinErr
	}
	m.joins = append(m.joins, channelID)
	return nil
}

func (m *mockVoiceConnection) LeaveChannel(_ context.Context, _ snowflake.ID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.leaves++
	return m.leaveErr
}

func (m *mockVoiceConnection) leaveCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.leaves
}

// mockVoiceState serves canned voice state and permissions.
type mockVoiceState struct {
	userChannels map[snowflake.ID]snowflake.ID // user -> channel
	rosters      map[snowflake.ID][]domain.Member
	admins       map[snowflake.ID]bool

	userChannelErr error
	permErr        error

	// permHook runs at the start of CanManageMembers, for interleaving
	// other calls into the unlocked privilege-check window.
	permHook func()
}

func newMockVoiceState() *mockVoiceState {
	return &mockVoiceState{
		userChannels: make(map[snowflake.ID]snowflake.ID),
		rosters:      make(map[snowflake.ID][]domain.Member),
		admins:       make(map[snowflake.ID]bool),
	}
}

func (m *mockVoiceState) UserVoiceChannel(_, userID snowflake.ID) (snowflake.ID, error) {
	if m.userChannelErr != nil {
		return 0, m.userChannelErr
	}
	return m.userChannels[userID], nil
}

func (m *mockVoiceState) ChannelMembers(_, channelID snowflake.ID) ([]domain.Member, error) {
	return m.rosters[channelID], nil
}

func (m *mockVoiceState) CanManageMembers(_, userID snowflake.ID) (bool, error) {
	if m.permHook != nil {
		m.permHook()
	}
	if m.permErr != nil {
		return false, m.permErr
	}
	return m.admins[userID], nil
}

// mockResolver resolves every query to a fixed result.
type mockResolver struct {
	result *domain.TrackList
	err    error

	queries []string
}

func (m *mockResolver) Resolve(
	_ context.Context,
	query string,
	requester snowflake.ID,
) (*domain.TrackList, error) {
	m.queries = append(m.queries, query)
	if m.err != nil {
		return nil, m.err
	}
	if m.result == nil {
		return &domain.TrackList{}, nil
	}
	// Stamp the requester like a real resolver would.
	for _, track := range m.result.Tracks {
		track.Requester = requester
	}
	return m.result, nil
}

// mockReporter records failure reports.
type mockReporter struct {
	mu      sync.Mutex
	reports []string // track id + cause
}

func (m *mockReporter) Report(_, _ snowflake.ID, track *domain.Track, cause string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := ""
	if track != nil {
		id = track.ID
	}
	m.reports = append(m.reports, id+": "+cause)
}

func (m *mockReporter) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.reports)
}

// newTestSession builds a connected session outside the registry for
// direct state machine tests.
func newTestSession(
	player *mockAudioPlayer,
	conn *mockVoiceConnection,
	reporter *mockReporter,
) *Session {
	return newSession(
		testGuild, testTextChannel, testVoiceChannel, testDJ,
		player, conn, reporter, nil,
	)
}

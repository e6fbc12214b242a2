package usecases

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/disgoorg/snowflake/v2"
	"github.com/soluma/turntable/internal/modules/music/application/events"
	"github.com/soluma/turntable/internal/modules/music/domain"
)

func TestSession_EnqueueAndStart(t *testing.T) {
	player := &mockAudioPlayer{}
	sess := newTestSession(player, &mockVoiceConnection{}, &mockReporter{})
	ctx := context.Background()

	started, err := sess.EnqueueAndStart(ctx, newTestTrack(1), newTestTrack(2))
	if err != nil {
		t.Fatalf("EnqueueAndStart() error = %v", err)
	}
	if started == nil || started.ID != "track-1" {
		t.Fatalf("expected playback to start with track-1, got %v", started)
	}
	if sess.QueueLen() != 1 {
		t.Errorf("expected 1 queued track, got %d", sess.QueueLen())
	}

	// Session already playing: enqueue only.
	started, err = sess.EnqueueAndStart(ctx, newTestTrack(3))
	if err != nil {
		t.Fatalf("EnqueueAndStart() error = %v", err)
	}
	if started != nil {
		t.Errorf("expected no new playback while a track is current, got %v", started)
	}
	if sess.QueueLen() != 2 {
		t.Errorf("expected 2 queued tracks, got %d", sess.QueueLen())
	}
}

func TestSession_AdvanceFollowsQueueOrder(t *testing.T) {
	player := &mockAudioPlayer{}
	sess := newTestSession(player, &mockVoiceConnection{}, &mockReporter{})
	ctx := context.Background()

	if err := sess.EnqueueAll(newTestTrack(1), newTestTrack(2), newTestTrack(3)); err != nil {
		t.Fatal(err)
	}

	for _, want := range []string{"track-1", "track-2", "track-3"} {
		track, err := sess.Advance(ctx)
		if err != nil {
			t.Fatalf("Advance() error = %v", err)
		}
		if track == nil || track.ID != want {
			t.Fatalf("Advance() = %v, want %s", track, want)
		}
		if sess.Current().ID != want {
			t.Errorf("Current() = %v, want %s", sess.Current(), want)
		}
	}

	// Queue exhausted: idle, connected, current cleared.
	track, err := sess.Advance(ctx)
	if err != nil {
		t.Fatalf("Advance() on empty queue error = %v", err)
	}
	if track != nil {
		t.Errorf("expected nil track on exhausted queue, got %v", track)
	}
	if sess.Current() != nil {
		t.Error("expected current to be cleared")
	}
	if sess.Closed() {
		t.Error("session must stay alive on queue exhaustion")
	}
	if player.stops != 1 {
		t.Errorf("expected one transport stop, got %d", player.stops)
	}
}

func TestSession_AdvancePlayFailure(t *testing.T) {
	playErr := errors.New("node unavailable")
	player := &mockAudioPlayer{playErr: playErr}
	sess := newTestSession(player, &mockVoiceConnection{}, &mockReporter{})

	if err := sess.Enqueue(newTestTrack(1)); err != nil {
		t.Fatal(err)
	}

	_, err := sess.Advance(context.Background())
	if !errors.Is(err, playErr) {
		t.Fatalf("Advance() error = %v, want %v", err, playErr)
	}
	if sess.Current() != nil {
		t.Error("current must not be set when the transport rejected the track")
	}
}

func TestSession_ConcurrentAdvance(t *testing.T) {
	const tracks = 16

	player := &mockAudioPlayer{}
	sess := newTestSession(player, &mockVoiceConnection{}, &mockReporter{})
	ctx := context.Background()

	for i := 1; i <= tracks; i++ {
		if err := sess.Enqueue(newTestTrack(i)); err != nil {
			t.Fatal(err)
		}
	}

	var wg sync.WaitGroup
	for range tracks {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := sess.Advance(ctx); err != nil {
				t.Errorf("Advance() error = %v", err)
			}
		}()
	}
	wg.Wait()

	// Each track started exactly once, none skipped or duplicated.
	ids := player.playedIDs()
	if len(ids) != tracks {
		t.Fatalf("played %d tracks, want %d", len(ids), tracks)
	}
	seen := make(map[string]bool)
	for _, id := range ids {
		if seen[id] {
			t.Errorf("track %s played twice", id)
		}
		seen[id] = true
	}
	if sess.QueueLen() != 0 {
		t.Errorf("expected drained queue, got %d", sess.QueueLen())
	}
}

func TestSession_OnTrackEnded(t *testing.T) {
	tests := []struct {
		name        string
		trackID     string
		reason      string
		wantAdvance bool
	}{
		{"finished advances", "track-1", "finished", true},
		{"load failure advances", "track-1", "loadFailed", true},
		{"replaced is an echo of skip", "track-1", "replaced", false},
		{"stopped is an echo of stop", "track-1", "stopped", false},
		{"cleanup is ignored", "track-1", "cleanup", false},
		{"stale track is ignored", "track-0", "finished", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			player := &mockAudioPlayer{}
			sess := newTestSession(player, &mockVoiceConnection{}, &mockReporter{})
			ctx := context.Background()

			if _, err := sess.EnqueueAndStart(ctx, newTestTrack(1), newTestTrack(2)); err != nil {
				t.Fatal(err)
			}

			if err := sess.OnTrackEnded(ctx, tt.trackID, tt.reason); err != nil {
				t.Fatalf("OnTrackEnded() error = %v", err)
			}

			wantCurrent := "track-1"
			if tt.wantAdvance {
				wantCurrent = "track-2"
			}
			if got := sess.Current(); got == nil || got.ID != wantCurrent {
				t.Errorf("current = %v, want %s", got, wantCurrent)
			}
		})
	}
}

func TestSession_SkipThenStaleEndNotification(t *testing.T) {
	player := &mockAudioPlayer{}
	sess := newTestSession(player, &mockVoiceConnection{}, &mockReporter{})
	ctx := context.Background()

	if _, err := sess.EnqueueAndStart(ctx,
		newTestTrack(1), newTestTrack(2), newTestTrack(3)); err != nil {
		t.Fatal(err)
	}

	// A skip advances to track-2; the engine then reports track-1 ended
	// with "replaced", and a hypothetical late "finished" for track-1
	// arrives after that. Neither may advance again.
	if _, err := sess.Advance(ctx); err != nil {
		t.Fatal(err)
	}
	if err := sess.OnTrackEnded(ctx, "track-1", "replaced"); err != nil {
		t.Fatal(err)
	}
	if err := sess.OnTrackEnded(ctx, "track-1", "finished"); err != nil {
		t.Fatal(err)
	}

	if got := sess.Current(); got == nil || got.ID != "track-2" {
		t.Errorf("current = %v, want track-2", got)
	}
	if sess.QueueLen() != 1 {
		t.Errorf("queue length = %d, want 1", sess.QueueLen())
	}
}

func TestSession_SkipCurrent(t *testing.T) {
	ctx := context.Background()

	t.Run("advances past the current track", func(t *testing.T) {
		player := &mockAudioPlayer{}
		sess := newTestSession(player, &mockVoiceConnection{}, &mockReporter{})

		if _, err := sess.EnqueueAndStart(ctx, newTestTrack(1), newTestTrack(2)); err != nil {
			t.Fatal(err)
		}

		next, err := sess.SkipCurrent(ctx, "track-1")
		if err != nil {
			t.Fatalf("SkipCurrent() error = %v", err)
		}
		if next == nil || next.ID != "track-2" {
			t.Errorf("next = %v, want track-2", next)
		}
	})

	t.Run("is a no-op when the track already ended", func(t *testing.T) {
		player := &mockAudioPlayer{}
		sess := newTestSession(player, &mockVoiceConnection{}, &mockReporter{})

		if _, err := sess.EnqueueAndStart(ctx,
			newTestTrack(1), newTestTrack(2), newTestTrack(3)); err != nil {
			t.Fatal(err)
		}

		// The engine finishes track-1 before a racing skip for it gets
		// the lock; the queue must move exactly one position in total.
		if err := sess.OnTrackEnded(ctx, "track-1", "finished"); err != nil {
			t.Fatal(err)
		}

		next, err := sess.SkipCurrent(ctx, "track-1")
		if err != nil {
			t.Fatalf("SkipCurrent() error = %v", err)
		}
		if next == nil || next.ID != "track-2" {
			t.Errorf("next = %v, want track-2", next)
		}

		ids := player.playedIDs()
		if len(ids) != 2 || ids[0] != "track-1" || ids[1] != "track-2" {
			t.Errorf("played = %v, want [track-1 track-2]", ids)
		}
		if sess.QueueLen() != 1 {
			t.Errorf("queue length = %d, want 1", sess.QueueLen())
		}
	})
}

func TestSession_OnTrackException(t *testing.T) {
	player := &mockAudioPlayer{}
	reporter := &mockReporter{}
	sess := newTestSession(player, &mockVoiceConnection{}, reporter)
	ctx := context.Background()

	if _, err := sess.EnqueueAndStart(ctx, newTestTrack(1), newTestTrack(2)); err != nil {
		t.Fatal(err)
	}

	if err := sess.OnTrackException(ctx, "track-1", "decoder blew up"); err != nil {
		t.Fatalf("OnTrackException() error = %v", err)
	}

	if reporter.count() != 1 {
		t.Errorf("expected 1 report, got %d", reporter.count())
	}
	if got := sess.Current(); got == nil || got.ID != "track-2" {
		t.Errorf("current = %v, want track-2", got)
	}

	// Stale exception: no report, no advance.
	if err := sess.OnTrackException(ctx, "track-1", "late echo"); err != nil {
		t.Fatal(err)
	}
	if reporter.count() != 1 {
		t.Errorf("stale exception must not report, got %d reports", reporter.count())
	}
	if got := sess.Current(); got == nil || got.ID != "track-2" {
		t.Errorf("current = %v, want track-2", got)
	}
}

func TestSession_OnTrackStuck(t *testing.T) {
	player := &mockAudioPlayer{}
	sess := newTestSession(player, &mockVoiceConnection{}, &mockReporter{})
	ctx := context.Background()

	if _, err := sess.EnqueueAndStart(ctx, newTestTrack(1), newTestTrack(2)); err != nil {
		t.Fatal(err)
	}

	if err := sess.OnTrackStuck(ctx, "track-1", 10000); err != nil {
		t.Fatalf("OnTrackStuck() error = %v", err)
	}
	if got := sess.Current(); got == nil || got.ID != "track-2" {
		t.Errorf("current = %v, want track-2", got)
	}
}

func TestSession_SetVolume(t *testing.T) {
	tests := []struct {
		name    string
		volume  int
		wantErr error
	}{
		{"minimum", 0, nil},
		{"maximum", 100, nil},
		{"middle", 55, nil},
		{"below range", -1, ErrVolumeOutOfRange},
		{"above range", 101, ErrVolumeOutOfRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			player := &mockAudioPlayer{}
			sess := newTestSession(player, &mockVoiceConnection{}, &mockReporter{})

			err := sess.SetVolume(context.Background(), tt.volume)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("SetVolume(%d) error = %v, want %v", tt.volume, err, tt.wantErr)
			}
			if tt.wantErr == nil && sess.Volume() != tt.volume {
				t.Errorf("Volume() = %d, want %d", sess.Volume(), tt.volume)
			}
			if tt.wantErr != nil && len(player.volumes) != 0 {
				t.Error("rejected volume must not reach the transport")
			}
		})
	}
}

func TestSession_NudgeVolume(t *testing.T) {
	tests := []struct {
		name  string
		start int
		delta int
		want  int
	}{
		{"up from default stays at ceiling", 100, 10, 100},
		{"up rounds to next ten", 55, 10, 70},
		{"up from multiple of ten", 50, 10, 60},
		{"down from multiple of ten", 50, -10, 40},
		{"down rounds up to nearest ten", 55, -10, 50},
		{"down clamps at zero", 5, -10, 0},
		{"up near ceiling clamps at hundred", 95, 10, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			player := &mockAudioPlayer{}
			sess := newTestSession(player, &mockVoiceConnection{}, &mockReporter{})
			ctx := context.Background()

			if tt.start != defaultVolume {
				if err := sess.SetVolume(ctx, tt.start); err != nil {
					t.Fatal(err)
				}
			}

			got, err := sess.NudgeVolume(ctx, tt.delta)
			if err != nil {
				t.Fatalf("NudgeVolume() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("NudgeVolume(%d) from %d = %d, want %d", tt.delta, tt.start, got, tt.want)
			}
			if sess.Volume() != tt.want {
				t.Errorf("Volume() = %d, want %d", sess.Volume(), tt.want)
			}
		})
	}
}

func TestSession_Shuffle(t *testing.T) {
	player := &mockAudioPlayer{}
	sess := newTestSession(player, &mockVoiceConnection{}, &mockReporter{})

	if err := sess.EnqueueAll(newTestTrack(1), newTestTrack(2)); err != nil {
		t.Fatal(err)
	}
	if err := sess.Shuffle(); !errors.Is(err, ErrQueueTooShort) {
		t.Fatalf("Shuffle() with 2 tracks error = %v, want ErrQueueTooShort", err)
	}

	if err := sess.Enqueue(newTestTrack(3)); err != nil {
		t.Fatal(err)
	}
	if err := sess.Shuffle(); err != nil {
		t.Fatalf("Shuffle() with 3 tracks error = %v", err)
	}

	ids := make(map[string]bool)
	for _, track := range sess.QueueSnapshot() {
		ids[track.ID] = true
	}
	for _, want := range []string{"track-1", "track-2", "track-3"} {
		if !ids[want] {
			t.Errorf("track %s lost in shuffle", want)
		}
	}
}

func TestSession_SeekRequiresCurrentTrack(t *testing.T) {
	player := &mockAudioPlayer{}
	sess := newTestSession(player, &mockVoiceConnection{}, &mockReporter{})
	ctx := context.Background()

	if err := sess.Seek(ctx, 0); !errors.Is(err, ErrNoCurrentTrack) {
		t.Fatalf("Seek() while idle error = %v, want ErrNoCurrentTrack", err)
	}

	if _, err := sess.EnqueueAndStart(ctx, newTestTrack(1)); err != nil {
		t.Fatal(err)
	}
	if err := sess.Seek(ctx, 30); err != nil {
		t.Fatalf("Seek() error = %v", err)
	}
	if len(player.seeks) != 1 {
		t.Errorf("expected 1 seek, got %d", len(player.seeks))
	}
}

func TestSession_SwapDJ(t *testing.T) {
	roster := []domain.Member{
		{ID: testDJ},
		{ID: testMember},
		{ID: 99, Bot: true},
	}

	t.Run("explicit target", func(t *testing.T) {
		sess := newTestSession(&mockAudioPlayer{}, &mockVoiceConnection{}, &mockReporter{})

		got, err := sess.SwapDJ(testMember, roster)
		if err != nil {
			t.Fatalf("SwapDJ() error = %v", err)
		}
		if got != testMember || sess.DJ() != testMember {
			t.Errorf("DJ = %v, want %v", sess.DJ(), testMember)
		}
	})

	t.Run("target already DJ", func(t *testing.T) {
		sess := newTestSession(&mockAudioPlayer{}, &mockVoiceConnection{}, &mockReporter{})

		if _, err := sess.SwapDJ(testDJ, roster); !errors.Is(err, ErrAlreadyDJ) {
			t.Errorf("error = %v, want ErrAlreadyDJ", err)
		}
	})

	t.Run("target not in channel", func(t *testing.T) {
		sess := newTestSession(&mockAudioPlayer{}, &mockVoiceConnection{}, &mockReporter{})

		if _, err := sess.SwapDJ(testAdmin, roster); !errors.Is(err, ErrMemberNotInChannel) {
			t.Errorf("error = %v, want ErrMemberNotInChannel", err)
		}
	})

	t.Run("automatic pick skips bots and the current DJ", func(t *testing.T) {
		sess := newTestSession(&mockAudioPlayer{}, &mockVoiceConnection{}, &mockReporter{})

		got, err := sess.SwapDJ(0, roster)
		if err != nil {
			t.Fatalf("SwapDJ() error = %v", err)
		}
		if got != testMember {
			t.Errorf("DJ = %v, want %v", got, testMember)
		}
	})

	t.Run("no eligible member", func(t *testing.T) {
		sess := newTestSession(&mockAudioPlayer{}, &mockVoiceConnection{}, &mockReporter{})
		lonely := []domain.Member{{ID: testDJ}, {ID: 99, Bot: true}}

		if _, err := sess.SwapDJ(0, lonely); !errors.Is(err, ErrNoEligibleMember) {
			t.Errorf("error = %v, want ErrNoEligibleMember", err)
		}
	})
}

func TestSession_TeardownIsIdempotentAndTerminal(t *testing.T) {
	player := &mockAudioPlayer{}
	conn := &mockVoiceConnection{}
	sess := newTestSession(player, conn, &mockReporter{})
	ctx := context.Background()

	detached := 0
	sess.detach = func() { detached++ }

	if _, err := sess.EnqueueAndStart(ctx, newTestTrack(1), newTestTrack(2)); err != nil {
		t.Fatal(err)
	}

	if err := sess.Teardown(ctx); err != nil {
		t.Fatalf("Teardown() error = %v", err)
	}
	if err := sess.Teardown(ctx); err != nil {
		t.Fatalf("second Teardown() error = %v", err)
	}

	if conn.leaveCount() != 1 {
		t.Errorf("expected exactly one voice disconnect, got %d", conn.leaveCount())
	}
	if detached != 1 {
		t.Errorf("expected exactly one detach, got %d", detached)
	}
	if !sess.Closed() {
		t.Error("session must be closed")
	}
	if sess.Current() != nil || sess.QueueLen() != 0 {
		t.Error("teardown must clear playback state")
	}

	// Every mutation on a torn-down session fails with ErrSessionGone.
	if err := sess.Enqueue(newTestTrack(3)); !errors.Is(err, ErrSessionGone) {
		t.Errorf("Enqueue() error = %v, want ErrSessionGone", err)
	}
	if _, err := sess.Advance(ctx); !errors.Is(err, ErrSessionGone) {
		t.Errorf("Advance() error = %v, want ErrSessionGone", err)
	}
	if err := sess.SetPause(ctx, true); !errors.Is(err, ErrSessionGone) {
		t.Errorf("SetPause() error = %v, want ErrSessionGone", err)
	}
	if err := sess.Shuffle(); !errors.Is(err, ErrSessionGone) {
		t.Errorf("Shuffle() error = %v, want ErrSessionGone", err)
	}
}

func TestSession_TeardownSurvivesDisconnectFailure(t *testing.T) {
	conn := &mockVoiceConnection{leaveErr: errors.New("gateway hiccup")}
	sess := newTestSession(&mockAudioPlayer{}, conn, &mockReporter{})

	detached := false
	sess.detach = func() { detached = true }

	if err := sess.Teardown(context.Background()); err != nil {
		t.Fatalf("Teardown() error = %v", err)
	}
	if !detached {
		t.Error("registry detach must run even when the disconnect fails")
	}
	if !sess.Closed() {
		t.Error("session must be closed even when the disconnect fails")
	}
}

func TestSession_TeardownAnnouncesOnlyConnectedSessions(t *testing.T) {
	ctx := context.Background()
	bus := events.NewBus(4)
	defer bus.Close()

	// A session rolled back before the voice handshake completed closes
	// silently.
	sess := newSession(testGuild, testTextChannel, testVoiceChannel, testDJ,
		&mockAudioPlayer{}, &mockVoiceConnection{}, &mockReporter{}, bus)
	if err := sess.Teardown(ctx); err != nil {
		t.Fatalf("Teardown() error = %v", err)
	}
	select {
	case ev := <-bus.SessionClosed():
		t.Errorf("unexpected SessionClosed for a never-connected session: %+v", ev)
	default:
	}

	// A connected session announces its close.
	sess = newSession(testGuild, testTextChannel, testVoiceChannel, testDJ,
		&mockAudioPlayer{}, &mockVoiceConnection{}, &mockReporter{}, bus)
	sess.markConnected()
	if err := sess.Teardown(ctx); err != nil {
		t.Fatalf("Teardown() error = %v", err)
	}
	select {
	case ev := <-bus.SessionClosed():
		if ev.GuildID != testGuild {
			t.Errorf("GuildID = %v, want %v", ev.GuildID, testGuild)
		}
	default:
		t.Error("expected SessionClosed for a connected session")
	}
}

func TestSession_RebindVoiceChannel(t *testing.T) {
	ctx := context.Background()
	newChannel := snowflake.ID(555)

	t.Run("dj follows the bot", func(t *testing.T) {
		sess := newTestSession(&mockAudioPlayer{}, &mockVoiceConnection{}, &mockReporter{})
		roster := []domain.Member{{ID: testDJ}, {ID: testMember}}

		if err := sess.RebindVoiceChannel(ctx, newChannel, roster); err != nil {
			t.Fatalf("RebindVoiceChannel() error = %v", err)
		}
		if sess.VoiceChannelID() != newChannel {
			t.Errorf("voice channel = %v, want %v", sess.VoiceChannelID(), newChannel)
		}
		if sess.DJ() != testDJ {
			t.Errorf("DJ = %v, want unchanged %v", sess.DJ(), testDJ)
		}
	})

	t.Run("dj left behind loses the role", func(t *testing.T) {
		sess := newTestSession(&mockAudioPlayer{}, &mockVoiceConnection{}, &mockReporter{})
		roster := []domain.Member{{ID: 99, Bot: true}, {ID: testMember}}

		if err := sess.RebindVoiceChannel(ctx, newChannel, roster); err != nil {
			t.Fatalf("RebindVoiceChannel() error = %v", err)
		}
		if sess.DJ() != testMember {
			t.Errorf("DJ = %v, want %v", sess.DJ(), testMember)
		}
	})

	t.Run("empty channel tears down", func(t *testing.T) {
		conn := &mockVoiceConnection{}
		sess := newTestSession(&mockAudioPlayer{}, conn, &mockReporter{})
		sess.detach = func() {}
		roster := []domain.Member{{ID: 99, Bot: true}}

		if err := sess.RebindVoiceChannel(ctx, newChannel, roster); err != nil {
			t.Fatalf("RebindVoiceChannel() error = %v", err)
		}
		if !sess.Closed() {
			t.Error("session must tear down when moved to an empty channel")
		}
		if conn.leaveCount() != 1 {
			t.Errorf("expected voice disconnect, got %d leaves", conn.leaveCount())
		}
	})
}

func TestSession_OnMembershipChanged(t *testing.T) {
	ctx := context.Background()

	t.Run("dj leaves, succession", func(t *testing.T) {
		sess := newTestSession(&mockAudioPlayer{}, &mockVoiceConnection{}, &mockReporter{})

		ev := domain.MembershipEvent{
			Member:    domain.Member{ID: testDJ},
			Change:    domain.MemberLeft,
			ChannelID: testVoiceChannel,
		}
		roster := []domain.Member{{ID: testMember}, {ID: 99, Bot: true}}

		if err := sess.OnMembershipChanged(ctx, ev, roster); err != nil {
			t.Fatalf("OnMembershipChanged() error = %v", err)
		}
		if sess.DJ() != testMember {
			t.Errorf("DJ = %v, want %v", sess.DJ(), testMember)
		}
		if sess.Closed() {
			t.Error("session must survive a handoff")
		}
	})

	t.Run("channel emptied, teardown", func(t *testing.T) {
		conn := &mockVoiceConnection{}
		sess := newTestSession(&mockAudioPlayer{}, conn, &mockReporter{})
		sess.detach = func() {}

		ev := domain.MembershipEvent{
			Member:    domain.Member{ID: testDJ},
			Change:    domain.MemberLeft,
			ChannelID: testVoiceChannel,
		}
		roster := []domain.Member{{ID: 99, Bot: true}}

		if err := sess.OnMembershipChanged(ctx, ev, roster); err != nil {
			t.Fatalf("OnMembershipChanged() error = %v", err)
		}
		if !sess.Closed() {
			t.Error("session must tear down when no humans remain")
		}
		if conn.leaveCount() != 1 {
			t.Errorf("expected voice disconnect, got %d leaves", conn.leaveCount())
		}
	})

	t.Run("join while dj absent", func(t *testing.T) {
		sess := newTestSession(&mockAudioPlayer{}, &mockVoiceConnection{}, &mockReporter{})

		ev := domain.MembershipEvent{
			Member:    domain.Member{ID: testMember},
			Change:    domain.MemberJoined,
			ChannelID: testVoiceChannel,
		}
		roster := []domain.Member{{ID: testMember}, {ID: 99, Bot: true}}

		if err := sess.OnMembershipChanged(ctx, ev, roster); err != nil {
			t.Fatalf("OnMembershipChanged() error = %v", err)
		}
		if sess.DJ() != testMember {
			t.Errorf("DJ = %v, want %v", sess.DJ(), testMember)
		}
	})
}

func TestSession_PauseResume(t *testing.T) {
	player := &mockAudioPlayer{}
	sess := newTestSession(player, &mockVoiceConnection{}, &mockReporter{})
	ctx := context.Background()

	if err := sess.SetPause(ctx, true); err != nil {
		t.Fatalf("SetPause(true) error = %v", err)
	}
	if !sess.Paused() {
		t.Error("expected paused state")
	}

	if err := sess.SetPause(ctx, false); err != nil {
		t.Fatalf("SetPause(false) error = %v", err)
	}
	if sess.Paused() {
		t.Error("expected resumed state")
	}
}

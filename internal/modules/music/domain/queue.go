package domain

import "math/rand/v2"

// Queue is a strict FIFO backlog of tracks awaiting playback.
// Insertion order is playback order. A Queue is owned exclusively by
// one session, which serializes access; the Queue itself does not lock.
type Queue struct {
	tracks []*Track
}

// NewQueue creates a new empty Queue.
func NewQueue() *Queue {
	return &Queue{
		tracks: make([]*Track, 0),
	}
}

// Len returns the number of queued tracks.
func (q *Queue) Len() int {
	return len(q.tracks)
}

// IsEmpty returns true if the queue has no tracks.
func (q *Queue) IsEmpty() bool {
	return len(q.tracks) == 0
}

// Enqueue appends a track to the tail. Tracks without an identity are
// discarded, keeping the no-null-identity invariant.
func (q *Queue) Enqueue(track *Track) {
	if !track.IsValid() {
		return
	}
	q.tracks = append(q.tracks, track)
}

// EnqueueAll appends tracks to the tail, preserving input order.
func (q *Queue) EnqueueAll(tracks ...*Track) {
	for _, track := range tracks {
		q.Enqueue(track)
	}
}

// Pop removes and returns the head track, or nil if the queue is empty.
func (q *Queue) Pop() *Track {
	if len(q.tracks) == 0 {
		return nil
	}
	head := q.tracks[0]
	q.tracks = q.tracks[1:]
	return head
}

// Peek returns the head track without removing it, or nil if empty.
func (q *Queue) Peek() *Track {
	if len(q.tracks) == 0 {
		return nil
	}
	return q.tracks[0]
}

// Snapshot returns a copy of the queued tracks in playback order.
func (q *Queue) Snapshot() []*Track {
	result := make([]*Track, len(q.tracks))
	copy(result, q.tracks)
	return result
}

// Shuffle randomly permutes the remaining queue order in place.
func (q *Queue) Shuffle() {
	rand.Shuffle(len(q.tracks), func(i, j int) {
		q.tracks[i], q.tracks[j] = q.tracks[j], q.tracks[i]
	})
}

// Clear removes all tracks from the queue.
func (q *Queue) Clear() {
	q.tracks = q.tracks[:0]
}

package usecases

import "errors"

// Domain errors for the music module.
var (
	// ErrAlreadyActive is returned when a session already exists for the guild.
	ErrAlreadyActive = errors.New("a session is already active for this guild")

	// ErrSessionGone is returned when an operation is invoked after or
	// during session teardown.
	ErrSessionGone = errors.New("the session has been torn down")

	// ErrNotConnected is returned when an operation requires a live voice
	// channel binding that is absent.
	ErrNotConnected = errors.New("not connected to a voice channel")

	// ErrUserNotInVoice is returned when the invoking user is not in a
	// voice channel but the operation needs one.
	ErrUserNotInVoice = errors.New("you must be in a voice channel")

	// ErrNoCurrentTrack is returned when nothing is currently playing.
	ErrNoCurrentTrack = errors.New("nothing is currently playing")

	// ErrVolumeOutOfRange is returned for volume values outside [0,100].
	ErrVolumeOutOfRange = errors.New("volume must be between 0 and 100")

	// ErrQueueTooShort is returned when shuffling fewer than the minimum
	// number of queued tracks.
	ErrQueueTooShort = errors.New("add more tracks to the queue before shuffling")

	// ErrWrongTextChannel is returned when a command is invoked outside
	// the session's originating text channel.
	ErrWrongTextChannel = errors.New("commands for this session belong to another channel")

	// ErrNotInVoice is returned when the invoking user is not a member of
	// the session's voice channel.
	ErrNotInVoice = errors.New("you must be in the session's voice channel")

	// ErrNotPrivileged is returned when the invoking user is neither the
	// DJ nor an admin.
	ErrNotPrivileged = errors.New("only the DJ or admins may do that")

	// ErrNoResults is returned when track resolution yields nothing.
	ErrNoResults = errors.New("no results found")

	// ErrMemberNotInChannel is returned when a DJ swap targets a member
	// outside the session's voice channel.
	ErrMemberNotInChannel = errors.New("that member is not in the voice channel")

	// ErrAlreadyDJ is returned when a DJ swap targets the current DJ.
	ErrAlreadyDJ = errors.New("that member is already the DJ")

	// ErrNoEligibleMember is returned when no other human is available to
	// take over as DJ.
	ErrNoEligibleMember = errors.New("no other members to hand the DJ role to")
)

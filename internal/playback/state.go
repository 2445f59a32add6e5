package playback

// State is a step of the playback session.
type State int

const (
	// StateIdle means no candidate file has been chosen yet.
	StateIdle State = iota
	// StateAwaitingConfirmPlay waits for the user to accept the candidate.
	StateAwaitingConfirmPlay
	// StatePlaying blocks on the player process.
	StatePlaying
	// StateAwaitingConfirmWatched waits for the user to confirm the file was watched.
	StateAwaitingConfirmWatched
	// StateAdvancing computes the next candidate.
	StateAdvancing
	// StateDone is terminal.
	StateDone
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAwaitingConfirmPlay:
		return "awaiting_confirm_play"
	case StatePlaying:
		return "playing"
	case StateAwaitingConfirmWatched:
		return "awaiting_confirm_watched"
	case StateAdvancing:
		return "advancing"
	case StateDone:
		return "done"
	default:
		return "unknown"
	}
}

// Outcome explains why a session reached StateDone.
type Outcome string

const (
	OutcomeNoUnwatched     Outcome = "no_unwatched"
	OutcomeDeclinedPlay    Outcome = "declined_play"
	OutcomeDeclinedWatched Outcome = "declined_watched"
	OutcomeNoMoreEpisodes  Outcome = "no_more_episodes"
)

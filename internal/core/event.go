package core

// EventKind is a notification the core emits to clients.
type EventKind int

const (
	// EventRoomJoined confirms room entry to the initiating client only.
	EventRoomJoined EventKind = iota
	// EventPlayersUpdate delivers the full roster to everyone in the room.
	EventPlayersUpdate
	// EventQuestionNew announces a freshly asked question.
	EventQuestionNew
	// EventQuestionUpdate announces an answered question.
	EventQuestionUpdate
	// EventGuessNew announces a transient guess at the secret.
	EventGuessNew
	// EventError notifies the initiating client about a domain error.
	EventError
)

// Event is sent to clients to describe what happened in the system.
// The secret never travels in an Event; roster updates carry the
// Player projection only.
type Event struct {
	Kind     EventKind
	Code     string
	Thinker  bool // for EventRoomJoined
	Players  []Player
	Question *Question
	Guess    *Guess
	Error    *CoreError
}

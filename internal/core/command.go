package core

// CommandKind describes what the client wants to do.
type CommandKind int

const (
	// CommandCreateRoom opens a new room with the caller as thinker.
	CommandCreateRoom CommandKind = iota
	// CommandJoinRoom adds the caller to an existing room as guesser.
	CommandJoinRoom
	// CommandAskQuestion appends a question to the room log.
	CommandAskQuestion
	// CommandAnswerQuestion sets the answer on a logged question.
	CommandAnswerQuestion
	// CommandTryGuess broadcasts a transient guess at the secret.
	CommandTryGuess
)

// Command represents an action requested by a client. Which fields
// are meaningful depends on Kind.
type Command struct {
	Kind       CommandKind
	Code       string
	Name       string
	Secret     string
	Text       string
	QuestionID int
	Answer     string
	Guess      string
}

package core

// Player is a room member as seen by the game core.
type Player struct {
	ID      string
	Name    string
	Thinker bool
}

// Question is a logged query from a guesser to the thinker.
// Answer is nil until the thinker answers it.
type Question struct {
	ID        int
	AskerName string
	Text      string
	Answer    *string
}

// Guess is a transient attempt to name the secret. It is broadcast
// once and never stored; Turn records the shared counter value at
// guess time.
type Guess struct {
	ByName string
	Guess  string
	Turn   int
}

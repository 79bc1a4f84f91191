package core

// Room is one active game session. All mutation happens on the hub
// goroutine, so no locking is needed here.
type Room struct {
	Code      string
	ThinkerID string
	Secret    string

	turn      int
	players   map[string]*Player
	questions []*Question
	clients   map[string]*Client
}

// NewRoom constructs a room with an empty roster, empty question log
// and the turn counter at zero. Thinker and secret are assigned by the
// hub when the creating client is joined.
func NewRoom(code string) *Room {
	return &Room{
		Code:    code,
		players: make(map[string]*Player),
		clients: make(map[string]*Client),
	}
}

// Join adds a client to the room as a player and subscribes it to
// broadcasts. Joining twice overwrites the previous player entry.
func (r *Room) Join(c *Client, name string, thinker bool) {
	r.players[c.ID] = &Player{ID: c.ID, Name: name, Thinker: thinker}
	r.clients[c.ID] = c
}

// Leave removes the client from the roster and broadcast set.
// Returns true if the client was a member.
func (r *Room) Leave(id string) bool {
	if _, ok := r.players[id]; !ok {
		return false
	}
	delete(r.players, id)
	delete(r.clients, id)
	return true
}

// Player returns the room's player entry for a connection id.
func (r *Room) Player(id string) (*Player, bool) {
	p, ok := r.players[id]
	return p, ok
}

// Roster returns a snapshot of all players. Order carries no meaning;
// the full set is always broadcast.
func (r *Room) Roster() []Player {
	roster := make([]Player, 0, len(r.players))
	for _, p := range r.players {
		roster = append(roster, *p)
	}
	return roster
}

// NextTurn advances the shared turn counter and returns its new value.
// Questions and guesses draw from the same sequence.
func (r *Room) NextTurn() int {
	r.turn++
	return r.turn
}

// AskQuestion advances the turn counter and appends an unanswered
// question. The asker name is a snapshot, not a live reference.
func (r *Room) AskQuestion(askerName, text string) *Question {
	q := &Question{
		ID:        r.NextTurn(),
		AskerName: askerName,
		Text:      text,
	}
	r.questions = append(r.questions, q)
	return q
}

// AnswerQuestion sets the answer on the question with the given id and
// returns it. Returns nil if no such question exists.
func (r *Room) AnswerQuestion(id int, answer string) *Question {
	for _, q := range r.questions {
		if q.ID == id {
			q.Answer = &answer
			return q
		}
	}
	return nil
}

// Questions returns the question log in ask order.
func (r *Room) Questions() []*Question {
	return r.questions
}

// Broadcast sends an event to all clients in the room, thinker
// included. Slow consumers are dropped rather than blocking the hub.
func (r *Room) Broadcast(event *Event) {
	for _, client := range r.clients {
		select {
		case client.Events <- event:
		default:
		}
	}
}

// Empty returns true if no players remain in the room.
func (r *Room) Empty() bool {
	return len(r.players) == 0
}

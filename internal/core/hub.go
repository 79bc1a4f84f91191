package core

import (
	"context"

	"github.com/rs/zerolog"
)

// Hub owns the room registry and processes every client command on a
// single goroutine. One command runs to completion before the next is
// dispatched, so registry and room state need no locks.
type Hub struct {
	registry   *Registry
	register   chan *Client
	unregister chan *Client
	commands   chan clientCommand
	log        *zerolog.Logger
}

type clientCommand struct {
	client *Client
	cmd    *Command
}

// NewHub constructs a hub around the given registry. A nil logger
// disables logging.
func NewHub(registry *Registry, logger *zerolog.Logger) *Hub {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Hub{
		registry:   registry,
		register:   make(chan *Client),
		unregister: make(chan *Client),
		commands:   make(chan clientCommand, 64),
		log:        logger,
	}
}

// RegisterClient attaches a client to the hub and starts draining its
// command channel.
func (h *Hub) RegisterClient(c *Client) {
	h.register <- c
}

// UnregisterClient detaches a client, removing it from any rooms it
// belongs to.
func (h *Hub) UnregisterClient(c *Client) {
	h.unregister <- c
}

// Run processes registrations and commands until the context is
// cancelled. It must be running before clients are registered.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case client := <-h.register:
			go h.pump(ctx, client)
		case client := <-h.unregister:
			h.handleDisconnect(client)
		case cc := <-h.commands:
			h.dispatch(cc.client, cc.cmd)
		case <-ctx.Done():
			return
		}
	}
}

// pump forwards one client's commands into the hub's serialized
// command stream. Exits when the client's command channel closes.
func (h *Hub) pump(ctx context.Context, client *Client) {
	for {
		select {
		case cmd, ok := <-client.Commands:
			if !ok {
				return
			}
			select {
			case h.commands <- clientCommand{client: client, cmd: cmd}:
			case <-ctx.Done():
				return
			}
		case <-ctx.Done():
			return
		}
	}
}

func (h *Hub) dispatch(client *Client, cmd *Command) {
	switch cmd.Kind {
	case CommandCreateRoom:
		h.handleCreate(client, cmd)
	case CommandJoinRoom:
		h.handleJoin(client, cmd)
	case CommandAskQuestion:
		h.handleAsk(client, cmd)
	case CommandAnswerQuestion:
		h.handleAnswer(client, cmd)
	case CommandTryGuess:
		h.handleGuess(client, cmd)
	default:
		h.log.Debug().Int("kind", int(cmd.Kind)).Msg("unknown command kind")
	}
}

func (h *Hub) handleCreate(client *Client, cmd *Command) {
	room, err := h.registry.Create(cmd.Code)
	if err != nil {
		h.sendError(client, coreError(ErrCodeCodeInUse, "room code already in use"))
		return
	}

	room.ThinkerID = client.ID
	room.Secret = cmd.Secret
	client.Name = cmd.Name
	room.Join(client, cmd.Name, true)

	h.send(client, &Event{Kind: EventRoomJoined, Code: room.Code, Thinker: true})
	room.Broadcast(&Event{Kind: EventPlayersUpdate, Code: room.Code, Players: room.Roster()})

	h.log.Info().Str("code", room.Code).Str("client_id", client.ID).Msg("room created")
}

func (h *Hub) handleJoin(client *Client, cmd *Command) {
	room, ok := h.registry.Get(cmd.Code)
	if !ok {
		h.sendError(client, coreError(ErrCodeRoomNotFound, "room not found"))
		return
	}

	client.Name = cmd.Name
	room.Join(client, cmd.Name, false)

	h.send(client, &Event{Kind: EventRoomJoined, Code: room.Code, Thinker: false})
	room.Broadcast(&Event{Kind: EventPlayersUpdate, Code: room.Code, Players: room.Roster()})

	h.log.Info().Str("code", room.Code).Str("client_id", client.ID).Msg("player joined")
}

// handleAsk appends a question and announces it. Asking in an unknown
// room, or without being a member of it, is silently dropped.
func (h *Hub) handleAsk(client *Client, cmd *Command) {
	room, ok := h.registry.Get(cmd.Code)
	if !ok {
		return
	}
	player, ok := room.Player(client.ID)
	if !ok {
		h.log.Debug().Str("code", cmd.Code).Str("client_id", client.ID).Msg("ask from non-member dropped")
		return
	}

	q := room.AskQuestion(player.Name, cmd.Text)
	room.Broadcast(&Event{Kind: EventQuestionNew, Code: room.Code, Question: q})
}

// handleAnswer sets the answer on a logged question. Only the thinker
// may answer; unknown rooms, unknown question ids and non-thinker
// answers are silently dropped.
func (h *Hub) handleAnswer(client *Client, cmd *Command) {
	room, ok := h.registry.Get(cmd.Code)
	if !ok {
		return
	}
	if client.ID != room.ThinkerID {
		h.log.Debug().Str("code", cmd.Code).Str("client_id", client.ID).Msg("answer from non-thinker dropped")
		return
	}

	q := room.AnswerQuestion(cmd.QuestionID, cmd.Answer)
	if q == nil {
		return
	}
	room.Broadcast(&Event{Kind: EventQuestionUpdate, Code: room.Code, Question: q})
}

// handleGuess advances the turn counter and broadcasts a transient
// guess. Nothing is stored. Non-members are silently dropped.
func (h *Hub) handleGuess(client *Client, cmd *Command) {
	room, ok := h.registry.Get(cmd.Code)
	if !ok {
		return
	}
	player, ok := room.Player(client.ID)
	if !ok {
		h.log.Debug().Str("code", cmd.Code).Str("client_id", client.ID).Msg("guess from non-member dropped")
		return
	}

	guess := &Guess{ByName: player.Name, Guess: cmd.Guess, Turn: room.NextTurn()}
	room.Broadcast(&Event{Kind: EventGuessNew, Code: room.Code, Guess: guess})
}

// handleDisconnect removes the client from every room it belongs to,
// broadcasts the reduced roster and deletes rooms left empty.
func (h *Hub) handleDisconnect(client *Client) {
	for _, room := range h.registry.RoomsOf(client.ID) {
		room.Leave(client.ID)
		if room.Empty() {
			h.registry.Remove(room.Code)
			h.log.Info().Str("code", room.Code).Msg("room deleted")
			continue
		}
		room.Broadcast(&Event{Kind: EventPlayersUpdate, Code: room.Code, Players: room.Roster()})
	}
}

func (h *Hub) send(client *Client, event *Event) {
	select {
	case client.Events <- event:
	default:
	}
}

func (h *Hub) sendError(client *Client, err *CoreError) {
	h.send(client, &Event{Kind: EventError, Error: err})
}

package proto

import "encoding/json"

// Inbound is the envelope for messages coming from the client.
type Inbound struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

const (
	InboundTypeRoomCreate     = "room:create"
	InboundTypeRoomJoin       = "room:join"
	InboundTypeQuestionAsk    = "question:ask"
	InboundTypeQuestionAnswer = "question:answer"
	InboundTypeGuessTry       = "guess:try"

	OutboundTypeEvent = "event"
	OutboundTypeError = "error:msg"

	EventRoomJoined     = "room:joined"
	EventPlayersUpdate  = "players:update"
	EventQuestionNew    = "question:new"
	EventQuestionUpdate = "question:update"
	EventGuessNew       = "guess:new"
)

// RoomCreateData opens a new room with the caller as thinker.
type RoomCreateData struct {
	Code   string `json:"code"`
	Name   string `json:"name"`
	Secret string `json:"secret"`
}

// RoomJoinData requests to join an existing room as guesser.
type RoomJoinData struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// QuestionAskData submits a question to the thinker.
type QuestionAskData struct {
	Code string `json:"code"`
	Text string `json:"text"`
}

// QuestionAnswerData answers a logged question by id.
type QuestionAnswerData struct {
	Code   string `json:"code"`
	ID     int    `json:"id"`
	Answer string `json:"answer"`
}

// GuessTryData attempts to name the secret.
type GuessTryData struct {
	Code  string `json:"code"`
	Guess string `json:"guess"`
}

// Outbound is the envelope for messages sent to the client.
type Outbound struct {
	Type  string `json:"type"`
	Event string `json:"event,omitempty"`
	Data  any    `json:"data,omitempty"`
	Error *Error `json:"error,omitempty"`
}

// EventRoomJoinedData confirms room entry to the initiating client.
type EventRoomJoinedData struct {
	Code    string `json:"code"`
	Thinker bool   `json:"thinker"`
}

// PlayerView is the roster projection broadcast to the room. The
// room's secret deliberately has no representation here.
type PlayerView struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Thinker bool   `json:"thinker"`
}

// QuestionView is the wire form of a logged question. Answer stays
// null until the thinker answers.
type QuestionView struct {
	ID     int     `json:"id"`
	ByName string  `json:"byName"`
	Text   string  `json:"text"`
	Answer *string `json:"answer"`
}

// EventGuessNewData announces a transient guess; QCount is the shared
// turn counter value consumed by the guess.
type EventGuessNewData struct {
	ByName string `json:"byName"`
	Guess  string `json:"guess"`
	QCount int    `json:"qCount"`
}

// Error describes a protocol-level error response.
type Error struct {
	Code string `json:"code"`
	Msg  string `json:"msg"`
}

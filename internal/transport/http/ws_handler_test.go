package http

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"twentyq-server/internal/config"
	"twentyq-server/internal/core"
	"twentyq-server/internal/proto"
)

func startTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	hub := core.NewHub(core.NewRegistry(), nil)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)

	server := NewServer(hub, config.Config{
		Port:              0,
		ReadHeaderTimeout: time.Second,
		ShutdownTimeout:   time.Second,
	}, nil)

	ts := httptest.NewServer(server.Handler)
	t.Cleanup(ts.Close)

	return ts
}

func dialWS(t *testing.T, ctx context.Context, ts *httptest.Server) *websocket.Conn {
	t.Helper()

	wsURL := strings.Replace(ts.URL, "http", "ws", 1) + "/ws"
	conn, _, err := websocket.Dial(ctx, wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close(websocket.StatusNormalClosure, "done") })
	return conn
}

type outboundFrame struct {
	Type  string          `json:"type"`
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
	Error *proto.Error    `json:"error"`
}

func send(t *testing.T, ctx context.Context, conn *websocket.Conn, typ string, data any) {
	t.Helper()

	raw, err := json.Marshal(data)
	if err != nil {
		t.Fatalf("marshal %s: %v", typ, err)
	}
	if err := wsjson.Write(ctx, conn, proto.Inbound{Type: typ, Data: raw}); err != nil {
		t.Fatalf("write %s: %v", typ, err)
	}
}

// readEvent reads frames until one carries the named event.
func readEvent(t *testing.T, ctx context.Context, conn *websocket.Conn, event string) outboundFrame {
	t.Helper()

	for {
		var frame outboundFrame
		if err := wsjson.Read(ctx, conn, &frame); err != nil {
			t.Fatalf("read waiting for %s: %v", event, err)
		}
		if frame.Event == event {
			return frame
		}
	}
}

func readError(t *testing.T, ctx context.Context, conn *websocket.Conn) *proto.Error {
	t.Helper()

	for {
		var frame outboundFrame
		if err := wsjson.Read(ctx, conn, &frame); err != nil {
			t.Fatalf("read waiting for error: %v", err)
		}
		if frame.Error != nil {
			return frame.Error
		}
	}
}

func TestHealthEndpoint(t *testing.T) {
	ts := startTestServer(t)

	resp, err := ts.Client().Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatalf("health request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		t.Fatalf("unexpected status: %d", resp.StatusCode)
	}
}

func TestWebSocketFullGame(t *testing.T) {
	ts := startTestServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	alice := dialWS(t, ctx, ts)
	bob := dialWS(t, ctx, ts)

	send(t, ctx, alice, proto.InboundTypeRoomCreate, proto.RoomCreateData{Code: "ABC", Name: "Alice", Secret: "dog"})

	joined := readEvent(t, ctx, alice, proto.EventRoomJoined)
	var joinedData proto.EventRoomJoinedData
	if err := json.Unmarshal(joined.Data, &joinedData); err != nil {
		t.Fatalf("unmarshal room:joined: %v", err)
	}
	if joinedData.Code != "ABC" || !joinedData.Thinker {
		t.Fatalf("unexpected room:joined payload: %+v", joinedData)
	}

	send(t, ctx, bob, proto.InboundTypeRoomJoin, proto.RoomJoinData{Code: "ABC", Name: "Bob"})

	roster := readEvent(t, ctx, bob, proto.EventPlayersUpdate)
	var players []proto.PlayerView
	if err := json.Unmarshal(roster.Data, &players); err != nil {
		t.Fatalf("unmarshal players:update: %v", err)
	}
	if len(players) != 2 {
		t.Fatalf("expected 2 players, got %+v", players)
	}

	send(t, ctx, bob, proto.InboundTypeQuestionAsk, proto.QuestionAskData{Code: "ABC", Text: "is it alive?"})

	asked := readEvent(t, ctx, alice, proto.EventQuestionNew)
	var question proto.QuestionView
	if err := json.Unmarshal(asked.Data, &question); err != nil {
		t.Fatalf("unmarshal question:new: %v", err)
	}
	if question.ID != 1 || question.ByName != "Bob" || question.Text != "is it alive?" || question.Answer != nil {
		t.Fatalf("unexpected question:new payload: %+v", question)
	}

	send(t, ctx, alice, proto.InboundTypeQuestionAnswer, proto.QuestionAnswerData{Code: "ABC", ID: question.ID, Answer: "yes"})

	updated := readEvent(t, ctx, bob, proto.EventQuestionUpdate)
	if err := json.Unmarshal(updated.Data, &question); err != nil {
		t.Fatalf("unmarshal question:update: %v", err)
	}
	if question.ID != 1 || question.Answer == nil || *question.Answer != "yes" {
		t.Fatalf("unexpected question:update payload: %+v", question)
	}

	send(t, ctx, bob, proto.InboundTypeGuessTry, proto.GuessTryData{Code: "ABC", Guess: "dog"})

	guessed := readEvent(t, ctx, alice, proto.EventGuessNew)
	var guess proto.EventGuessNewData
	if err := json.Unmarshal(guessed.Data, &guess); err != nil {
		t.Fatalf("unmarshal guess:new: %v", err)
	}
	if guess.ByName != "Bob" || guess.Guess != "dog" || guess.QCount != 2 {
		t.Fatalf("unexpected guess:new payload: %+v", guess)
	}
}

func TestWebSocketDuplicateCreate(t *testing.T) {
	ts := startTestServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	alice := dialWS(t, ctx, ts)
	eve := dialWS(t, ctx, ts)

	send(t, ctx, alice, proto.InboundTypeRoomCreate, proto.RoomCreateData{Code: "ABC", Name: "Alice", Secret: "dog"})
	readEvent(t, ctx, alice, proto.EventPlayersUpdate)

	send(t, ctx, eve, proto.InboundTypeRoomCreate, proto.RoomCreateData{Code: "ABC", Name: "Eve", Secret: "cat"})

	protoErr := readError(t, ctx, eve)
	if protoErr.Code != core.ErrCodeCodeInUse {
		t.Fatalf("expected code_in_use, got %+v", protoErr)
	}
}

func TestWebSocketDisconnectCleansRoster(t *testing.T) {
	ts := startTestServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	alice := dialWS(t, ctx, ts)
	bob := dialWS(t, ctx, ts)

	send(t, ctx, alice, proto.InboundTypeRoomCreate, proto.RoomCreateData{Code: "ABC", Name: "Alice", Secret: "dog"})
	readEvent(t, ctx, alice, proto.EventPlayersUpdate)

	send(t, ctx, bob, proto.InboundTypeRoomJoin, proto.RoomJoinData{Code: "ABC", Name: "Bob"})
	readEvent(t, ctx, bob, proto.EventPlayersUpdate)

	bob.Close(websocket.StatusNormalClosure, "leaving")

	// Alice first sees the two-player roster, then the shrunk one.
	for {
		frame := readEvent(t, ctx, alice, proto.EventPlayersUpdate)
		var players []proto.PlayerView
		if err := json.Unmarshal(frame.Data, &players); err != nil {
			t.Fatalf("unmarshal players:update: %v", err)
		}
		if len(players) == 1 {
			if players[0].Name != "Alice" || !players[0].Thinker {
				t.Fatalf("unexpected remaining roster: %+v", players)
			}
			return
		}
	}
}

func TestWebSocketMalformedFrame(t *testing.T) {
	ts := startTestServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn := dialWS(t, ctx, ts)

	send(t, ctx, conn, proto.InboundTypeRoomCreate, proto.RoomCreateData{Name: "Alice"})

	protoErr := readError(t, ctx, conn)
	if protoErr.Code != core.ErrCodeBadRequest {
		t.Fatalf("expected bad_request, got %+v", protoErr)
	}
}

func TestWebSocketRateLimit(t *testing.T) {
	hub := core.NewHub(core.NewRegistry(), nil)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	go hub.Run(ctx)

	server := NewServer(hub, config.Config{
		Port:              0,
		ReadHeaderTimeout: time.Second,
		ShutdownTimeout:   time.Second,
		MsgRateLimit:      2,
	}, nil)

	ts := httptest.NewServer(server.Handler)
	t.Cleanup(ts.Close)

	conn := dialWS(t, ctx, ts)

	send(t, ctx, conn, proto.InboundTypeRoomCreate, proto.RoomCreateData{Code: "ABC", Name: "Alice", Secret: "dog"})
	readEvent(t, ctx, conn, proto.EventPlayersUpdate)

	send(t, ctx, conn, proto.InboundTypeQuestionAsk, proto.QuestionAskData{Code: "ABC", Text: "one"})
	send(t, ctx, conn, proto.InboundTypeQuestionAsk, proto.QuestionAskData{Code: "ABC", Text: "two"})

	protoErr := readError(t, ctx, conn)
	if protoErr.Code != "rate_limited" {
		t.Fatalf("expected rate_limited, got %+v", protoErr)
	}
}

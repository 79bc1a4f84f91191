package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"twentyq-server/internal/proto"
)

func main() {
	if err := run(); err != nil {
		log.Printf("ws_play: %v", err)
		os.Exit(1)
	}
}

func run() error {
	addr := flag.String("addr", "ws://localhost:3001/ws", "WebSocket address")
	name := flag.String("name", "cli-player", "display name")
	code := flag.String("code", "DEMO", "room code")
	secret := flag.String("secret", "", "secret to think of; creates the room when set, joins otherwise")
	flag.Parse()

	baseCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(baseCtx)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, *addr, nil)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "bye")

	send := func(typ string, data any) {
		raw, marshalErr := json.Marshal(data)
		if marshalErr != nil {
			log.Printf("marshal %s: %v", typ, marshalErr)
			return
		}
		if writeErr := wsjson.Write(ctx, conn, proto.Inbound{Type: typ, Data: raw}); writeErr != nil {
			cancel()
			log.Printf("send: %v", writeErr)
		}
	}

	if *secret != "" {
		send(proto.InboundTypeRoomCreate, proto.RoomCreateData{Code: *code, Name: *name, Secret: *secret})
	} else {
		send(proto.InboundTypeRoomJoin, proto.RoomJoinData{Code: *code, Name: *name})
	}

	fmt.Printf("Connected to %s as %s in room %s\n", *addr, *name, *code)
	fmt.Println("Type a question and press Enter to ask it.")
	fmt.Println("Commands: /answer <id> <text>  /guess <text>  Ctrl+C to exit.")

	go func() {
		defer cancel()
		readLoop(ctx, conn)
	}()

	inputLoop(ctx, *code, send)

	stop()
	cancel()
	_ = conn.Close(websocket.StatusNormalClosure, "bye")
	return nil
}

func readLoop(ctx context.Context, conn *websocket.Conn) {
	for {
		var outbound struct {
			Type  string          `json:"type"`
			Event string          `json:"event"`
			Data  json.RawMessage `json:"data"`
			Error *proto.Error    `json:"error"`
		}
		if err := wsjson.Read(ctx, conn, &outbound); err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			switch websocket.CloseStatus(err) {
			case websocket.StatusNormalClosure, websocket.StatusGoingAway:
				return
			}
			log.Printf("read error: %v", err)
			return
		}

		if outbound.Error != nil {
			fmt.Printf("!! %s\n", outbound.Error.Msg)
			continue
		}

		switch outbound.Event {
		case proto.EventRoomJoined:
			var evt proto.EventRoomJoinedData
			if json.Unmarshal(outbound.Data, &evt) == nil {
				role := "guesser"
				if evt.Thinker {
					role = "thinker"
				}
				fmt.Printf("** joined room %s as %s\n", evt.Code, role)
			}
		case proto.EventPlayersUpdate:
			var players []proto.PlayerView
			if json.Unmarshal(outbound.Data, &players) == nil {
				names := make([]string, 0, len(players))
				for _, p := range players {
					if p.Thinker {
						names = append(names, p.Name+" (thinker)")
						continue
					}
					names = append(names, p.Name)
				}
				fmt.Printf("** players: %s\n", strings.Join(names, ", "))
			}
		case proto.EventQuestionNew:
			var q proto.QuestionView
			if json.Unmarshal(outbound.Data, &q) == nil {
				fmt.Printf("Q%d %s: %s\n", q.ID, q.ByName, q.Text)
			}
		case proto.EventQuestionUpdate:
			var q proto.QuestionView
			if json.Unmarshal(outbound.Data, &q) == nil && q.Answer != nil {
				fmt.Printf("Q%d answered: %s\n", q.ID, *q.Answer)
			}
		case proto.EventGuessNew:
			var g proto.EventGuessNewData
			if json.Unmarshal(outbound.Data, &g) == nil {
				fmt.Printf("!! %s guesses %q (turn %d)\n", g.ByName, g.Guess, g.QCount)
			}
		}
	}
}

func inputLoop(ctx context.Context, code string, send func(string, any)) {
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return
		default:
		}

		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "":
		case strings.HasPrefix(line, "/answer "):
			rest := strings.TrimPrefix(line, "/answer ")
			parts := strings.SplitN(rest, " ", 2)
			if len(parts) != 2 {
				fmt.Println("usage: /answer <id> <text>")
				continue
			}
			id, err := strconv.Atoi(parts[0])
			if err != nil {
				fmt.Println("usage: /answer <id> <text>")
				continue
			}
			send(proto.InboundTypeQuestionAnswer, proto.QuestionAnswerData{Code: code, ID: id, Answer: parts[1]})
		case strings.HasPrefix(line, "/guess "):
			send(proto.InboundTypeGuessTry, proto.GuessTryData{Code: code, Guess: strings.TrimPrefix(line, "/guess ")})
		default:
			send(proto.InboundTypeQuestionAsk, proto.QuestionAskData{Code: code, Text: line})
		}
	}
}

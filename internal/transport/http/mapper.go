package http

import (
	"encoding/json"

	"twentyq-server/internal/core"
	"twentyq-server/internal/proto"
)

// inboundToCommand decodes and validates a client frame at the
// boundary; game logic only ever sees well-formed commands.
func inboundToCommand(inbound proto.Inbound) (*core.Command, *proto.Error, error) {
	switch inbound.Type {
	case proto.InboundTypeRoomCreate:
		var create proto.RoomCreateData
		if err := json.Unmarshal(inbound.Data, &create); err != nil {
			return nil, nil, err
		}
		if create.Code == "" || create.Name == "" {
			return nil, badRequest("code and name are required"), nil
		}
		return &core.Command{
			Kind:   core.CommandCreateRoom,
			Code:   create.Code,
			Name:   create.Name,
			Secret: create.Secret,
		}, nil, nil
	case proto.InboundTypeRoomJoin:
		var join proto.RoomJoinData
		if err := json.Unmarshal(inbound.Data, &join); err != nil {
			return nil, nil, err
		}
		if join.Code == "" || join.Name == "" {
			return nil, badRequest("code and name are required"), nil
		}
		return &core.Command{
			Kind: core.CommandJoinRoom,
			Code: join.Code,
			Name: join.Name,
		}, nil, nil
	case proto.InboundTypeQuestionAsk:
		var ask proto.QuestionAskData
		if err := json.Unmarshal(inbound.Data, &ask); err != nil {
			return nil, nil, err
		}
		if ask.Code == "" || ask.Text == "" {
			return nil, badRequest("code and text are required"), nil
		}
		return &core.Command{
			Kind: core.CommandAskQuestion,
			Code: ask.Code,
			Text: ask.Text,
		}, nil, nil
	case proto.InboundTypeQuestionAnswer:
		var answer proto.QuestionAnswerData
		if err := json.Unmarshal(inbound.Data, &answer); err != nil {
			return nil, nil, err
		}
		if answer.Code == "" || answer.ID <= 0 {
			return nil, badRequest("code and a positive id are required"), nil
		}
		return &core.Command{
			Kind:       core.CommandAnswerQuestion,
			Code:       answer.Code,
			QuestionID: answer.ID,
			Answer:     answer.Answer,
		}, nil, nil
	case proto.InboundTypeGuessTry:
		var guess proto.GuessTryData
		if err := json.Unmarshal(inbound.Data, &guess); err != nil {
			return nil, nil, err
		}
		if guess.Code == "" || guess.Guess == "" {
			return nil, badRequest("code and guess are required"), nil
		}
		return &core.Command{
			Kind:  core.CommandTryGuess,
			Code:  guess.Code,
			Guess: guess.Guess,
		}, nil, nil
	default:
		return nil, &proto.Error{Code: "invalid_message", Msg: "unknown message type"}, nil
	}
}

func badRequest(msg string) *proto.Error {
	return &proto.Error{Code: core.ErrCodeBadRequest, Msg: msg}
}

func outboundFromEvent(event *core.Event) proto.Outbound {
	switch event.Kind {
	case core.EventRoomJoined:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventRoomJoined,
			Data: proto.EventRoomJoinedData{
				Code:    event.Code,
				Thinker: event.Thinker,
			},
		}
	case core.EventPlayersUpdate:
		players := make([]proto.PlayerView, 0, len(event.Players))
		for _, p := range event.Players {
			players = append(players, proto.PlayerView{
				ID:      p.ID,
				Name:    p.Name,
				Thinker: p.Thinker,
			})
		}
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventPlayersUpdate,
			Data:  players,
		}
	case core.EventQuestionNew:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventQuestionNew,
			Data:  questionView(event.Question),
		}
	case core.EventQuestionUpdate:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventQuestionUpdate,
			Data:  questionView(event.Question),
		}
	case core.EventGuessNew:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventGuessNew,
			Data: proto.EventGuessNewData{
				ByName: event.Guess.ByName,
				Guess:  event.Guess.Guess,
				QCount: event.Guess.Turn,
			},
		}
	case core.EventError:
		if event.Error == nil {
			return proto.Outbound{Type: proto.OutboundTypeError, Error: &proto.Error{Code: "unknown", Msg: "unknown error"}}
		}
		return proto.Outbound{
			Type:  proto.OutboundTypeError,
			Error: &proto.Error{Code: event.Error.Code, Msg: event.Error.Message},
		}
	default:
		return proto.Outbound{Type: proto.OutboundTypeEvent}
	}
}

func questionView(q *core.Question) proto.QuestionView {
	return proto.QuestionView{
		ID:     q.ID,
		ByName: q.AskerName,
		Text:   q.Text,
		Answer: q.Answer,
	}
}

package gateway

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"motion_arena/internal/domain/event"
)

// Handlers holds the socket-level event handlers the dispatch table is
// built from. Each handler is a thin route into the room registry or
// the relay, no game state lives here.
type Handlers struct {
	log       *zap.SugaredLogger
	rooms     *RoomRegistry
	relay     *SignalRelay
	lobbyRoom string
}

func NewHandlers(log *zap.SugaredLogger, rooms *RoomRegistry, relay *SignalRelay, lobbyRoom string) *Handlers {
	return &Handlers{
		log:       log,
		rooms:     rooms,
		relay:     relay,
		lobbyRoom: lobbyRoom,
	}
}

func (h *Handlers) JoinLobby(ctx context.Context, c *Client, data json.RawMessage) {
	h.rooms.Join(h.lobbyRoom, c)
	h.relay.RelayPresence(h.lobbyRoom, event.LobbyMessage,
		fmt.Sprintf("%s has joined the lobby", c.Username))
}

func (h *Handlers) LeaveLobby(ctx context.Context, c *Client, data json.RawMessage) {
	h.rooms.Leave(h.lobbyRoom, c)
	h.relay.RelayPresence(h.lobbyRoom, event.LobbyMessage,
		fmt.Sprintf("%s has left the lobby", c.Username))
}

func (h *Handlers) JoinGame(ctx context.Context, c *Client, data json.RawMessage) {
	var payload event.RoomPayload
	if err := json.Unmarshal(data, &payload); err != nil || payload.SessionID == "" {
		h.log.Warnf("join_game from %s: bad payload", c.ID)
		return
	}
	h.rooms.Join(payload.SessionID, c)
	h.relay.RelayPresence(payload.SessionID, event.GameMessage,
		fmt.Sprintf("%s has joined the game", c.Username))
}

func (h *Handlers) LeaveGame(ctx context.Context, c *Client, data json.RawMessage) {
	var payload event.RoomPayload
	if err := json.Unmarshal(data, &payload); err != nil || payload.SessionID == "" {
		h.log.Warnf("leave_game from %s: bad payload", c.ID)
		return
	}
	h.rooms.Leave(payload.SessionID, c)
	h.relay.RelayPresence(payload.SessionID, event.GameMessage,
		fmt.Sprintf("%s has left the game", c.Username))
}

func (h *Handlers) GameAction(ctx context.Context, c *Client, data json.RawMessage) {
	var payload event.ActionPayload
	if err := json.Unmarshal(data, &payload); err != nil || payload.SessionID == "" || payload.ActionType == "" {
		h.log.Warnf("game_action from %s: bad payload", c.ID)
		return
	}
	h.relay.RelayAction(payload.SessionID, c, payload.ActionType, payload.ActionData)
}

func (h *Handlers) GameChat(ctx context.Context, c *Client, data json.RawMessage) {
	var payload event.ChatPayload
	if err := json.Unmarshal(data, &payload); err != nil || payload.SessionID == "" {
		h.log.Warnf("game_chat from %s: bad payload", c.ID)
		return
	}
	h.relay.RelayChat(payload.SessionID, c, payload.Message)
}

func (h *Handlers) CallUser(ctx context.Context, c *Client, data json.RawMessage) {
	var payload event.SignalPayload
	if err := json.Unmarshal(data, &payload); err != nil || payload.To == "" {
		h.log.Warnf("call-user from %s: bad payload", c.ID)
		return
	}
	h.relay.RelaySignal(payload.To, c, event.CallMade, event.SignalBroadcast{Offer: payload.Offer})
}

func (h *Handlers) MakeAnswer(ctx context.Context, c *Client, data json.RawMessage) {
	var payload event.SignalPayload
	if err := json.Unmarshal(data, &payload); err != nil || payload.To == "" {
		h.log.Warnf("make-answer from %s: bad payload", c.ID)
		return
	}
	h.relay.RelaySignal(payload.To, c, event.AnswerMade, event.SignalBroadcast{Answer: payload.Answer})
}

func (h *Handlers) IceCandidate(ctx context.Context, c *Client, data json.RawMessage) {
	var payload event.SignalPayload
	if err := json.Unmarshal(data, &payload); err != nil || payload.To == "" {
		h.log.Warnf("ice-candidate from %s: bad payload", c.ID)
		return
	}
	h.relay.RelaySignal(payload.To, c, event.IceCandidate, event.SignalBroadcast{Candidate: payload.Candidate})
}

package gateway

import (
	"encoding/json"

	"go.uber.org/zap"

	"motion_arena/internal/domain/event"
)

// SignalRelay forwards opaque payloads between the members of a session
// room, excluding the sender. It never looks inside the payload and
// never stores it, a disconnected recipient simply misses the frame.
type SignalRelay struct {
	rooms *RoomRegistry
	log   *zap.SugaredLogger
}

func NewSignalRelay(rooms *RoomRegistry, log *zap.SugaredLogger) *SignalRelay {
	return &SignalRelay{rooms: rooms, log: log}
}

func (s *SignalRelay) RelayAction(room string, sender *Client, actionType string, actionData json.RawMessage) {
	s.rooms.Broadcast(room, event.GameAction, event.ActionBroadcast{
		UserID:     sender.UserID,
		Username:   sender.Username,
		ActionType: actionType,
		ActionData: actionData,
	}, sender)
}

func (s *SignalRelay) RelayChat(room string, sender *Client, message string) {
	s.rooms.Broadcast(room, event.GameChat, event.ChatBroadcast{
		UserID:   sender.UserID,
		Username: sender.Username,
		Message:  message,
	}, sender)
}

// RelaySignal forwards WebRTC material (offer, answer or ICE candidate)
// to the other peer of the room, attributed with the sender connection
// id.
func (s *SignalRelay) RelaySignal(room string, sender *Client, eventName string, payload event.SignalBroadcast) {
	payload.Socket = sender.ID
	s.rooms.Broadcast(room, eventName, payload, sender)
}

// RelayPresence announces a join/leave notice to the whole room, the
// subject of the notice included.
func (s *SignalRelay) RelayPresence(room string, eventName string, msg string) {
	s.rooms.Broadcast(room, eventName, event.MessagePayload{Msg: msg}, nil)
}

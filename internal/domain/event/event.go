package event

import "encoding/json"

// Wire contract of the realtime channel. Every frame is a named event
// with a JSON payload.
const (
	// client -> server
	JoinLobby    = "join_lobby"
	LeaveLobby   = "leave_lobby"
	JoinGame     = "join_game"
	LeaveGame    = "leave_game"
	GameAction   = "game_action"
	GameChat     = "game_chat"
	CallUser     = "call-user"
	MakeAnswer   = "make-answer"
	IceCandidate = "ice-candidate"

	// server -> client
	UserConnected    = "user_connected"
	UserDisconnected = "user_disconnected"
	LobbyMessage     = "lobby_message"
	GameMessage      = "game_message"
	CallMade         = "call-made"
	AnswerMade       = "answer-made"
)

type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

type RoomPayload struct {
	SessionID string `json:"session_id"`
}

type ActionPayload struct {
	SessionID  string          `json:"session_id"`
	ActionType string          `json:"action_type"`
	ActionData json.RawMessage `json:"action_data,omitempty"`
}

type ChatPayload struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

// SignalPayload carries opaque WebRTC material. To names the session
// room of the target peer.
type SignalPayload struct {
	To        string          `json:"to"`
	Offer     json.RawMessage `json:"offer,omitempty"`
	Answer    json.RawMessage `json:"answer,omitempty"`
	Candidate json.RawMessage `json:"candidate,omitempty"`
}

type PresencePayload struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
}

type MessagePayload struct {
	Msg string `json:"msg"`
}

// ActionBroadcast is the relayed form of ActionPayload, tagged with the
// sender so the receiver can attribute it.
type ActionBroadcast struct {
	UserID     string          `json:"user_id"`
	Username   string          `json:"username"`
	ActionType string          `json:"action_type"`
	ActionData json.RawMessage `json:"action_data,omitempty"`
}

type ChatBroadcast struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Message  string `json:"message"`
}

// SignalBroadcast mirrors the socket.io contract: the sender connection
// id travels in the socket field.
type SignalBroadcast struct {
	Socket    string          `json:"socket"`
	Offer     json.RawMessage `json:"offer,omitempty"`
	Answer    json.RawMessage `json:"answer,omitempty"`
	Candidate json.RawMessage `json:"candidate,omitempty"`
}

package gateway

import (
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"motion_arena/internal/domain/event"
)

func testLogger() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}

func drain(c *Client) []event.Envelope {
	var out []event.Envelope
	for {
		select {
		case env := <-c.send:
			out = append(out, env)
		default:
			return out
		}
	}
}

func TestJoinIsIdempotent(t *testing.T) {
	rooms := NewRoomRegistry(testLogger())
	c := newClient("conn-1", nil)

	rooms.Join("lobby", c)
	rooms.Join("lobby", c)

	assert.Equal(t, 1, rooms.Members("lobby"))
	assert.True(t, rooms.IsMember("lobby", c))

	rooms.Broadcast("lobby", event.LobbyMessage, event.MessagePayload{Msg: "hi"}, nil)
	assert.Len(t, drain(c), 1)
}

func TestBroadcastExcludesSender(t *testing.T) {
	rooms := NewRoomRegistry(testLogger())
	sender := newClient("conn-1", nil)
	other := newClient("conn-2", nil)

	rooms.Join("42", sender)
	rooms.Join("42", other)

	rooms.Broadcast("42", event.GameChat, event.ChatBroadcast{Message: "gl hf"}, sender)

	assert.Empty(t, drain(sender))

	got := drain(other)
	require.Len(t, got, 1)
	assert.Equal(t, event.GameChat, got[0].Event)

	var payload event.ChatBroadcast
	require.NoError(t, json.Unmarshal(got[0].Data, &payload))
	assert.Equal(t, "gl hf", payload.Message)
}

func TestBroadcastEmptyRoomIsNoop(t *testing.T) {
	rooms := NewRoomRegistry(testLogger())
	c := newClient("conn-1", nil)
	rooms.Join("lobby", c)

	rooms.Broadcast("nobody-here", event.LobbyMessage, event.MessagePayload{Msg: "hello?"}, nil)

	assert.Empty(t, drain(c))
}

func TestLeaveAllRemovesEveryMembership(t *testing.T) {
	rooms := NewRoomRegistry(testLogger())
	leaver := newClient("conn-1", nil)
	stayer := newClient("conn-2", nil)

	rooms.Join("lobby", leaver)
	rooms.Join("42", leaver)
	rooms.Join("42", stayer)

	left := rooms.LeaveAll(leaver)
	assert.ElementsMatch(t, []string{"lobby", "42"}, left)
	assert.False(t, rooms.IsMember("lobby", leaver))
	assert.False(t, rooms.IsMember("42", leaver))

	rooms.Broadcast("42", event.GameChat, event.ChatBroadcast{Message: "still here"}, nil)
	rooms.Broadcast("lobby", event.LobbyMessage, event.MessagePayload{Msg: "anyone?"}, nil)

	assert.Empty(t, drain(leaver))
	assert.Len(t, drain(stayer), 1)
}

func TestLeaveGarbageCollectsEmptyRoom(t *testing.T) {
	rooms := NewRoomRegistry(testLogger())
	c := newClient("conn-1", nil)

	rooms.Join("42", c)
	rooms.Leave("42", c)

	assert.Equal(t, 0, rooms.Members("42"))
	assert.False(t, rooms.IsMember("42", c))
}

func TestRelaySignalStampsSenderSocket(t *testing.T) {
	rooms := NewRoomRegistry(testLogger())
	relay := NewSignalRelay(rooms, testLogger())

	caller := newClient("conn-caller", nil)
	callee := newClient("conn-callee", nil)
	rooms.Join("42", caller)
	rooms.Join("42", callee)

	offer := json.RawMessage(`{"type":"offer","sdp":"v=0"}`)
	relay.RelaySignal("42", caller, event.CallMade, event.SignalBroadcast{Offer: offer})

	assert.Empty(t, drain(caller))

	got := drain(callee)
	require.Len(t, got, 1)
	assert.Equal(t, event.CallMade, got[0].Event)

	var payload event.SignalBroadcast
	require.NoError(t, json.Unmarshal(got[0].Data, &payload))
	assert.Equal(t, "conn-caller", payload.Socket)
	assert.JSONEq(t, string(offer), string(payload.Offer))
}

func TestRelayPresenceIncludesSubject(t *testing.T) {
	rooms := NewRoomRegistry(testLogger())
	relay := NewSignalRelay(rooms, testLogger())

	joiner := newClient("conn-1", nil)
	joiner.Username = "alice"
	other := newClient("conn-2", nil)
	rooms.Join("lobby", joiner)
	rooms.Join("lobby", other)

	relay.RelayPresence("lobby", event.UserConnected, "alice has joined the lobby")

	require.Len(t, drain(joiner), 1)
	require.Len(t, drain(other), 1)
}

func TestEnqueueAfterCloseIsDropped(t *testing.T) {
	c := newClient("conn-1", nil)
	c.close()

	env, err := marshalEnvelope(event.LobbyMessage, event.MessagePayload{Msg: "x"})
	require.NoError(t, err)
	assert.False(t, c.enqueue(env))

	// close is idempotent
	c.close()
}

// Broadcasters racing a disconnect must never send on the closed
// channel, they either deliver before the close or drop the frame.
func TestBroadcastDuringDisconnect(t *testing.T) {
	rooms := NewRoomRegistry(testLogger())

	for i := 0; i < 50; i++ {
		c := newClient("conn-1", nil)
		rooms.Join("lobby", c)

		var wg sync.WaitGroup
		for w := 0; w < 4; w++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for j := 0; j < 100; j++ {
					rooms.Broadcast("lobby", event.LobbyMessage, event.MessagePayload{Msg: "x"}, nil)
				}
			}()
		}

		rooms.LeaveAll(c)
		c.close()
		wg.Wait()

		assert.False(t, rooms.IsMember("lobby", c))
	}
}

func TestEnqueueDropsWhenBufferFull(t *testing.T) {
	c := newClient("conn-1", nil)

	env, err := marshalEnvelope(event.LobbyMessage, event.MessagePayload{Msg: "x"})
	require.NoError(t, err)

	for i := 0; i < sendBufferSize; i++ {
		assert.True(t, c.enqueue(env))
	}
	assert.False(t, c.enqueue(env))
}

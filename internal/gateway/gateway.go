package gateway

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"motion_arena/internal/domain/event"
	userDomain "motion_arena/internal/domain/user"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// HandlerFunc processes one inbound event of one client. Handlers for
// the same client run sequentially in send order, handlers for
// different clients interleave freely.
type HandlerFunc func(ctx context.Context, c *Client, data json.RawMessage)

// Dispatch maps inbound event names to their handlers. The table is
// assembled once at startup and stays immutable afterwards.
type Dispatch map[string]HandlerFunc

// Identity resolves a cookie session to a user, the gateway's view of
// the identity store.
type Identity interface {
	ResolveSession(ctx context.Context, sessionID string) (userDomain.User, error)
}

// Gateway is the single entry and exit point of all realtime traffic.
// It routes events, it holds no game state of its own.
type Gateway struct {
	log       *zap.SugaredLogger
	rooms     *RoomRegistry
	relay     *SignalRelay
	identity  Identity
	dispatch  Dispatch
	lobbyRoom string
}

func New(log *zap.SugaredLogger, rooms *RoomRegistry, relay *SignalRelay, identity Identity, dispatch Dispatch, lobbyRoom string) *Gateway {
	return &Gateway{
		log:       log,
		rooms:     rooms,
		relay:     relay,
		identity:  identity,
		dispatch:  dispatch,
		lobbyRoom: lobbyRoom,
	}
}

// ServeWS upgrades the request and runs the connection until the peer
// goes away. An unresolved identity keeps the connection open but every
// privileged event is silently dropped.
func (g *Gateway) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		g.log.Errorf("websocket upgrade failed: %v", err)
		return
	}

	client := newClient(uuid.New().String(), conn)

	if cookie, err := r.Cookie("sessionID"); err == nil {
		if u, err := g.identity.ResolveSession(r.Context(), cookie.Value); err == nil {
			client.UserID = u.ID
			client.Username = u.Username
		}
	}

	go client.writePump(g.log)

	if client.Authenticated() {
		if env, err := marshalEnvelope(event.UserConnected, event.PresencePayload{
			UserID:   client.UserID,
			Username: client.Username,
		}); err == nil {
			client.enqueue(env)
		}
		g.log.Infof("client %s connected as %s", client.ID, client.Username)
	} else {
		g.log.Infof("client %s connected unauthenticated", client.ID)
	}

	g.readLoop(r.Context(), client)
	g.disconnect(client)
}

// readLoop dispatches inbound events one by one, preserving the
// per-connection send order.
func (g *Gateway) readLoop(ctx context.Context, c *Client) {
	for {
		var env event.Envelope
		if err := c.conn.ReadJSON(&env); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				g.log.Errorf("read from client %s: %v", c.ID, err)
			}
			return
		}

		handler, ok := g.dispatch[env.Event]
		if !ok {
			g.log.Warnf("client %s sent unknown event %q", c.ID, env.Event)
			continue
		}
		if !c.Authenticated() {
			continue
		}

		handler(ctx, c, env.Data)
	}
}

func (g *Gateway) disconnect(c *Client) {
	rooms := g.rooms.LeaveAll(c)
	c.close()

	if c.Authenticated() {
		g.rooms.Broadcast(g.lobbyRoom, event.UserDisconnected, event.PresencePayload{
			UserID:   c.UserID,
			Username: c.Username,
		}, nil)
	}

	g.log.Infof("client %s disconnected, left %d rooms", c.ID, len(rooms))
}

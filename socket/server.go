package socket

import (
	"context"
	"log"
	"sync"

	"petpal_server/models"
	"petpal_server/realtime"
	"petpal_server/services"

	socketio "github.com/googollee/go-socket.io"
)

// Gateway bridges the live-subscription services to socket.io rooms. Each
// room maps one-to-one onto a hub topic; the gateway holds the service
// subscription for a room while at least one client is joined and releases
// it when the room empties, so server-side listeners never outlive their
// watchers.
type Gateway struct {
	Presence    *services.PresenceService
	Invitations *services.InvitationService
	Sessions    *services.SessionService

	broadcast func(room, event string, payload interface{})
	mu        sync.Mutex
	watchers  map[string]*roomWatcher
	joined    map[string]map[string]bool // conn ID -> rooms
}

type roomWatcher struct {
	refs        int
	unsubscribe func()
}

// NewSocketServer initializes the Socket.IO server and wires its rooms to
// the presence, invitation and session subscriptions
func NewSocketServer(presence *services.PresenceService, invitations *services.InvitationService, sessions *services.SessionService) *socketio.Server {
	server := socketio.NewServer(nil)
	gateway := &Gateway{
		Presence:    presence,
		Invitations: invitations,
		Sessions:    sessions,
		broadcast: func(room, event string, payload interface{}) {
			server.BroadcastToRoom("/", room, event, payload)
		},
		watchers: make(map[string]*roomWatcher),
		joined:   make(map[string]map[string]bool),
	}

	server.OnConnect("/", func(s socketio.Conn) error {
		log.Println("✅ Socket connected:", s.ID())
		return nil
	})

	server.OnEvent("/", "watchPresence", func(s socketio.Conn) {
		s.Join(realtime.TopicPresence)
		gateway.join(s.ID(), realtime.TopicPresence)
		if users, err := presence.GetOnlineUsers(context.Background(), ""); err == nil {
			s.Emit("onlineUsers", users)
		}
	})
	server.OnEvent("/", "unwatchPresence", func(s socketio.Conn) {
		s.Leave(realtime.TopicPresence)
		gateway.leave(s.ID(), realtime.TopicPresence)
	})

	server.OnEvent("/", "watchInvitations", func(s socketio.Conn, userID string) {
		if userID == "" {
			log.Println("❌ Invalid userId in watchInvitations request")
			return
		}
		room := realtime.TopicInvitations(userID)
		s.Join(room)
		gateway.join(s.ID(), room)
		if pending, err := invitations.GetPending(context.Background(), userID); err == nil {
			s.Emit("pendingInvitations", pending)
		}
	})
	server.OnEvent("/", "unwatchInvitations", func(s socketio.Conn, userID string) {
		room := realtime.TopicInvitations(userID)
		s.Leave(room)
		gateway.leave(s.ID(), room)
	})

	server.OnEvent("/", "watchSession", func(s socketio.Conn, sessionID string) {
		if sessionID == "" {
			log.Println("❌ Invalid sessionId in watchSession request")
			return
		}
		room := realtime.TopicSession(sessionID)
		s.Join(room)
		gateway.join(s.ID(), room)
		session, err := sessions.Get(context.Background(), sessionID)
		if err != nil {
			// A missing document reads the same as an ended session
			s.Emit("session", nil)
			return
		}
		s.Emit("session", session)
	})
	server.OnEvent("/", "unwatchSession", func(s socketio.Conn, sessionID string) {
		room := realtime.TopicSession(sessionID)
		s.Leave(room)
		gateway.leave(s.ID(), room)
	})

	server.OnError("/", func(s socketio.Conn, err error) {
		log.Println("❌ Socket error:", err)
	})

	server.OnDisconnect("/", func(s socketio.Conn, reason string) {
		log.Println("❌ Socket disconnected:", s.ID(), reason)
		gateway.dropConnection(s.ID())
	})

	return server
}

func (g *Gateway) join(connID, room string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	rooms := g.joined[connID]
	if rooms == nil {
		rooms = make(map[string]bool)
		g.joined[connID] = rooms
	}
	if rooms[room] {
		return
	}

	watcher := g.watchers[room]
	if watcher == nil {
		watcher = &roomWatcher{}
		g.watchers[room] = watcher
	}
	if watcher.refs == 0 {
		watcher.unsubscribe = g.startSubscription(room)
		if watcher.unsubscribe == nil {
			// A watcher without a live subscription would leave the room
			// silent until it emptied; drop it so the next watch retries
			delete(g.watchers, room)
			return
		}
	}
	watcher.refs++
	rooms[room] = true
}

func (g *Gateway) leave(connID, room string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if rooms := g.joined[connID]; rooms != nil && rooms[room] {
		delete(rooms, room)
		g.releaseLocked(room)
	}
}

func (g *Gateway) dropConnection(connID string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for room := range g.joined[connID] {
		g.releaseLocked(room)
	}
	delete(g.joined, connID)
}

func (g *Gateway) releaseLocked(room string) {
	watcher := g.watchers[room]
	if watcher == nil {
		return
	}
	watcher.refs--
	if watcher.refs > 0 {
		return
	}
	delete(g.watchers, room)
	if watcher.unsubscribe != nil {
		// Unsubscribing here releases the server-side listener resource
		go watcher.unsubscribe()
	}
}

// startSubscription opens the service subscription backing a room. Snapshot
// deliveries fan out to every client in the room. Returns nil when the
// subscription could not be opened.
func (g *Gateway) startSubscription(room string) func() {
	switch {
	case room == realtime.TopicPresence:
		unsubscribe, err := g.Presence.SubscribeOnlineUsers("", func(users []models.User) {
			g.broadcast(room, "onlineUsers", users)
		})
		if err != nil {
			log.Printf("❌ Failed to subscribe presence room: %v", err)
			return nil
		}
		return unsubscribe

	case isInvitationsRoom(room):
		userID := room[len("invitations:"):]
		unsubscribe, err := g.Invitations.SubscribePending(userID, func(pending []models.Invitation) {
			g.broadcast(room, "pendingInvitations", pending)
		})
		if err != nil {
			log.Printf("❌ Failed to subscribe invitations room %s: %v", room, err)
			return nil
		}
		return unsubscribe

	case isSessionRoom(room):
		sessionID := room[len("session:"):]
		unsubscribe, err := g.Sessions.Subscribe(sessionID, func(session *models.Session) {
			g.broadcast(room, "session", session)
		})
		if err != nil {
			log.Printf("❌ Failed to subscribe session room %s: %v", room, err)
			return nil
		}
		return unsubscribe
	}

	log.Printf("❌ Unknown room %q", room)
	return nil
}

func isInvitationsRoom(room string) bool {
	return len(room) > len("invitations:") && room[:len("invitations:")] == "invitations:"
}

func isSessionRoom(room string) bool {
	return len(room) > len("session:") && room[:len("session:")] == "session:"
}

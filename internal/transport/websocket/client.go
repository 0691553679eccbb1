package websocket

import (
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/fourline/server/internal/domain"
	"github.com/fourline/server/internal/metrics"
	"github.com/fourline/server/pkg/uid"
)

const writeTimeout = 10 * time.Second

// ConnectionManager tracks live sockets and their room memberships. Rooms are
// the broadcast groups, one per active session id.
type ConnectionManager struct {
	connections map[string]*websocket.Conn

	// writeMu ensures only one goroutine writes to a specific socket at a
	// time; conn.WriteJSON is not goroutine-safe.
	writeMu map[string]*sync.Mutex

	rooms map[string]map[string]struct{}

	mu sync.RWMutex // protects the maps themselves
}

func NewConnectionManager() *ConnectionManager {
	return &ConnectionManager{
		connections: make(map[string]*websocket.Conn),
		writeMu:     make(map[string]*sync.Mutex),
		rooms:       make(map[string]map[string]struct{}),
	}
}

// Register assigns a fresh connection id to a socket.
func (cm *ConnectionManager) Register(conn *websocket.Conn) string {
	connID := uid.NewToken()

	cm.mu.Lock()
	cm.connections[connID] = conn
	cm.writeMu[connID] = &sync.Mutex{}
	cm.mu.Unlock()

	metrics.ActiveConnections.Inc()
	metrics.TotalConnections.Inc()
	return connID
}

// Unregister closes the socket and forgets the connection and its rooms.
func (cm *ConnectionManager) Unregister(connID string) {
	cm.mu.Lock()
	if conn, ok := cm.connections[connID]; ok {
		conn.Close()
		delete(cm.connections, connID)
		delete(cm.writeMu, connID)
		metrics.ActiveConnections.Dec()
	}
	for roomID, members := range cm.rooms {
		delete(members, connID)
		if len(members) == 0 {
			delete(cm.rooms, roomID)
		}
	}
	cm.mu.Unlock()
}

// Send writes a JSON message to one connection. Unknown connections are
// silently ignored; the peer may have just disconnected.
func (cm *ConnectionManager) Send(connID string, msg domain.ServerMessage) {
	cm.mu.RLock()
	conn, ok := cm.connections[connID]
	mu, muOK := cm.writeMu[connID]
	cm.mu.RUnlock()

	if !ok || !muOK {
		return
	}

	mu.Lock()
	defer mu.Unlock()

	conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	if err := conn.WriteJSON(msg); err != nil {
		log.Printf("[WS] Write to %s failed: %v", connID, err)
		return
	}
	metrics.MessagesSent.Inc()
}

// SendToRoom fans a message out to every member, sender included. Each send
// runs on its own goroutine so one slow socket never blocks the rest.
func (cm *ConnectionManager) SendToRoom(roomID string, msg domain.ServerMessage) {
	cm.mu.RLock()
	members := make([]string, 0, len(cm.rooms[roomID]))
	for connID := range cm.rooms[roomID] {
		members = append(members, connID)
	}
	cm.mu.RUnlock()

	for _, connID := range members {
		go cm.Send(connID, msg)
	}
}

func (cm *ConnectionManager) JoinRoom(connID, roomID string) {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	members, ok := cm.rooms[roomID]
	if !ok {
		members = make(map[string]struct{})
		cm.rooms[roomID] = members
	}
	members[connID] = struct{}{}
}

func (cm *ConnectionManager) LeaveRoom(connID, roomID string) {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	if members, ok := cm.rooms[roomID]; ok {
		delete(members, connID)
		if len(members) == 0 {
			delete(cm.rooms, roomID)
		}
	}
}

// DropRoom dissolves a broadcast group when its session is torn down.
func (cm *ConnectionManager) DropRoom(roomID string) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	delete(cm.rooms, roomID)
}

// RoomSize reports a room's membership count.
func (cm *ConnectionManager) RoomSize(roomID string) int {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return len(cm.rooms[roomID])
}

package websocket

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fourline/server/internal/domain"
)

func TestRoomMembership(t *testing.T) {
	cm := NewConnectionManager()

	cm.JoinRoom("a", "room1")
	cm.JoinRoom("b", "room1")
	cm.JoinRoom("a", "room2")

	assert.Equal(t, 2, cm.RoomSize("room1"))
	assert.Equal(t, 1, cm.RoomSize("room2"))
	assert.Equal(t, 0, cm.RoomSize("nope"))

	cm.LeaveRoom("a", "room1")
	assert.Equal(t, 1, cm.RoomSize("room1"))

	// The last member leaving dissolves the room.
	cm.LeaveRoom("b", "room1")
	assert.Equal(t, 0, cm.RoomSize("room1"))

	cm.DropRoom("room2")
	assert.Equal(t, 0, cm.RoomSize("room2"))
}

func TestLeaveRoomUnknownIsNoop(t *testing.T) {
	cm := NewConnectionManager()
	cm.LeaveRoom("ghost", "nowhere")
	cm.DropRoom("nowhere")
	assert.Equal(t, 0, cm.RoomSize("nowhere"))
}

func TestUnregisterRemovesFromRooms(t *testing.T) {
	cm := NewConnectionManager()
	cm.JoinRoom("a", "room1")
	cm.JoinRoom("b", "room1")

	// Unregister of a connection that never registered a socket still clears
	// its room memberships.
	cm.Unregister("a")
	assert.Equal(t, 1, cm.RoomSize("room1"))

	cm.Unregister("b")
	assert.Equal(t, 0, cm.RoomSize("room1"))
}

func TestSendToUnknownConnection(t *testing.T) {
	cm := NewConnectionManager()

	// Must not panic; the peer may have just dropped.
	cm.Send("ghost", domain.ServerMessage{Type: "gameUpdate"})
	cm.SendToRoom("nowhere", domain.ServerMessage{Type: "gameUpdate"})
}

package websocket

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/fourline/server/internal/domain"
	"github.com/fourline/server/internal/metrics"
	"github.com/fourline/server/internal/service/game"
)

const (
	readTimeout  = 60 * time.Second
	pingInterval = 30 * time.Second
)

// Handler upgrades HTTP requests and pumps inbound events into the game
// service.
type Handler struct {
	Conns    *ConnectionManager
	Game     *game.Service
	Upgrader websocket.Upgrader
}

func NewHandler(cm *ConnectionManager, gs *game.Service, allowedOrigins []string) *Handler {
	return &Handler{
		Conns: cm,
		Game:  gs,
		Upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" || len(allowedOrigins) == 0 {
					return true
				}
				for _, allowed := range allowedOrigins {
					if origin == allowed {
						return true
					}
				}
				return false
			},
		},
	}
}

// HandleWebSocket is the gin route that upgrades the connection.
func (h *Handler) HandleWebSocket(c *gin.Context) {
	conn, err := h.Upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("[WS] Upgrade error: %v", err)
		return
	}

	h.handleConnection(conn)
}

// handleConnection owns one socket from registration to cleanup.
func (h *Handler) handleConnection(conn *websocket.Conn) {
	connID := h.Conns.Register(conn)
	log.Printf("[WS] Connection %s opened", connID)

	done := make(chan struct{})

	// Keep-alive pinger
	go func() {
		ticker := time.NewTicker(pingInterval)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeTimeout)); err != nil {
					return
				}
			}
		}
	}()

	conn.SetReadDeadline(time.Now().Add(readTimeout))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(readTimeout))
		return nil
	})

	defer func() {
		close(done)
		log.Printf("[WS] Connection %s closed", connID)
		h.Game.HandleDisconnect(connID)
		h.Conns.Unregister(connID)
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[WS] Connection %s dropped: %v", connID, err)
			}
			return
		}
		metrics.MessagesReceived.Inc()

		var msg domain.ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			log.Printf("[WS] Invalid message from %s: %v", connID, err)
			continue
		}

		h.processMessage(connID, msg)
	}
}

// processMessage routes one inbound event. Rejections surface as a single
// generic error event; nothing else about the connection changes.
func (h *Handler) processMessage(connID string, msg domain.ClientMessage) {
	var err error

	switch msg.Type {
	case "setPlayerName":
		h.Game.SetPlayerName(connID, msg.Name)

	case "createGame":
		h.Game.CreateGame(connID, msg.VsBot, msg.Difficulty)

	case "joinGame":
		err = h.Game.JoinGame(msg.SessionID, connID)

	case "makeMove":
		err = h.Game.ApplyMove(msg.SessionID, connID, msg.Color, msg.Column)

	case "requestRematch":
		err = h.Game.RequestRematch(msg.SessionID, connID)

	case "acceptRematch":
		err = h.Game.AcceptRematch(msg.SessionID, connID)

	case "declineRematch":
		h.Game.DeclineRematch(msg.SessionID, connID)

	case "leaveGame":
		h.Game.LeaveGame(msg.SessionID, connID)

	default:
		log.Printf("[WS] Unknown event %q from %s", msg.Type, connID)
	}

	if err != nil {
		h.Conns.Send(connID, domain.ServerMessage{Type: "errorMsg", Message: err.Error()})
	}
}

package mensaje

import (
	"log"
	"net/http"
	"time"

	"deudasacero/internal/middleware"
	"deudasacero/internal/pkg/jwt"
	"deudasacero/internal/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Origin checking happens at the CORS layer; the upgrade itself
	// accepts any origin.
	CheckOrigin: func(r *http.Request) bool { return true },
}

type WSHandler struct {
	hub        *Hub
	jwtService *jwt.Service
}

func NewWSHandler(hub *Hub, jwtService *jwt.Service) *WSHandler {
	return &WSHandler{hub: hub, jwtService: jwtService}
}

// HandleWebSocket upgrades GET /ws. Auth comes from the session
// cookie, with ?token= as a fallback for clients that cannot send it.
func (h *WSHandler) HandleWebSocket(c *gin.Context) {
	token, err := c.Cookie(middleware.SessionCookieName)
	if err != nil || token == "" {
		token = c.Query("token")
	}
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Sesión requerida"})
		return
	}

	claims, err := h.jwtService.ValidateToken(token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Sesión no válida o caducada"})
		return
	}
	if middleware.SesionCaducada(claims) {
		response.Error(c, http.StatusUnauthorized, "SESSION_EXPIRED", "Sesión caducada por inactividad")
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("websocket upgrade failed: %v", err)
		return
	}

	h.hub.Register(claims.UserID, conn)
	defer func() {
		h.hub.Unregister(claims.UserID)
	}()

	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	})
	go h.pingLoop(conn)

	// Reads only keep the connection alive; sending goes through the
	// REST surface so the audit and read-state rules hold.
	h.readLoop(conn, claims.UserID)
}

func (h *WSHandler) pingLoop(conn *websocket.Conn) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for range ticker.C {
		if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
			return
		}
	}
}

func (h *WSHandler) readLoop(conn *websocket.Conn, userID int64) {
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure) {
				log.Printf("websocket error for user %d: %v", userID, err)
			}
			return
		}
	}
}

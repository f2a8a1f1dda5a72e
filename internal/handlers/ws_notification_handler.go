package handlers

import (
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"github.com/skillswap/skillswap-api/internal/models"
	jwtutil "github.com/skillswap/skillswap-api/pkg/jwt"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// NotificationHub tracks connected clients and pushes notifications to them
// as they are created. It satisfies services.Broadcaster.
type NotificationHub struct {
	mu      sync.Mutex
	clients map[string]*websocket.Conn
}

func NewNotificationHub() *NotificationHub {
	return &NotificationHub{
		clients: make(map[string]*websocket.Conn),
	}
}

// Publish sends a notification to the user's open connection, if any.
// Deliveries are best-effort; the document is already persisted.
func (h *NotificationHub) Publish(userID string, notif *models.Notification) {
	h.mu.Lock()
	defer h.mu.Unlock()

	conn, ok := h.clients[userID]
	if !ok {
		return
	}
	if err := conn.WriteJSON(notif); err != nil {
		logrus.WithError(err).Warnf("Failed to push notification to user %s", userID)
		conn.Close()
		delete(h.clients, userID)
	}
}

func (h *NotificationHub) add(userID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if old, ok := h.clients[userID]; ok {
		old.Close()
	}
	h.clients[userID] = conn
}

func (h *NotificationHub) remove(userID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[userID] == conn {
		delete(h.clients, userID)
	}
}

// WSNotificationHandler upgrades the connection and streams the caller's
// notifications until the client disconnects.
type WSNotificationHandler struct {
	Hub       *NotificationHub
	JWTSecret string
}

func NewWSNotificationHandler(hub *NotificationHub, jwtSecret string) *WSNotificationHandler {
	return &WSNotificationHandler{Hub: hub, JWTSecret: jwtSecret}
}

// StreamHandler handles GET /ws/notifications?token=...
func (h *WSNotificationHandler) StreamHandler(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		http.Error(w, "Missing token", http.StatusUnauthorized)
		return
	}

	claims, err := jwtutil.ValidateToken(token, h.JWTSecret)
	if err != nil {
		logrus.WithError(err).Warn("WebSocket auth failed")
		http.Error(w, "Invalid token", http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logrus.WithError(err).Warn("WebSocket upgrade failed")
		return
	}

	userID := claims.UserID
	h.Hub.add(userID, conn)
	logrus.WithField("userID", userID).Info("Notification stream connected")

	defer func() {
		h.Hub.remove(userID, conn)
		conn.Close()
		logrus.WithField("userID", userID).Info("Notification stream disconnected")
	}()

	// Reads only serve to detect the client going away.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}

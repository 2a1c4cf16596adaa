package handler

import (
	"os"

	"ai-writing-be/internal/pkg/logger"
	"ai-writing-be/internal/pkg/serverutils"
	internalWS "ai-writing-be/internal/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// NotificationHandler upgrades /ws/notifications connections and attaches
// them to the hub under the caller's writing-session uuid.
type NotificationHandler struct {
	hub    *internalWS.Hub
	logger logger.ILogger
}

func NewNotificationHandler(hub *internalWS.Hub, log logger.ILogger) *NotificationHandler {
	return &NotificationHandler{
		hub:    hub,
		logger: log,
	}
}

// ServeWs resolves the session identity and upgrades the connection.
//
// Identity resolution order: JWT (query param or Authorization header, for
// logged-in clients whose session is account-derived), then the session
// cookie, then an explicit session_uuid query param for non-browser tooling.
func (h *NotificationHandler) ServeWs(c *fiber.Ctx) error {
	sessionID, ok := h.resolveSession(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "no session identity"})
	}

	if websocket.IsWebSocketUpgrade(c) {
		return websocket.New(func(conn *websocket.Conn) {
			h.logger.Info("NotificationHandler", "WebSocket session started", map[string]interface{}{"session_uuid": sessionID})
			internalWS.ServeWs(h.hub, conn, sessionID)
			h.logger.Info("NotificationHandler", "WebSocket session ended", map[string]interface{}{"session_uuid": sessionID})
		})(c)
	}
	return fiber.ErrUpgradeRequired
}

func (h *NotificationHandler) resolveSession(c *fiber.Ctx) (uuid.UUID, bool) {
	tokenStr := c.Query("token")
	if tokenStr == "" {
		authHeader := c.Get("Authorization")
		if len(authHeader) > 7 && authHeader[:7] == "Bearer " {
			tokenStr = authHeader[7:]
		}
	}
	if tokenStr != "" {
		if userID, ok := parseUserToken(tokenStr); ok {
			return serverutils.UserSessionUuid(userID), true
		}
		h.logger.Warn("NotificationHandler", "Invalid token in WS handshake", nil)
	}

	if raw := c.Cookies(serverutils.SessionCookieName); raw != "" {
		if id, err := uuid.Parse(raw); err == nil {
			return id, true
		}
	}

	if raw := c.Query("session_uuid"); raw != "" {
		if id, err := uuid.Parse(raw); err == nil {
			return id, true
		}
	}

	return uuid.Nil, false
}

func parseUserToken(tokenStr string) (uuid.UUID, bool) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.ErrUnauthorized
		}
		return []byte(os.Getenv("JWT_SECRET")), nil
	})
	if err != nil || !token.Valid {
		return uuid.Nil, false
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, false
	}
	userIDStr, ok := claims["user_id"].(string)
	if !ok {
		return uuid.Nil, false
	}
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return uuid.Nil, false
	}
	return userID, true
}

// RegisterRoutes mounts the websocket endpoint.
func (h *NotificationHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/ws/notifications", h.ServeWs)
}

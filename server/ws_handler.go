package server

import (
	"context"
	"time"

	"github.com/SaiNageswarS/go-api-boot/logger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/multiflexhq/multiflex/htmlgen"
	"go.uber.org/zap"
)

// eventTimeout bounds the generation work behind a single socket event. A
// hung model call fails the event instead of stalling the session loop.
const eventTimeout = 120 * time.Second

// clientEvent is one message from the frontend over the session socket.
// chat_message carries a prompt or follow-up; interaction carries a UI
// event against the current document.
type clientEvent struct {
	Type        string `json:"type"`
	Message     string `json:"message,omitempty"`
	SessionID   string `json:"session_id,omitempty"`
	UserID      string `json:"user_id,omitempty"`
	Action      string `json:"action,omitempty"`
	ElementID   string `json:"element_id,omitempty"`
	ElementType string `json:"element_type,omitempty"`
	Value       string `json:"value,omitempty"`
}

type serverEvent struct {
	Type        string `json:"type"`
	HTMLContent string `json:"html_content,omitempty"`
	SessionID   string `json:"session_id,omitempty"`
	Message     string `json:"message,omitempty"`
}

// SessionHandler serves the iterative HTML generation socket. Each
// connection reads events in order; one regeneration runs at a time, so a
// burst of events yields one update per event, in order.
type SessionHandler struct {
	controller *htmlgen.Controller
}

// Upgrade gates the route to websocket upgrade requests.
func (h *SessionHandler) Upgrade(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

func (h *SessionHandler) Serve() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		h.serveConn(conn)
	})
}

func (h *SessionHandler) serveConn(conn *websocket.Conn) {
	// Sessions opened on this connection are closed with it.
	opened := make(map[string]bool)
	defer func() {
		for id := range opened {
			h.controller.Close(id)
		}
	}()

	for {
		var event clientEvent
		if err := conn.ReadJSON(&event); err != nil {
			logger.Info("Session socket closed", zap.Error(err))
			return
		}

		reply := h.dispatch(event, opened)
		if err := conn.WriteJSON(reply); err != nil {
			logger.Error("Failed to write session event", zap.Error(err))
			return
		}
	}
}

// dispatch runs one event under its own deadline.
func (h *SessionHandler) dispatch(event clientEvent, opened map[string]bool) serverEvent {
	ctx, cancel := context.WithTimeout(context.Background(), eventTimeout)
	defer cancel()

	switch event.Type {
	case "chat_message":
		return h.handleChat(ctx, event, opened)
	case "interaction":
		return h.handleInteraction(ctx, event)
	default:
		return serverEvent{Type: "error", Message: "unknown event type: " + event.Type}
	}
}

// handleChat starts a session on the first message and treats later ones as
// follow-ups against the session's document.
func (h *SessionHandler) handleChat(ctx context.Context, event clientEvent, opened map[string]bool) serverEvent {
	if event.SessionID == "" {
		userID := event.UserID
		if userID == "" {
			userID = "anonymous"
		}

		sess, err := h.controller.Start(ctx, userID, event.Message)
		if err != nil {
			logger.Error("Failed to start session", zap.Error(err))
			return serverEvent{Type: "error", Message: err.Error()}
		}

		opened[sess.ID] = true
		return serverEvent{Type: "html_update", HTMLContent: sess.HTML, SessionID: sess.ID}
	}

	sess, ok := h.controller.Get(event.SessionID)
	if !ok {
		return serverEvent{Type: "error", Message: "session not found: " + event.SessionID}
	}

	html := h.controller.HandleMessage(ctx, sess, event.Message)
	return serverEvent{Type: "html_update", HTMLContent: html, SessionID: sess.ID}
}

func (h *SessionHandler) handleInteraction(ctx context.Context, event clientEvent) serverEvent {
	if event.SessionID == "" {
		return serverEvent{Type: "error", Message: "interaction requires a session_id"}
	}

	sess, ok := h.controller.Get(event.SessionID)
	if !ok {
		return serverEvent{Type: "error", Message: "session not found: " + event.SessionID}
	}

	html := h.controller.HandleInteraction(ctx, sess, htmlgen.Interaction{
		Action:      event.Action,
		ElementID:   event.ElementID,
		ElementType: event.ElementType,
		Value:       event.Value,
	})
	return serverEvent{Type: "html_update", HTMLContent: html, SessionID: sess.ID}
}

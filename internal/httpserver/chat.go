package httpserver

import (
	"net/http"

	"github.com/Skotchmaster/storefront/internal/chat"
	"github.com/Skotchmaster/storefront/internal/events"
	"github.com/Skotchmaster/storefront/internal/logging"
	"github.com/Skotchmaster/storefront/internal/session"
	"github.com/labstack/echo/v4"
)

type ChatHTTP struct {
	Sessions *session.Manager
	Events   *events.Producer
}

func (h *ChatHTTP) snapshot(c echo.Context, sess *session.Session) error {
	state, messages := sess.Chat.Snapshot()
	return c.JSON(http.StatusOK, map[string]any{
		"state":    state.String(),
		"messages": messages,
		"photo":    sess.PhotoURL(),
	})
}

// GetChat returns the session's chat state, loading the stored history
// on first sight (the mount transition).
func (h *ChatHTTP) GetChat(c echo.Context) error {
	sess := sessionFrom(c)

	if state, _ := sess.Chat.Snapshot(); state == chat.StateIdle {
		sess.Chat.LoadHistory(c.Request().Context())
	}
	return h.snapshot(c, sess)
}

// Reload re-fetches the stored history, the reload button of the chat
// screen.
func (h *ChatHTTP) Reload(c echo.Context) error {
	sess := sessionFrom(c)
	sess.Chat.LoadHistory(c.Request().Context())
	return h.snapshot(c, sess)
}

func (h *ChatHTTP) PostChat(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "chat.send")
	sess := sessionFrom(c)

	var req struct {
		Prompt string `json:"prompt"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("chat_send_error", "status", 400, "error", err)
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid body"})
	}

	if err := sess.Chat.Send(ctx, req.Prompt); err != nil {
		l.Warn("chat_send_error", "error", err)
		return respondError(c, h.Sessions, sess, err)
	}

	if err := h.Events.Publish(ctx, events.TopicChat, sess.UserID, map[string]any{
		"event":  "chat_prompt",
		"prompt": req.Prompt,
	}); err != nil {
		l.Warn("event_publish_failed", "topic", events.TopicChat, "error", err)
	}

	return h.snapshot(c, sess)
}

func (h *ChatHTTP) DeleteChat(c echo.Context) error {
	sess := sessionFrom(c)
	sess.Chat.Clear(c.Request().Context())
	return h.snapshot(c, sess)
}

func (h *ChatHTTP) Transcript(c echo.Context) error {
	sess := sessionFrom(c)
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="chat-history.txt"`)
	return c.String(http.StatusOK, sess.Chat.Transcript())
}

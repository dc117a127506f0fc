package chat

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/Skotchmaster/storefront/internal/backend"
	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/notify"
)

type State int

const (
	StateIdle State = iota
	StateAwaitingHistory
	StateReady
	StateSending
	StateTyping
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAwaitingHistory:
		return "awaiting_history"
	case StateReady:
		return "ready"
	case StateSending:
		return "sending"
	case StateTyping:
		return "typing"
	}
	return "unknown"
}

var (
	ErrEmptyPrompt = errors.New("empty prompt")
	// ErrBusy means a request is already outstanding; submissions while
	// sending or typing are rejected, never queued.
	ErrBusy = errors.New("request already outstanding")
)

const (
	welcomeText = "Добро пожаловать! Я ваш персональный консультант по покупкам. Чем могу помочь сегодня?"
	clearedText = "Чат очищен. Чем я могу вам помочь сегодня?"
	errorText   = "Извините, произошла ошибка при обработке вашего запроса. Пожалуйста, попробуйте позже."

	noticeHistoryLoaded  = "История чата загружена"
	noticeHistoryFailed  = "Не удалось загрузить историю чата"
	noticeAnswerFailed   = "Не удалось получить ответ от ИИ"
	noticeHistoryCleared = "История чата очищена"
)

type Responder interface {
	SendChat(ctx context.Context, token, email, prompt string) (string, error)
	ChatHistory(ctx context.Context, token string) ([]models.ChatMessage, error)
	ClearChat(ctx context.Context, token string) error
}

type ProductSource interface {
	Products() []models.Product
}

// Controller owns one chat session: an append-only message history and
// at most one outstanding request. All transitions happen under its lock.
type Controller struct {
	mu       sync.Mutex
	state    State
	messages []models.ChatMessage

	token string
	email string

	backend Responder
	catalog ProductSource
	notices *notify.Center

	delay func(replyLen int) time.Duration
	now   func() time.Time
}

func NewController(b Responder, catalog ProductSource, notices *notify.Center, token, email string) *Controller {
	return &Controller{
		state:   StateIdle,
		token:   token,
		email:   email,
		backend: b,
		catalog: catalog,
		notices: notices,
		delay:   typingDelay,
		now:     time.Now,
	}
}

// typingDelay simulates incremental generation before a reply is shown.
func typingDelay(replyLen int) time.Duration {
	return time.Second + time.Duration(replyLen)*5*time.Millisecond
}

func (c *Controller) assistant(text string) models.ChatMessage {
	return models.ChatMessage{Role: models.RoleAssistant, Text: text, Timestamp: c.now()}
}

// LoadHistory fetches prior messages. Failure is non-fatal: the session
// degrades to a default greeting plus a transient notification.
func (c *Controller) LoadHistory(ctx context.Context) {
	c.mu.Lock()
	if c.state == StateSending || c.state == StateTyping {
		c.mu.Unlock()
		return
	}
	c.state = StateAwaitingHistory
	c.mu.Unlock()

	msgs, err := c.backend.ChatHistory(ctx, c.token)

	c.mu.Lock()
	defer c.mu.Unlock()
	switch {
	case err != nil:
		c.messages = []models.ChatMessage{c.assistant(welcomeText)}
		c.notices.Push(noticeHistoryFailed)
	case len(msgs) == 0:
		c.messages = []models.ChatMessage{c.assistant(welcomeText)}
	default:
		c.messages = msgs
		c.notices.Push(noticeHistoryLoaded)
	}
	c.state = StateReady
}

// Send submits a prompt. While a request is outstanding further
// submissions return ErrBusy. Backend failures are converted into a
// synthetic assistant error message and never escape; the only error
// that propagates besides ErrBusy/ErrEmptyPrompt is an authentication
// failure, which the session layer handles globally.
func (c *Controller) Send(ctx context.Context, prompt string) error {
	if strings.TrimSpace(prompt) == "" {
		return ErrEmptyPrompt
	}

	c.mu.Lock()
	if c.state == StateSending || c.state == StateTyping {
		c.mu.Unlock()
		return ErrBusy
	}
	c.messages = append(c.messages, models.ChatMessage{Role: models.RoleUser, Text: prompt, Timestamp: c.now()})
	c.state = StateSending
	c.mu.Unlock()

	attached := Attachments(prompt, c.catalog.Products())

	answer, err := c.backend.SendChat(ctx, c.token, c.email, prompt)
	if errors.Is(err, backend.ErrUnauthorized) {
		c.mu.Lock()
		c.state = StateReady
		c.mu.Unlock()
		return err
	}
	if err != nil {
		c.mu.Lock()
		msg := c.assistant(errorText)
		msg.IsError = true
		c.messages = append(c.messages, msg)
		c.state = StateReady
		c.mu.Unlock()
		c.notices.Push(noticeAnswerFailed)
		return nil
	}

	c.mu.Lock()
	c.state = StateTyping
	c.mu.Unlock()

	t := time.NewTimer(c.delay(len([]rune(answer))))
	defer t.Stop()
	select {
	case <-ctx.Done():
		// abandoned mid-reveal; the reply is discarded
		c.mu.Lock()
		c.state = StateReady
		c.mu.Unlock()
		return ctx.Err()
	case <-t.C:
	}

	c.mu.Lock()
	reply := c.assistant(answer)
	reply.Products = attached
	c.messages = append(c.messages, reply)
	c.state = StateReady
	c.mu.Unlock()
	return nil
}

// Clear resets the visible history and asks the backend to drop the
// stored one. The backend call is best-effort.
func (c *Controller) Clear(ctx context.Context) {
	c.mu.Lock()
	if c.state == StateSending || c.state == StateTyping {
		c.mu.Unlock()
		return
	}
	c.messages = []models.ChatMessage{c.assistant(clearedText)}
	c.state = StateReady
	c.mu.Unlock()

	_ = c.backend.ClearChat(ctx, c.token)
	c.notices.Push(noticeHistoryCleared)
}

func (c *Controller) Snapshot() (State, []models.ChatMessage) {
	c.mu.Lock()
	defer c.mu.Unlock()
	msgs := make([]models.ChatMessage, len(c.messages))
	copy(msgs, c.messages)
	return c.state, msgs
}

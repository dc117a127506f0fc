package chat

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/Skotchmaster/storefront/internal/backend"
	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/notify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeResponder struct {
	mu         sync.Mutex
	answer     string
	sendErr    error
	history    []models.ChatMessage
	historyErr error
	cleared    int

	// when set, SendChat blocks until the channel closes
	gate chan struct{}
}

func (f *fakeResponder) SendChat(_ context.Context, _, _, _ string) (string, error) {
	if f.gate != nil {
		<-f.gate
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.answer, f.sendErr
}

func (f *fakeResponder) ChatHistory(_ context.Context, _ string) ([]models.ChatMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.history, f.historyErr
}

func (f *fakeResponder) ClearChat(_ context.Context, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cleared++
	return nil
}

type fakeCatalog struct{ products []models.Product }

func (f fakeCatalog) Products() []models.Product { return f.products }

func newTestController(r Responder, products []models.Product) (*Controller, *notify.Center) {
	notices := notify.NewCenter()
	c := NewController(r, fakeCatalog{products: products}, notices, "tok", "user@example.com")
	c.delay = func(int) time.Duration { return 0 }
	return c, notices
}

func TestController_LoadHistoryEmpty(t *testing.T) {
	t.Parallel()

	c, notices := newTestController(&fakeResponder{}, nil)
	c.LoadHistory(context.Background())

	state, msgs := c.Snapshot()
	assert.Equal(t, StateReady, state)
	require.Len(t, msgs, 1)
	assert.Equal(t, models.RoleAssistant, msgs[0].Role)
	assert.Equal(t, welcomeText, msgs[0].Text)
	assert.Empty(t, notices.Active())
}

func TestController_LoadHistoryRestores(t *testing.T) {
	t.Parallel()

	prior := []models.ChatMessage{
		{Role: models.RoleUser, Text: "привет"},
		{Role: models.RoleAssistant, Text: "здравствуйте"},
	}
	c, notices := newTestController(&fakeResponder{history: prior}, nil)
	c.LoadHistory(context.Background())

	state, msgs := c.Snapshot()
	assert.Equal(t, StateReady, state)
	assert.Equal(t, prior, msgs)
	require.Len(t, notices.Active(), 1)
	assert.Equal(t, noticeHistoryLoaded, notices.Active()[0].Text)
}

func TestController_LoadHistoryFailureDegrades(t *testing.T) {
	t.Parallel()

	c, notices := newTestController(&fakeResponder{historyErr: backend.ErrUnavailable}, nil)
	c.LoadHistory(context.Background())

	state, msgs := c.Snapshot()
	assert.Equal(t, StateReady, state)
	require.Len(t, msgs, 1)
	assert.Equal(t, welcomeText, msgs[0].Text)
	require.Len(t, notices.Active(), 1)
	assert.Equal(t, noticeHistoryFailed, notices.Active()[0].Text)
}

func TestController_SendAppendsReply(t *testing.T) {
	t.Parallel()

	products := []models.Product{{ID: 1, Name: "iPhone 14", Description: "Смартфон Apple"}}
	c, _ := newTestController(&fakeResponder{answer: "Рекомендую iPhone 14."}, products)
	c.LoadHistory(context.Background())

	require.NoError(t, c.Send(context.Background(), "посоветуй смартфон"))

	state, msgs := c.Snapshot()
	assert.Equal(t, StateReady, state)
	require.Len(t, msgs, 3)
	assert.Equal(t, models.RoleUser, msgs[1].Role)
	assert.Equal(t, "посоветуй смартфон", msgs[1].Text)
	assert.Equal(t, models.RoleAssistant, msgs[2].Role)
	assert.Equal(t, "Рекомендую iPhone 14.", msgs[2].Text)
	require.Len(t, msgs[2].Products, 1)
	assert.Equal(t, "iPhone 14", msgs[2].Products[0].Name)
	assert.False(t, msgs[2].IsError)
}

func TestController_SendEmptyPrompt(t *testing.T) {
	t.Parallel()

	c, _ := newTestController(&fakeResponder{}, nil)
	err := c.Send(context.Background(), "   \n ")
	require.ErrorIs(t, err, ErrEmptyPrompt)

	_, msgs := c.Snapshot()
	assert.Empty(t, msgs)
}

func TestController_SendWhileOutstanding(t *testing.T) {
	t.Parallel()

	r := &fakeResponder{answer: "ок", gate: make(chan struct{})}
	c, _ := newTestController(r, nil)
	c.LoadHistory(context.Background())

	done := make(chan error, 1)
	go func() { done <- c.Send(context.Background(), "первый вопрос") }()

	require.Eventually(t, func() bool {
		state, _ := c.Snapshot()
		return state == StateSending
	}, time.Second, time.Millisecond)

	err := c.Send(context.Background(), "второй вопрос")
	require.ErrorIs(t, err, ErrBusy)

	close(r.gate)
	require.NoError(t, <-done)

	_, msgs := c.Snapshot()
	// the rejected prompt left no trace
	require.Len(t, msgs, 3)
	assert.Equal(t, "первый вопрос", msgs[1].Text)
}

func TestController_SendErrorBecomesMessage(t *testing.T) {
	t.Parallel()

	c, notices := newTestController(&fakeResponder{sendErr: backend.ErrUnavailable}, nil)
	c.LoadHistory(context.Background())

	require.NoError(t, c.Send(context.Background(), "вопрос"))

	state, msgs := c.Snapshot()
	assert.Equal(t, StateReady, state)
	require.Len(t, msgs, 3)
	last := msgs[2]
	assert.Equal(t, models.RoleAssistant, last.Role)
	assert.Equal(t, errorText, last.Text)
	assert.True(t, last.IsError)
	require.Len(t, notices.Active(), 1)
	assert.Equal(t, noticeAnswerFailed, notices.Active()[0].Text)
}

func TestController_SendUnauthorizedPropagates(t *testing.T) {
	t.Parallel()

	c, _ := newTestController(&fakeResponder{sendErr: backend.ErrUnauthorized}, nil)
	c.LoadHistory(context.Background())

	err := c.Send(context.Background(), "вопрос")
	require.ErrorIs(t, err, backend.ErrUnauthorized)

	state, msgs := c.Snapshot()
	assert.Equal(t, StateReady, state)
	// no synthetic error message for auth failures
	require.Len(t, msgs, 2)
}

func TestController_SendCancelledDuringTyping(t *testing.T) {
	t.Parallel()

	c, _ := newTestController(&fakeResponder{answer: "длинный ответ"}, nil)
	c.delay = func(int) time.Duration { return time.Minute }
	c.LoadHistory(context.Background())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Send(ctx, "вопрос") }()

	require.Eventually(t, func() bool {
		state, _ := c.Snapshot()
		return state == StateTyping
	}, time.Second, time.Millisecond)

	cancel()
	err := <-done
	require.ErrorIs(t, err, context.Canceled)

	state, msgs := c.Snapshot()
	assert.Equal(t, StateReady, state)
	// the reply never lands
	require.Len(t, msgs, 2)
	assert.Equal(t, models.RoleUser, msgs[1].Role)
}

func TestController_Clear(t *testing.T) {
	t.Parallel()

	r := &fakeResponder{answer: "ок"}
	c, notices := newTestController(r, nil)
	c.LoadHistory(context.Background())
	require.NoError(t, c.Send(context.Background(), "вопрос"))

	c.Clear(context.Background())

	state, msgs := c.Snapshot()
	assert.Equal(t, StateReady, state)
	require.Len(t, msgs, 1)
	assert.Equal(t, clearedText, msgs[0].Text)
	assert.Equal(t, 1, r.cleared)

	texts := make([]string, 0, 1)
	for _, n := range notices.Active() {
		texts = append(texts, n.Text)
	}
	assert.Contains(t, texts, noticeHistoryCleared)
}

func TestTypingDelay(t *testing.T) {
	t.Parallel()

	assert.Equal(t, time.Second, typingDelay(0))
	assert.Equal(t, time.Second+50*time.Millisecond, typingDelay(10))
}

func TestController_SendBeforeHistory(t *testing.T) {
	t.Parallel()

	// sending from an idle session is allowed; history can load later
	c, _ := newTestController(&fakeResponder{answer: "ок"}, nil)
	require.NoError(t, c.Send(context.Background(), "вопрос"))

	_, msgs := c.Snapshot()
	require.Len(t, msgs, 2)
}

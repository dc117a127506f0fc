package session

import (
	"context"
	"testing"
	"time"

	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-secret")

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(testSecret)
	require.NoError(t, err)
	return token
}

type stubResponder struct{}

func (stubResponder) SendChat(context.Context, string, string, string) (string, error) {
	return "", nil
}
func (stubResponder) ChatHistory(context.Context, string) ([]models.ChatMessage, error) {
	return nil, nil
}
func (stubResponder) ClearChat(context.Context, string) error { return nil }

type stubCatalog struct{}

func (stubCatalog) Products() []models.Product { return nil }

func newTestManager() *Manager {
	return NewManager(stubResponder{}, stubCatalog{})
}

func TestManager_ResolveCreatesSession(t *testing.T) {
	t.Parallel()

	m := newTestManager()
	token := signToken(t, jwt.MapClaims{
		"user_id": float64(42),
		"email":   "user@example.com",
		"exp":     time.Now().Add(time.Hour).Unix(),
	})

	s, err := m.Resolve(token)
	require.NoError(t, err)
	assert.Equal(t, "42", s.UserID)
	assert.Equal(t, "user@example.com", s.Email)
	require.NotNil(t, s.Notices)
	require.NotNil(t, s.Chat)
}

func TestManager_ResolveReturnsSameSession(t *testing.T) {
	t.Parallel()

	m := newTestManager()
	token := signToken(t, jwt.MapClaims{"sub": "7", "exp": time.Now().Add(time.Hour).Unix()})

	a, err := m.Resolve(token)
	require.NoError(t, err)
	b, err := m.Resolve(token)
	require.NoError(t, err)
	assert.Same(t, a, b)
}

func TestManager_ResolveSubjectClaim(t *testing.T) {
	t.Parallel()

	m := newTestManager()
	token := signToken(t, jwt.MapClaims{"sub": "user-7"})

	s, err := m.Resolve(token)
	require.NoError(t, err)
	assert.Equal(t, "user-7", s.UserID)
}

func TestManager_ResolveRejectsBadTokens(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		token string
	}{
		{name: "empty", token: ""},
		{name: "garbage", token: "not-a-jwt"},
	}

	m := newTestManager()
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := m.Resolve(tt.token)
			require.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestManager_ResolveRejectsExpired(t *testing.T) {
	t.Parallel()

	m := newTestManager()
	token := signToken(t, jwt.MapClaims{"sub": "7", "exp": time.Now().Add(-time.Hour).Unix()})

	_, err := m.Resolve(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestManager_ResolveRejectsMissingSubject(t *testing.T) {
	t.Parallel()

	m := newTestManager()
	token := signToken(t, jwt.MapClaims{"email": "user@example.com"})

	_, err := m.Resolve(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestManager_Invalidate(t *testing.T) {
	t.Parallel()

	m := newTestManager()
	token := signToken(t, jwt.MapClaims{"sub": "7", "exp": time.Now().Add(time.Hour).Unix()})

	a, err := m.Resolve(token)
	require.NoError(t, err)
	a.SetCoupon("SALE20", decimal.NewFromInt(2000))

	m.Invalidate(token)

	b, err := m.Resolve(token)
	require.NoError(t, err)
	assert.NotSame(t, a, b)
	assert.Nil(t, b.Coupon(), "a fresh session carries no state")
}

package session

import (
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/Skotchmaster/storefront/internal/chat"
	"github.com/Skotchmaster/storefront/internal/notify"
	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

// Manager keeps one Session per bearer token. Tokens are issued and
// verified by the remote backend; claims are only read here (subject,
// email, expiry) to key and label the session.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session

	backend chat.Responder
	catalog chat.ProductSource
	now     func() time.Time
}

func NewManager(b chat.Responder, catalog chat.ProductSource) *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
		backend:  b,
		catalog:  catalog,
		now:      time.Now,
	}
}

// Resolve returns the session for a token, creating it on first sight.
// Expired or malformed tokens fail with ErrInvalidToken.
func (m *Manager) Resolve(token string) (*Session, error) {
	if token == "" {
		return nil, fmt.Errorf("empty bearer token: %w", ErrInvalidToken)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.sessions[token]; ok {
		return s, nil
	}

	userID, email, err := m.claimsFrom(token)
	if err != nil {
		return nil, err
	}

	notices := notify.NewCenter()
	s := &Session{
		Token:     token,
		UserID:    userID,
		Email:     email,
		CreatedAt: m.now(),
		Notices:   notices,
		Chat:      chat.NewController(m.backend, m.catalog, notices, token, email),
	}
	m.sessions[token] = s
	return s, nil
}

// Invalidate tears a session down; the cross-cutting reaction to any
// backend 401 and to explicit logout.
func (m *Manager) Invalidate(token string) {
	m.mu.Lock()
	delete(m.sessions, token)
	m.mu.Unlock()
}

func (m *Manager) claimsFrom(token string) (userID, email string, err error) {
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return "", "", fmt.Errorf("parse bearer token: %v: %w", err, ErrInvalidToken)
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return "", "", fmt.Errorf("unexpected claims type: %w", ErrInvalidToken)
	}

	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil && exp.Before(m.now()) {
		return "", "", fmt.Errorf("token expired: %w", ErrInvalidToken)
	}

	userID, _ = claims.GetSubject()
	if userID == "" {
		switch v := claims["user_id"].(type) {
		case float64:
			userID = strconv.FormatInt(int64(v), 10)
		case string:
			userID = v
		}
	}
	if userID == "" {
		return "", "", fmt.Errorf("token has no subject: %w", ErrInvalidToken)
	}

	email, _ = claims["email"].(string)
	return userID, email, nil
}

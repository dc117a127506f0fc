package httpserver

import (
	"net/http"

	"github.com/Skotchmaster/storefront/internal/backend"
	"github.com/Skotchmaster/storefront/internal/logging"
	"github.com/Skotchmaster/storefront/internal/session"
	"github.com/labstack/echo/v4"
)

type AuthHTTP struct {
	Backend  *backend.Client
	Sessions *session.Manager
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.login")

	var creds backend.Credentials
	if err := c.Bind(&creds); err != nil {
		l.Warn("login_error", "status", 400, "error", err)
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid body"})
	}

	pair, err := h.Backend.Login(ctx, creds)
	if err != nil {
		l.Warn("login_error", "error", err)
		return respondError(c, h.Sessions, nil, err)
	}

	sess, err := h.Sessions.Resolve(pair.Access)
	if err != nil {
		l.Error("login_error", "status", 502, "error", err)
		return c.JSON(http.StatusBadGateway, map[string]string{"error": "backend issued unusable token"})
	}

	l.Info("login successful", "user_id", sess.UserID)
	return c.JSON(http.StatusOK, map[string]any{
		"access":  pair.Access,
		"refresh": pair.Refresh,
		"email":   sess.Email,
	})
}

func (h *AuthHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.register")

	var creds backend.Credentials
	if err := c.Bind(&creds); err != nil {
		l.Warn("register_error", "status", 400, "error", err)
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid body"})
	}

	if err := h.Backend.Register(ctx, creds); err != nil {
		l.Warn("register_error", "error", err)
		return respondError(c, h.Sessions, nil, err)
	}

	l.Info("registration successful")
	return c.NoContent(http.StatusCreated)
}

func (h *AuthHTTP) Logout(c echo.Context) error {
	sess := sessionFrom(c)
	h.Sessions.Invalidate(sess.Token)
	return c.JSON(http.StatusOK, map[string]string{"redirect": "/login"})
}

package httpserver

import (
	"errors"
	"net/http"

	"github.com/Skotchmaster/storefront/internal/backend"
	"github.com/Skotchmaster/storefront/internal/cart"
	"github.com/Skotchmaster/storefront/internal/chat"
	"github.com/Skotchmaster/storefront/internal/logging"
	"github.com/Skotchmaster/storefront/internal/session"
	"github.com/labstack/echo/v4"
)

const noticeBackendDown = "Сервис временно недоступен. Попробуйте позже."

// respondError is the single place backend and domain errors become HTTP
// responses. A 401 anywhere tears the session down and sends the UI to
// the login surface; everything else stays non-fatal.
func respondError(c echo.Context, sessions *session.Manager, sess *session.Session, err error) error {
	l := logging.FromContext(c.Request().Context())

	var ve *backend.ValidationError

	switch {
	case errors.Is(err, backend.ErrUnauthorized):
		if sess != nil {
			sessions.Invalidate(sess.Token)
		}
		l.Warn("session_invalidated", "status", 401, "error", err)
		return c.JSON(http.StatusUnauthorized, map[string]string{
			"error":    "unauthorized",
			"redirect": "/login",
		})

	case errors.As(err, &ve):
		payload := map[string]string{"error": ve.Error()}
		if ve.CouponError != "" {
			payload["coupon_error"] = ve.CouponError
		}
		return c.JSON(http.StatusBadRequest, payload)

	case errors.Is(err, cart.ErrEmptyCode),
		errors.Is(err, cart.ErrEmptyCart),
		errors.Is(err, cart.ErrValidation),
		errors.Is(err, chat.ErrEmptyPrompt):
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})

	case errors.Is(err, cart.ErrNotFound):
		return c.JSON(http.StatusNotFound, map[string]string{"error": err.Error()})

	case errors.Is(err, cart.ErrCouponBusy), errors.Is(err, chat.ErrBusy):
		return c.JSON(http.StatusConflict, map[string]string{"error": err.Error()})

	case errors.Is(err, backend.ErrUnavailable), errors.Is(err, backend.ErrBadResponse):
		if sess != nil {
			sess.Notices.Push(noticeBackendDown)
		}
		l.Error("backend_error", "status", 502, "error", err)
		return c.JSON(http.StatusBadGateway, map[string]string{"error": "backend unavailable"})
	}

	l.Error("internal_error", "status", 500, "error", err)
	return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal error"})
}

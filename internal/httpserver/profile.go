package httpserver

import (
	"net/http"

	"github.com/Skotchmaster/storefront/internal/backend"
	"github.com/Skotchmaster/storefront/internal/logging"
	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/session"
	"github.com/labstack/echo/v4"
)

type ProfileHTTP struct {
	Backend  *backend.Client
	Sessions *session.Manager
}

func (h *ProfileHTTP) GetProfile(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "profile.get")
	sess := sessionFrom(c)

	profile, err := h.Backend.Profile(ctx, sess.Token)
	if err != nil {
		l.Warn("get_profile_error", "error", err)
		return respondError(c, h.Sessions, sess, err)
	}

	// the chat screen reuses the avatar; keep it on the session instead
	// of a cross-component global
	sess.SetPhotoURL(profile.Photo)
	return c.JSON(http.StatusOK, profile)
}

func (h *ProfileHTTP) UpdateProfile(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "profile.update")
	sess := sessionFrom(c)

	var profile models.Profile
	if err := c.Bind(&profile); err != nil {
		l.Warn("update_profile_error", "status", 400, "error", err)
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid body"})
	}

	if err := h.Backend.UpdateProfile(ctx, sess.Token, profile); err != nil {
		l.Warn("update_profile_error", "error", err)
		return respondError(c, h.Sessions, sess, err)
	}
	return c.NoContent(http.StatusOK)
}

// UploadPhoto forwards the avatar file to the backend and keeps the
// returned URL on the session for the chat screen.
func (h *ProfileHTTP) UploadPhoto(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "profile.photo.upload")
	sess := sessionFrom(c)

	file, err := c.FormFile("photo")
	if err != nil {
		l.Warn("upload_photo_error", "status", 400, "error", err)
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "photo file required"})
	}
	src, err := file.Open()
	if err != nil {
		l.Warn("upload_photo_error", "status", 400, "error", err)
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "unreadable photo file"})
	}
	defer src.Close()

	url, err := h.Backend.UploadPhoto(ctx, sess.Token, file.Filename, src)
	if err != nil {
		l.Warn("upload_photo_error", "error", err)
		return respondError(c, h.Sessions, sess, err)
	}

	sess.SetPhotoURL(url)
	l.Info("profile photo updated")
	return c.JSON(http.StatusOK, map[string]string{"photo": url})
}

func (h *ProfileHTTP) DeletePhoto(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "profile.photo.delete")
	sess := sessionFrom(c)

	if err := h.Backend.DeletePhoto(ctx, sess.Token); err != nil {
		l.Warn("delete_photo_error", "error", err)
		return respondError(c, h.Sessions, sess, err)
	}

	sess.SetPhotoURL("")
	l.Info("profile photo deleted")
	return c.NoContent(http.StatusNoContent)
}

func (h *ProfileHTTP) UserCoupon(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "profile.coupon")
	sess := sessionFrom(c)

	coupon, err := h.Backend.UserCoupon(ctx, sess.Token)
	if err != nil {
		l.Warn("user_coupon_error", "error", err)
		return respondError(c, h.Sessions, sess, err)
	}
	return c.JSON(http.StatusOK, coupon)
}

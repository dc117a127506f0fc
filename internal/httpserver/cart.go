package httpserver

import (
	"net/http"
	"strconv"

	"github.com/Skotchmaster/storefront/internal/backend"
	"github.com/Skotchmaster/storefront/internal/cart"
	"github.com/Skotchmaster/storefront/internal/catalog"
	"github.com/Skotchmaster/storefront/internal/logging"
	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/session"
	"github.com/labstack/echo/v4"
)

type CartHTTP struct {
	Svc      *cart.Service
	Catalog  *catalog.Cache
	Sessions *session.Manager
}

type cartView struct {
	Lines   []models.CartLine   `json:"lines"`
	Totals  cart.Totals         `json:"totals"`
	Display cart.DisplayTotals  `json:"display"`
	Coupon  *models.CouponState `json:"coupon,omitempty"`
}

func (h *CartHTTP) view(c echo.Context, sess *session.Session) (cartView, error) {
	lines, totals, err := h.Svc.View(c.Request().Context(), sess)
	if err != nil {
		return cartView{}, err
	}
	return cartView{
		Lines:   lines,
		Totals:  totals,
		Display: totals.Display(),
		Coupon:  sess.Coupon(),
	}, nil
}

func (h *CartHTTP) GetCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.get")
	sess := sessionFrom(c)

	v, err := h.view(c, sess)
	if err != nil {
		l.Error("get_cart_error", "status", 500, "error", err)
		return respondError(c, h.Sessions, sess, err)
	}
	return c.JSON(http.StatusOK, v)
}

func (h *CartHTTP) AddToCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.add")
	sess := sessionFrom(c)

	var req struct {
		ProductID int  `json:"product_id"`
		Quantity  uint `json:"quantity"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("add_to_cart_error", "status", 400, "error", err)
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid body"})
	}
	if req.ProductID == 0 {
		l.Warn("add_to_cart_error", "status", 400)
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "product_id required"})
	}

	if err := h.Catalog.Ensure(ctx); err != nil {
		l.Error("add_to_cart_error", "error", err)
		return respondError(c, h.Sessions, sess, err)
	}
	product, ok := h.Catalog.Product(req.ProductID)
	if !ok {
		l.Warn("add_to_cart_error", "status", 404, "product_id", req.ProductID)
		return c.JSON(http.StatusNotFound, map[string]string{"error": "product not found"})
	}

	line := models.CartLine{
		ProductID: product.ID,
		Name:      product.Name,
		UnitPrice: product.Price,
		Quantity:  req.Quantity,
		ImageLink: product.ImageLink,
	}
	if err := h.Svc.Add(ctx, sess, &line); err != nil {
		l.Error("add_to_cart_error", "error", err)
		return respondError(c, h.Sessions, sess, err)
	}

	l.Info("item added to cart", "product_id", product.ID, "quantity", line.Quantity)
	return c.JSON(http.StatusCreated, line)
}

func (h *CartHTTP) Decrement(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.decrement")
	sess := sessionFrom(c)

	var req struct {
		ProductID int `json:"product_id"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("decrement_error", "status", 400, "error", err)
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid body"})
	}

	removed, line, err := h.Svc.Decrement(ctx, sess, req.ProductID)
	if err != nil {
		l.Warn("decrement_error", "error", err)
		return respondError(c, h.Sessions, sess, err)
	}

	if removed {
		return c.JSON(http.StatusOK, map[string]any{"product_id": req.ProductID, "removed": true})
	}
	return c.JSON(http.StatusOK, line)
}

func (h *CartHTTP) Remove(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.remove")
	sess := sessionFrom(c)

	productID, err := strconv.Atoi(c.Param("productID"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid product id"})
	}

	if err := h.Svc.Remove(ctx, sess, productID); err != nil {
		l.Error("remove_error", "error", err)
		return respondError(c, h.Sessions, sess, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *CartHTTP) Clear(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.clear")
	sess := sessionFrom(c)

	if err := h.Svc.Clear(ctx, sess); err != nil {
		l.Error("clear_cart_error", "error", err)
		return respondError(c, h.Sessions, sess, err)
	}

	l.Info("cart cleared")
	return c.NoContent(http.StatusNoContent)
}

func (h *CartHTTP) ApplyCoupon(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.coupon.apply")
	sess := sessionFrom(c)

	var req struct {
		Code string `json:"code"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("apply_coupon_error", "status", 400, "error", err)
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid body"})
	}

	totals, err := h.Svc.ApplyCoupon(ctx, sess, req.Code)
	if err != nil {
		l.Warn("apply_coupon_error", "error", err)
		return respondError(c, h.Sessions, sess, err)
	}

	l.Info("coupon applied", "code", req.Code)
	return c.JSON(http.StatusOK, map[string]any{
		"coupon":  sess.Coupon(),
		"totals":  totals,
		"display": totals.Display(),
	})
}

// ClearCoupon mirrors editing the code field after an application: the
// discount drops back to zero.
func (h *CartHTTP) ClearCoupon(c echo.Context) error {
	sess := sessionFrom(c)
	h.Svc.ClearCoupon(sess)
	return c.NoContent(http.StatusNoContent)
}

func (h *CartHTTP) CreateOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.order")
	sess := sessionFrom(c)

	if err := h.Svc.CreateOrder(ctx, sess); err != nil {
		l.Warn("create_order_error", "error", err)
		return respondError(c, h.Sessions, sess, err)
	}

	l.Info("order created")
	sess.Notices.Push("Заказ успешно создан")
	return c.NoContent(http.StatusCreated)
}

func (h *CartHTTP) Checkout(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.checkout")
	sess := sessionFrom(c)

	var form backend.CheckoutRequest
	if err := c.Bind(&form); err != nil {
		l.Warn("checkout_error", "status", 400, "error", err)
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid body"})
	}

	if err := h.Svc.Checkout(ctx, sess, form); err != nil {
		l.Warn("checkout_error", "error", err)
		return respondError(c, h.Sessions, sess, err)
	}

	l.Info("checkout completed")
	return c.NoContent(http.StatusCreated)
}

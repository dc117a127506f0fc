package cart

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Skotchmaster/storefront/internal/backend"
	"github.com/Skotchmaster/storefront/internal/events"
	"github.com/Skotchmaster/storefront/internal/logging"
	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/session"
	"github.com/shopspring/decimal"
)

var (
	ErrEmptyCode  = errors.New("coupon code required")
	ErrEmptyCart  = errors.New("cart is empty")
	ErrCouponBusy = errors.New("coupon validation already in flight")
)

type Gateway interface {
	ValidateCoupon(ctx context.Context, token, code string, amount decimal.Decimal) (backend.CouponQuote, error)
	CreateOrder(ctx context.Context, token string, draft backend.OrderDraft) error
	Checkout(ctx context.Context, token string, req backend.CheckoutRequest) error
}

// Service ties the cart store to the per-session coupon state and the
// order surfaces of the backend. It performs no pricing of its own
// beyond the display totals: discounts and final amounts are whatever
// the backend says they are.
type Service struct {
	Store    *Store
	Backend  Gateway
	Shipping decimal.Decimal
	Events   *events.Producer
}

func (s *Service) View(ctx context.Context, sess *session.Session) ([]models.CartLine, Totals, error) {
	lines, err := s.Store.Lines(ctx, sess.UserID)
	if err != nil {
		return nil, Totals{}, err
	}
	return lines, Calculate(lines, s.Shipping, sess.Coupon()), nil
}

func (s *Service) Add(ctx context.Context, sess *session.Session, line *models.CartLine) error {
	line.UserID = sess.UserID
	return s.Store.Add(ctx, line)
}

func (s *Service) Decrement(ctx context.Context, sess *session.Session, productID int) (bool, *models.CartLine, error) {
	return s.Store.Decrement(ctx, sess.UserID, productID)
}

func (s *Service) Remove(ctx context.Context, sess *session.Session, productID int) error {
	return s.Store.Remove(ctx, sess.UserID, productID)
}

func (s *Service) Clear(ctx context.Context, sess *session.Session) error {
	sess.ClearCoupon()
	return s.Store.Clear(ctx, sess.UserID)
}

// ApplyCoupon validates the code against the current subtotal. A failed
// validation clears any previously applied discount. At most one
// validation call is in flight per session.
func (s *Service) ApplyCoupon(ctx context.Context, sess *session.Session, code string) (Totals, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return Totals{}, ErrEmptyCode
	}
	if !sess.TryBeginCouponValidation() {
		return Totals{}, ErrCouponBusy
	}
	defer sess.EndCouponValidation()

	lines, err := s.Store.Lines(ctx, sess.UserID)
	if err != nil {
		return Totals{}, err
	}
	subtotal := Calculate(lines, s.Shipping, nil).Subtotal

	quote, err := s.Backend.ValidateCoupon(ctx, sess.Token, code, subtotal)
	if err != nil {
		sess.ClearCoupon()
		return Totals{}, err
	}

	sess.SetCoupon(code, quote.DiscountedTotal)
	s.publish(ctx, events.TopicCoupons, sess.UserID, map[string]any{
		"event":            "coupon_applied",
		"code":             code,
		"discounted_total": quote.DiscountedTotal,
	})
	return Calculate(lines, s.Shipping, sess.Coupon()), nil
}

// ClearCoupon is the edit-the-code-field transition: discount back to 0,
// coupon no longer active.
func (s *Service) ClearCoupon(sess *session.Session) {
	sess.ClearCoupon()
}

// CreateOrder submits the quick-order draft: items plus
// round2(subtotal+shipping). No discount is subtracted here. The cart
// empties on success.
func (s *Service) CreateOrder(ctx context.Context, sess *session.Session) error {
	lines, err := s.Store.Lines(ctx, sess.UserID)
	if err != nil {
		return err
	}
	if len(lines) == 0 {
		return ErrEmptyCart
	}

	t := Calculate(lines, s.Shipping, nil)
	draft := backend.OrderDraft{
		Items:  orderItems(lines),
		Amount: t.OrderAmount().InexactFloat64(),
	}
	if err := s.Backend.CreateOrder(ctx, sess.Token, draft); err != nil {
		return err
	}

	if err := s.Store.Clear(ctx, sess.UserID); err != nil {
		return fmt.Errorf("clear cart after order: %w", err)
	}
	sess.ClearCoupon()
	s.publish(ctx, events.TopicOrders, sess.UserID, map[string]any{
		"event":  "order_created",
		"amount": draft.Amount,
		"items":  len(draft.Items),
	})
	return nil
}

// Checkout forwards the full shipping+payment form. The applied coupon
// travels as its code; the backend recomputes authoritative pricing.
func (s *Service) Checkout(ctx context.Context, sess *session.Session, form backend.CheckoutRequest) error {
	lines, err := s.Store.Lines(ctx, sess.UserID)
	if err != nil {
		return err
	}
	if len(lines) == 0 {
		return ErrEmptyCart
	}

	form.Items = orderItems(lines)
	if cp := sess.Coupon(); cp != nil && cp.Active {
		form.CouponCode = cp.Code
	}

	if err := s.Backend.Checkout(ctx, sess.Token, form); err != nil {
		return err
	}

	if err := s.Store.Clear(ctx, sess.UserID); err != nil {
		return fmt.Errorf("clear cart after checkout: %w", err)
	}
	sess.ClearCoupon()
	s.publish(ctx, events.TopicOrders, sess.UserID, map[string]any{
		"event": "checkout_completed",
		"items": len(form.Items),
	})
	return nil
}

func (s *Service) publish(ctx context.Context, topic, key string, event map[string]any) {
	if err := s.Events.Publish(ctx, topic, key, event); err != nil {
		logging.FromContext(ctx).Warn("event_publish_failed", "topic", topic, "error", err)
	}
}

func orderItems(lines []models.CartLine) []backend.OrderItem {
	items := make([]backend.OrderItem, len(lines))
	for i, line := range lines {
		items[i] = backend.OrderItem{ProductID: line.ProductID, Quantity: line.Quantity}
	}
	return items
}

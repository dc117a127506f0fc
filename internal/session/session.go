package session

import (
	"sync"
	"time"

	"github.com/Skotchmaster/storefront/internal/chat"
	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/notify"
	"github.com/shopspring/decimal"
)

// Session is the explicit per-user context that replaces the browser
// storefront's scattered localStorage state (token, email, photo URL,
// applied coupon). Created on login, torn down on logout or any 401.
type Session struct {
	Token     string
	UserID    string
	Email     string
	CreatedAt time.Time

	Notices *notify.Center
	Chat    *chat.Controller

	mu         sync.Mutex
	photoURL   string
	coupon     *models.CouponState
	couponBusy bool
}

func (s *Session) PhotoURL() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.photoURL
}

func (s *Session) SetPhotoURL(u string) {
	s.mu.Lock()
	s.photoURL = u
	s.mu.Unlock()
}

// Coupon returns a copy of the applied coupon state, nil when none.
func (s *Session) Coupon() *models.CouponState {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.coupon == nil {
		return nil
	}
	cp := *s.coupon
	return &cp
}

func (s *Session) SetCoupon(code string, discountedTotal decimal.Decimal) {
	s.mu.Lock()
	s.coupon = &models.CouponState{Code: code, DiscountedTotal: discountedTotal, Active: true}
	s.mu.Unlock()
}

// ClearCoupon resets discount state; called when the code field is
// edited or a validation attempt fails.
func (s *Session) ClearCoupon() {
	s.mu.Lock()
	s.coupon = nil
	s.mu.Unlock()
}

// TryBeginCouponValidation reserves the single coupon-validation slot.
// The caller must EndCouponValidation when the backend call finishes.
func (s *Session) TryBeginCouponValidation() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.couponBusy {
		return false
	}
	s.couponBusy = true
	return true
}

func (s *Session) EndCouponValidation() {
	s.mu.Lock()
	s.couponBusy = false
	s.mu.Unlock()
}

package backend

import (
	"time"

	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/shopspring/decimal"
)

type OrderItem struct {
	ProductID int  `json:"product_id"`
	Quantity  uint `json:"quantity"`
}

// OrderDraft is built right before submission and not retained after.
// Amount is subtotal+shipping rounded to 2 decimals; it deliberately does
// NOT subtract any coupon discount, the backend owns final pricing.
type OrderDraft struct {
	Items  []OrderItem `json:"items"`
	Amount float64     `json:"amount"`
}

type CheckoutRequest struct {
	FirstName  string      `json:"first_name"`
	LastName   string      `json:"last_name"`
	Email      string      `json:"email"`
	Address    string      `json:"address"`
	Apartment  string      `json:"apartment,omitempty"`
	Country    string      `json:"country"`
	State      string      `json:"state"`
	ZipCode    string      `json:"zip_code"`
	CardName   string      `json:"card_name"`
	CardNumber string      `json:"card_number"`
	Expiration string      `json:"expiration"`
	CVV        string      `json:"cvv"`
	Items      []OrderItem `json:"items"`
	CouponCode string      `json:"coupon_code,omitempty"`
}

// CouponQuote is the authoritative post-discount subtotal returned by
// /api/coupons/validate/.
type CouponQuote struct {
	DiscountedTotal decimal.Decimal `json:"discounted_total"`
	Message         string          `json:"message"`
}

type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh,omitempty"`
}

type Credentials struct {
	Username string `json:"username,omitempty"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// chatHistoryMessage is the wire shape of GET /api/chat; the backend
// reports the assistant role as "ai".
type chatHistoryMessage struct {
	Role      string           `json:"role"`
	Text      string           `json:"text"`
	Timestamp time.Time        `json:"timestamp"`
	Products  []models.Product `json:"products"`
}

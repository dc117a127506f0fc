package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID          int             `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Rating      float64         `json:"rating,omitempty"`
	ImageLink   string          `json:"imageLink,omitempty"`
}

// CartLine is one product+quantity entry of a user's cart. Quantity is
// always >= 1 while the row exists; a decrement below 1 removes the row.
type CartLine struct {
	ID        uint            `gorm:"primaryKey"                 json:"id"`
	UserID    string          `gorm:"index;not null"             json:"user_id"`
	ProductID int             `gorm:"not null"                   json:"product_id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `gorm:"type:numeric;not null"      json:"unit_price"`
	Quantity  uint            `gorm:"default:1;check:quantity>0" json:"quantity"`
	ImageLink string          `json:"image_link,omitempty"`
}

// CouponState exists only after the backend accepted the code. The
// discounted total is authoritative, never computed locally.
type CouponState struct {
	Code            string          `json:"code"`
	DiscountedTotal decimal.Decimal `json:"discounted_total"`
	Active          bool            `json:"active"`
}

type ChatRole string

const (
	RoleUser      ChatRole = "user"
	RoleAssistant ChatRole = "assistant"
)

type ChatMessage struct {
	Role      ChatRole  `json:"role"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
	Products  []Product `json:"products,omitempty"`
	IsError   bool      `json:"is_error,omitempty"`
}

type Review struct {
	ID        int       `json:"id,omitempty"`
	ProductID int       `json:"product_id,omitempty"`
	Author    string    `json:"author,omitempty"`
	Rating    int       `json:"rating"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

type Profile struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Photo     string `json:"photo,omitempty"`
}

// Coupon is a personal coupon as reported by the backend profile surface.
type Coupon struct {
	Code               string          `json:"code"`
	DiscountPercentage decimal.Decimal `json:"discount_percentage"`
	ValidUntil         time.Time       `json:"valid_until,omitempty"`
}

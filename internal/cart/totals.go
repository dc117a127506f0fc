package cart

import (
	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/shopspring/decimal"
)

// Totals is derived freshly from the current lines on every request;
// no total survives a cart mutation.
type Totals struct {
	Subtotal          decimal.Decimal `json:"subtotal"`
	ItemCount         uint            `json:"item_count"`
	Discount          decimal.Decimal `json:"discount"`
	EffectiveSubtotal decimal.Decimal `json:"effective_subtotal"`
	Shipping          decimal.Decimal `json:"shipping"`
	GrandTotal        decimal.Decimal `json:"grand_total"`
}

// DisplayTotals carries the figures rounded to whole currency units the
// way the storefront shows them. Rounding happens only here, never in
// the amounts sent to the backend.
type DisplayTotals struct {
	Subtotal   int64 `json:"subtotal"`
	Discount   int64 `json:"discount"`
	Shipping   int64 `json:"shipping"`
	GrandTotal int64 `json:"grand_total"`
}

func Calculate(lines []models.CartLine, shipping decimal.Decimal, coupon *models.CouponState) Totals {
	t := Totals{
		Subtotal: decimal.Zero,
		Discount: decimal.Zero,
		Shipping: shipping,
	}
	for _, line := range lines {
		t.Subtotal = t.Subtotal.Add(line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))))
		t.ItemCount += line.Quantity
	}

	t.EffectiveSubtotal = t.Subtotal
	if coupon != nil && coupon.Active {
		t.Discount = t.Subtotal.Sub(coupon.DiscountedTotal)
		t.EffectiveSubtotal = coupon.DiscountedTotal
	}

	t.GrandTotal = t.EffectiveSubtotal.Add(t.Shipping)
	return t
}

// OrderAmount is the value submitted on order creation: subtotal plus
// shipping, rounded to 2 decimals. The discount is not subtracted here;
// on checkout the coupon code itself is forwarded and the backend
// recomputes authoritative pricing.
func (t Totals) OrderAmount() decimal.Decimal {
	return t.Subtotal.Add(t.Shipping).Round(2)
}

func (t Totals) Display() DisplayTotals {
	return DisplayTotals{
		Subtotal:   t.Subtotal.Round(0).IntPart(),
		Discount:   t.Discount.Round(0).IntPart(),
		Shipping:   t.Shipping.Round(0).IntPart(),
		GrandTotal: t.GrandTotal.Round(0).IntPart(),
	}
}

package cart

import "github.com/shopspring/decimal"

// Pricing computes checkout totals from a cart subtotal using a flat
// configured tax rate. Discounts are supplied per checkout; no discount
// logic lives here.
type Pricing struct {
	taxRate decimal.Decimal
}

// NewPricing creates a Pricing with the given tax rate (a fraction, e.g.
// 0.10 for 10%). Negative rates are treated as zero.
func NewPricing(taxRate decimal.Decimal) Pricing {
	if taxRate.IsNegative() {
		taxRate = decimal.Zero
	}
	return Pricing{taxRate: taxRate}
}

// TaxRate returns the configured rate.
func (p Pricing) TaxRate() decimal.Decimal {
	return p.taxRate
}

// Totals is the checkout money breakdown. All figures are exact decimals;
// rounding to two places happens only when they are serialized for display
// or for the order payload.
type Totals struct {
	Subtotal   decimal.Decimal
	Tax        decimal.Decimal
	Discount   decimal.Decimal
	GrandTotal decimal.Decimal
}

// Totals computes subtotal - discount + tax. A negative discount is treated
// as zero. The grand total is not clamped when the discount exceeds the
// subtotal; callers that must never show a negative figure reject it before
// presenting (checkout does).
func (p Pricing) Totals(subtotal, discount decimal.Decimal) Totals {
	if discount.IsNegative() {
		discount = decimal.Zero
	}

	tax := subtotal.Mul(p.taxRate)
	return Totals{
		Subtotal:   subtotal,
		Tax:        tax,
		Discount:   discount,
		GrandTotal: subtotal.Sub(discount).Add(tax),
	}
}

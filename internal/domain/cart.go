package domain

import (
	"strconv"

	"github.com/shopspring/decimal"
)

// Cart domain errors.
var (
	ErrInvalidQuantity  = &Error{Code: EINVALID, Message: "Quantity must be a positive integer"}
	ErrMissingIdentity  = &Error{Code: EINVALID, Message: "Item has no resolvable identity"}
	ErrLineItemNotFound = &Error{Code: ENOTFOUND, Message: "Line item not found"}
	ErrEmptyCart        = &Error{Code: EINVALID, Message: "Cart is empty"}
)

// CartEntry is the canonical form of a product or variant entering the cart.
// The unit price is resolved to a plain decimal here, at the boundary;
// the stored line items never re-inspect source shapes.
type CartEntry struct {
	// Identity is the line item uniqueness key: the variant ID when the
	// product has variants, the product ID otherwise.
	Identity   string
	ProductID  int64
	VariantID  int64 // zero when the product has no variants
	Name       string
	SKU        string
	UnitPrice  decimal.Decimal
	Attributes map[string]string
}

// ProductEntry builds a cart entry for a simple (non-variant) product.
func ProductEntry(p Product) CartEntry {
	return CartEntry{
		Identity:  strconv.FormatInt(p.ID, 10),
		ProductID: p.ID,
		Name:      p.Name,
		SKU:       p.SKU,
		UnitPrice: p.Price.Decimal,
	}
}

// VariantEntry builds a cart entry for a product variant. The display name
// comes from the product; the variant contributes price, SKU and attributes.
func VariantEntry(p Product, v Variant) CartEntry {
	return CartEntry{
		Identity:   strconv.FormatInt(v.ID, 10),
		ProductID:  p.ID,
		VariantID:  v.ID,
		Name:       p.Name,
		SKU:        v.SKU,
		UnitPrice:  v.Price.Decimal,
		Attributes: v.Attributes,
	}
}

// LineItem is one row in the cart: an entry plus its quantity.
// Quantity is always >= 1; a row that would drop to zero is removed instead.
type LineItem struct {
	CartEntry
	Quantity int
}

// LineTotal returns unit price times quantity.
func (li LineItem) LineTotal() decimal.Decimal {
	return li.UnitPrice.Mul(decimal.NewFromInt(int64(li.Quantity)))
}

package domain

// Category groups products for browsing.
type Category struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// CategoryInput is the payload for creating or updating a category.
type CategoryInput struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description,omitempty"`
}

// Product is a catalog product as served by the backend, with price and
// stock already normalized at the decode boundary (see Price, Stock).
type Product struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CategoryID  int64     `json:"category_id,omitempty"`
	SKU         string    `json:"sku,omitempty"`
	Price       Price     `json:"price"`
	HasVariants bool      `json:"has_variants"`
	Inventory   Stock     `json:"inventory"`
	Variants    []Variant `json:"variants,omitempty"`
}

// Variant is a sellable variation of a product (size, color, ...).
type Variant struct {
	ID         int64             `json:"id"`
	ProductID  int64             `json:"product_id"`
	SKU        string            `json:"sku,omitempty"`
	Price      Price             `json:"price"`
	Attributes map[string]string `json:"attributes,omitempty"`
	Inventory  Stock             `json:"inventory"`
}

// ProductInput is the payload for creating a product.
type ProductInput struct {
	Name        string  `json:"name" validate:"required"`
	Description string  `json:"description,omitempty"`
	CategoryID  int64   `json:"category_id,omitempty"`
	SKU         string  `json:"sku,omitempty"`
	Price       float64 `json:"price" validate:"gte=0"`
	HasVariants bool    `json:"has_variants"`
}

// InventoryAdjustment sets a stock level to an absolute quantity, keyed by
// either product or variant. Notes travel to the backend's audit trail.
type InventoryAdjustment struct {
	ProductID int64  `json:"product_id,omitempty"`
	VariantID int64  `json:"variant_id,omitempty"`
	Quantity  int    `json:"quantity" validate:"gte=0"`
	Notes     string `json:"notes,omitempty"`
}

// ProductFilter narrows a product listing.
type ProductFilter struct {
	Search     string
	CategoryID int64
	Page       int
	Limit      int
}

// FindVariant returns the variant with the given ID, if the product carries it.
func (p Product) FindVariant(variantID int64) (Variant, bool) {
	for _, v := range p.Variants {
		if v.ID == variantID {
			return v, true
		}
	}
	return Variant{}, false
}

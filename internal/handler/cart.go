package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/opencounter/pos/internal/cart"
	"github.com/opencounter/pos/internal/domain"
	"github.com/opencounter/pos/internal/telemetry"
	"github.com/shopspring/decimal"
)

// CartCatalog is the slice of the backend client the cart handler needs to
// resolve products and variants at add time.
type CartCatalog interface {
	GetProduct(ctx context.Context, id int64) (*domain.Product, error)
	VariantsByProduct(ctx context.Context, productID int64) ([]domain.Variant, error)
}

// CartHandler owns the cart routes.
type CartHandler struct {
	store   *cart.Store
	pricing cart.Pricing
	catalog CartCatalog
	metrics *telemetry.Metrics
}

// NewCartHandler creates a cart handler.
func NewCartHandler(store *cart.Store, pricing cart.Pricing, catalog CartCatalog, metrics *telemetry.Metrics) *CartHandler {
	return &CartHandler{
		store:   store,
		pricing: pricing,
		catalog: catalog,
		metrics: metrics,
	}
}

type cartItemView struct {
	Identity   string            `json:"identity"`
	ProductID  int64             `json:"product_id"`
	VariantID  int64             `json:"variant_id,omitempty"`
	Name       string            `json:"name"`
	SKU        string            `json:"sku,omitempty"`
	Attributes map[string]string `json:"attributes,omitempty"`
	Quantity   int               `json:"quantity"`
	UnitPrice  domain.Money      `json:"unit_price"`
	LineTotal  domain.Money      `json:"line_total"`
}

type totalsView struct {
	Subtotal   domain.Money `json:"subtotal"`
	Tax        domain.Money `json:"tax"`
	Discount   domain.Money `json:"discount"`
	GrandTotal domain.Money `json:"grand_total"`
}

type cartView struct {
	Items  []cartItemView `json:"items"`
	Count  int            `json:"count"`
	Totals totalsView     `json:"totals"`
}

func (h *CartHandler) view() cartView {
	items := h.store.Items()
	views := make([]cartItemView, 0, len(items))
	for _, item := range items {
		views = append(views, cartItemView{
			Identity:   item.Identity,
			ProductID:  item.ProductID,
			VariantID:  item.VariantID,
			Name:       item.Name,
			SKU:        item.SKU,
			Attributes: item.Attributes,
			Quantity:   item.Quantity,
			UnitPrice:  domain.NewMoney(item.UnitPrice),
			LineTotal:  domain.NewMoney(item.LineTotal()),
		})
	}

	totals := h.pricing.Totals(h.store.Total(), decimal.Zero)
	return cartView{
		Items: views,
		Count: h.store.Count(),
		Totals: totalsView{
			Subtotal:   domain.NewMoney(totals.Subtotal),
			Tax:        domain.NewMoney(totals.Tax),
			Discount:   domain.NewMoney(totals.Discount),
			GrandTotal: domain.NewMoney(totals.GrandTotal),
		},
	}
}

func (h *CartHandler) observe() {
	h.metrics.ObserveCart(len(h.store.Items()), h.store.Count())
}

// View handles GET /api/cart.
func (h *CartHandler) View(c echo.Context) error {
	return c.JSON(http.StatusOK, h.view())
}

type addItemRequest struct {
	ProductID int64 `json:"product_id" validate:"required,gt=0"`
	VariantID int64 `json:"variant_id"`
	Quantity  int   `json:"quantity"`
}

// AddItem handles POST /api/cart/items. The handler resolves the product
// (and variant) against the backend, checks the availability guard, and
// merges the entry into the cart.
func (h *CartHandler) AddItem(c echo.Context) error {
	const op = "cart.add"

	var req addItemRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, domain.Invalid(op, "malformed request body"))
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}
	if err := c.Validate(&req); err != nil {
		return respondError(c, err)
	}
	if req.Quantity < 1 {
		return respondError(c, domain.ErrInvalidQuantity)
	}

	ctx := c.Request().Context()
	product, err := h.catalog.GetProduct(ctx, req.ProductID)
	if err != nil {
		return respondError(c, err)
	}

	var entry domain.CartEntry
	var stock int

	switch {
	case req.VariantID != 0:
		variant, ok := product.FindVariant(req.VariantID)
		if !ok {
			// Some backend payloads omit embedded variants; fetch them.
			variants, err := h.catalog.VariantsByProduct(ctx, product.ID)
			if err != nil {
				return respondError(c, err)
			}
			for _, v := range variants {
				if v.ID == req.VariantID {
					variant, ok = v, true
					break
				}
			}
		}
		if !ok {
			return respondError(c, domain.NotFound(op, "variant", strconv.FormatInt(req.VariantID, 10)))
		}
		entry = domain.VariantEntry(*product, variant)
		stock = variant.Inventory.Units()
	case product.HasVariants:
		return respondError(c, domain.Invalid(op, "product has variants; variant_id is required"))
	default:
		entry = domain.ProductEntry(*product)
		stock = product.Inventory.Units()
	}

	// Display guard only: the backend remains the stock authority at
	// order submission.
	available := h.store.AvailableToAdd(stock, entry.Identity)
	if req.Quantity > available {
		return respondError(c, domain.Errorf(domain.ECONFLICT, op,
			"insufficient stock: %d available", available))
	}

	if err := h.store.Add(entry, req.Quantity); err != nil {
		return respondError(c, err)
	}

	h.metrics.CartAdds.Inc()
	h.observe()
	return c.JSON(http.StatusOK, h.view())
}

type updateItemRequest struct {
	Quantity int `json:"quantity" validate:"gte=0"`
}

// UpdateItem handles PUT /api/cart/items/:identity. Quantity is an absolute
// set; zero removes the item. Unknown identities are a 404 at this surface
// even though the store itself is permissive.
func (h *CartHandler) UpdateItem(c echo.Context) error {
	const op = "cart.update"

	identity := c.Param("identity")
	if _, ok := h.store.Get(identity); !ok {
		return respondError(c, domain.ErrLineItemNotFound)
	}

	var req updateItemRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, domain.Invalid(op, "malformed request body"))
	}
	if err := c.Validate(&req); err != nil {
		return respondError(c, err)
	}

	h.store.SetQuantity(identity, req.Quantity)
	if req.Quantity == 0 {
		h.metrics.CartRemoves.Inc()
	}

	h.observe()
	return c.JSON(http.StatusOK, h.view())
}

// RemoveItem handles DELETE /api/cart/items/:identity.
// Removing an absent item succeeds; removal is idempotent.
func (h *CartHandler) RemoveItem(c echo.Context) error {
	h.store.Remove(c.Param("identity"))
	h.metrics.CartRemoves.Inc()
	h.observe()
	return c.JSON(http.StatusOK, h.view())
}

// Clear handles DELETE /api/cart.
func (h *CartHandler) Clear(c echo.Context) error {
	h.store.Clear()
	h.observe()
	return c.NoContent(http.StatusNoContent)
}

// Availability handles GET /api/cart/availability?identity=&stock=.
// It exposes the available-to-add derivation so product views can grey out
// exhausted options without duplicating the arithmetic.
func (h *CartHandler) Availability(c echo.Context) error {
	const op = "cart.availability"

	identity := c.QueryParam("identity")
	if identity == "" {
		return respondError(c, domain.Invalid(op, "identity is required"))
	}

	stock, err := strconv.Atoi(c.QueryParam("stock"))
	if err != nil {
		return respondError(c, domain.Invalid(op, "stock must be an integer"))
	}

	return c.JSON(http.StatusOK, map[string]any{
		"identity":  identity,
		"reserved":  h.store.Reserved(identity),
		"available": h.store.AvailableToAdd(stock, identity),
	})
}

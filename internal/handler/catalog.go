package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/opencounter/pos/internal/cart"
	"github.com/opencounter/pos/internal/domain"
)

// CatalogAPI is the backend surface the catalog handler proxies.
type CatalogAPI interface {
	ListCategories(ctx context.Context) ([]domain.Category, error)
	GetCategory(ctx context.Context, id int64) (*domain.Category, error)
	CreateCategory(ctx context.Context, input domain.CategoryInput) (*domain.Category, error)
	UpdateCategory(ctx context.Context, id int64, input domain.CategoryInput) (*domain.Category, error)
	DeleteCategory(ctx context.Context, id int64) error
	ListProducts(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error)
	GetProduct(ctx context.Context, id int64) (*domain.Product, error)
	CreateProduct(ctx context.Context, input domain.ProductInput) (*domain.Product, error)
	UpdateProduct(ctx context.Context, id int64, input domain.ProductInput) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id int64) error
	AdjustInventory(ctx context.Context, adj domain.InventoryAdjustment) (domain.Stock, error)
	LowStock(ctx context.Context) ([]domain.Product, error)
}

// CatalogHandler proxies catalog browsing for the terminal UI and decorates
// product stock with the cart's available-to-add figures.
type CatalogHandler struct {
	catalog CatalogAPI
	store   *cart.Store
}

// NewCatalogHandler creates a catalog handler.
func NewCatalogHandler(catalog CatalogAPI, store *cart.Store) *CatalogHandler {
	return &CatalogHandler{catalog: catalog, store: store}
}

func pathID(c echo.Context, op string) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.Invalid(op, "invalid id")
	}
	return id, nil
}

// =============================================================================
// Categories
// =============================================================================

// ListCategories handles GET /api/catalog/categories.
func (h *CatalogHandler) ListCategories(c echo.Context) error {
	categories, err := h.catalog.ListCategories(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, categories)
}

// GetCategory handles GET /api/catalog/categories/:id.
func (h *CatalogHandler) GetCategory(c echo.Context) error {
	id, err := pathID(c, "catalog.categories.get")
	if err != nil {
		return respondError(c, err)
	}

	category, err := h.catalog.GetCategory(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, category)
}

// CreateCategory handles POST /api/catalog/categories.
func (h *CatalogHandler) CreateCategory(c echo.Context) error {
	var input domain.CategoryInput
	if err := c.Bind(&input); err != nil {
		return respondError(c, domain.Invalid("catalog.categories.create", "malformed request body"))
	}
	if err := c.Validate(&input); err != nil {
		return respondError(c, err)
	}

	category, err := h.catalog.CreateCategory(c.Request().Context(), input)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, category)
}

// UpdateCategory handles PUT /api/catalog/categories/:id.
func (h *CatalogHandler) UpdateCategory(c echo.Context) error {
	id, err := pathID(c, "catalog.categories.update")
	if err != nil {
		return respondError(c, err)
	}

	var input domain.CategoryInput
	if err := c.Bind(&input); err != nil {
		return respondError(c, domain.Invalid("catalog.categories.update", "malformed request body"))
	}
	if err := c.Validate(&input); err != nil {
		return respondError(c, err)
	}

	category, err := h.catalog.UpdateCategory(c.Request().Context(), id, input)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, category)
}

// DeleteCategory handles DELETE /api/catalog/categories/:id.
func (h *CatalogHandler) DeleteCategory(c echo.Context) error {
	id, err := pathID(c, "catalog.categories.delete")
	if err != nil {
		return respondError(c, err)
	}

	if err := h.catalog.DeleteCategory(c.Request().Context(), id); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// =============================================================================
// Products
// =============================================================================

// variantView is a variant plus its available-to-add figure.
type variantView struct {
	domain.Variant
	Available int `json:"available_to_add"`
}

// productView is a product decorated with availability from the live cart.
type productView struct {
	domain.Product
	Available int           `json:"available_to_add"`
	Variants  []variantView `json:"variants,omitempty"`
}

func (h *CatalogHandler) decorate(p domain.Product) productView {
	view := productView{Product: p}
	view.Product.Variants = nil

	if p.HasVariants {
		view.Variants = make([]variantView, 0, len(p.Variants))
		for _, v := range p.Variants {
			view.Variants = append(view.Variants, variantView{
				Variant:   v,
				Available: h.store.AvailableToAdd(v.Inventory.Units(), strconv.FormatInt(v.ID, 10)),
			})
		}
		return view
	}

	view.Available = h.store.AvailableToAdd(p.Inventory.Units(), strconv.FormatInt(p.ID, 10))
	return view
}

// ListProducts handles GET /api/catalog/products with optional search,
// category_id, page and limit query parameters.
func (h *CatalogHandler) ListProducts(c echo.Context) error {
	filter := domain.ProductFilter{
		Search: c.QueryParam("search"),
	}
	if raw := c.QueryParam("category_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return respondError(c, domain.Invalid("catalog.products.list", "invalid category_id"))
		}
		filter.CategoryID = id
	}
	filter.Page, _ = strconv.Atoi(c.QueryParam("page"))
	filter.Limit, _ = strconv.Atoi(c.QueryParam("limit"))

	products, err := h.catalog.ListProducts(c.Request().Context(), filter)
	if err != nil {
		return respondError(c, err)
	}

	views := make([]productView, 0, len(products))
	for _, p := range products {
		views = append(views, h.decorate(p))
	}
	return c.JSON(http.StatusOK, views)
}

// GetProduct handles GET /api/catalog/products/:id.
func (h *CatalogHandler) GetProduct(c echo.Context) error {
	id, err := pathID(c, "catalog.products.get")
	if err != nil {
		return respondError(c, err)
	}

	product, err := h.catalog.GetProduct(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, h.decorate(*product))
}

// CreateProduct handles POST /api/catalog/products.
func (h *CatalogHandler) CreateProduct(c echo.Context) error {
	var input domain.ProductInput
	if err := c.Bind(&input); err != nil {
		return respondError(c, domain.Invalid("catalog.products.create", "malformed request body"))
	}
	if err := c.Validate(&input); err != nil {
		return respondError(c, err)
	}

	product, err := h.catalog.CreateProduct(c.Request().Context(), input)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, h.decorate(*product))
}

// UpdateProduct handles PUT /api/catalog/products/:id.
func (h *CatalogHandler) UpdateProduct(c echo.Context) error {
	id, err := pathID(c, "catalog.products.update")
	if err != nil {
		return respondError(c, err)
	}

	var input domain.ProductInput
	if err := c.Bind(&input); err != nil {
		return respondError(c, domain.Invalid("catalog.products.update", "malformed request body"))
	}
	if err := c.Validate(&input); err != nil {
		return respondError(c, err)
	}

	product, err := h.catalog.UpdateProduct(c.Request().Context(), id, input)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, h.decorate(*product))
}

// DeleteProduct handles DELETE /api/catalog/products/:id. Any cart line for
// the product stays until the cashier removes it; the next add resolves
// against the backend and fails with a 404.
func (h *CatalogHandler) DeleteProduct(c echo.Context) error {
	id, err := pathID(c, "catalog.products.delete")
	if err != nil {
		return respondError(c, err)
	}

	if err := h.catalog.DeleteProduct(c.Request().Context(), id); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// AdjustInventory handles POST /api/catalog/inventory/adjust. The response
// pairs the backend's settled stock with the availability left after the
// cart's current reservations.
func (h *CatalogHandler) AdjustInventory(c echo.Context) error {
	const op = "catalog.inventory.adjust"

	var adj domain.InventoryAdjustment
	if err := c.Bind(&adj); err != nil {
		return respondError(c, domain.Invalid(op, "malformed request body"))
	}
	if err := c.Validate(&adj); err != nil {
		return respondError(c, err)
	}
	if adj.ProductID == 0 && adj.VariantID == 0 {
		return respondError(c, domain.Invalid(op, "product_id or variant_id is required"))
	}

	stock, err := h.catalog.AdjustInventory(c.Request().Context(), adj)
	if err != nil {
		return respondError(c, err)
	}

	identity := strconv.FormatInt(adj.ProductID, 10)
	if adj.VariantID != 0 {
		identity = strconv.FormatInt(adj.VariantID, 10)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"quantity":         stock.Units(),
		"available_to_add": h.store.AvailableToAdd(stock.Units(), identity),
	})
}

// LowStock handles GET /api/catalog/products/low-stock.
func (h *CatalogHandler) LowStock(c echo.Context) error {
	products, err := h.catalog.LowStock(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}

	views := make([]productView, 0, len(products))
	for _, p := range products {
		views = append(views, h.decorate(p))
	}
	return c.JSON(http.StatusOK, views)
}

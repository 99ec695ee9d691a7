package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/opencounter/pos/internal/cart"
	"github.com/opencounter/pos/internal/domain"
	"github.com/opencounter/pos/internal/telemetry"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================================================
// Mock Implementations
// ============================================================================

// mockCatalog implements CartCatalog for testing.
type mockCatalog struct {
	product  *domain.Product
	variants []domain.Variant
	err      error
}

func (m *mockCatalog) GetProduct(_ context.Context, id int64) (*domain.Product, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.product == nil || m.product.ID != id {
		return nil, domain.NotFound("catalog.products.get", "product", "unknown")
	}
	return m.product, nil
}

func (m *mockCatalog) VariantsByProduct(_ context.Context, _ int64) ([]domain.Variant, error) {
	return m.variants, nil
}

func newEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

func newCartHandler(catalog CartCatalog) (*CartHandler, *cart.Store) {
	store := cart.NewStore()
	metrics := telemetry.NewMetrics(prometheus.NewRegistry())
	return NewCartHandler(store, cart.NewPricing(decimal.RequireFromString("0.10")), catalog, metrics), store
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return req
}

func simpleProduct() *domain.Product {
	return &domain.Product{
		ID:        1,
		Name:      "Filter Coffee",
		Price:     domain.Price{Decimal: decimal.NewFromInt(20)},
		Inventory: domain.Stock(10),
	}
}

func variantProduct() *domain.Product {
	return &domain.Product{
		ID:          5,
		Name:        "Espresso",
		HasVariants: true,
		Variants: []domain.Variant{{
			ID:         51,
			ProductID:  5,
			SKU:        "ESP-DBL",
			Price:      domain.Price{Decimal: decimal.NewFromInt(140)},
			Attributes: map[string]string{"size": "double"},
			Inventory:  domain.Stock(4),
		}},
	}
}

func TestCartHandler_AddSimpleProduct(t *testing.T) {
	e := newEcho()
	h, store := newCartHandler(&mockCatalog{product: simpleProduct()})

	req := jsonRequest(http.MethodPost, "/api/cart/items", `{"product_id": 1, "quantity": 2}`)
	rec := httptest.NewRecorder()

	require.NoError(t, h.AddItem(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusOK, rec.Code)

	var view cartView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	require.Len(t, view.Items, 1)
	assert.Equal(t, "1", view.Items[0].Identity)
	assert.Equal(t, 2, view.Items[0].Quantity)
	assert.Equal(t, 2, view.Count)
	assert.Equal(t, 2, store.Count())
	assert.True(t, view.Totals.Subtotal.Equal(decimal.NewFromInt(40)))
	assert.True(t, view.Totals.GrandTotal.Equal(decimal.NewFromInt(44)), "tax applied")
}

func TestCartHandler_AddDefaultsQuantityToOne(t *testing.T) {
	e := newEcho()
	h, store := newCartHandler(&mockCatalog{product: simpleProduct()})

	req := jsonRequest(http.MethodPost, "/api/cart/items", `{"product_id": 1}`)
	rec := httptest.NewRecorder()

	require.NoError(t, h.AddItem(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, store.Count())
}

func TestCartHandler_AddVariant(t *testing.T) {
	e := newEcho()
	h, store := newCartHandler(&mockCatalog{product: variantProduct()})

	req := jsonRequest(http.MethodPost, "/api/cart/items", `{"product_id": 5, "variant_id": 51, "quantity": 1}`)
	rec := httptest.NewRecorder()

	require.NoError(t, h.AddItem(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusOK, rec.Code)

	item, ok := store.Get("51")
	require.True(t, ok, "variant ID is the line item identity")
	assert.Equal(t, int64(5), item.ProductID)
	assert.Equal(t, "ESP-DBL", item.SKU)
	assert.True(t, item.UnitPrice.Equal(decimal.NewFromInt(140)))
}

func TestCartHandler_AddVariantRequiredForVariantProducts(t *testing.T) {
	e := newEcho()
	h, _ := newCartHandler(&mockCatalog{product: variantProduct()})

	req := jsonRequest(http.MethodPost, "/api/cart/items", `{"product_id": 5, "quantity": 1}`)
	rec := httptest.NewRecorder()

	require.NoError(t, h.AddItem(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCartHandler_AddUnknownVariantIs404(t *testing.T) {
	e := newEcho()
	h, _ := newCartHandler(&mockCatalog{product: variantProduct()})

	req := jsonRequest(http.MethodPost, "/api/cart/items", `{"product_id": 5, "variant_id": 99}`)
	rec := httptest.NewRecorder()

	require.NoError(t, h.AddItem(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCartHandler_AddFallsBackToVariantLookup(t *testing.T) {
	// Product payload without embedded variants; the handler fetches them.
	product := variantProduct()
	variants := product.Variants
	product.Variants = nil

	e := newEcho()
	h, store := newCartHandler(&mockCatalog{product: product, variants: variants})

	req := jsonRequest(http.MethodPost, "/api/cart/items", `{"product_id": 5, "variant_id": 51}`)
	rec := httptest.NewRecorder()

	require.NoError(t, h.AddItem(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, store.Reserved("51"))
}

func TestCartHandler_AddBeyondAvailabilityConflicts(t *testing.T) {
	e := newEcho()
	h, store := newCartHandler(&mockCatalog{product: variantProduct()})

	// Stock is 4; reserve 3, then ask for 2 more.
	req := jsonRequest(http.MethodPost, "/api/cart/items", `{"product_id": 5, "variant_id": 51, "quantity": 3}`)
	rec := httptest.NewRecorder()
	require.NoError(t, h.AddItem(e.NewContext(req, rec)))
	require.Equal(t, http.StatusOK, rec.Code)

	req = jsonRequest(http.MethodPost, "/api/cart/items", `{"product_id": 5, "variant_id": 51, "quantity": 2}`)
	rec = httptest.NewRecorder()
	require.NoError(t, h.AddItem(e.NewContext(req, rec)))

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, 3, store.Reserved("51"), "rejected add must not change the cart")

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body["message"], "1 available")
}

func TestCartHandler_AddNegativeQuantityRejected(t *testing.T) {
	e := newEcho()
	h, _ := newCartHandler(&mockCatalog{product: simpleProduct()})

	req := jsonRequest(http.MethodPost, "/api/cart/items", `{"product_id": 1, "quantity": -2}`)
	rec := httptest.NewRecorder()

	require.NoError(t, h.AddItem(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCartHandler_UpdateQuantity(t *testing.T) {
	e := newEcho()
	h, store := newCartHandler(&mockCatalog{product: simpleProduct()})
	require.NoError(t, store.Add(domain.ProductEntry(*simpleProduct()), 5))

	req := jsonRequest(http.MethodPut, "/api/cart/items/1", `{"quantity": 2}`)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("identity")
	c.SetParamValues("1")

	require.NoError(t, h.UpdateItem(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2, store.Reserved("1"))
}

func TestCartHandler_UpdateToZeroRemoves(t *testing.T) {
	e := newEcho()
	h, store := newCartHandler(&mockCatalog{product: simpleProduct()})
	require.NoError(t, store.Add(domain.ProductEntry(*simpleProduct()), 5))

	req := jsonRequest(http.MethodPut, "/api/cart/items/1", `{"quantity": 0}`)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("identity")
	c.SetParamValues("1")

	require.NoError(t, h.UpdateItem(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0, store.Count())
}

func TestCartHandler_UpdateUnknownIdentityIs404(t *testing.T) {
	e := newEcho()
	h, _ := newCartHandler(&mockCatalog{})

	req := jsonRequest(http.MethodPut, "/api/cart/items/404", `{"quantity": 1}`)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("identity")
	c.SetParamValues("404")

	require.NoError(t, h.UpdateItem(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCartHandler_Availability(t *testing.T) {
	e := newEcho()
	h, store := newCartHandler(&mockCatalog{})
	require.NoError(t, store.Add(domain.ProductEntry(*simpleProduct()), 3))

	req := httptest.NewRequest(http.MethodGet, "/api/cart/availability?identity=1&stock=10", nil)
	rec := httptest.NewRecorder()

	require.NoError(t, h.Availability(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Identity  string `json:"identity"`
		Reserved  int    `json:"reserved"`
		Available int    `json:"available"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 3, body.Reserved)
	assert.Equal(t, 7, body.Available)
}

func TestCartHandler_ClearIsIdempotentOverHTTP(t *testing.T) {
	e := newEcho()
	h, store := newCartHandler(&mockCatalog{})
	require.NoError(t, store.Add(domain.ProductEntry(*simpleProduct()), 3))

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodDelete, "/api/cart", nil)
		rec := httptest.NewRecorder()
		require.NoError(t, h.Clear(e.NewContext(req, rec)))
		assert.Equal(t, http.StatusNoContent, rec.Code)
	}
	assert.Equal(t, 0, store.Count())
}

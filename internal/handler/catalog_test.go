package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/opencounter/pos/internal/cart"
	"github.com/opencounter/pos/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockCatalogAPI stubs the backend surface; only the methods a test exercises
// are implemented, the rest panic through the embedded nil interface.
type mockCatalogAPI struct {
	CatalogAPI
	product    *domain.Product
	adjustment *domain.InventoryAdjustment
	stock      domain.Stock
	deleted    []int64
}

func (m *mockCatalogAPI) UpdateProduct(_ context.Context, id int64, input domain.ProductInput) (*domain.Product, error) {
	return &domain.Product{
		ID:    id,
		Name:  input.Name,
		Price: domain.Price{Decimal: decimal.NewFromFloat(input.Price)},
	}, nil
}

func (m *mockCatalogAPI) DeleteProduct(_ context.Context, id int64) error {
	m.deleted = append(m.deleted, id)
	return nil
}

func (m *mockCatalogAPI) AdjustInventory(_ context.Context, adj domain.InventoryAdjustment) (domain.Stock, error) {
	m.adjustment = &adj
	return m.stock, nil
}

func newCatalogHandler(api CatalogAPI) (*CatalogHandler, *cart.Store) {
	store := cart.NewStore()
	return NewCatalogHandler(api, store), store
}

func TestCatalogHandler_UpdateProduct(t *testing.T) {
	e := newEcho()
	h, _ := newCatalogHandler(&mockCatalogAPI{})

	req := jsonRequest(http.MethodPut, "/api/catalog/products/7", `{"name": "Masala Chai", "price": 45}`)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("7")

	require.NoError(t, h.UpdateProduct(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var view productView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	assert.Equal(t, "Masala Chai", view.Name)
}

func TestCatalogHandler_DeleteProduct(t *testing.T) {
	e := newEcho()
	api := &mockCatalogAPI{}
	h, _ := newCatalogHandler(api)

	req := httptest.NewRequest(http.MethodDelete, "/api/catalog/products/7", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("7")

	require.NoError(t, h.DeleteProduct(c))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, []int64{7}, api.deleted)
}

func TestCatalogHandler_AdjustInventoryReflectsReservations(t *testing.T) {
	e := newEcho()
	api := &mockCatalogAPI{stock: domain.Stock(10)}
	h, store := newCatalogHandler(api)

	// Three units of variant 51 already sit in the cart.
	require.NoError(t, store.Add(domain.CartEntry{
		Identity:  "51",
		ProductID: 5,
		VariantID: 51,
		Name:      "Espresso",
		UnitPrice: decimal.NewFromInt(140),
	}, 3))

	req := jsonRequest(http.MethodPost, "/api/catalog/inventory/adjust",
		`{"variant_id": 51, "quantity": 10, "notes": "stock take"}`)
	rec := httptest.NewRecorder()

	require.NoError(t, h.AdjustInventory(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusOK, rec.Code)

	require.NotNil(t, api.adjustment)
	assert.Equal(t, int64(51), api.adjustment.VariantID)

	var body struct {
		Quantity  int `json:"quantity"`
		Available int `json:"available_to_add"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 10, body.Quantity)
	assert.Equal(t, 7, body.Available, "availability must net out cart reservations")
}

func TestCatalogHandler_AdjustInventoryRequiresTarget(t *testing.T) {
	e := newEcho()
	h, _ := newCatalogHandler(&mockCatalogAPI{})

	req := jsonRequest(http.MethodPost, "/api/catalog/inventory/adjust", `{"quantity": 10}`)
	rec := httptest.NewRecorder()

	require.NoError(t, h.AdjustInventory(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

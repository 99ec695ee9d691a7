package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/opencounter/pos/internal/domain"
)

// OrderAPI is the backend surface the orders handler proxies.
type OrderAPI interface {
	ListOrders(ctx context.Context) ([]domain.Order, error)
	GetOrder(ctx context.Context, id int64) (*domain.Order, error)
	CancelOrder(ctx context.Context, id int64) (*domain.Order, error)
}

// OrdersHandler proxies the backend's order history for the terminal UI.
type OrdersHandler struct {
	orders OrderAPI
}

// NewOrdersHandler creates an orders handler.
func NewOrdersHandler(orders OrderAPI) *OrdersHandler {
	return &OrdersHandler{orders: orders}
}

// List handles GET /api/orders.
func (h *OrdersHandler) List(c echo.Context) error {
	orders, err := h.orders.ListOrders(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, orders)
}

// Get handles GET /api/orders/:id.
func (h *OrdersHandler) Get(c echo.Context) error {
	id, err := pathID(c, "orders.get")
	if err != nil {
		return respondError(c, err)
	}

	order, err := h.orders.GetOrder(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, order)
}

// Cancel handles POST /api/orders/:id/cancel.
func (h *OrdersHandler) Cancel(c echo.Context) error {
	id, err := pathID(c, "orders.cancel")
	if err != nil {
		return respondError(c, err)
	}

	order, err := h.orders.CancelOrder(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, order)
}

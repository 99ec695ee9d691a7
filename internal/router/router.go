// Package router wires the terminal's HTTP surface.
package router

import (
	"net/http"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/opencounter/pos/internal/handler"
	"github.com/opencounter/pos/internal/middleware"
)

// Handlers groups everything the router mounts.
type Handlers struct {
	Cart     *handler.CartHandler
	Catalog  *handler.CatalogHandler
	Checkout *handler.CheckoutHandler
	Orders   *handler.OrdersHandler
	Alerts   *handler.AlertsHandler
}

// New builds the echo instance with middleware and routes attached.
func New(logger zerolog.Logger, metrics *middleware.Metrics, gatherer prometheus.Gatherer, h Handlers) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = handler.ErrorHandler

	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(middleware.RequestLogger(logger))
	e.Use(metrics.Middleware())

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	api := e.Group("/api")

	categories := api.Group("/catalog/categories")
	categories.GET("", h.Catalog.ListCategories)
	categories.GET("/:id", h.Catalog.GetCategory)
	categories.POST("", h.Catalog.CreateCategory)
	categories.PUT("/:id", h.Catalog.UpdateCategory)
	categories.DELETE("/:id", h.Catalog.DeleteCategory)

	products := api.Group("/catalog/products")
	products.GET("", h.Catalog.ListProducts)
	products.GET("/low-stock", h.Catalog.LowStock)
	products.GET("/:id", h.Catalog.GetProduct)
	products.POST("", h.Catalog.CreateProduct)
	products.PUT("/:id", h.Catalog.UpdateProduct)
	products.DELETE("/:id", h.Catalog.DeleteProduct)

	api.POST("/catalog/inventory/adjust", h.Catalog.AdjustInventory)

	cart := api.Group("/cart")
	cart.GET("", h.Cart.View)
	cart.DELETE("", h.Cart.Clear)
	cart.GET("/availability", h.Cart.Availability)
	cart.POST("/items", h.Cart.AddItem)
	cart.PUT("/items/:identity", h.Cart.UpdateItem)
	cart.DELETE("/items/:identity", h.Cart.RemoveItem)

	api.POST("/checkout", h.Checkout.Submit)
	api.GET("/checkout/preview", h.Checkout.Preview)

	orders := api.Group("/orders")
	orders.GET("", h.Orders.List)
	orders.GET("/:id", h.Orders.Get)
	orders.POST("/:id/cancel", h.Orders.Cancel)

	alerts := api.Group("/alerts")
	alerts.GET("/current", h.Alerts.Current)
	alerts.POST("/dismiss", h.Alerts.Dismiss)

	return e
}

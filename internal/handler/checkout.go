package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/opencounter/pos/internal/checkout"
	"github.com/opencounter/pos/internal/domain"
	"github.com/shopspring/decimal"
)

// CheckoutHandler owns the checkout route.
type CheckoutHandler struct {
	service *checkout.Service
}

// NewCheckoutHandler creates a checkout handler.
func NewCheckoutHandler(service *checkout.Service) *CheckoutHandler {
	return &CheckoutHandler{service: service}
}

type checkoutRequest struct {
	PaymentMethod string  `json:"payment_method" validate:"required,oneof=cash card upi"`
	Discount      float64 `json:"discount" validate:"gte=0"`
	CustomerName  string  `json:"customer_name"`
	CustomerPhone string  `json:"customer_phone"`
	Notes         string  `json:"notes"`
}

type checkoutResponse struct {
	Order  *domain.Order `json:"order"`
	Totals totalsView    `json:"totals"`
}

// Submit handles POST /api/checkout. On success the cart has been cleared by
// the checkout service; on failure it is untouched and the error reaches the
// cashier for retry.
func (h *CheckoutHandler) Submit(c echo.Context) error {
	var req checkoutRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, domain.Invalid("checkout.submit", "malformed request body"))
	}
	if err := c.Validate(&req); err != nil {
		return respondError(c, err)
	}

	result, err := h.service.Submit(c.Request().Context(), checkout.SubmitRequest{
		PaymentMethod: domain.PaymentMethod(req.PaymentMethod),
		Discount:      decimal.NewFromFloat(req.Discount),
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
		Notes:         req.Notes,
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusCreated, checkoutResponse{
		Order: result.Order,
		Totals: totalsView{
			Subtotal:   domain.NewMoney(result.Totals.Subtotal),
			Tax:        domain.NewMoney(result.Totals.Tax),
			Discount:   domain.NewMoney(result.Totals.Discount),
			GrandTotal: domain.NewMoney(result.Totals.GrandTotal),
		},
	})
}

// Preview handles GET /api/checkout/preview?discount=. It returns the totals
// that would be billed for the current cart without submitting.
func (h *CheckoutHandler) Preview(c echo.Context) error {
	discount := decimal.Zero
	if raw := c.QueryParam("discount"); raw != "" {
		parsed, err := decimal.NewFromString(raw)
		if err != nil || parsed.IsNegative() {
			return respondError(c, domain.Invalid("checkout.preview", "invalid discount"))
		}
		discount = parsed
	}

	totals := h.service.Totals(discount)
	if totals.GrandTotal.IsNegative() {
		return respondError(c, domain.Invalid("checkout.preview", "discount exceeds order total"))
	}
	return c.JSON(http.StatusOK, totalsView{
		Subtotal:   domain.NewMoney(totals.Subtotal),
		Tax:        domain.NewMoney(totals.Tax),
		Discount:   domain.NewMoney(totals.Discount),
		GrandTotal: domain.NewMoney(totals.GrandTotal),
	})
}

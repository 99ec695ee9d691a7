// Package checkout turns the in-memory cart into an order payload and
// submits it to the remote order API.
package checkout

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/opencounter/pos/internal/cart"
	"github.com/opencounter/pos/internal/domain"
	"github.com/opencounter/pos/internal/events"
	"github.com/opencounter/pos/internal/notify"
	"github.com/opencounter/pos/internal/telemetry"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// walkInCustomer is the default customer name for counter sales.
const walkInCustomer = "Walk-in Customer"

// OrderAPI is the slice of the backend client checkout needs.
type OrderAPI interface {
	CreateOrder(ctx context.Context, req domain.OrderRequest) (*domain.Order, error)
}

// SubmitRequest carries the per-checkout inputs from the terminal UI.
type SubmitRequest struct {
	PaymentMethod domain.PaymentMethod
	Discount      decimal.Decimal
	CustomerName  string
	CustomerPhone string
	Notes         string
}

// Result is a successful submission: the created order plus the totals that
// were billed.
type Result struct {
	Order  *domain.Order
	Totals cart.Totals
}

// Service submits orders. The contract with the cart is strict: Clear runs
// only after the backend accepts the order. On any failure the cart is left
// exactly as it was so the cashier can retry.
type Service struct {
	store    *cart.Store
	pricing  cart.Pricing
	orders   OrderAPI
	events   events.Publisher
	alerts   *notify.Queue
	metrics  *telemetry.Metrics
	logger   zerolog.Logger
	validate *validator.Validate
}

// NewService creates a checkout service.
func NewService(store *cart.Store, pricing cart.Pricing, orders OrderAPI, publisher events.Publisher, alerts *notify.Queue, metrics *telemetry.Metrics, logger zerolog.Logger) *Service {
	return &Service{
		store:    store,
		pricing:  pricing,
		orders:   orders,
		events:   publisher,
		alerts:   alerts,
		metrics:  metrics,
		logger:   logger.With().Str("component", "checkout").Logger(),
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Submit builds the order payload from the current cart snapshot, validates
// it, and sends it to the backend.
func (s *Service) Submit(ctx context.Context, req SubmitRequest) (*Result, error) {
	const op = "checkout.submit"

	if !req.PaymentMethod.Valid() {
		s.metrics.OrdersSubmitted.WithLabelValues("rejected").Inc()
		return nil, domain.Errorf(domain.EINVALID, op, "unsupported payment method: %q", req.PaymentMethod)
	}

	items := s.store.Items()
	if len(items) == 0 {
		s.metrics.OrdersSubmitted.WithLabelValues("rejected").Inc()
		return nil, domain.ErrEmptyCart
	}

	totals := s.pricing.Totals(s.store.Total(), req.Discount)
	if totals.GrandTotal.IsNegative() {
		s.metrics.OrdersSubmitted.WithLabelValues("rejected").Inc()
		return nil, domain.Invalid(op, "discount exceeds order total")
	}

	payload := s.buildPayload(items, totals, req)
	if err := s.validate.Struct(payload); err != nil {
		s.metrics.OrdersSubmitted.WithLabelValues("rejected").Inc()
		return nil, domain.WrapError(err, domain.EINVALID, op, "order payload failed validation")
	}

	order, err := s.orders.CreateOrder(ctx, payload)
	if err != nil {
		// The cart stays untouched; the cashier retries from the same state.
		s.metrics.OrdersSubmitted.WithLabelValues("failed").Inc()
		s.logger.Error().Err(err).Msg("order submission failed")
		s.alerts.Push(notify.NewAlert("Order Failed", domain.ErrorMessage(err), notify.IconError))
		return nil, err
	}

	units := 0
	for _, item := range items {
		units += item.Quantity
	}

	s.store.Clear()
	s.metrics.OrdersSubmitted.WithLabelValues("accepted").Inc()
	s.metrics.OrderValue.Observe(totals.GrandTotal.InexactFloat64())
	s.metrics.OrderItemCount.Observe(float64(units))
	s.metrics.ObserveCart(0, 0)

	if err := s.events.OrderCompleted(ctx, events.OrderCompleted{
		OrderID:       order.ID,
		OrderNumber:   order.OrderNumber,
		Total:         domain.NewMoney(totals.GrandTotal),
		PaymentMethod: req.PaymentMethod,
		ItemCount:     units,
		SubmittedAt:   order.CreatedAt,
	}); err != nil {
		s.logger.Warn().Err(err).Str("order", order.OrderNumber).Msg("order event publish failed")
	}

	s.alerts.Push(notify.NewAlert(
		"Success!",
		"Order "+order.OrderNumber+" completed successfully",
		notify.IconSuccess,
	))
	s.logger.Info().
		Str("order", order.OrderNumber).
		Str("payment_method", string(req.PaymentMethod)).
		Str("total", totals.GrandTotal.StringFixed(2)).
		Msg("order submitted")

	return &Result{Order: order, Totals: totals}, nil
}

// Totals previews the checkout breakdown for the current cart without
// submitting anything.
func (s *Service) Totals(discount decimal.Decimal) cart.Totals {
	return s.pricing.Totals(s.store.Total(), discount)
}

func (s *Service) buildPayload(items []domain.LineItem, totals cart.Totals, req SubmitRequest) domain.OrderRequest {
	orderItems := make([]domain.OrderItem, 0, len(items))
	for _, item := range items {
		orderItem := domain.OrderItem{
			ProductID:         item.ProductID,
			ProductName:       item.Name,
			VariantAttributes: item.Attributes,
			Quantity:          item.Quantity,
			UnitPrice:         domain.NewMoney(item.UnitPrice),
			Total:             domain.NewMoney(item.LineTotal()),
		}
		if item.VariantID != 0 {
			variantID := item.VariantID
			orderItem.VariantID = &variantID
		}
		if item.SKU != "" {
			sku := item.SKU
			orderItem.SKU = &sku
		}
		orderItems = append(orderItems, orderItem)
	}

	customer := req.CustomerName
	if customer == "" {
		customer = walkInCustomer
	}

	payload := domain.OrderRequest{
		CustomerName:  customer,
		Items:         orderItems,
		Subtotal:      domain.NewMoney(totals.Subtotal),
		Tax:           domain.NewMoney(totals.Tax),
		Discount:      domain.NewMoney(totals.Discount),
		Total:         domain.NewMoney(totals.GrandTotal),
		PaymentMethod: req.PaymentMethod,
	}
	if req.CustomerPhone != "" {
		phone := req.CustomerPhone
		payload.CustomerPhone = &phone
	}
	if req.Notes != "" {
		notes := req.Notes
		payload.Notes = &notes
	}
	if req.PaymentMethod == domain.PaymentCash {
		received := domain.NewMoney(totals.GrandTotal)
		payload.ReceivedAmount = &received
	}

	return payload
}

package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus collectors for terminal-level observability.
type Metrics struct {
	// Cart activity
	CartAdds    prometheus.Counter
	CartRemoves prometheus.Counter
	CartUnits   prometheus.Gauge
	CartItems   prometheus.Gauge

	// Orders
	OrdersSubmitted *prometheus.CounterVec // label: status (accepted|rejected|failed)
	OrderValue      prometheus.Histogram
	OrderItemCount  prometheus.Histogram
}

// NewMetrics registers terminal metrics on the given registerer.
// Pass prometheus.DefaultRegisterer in production; tests use a fresh registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		CartAdds: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "pos",
			Name:      "cart_adds_total",
			Help:      "Line item add operations accepted by the cart",
		}),
		CartRemoves: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "pos",
			Name:      "cart_removes_total",
			Help:      "Line item removals, including quantity-to-zero updates",
		}),
		CartUnits: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "pos",
			Name:      "cart_units",
			Help:      "Total units currently in the cart",
		}),
		CartItems: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "pos",
			Name:      "cart_line_items",
			Help:      "Distinct line items currently in the cart",
		}),
		OrdersSubmitted: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pos",
			Name:      "orders_submitted_total",
			Help:      "Order submissions by outcome",
		}, []string{"status"}),
		OrderValue: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "pos",
			Name:      "order_value",
			Help:      "Grand total of accepted orders",
			Buckets:   []float64{50, 100, 250, 500, 1000, 2500, 5000, 10000},
		}),
		OrderItemCount: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "pos",
			Name:      "order_item_count",
			Help:      "Units per accepted order",
			Buckets:   []float64{1, 2, 5, 10, 20, 50},
		}),
	}
}

// ObserveCart refreshes the cart gauges after a mutation.
func (m *Metrics) ObserveCart(lineItems, units int) {
	m.CartItems.Set(float64(lineItems))
	m.CartUnits.Set(float64(units))
}

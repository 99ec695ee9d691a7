package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/opencounter/pos/internal/notify"
)

// AlertsHandler exposes the alert queue to the terminal UI, which polls the
// current alert and acknowledges it when the cashier taps through.
type AlertsHandler struct {
	queue *notify.Queue
}

// NewAlertsHandler creates an alerts handler.
func NewAlertsHandler(queue *notify.Queue) *AlertsHandler {
	return &AlertsHandler{queue: queue}
}

type alertView struct {
	Alert   *notify.Alert `json:"alert"`
	Pending int           `json:"pending"`
}

// Current handles GET /api/alerts/current.
func (h *AlertsHandler) Current(c echo.Context) error {
	view := alertView{Pending: h.queue.Pending()}
	if alert, ok := h.queue.Current(); ok {
		view.Alert = &alert
	}
	return c.JSON(http.StatusOK, view)
}

// Dismiss handles POST /api/alerts/dismiss: acknowledges the showing alert
// and promotes the next pending one.
func (h *AlertsHandler) Dismiss(c echo.Context) error {
	view := alertView{}
	if next, ok := h.queue.Dismiss(); ok {
		view.Alert = &next
	}
	view.Pending = h.queue.Pending()
	return c.JSON(http.StatusOK, view)
}

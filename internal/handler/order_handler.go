package handler

import (
	"fmt"
	"io"
	"net/http"

	"prolens/internal/model"
	"prolens/internal/service"
	"prolens/internal/validate"

	"github.com/rs/zerolog"
)

// OrderHandler handles order-related HTTP requests.
type OrderHandler struct {
	service   service.OrderService
	validator *validate.Validator
	logger    zerolog.Logger
}

// NewOrderHandler creates a new order handler.
func NewOrderHandler(service service.OrderService, validator *validate.Validator, logger zerolog.Logger) *OrderHandler {
	return &OrderHandler{
		service:   service,
		validator: validator,
		logger:    logger.With().Str("handler", "order").Logger(),
	}
}

// Place handles POST /api/order/place.
func (h *OrderHandler) Place(w http.ResponseWriter, r *http.Request) {
	identity, err := caller(r)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	var req model.PlaceOrderRequest
	if err := decode(w, r, h.validator, &req); err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	result, err := h.service.PlaceOrder(r.Context(), identity.UserID, &req)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	writeSuccess(w, http.StatusCreated, envelope{
		"message":  "Order placed successfully!",
		"order":    result.Order,
		"shipping": result.Shipping,
	})
}

// ListMine handles GET /api/order/getorders.
func (h *OrderHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	identity, err := caller(r)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	orders, err := h.service.ListForUser(r.Context(), identity.UserID)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	writeSuccess(w, http.StatusOK, envelope{"count": len(orders), "orders": orders})
}

// GetMine handles GET /api/order/getorder?orderId=.
func (h *OrderHandler) GetMine(w http.ResponseWriter, r *http.Request) {
	identity, err := caller(r)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	orderID, err := queryID(r, "orderId")
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	order, err := h.service.GetForUser(r.Context(), identity.UserID, orderID)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	writeSuccess(w, http.StatusOK, envelope{"data": order})
}

// ListAll handles GET /api/order/get-all?status=.
func (h *OrderHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	orders, err := h.service.List(r.Context(), r.URL.Query().Get("status"))
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	writeSuccess(w, http.StatusOK, envelope{"count": len(orders), "orders": orders})
}

// Details handles GET /api/order/details/{id}.
func (h *OrderHandler) Details(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	order, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	writeSuccess(w, http.StatusOK, envelope{"data": order})
}

// UpdateStatus handles PUT /api/order/update-status/{id}.
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	var req model.StatusUpdateRequest
	if err := decode(w, r, h.validator, &req); err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	order, err := h.service.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	writeSuccess(w, http.StatusOK, envelope{
		"message": fmt.Sprintf("Order status updated to %s", order.Status),
		"order":   order,
	})
}

// UpdatePayment handles PUT /api/order/update-payment/{id}.
func (h *OrderHandler) UpdatePayment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	var req model.PaymentUpdateRequest
	if err := decode(w, r, h.validator, &req); err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	order, err := h.service.UpdatePaymentStatus(r.Context(), id, req.PaymentStatus)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	writeSuccess(w, http.StatusOK, envelope{
		"message": fmt.Sprintf("Payment status updated to %s", order.PaymentStatus),
		"order":   order,
	})
}

// Export handles GET /api/order/export?status=.
func (h *OrderHandler) Export(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	writeWorkbook(w, r, "orders.xlsx", func(out io.Writer) error {
		return h.service.Export(r.Context(), out, status)
	}, h.logger)
}

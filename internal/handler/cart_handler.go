package handler

import (
	"fmt"
	"net/http"

	"prolens/internal/model"
	"prolens/internal/service"
	"prolens/internal/validate"

	"github.com/rs/zerolog"
)

// CartHandler handles cart requests for the authenticated user.
type CartHandler struct {
	service   service.CartService
	validator *validate.Validator
	logger    zerolog.Logger
}

// NewCartHandler creates a new cart handler.
func NewCartHandler(service service.CartService, validator *validate.Validator, logger zerolog.Logger) *CartHandler {
	return &CartHandler{
		service:   service,
		validator: validator,
		logger:    logger.With().Str("handler", "cart").Logger(),
	}
}

// Add handles POST /api/cart/add.
func (h *CartHandler) Add(w http.ResponseWriter, r *http.Request) {
	identity, err := caller(r)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	var req model.CartRequest
	if err := decode(w, r, h.validator, &req); err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	line, err := h.service.Add(r.Context(), identity.UserID, &req)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	writeSuccess(w, http.StatusOK, envelope{
		"message":  fmt.Sprintf("Cart updated: %d item(s)", line.Quantity),
		"cartItem": line,
	})
}

// Get handles GET /api/cart/getCart.
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	identity, err := caller(r)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	lines, err := h.service.Get(r.Context(), identity.UserID)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	writeSuccess(w, http.StatusOK, envelope{"cartItems": lines})
}

// Update handles PUT /api/cart/update.
func (h *CartHandler) Update(w http.ResponseWriter, r *http.Request) {
	identity, err := caller(r)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	var req model.CartRequest
	if err := decode(w, r, h.validator, &req); err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	line, err := h.service.Update(r.Context(), identity.UserID, &req)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	writeSuccess(w, http.StatusOK, envelope{
		"message":  fmt.Sprintf("Cart updated: %d item(s)", line.Quantity),
		"cartItem": line,
	})
}

// Remove handles DELETE /api/cart/{productId}.
func (h *CartHandler) Remove(w http.ResponseWriter, r *http.Request) {
	identity, err := caller(r)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	productID, err := pathID(r, "productId")
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	if err := h.service.Remove(r.Context(), identity.UserID, productID); err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	writeSuccess(w, http.StatusOK, envelope{"message": "Item removed from cart"})
}

package handler

import (
	"net/http"

	"prolens/internal/model"
	"prolens/internal/service"
	"prolens/internal/validate"

	"github.com/rs/zerolog"
)

// ShippingHandler handles saved delivery details.
type ShippingHandler struct {
	service   service.ShippingService
	validator *validate.Validator
	logger    zerolog.Logger
}

// NewShippingHandler creates a new shipping handler.
func NewShippingHandler(service service.ShippingService, validator *validate.Validator, logger zerolog.Logger) *ShippingHandler {
	return &ShippingHandler{
		service:   service,
		validator: validator,
		logger:    logger.With().Str("handler", "shipping").Logger(),
	}
}

// Save handles POST /api/shipping/saveShipping.
func (h *ShippingHandler) Save(w http.ResponseWriter, r *http.Request) {
	identity, err := caller(r)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	var req model.ShippingRequest
	if err := decode(w, r, h.validator, &req); err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	shipping, err := h.service.Save(r.Context(), identity.UserID, &req)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	writeSuccess(w, http.StatusOK, envelope{
		"message": "Shipping details saved successfully",
		"data":    shipping,
	})
}

// Get handles GET /api/shipping/getsavedshipping.
func (h *ShippingHandler) Get(w http.ResponseWriter, r *http.Request) {
	identity, err := caller(r)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	shipping, err := h.service.Get(r.Context(), identity.UserID)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	writeSuccess(w, http.StatusOK, envelope{"data": shipping})
}

// List handles GET /api/shipping/getAllShipping.
func (h *ShippingHandler) List(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.service.List(r.Context())
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	writeSuccess(w, http.StatusOK, envelope{"count": len(profiles), "data": profiles})
}

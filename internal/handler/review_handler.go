package handler

import (
	"net/http"

	"prolens/internal/model"
	"prolens/internal/service"
	"prolens/internal/validate"

	"github.com/rs/zerolog"
)

// ReviewHandler handles product reviews.
type ReviewHandler struct {
	service   service.ReviewService
	validator *validate.Validator
	logger    zerolog.Logger
}

// NewReviewHandler creates a new review handler.
func NewReviewHandler(service service.ReviewService, validator *validate.Validator, logger zerolog.Logger) *ReviewHandler {
	return &ReviewHandler{
		service:   service,
		validator: validator,
		logger:    logger.With().Str("handler", "review").Logger(),
	}
}

// Create handles POST /api/review/createreview.
func (h *ReviewHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity, err := caller(r)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	var req model.ReviewRequest
	if err := decode(w, r, h.validator, &req); err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	review, err := h.service.Create(r.Context(), identity.UserID, &req)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	writeSuccess(w, http.StatusCreated, envelope{
		"message": "Review created successfully",
		"review":  review,
	})
}

// ListByProduct handles GET /api/review/getreview/{productId}.
func (h *ReviewHandler) ListByProduct(w http.ResponseWriter, r *http.Request) {
	productID, err := pathID(r, "productId")
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	reviews, err := h.service.ListByProduct(r.Context(), productID)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	writeSuccess(w, http.StatusOK, envelope{"reviews": reviews})
}

// GetByID handles GET /api/review/getreview-by-id/{reviewId}.
func (h *ReviewHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "reviewId")
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	review, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	writeSuccess(w, http.StatusOK, envelope{"review": review})
}

// Update handles PUT /api/review/updatereview/{id}.
func (h *ReviewHandler) Update(w http.ResponseWriter, r *http.Request) {
	identity, err := caller(r)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	var req model.ReviewUpdateRequest
	if err := decode(w, r, h.validator, &req); err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	review, err := h.service.Update(r.Context(), identity.UserID, id, &req)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	writeSuccess(w, http.StatusOK, envelope{
		"message": "Review updated successfully",
		"review":  review,
	})
}

// Delete handles DELETE /api/review/deletereview/{id}.
func (h *ReviewHandler) Delete(w http.ResponseWriter, r *http.Request) {
	identity, err := caller(r)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	if err := h.service.Delete(r.Context(), identity.UserID, id); err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	writeSuccess(w, http.StatusOK, envelope{"message": "Review deleted successfully"})
}

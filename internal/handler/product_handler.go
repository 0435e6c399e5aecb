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

// ProductHandler handles product-related HTTP requests.
type ProductHandler struct {
	service   service.ProductService
	validator *validate.Validator
	logger    zerolog.Logger
}

// NewProductHandler creates a new product handler.
func NewProductHandler(service service.ProductService, validator *validate.Validator, logger zerolog.Logger) *ProductHandler {
	return &ProductHandler{
		service:   service,
		validator: validator,
		logger:    logger.With().Str("handler", "product").Logger(),
	}
}

// List handles GET /api/products/all.
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	filter, err := productFilter(r, model.Category(r.URL.Query().Get("category")))
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	products, err := h.service.List(r.Context(), filter)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	writeSuccess(w, http.StatusOK, envelope{
		"message": "Products fetched successfully",
		"results": products,
	})
}

// ByCategory handles GET /api/products/category/{category}.
func (h *ProductHandler) ByCategory(w http.ResponseWriter, r *http.Request) {
	category := model.Category(r.PathValue("category"))
	if category == "" {
		writeError(w, r, model.NewValidationError("Category is required"), h.logger)
		return
	}

	filter, err := productFilter(r, category)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	products, err := h.service.List(r.Context(), filter)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	writeSuccess(w, http.StatusOK, envelope{"results": products})
}

func productFilter(r *http.Request, category model.Category) (model.ProductFilter, error) {
	limit, err := queryInt(r, "limit", 0)
	if err != nil {
		return model.ProductFilter{}, err
	}
	offset, err := queryInt(r, "offset", 0)
	if err != nil {
		return model.ProductFilter{}, err
	}
	return model.ProductFilter{Category: category, Limit: limit, Offset: offset}, nil
}

// Categories handles GET /api/products/categories.
func (h *ProductHandler) Categories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.Categories(r.Context())
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	writeSuccess(w, http.StatusOK, envelope{"data": categories})
}

// Related handles GET /api/products/related?id=&category=.
func (h *ProductHandler) Related(w http.ResponseWriter, r *http.Request) {
	id, err := queryID(r, "id")
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	products, err := h.service.Related(r.Context(), id, model.Category(r.URL.Query().Get("category")))
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	writeSuccess(w, http.StatusOK, envelope{"products": products})
}

// GetByID handles GET /api/products/{id}.
func (h *ProductHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	product, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	writeSuccess(w, http.StatusOK, envelope{"product": product})
}

// Create handles POST /api/products/addproduct.
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.ProductRequest
	if err := decode(w, r, h.validator, &req); err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	product, err := h.service.Create(r.Context(), &req)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	writeSuccess(w, http.StatusCreated, envelope{
		"message": fmt.Sprintf("%s has been added to the rental fleet", product.Name),
		"product": product,
	})
}

// Update handles PUT /api/products/{id}.
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	var req model.ProductRequest
	if err := decode(w, r, h.validator, &req); err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	product, err := h.service.Update(r.Context(), id, &req)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	writeSuccess(w, http.StatusOK, envelope{
		"message": "Product updated successfully",
		"product": product,
	})
}

// Delete handles DELETE /api/products/{id}.
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	writeSuccess(w, http.StatusOK, envelope{"message": "Product deleted successfully"})
}

// Export handles GET /api/products/export.
func (h *ProductHandler) Export(w http.ResponseWriter, r *http.Request) {
	writeWorkbook(w, r, "inventory.xlsx", func(out io.Writer) error {
		return h.service.Export(r.Context(), out)
	}, h.logger)
}

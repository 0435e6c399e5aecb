package router

import (
	"net/http"

	"prolens/internal/handler"
	"prolens/internal/metrics"
	"prolens/internal/middleware"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// Handlers groups the resource handlers mounted by New.
type Handlers struct {
	Product  *handler.ProductHandler
	Cart     *handler.CartHandler
	Order    *handler.OrderHandler
	Shipping *handler.ShippingHandler
	Review   *handler.ReviewHandler
}

// New creates a new HTTP router with all routes and middleware configured.
func New(
	h Handlers,
	verifier middleware.TokenVerifier,
	m *metrics.Metrics,
	gatherer prometheus.Gatherer,
	logger zerolog.Logger,
) http.Handler {
	mux := http.NewServeMux()

	authenticate := middleware.Authenticate(verifier, logger)
	requireAdmin := middleware.RequireAdmin(logger)

	public := func(fn http.HandlerFunc) http.Handler { return fn }
	user := func(fn http.HandlerFunc) http.Handler { return authenticate(fn) }
	admin := func(fn http.HandlerFunc) http.Handler { return authenticate(requireAdmin(fn)) }

	// Health check endpoint (no authentication required)
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy"}`))
	})
	mux.Handle("GET /metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	// Products. Literal segments take precedence over {id}.
	mux.Handle("GET /api/products/all", public(h.Product.List))
	mux.Handle("GET /api/products/categories", public(h.Product.Categories))
	mux.Handle("GET /api/products/category/{category}", public(h.Product.ByCategory))
	mux.Handle("GET /api/products/related", public(h.Product.Related))
	mux.Handle("GET /api/products/export", admin(h.Product.Export))
	mux.Handle("GET /api/products/{id}", public(h.Product.GetByID))
	mux.Handle("POST /api/products/addproduct", admin(h.Product.Create))
	mux.Handle("PUT /api/products/{id}", admin(h.Product.Update))
	mux.Handle("DELETE /api/products/{id}", admin(h.Product.Delete))

	// Cart
	mux.Handle("POST /api/cart/add", user(h.Cart.Add))
	mux.Handle("GET /api/cart/getCart", user(h.Cart.Get))
	mux.Handle("PUT /api/cart/update", user(h.Cart.Update))
	mux.Handle("DELETE /api/cart/{productId}", user(h.Cart.Remove))

	// Orders
	mux.Handle("POST /api/order/place", user(h.Order.Place))
	mux.Handle("GET /api/order/getorders", user(h.Order.ListMine))
	mux.Handle("GET /api/order/getorder", user(h.Order.GetMine))
	mux.Handle("GET /api/order/get-all", admin(h.Order.ListAll))
	mux.Handle("GET /api/order/details/{id}", admin(h.Order.Details))
	mux.Handle("PUT /api/order/update-status/{id}", admin(h.Order.UpdateStatus))
	mux.Handle("PUT /api/order/update-payment/{id}", admin(h.Order.UpdatePayment))
	mux.Handle("GET /api/order/export", admin(h.Order.Export))

	// Shipping
	mux.Handle("POST /api/shipping/saveShipping", user(h.Shipping.Save))
	mux.Handle("GET /api/shipping/getsavedshipping", user(h.Shipping.Get))
	mux.Handle("GET /api/shipping/getAllShipping", admin(h.Shipping.List))

	// Reviews
	mux.Handle("POST /api/review/createreview", user(h.Review.Create))
	mux.Handle("GET /api/review/getreview/{productId}", public(h.Review.ListByProduct))
	mux.Handle("GET /api/review/getreview-by-id/{reviewId}", user(h.Review.GetByID))
	mux.Handle("PUT /api/review/updatereview/{id}", user(h.Review.Update))
	mux.Handle("DELETE /api/review/deletereview/{id}", user(h.Review.Delete))

	// Apply middleware in order: RequestID -> Recovery -> Logging -> Metrics -> CORS
	var handler http.Handler = mux
	handler = middleware.CORS(handler)
	handler = middleware.Metrics(m)(handler)
	handler = middleware.Logging(logger)(handler)
	handler = middleware.Recovery(logger)(handler)
	handler = middleware.RequestID(handler)

	return handler
}

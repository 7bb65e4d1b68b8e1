package web

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// NewRouter wires every route of the storefront.
func NewRouter(h *Handlers, log *zap.Logger, requestTimeout time.Duration) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(requestLogger(log))
	r.Use(recoverer(h, log))
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(middleware.Compress(5))
	r.Use(SessionMiddleware)

	r.Get("/", h.Home)
	r.Get("/category/{name}", h.Category)
	r.Get("/product/{id}", h.ProductDetail)

	r.Get("/cart", h.CartPage)
	r.Post("/cart/add/{id}", h.AddToCart)
	r.Post("/cart/update", h.UpdateCart)
	r.Post("/cart/clear", h.ClearCart)

	r.Get("/checkout", h.CheckoutPage)
	r.Post("/checkout", h.CheckoutSubmit)
	r.Get("/payment/{orderID}", h.PaymentPage)
	r.Post("/payment/{orderID}/complete", h.CompletePayment)

	r.Get("/orders", h.OrderHistory)
	r.Get("/orders/{orderID}", h.OrderStatus)

	r.Get("/api/cart/count", h.CartCount)
	r.Get("/api/cod", h.CODLimit)
	r.Get("/health", h.Health)

	r.NotFound(h.NotFound)

	return r
}

// requestLogger logs one line per request.
func requestLogger(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			log.Info("request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("duration", time.Since(start)))
		})
	}
}

// recoverer converts a panicking handler into a logged 500 page; one bad
// request never takes the process down.
func recoverer(h *Handlers, log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					log.Error("panic recovered", zap.Any("panic", rec), zap.String("path", r.URL.Path))
					h.render.Render(w, http.StatusInternalServerError, "500.html", Page{Title: "Something went wrong"})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

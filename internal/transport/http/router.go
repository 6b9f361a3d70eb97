// Package http exposes the catalog admin operations as a JSON API.
package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/light-bringer/procat-admin/internal/pkg/logging"
	"github.com/light-bringer/procat-admin/internal/services"
)

// maxRequestBody bounds JSON bodies, which may carry base64 images.
const maxRequestBody = 32 << 20

// NewRouter mounts every catalog endpoint under /api/v1.
func NewRouter(catalog *services.Catalog, logger *zap.Logger) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(requestLogger(logger))
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(60 * time.Second))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	products := NewProductsHandler(catalog)
	attributes := NewAttributesHandler(catalog)
	events := NewEventsHandler(catalog.ListEvents)

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/products", func(r chi.Router) {
			r.Get("/", products.list)
			r.Post("/", products.create)
			r.Get("/{productID}", products.get)
			r.Put("/{productID}", products.edit)
			r.Delete("/{productID}", products.delete)
		})
		r.Post("/variants/plan", products.planVariants)
		r.Route("/attributes/{kind}", func(r chi.Router) {
			r.Get("/", attributes.list)
			r.Post("/", attributes.create)
			r.Put("/{attributeID}", attributes.update)
			r.Delete("/{attributeID}", attributes.delete)
		})
		r.Get("/events", events.ServeHTTP)
	})
	return router
}

// requestLogger stores a request-scoped logger on the context and logs the
// outcome of each request.
func requestLogger(base *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			logger := base.With(
				zap.String("request_id", middleware.GetReqID(r.Context())),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
			)
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(logging.WithLogger(r.Context(), logger)))

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			fields := []zap.Field{
				zap.Int("status", status),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("duration", time.Since(start)),
			}
			if status >= http.StatusInternalServerError {
				logger.Error("request failed", fields...)
				return
			}
			logger.Info("request completed", fields...)
		})
	}
}

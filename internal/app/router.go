package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/linemk/basket-shop/internal/app/handlers"
	"github.com/linemk/basket-shop/internal/lib/logger/handlers/urllog"
	"github.com/linemk/basket-shop/internal/lib/metrics"
	"github.com/linemk/basket-shop/internal/service"
)

// Services - набор сервисов, которые обслуживает HTTP-слой
type Services struct {
	Catalog service.CatalogService
	Basket  service.BasketService
	Orders  service.OrderService
}

// NewRouter собирает chi-роутер со всеми эндпоинтами магазина.
func NewRouter(log *slog.Logger, svc Services, m *metrics.Metrics) http.Handler {
	router := chi.NewRouter()
	// настройка middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(urllog.CustomLoggerMiddleware(log))
	router.Use(middleware.Recoverer)

	router.Route("/api", func(r chi.Router) {
		r.Get("/products", handlers.ProductsHandler(log, svc.Catalog))

		r.Post("/basket", handlers.AddToBasketHandler(log, svc.Basket))
		r.Get("/basket/{userId}", handlers.GetBasketHandler(log, svc.Basket))
		r.Delete("/basket/{userId}", handlers.ClearBasketHandler(log, svc.Basket))

		r.Post("/checkout", handlers.CheckoutHandler(log, svc.Orders))
		r.Post("/confirm-payment", handlers.ConfirmPaymentHandler(log, svc.Orders))

		r.Get("/orders", handlers.ListOrdersHandler(log, svc.Orders))
		r.Get("/orders/user/{userId}", handlers.UserOrdersHandler(log, svc.Orders))
		r.Get("/orders/{orderId}", handlers.OrderHandler(log, svc.Orders))
	})

	router.Handle("/metrics", m.Handler())

	return router
}

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/linemk/basket-shop/internal/service"
)

// ProductsHandler обрабатывает запрос GET /api/products
func ProductsHandler(log *slog.Logger, catalogService service.CatalogService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.ProductsHandler"
		logger := log.With(slog.String("op", op))

		products, err := catalogService.ListProducts(r.Context())
		if err != nil {
			logger.Error("failed to list products", slog.Any("error", err))
			writeError(logger, w, http.StatusInternalServerError, err.Error())
			return
		}

		writeJSON(logger, w, http.StatusOK, products)
	}
}

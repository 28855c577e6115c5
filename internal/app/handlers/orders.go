package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/linemk/basket-shop/internal/service"
	"github.com/linemk/basket-shop/internal/storage"
)

// ListOrdersHandler обрабатывает запрос GET /api/orders
func ListOrdersHandler(log *slog.Logger, orderService service.OrderService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.ListOrdersHandler"
		logger := log.With(slog.String("op", op))

		orders, err := orderService.ListOrders(r.Context())
		if err != nil {
			logger.Error("failed to list orders", slog.Any("error", err))
			writeError(logger, w, http.StatusInternalServerError, err.Error())
			return
		}

		writeJSON(logger, w, http.StatusOK, orders)
	}
}

// UserOrdersHandler обрабатывает запрос GET /api/orders/user/{userId}
func UserOrdersHandler(log *slog.Logger, orderService service.OrderService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.UserOrdersHandler"
		logger := log.With(slog.String("op", op))

		userID, ok := callerFromPath(logger, w, r)
		if !ok {
			return
		}

		orders, err := orderService.ListOrdersByUser(r.Context(), userID)
		if err != nil {
			logger.Error("failed to list user orders", slog.Any("error", err))
			writeError(logger, w, http.StatusInternalServerError, err.Error())
			return
		}

		writeJSON(logger, w, http.StatusOK, orders)
	}
}

// OrderHandler обрабатывает запрос GET /api/orders/{orderId}
func OrderHandler(log *slog.Logger, orderService service.OrderService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.OrderHandler"
		logger := log.With(slog.String("op", op))

		raw := chi.URLParam(r, "orderId")
		orderID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			logger.Error("invalid orderId parameter", slog.String("orderId", raw), slog.Any("error", err))
			writeError(logger, w, http.StatusBadRequest, "invalid orderId")
			return
		}

		details, err := orderService.GetOrder(r.Context(), orderID)
		if err != nil {
			if errors.Is(err, storage.ErrOrderNotFound) {
				writeError(logger, w, http.StatusNotFound, "Order not found")
				return
			}
			logger.Error("failed to get order", slog.Any("error", err))
			writeError(logger, w, http.StatusInternalServerError, err.Error())
			return
		}

		writeJSON(logger, w, http.StatusOK, details)
	}
}

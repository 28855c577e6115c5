package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/linemk/basket-shop/internal/domain/models"
	"github.com/linemk/basket-shop/internal/service"
)

// AddToBasketRequest - тело POST /api/basket.
// Проверяется только наличие полей, значения (в том числе 0) не проверяются.
type AddToBasketRequest struct {
	UserID    *models.CallerID `json:"userId" validate:"required"`
	ProductID *int64           `json:"productId" validate:"required"`
	Quantity  *int             `json:"quantity" validate:"required"`
}

// AddToBasketHandler обрабатывает запрос POST /api/basket
func AddToBasketHandler(log *slog.Logger, basketService service.BasketService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.AddToBasketHandler"
		logger := log.With(slog.String("op", op))

		var req AddToBasketRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Error("invalid request: decoding error", slog.Any("error", err))
			writeError(logger, w, http.StatusBadRequest, "invalid request")
			return
		}

		if err := validate.Struct(req); err != nil {
			logger.Error("invalid request: validation error", slog.Any("error", err))
			writeError(logger, w, http.StatusBadRequest, "userId, productId and quantity are required")
			return
		}

		if err := basketService.AddItem(r.Context(), *req.UserID, *req.ProductID, *req.Quantity); err != nil {
			logger.Error("failed to add product to basket", slog.Any("error", err))
			writeError(logger, w, http.StatusInternalServerError, err.Error())
			return
		}

		writeJSON(logger, w, http.StatusOK, MessageResponse{Message: "Product added to basket"})
	}
}

// GetBasketHandler обрабатывает запрос GET /api/basket/{userId}
func GetBasketHandler(log *slog.Logger, basketService service.BasketService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.GetBasketHandler"
		logger := log.With(slog.String("op", op))

		userID, ok := callerFromPath(logger, w, r)
		if !ok {
			return
		}

		basket, err := basketService.GetBasket(r.Context(), userID)
		if err != nil {
			logger.Error("failed to get basket", slog.Any("error", err))
			writeError(logger, w, http.StatusInternalServerError, err.Error())
			return
		}

		writeJSON(logger, w, http.StatusOK, basket)
	}
}

// ClearBasketHandler обрабатывает запрос DELETE /api/basket/{userId}
func ClearBasketHandler(log *slog.Logger, basketService service.BasketService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.ClearBasketHandler"
		logger := log.With(slog.String("op", op))

		userID, ok := callerFromPath(logger, w, r)
		if !ok {
			return
		}

		if err := basketService.ClearBasket(r.Context(), userID); err != nil {
			logger.Error("failed to clear basket", slog.Any("error", err))
			writeError(logger, w, http.StatusInternalServerError, err.Error())
			return
		}

		writeJSON(logger, w, http.StatusOK, MessageResponse{Message: "Basket cleared successfully"})
	}
}

// callerFromPath достаёт {userId} из пути; при ошибке сам пишет 400
func callerFromPath(logger *slog.Logger, w http.ResponseWriter, r *http.Request) (models.CallerID, bool) {
	raw := chi.URLParam(r, "userId")
	userID, err := models.ParseCallerID(raw)
	if err != nil {
		logger.Error("invalid userId parameter", slog.String("userId", raw), slog.Any("error", err))
		writeError(logger, w, http.StatusBadRequest, "invalid userId")
		return 0, false
	}
	return userID, true
}

package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/linemk/basket-shop/internal/domain/models"
	"github.com/linemk/basket-shop/internal/service"
)

// CheckoutRequest - тело POST /api/checkout.
// Обязательны только userId и items. Сумма и цены позиций принимаются как есть.
type CheckoutRequest struct {
	UserID      *models.CallerID      `json:"userId" validate:"required"`
	Name        string                `json:"name"`
	Email       string                `json:"email"`
	Address     string                `json:"address"`
	TotalAmount float64               `json:"totalAmount"`
	Items       []CheckoutItemRequest `json:"items" validate:"required"`
}

type CheckoutItemRequest struct {
	ProductID int64   `json:"product_id"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

type CheckoutResponse struct {
	Message string `json:"message"`
	OrderID int64  `json:"orderId"`
}

// ConfirmPaymentRequest - тело POST /api/confirm-payment
// Любой id, включая 0 и несуществующий, проходит дальше.
type ConfirmPaymentRequest struct {
	OrderID *int64 `json:"orderId" validate:"required"`
}

// CheckoutHandler обрабатывает запрос POST /api/checkout.
// Корзина после оформления не очищается, это делает клиент.
func CheckoutHandler(log *slog.Logger, orderService service.OrderService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.CheckoutHandler"
		logger := log.With(slog.String("op", op))

		var req CheckoutRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Error("invalid request: decoding error", slog.Any("error", err))
			writeError(logger, w, http.StatusBadRequest, "invalid request")
			return
		}

		if err := validate.Struct(req); err != nil {
			logger.Error("invalid request: validation error", slog.Any("error", err))
			writeError(logger, w, http.StatusBadRequest, "validation error")
			return
		}

		in := service.CheckoutInput{
			UserID:      *req.UserID,
			Name:        req.Name,
			Email:       req.Email,
			Address:     req.Address,
			TotalAmount: req.TotalAmount,
			Items:       make([]service.CheckoutItem, 0, len(req.Items)),
		}
		for _, it := range req.Items {
			in.Items = append(in.Items, service.CheckoutItem{
				ProductID: it.ProductID,
				Quantity:  it.Quantity,
				Price:     it.Price,
			})
		}

		orderID, err := orderService.Checkout(r.Context(), in)
		if err != nil {
			logger.Error("checkout failed", slog.Any("error", err))
			writeError(logger, w, http.StatusInternalServerError, err.Error())
			return
		}

		writeJSON(logger, w, http.StatusOK, CheckoutResponse{Message: "Order created", OrderID: orderID})
	}
}

// ConfirmPaymentHandler обрабатывает запрос POST /api/confirm-payment
func ConfirmPaymentHandler(log *slog.Logger, orderService service.OrderService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.ConfirmPaymentHandler"
		logger := log.With(slog.String("op", op))

		var req ConfirmPaymentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Error("invalid request: decoding error", slog.Any("error", err))
			writeError(logger, w, http.StatusBadRequest, "invalid request")
			return
		}

		if err := validate.Struct(req); err != nil {
			logger.Error("invalid request: validation error", slog.Any("error", err))
			writeError(logger, w, http.StatusBadRequest, "orderId is required")
			return
		}

		if err := orderService.ConfirmPayment(r.Context(), *req.OrderID); err != nil {
			logger.Error("failed to confirm payment", slog.Any("error", err))
			writeError(logger, w, http.StatusInternalServerError, err.Error())
			return
		}

		writeJSON(logger, w, http.StatusOK, MessageResponse{Message: "Payment confirmed"})
	}
}

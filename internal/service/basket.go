package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/linemk/basket-shop/internal/domain/models"
	"github.com/linemk/basket-shop/internal/lib/logger"
	"github.com/linemk/basket-shop/internal/lib/metrics"
	"github.com/linemk/basket-shop/internal/storage"
)

// BasketService определяет операции с корзиной пользователя.
type BasketService interface {
	AddItem(ctx context.Context, userID models.CallerID, productID int64, quantity int) error
	GetBasket(ctx context.Context, userID models.CallerID) (*models.Basket, error)
	ClearBasket(ctx context.Context, userID models.CallerID) error
}

type basketService struct {
	log        *slog.Logger
	basketRepo storage.BasketStorage
	metrics    *metrics.Metrics
}

func NewBasketService(log *slog.Logger, basketRepo storage.BasketStorage, m *metrics.Metrics) BasketService {
	return &basketService{
		log:        log,
		basketRepo: basketRepo,
		metrics:    m,
	}
}

// AddItem добавляет строку в корзину.
// Существование товара не проверяется, строки с одинаковым товаром не объединяются.
func (s *basketService) AddItem(ctx context.Context, userID models.CallerID, productID int64, quantity int) error {
	const op = "service.BasketService.AddItem"
	log := s.log.With(
		slog.String("op", op),
		slog.Int64("userID", userID.Int64()),
		slog.Int64("productID", productID),
		slog.Int("quantity", quantity),
	)

	line := &models.BasketLine{UserID: userID, ProductID: productID, Quantity: quantity}
	if err := s.basketRepo.AddLine(ctx, line); err != nil {
		log.Error("failed to add basket line", logger.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	s.metrics.BasketLinesAdded.Inc()
	log.Info("product added to basket", slog.Int64("basketItemID", line.ID))
	return nil
}

// GetBasket возвращает содержимое корзины и сумму, округлённую до копеек
func (s *basketService) GetBasket(ctx context.Context, userID models.CallerID) (*models.Basket, error) {
	const op = "service.BasketService.GetBasket"
	log := s.log.With(slog.String("op", op), slog.Int64("userID", userID.Int64()))

	items, err := s.basketRepo.GetBasketItems(ctx, userID)
	if err != nil {
		log.Error("failed to get basket items", logger.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &models.Basket{
		Items: items,
		Total: BasketTotal(items),
	}, nil
}

func (s *basketService) ClearBasket(ctx context.Context, userID models.CallerID) error {
	const op = "service.BasketService.ClearBasket"
	log := s.log.With(slog.String("op", op), slog.Int64("userID", userID.Int64()))

	if err := s.basketRepo.ClearBasket(ctx, userID); err != nil {
		log.Error("failed to clear basket", logger.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	s.metrics.BasketsCleared.Inc()
	log.Info("basket cleared")
	return nil
}

// BasketTotal считает сумму price*quantity по всем строкам с округлением до 2 знаков.
func BasketTotal(items []models.BasketItem) float64 {
	sum := decimal.Zero
	for _, item := range items {
		sum = sum.Add(lineTotal(item.Price, item.Quantity))
	}
	return sum.Round(2).InexactFloat64()
}

func lineTotal(price float64, quantity int) decimal.Decimal {
	return decimal.NewFromFloat(price).Mul(decimal.NewFromInt(int64(quantity)))
}

package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/linemk/basket-shop/internal/domain/models"
	"github.com/linemk/basket-shop/internal/lib/logger"
	"github.com/linemk/basket-shop/internal/lib/metrics"
	"github.com/linemk/basket-shop/internal/storage"
)

// OrderService определяет оформление заказа, подтверждение оплаты и чтение заказов.
type OrderService interface {
	Checkout(ctx context.Context, in CheckoutInput) (int64, error)
	ConfirmPayment(ctx context.Context, orderID int64) error
	GetOrder(ctx context.Context, orderID int64) (*models.OrderDetails, error)
	ListOrders(ctx context.Context) ([]models.Order, error)
	ListOrdersByUser(ctx context.Context, userID models.CallerID) ([]models.Order, error)
}

// CheckoutInput - данные оформления заказа в том виде, в каком их прислал клиент.
// Сумма и цены позиций не пересчитываются.
type CheckoutInput struct {
	UserID      models.CallerID
	Name        string
	Email       string
	Address     string
	TotalAmount float64
	Items       []CheckoutItem
}

type CheckoutItem struct {
	ProductID int64
	Quantity  int
	Price     float64
}

type orderService struct {
	log       *slog.Logger
	db        *sql.DB
	orderRepo storage.OrderStorage
	metrics   *metrics.Metrics
}

func NewOrderService(log *slog.Logger, db *sql.DB, orderRepo storage.OrderStorage, m *metrics.Metrics) OrderService {
	return &orderService{
		log:       log,
		db:        db,
		orderRepo: orderRepo,
		metrics:   m,
	}
}

// Checkout создаёт заказ и все его позиции в одной транзакции.
// Если что-то идет не так, транзакция откатывается и ни одна строка не остаётся в БД.
// Корзина здесь не очищается - это отдельный вызов.
func (s *orderService) Checkout(ctx context.Context, in CheckoutInput) (int64, error) {
	const op = "service.OrderService.Checkout"
	log := s.log.With(
		slog.String("op", op),
		slog.Int64("userID", in.UserID.Int64()),
		slog.Int("items", len(in.Items)),
	)
	log.Info("starting checkout transaction")

	s.checkTotal(log, in)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.metrics.CheckoutFailures.Inc()
		log.Error("failed to begin transaction", logger.Err(err))
		return 0, fmt.Errorf("%s: failed to begin transaction: %w", op, err)
	}

	rollback := func() {
		s.metrics.CheckoutFailures.Inc()
		if rbErr := tx.Rollback(); rbErr != nil {
			log.Error("transaction rollback failed", logger.Err(rbErr))
		}
	}

	order := &models.Order{
		UserID:      in.UserID,
		Name:        in.Name,
		Email:       in.Email,
		Address:     in.Address,
		TotalAmount: in.TotalAmount,
		Status:      models.OrderStatusPending,
	}
	if err := s.orderRepo.CreateOrder(ctx, tx, order); err != nil {
		rollback()
		log.Error("failed to create order", logger.Err(err))
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	// Позиции вставляются в том порядке, в котором пришли
	for i, it := range in.Items {
		item := &models.OrderItem{
			OrderID:   order.ID,
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			Price:     it.Price,
		}
		if err := s.orderRepo.CreateOrderItem(ctx, tx, item); err != nil {
			rollback()
			log.Error("failed to create order item",
				slog.Int("position", i),
				slog.Int64("productID", it.ProductID),
				logger.Err(err),
			)
			return 0, fmt.Errorf("%s: %w", op, err)
		}
	}

	if err := tx.Commit(); err != nil {
		s.metrics.CheckoutFailures.Inc()
		log.Error("failed to commit transaction", logger.Err(err))
		return 0, fmt.Errorf("%s: failed to commit transaction: %w", op, err)
	}

	s.metrics.OrdersCreated.Inc()
	log.Info("order created", slog.Int64("orderID", order.ID))
	return order.ID, nil
}

// checkTotal только сообщает о расхождении суммы клиента с суммой позиций, заказ не отклоняется
func (s *orderService) checkTotal(log *slog.Logger, in CheckoutInput) {
	sum := decimal.Zero
	for _, it := range in.Items {
		sum = sum.Add(lineTotal(it.Price, it.Quantity))
	}
	claimed := decimal.NewFromFloat(in.TotalAmount).Round(2)
	if !sum.Round(2).Equal(claimed) {
		s.metrics.TotalMismatches.Inc()
		log.Warn("client total differs from items sum",
			slog.String("totalAmount", claimed.StringFixed(2)),
			slog.String("itemsSum", sum.StringFixed(2)),
		)
	}
}

// ConfirmPayment переводит заказ в статус paid.
// Текущий статус не проверяется, несуществующий заказ - не ошибка.
func (s *orderService) ConfirmPayment(ctx context.Context, orderID int64) error {
	const op = "service.OrderService.ConfirmPayment"
	log := s.log.With(slog.String("op", op), slog.Int64("orderID", orderID))

	affected, err := s.orderRepo.UpdateOrderStatus(ctx, orderID, models.OrderStatusPaid)
	if err != nil {
		log.Error("failed to confirm payment", logger.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	if affected == 0 {
		log.Debug("no order updated")
		return nil
	}
	s.metrics.PaymentsConfirmed.Inc()
	log.Info("payment confirmed")
	return nil
}

// GetOrder собирает заказ с позициями. Сумма берётся из заголовка, а не пересчитывается.
func (s *orderService) GetOrder(ctx context.Context, orderID int64) (*models.OrderDetails, error) {
	const op = "service.OrderService.GetOrder"
	log := s.log.With(slog.String("op", op), slog.Int64("orderID", orderID))

	order, err := s.orderRepo.GetOrderByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, storage.ErrOrderNotFound) {
			log.Info("order not found")
		} else {
			log.Error("failed to get order", logger.Err(err))
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	items, err := s.orderRepo.GetOrderItems(ctx, orderID)
	if err != nil {
		log.Error("failed to get order items", logger.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if items == nil {
		items = []models.OrderItem{}
	}

	return &models.OrderDetails{
		OrderID: order.ID,
		Items:   items,
		Total:   order.TotalAmount,
		Status:  order.Status,
	}, nil
}

func (s *orderService) ListOrders(ctx context.Context) ([]models.Order, error) {
	const op = "service.OrderService.ListOrders"

	orders, err := s.orderRepo.ListOrders(ctx)
	if err != nil {
		s.log.Error("failed to list orders", slog.String("op", op), logger.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return orders, nil
}

func (s *orderService) ListOrdersByUser(ctx context.Context, userID models.CallerID) ([]models.Order, error) {
	const op = "service.OrderService.ListOrdersByUser"

	orders, err := s.orderRepo.GetOrdersByUserID(ctx, userID)
	if err != nil {
		s.log.Error("failed to list orders by user",
			slog.String("op", op),
			slog.Int64("userID", userID.Int64()),
			logger.Err(err),
		)
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return orders, nil
}

package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/linemk/basket-shop/internal/domain/models"
)

var (
	ErrOrderNotFound = errors.New("order not found")
	// ErrUnknownProduct - позиция заказа ссылается на несуществующий товар
	ErrUnknownProduct = errors.New("unknown product")
)

// foreign_key_violation
const pqForeignKeyViolation = "23503"

// OrderStorage описывает методы для работы с заказами и их позициями.
type OrderStorage interface {
	// CreateOrder вставляет заголовок заказа в рамках транзакции и заполняет ID и OrderDate.
	CreateOrder(ctx context.Context, tx *sql.Tx, order *models.Order) error
	// CreateOrderItem вставляет позицию заказа в рамках той же транзакции.
	CreateOrderItem(ctx context.Context, tx *sql.Tx, item *models.OrderItem) error
	// UpdateOrderStatus меняет статус и возвращает число затронутых строк.
	UpdateOrderStatus(ctx context.Context, id int64, status models.OrderStatus) (int64, error)
	GetOrderByID(ctx context.Context, id int64) (*models.Order, error)
	GetOrderItems(ctx context.Context, orderID int64) ([]models.OrderItem, error)
	ListOrders(ctx context.Context) ([]models.Order, error)
	GetOrdersByUserID(ctx context.Context, userID models.CallerID) ([]models.Order, error)
}

// orderRepository — конкретная реализация OrderStorage.
type orderRepository struct {
	db *sql.DB
}

// NewOrderRepository создаёт новый репозиторий заказов.
func NewOrderRepository(db *sql.DB) OrderStorage {
	return &orderRepository{db: db}
}

const orderColumns = "id, order_date, user_id, name, address, email, total_amount, status"

func (r *orderRepository) CreateOrder(ctx context.Context, tx *sql.Tx, order *models.Order) error {
	query := `INSERT INTO orders (user_id, name, email, address, total_amount, status)
	          VALUES ($1, $2, $3, $4, $5, $6)
	          RETURNING id, order_date`
	err := tx.QueryRowContext(ctx, query,
		order.UserID.Int64(), order.Name, order.Email, order.Address, order.TotalAmount, string(order.Status),
	).Scan(&order.ID, &order.OrderDate)
	if err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

func (r *orderRepository) CreateOrderItem(ctx context.Context, tx *sql.Tx, item *models.OrderItem) error {
	query := `INSERT INTO order_items (order_id, product_id, quantity, price)
	          VALUES ($1, $2, $3, $4)`
	_, err := tx.ExecContext(ctx, query, item.OrderID, item.ProductID, item.Quantity, item.Price)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pqForeignKeyViolation && pqErr.Constraint == "order_items_product_id_fkey" {
			return fmt.Errorf("failed to create order item for product %d: %w: %w", item.ProductID, ErrUnknownProduct, err)
		}
		return fmt.Errorf("failed to create order item: %w", err)
	}
	return nil
}

// UpdateOrderStatus не считает отсутствие заказа ошибкой - решение за вызывающим
func (r *orderRepository) UpdateOrderStatus(ctx context.Context, id int64, status models.OrderStatus) (int64, error) {
	res, err := r.db.ExecContext(ctx, "UPDATE orders SET status = $1 WHERE id = $2", string(status), id)
	if err != nil {
		return 0, fmt.Errorf("failed to update order status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return affected, nil
}

func (r *orderRepository) GetOrderByID(ctx context.Context, id int64) (*models.Order, error) {
	order := &models.Order{}
	row := r.db.QueryRowContext(ctx, "SELECT "+orderColumns+" FROM orders WHERE id = $1", id)
	if err := scanOrder(row, order); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return order, nil
}

func (r *orderRepository) GetOrderItems(ctx context.Context, orderID int64) ([]models.OrderItem, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, order_id, product_id, quantity, price FROM order_items WHERE order_id = $1", orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to query order items: %w", err)
	}
	defer rows.Close()

	items := make([]models.OrderItem, 0)
	for rows.Next() {
		var item models.OrderItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.Quantity, &item.Price); err != nil {
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *orderRepository) ListOrders(ctx context.Context) ([]models.Order, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+orderColumns+" FROM orders")
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	return collectOrders(rows)
}

func (r *orderRepository) GetOrdersByUserID(ctx context.Context, userID models.CallerID) ([]models.Order, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+orderColumns+" FROM orders WHERE user_id = $1", userID.Int64())
	if err != nil {
		return nil, fmt.Errorf("failed to query orders by user: %w", err)
	}
	return collectOrders(rows)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner, o *models.Order) error {
	return row.Scan(&o.ID, &o.OrderDate, &o.UserID, &o.Name, &o.Address, &o.Email, &o.TotalAmount, &o.Status)
}

func collectOrders(rows *sql.Rows) ([]models.Order, error) {
	defer rows.Close()

	orders := make([]models.Order, 0)
	for rows.Next() {
		var o models.Order
		if err := scanOrder(rows, &o); err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return orders, nil
}

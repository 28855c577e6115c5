package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/linemk/basket-shop/internal/domain/models"
)

// BasketStorage описывает методы для работы с таблицей basket.
type BasketStorage interface {
	// AddLine вставляет новую строку корзины. Существующие строки с тем же товаром не объединяются.
	AddLine(ctx context.Context, line *models.BasketLine) error
	// GetBasketItems возвращает строки корзины пользователя, соединённые с товарами.
	GetBasketItems(ctx context.Context, userID models.CallerID) ([]models.BasketItem, error)
	// ClearBasket удаляет все строки корзины пользователя.
	ClearBasket(ctx context.Context, userID models.CallerID) error
}

type basketRepository struct {
	db *sql.DB
}

func NewBasketRepository(db *sql.DB) BasketStorage {
	return &basketRepository{db: db}
}

func (r *basketRepository) AddLine(ctx context.Context, line *models.BasketLine) error {
	var id int64
	err := r.db.QueryRowContext(ctx,
		"INSERT INTO basket (user_id, product_id, quantity) VALUES ($1, $2, $3) RETURNING id",
		line.UserID.Int64(), line.ProductID, line.Quantity,
	).Scan(&id)
	if err != nil {
		return fmt.Errorf("failed to add basket line: %w", err)
	}
	line.ID = id
	return nil
}

func (r *basketRepository) GetBasketItems(ctx context.Context, userID models.CallerID) ([]models.BasketItem, error) {
	query := `
		SELECT b.id, p.id, p.name, p.price, b.quantity
		FROM basket b
		JOIN products p ON b.product_id = p.id
		WHERE b.user_id = $1`
	rows, err := r.db.QueryContext(ctx, query, userID.Int64())
	if err != nil {
		return nil, fmt.Errorf("failed to query basket: %w", err)
	}
	defer rows.Close()

	items := make([]models.BasketItem, 0)
	for rows.Next() {
		var item models.BasketItem
		if err := rows.Scan(&item.BasketItemID, &item.ProductID, &item.Name, &item.Price, &item.Quantity); err != nil {
			return nil, fmt.Errorf("failed to scan basket item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// ClearBasket не проверяет количество удалённых строк: пустая корзина - не ошибка
func (r *basketRepository) ClearBasket(ctx context.Context, userID models.CallerID) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM basket WHERE user_id = $1", userID.Int64()); err != nil {
		return fmt.Errorf("failed to clear basket: %w", err)
	}
	return nil
}

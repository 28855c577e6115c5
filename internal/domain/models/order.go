package models

import "time"

// OrderStatus - статус заказа. Единственный переход: pending -> paid.
type OrderStatus string

const (
	OrderStatusPending OrderStatus = "pending"
	OrderStatusPaid    OrderStatus = "paid"
)

// Order - заголовок заказа. Сумма приходит от клиента и сохраняется как есть.
type Order struct {
	ID          int64       `json:"id"`
	OrderDate   time.Time   `json:"order_date"`
	UserID      CallerID    `json:"user_id"`
	Name        string      `json:"name"`
	Address     string      `json:"address"`
	Email       string      `json:"email"`
	TotalAmount float64     `json:"total_amount"`
	Status      OrderStatus `json:"status"`
}

// OrderItem - позиция заказа с ценой на момент покупки
type OrderItem struct {
	ID        int64   `json:"id"`
	OrderID   int64   `json:"order_id"`
	ProductID int64   `json:"product_id"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

// OrderDetails - заказ вместе с позициями, как его отдаёт GET /api/orders/{orderId}
type OrderDetails struct {
	OrderID int64       `json:"orderId"`
	Items   []OrderItem `json:"items"`
	Total   float64     `json:"total"`
	Status  OrderStatus `json:"status"`
}

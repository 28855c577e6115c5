package models

// BasketLine - строка корзины в том виде, в котором она лежит в таблице basket.
// Одна и та же пара (пользователь, товар) может встречаться несколько раз.
type BasketLine struct {
	ID        int64
	UserID    CallerID
	ProductID int64
	Quantity  int
}

// BasketItem - строка корзины, соединённая с товаром
type BasketItem struct {
	BasketItemID int64   `json:"basket_item_id"`
	ProductID    int64   `json:"product_id"`
	Name         string  `json:"name"`
	Price        float64 `json:"price"`
	Quantity     int     `json:"quantity"`
}

// Basket - содержимое корзины пользователя и итоговая сумма
type Basket struct {
	Items []BasketItem `json:"items"`
	Total float64      `json:"total"`
}

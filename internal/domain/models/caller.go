package models

import "strconv"

// CallerID - идентификатор пользователя, который клиент генерирует сам.
// Никак не проверяется сервером: это не аутентификация, а просто метка корзины и заказов.
type CallerID int64

// ParseCallerID разбирает идентификатор из параметра пути.
func ParseCallerID(s string) (CallerID, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, err
	}
	return CallerID(id), nil
}

func (c CallerID) Int64() int64 {
	return int64(c)
}

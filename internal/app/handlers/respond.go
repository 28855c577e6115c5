package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
)

// MessageResponse - ответ для операций, которые ничего не возвращают кроме сообщения
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse - тело любого ответа с ошибкой
type ErrorResponse struct {
	Error string `json:"error"`
}

var validate = validator.New()

func writeJSON(logger *slog.Logger, w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		// заголовок уже отправлен, остаётся только залогировать
		logger.Error("failed to encode response", slog.Any("error", err))
	}
}

func writeError(logger *slog.Logger, w http.ResponseWriter, status int, message string) {
	writeJSON(logger, w, status, ErrorResponse{Error: message})
}

package api

import (
	"errors"
	"fmt"
)

// ErrUnauthorized возвращается на любой ответ 401. Обработчик обязан
// очистить сессию и предложить пользователю войти заново; никакие другие
// данные из такого ответа не применяются.
var ErrUnauthorized = errors.New("требуется авторизация")

// APIError — ошибка, о которой сообщил сервер (статус 4xx/5xx, кроме 401).
// Message содержит текст ошибки сервера дословно, если он был в ответе.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("ошибка сервера (статус %d)", e.StatusCode)
}

// DecodeError — ответ сервера получен, но не разобран. Отличается от
// сетевой ошибки: повторять запрос бессмысленно, формат ответа неожиданный.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("не удалось разобрать ответ сервера: %v", e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// UserMessage возвращает текст ошибки для показа пользователю:
// сообщение сервера дословно, если оно есть, иначе переданный fallback.
func UserMessage(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}

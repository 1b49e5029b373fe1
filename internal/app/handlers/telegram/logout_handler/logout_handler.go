package logout_handler

import (
	"fmt"

	"gopkg.in/telebot.v4"

	"github.com/quizmaker/tg-client/internal/app/state"
	"github.com/quizmaker/tg-client/internal/session"
)

// LogoutHandler структура для обработки выхода из аккаунта. Удаляет
// токен из хранилища и сбрасывает состояние интерфейса: черновики и
// незавершенные прохождения не переживают сессию.
type LogoutHandler struct {
	sessions *session.Sessions
	states   *state.Manager
}

// NewLogoutHandler возвращает структуру обработчика
func NewLogoutHandler(sessions *session.Sessions, states *state.Manager) *LogoutHandler {
	return &LogoutHandler{sessions: sessions, states: states}
}

// Handle выполняет выход.
func (h *LogoutHandler) Handle(c telebot.Context) error {
	userID := c.Sender().ID

	if _, ok := h.sessions.Token(userID); !ok {
		return c.Send("Вы не вошли в аккаунт.")
	}

	if err := h.sessions.Logout(userID); err != nil {
		return fmt.Errorf("sessions.Logout: %w", err)
	}
	h.states.Reset(userID)

	return c.Send("Вы вышли из аккаунта. Чтобы войти снова: /login")
}

// GetHandlerFunc возвращает обработчик в формате telebot.HandlerFunc
func (h *LogoutHandler) GetHandlerFunc() telebot.HandlerFunc {
	return func(c telebot.Context) error {
		return h.Handle(c)
	}
}

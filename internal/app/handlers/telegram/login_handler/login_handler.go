package login_handler

import (
	"gopkg.in/telebot.v4"

	"github.com/quizmaker/tg-client/internal/app/state"
	"github.com/quizmaker/tg-client/internal/session"
)

// LoginHandler структура для обработки команды /login. Сам вход проходит
// в два шага через текстовые сообщения: идентификатор, затем пароль.
type LoginHandler struct {
	sessions *session.Sessions
	states   *state.Manager
}

// NewLoginHandler возвращает структуру обработчика
func NewLoginHandler(sessions *session.Sessions, states *state.Manager) *LoginHandler {
	return &LoginHandler{sessions: sessions, states: states}
}

// Handle начинает диалог входа.
func (h *LoginHandler) Handle(c telebot.Context) error {
	userID := c.Sender().ID

	if st, ok := h.sessions.Get(userID); ok && st.LoggedIn() {
		return c.Send("Вы уже вошли в аккаунт. Чтобы сменить пользователя, сначала выйдите: /logout")
	}

	us := h.states.Get(userID)
	us.Lock()
	defer us.Unlock()
	us.ClearPending()
	us.Pending = state.InputLoginIdentifier

	return c.Send("Введите имя пользователя или email:")
}

// GetHandlerFunc возвращает обработчик в формате telebot.HandlerFunc
func (h *LoginHandler) GetHandlerFunc() telebot.HandlerFunc {
	return func(c telebot.Context) error {
		return h.Handle(c)
	}
}

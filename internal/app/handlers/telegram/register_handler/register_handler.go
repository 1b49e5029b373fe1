package register_handler

import (
	"gopkg.in/telebot.v4"

	"github.com/quizmaker/tg-client/internal/app/state"
	"github.com/quizmaker/tg-client/internal/session"
)

// RegisterHandler структура для обработки команды /register. Регистрация
// собирается по шагам: имя пользователя, email, пароль.
type RegisterHandler struct {
	sessions *session.Sessions
	states   *state.Manager
}

// NewRegisterHandler возвращает структуру обработчика
func NewRegisterHandler(sessions *session.Sessions, states *state.Manager) *RegisterHandler {
	return &RegisterHandler{sessions: sessions, states: states}
}

// Handle начинает диалог регистрации.
func (h *RegisterHandler) Handle(c telebot.Context) error {
	userID := c.Sender().ID

	if st, ok := h.sessions.Get(userID); ok && st.LoggedIn() {
		return c.Send("Вы уже вошли в аккаунт. Чтобы создать новый, сначала выйдите: /logout")
	}

	us := h.states.Get(userID)
	us.Lock()
	defer us.Unlock()
	us.ClearPending()
	us.Pending = state.InputRegisterUsername

	return c.Send("Введите имя пользователя:")
}

// GetHandlerFunc возвращает обработчик в формате telebot.HandlerFunc
func (h *RegisterHandler) GetHandlerFunc() telebot.HandlerFunc {
	return func(c telebot.Context) error {
		return h.Handle(c)
	}
}

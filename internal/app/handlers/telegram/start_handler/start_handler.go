package start_handler

import (
	"gopkg.in/telebot.v4"

	"github.com/quizmaker/tg-client/internal/app/handlers/telegram/render"
	"github.com/quizmaker/tg-client/internal/session"
)

// StartHandler структура для обработки команды /start
type StartHandler struct {
	sessions *session.Sessions
}

// NewStartHandler возвращает структуру обработчика
func NewStartHandler(sessions *session.Sessions) *StartHandler {
	return &StartHandler{sessions: sessions}
}

// Handle показывает главное меню вошедшему пользователю или предлагает
// войти в аккаунт.
func (h *StartHandler) Handle(c telebot.Context) error {
	if _, ok := h.sessions.Token(c.Sender().ID); !ok {
		return c.Send("Добро пожаловать в QuizMaker!\n\n" +
			"Здесь можно проходить тесты, создавать свои и следить за рейтингом.\n" +
			"Войдите в аккаунт: /login\n" +
			"Или зарегистрируйтесь: /register")
	}

	text, markup := render.MainMenu()
	return c.Send(text, markup)
}

// GetHandlerFunc возвращает обработчик в формате telebot.HandlerFunc
func (h *StartHandler) GetHandlerFunc() telebot.HandlerFunc {
	return func(c telebot.Context) error {
		return h.Handle(c)
	}
}

package ai_create_handler

import (
	"gopkg.in/telebot.v4"

	"github.com/quizmaker/tg-client/internal/app/handlers/telegram/authguard"
	"github.com/quizmaker/tg-client/internal/app/state"
	"github.com/quizmaker/tg-client/internal/editor"
	"github.com/quizmaker/tg-client/internal/session"
)

// AiCreateHandler структура для кнопки AI-генерации теста. Параметры
// (тема, количество вопросов, дополнительные указания) собираются по
// шагам, генерация заменяет текущий черновик целиком.
type AiCreateHandler struct {
	sessions *session.Sessions
	states   *state.Manager
}

// NewAiCreateHandler возвращает структуру обработчика
func NewAiCreateHandler(sessions *session.Sessions, states *state.Manager) *AiCreateHandler {
	return &AiCreateHandler{sessions: sessions, states: states}
}

// Handle начинает диалог AI-генерации.
func (h *AiCreateHandler) Handle(c telebot.Context) error {
	_, ok, err := authguard.RequireToken(c, h.sessions)
	if !ok {
		return err
	}

	us := h.states.Get(c.Sender().ID)
	us.Lock()
	defer us.Unlock()
	if us.Editor == nil {
		us.Editor = editor.New()
	}
	us.ClearPending()
	us.Pending = state.InputAiTopic

	return c.Send("Введите тему теста:")
}

// GetHandlerFunc возвращает обработчик в формате telebot.HandlerFunc
func (h *AiCreateHandler) GetHandlerFunc() telebot.HandlerFunc {
	return func(c telebot.Context) error {
		return h.Handle(c)
	}
}

package submit_test_handler

import (
	"context"

	"gopkg.in/telebot.v4"

	"github.com/quizmaker/tg-client/internal/api"
	"github.com/quizmaker/tg-client/internal/app/handlers/telegram/authguard"
	"github.com/quizmaker/tg-client/internal/app/handlers/telegram/render"
	"github.com/quizmaker/tg-client/internal/app/state"
	"github.com/quizmaker/tg-client/internal/session"
)

// SubmitTestHandler структура для кнопки отправки теста. Пока запрос
// выполняется, повторные нажатия игнорируются, чтобы не создать два
// прохождения.
type SubmitTestHandler struct {
	apiClient *api.Client
	sessions  *session.Sessions
	states    *state.Manager
}

// NewSubmitTestHandler возвращает структуру обработчика
func NewSubmitTestHandler(apiClient *api.Client, sessions *session.Sessions, states *state.Manager) *SubmitTestHandler {
	return &SubmitTestHandler{apiClient: apiClient, sessions: sessions, states: states}
}

// Handle отправляет ответы на проверку и показывает результат.
func (h *SubmitTestHandler) Handle(c telebot.Context) error {
	token, ok, err := authguard.RequireToken(c, h.sessions)
	if !ok {
		return err
	}

	us := h.states.Get(c.Sender().ID)
	us.Lock()
	defer us.Unlock()
	ts := us.Taking
	if ts == nil || ts.Test() == nil {
		return c.Send("Прохождение не найдено. Откройте тест заново: /tests")
	}
	if ts.ReadOnly() {
		return c.Send("Этот тест уже отправлен.")
	}

	if !us.InFlight.CompareAndSwap(false, true) {
		return nil
	}
	defer us.InFlight.Store(false)

	if err := c.Send("Проверяем ответы..."); err != nil {
		return err
	}

	ctx := context.Background()
	if _, err := ts.Submit(ctx, token); err != nil {
		if handled, herr := authguard.HandleUnauthorized(c, h.sessions, err); handled {
			return herr
		}
		return c.Send(api.UserMessage(err, "Не удалось отправить тест. Ответы сохранены, попробуйте еще раз."))
	}

	performers, perr := ts.TopPerformers(ctx, token)
	if perr != nil {
		performers = nil
		// Результат уже сохранен сервером, его показываем в любом случае,
		// но истекшую сессию при этом очищаем.
		if handled, herr := authguard.HandleUnauthorized(c, h.sessions, perr); handled && herr != nil {
			return herr
		}
	}

	return c.Send(render.Results(ts.Test(), ts.Result(), performers), telebot.ModeMarkdown)
}

// GetHandlerFunc возвращает обработчик в формате telebot.HandlerFunc
func (h *SubmitTestHandler) GetHandlerFunc() telebot.HandlerFunc {
	return func(c telebot.Context) error {
		return h.Handle(c)
	}
}

package save_test_handler

import (
	"context"
	"errors"

	"gopkg.in/telebot.v4"

	"github.com/quizmaker/tg-client/internal/api"
	"github.com/quizmaker/tg-client/internal/app/handlers/telegram/authguard"
	"github.com/quizmaker/tg-client/internal/app/state"
	"github.com/quizmaker/tg-client/internal/editor"
	"github.com/quizmaker/tg-client/internal/session"
)

// SaveTestHandler структура для кнопки сохранения теста. Невалидный
// черновик до сервера не доходит, при ошибке сервера черновик сохраняется
// для повторной попытки.
type SaveTestHandler struct {
	apiClient *api.Client
	sessions  *session.Sessions
	states    *state.Manager
}

// NewSaveTestHandler возвращает структуру обработчика
func NewSaveTestHandler(apiClient *api.Client, sessions *session.Sessions, states *state.Manager) *SaveTestHandler {
	return &SaveTestHandler{apiClient: apiClient, sessions: sessions, states: states}
}

// Handle отправляет черновик на сервер.
func (h *SaveTestHandler) Handle(c telebot.Context) error {
	token, ok, err := authguard.RequireToken(c, h.sessions)
	if !ok {
		return err
	}

	us := h.states.Get(c.Sender().ID)
	us.Lock()
	defer us.Unlock()
	if us.Editor == nil {
		return c.Send("Черновик не найден. Начните создание теста заново: /create")
	}

	if !us.InFlight.CompareAndSwap(false, true) {
		return nil
	}
	defer us.InFlight.Store(false)

	if _, err := us.Editor.Submit(context.Background(), h.apiClient, token); err != nil {
		var vErr *editor.ValidationError
		if errors.As(err, &vErr) {
			return c.Send(vErr.Message)
		}
		if handled, herr := authguard.HandleUnauthorized(c, h.sessions, err); handled {
			return herr
		}
		return c.Send(api.UserMessage(err, "Не удалось сохранить тест. Черновик не потерян, попробуйте еще раз."))
	}

	us.Editor = nil
	return c.Send("Тест успешно добавлен!")
}

// GetHandlerFunc возвращает обработчик в формате telebot.HandlerFunc
func (h *SaveTestHandler) GetHandlerFunc() telebot.HandlerFunc {
	return func(c telebot.Context) error {
		return h.Handle(c)
	}
}

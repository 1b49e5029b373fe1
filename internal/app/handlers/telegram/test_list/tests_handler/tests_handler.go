package tests_handler

import (
	"context"

	"gopkg.in/telebot.v4"

	"github.com/quizmaker/tg-client/internal/api"
	"github.com/quizmaker/tg-client/internal/app/handlers/telegram/authguard"
	"github.com/quizmaker/tg-client/internal/app/handlers/telegram/render"
	"github.com/quizmaker/tg-client/internal/app/state"
	"github.com/quizmaker/tg-client/internal/session"
	"github.com/quizmaker/tg-client/internal/testlist"
)

// TestsHandler структура для показа списка тестов. Список загружается
// с сервера целиком, дальнейшая фильтрация и пагинация идут по кэшу.
type TestsHandler struct {
	apiClient *api.Client
	sessions  *session.Sessions
	states    *state.Manager
}

// NewTestsHandler возвращает структуру обработчика
func NewTestsHandler(apiClient *api.Client, sessions *session.Sessions, states *state.Manager) *TestsHandler {
	return &TestsHandler{apiClient: apiClient, sessions: sessions, states: states}
}

// Handle загружает список тестов и показывает первую страницу.
func (h *TestsHandler) Handle(c telebot.Context) error {
	token, ok, err := authguard.RequireToken(c, h.sessions)
	if !ok {
		return err
	}

	us := h.states.Get(c.Sender().ID)
	us.Lock()
	defer us.Unlock()
	us.ClearPending()
	if us.List == nil {
		us.List = testlist.NewViewModel(h.apiClient)
	}

	fromCallback := c.Callback() != nil
	if fromCallback {
		if err := c.Edit("Загрузка тестов..."); err != nil {
			return err
		}
	} else if err := c.Send("Загрузка тестов..."); err != nil {
		return err
	}

	// Каждое открытие раздела перечитывает список: тесты могли добавиться.
	if err := us.List.Load(context.Background(), token); err != nil {
		if handled, herr := authguard.HandleUnauthorized(c, h.sessions, err); handled {
			return herr
		}
		return c.Send(api.UserMessage(err, "Не удалось загрузить тесты."))
	}
	us.List.SetPage(1)

	text, markup := render.TestList(us.List)
	if fromCallback {
		return c.Edit(text, markup, telebot.ModeMarkdown)
	}
	return c.Send(text, markup, telebot.ModeMarkdown)
}

// GetHandlerFunc возвращает обработчик в формате telebot.HandlerFunc
func (h *TestsHandler) GetHandlerFunc() telebot.HandlerFunc {
	return func(c telebot.Context) error {
		return h.Handle(c)
	}
}

package open_test_handler

import (
	"context"
	"fmt"
	"strconv"

	"gopkg.in/telebot.v4"

	"github.com/quizmaker/tg-client/internal/api"
	"github.com/quizmaker/tg-client/internal/app/handlers/telegram/authguard"
	"github.com/quizmaker/tg-client/internal/app/handlers/telegram/render"
	"github.com/quizmaker/tg-client/internal/app/state"
	"github.com/quizmaker/tg-client/internal/session"
	"github.com/quizmaker/tg-client/internal/taking"
)

// OpenTestHandler структура для открытия теста из списка. Создает сессию
// прохождения и показывает вопросы отдельными сообщениями, чтобы ответы
// на каждый вопрос редактировали свое сообщение.
type OpenTestHandler struct {
	apiClient *api.Client
	sessions  *session.Sessions
	states    *state.Manager
}

// NewOpenTestHandler возвращает структуру обработчика
func NewOpenTestHandler(apiClient *api.Client, sessions *session.Sessions, states *state.Manager) *OpenTestHandler {
	return &OpenTestHandler{apiClient: apiClient, sessions: sessions, states: states}
}

// Handle загружает тест и начинает (или показывает завершенное) прохождение.
func (h *OpenTestHandler) Handle(c telebot.Context) error {
	token, ok, err := authguard.RequireToken(c, h.sessions)
	if !ok {
		return err
	}

	testID, err := strconv.Atoi(c.Data())
	if err != nil {
		return c.Send("Не удалось определить тест. Откройте список заново: /tests")
	}

	us := h.states.Get(c.Sender().ID)
	us.Lock()
	defer us.Unlock()
	us.ClearPending()

	if err := c.Send("Загрузка теста..."); err != nil {
		return err
	}

	ts := taking.NewSession(h.apiClient, testID)
	if err := ts.Load(context.Background(), token); err != nil {
		if handled, herr := authguard.HandleUnauthorized(c, h.sessions, err); handled {
			return herr
		}
		return c.Send(api.UserMessage(err, "Не удалось загрузить тест."))
	}
	us.Taking = ts

	test := ts.Test()

	// Тест уже пройден: показываем сохраненный результат без кнопок ответов.
	if ts.ReadOnly() {
		performers, perr := ts.TopPerformers(context.Background(), token)
		if perr != nil {
			performers = nil
			if handled, herr := authguard.HandleUnauthorized(c, h.sessions, perr); handled {
				return herr
			}
		}
		header := fmt.Sprintf("📝 *%s*\nВы уже проходили этот тест.\n\n", render.Escape(test.Title))
		return c.Send(header+render.Results(test, ts.Result(), performers), telebot.ModeMarkdown)
	}

	header := fmt.Sprintf("📝 *%s*\nВопросов: %d. Отвечайте кнопками под каждым вопросом.", render.Escape(test.Title), len(test.Questions))
	if err := c.Send(header, telebot.ModeMarkdown); err != nil {
		return err
	}

	for i, q := range test.Questions {
		text, markup := render.Question(q, i+1, len(test.Questions), ts.Answers(q.ID), false)
		if err := c.Send(text, markup, telebot.ModeMarkdown); err != nil {
			return err
		}
	}

	text, markup := render.SubmitPrompt(testID)
	return c.Send(text, markup)
}

// GetHandlerFunc возвращает обработчик в формате telebot.HandlerFunc
func (h *OpenTestHandler) GetHandlerFunc() telebot.HandlerFunc {
	return func(c telebot.Context) error {
		return h.Handle(c)
	}
}

package answer_handler

import (
	"strconv"
	"strings"

	"gopkg.in/telebot.v4"

	"github.com/quizmaker/tg-client/internal/app/handlers/telegram/render"
	"github.com/quizmaker/tg-client/internal/app/state"
)

// AnswerHandler структура для кнопок вариантов ответа. Данные кнопки:
// "<ID вопроса>|<номер варианта>". Нажатие переключает выбор и
// перерисовывает сообщение вопроса.
type AnswerHandler struct {
	states *state.Manager
}

// NewAnswerHandler возвращает структуру обработчика
func NewAnswerHandler(states *state.Manager) *AnswerHandler {
	return &AnswerHandler{states: states}
}

// Handle переключает вариант ответа.
func (h *AnswerHandler) Handle(c telebot.Context) error {
	us := h.states.Get(c.Sender().ID)
	us.Lock()
	defer us.Unlock()
	ts := us.Taking
	if ts == nil || ts.Test() == nil {
		return c.Send("Прохождение не найдено. Откройте тест заново: /tests")
	}

	parts := strings.Split(c.Data(), "|")
	if len(parts) != 2 {
		return c.Send("Не удалось обработать ответ. Откройте тест заново: /tests")
	}
	questionID := parts[0]
	optIndex, err := strconv.Atoi(parts[1])
	if err != nil {
		return c.Send("Не удалось обработать ответ. Откройте тест заново: /tests")
	}

	test := ts.Test()
	number := 0
	for i := range test.Questions {
		if test.Questions[i].ID == questionID {
			number = i + 1
			break
		}
	}
	if number == 0 {
		return c.Send("Вопрос не найден. Откройте тест заново: /tests")
	}

	q := test.Questions[number-1]
	if optIndex < 0 || optIndex >= len(q.Options) {
		return c.Send("Вариант ответа не найден.")
	}

	if err := ts.SelectOption(questionID, q.Options[optIndex]); err != nil {
		return c.Send(err.Error())
	}

	text, markup := render.Question(q, number, len(test.Questions), ts.Answers(questionID), false)
	return c.Edit(text, markup, telebot.ModeMarkdown)
}

// GetHandlerFunc возвращает обработчик в формате telebot.HandlerFunc
func (h *AnswerHandler) GetHandlerFunc() telebot.HandlerFunc {
	return func(c telebot.Context) error {
		return h.Handle(c)
	}
}

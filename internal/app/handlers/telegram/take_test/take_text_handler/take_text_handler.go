package take_text_handler

import (
	"gopkg.in/telebot.v4"

	"github.com/quizmaker/tg-client/internal/app/state"
)

// TakeTextHandler структура для кнопки "Ввести ответ" у текстового
// вопроса. Сам ответ придет следующим текстовым сообщением.
type TakeTextHandler struct {
	states *state.Manager
}

// NewTakeTextHandler возвращает структуру обработчика
func NewTakeTextHandler(states *state.Manager) *TakeTextHandler {
	return &TakeTextHandler{states: states}
}

// Handle запрашивает текстовый ответ на вопрос из данных кнопки.
func (h *TakeTextHandler) Handle(c telebot.Context) error {
	us := h.states.Get(c.Sender().ID)
	us.Lock()
	defer us.Unlock()
	if us.Taking == nil || us.Taking.Test() == nil {
		return c.Send("Прохождение не найдено. Откройте тест заново: /tests")
	}

	questionID := c.Data()
	if questionID == "" {
		return c.Send("Не удалось определить вопрос. Откройте тест заново: /tests")
	}

	us.ClearPending()
	us.Pending = state.InputTakingTextAnswer
	us.TakingQuestion = questionID

	return c.Send("Введите ваш ответ:")
}

// GetHandlerFunc возвращает обработчик в формате telebot.HandlerFunc
func (h *TakeTextHandler) GetHandlerFunc() telebot.HandlerFunc {
	return func(c telebot.Context) error {
		return h.Handle(c)
	}
}

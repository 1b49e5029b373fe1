package tag_filter_handler

import (
	"gopkg.in/telebot.v4"

	"github.com/quizmaker/tg-client/internal/app/handlers/telegram/render"
	"github.com/quizmaker/tg-client/internal/app/state"
)

// TagFilterHandler структура для кнопок фильтра по тегу. Пустое значение
// в данных кнопки снимает фильтр.
type TagFilterHandler struct {
	states *state.Manager
}

// NewTagFilterHandler возвращает структуру обработчика
func NewTagFilterHandler(states *state.Manager) *TagFilterHandler {
	return &TagFilterHandler{states: states}
}

// Handle применяет фильтр по тегу и показывает первую страницу.
func (h *TagFilterHandler) Handle(c telebot.Context) error {
	us := h.states.Get(c.Sender().ID)
	us.Lock()
	defer us.Unlock()
	if us.List == nil || !us.List.Loaded() {
		return c.Send("Список тестов устарел, откройте его заново: /tests")
	}

	tag := c.Data()
	if tag == us.List.Filter() {
		// Повторное нажатие снимает фильтр.
		tag = ""
	}
	us.List.SetFilter(tag)

	text, markup := render.TestList(us.List)
	return c.Edit(text, markup, telebot.ModeMarkdown)
}

// GetHandlerFunc возвращает обработчик в формате telebot.HandlerFunc
func (h *TagFilterHandler) GetHandlerFunc() telebot.HandlerFunc {
	return func(c telebot.Context) error {
		return h.Handle(c)
	}
}

package page_handler

import (
	"gopkg.in/telebot.v4"

	"github.com/quizmaker/tg-client/internal/app/handlers/telegram/render"
	"github.com/quizmaker/tg-client/internal/app/state"
)

// PageHandler структура для кнопок пагинации списка тестов. Работает
// только по загруженному кэшу, новых запросов к серверу не делает.
type PageHandler struct {
	states *state.Manager
}

// NewPageHandler возвращает структуру обработчика
func NewPageHandler(states *state.Manager) *PageHandler {
	return &PageHandler{states: states}
}

// HandleNext переключает список на следующую страницу.
func (h *PageHandler) HandleNext(c telebot.Context) error {
	return h.turn(c, 1)
}

// HandlePrev переключает список на предыдущую страницу.
func (h *PageHandler) HandlePrev(c telebot.Context) error {
	return h.turn(c, -1)
}

func (h *PageHandler) turn(c telebot.Context, delta int) error {
	us := h.states.Get(c.Sender().ID)
	us.Lock()
	defer us.Unlock()
	if us.List == nil || !us.List.Loaded() {
		return c.Send("Список тестов устарел, откройте его заново: /tests")
	}

	page := us.List.Page() + delta
	if page < 1 {
		return c.Send("Вы находитесь в начале списка.")
	}
	if page > us.List.PageCount() {
		return c.Send("Вы находитесь в конце списка.")
	}

	us.List.SetPage(page)
	text, markup := render.TestList(us.List)
	return c.Edit(text, markup, telebot.ModeMarkdown)
}

// GetNextHandlerFunc возвращает обработчик следующей страницы.
func (h *PageHandler) GetNextHandlerFunc() telebot.HandlerFunc {
	return func(c telebot.Context) error {
		return h.HandleNext(c)
	}
}

// GetPrevHandlerFunc возвращает обработчик предыдущей страницы.
func (h *PageHandler) GetPrevHandlerFunc() telebot.HandlerFunc {
	return func(c telebot.Context) error {
		return h.HandlePrev(c)
	}
}

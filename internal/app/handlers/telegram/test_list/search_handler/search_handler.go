package search_handler

import (
	"strings"

	"gopkg.in/telebot.v4"

	"github.com/quizmaker/tg-client/internal/app/handlers/telegram/render"
	"github.com/quizmaker/tg-client/internal/app/state"
)

// SearchHandler структура для команды /search. Поиск идет по названию
// теста без учета регистра, по уже загруженному списку.
type SearchHandler struct {
	states *state.Manager
}

// NewSearchHandler возвращает структуру обработчика
func NewSearchHandler(states *state.Manager) *SearchHandler {
	return &SearchHandler{states: states}
}

// Handle применяет поисковый запрос из аргумента команды. Без аргумента
// запрашивает текст отдельным сообщением.
func (h *SearchHandler) Handle(c telebot.Context) error {
	us := h.states.Get(c.Sender().ID)
	us.Lock()
	defer us.Unlock()
	if us.List == nil || !us.List.Loaded() {
		return c.Send("Сначала откройте список тестов: /tests")
	}

	query := strings.TrimSpace(c.Message().Payload)
	if query == "" {
		us.ClearPending()
		us.Pending = state.InputSearch
		return c.Send("Введите текст для поиска (или \"-\", чтобы сбросить поиск):")
	}

	us.List.SetSearch(query)
	text, markup := render.TestList(us.List)
	return c.Send(text, markup, telebot.ModeMarkdown)
}

// GetHandlerFunc возвращает обработчик в формате telebot.HandlerFunc
func (h *SearchHandler) GetHandlerFunc() telebot.HandlerFunc {
	return func(c telebot.Context) error {
		return h.Handle(c)
	}
}

package prompt_handler

import (
	"strconv"

	"gopkg.in/telebot.v4"

	"github.com/quizmaker/tg-client/internal/app/state"
)

// PromptHandler структура для кнопок редактора, которые запрашивают
// текстовый ввод: название, теги, текст вопроса, баллы, вариант ответа,
// правильный текстовый ответ. Сам ввод обрабатывает текстовый роутер.
type PromptHandler struct {
	states *state.Manager
}

// NewPromptHandler возвращает структуру обработчика
func NewPromptHandler(states *state.Manager) *PromptHandler {
	return &PromptHandler{states: states}
}

// HandleTitle запрашивает название теста.
func (h *PromptHandler) HandleTitle(c telebot.Context) error {
	us, ok := h.draftState(c)
	defer us.Unlock()
	if !ok {
		return c.Send("Черновик не найден. Начните создание теста заново: /create")
	}
	us.Pending = state.InputEditorTitle
	return c.Send("Введите название теста:")
}

// HandleTags запрашивает теги.
func (h *PromptHandler) HandleTags(c telebot.Context) error {
	us, ok := h.draftState(c)
	defer us.Unlock()
	if !ok {
		return c.Send("Черновик не найден. Начните создание теста заново: /create")
	}
	us.Pending = state.InputEditorTags
	return c.Send("Введите теги через запятую:")
}

// HandleQuestionText запрашивает текст вопроса из данных кнопки.
func (h *PromptHandler) HandleQuestionText(c telebot.Context) error {
	return h.questionPrompt(c, state.InputQuestionText, "Введите текст вопроса:")
}

// HandleQuestionPoints запрашивает количество баллов за вопрос.
func (h *PromptHandler) HandleQuestionPoints(c telebot.Context) error {
	return h.questionPrompt(c, state.InputQuestionPoints, "Введите количество баллов за вопрос:")
}

// HandleAddOption запрашивает текст нового варианта ответа.
func (h *PromptHandler) HandleAddOption(c telebot.Context) error {
	return h.questionPrompt(c, state.InputOptionText, "Введите текст варианта ответа:")
}

// HandleTextAnswer запрашивает правильный ответ текстового вопроса.
func (h *PromptHandler) HandleTextAnswer(c telebot.Context) error {
	return h.questionPrompt(c, state.InputEditorTextAnswer, "Введите правильный ответ:")
}

func (h *PromptHandler) questionPrompt(c telebot.Context, pending state.PendingInput, prompt string) error {
	us, ok := h.draftState(c)
	defer us.Unlock()
	if !ok {
		return c.Send("Черновик не найден. Начните создание теста заново: /create")
	}

	index, err := strconv.Atoi(c.Data())
	if err != nil || index < 0 || index >= len(us.Editor.Draft().Questions) {
		return c.Send("Вопрос не найден, откройте черновик заново: /create")
	}

	us.Pending = pending
	us.QuestionIndex = index
	return c.Send(prompt)
}

// draftState захватывает состояние пользователя; вызывающий обязан
// освободить его через defer us.Unlock() независимо от ok.
func (h *PromptHandler) draftState(c telebot.Context) (*state.UserState, bool) {
	us := h.states.Get(c.Sender().ID)
	us.Lock()
	if us.Editor == nil {
		return us, false
	}
	us.ClearPending()
	return us, true
}

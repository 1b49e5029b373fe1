package editor_handler

import (
	"errors"
	"strconv"
	"strings"

	"gopkg.in/telebot.v4"

	"github.com/quizmaker/tg-client/internal/app/handlers/telegram/authguard"
	"github.com/quizmaker/tg-client/internal/app/handlers/telegram/render"
	"github.com/quizmaker/tg-client/internal/app/state"
	"github.com/quizmaker/tg-client/internal/domain/model"
	"github.com/quizmaker/tg-client/internal/editor"
	"github.com/quizmaker/tg-client/internal/session"
)

// EditorHandler структура для кнопок редактора теста: сводка черновика,
// добавление и удаление вопросов, смена типа, отметка правильных ответов.
// Черновик живет в памяти до сохранения или выхода из аккаунта.
type EditorHandler struct {
	sessions *session.Sessions
	states   *state.Manager
}

// NewEditorHandler возвращает структуру обработчика
func NewEditorHandler(sessions *session.Sessions, states *state.Manager) *EditorHandler {
	return &EditorHandler{sessions: sessions, states: states}
}

// HandleOverview показывает сводку черновика, создавая его при первом
// обращении.
func (h *EditorHandler) HandleOverview(c telebot.Context) error {
	_, ok, err := authguard.RequireToken(c, h.sessions)
	if !ok {
		return err
	}

	us := h.states.Get(c.Sender().ID)
	us.Lock()
	defer us.Unlock()
	us.ClearPending()
	if us.Editor == nil {
		us.Editor = editor.New()
	}

	text, markup := render.EditorOverview(us.Editor)
	if c.Callback() != nil {
		return c.Edit(text, markup, telebot.ModeMarkdown)
	}
	return c.Send(text, markup, telebot.ModeMarkdown)
}

// HandleAddQuestion добавляет вопрос и открывает его карточку.
func (h *EditorHandler) HandleAddQuestion(c telebot.Context) error {
	us, ok := h.editorState(c)
	defer us.Unlock()
	if !ok {
		return c.Send("Черновик не найден. Начните создание теста заново: /create")
	}

	index := us.Editor.AddQuestion()
	text, markup := render.QuestionEditor(us.Editor, index)
	return c.Edit(text, markup, telebot.ModeMarkdown)
}

// HandleEditQuestion открывает карточку вопроса из данных кнопки.
func (h *EditorHandler) HandleEditQuestion(c telebot.Context) error {
	us, ok := h.editorState(c)
	defer us.Unlock()
	if !ok {
		return c.Send("Черновик не найден. Начните создание теста заново: /create")
	}

	index, err := h.questionIndex(us.Editor, c.Data())
	if err != nil {
		return c.Send(err.Error())
	}

	text, markup := render.QuestionEditor(us.Editor, index)
	return c.Edit(text, markup, telebot.ModeMarkdown)
}

// HandleQuestionType меняет тип вопроса. Данные кнопки: "<индекс>|<тип>".
func (h *EditorHandler) HandleQuestionType(c telebot.Context) error {
	us, ok := h.editorState(c)
	defer us.Unlock()
	if !ok {
		return c.Send("Черновик не найден. Начните создание теста заново: /create")
	}

	parts := strings.Split(c.Data(), "|")
	if len(parts) != 2 {
		return c.Send("Не удалось обработать нажатие, откройте вопрос заново.")
	}
	index, err := h.questionIndex(us.Editor, parts[0])
	if err != nil {
		return c.Send(err.Error())
	}

	if err := us.Editor.SetQuestionType(index, model.QuestionType(parts[1])); err != nil {
		return c.Send(err.Error())
	}

	text, markup := render.QuestionEditor(us.Editor, index)
	return c.Edit(text, markup, telebot.ModeMarkdown)
}

// HandleToggleCorrect отмечает или снимает отметку правильного ответа.
// Данные кнопки: "<индекс вопроса>|<номер варианта>".
func (h *EditorHandler) HandleToggleCorrect(c telebot.Context) error {
	us, ok := h.editorState(c)
	defer us.Unlock()
	if !ok {
		return c.Send("Черновик не найден. Начните создание теста заново: /create")
	}

	parts := strings.Split(c.Data(), "|")
	if len(parts) != 2 {
		return c.Send("Не удалось обработать нажатие, откройте вопрос заново.")
	}
	index, err := h.questionIndex(us.Editor, parts[0])
	if err != nil {
		return c.Send(err.Error())
	}
	optIndex, err := strconv.Atoi(parts[1])
	if err != nil {
		return c.Send("Не удалось обработать нажатие, откройте вопрос заново.")
	}

	q := us.Editor.Draft().Questions[index]
	if optIndex < 0 || optIndex >= len(q.Options) {
		return c.Send("Вариант ответа не найден.")
	}
	option := q.Options[optIndex]

	checked := true
	for _, a := range q.CorrectAnswers {
		if a == option {
			checked = false
			break
		}
	}

	if err := us.Editor.ToggleCorrectAnswer(index, option, checked); err != nil {
		return c.Send(err.Error())
	}

	text, markup := render.QuestionEditor(us.Editor, index)
	return c.Edit(text, markup, telebot.ModeMarkdown)
}

// HandleDeleteQuestion удаляет вопрос и возвращает к сводке черновика.
func (h *EditorHandler) HandleDeleteQuestion(c telebot.Context) error {
	us, ok := h.editorState(c)
	defer us.Unlock()
	if !ok {
		return c.Send("Черновик не найден. Начните создание теста заново: /create")
	}

	index, err := h.questionIndex(us.Editor, c.Data())
	if err != nil {
		return c.Send(err.Error())
	}
	if err := us.Editor.RemoveQuestion(index); err != nil {
		return c.Send(err.Error())
	}

	text, markup := render.EditorOverview(us.Editor)
	return c.Edit(text, markup, telebot.ModeMarkdown)
}

// editorState захватывает состояние пользователя; вызывающий обязан
// освободить его через defer us.Unlock() независимо от ok.
func (h *EditorHandler) editorState(c telebot.Context) (*state.UserState, bool) {
	us := h.states.Get(c.Sender().ID)
	us.Lock()
	if us.Editor == nil {
		return us, false
	}
	us.ClearPending()
	return us, true
}

func (h *EditorHandler) questionIndex(e *editor.Editor, raw string) (int, error) {
	index, err := strconv.Atoi(raw)
	if err != nil || index < 0 || index >= len(e.Draft().Questions) {
		return 0, errInvalidQuestion
	}
	return index, nil
}

// Текст ошибки показывается пользователю как есть.
var errInvalidQuestion = errors.New("Вопрос не найден, откройте черновик заново: /create")

package text_handler

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"gopkg.in/telebot.v4"

	"github.com/quizmaker/tg-client/internal/api"
	"github.com/quizmaker/tg-client/internal/app/handlers/telegram/authguard"
	"github.com/quizmaker/tg-client/internal/app/handlers/telegram/render"
	"github.com/quizmaker/tg-client/internal/app/state"
	"github.com/quizmaker/tg-client/internal/editor"
	"github.com/quizmaker/tg-client/internal/session"
)

// TextHandler структура для обработки текстовых сообщений. Единая точка
// входа для всех диалоговых шагов: куда направить сообщение, решает
// маркер ожидаемого ввода в состоянии пользователя.
type TextHandler struct {
	apiClient *api.Client
	sessions  *session.Sessions
	states    *state.Manager
}

// NewTextHandler возвращает структуру обработчика
func NewTextHandler(apiClient *api.Client, sessions *session.Sessions, states *state.Manager) *TextHandler {
	return &TextHandler{apiClient: apiClient, sessions: sessions, states: states}
}

// Handle направляет сообщение в нужный диалоговый шаг.
func (h *TextHandler) Handle(c telebot.Context) error {
	us := h.states.Get(c.Sender().ID)
	us.Lock()
	defer us.Unlock()
	text := strings.TrimSpace(c.Text())

	switch us.Pending {
	case state.InputLoginIdentifier:
		return h.loginIdentifier(c, us, text)
	case state.InputLoginPassword:
		return h.loginPassword(c, us, text)
	case state.InputRegisterUsername:
		return h.registerUsername(c, us, text)
	case state.InputRegisterEmail:
		return h.registerEmail(c, us, text)
	case state.InputRegisterPassword:
		return h.registerPassword(c, us, text)
	case state.InputSearch:
		return h.search(c, us, text)
	case state.InputEditorTitle:
		return h.editorTitle(c, us, text)
	case state.InputEditorTags:
		return h.editorTags(c, us, text)
	case state.InputQuestionText:
		return h.questionText(c, us, text)
	case state.InputQuestionPoints:
		return h.questionPoints(c, us, text)
	case state.InputOptionText:
		return h.optionText(c, us, text)
	case state.InputEditorTextAnswer:
		return h.editorTextAnswer(c, us, text)
	case state.InputAiTopic:
		return h.aiTopic(c, us, text)
	case state.InputAiCount:
		return h.aiCount(c, us, text)
	case state.InputAiInstructions:
		return h.aiInstructions(c, us, text)
	case state.InputTakingTextAnswer:
		return h.takingTextAnswer(c, us, text)
	}

	return c.Send("Используйте кнопки меню или команды: /start, /tests, /create")
}

// --- Вход ---

func (h *TextHandler) loginIdentifier(c telebot.Context, us *state.UserState, text string) error {
	if text == "" {
		return c.Send("Введите имя пользователя или email:")
	}
	us.LoginIdentifier = text
	us.Pending = state.InputLoginPassword
	return c.Send("Введите пароль:")
}

func (h *TextHandler) loginPassword(c telebot.Context, us *state.UserState, text string) error {
	identifier := us.LoginIdentifier
	us.ClearPending()
	us.LoginIdentifier = ""

	// Сообщение с паролем не должно оставаться в чате.
	_ = c.Delete()

	token, err := h.apiClient.Login(context.Background(), identifier, text)
	if err != nil {
		var apiErr *api.APIError
		if errors.Is(err, api.ErrUnauthorized) || errors.As(err, &apiErr) {
			return c.Send("Неверные данные. Попробуйте снова: /login")
		}
		return c.Send("Не удалось связаться с сервером. Попробуйте позже: /login")
	}

	if err := h.sessions.Login(c.Sender().ID, identifier, token); err != nil {
		return c.Send("Не удалось сохранить сессию. Попробуйте снова: /login")
	}

	menu, markup := render.MainMenu()
	return c.Send("Вы вошли в аккаунт.\n\n"+menu, markup)
}

// --- Регистрация ---

func (h *TextHandler) registerUsername(c telebot.Context, us *state.UserState, text string) error {
	if text == "" {
		return c.Send("Введите имя пользователя:")
	}
	us.RegisterUsername = text
	us.Pending = state.InputRegisterEmail
	return c.Send("Введите email:")
}

func (h *TextHandler) registerEmail(c telebot.Context, us *state.UserState, text string) error {
	if !strings.Contains(text, "@") {
		return c.Send("Введите корректный email:")
	}
	us.RegisterEmail = text
	us.Pending = state.InputRegisterPassword
	return c.Send("Введите пароль:")
}

func (h *TextHandler) registerPassword(c telebot.Context, us *state.UserState, text string) error {
	username := us.RegisterUsername
	email := us.RegisterEmail
	us.ClearPending()
	us.RegisterUsername = ""
	us.RegisterEmail = ""

	_ = c.Delete()

	ctx := context.Background()
	if _, err := h.apiClient.Register(ctx, username, email, text); err != nil {
		return c.Send(api.UserMessage(err, "Ошибка регистрации. Попробуйте снова: /register"))
	}

	// Сразу входим под новым аккаунтом.
	token, err := h.apiClient.Login(ctx, username, text)
	if err != nil {
		return c.Send("Регистрация прошла успешно! Теперь войдите: /login")
	}
	if err := h.sessions.Login(c.Sender().ID, username, token); err != nil {
		return c.Send("Регистрация прошла успешно! Теперь войдите: /login")
	}

	menu, markup := render.MainMenu()
	return c.Send("Регистрация прошла успешно!\n\n"+menu, markup)
}

// --- Поиск по списку тестов ---

func (h *TextHandler) search(c telebot.Context, us *state.UserState, text string) error {
	us.ClearPending()
	if us.List == nil || !us.List.Loaded() {
		return c.Send("Сначала откройте список тестов: /tests")
	}

	if text == "-" {
		text = ""
	}
	us.List.SetSearch(text)

	msg, markup := render.TestList(us.List)
	return c.Send(msg, markup, telebot.ModeMarkdown)
}

// --- Редактор теста ---

func (h *TextHandler) editorTitle(c telebot.Context, us *state.UserState, text string) error {
	if us.Editor == nil {
		us.ClearPending()
		return c.Send("Черновик не найден. Начните создание теста заново: /create")
	}
	us.ClearPending()
	us.Editor.SetTitle(text)
	return h.sendOverview(c, us)
}

func (h *TextHandler) editorTags(c telebot.Context, us *state.UserState, text string) error {
	if us.Editor == nil {
		us.ClearPending()
		return c.Send("Черновик не найден. Начните создание теста заново: /create")
	}
	us.ClearPending()
	us.Editor.SetTags(text)
	return h.sendOverview(c, us)
}

func (h *TextHandler) questionText(c telebot.Context, us *state.UserState, text string) error {
	index, ok := h.questionIndex(us)
	if !ok {
		return c.Send("Черновик не найден. Начните создание теста заново: /create")
	}
	if err := us.Editor.UpdateQuestion(index, editor.QuestionPatch{Text: &text}); err != nil {
		return c.Send(err.Error())
	}
	return h.sendQuestion(c, us, index)
}

func (h *TextHandler) questionPoints(c telebot.Context, us *state.UserState, text string) error {
	if us.Editor == nil {
		us.ClearPending()
		return c.Send("Черновик не найден. Начните создание теста заново: /create")
	}

	points, err := strconv.Atoi(text)
	if err != nil || points <= 0 {
		// Маркер не сбрасываем: ждем корректное число.
		return c.Send("Баллы за вопрос должны быть больше 0. Введите целое число:")
	}

	index, ok := h.questionIndex(us)
	if !ok {
		return c.Send("Черновик не найден. Начните создание теста заново: /create")
	}
	if err := us.Editor.UpdateQuestion(index, editor.QuestionPatch{Points: &points}); err != nil {
		return c.Send(err.Error())
	}
	return h.sendQuestion(c, us, index)
}

func (h *TextHandler) optionText(c telebot.Context, us *state.UserState, text string) error {
	if text == "" {
		// Маркер не сбрасываем: ждем непустой текст варианта.
		return c.Send("Введите текст варианта ответа:")
	}

	index, ok := h.questionIndex(us)
	if !ok {
		return c.Send("Черновик не найден. Начните создание теста заново: /create")
	}

	if err := us.Editor.AddOption(index); err != nil {
		return c.Send(err.Error())
	}
	optIndex := len(us.Editor.Draft().Questions[index].Options) - 1
	if err := us.Editor.UpdateOption(index, optIndex, text); err != nil {
		return c.Send(err.Error())
	}
	return h.sendQuestion(c, us, index)
}

func (h *TextHandler) editorTextAnswer(c telebot.Context, us *state.UserState, text string) error {
	index, ok := h.questionIndex(us)
	if !ok {
		return c.Send("Черновик не найден. Начните создание теста заново: /create")
	}
	if err := us.Editor.SetTextAnswer(index, text); err != nil {
		return c.Send(err.Error())
	}
	return h.sendQuestion(c, us, index)
}

// --- AI-генерация ---

func (h *TextHandler) aiTopic(c telebot.Context, us *state.UserState, text string) error {
	if text == "" {
		return c.Send("Введите тему теста:")
	}
	us.AiTopic = text
	us.Pending = state.InputAiCount
	return c.Send("Введите количество вопросов (от 1 до 50):")
}

func (h *TextHandler) aiCount(c telebot.Context, us *state.UserState, text string) error {
	count, err := strconv.Atoi(text)
	if err != nil || count < 1 || count > 50 {
		return c.Send("Количество вопросов должно быть от 1 до 50. Введите число:")
	}
	us.AiCount = count
	us.Pending = state.InputAiInstructions
	return c.Send("Дополнительные указания для генерации (или \"-\", чтобы пропустить):")
}

func (h *TextHandler) aiInstructions(c telebot.Context, us *state.UserState, text string) error {
	topic := us.AiTopic
	count := us.AiCount
	us.ClearPending()
	us.AiTopic = ""
	us.AiCount = 0

	if us.Editor == nil {
		return c.Send("Черновик не найден. Начните создание теста заново: /create")
	}

	token, ok, err := authguard.RequireToken(c, h.sessions)
	if !ok {
		return err
	}

	if text == "-" {
		text = ""
	}

	if !us.InFlight.CompareAndSwap(false, true) {
		return nil
	}
	defer us.InFlight.Store(false)

	if err := c.Send("Генерируем тест, это может занять время..."); err != nil {
		return err
	}

	req := api.GenerateTestRequest{
		Topic:               topic,
		NumberOfQuestions:   count,
		SpecialInstructions: text,
	}
	if err := us.Editor.Generate(context.Background(), h.apiClient, token, req); err != nil {
		var vErr *editor.ValidationError
		if errors.As(err, &vErr) {
			return c.Send(vErr.Message)
		}
		if handled, herr := authguard.HandleUnauthorized(c, h.sessions, err); handled {
			return herr
		}
		return c.Send(api.UserMessage(err, "Не удалось сгенерировать тест. Попробуйте еще раз."))
	}

	if err := c.Send("Тест сгенерирован. Проверьте вопросы перед сохранением."); err != nil {
		return err
	}
	return h.sendOverview(c, us)
}

// --- Текстовый ответ при прохождении ---

func (h *TextHandler) takingTextAnswer(c telebot.Context, us *state.UserState, text string) error {
	questionID := us.TakingQuestion
	us.ClearPending()

	if us.Taking == nil || us.Taking.Test() == nil {
		return c.Send("Прохождение не найдено. Откройте тест заново: /tests")
	}
	if err := us.Taking.SetTextAnswer(questionID, text); err != nil {
		return c.Send(err.Error())
	}
	return c.Send("Ответ сохранен. Когда будете готовы, отправьте тест кнопкой \"📤 Отправить тест\".")
}

// --- Вспомогательные ---

func (h *TextHandler) questionIndex(us *state.UserState) (int, bool) {
	index := us.QuestionIndex
	us.ClearPending()
	if us.Editor == nil || index < 0 || index >= len(us.Editor.Draft().Questions) {
		return 0, false
	}
	return index, true
}

func (h *TextHandler) sendOverview(c telebot.Context, us *state.UserState) error {
	text, markup := render.EditorOverview(us.Editor)
	return c.Send(text, markup, telebot.ModeMarkdown)
}

func (h *TextHandler) sendQuestion(c telebot.Context, us *state.UserState, index int) error {
	text, markup := render.QuestionEditor(us.Editor, index)
	return c.Send(text, markup, telebot.ModeMarkdown)
}

// GetHandlerFunc возвращает обработчик в формате telebot.HandlerFunc
func (h *TextHandler) GetHandlerFunc() telebot.HandlerFunc {
	return func(c telebot.Context) error {
		return h.Handle(c)
	}
}

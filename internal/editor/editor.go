package editor

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/quizmaker/tg-client/internal/api"
	"github.com/quizmaker/tg-client/internal/domain/model"
)

// Status — состояние редактора теста.
type Status string

const (
	StatusIdle         Status = "idle"          // пустой черновик
	StatusEditing      Status = "editing"       // идет редактирование
	StatusSubmitting   Status = "submitting"    // черновик отправляется на сервер
	StatusSubmitted    Status = "submitted"     // тест сохранен, черновик больше не нужен
	StatusSubmitFailed Status = "submit_failed" // сохранение не удалось, продолжаем редактирование
)

// ValidationError — нарушение правила заполнения черновика. Обнаруживается
// до обращения к серверу и показывается пользователю как есть.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// TestCreator сохраняет тест на сервере.
type TestCreator interface {
	CreateTest(ctx context.Context, token string, req api.CreateTestRequest) (*model.Test, error)
}

// TestGenerator запрашивает у сервера AI-сгенерированный тест.
type TestGenerator interface {
	GenerateTest(ctx context.Context, token string, req api.GenerateTestRequest) (*model.Test, error)
}

// Draft — черновик теста. Существует только в памяти: после успешного
// сохранения авторитетной становится серверная копия, черновик выбрасывается.
type Draft struct {
	Title     string
	Tags      []string
	Questions []model.Question
}

// Editor ведет черновик теста через последовательность правок.
type Editor struct {
	draft  Draft
	status Status
}

// New создает редактор с пустым черновиком.
func New() *Editor {
	return &Editor{status: StatusIdle}
}

// Draft возвращает текущий черновик.
func (e *Editor) Draft() Draft {
	return e.draft
}

// Status возвращает состояние редактора.
func (e *Editor) Status() Status {
	return e.status
}

func (e *Editor) markEditing() {
	if e.status == StatusIdle || e.status == StatusSubmitFailed {
		e.status = StatusEditing
	}
}

// SetTitle задает название теста.
func (e *Editor) SetTitle(title string) {
	e.draft.Title = title
	e.markEditing()
}

// SetTags разбирает строку тегов через запятую, как поле тегов веб-формы.
func (e *Editor) SetTags(raw string) {
	parts := strings.Split(raw, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if tag := strings.TrimSpace(p); tag != "" {
			tags = append(tags, tag)
		}
	}
	e.draft.Tags = tags
	e.markEditing()
}

// AddQuestion добавляет вопрос со значениями по умолчанию и возвращает
// его индекс. Черновой ID нужен для привязки кнопок, сервер при
// сохранении присваивает свой.
func (e *Editor) AddQuestion() int {
	e.draft.Questions = append(e.draft.Questions, model.Question{
		ID:             uuid.NewString(),
		Text:           "",
		Type:           model.QuestionSingle,
		Options:        []string{},
		CorrectAnswers: []string{},
		Points:         0,
	})
	e.markEditing()
	return len(e.draft.Questions) - 1
}

// RemoveQuestion удаляет вопрос. Нужен для правки AI-сгенерированного
// черновика перед сохранением.
func (e *Editor) RemoveQuestion(index int) error {
	if err := e.checkIndex(index); err != nil {
		return err
	}
	e.draft.Questions = append(e.draft.Questions[:index], e.draft.Questions[index+1:]...)
	return nil
}

// QuestionPatch — частичное обновление вопроса: заполненные поля
// заменяют текущие значения, nil-поля не трогаются.
type QuestionPatch struct {
	Text           *string
	Type           *model.QuestionType
	Options        *[]string
	CorrectAnswers *[]string
	Points         *int
}

// UpdateQuestion применяет частичное обновление к вопросу.
func (e *Editor) UpdateQuestion(index int, patch QuestionPatch) error {
	if err := e.checkIndex(index); err != nil {
		return err
	}
	q := &e.draft.Questions[index]
	if patch.Text != nil {
		q.Text = *patch.Text
	}
	if patch.Type != nil {
		q.Type = *patch.Type
	}
	if patch.Options != nil {
		q.Options = *patch.Options
	}
	if patch.CorrectAnswers != nil {
		q.CorrectAnswers = *patch.CorrectAnswers
	}
	if patch.Points != nil {
		q.Points = *patch.Points
	}
	e.markEditing()
	return nil
}

// SetQuestionType меняет тип вопроса, сбрасывая варианты и правильные
// ответы — прежние значения не имеют смысла для нового типа.
func (e *Editor) SetQuestionType(index int, qType model.QuestionType) error {
	t := qType
	empty := []string{}
	return e.UpdateQuestion(index, QuestionPatch{
		Type:           &t,
		Options:        &empty,
		CorrectAnswers: &[]string{},
	})
}

// AddOption добавляет пустой вариант ответа к вопросу.
func (e *Editor) AddOption(qIndex int) error {
	if err := e.checkIndex(qIndex); err != nil {
		return err
	}
	q := &e.draft.Questions[qIndex]
	q.Options = append(q.Options, "")
	e.markEditing()
	return nil
}

// UpdateOption заменяет текст одного варианта ответа.
func (e *Editor) UpdateOption(qIndex, optIndex int, value string) error {
	if err := e.checkIndex(qIndex); err != nil {
		return err
	}
	q := &e.draft.Questions[qIndex]
	if optIndex < 0 || optIndex >= len(q.Options) {
		return fmt.Errorf("вариант %d не найден", optIndex+1)
	}
	q.Options[optIndex] = value
	e.markEditing()
	return nil
}

// ToggleCorrectAnswer отмечает или снимает отметку правильного ответа.
// Для вопроса с одним ответом отметка заменяет весь набор, снятие очищает
// его. Для множественного выбора значение добавляется или удаляется,
// повторное добавление не создает дубликатов.
func (e *Editor) ToggleCorrectAnswer(qIndex int, value string, checked bool) error {
	if err := e.checkIndex(qIndex); err != nil {
		return err
	}
	q := &e.draft.Questions[qIndex]

	if q.Type == model.QuestionSingle {
		if checked {
			q.CorrectAnswers = []string{value}
		} else {
			q.CorrectAnswers = []string{}
		}
		e.markEditing()
		return nil
	}

	if checked {
		for _, a := range q.CorrectAnswers {
			if a == value {
				return nil
			}
		}
		q.CorrectAnswers = append(q.CorrectAnswers, value)
	} else {
		kept := q.CorrectAnswers[:0]
		for _, a := range q.CorrectAnswers {
			if a != value {
				kept = append(kept, a)
			}
		}
		q.CorrectAnswers = kept
	}
	e.markEditing()
	return nil
}

// SetTextAnswer задает ожидаемый ответ текстового вопроса.
func (e *Editor) SetTextAnswer(qIndex int, answer string) error {
	return e.UpdateQuestion(qIndex, QuestionPatch{CorrectAnswers: &[]string{answer}})
}

// Validate проверяет черновик перед отправкой. Возвращается первое
// нарушенное правило; до сервера невалидный черновик не доходит.
func (e *Editor) Validate() error {
	if strings.TrimSpace(e.draft.Title) == "" {
		return &ValidationError{Message: "Введите название теста"}
	}
	if len(e.draft.Questions) == 0 {
		return &ValidationError{Message: "Добавьте хотя бы один вопрос"}
	}
	for _, q := range e.draft.Questions {
		if strings.TrimSpace(q.Text) == "" {
			return &ValidationError{Message: "Все вопросы должны иметь текст"}
		}
		if q.Points <= 0 {
			return &ValidationError{Message: "Баллы за вопрос должны быть больше 0"}
		}
		if q.HasChoices() && len(q.Options) == 0 {
			return &ValidationError{Message: "Вопросы с выбором должны иметь варианты ответа"}
		}
		if len(q.CorrectAnswers) == 0 {
			return &ValidationError{Message: "Укажите правильные ответы для всех вопросов"}
		}
	}
	return nil
}

// Submit проверяет черновик и сохраняет тест на сервере. При успехе
// редактор переходит в submitted и возвращает серверную копию; при
// неудаче возвращается к редактированию, ошибка отдается вызывающему.
func (e *Editor) Submit(ctx context.Context, creator TestCreator, token string) (*model.Test, error) {
	if err := e.Validate(); err != nil {
		return nil, err
	}

	e.status = StatusSubmitting
	created, err := creator.CreateTest(ctx, token, api.CreateTestRequest{
		Title:     e.draft.Title,
		Tags:      e.draft.Tags,
		Questions: e.draft.Questions,
	})
	if err != nil {
		// Черновик сохраняется, следующая правка вернет редактор в editing.
		e.status = StatusSubmitFailed
		return nil, err
	}

	e.status = StatusSubmitted
	return created, nil
}

// Generate запрашивает у сервера готовый тест по теме и целиком заменяет
// им черновик. Дальше пользователь правит его обычным редактором.
func (e *Editor) Generate(ctx context.Context, generator TestGenerator, token string, req api.GenerateTestRequest) error {
	if strings.TrimSpace(req.Topic) == "" {
		return &ValidationError{Message: "Введите тему теста"}
	}
	if req.NumberOfQuestions < 1 || req.NumberOfQuestions > 50 {
		return &ValidationError{Message: "Количество вопросов должно быть от 1 до 50"}
	}

	generated, err := generator.GenerateTest(ctx, token, req)
	if err != nil {
		return err
	}

	e.draft = Draft{
		Title:     generated.Title,
		Tags:      generated.Tags,
		Questions: generated.Questions,
	}
	e.status = StatusEditing
	return nil
}

func (e *Editor) checkIndex(index int) error {
	if index < 0 || index >= len(e.draft.Questions) {
		return fmt.Errorf("вопрос %d не найден", index+1)
	}
	return nil
}

package editor

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/quizmaker/tg-client/internal/api"
	"github.com/quizmaker/tg-client/internal/domain/model"
)

// fakeServer изображает сервер для операций создания и генерации тестов.
type fakeServer struct {
	created   *api.CreateTestRequest
	createErr error
	generated *model.Test
	genErr    error
}

func (f *fakeServer) CreateTest(ctx context.Context, token string, req api.CreateTestRequest) (*model.Test, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = &req
	return &model.Test{ID: 99, Title: req.Title, Tags: req.Tags, Questions: req.Questions}, nil
}

func (f *fakeServer) GenerateTest(ctx context.Context, token string, req api.GenerateTestRequest) (*model.Test, error) {
	if f.genErr != nil {
		return nil, f.genErr
	}
	return f.generated, nil
}

// validEditor собирает редактор с одним корректно заполненным вопросом.
func validEditor(t *testing.T) *Editor {
	t.Helper()
	e := New()
	e.SetTitle("Тест по Go")
	e.SetTags("go, программирование")
	idx := e.AddQuestion()

	text := "Что выводит fmt.Println?"
	points := 10
	if err := e.UpdateQuestion(idx, QuestionPatch{Text: &text, Points: &points}); err != nil {
		t.Fatalf("UpdateQuestion вернул ошибку: %v", err)
	}
	if err := e.AddOption(idx); err != nil {
		t.Fatalf("AddOption вернул ошибку: %v", err)
	}
	if err := e.AddOption(idx); err != nil {
		t.Fatalf("AddOption вернул ошибку: %v", err)
	}
	if err := e.UpdateOption(idx, 0, "строку"); err != nil {
		t.Fatalf("UpdateOption вернул ошибку: %v", err)
	}
	if err := e.UpdateOption(idx, 1, "число"); err != nil {
		t.Fatalf("UpdateOption вернул ошибку: %v", err)
	}
	if err := e.ToggleCorrectAnswer(idx, "строку", true); err != nil {
		t.Fatalf("ToggleCorrectAnswer вернул ошибку: %v", err)
	}
	return e
}

// TestAddQuestionDefaults проверяет значения нового вопроса по умолчанию.
func TestAddQuestionDefaults(t *testing.T) {
	e := New()
	if e.Status() != StatusIdle {
		t.Errorf("новый редактор должен быть в состоянии idle, получено %s", e.Status())
	}

	idx := e.AddQuestion()
	q := e.Draft().Questions[idx]

	if q.Text != "" || q.Type != model.QuestionSingle || len(q.Options) != 0 ||
		len(q.CorrectAnswers) != 0 || q.Points != 0 {
		t.Errorf("неверные значения по умолчанию: %+v", q)
	}
	if q.ID == "" {
		t.Error("у чернового вопроса должен быть ID")
	}
	if e.Status() != StatusEditing {
		t.Errorf("после добавления вопроса ожидалось editing, получено %s", e.Status())
	}
}

// TestToggleCorrectAnswer_Single проверяет, что у вопроса с одним ответом
// набор правильных ответов никогда не превышает одного элемента.
func TestToggleCorrectAnswer_Single(t *testing.T) {
	e := New()
	idx := e.AddQuestion()
	_ = e.AddOption(idx)
	_ = e.AddOption(idx)
	_ = e.UpdateOption(idx, 0, "A")
	_ = e.UpdateOption(idx, 1, "B")

	// Произвольная последовательность отметок.
	_ = e.ToggleCorrectAnswer(idx, "A", true)
	_ = e.ToggleCorrectAnswer(idx, "B", true)
	_ = e.ToggleCorrectAnswer(idx, "A", true)

	answers := e.Draft().Questions[idx].CorrectAnswers
	if len(answers) != 1 {
		t.Fatalf("для single ожидался один правильный ответ, получено %v", answers)
	}
	if answers[0] != "A" {
		t.Errorf("отметка должна заменять набор, получено %v", answers)
	}

	// Снятие отметки очищает набор.
	_ = e.ToggleCorrectAnswer(idx, "A", false)
	if got := e.Draft().Questions[idx].CorrectAnswers; len(got) != 0 {
		t.Errorf("после снятия отметки набор должен быть пуст, получено %v", got)
	}
}

// TestToggleCorrectAnswer_Multiple проверяет идемпотентность повторных
// отметок и снятие отдельных значений для множественного выбора.
func TestToggleCorrectAnswer_Multiple(t *testing.T) {
	e := New()
	idx := e.AddQuestion()
	if err := e.SetQuestionType(idx, model.QuestionMultiple); err != nil {
		t.Fatalf("SetQuestionType вернул ошибку: %v", err)
	}
	_ = e.AddOption(idx)
	_ = e.AddOption(idx)
	_ = e.AddOption(idx)
	_ = e.UpdateOption(idx, 0, "A")
	_ = e.UpdateOption(idx, 1, "B")
	_ = e.UpdateOption(idx, 2, "C")

	_ = e.ToggleCorrectAnswer(idx, "A", true)
	_ = e.ToggleCorrectAnswer(idx, "C", true)
	// Повторная отметка того же значения не создает дубликат.
	_ = e.ToggleCorrectAnswer(idx, "A", true)

	answers := e.Draft().Questions[idx].CorrectAnswers
	if !reflect.DeepEqual(answers, []string{"A", "C"}) {
		t.Errorf("ожидалось [A C], получено %v", answers)
	}

	_ = e.ToggleCorrectAnswer(idx, "A", false)
	// Повторное снятие того же значения ничего не меняет.
	_ = e.ToggleCorrectAnswer(idx, "A", false)

	answers = e.Draft().Questions[idx].CorrectAnswers
	if !reflect.DeepEqual(answers, []string{"C"}) {
		t.Errorf("ожидалось [C], получено %v", answers)
	}
}

// TestSetQuestionType_Resets проверяет, что смена типа вопроса сбрасывает
// варианты и правильные ответы.
func TestSetQuestionType_Resets(t *testing.T) {
	e := New()
	idx := e.AddQuestion()
	_ = e.AddOption(idx)
	_ = e.UpdateOption(idx, 0, "A")
	_ = e.ToggleCorrectAnswer(idx, "A", true)

	if err := e.SetQuestionType(idx, model.QuestionText); err != nil {
		t.Fatalf("SetQuestionType вернул ошибку: %v", err)
	}

	q := e.Draft().Questions[idx]
	if q.Type != model.QuestionText {
		t.Errorf("тип не изменился: %s", q.Type)
	}
	if len(q.Options) != 0 || len(q.CorrectAnswers) != 0 {
		t.Errorf("варианты и ответы должны сбрасываться: %+v", q)
	}
}

// TestValidate перебирает правила проверки черновика: каждое нарушение
// отклоняет отправку со своим сообщением.
func TestValidate(t *testing.T) {
	cases := []struct {
		name    string
		prepare func(t *testing.T) *Editor
		want    string
	}{
		{
			name: "пустое название",
			prepare: func(t *testing.T) *Editor {
				e := validEditor(t)
				e.SetTitle("   ")
				return e
			},
			want: "Введите название теста",
		},
		{
			name: "нет вопросов",
			prepare: func(t *testing.T) *Editor {
				e := New()
				e.SetTitle("Тест")
				return e
			},
			want: "Добавьте хотя бы один вопрос",
		},
		{
			name: "вопрос без текста",
			prepare: func(t *testing.T) *Editor {
				e := validEditor(t)
				blank := "  "
				_ = e.UpdateQuestion(0, QuestionPatch{Text: &blank})
				return e
			},
			want: "Все вопросы должны иметь текст",
		},
		{
			name: "нулевые баллы",
			prepare: func(t *testing.T) *Editor {
				e := validEditor(t)
				zero := 0
				_ = e.UpdateQuestion(0, QuestionPatch{Points: &zero})
				return e
			},
			want: "Баллы за вопрос должны быть больше 0",
		},
		{
			name: "выбор без вариантов",
			prepare: func(t *testing.T) *Editor {
				e := validEditor(t)
				empty := []string{}
				answers := []string{"строку"}
				_ = e.UpdateQuestion(0, QuestionPatch{Options: &empty, CorrectAnswers: &answers})
				return e
			},
			want: "Вопросы с выбором должны иметь варианты ответа",
		},
		{
			name: "нет правильных ответов",
			prepare: func(t *testing.T) *Editor {
				e := validEditor(t)
				_ = e.ToggleCorrectAnswer(0, "строку", false)
				return e
			},
			want: "Укажите правильные ответы для всех вопросов",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.prepare(t).Validate()
			var vErr *ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("ожидалась ValidationError, получено: %v", err)
			}
			if vErr.Message != tc.want {
				t.Errorf("сообщение %q, ожидалось %q", vErr.Message, tc.want)
			}
		})
	}

	if err := validEditor(t).Validate(); err != nil {
		t.Errorf("корректный черновик не должен отклоняться: %v", err)
	}
}

// TestSubmit проверяет переходы состояний при отправке: успех завершает
// редактирование, неудача возвращает к нему.
func TestSubmit(t *testing.T) {
	e := validEditor(t)
	server := &fakeServer{}

	created, err := e.Submit(context.Background(), server, "tok")
	if err != nil {
		t.Fatalf("Submit вернул ошибку: %v", err)
	}
	if created.ID != 99 {
		t.Errorf("ожидалась серверная копия с ID, получено %+v", created)
	}
	if e.Status() != StatusSubmitted {
		t.Errorf("после успеха ожидалось submitted, получено %s", e.Status())
	}
	if server.created == nil || server.created.Title != "Тест по Go" {
		t.Errorf("на сервер ушел неверный черновик: %+v", server.created)
	}

	// Невалидный черновик не доходит до сервера.
	e2 := New()
	failing := &fakeServer{}
	if _, err := e2.Submit(context.Background(), failing, "tok"); err == nil {
		t.Fatal("ожидалась ошибка валидации")
	}
	if failing.created != nil {
		t.Error("невалидный черновик не должен отправляться на сервер")
	}

	// Ошибка сервера оставляет черновик, следующая правка возвращает editing.
	e3 := validEditor(t)
	if _, err := e3.Submit(context.Background(), &fakeServer{createErr: errors.New("boom")}, "tok"); err == nil {
		t.Fatal("ожидалась ошибка сервера")
	}
	if e3.Status() != StatusSubmitFailed {
		t.Errorf("после неудачи ожидалось submit_failed, получено %s", e3.Status())
	}
	e3.SetTitle("Тест по Go (2)")
	if e3.Status() != StatusEditing {
		t.Errorf("правка после неудачи должна возвращать editing, получено %s", e3.Status())
	}
	if len(e3.Draft().Questions) != 1 {
		t.Error("черновик должен сохраняться после неудачной отправки")
	}
}

// TestGenerate проверяет AI-путь: сгенерированный тест целиком заменяет
// черновик, границы количества вопросов соблюдаются.
func TestGenerate(t *testing.T) {
	generated := &model.Test{
		Title: "Алгебра",
		Tags:  []string{"математика"},
		Questions: []model.Question{
			{ID: "g1", Text: "2+2?", Type: model.QuestionSingle, Options: []string{"3", "4"}, CorrectAnswers: []string{"4"}, Points: 5},
		},
	}

	e := New()
	e.SetTitle("Старый черновик")
	e.AddQuestion()

	err := e.Generate(context.Background(), &fakeServer{generated: generated}, "tok", api.GenerateTestRequest{
		Topic:             "Алгебра",
		NumberOfQuestions: 1,
	})
	if err != nil {
		t.Fatalf("Generate вернул ошибку: %v", err)
	}

	draft := e.Draft()
	if draft.Title != "Алгебра" || len(draft.Questions) != 1 || draft.Questions[0].ID != "g1" {
		t.Errorf("черновик не заменен сгенерированным тестом: %+v", draft)
	}

	// Границы количества вопросов.
	for _, n := range []int{0, 51} {
		err := e.Generate(context.Background(), &fakeServer{generated: generated}, "tok", api.GenerateTestRequest{
			Topic:             "Алгебра",
			NumberOfQuestions: n,
		})
		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Errorf("для %d вопросов ожидалась ошибка валидации, получено: %v", n, err)
		}
	}

	// Пустая тема.
	err = e.Generate(context.Background(), &fakeServer{generated: generated}, "tok", api.GenerateTestRequest{
		Topic:             "  ",
		NumberOfQuestions: 5,
	})
	var vErr *ValidationError
	if !errors.As(err, &vErr) || vErr.Message != "Введите тему теста" {
		t.Errorf("для пустой темы ожидалась ошибка валидации, получено: %v", err)
	}
}

// TestSetTags проверяет разбор строки тегов через запятую.
func TestSetTags(t *testing.T) {
	e := New()
	e.SetTags(" go , математика,  ,история ")
	want := []string{"go", "математика", "история"}
	if got := e.Draft().Tags; !reflect.DeepEqual(got, want) {
		t.Errorf("SetTags = %v, ожидалось %v", got, want)
	}
}

// TestRemoveQuestion проверяет удаление вопроса и контроль индексов.
func TestRemoveQuestion(t *testing.T) {
	e := New()
	first := e.AddQuestion()
	second := e.AddQuestion()
	secondID := e.Draft().Questions[second].ID

	if err := e.RemoveQuestion(first); err != nil {
		t.Fatalf("RemoveQuestion вернул ошибку: %v", err)
	}
	if got := e.Draft().Questions; len(got) != 1 || got[0].ID != secondID {
		t.Errorf("удален не тот вопрос: %+v", got)
	}

	if err := e.RemoveQuestion(5); err == nil {
		t.Error("для несуществующего индекса ожидалась ошибка")
	}
}

package taking

import (
	"context"
	"fmt"
	"sort"

	"github.com/quizmaker/tg-client/internal/domain/model"
)

// Status — состояние сессии прохождения теста.
type Status string

const (
	StatusLoading    Status = "loading"
	StatusReady      Status = "ready"
	StatusSubmitting Status = "submitting"
	StatusGraded     Status = "graded"
)

// Server — операции API, нужные сессии прохождения.
type Server interface {
	GetTest(ctx context.Context, token string, id int) (*model.Test, error)
	SubmitTest(ctx context.Context, token string, testID int, answers model.AnswerMap) (*model.SubmissionResult, error)
	GetTopPerformers(ctx context.Context, token string, testID int) ([]model.TopPerformer, error)
}

// Session — прохождение одного теста: загруженный тест, выбранные ответы
// и результат. Ответы живут только в памяти до отправки; уход со страницы
// их теряет.
type Session struct {
	server   Server
	testID   int
	test     *model.Test
	answers  model.AnswerMap
	status   Status
	readOnly bool
	result   *model.SubmissionResult
}

// NewSession создает сессию прохождения теста.
func NewSession(server Server, testID int) *Session {
	return &Session{
		server:  server,
		testID:  testID,
		answers: make(model.AnswerMap),
		status:  StatusLoading,
	}
}

func (s *Session) Test() *model.Test               { return s.test }
func (s *Session) Status() Status                  { return s.status }
func (s *Session) ReadOnly() bool                  { return s.readOnly }
func (s *Session) Result() *model.SubmissionResult { return s.result }

// Answers возвращает выбранные ответы на вопрос.
func (s *Session) Answers(questionID string) []string { return s.answers[questionID] }

// Load загружает тест. Если сервер вернул тест с уже существующей
// попыткой текущего пользователя, сессия сразу переходит в graded:
// ответы заполняются из попытки, ввод отключается.
func (s *Session) Load(ctx context.Context, token string) error {
	test, err := s.server.GetTest(ctx, token, s.testID)
	if err != nil {
		return fmt.Errorf("failed to load test: %w", err)
	}
	s.test = test
	s.answers = make(model.AnswerMap)

	if prior := latestSubmission(test); prior != nil {
		for _, a := range prior.Answers {
			s.answers[a.QuestionID] = a.Answers
		}
		s.readOnly = true
		s.status = StatusGraded
		s.result = &model.SubmissionResult{
			TotalPoints:     prior.TotalPoints,
			EarnedPoints:    prior.EarnedPoints,
			DetailedResults: s.DeriveResults(),
		}
		return nil
	}

	s.readOnly = false
	s.status = StatusReady
	return nil
}

// SelectOption обрабатывает выбор варианта ответа. Для вопроса с одним
// ответом выбор заменяет предыдущий, для множественного — переключает
// принадлежность варианта к набору.
func (s *Session) SelectOption(questionID, option string) error {
	if s.readOnly {
		return fmt.Errorf("тест уже пройден")
	}
	question, err := s.question(questionID)
	if err != nil {
		return err
	}
	if !question.HasChoices() {
		return fmt.Errorf("вопрос %q не имеет вариантов ответа", questionID)
	}

	if question.Type == model.QuestionSingle {
		s.answers[questionID] = []string{option}
		return nil
	}

	current := s.answers[questionID]
	for i, a := range current {
		if a == option {
			s.answers[questionID] = append(current[:i], current[i+1:]...)
			return nil
		}
	}
	s.answers[questionID] = append(current, option)
	return nil
}

// SetTextAnswer задает ответ на текстовый вопрос: ровно одна строка.
func (s *Session) SetTextAnswer(questionID, text string) error {
	if s.readOnly {
		return fmt.Errorf("тест уже пройден")
	}
	question, err := s.question(questionID)
	if err != nil {
		return err
	}
	if question.Type != model.QuestionText {
		return fmt.Errorf("вопрос %q не является текстовым", questionID)
	}
	s.answers[questionID] = []string{text}
	return nil
}

// Submit отправляет все ответы на проверку. После успеха тест
// перезагружается: источником счета служит сохраненная сервером попытка,
// а не тело ответа на отправку.
func (s *Session) Submit(ctx context.Context, token string) (*model.SubmissionResult, error) {
	if s.readOnly {
		return nil, fmt.Errorf("тест уже пройден")
	}
	if s.status != StatusReady {
		return nil, fmt.Errorf("тест еще не загружен")
	}

	s.status = StatusSubmitting
	result, err := s.server.SubmitTest(ctx, token, s.testID, s.answers)
	if err != nil {
		s.status = StatusReady
		return nil, err
	}

	// Перезагружаем тест за сохраненной попыткой. Если перезагрузка не
	// удалась, показываем результат из ответа на отправку.
	if err := s.Load(ctx, token); err != nil || s.result == nil {
		s.result = result
		s.readOnly = true
		s.status = StatusGraded
	}
	return s.result, nil
}

// TopPerformers загружает лучшие результаты по тесту. Запрос независим
// от остальной сессии: его неудача не мешает прохождению.
func (s *Session) TopPerformers(ctx context.Context, token string) ([]model.TopPerformer, error) {
	performers, err := s.server.GetTopPerformers(ctx, token, s.testID)
	if err != nil {
		return nil, fmt.Errorf("failed to load top performers: %w", err)
	}
	return performers, nil
}

// DeriveResults пересчитывает правильность ответов для отображения:
// ответ считается верным, если отсортированный набор выбранных значений
// совпадает с набором правильных ответов вопроса. Только для показа —
// авторитетна всегда серверная проверка.
func (s *Session) DeriveResults() []model.QuestionResult {
	if s.test == nil {
		return nil
	}
	results := make([]model.QuestionResult, 0, len(s.test.Questions))
	for _, q := range s.test.Questions {
		correct := IsAnswerCorrect(s.answers[q.ID], q.CorrectAnswers)
		earned := 0
		if correct {
			earned = q.Points
		}
		results = append(results, model.QuestionResult{
			QuestionID:   q.ID,
			Correct:      correct,
			EarnedPoints: earned,
			TotalPoints:  q.Points,
		})
	}
	return results
}

// IsAnswerCorrect сравнивает наборы строк как множества: сортированные
// копии должны совпасть поэлементно.
func IsAnswerCorrect(submitted, correct []string) bool {
	if len(submitted) != len(correct) {
		return false
	}
	a := append([]string(nil), submitted...)
	b := append([]string(nil), correct...)
	sort.Strings(a)
	sort.Strings(b)
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func (s *Session) question(questionID string) (*model.Question, error) {
	if s.test == nil {
		return nil, fmt.Errorf("тест еще не загружен")
	}
	for i := range s.test.Questions {
		if s.test.Questions[i].ID == questionID {
			return &s.test.Questions[i], nil
		}
	}
	return nil, fmt.Errorf("вопрос %q не найден", questionID)
}

// latestSubmission возвращает самую свежую попытку из пришедших с тестом.
func latestSubmission(test *model.Test) *model.TestSubmission {
	if len(test.TestSubmissions) == 0 {
		return nil
	}
	latest := &test.TestSubmissions[0]
	for i := range test.TestSubmissions {
		if test.TestSubmissions[i].CreatedAt.After(latest.CreatedAt) {
			latest = &test.TestSubmissions[i]
		}
	}
	return latest
}

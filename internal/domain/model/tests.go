package model

// QuestionType определяет тип вопроса теста.
type QuestionType string

const (
	QuestionSingle   QuestionType = "single"   // один правильный ответ
	QuestionMultiple QuestionType = "multiple" // несколько правильных ответов
	QuestionText     QuestionType = "text"     // свободный текстовый ответ
)

// Question представляет вопрос теста
type Question struct {
	ID             string       `json:"id"`
	Text           string       `json:"text"`
	Type           QuestionType `json:"type"`
	Options        []string     `json:"options,omitempty"`
	CorrectAnswers []string     `json:"correctAnswers"`
	Points         int          `json:"points"`
}

// HasChoices сообщает, имеет ли вопрос варианты ответа.
func (q Question) HasChoices() bool {
	return q.Type == QuestionSingle || q.Type == QuestionMultiple
}

// Test представляет тест платформы QuizMaker. ID присваивается сервером
// при создании; черновик в редакторе существует без ID.
type Test struct {
	ID              int              `json:"id"`
	Title           string           `json:"title"`
	Tags            []string         `json:"tags"`
	Questions       []Question       `json:"questions"`
	TestSubmissions []TestSubmission `json:"testSubmissions,omitempty"`
}

// TotalPoints возвращает сумму баллов за все вопросы теста.
func (t Test) TotalPoints() int {
	total := 0
	for _, q := range t.Questions {
		total += q.Points
	}
	return total
}

package model

import "time"

// AnswerMap хранит выбранные пользователем ответы: ключ — ID вопроса,
// значение — набор выбранных вариантов (или введенный текст).
// Существует только в памяти на время прохождения теста.
type AnswerMap map[string][]string

// SubmittedAnswer — ответ на один вопрос в запросе отправки теста.
type SubmittedAnswer struct {
	QuestionID string   `json:"questionId"`
	Answers    []string `json:"answers"`
}

// QuestionResult — результат проверки одного вопроса, вычисляется сервером.
type QuestionResult struct {
	QuestionID   string `json:"questionId"`
	Correct      bool   `json:"correct"`
	EarnedPoints int    `json:"earnedPoints"`
	TotalPoints  int    `json:"totalPoints"`
	Message      string `json:"message,omitempty"`
}

// SubmissionResult — итог проверки теста сервером.
type SubmissionResult struct {
	TotalPoints     int              `json:"totalPoints"`
	EarnedPoints    int              `json:"earnedPoints"`
	DetailedResults []QuestionResult `json:"detailedResults"`
}

// TestSubmission — сохраненная попытка прохождения теста.
// Приходит в составе теста (GET /tests/:id) и в истории профиля.
type TestSubmission struct {
	ID           int               `json:"id"`
	TestID       int               `json:"testId"`
	EarnedPoints int               `json:"earnedPoints"`
	TotalPoints  int               `json:"totalPoints"`
	Answers      []SubmittedAnswer `json:"answers,omitempty"`
	CreatedAt    time.Time         `json:"createdAt"`
}

package render

import (
	"strings"
	"testing"
	"time"

	"github.com/quizmaker/tg-client/internal/domain/model"
	"github.com/quizmaker/tg-client/internal/testlist"
)

// TestTestListEmpty проверяет сообщение при пустом списке тестов.
func TestTestListEmpty(t *testing.T) {
	vm := testlist.NewViewModel(nil)

	text, markup := TestList(vm)
	if !strings.Contains(text, "Тесты не найдены.") {
		t.Errorf("ожидалось сообщение о пустом списке, получено: %q", text)
	}
	if markup == nil {
		t.Error("ожидалась клавиатура даже для пустого списка")
	}
}

// TestQuestionSelectedMark проверяет отметку выбранного варианта.
func TestQuestionSelectedMark(t *testing.T) {
	q := model.Question{
		ID:      "q1",
		Text:    "Что такое goroutine?",
		Type:    model.QuestionSingle,
		Options: []string{"Поток ОС", "Легковесный поток"},
		Points:  5,
	}

	_, markup := Question(q, 1, 3, []string{"Легковесный поток"}, false)
	if markup == nil || len(markup.InlineKeyboard) != 2 {
		t.Fatalf("ожидалось 2 кнопки вариантов, получено: %v", markup)
	}

	first := markup.InlineKeyboard[0][0].Text
	second := markup.InlineKeyboard[1][0].Text
	if strings.HasPrefix(first, "✅") {
		t.Errorf("невыбранный вариант отмечен: %q", first)
	}
	if !strings.HasPrefix(second, "✅") {
		t.Errorf("выбранный вариант не отмечен: %q", second)
	}
}

// TestQuestionReadOnly проверяет, что в режиме просмотра кнопок нет.
func TestQuestionReadOnly(t *testing.T) {
	q := model.Question{
		ID:      "q1",
		Text:    "Вопрос",
		Type:    model.QuestionSingle,
		Options: []string{"А", "Б"},
		Points:  1,
	}

	text, markup := Question(q, 1, 1, []string{"А"}, true)
	if len(markup.InlineKeyboard) != 0 {
		t.Errorf("в режиме просмотра кнопок быть не должно, получено %d", len(markup.InlineKeyboard))
	}
	if !strings.Contains(text, "Ваш ответ: А") {
		t.Errorf("ожидался показ сохраненного ответа, получено: %q", text)
	}
}

// TestResults проверяет строку счета и развернутые результаты.
func TestResults(t *testing.T) {
	test := &model.Test{
		ID:    1,
		Title: "Тест",
		Questions: []model.Question{
			{ID: "q1", Text: "Первый", Points: 10},
			{ID: "q2", Text: "Второй", Points: 5},
		},
	}
	result := &model.SubmissionResult{
		TotalPoints:  15,
		EarnedPoints: 10,
		DetailedResults: []model.QuestionResult{
			{QuestionID: "q1", Correct: true, EarnedPoints: 10, TotalPoints: 10},
			{QuestionID: "q2", Correct: false, EarnedPoints: 0, TotalPoints: 5},
		},
	}

	text := Results(test, result, nil)
	if !strings.Contains(text, "Набранные баллы: 10 / 15") {
		t.Errorf("неверная строка счета: %q", text)
	}
	if !strings.Contains(text, "✅ Первый: верно (+10 из 10)") {
		t.Errorf("неверная строка верного ответа: %q", text)
	}
	if !strings.Contains(text, "❌ Второй: неверно") {
		t.Errorf("неверная строка неверного ответа: %q", text)
	}
}

// TestProfileGuest проверяет запасное имя, когда идентичность недоступна.
func TestProfileGuest(t *testing.T) {
	text := Profile("", nil, nil, time.Time{})
	if !strings.Contains(text, "Гость") {
		t.Errorf("ожидалось запасное имя \"Гость\", получено: %q", text)
	}
	if !strings.Contains(text, "Рейтинг недоступен") {
		t.Errorf("ожидалась недоступная секция рейтинга, получено: %q", text)
	}
	if !strings.Contains(text, "Загрузка не удалась") {
		t.Errorf("ожидалась недоступная секция результатов, получено: %q", text)
	}
}

// TestProfileSubmissions проверяет показ истории прохождений.
func TestProfileSubmissions(t *testing.T) {
	user := &model.User{
		Username: "ivan",
		Email:    "ivan@example.com",
		TestSubmissions: []model.TestSubmission{
			{ID: 1, TestID: 7, EarnedPoints: 8, TotalPoints: 10, CreatedAt: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)},
		},
	}

	text := Profile("ivan", user, nil, time.Date(2100, 1, 1, 0, 0, 0, 0, time.UTC))
	if !strings.Contains(text, "Сессия действительна до: 01.01.2100 00:00") {
		t.Errorf("ожидался срок действия сессии, получено: %q", text)
	}
	if !strings.Contains(text, "ivan / ivan@example.com") {
		t.Errorf("ожидалась идентичность пользователя, получено: %q", text)
	}
	if !strings.Contains(text, "Тест #7: 8/10 баллов") {
		t.Errorf("ожидалась строка прохождения, получено: %q", text)
	}
}

// TestRankingsTop10 проверяет, что рейтинг обрезается до десяти строк.
func TestRankingsTop10(t *testing.T) {
	rankings := make([]model.RankingUser, 12)
	for i := range rankings {
		rankings[i] = model.RankingUser{ID: i + 1, Username: "user", TotalEarned: 100 - i, AverageScore: 90}
	}

	text := Rankings(rankings)
	if strings.Contains(text, "#11") {
		t.Errorf("рейтинг не обрезан до десяти строк: %q", text)
	}
	if !strings.Contains(text, "#10") {
		t.Errorf("ожидалась десятая строка рейтинга: %q", text)
	}
}

// TestEscapeUserContent проверяет, что разметка в пользовательском тексте
// экранируется и не ломает Markdown-сообщение.
func TestEscapeUserContent(t *testing.T) {
	if got := Escape("a*b_c`d[e"); got != "a\\*b\\_c\\`d\\[e" {
		t.Errorf("неверное экранирование: %q", got)
	}

	q := model.Question{
		ID:      "q1",
		Text:    "Что выведет *ptr?",
		Type:    model.QuestionSingle,
		Options: []string{"nil", "panic"},
		Points:  1,
	}
	text, markup := Question(q, 1, 1, nil, false)
	if !strings.Contains(text, "Что выведет \\*ptr?") {
		t.Errorf("текст вопроса не экранирован: %q", text)
	}
	// Подписи кнопок Telegram не парсит, экранировать их нельзя.
	if markup.InlineKeyboard[0][0].Text != "nil" {
		t.Errorf("подпись кнопки изменена: %q", markup.InlineKeyboard[0][0].Text)
	}

	rankings := []model.RankingUser{{ID: 1, Username: "_ivan_", TotalEarned: 10, AverageScore: 50}}
	if got := Rankings(rankings); !strings.Contains(got, "\\_ivan\\_") {
		t.Errorf("имя пользователя не экранировано: %q", got)
	}
}

// TestRankingsEmpty проверяет сообщение при пустом рейтинге.
func TestRankingsEmpty(t *testing.T) {
	text := Rankings(nil)
	if !strings.Contains(text, "Рейтинг пока пуст") {
		t.Errorf("ожидалось сообщение о пустом рейтинге, получено: %q", text)
	}
}

// Package render собирает тексты сообщений и инлайн-клавиатуры для всех
// представлений бота. Обработчики только выбирают, что показать.
package render

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	tele "gopkg.in/telebot.v4"

	"github.com/quizmaker/tg-client/internal/domain/model"
	"github.com/quizmaker/tg-client/internal/editor"
	"github.com/quizmaker/tg-client/internal/helpers"
	"github.com/quizmaker/tg-client/internal/testlist"
)

// MainMenu — главное меню: разделы клиента, как боковая панель веб-версии.
func MainMenu() (string, *tele.ReplyMarkup) {
	markup := &tele.ReplyMarkup{}
	tests := markup.Data("📋 Тесты", model.TestsKey)
	create := markup.Data("✍️ Создать тест", model.CreateTestKey)
	profile := markup.Data("👤 Профиль", model.ProfileKey)
	rankings := markup.Data("🏆 Рейтинг", model.RankingsKey)
	logout := markup.Data("🚪 Выйти", model.LogoutKey)
	markup.Inline(
		markup.Row(tests),
		markup.Row(create),
		markup.Row(profile, rankings),
		markup.Row(logout),
	)
	return "Добро пожаловать в QuizMaker!", markup
}

// TestList — страница списка тестов с кнопками тестов, навигацией и
// фильтром по тегам.
func TestList(vm *testlist.ViewModel) (string, *tele.ReplyMarkup) {
	var b strings.Builder
	b.WriteString("📋 *Список тестов*\n")
	if vm.Search() != "" {
		fmt.Fprintf(&b, "Поиск: %s\n", Escape(vm.Search()))
	}
	if vm.Filter() != "" {
		fmt.Fprintf(&b, "Тег: %s\n", Escape(vm.Filter()))
	}

	paged := vm.Paged()
	markup := &tele.ReplyMarkup{}
	rows := make([]tele.Row, 0, len(paged)+3)

	if len(paged) == 0 {
		b.WriteString("\nТесты не найдены.")
	} else {
		fmt.Fprintf(&b, "\nСтраница %d из %d. Выберите тест:\n", vm.Page(), vm.PageCount())
		for _, t := range paged {
			label := fmt.Sprintf("%s (вопросов: %d)", t.Title, len(t.Questions))
			rows = append(rows, markup.Row(markup.Data(label, model.OpenTestKey, strconv.Itoa(t.ID))))
		}
	}

	if vm.PageCount() > 1 {
		prev := markup.Data("⬅️ Назад", model.PrevPageKey)
		next := markup.Data("Вперед ➡️", model.NextPageKey)
		rows = append(rows, markup.Row(prev, next))
	}

	if tags := vm.UniqueTags(); len(tags) > 0 {
		tagRow := make([]tele.Btn, 0, len(tags)+1)
		tagRow = append(tagRow, markup.Data("Все теги", model.TagFilterKey, ""))
		for _, tag := range tags {
			label := tag
			if tag == vm.Filter() {
				label = "✅ " + tag
			}
			tagRow = append(tagRow, markup.Data(label, model.TagFilterKey, tag))
		}
		// Не больше четырех кнопок тегов в строке.
		for len(tagRow) > 0 {
			n := len(tagRow)
			if n > 4 {
				n = 4
			}
			rows = append(rows, markup.Row(tagRow[:n]...))
			tagRow = tagRow[n:]
		}
	}

	b.WriteString("\nПоиск по названию: /search <текст>")
	markup.Inline(rows...)
	return b.String(), markup
}

// questionTypeLabel — подписи типов вопросов, как в веб-форме.
func questionTypeLabel(t model.QuestionType) string {
	switch t {
	case model.QuestionSingle:
		return "Один ответ"
	case model.QuestionMultiple:
		return "Множественный выбор"
	case model.QuestionText:
		return "Текстовый ответ"
	}
	return string(t)
}

// Question — вопрос в сессии прохождения: текст, выбранные ответы и
// кнопки вариантов. В режиме только чтения кнопки не показываются.
func Question(q model.Question, number, total int, selected []string, readOnly bool) (string, *tele.ReplyMarkup) {
	var b strings.Builder
	fmt.Fprintf(&b, "❓ *Вопрос %d из %d:*\n%s (%s)\n", number, total, Escape(q.Text), helpers.FormatPoints(q.Points))

	markup := &tele.ReplyMarkup{}
	if readOnly {
		if len(selected) > 0 {
			fmt.Fprintf(&b, "\nВаш ответ: %s", strings.Join(escapeAll(selected), ", "))
		}
		return b.String(), markup
	}

	if q.HasChoices() {
		rows := make([]tele.Row, 0, len(q.Options))
		for i, opt := range q.Options {
			label := fmt.Sprintf("%d. %s", i+1, opt)
			if contains(selected, opt) {
				label = "✅ " + label
			}
			rows = append(rows, markup.Row(markup.Data(label, model.AnswerKey, q.ID, strconv.Itoa(i))))
		}
		markup.Inline(rows...)
		return b.String(), markup
	}

	// Текстовый вопрос.
	if len(selected) > 0 {
		fmt.Fprintf(&b, "\nВаш ответ: %s", Escape(selected[0]))
	}
	markup.Inline(markup.Row(markup.Data("✏️ Ввести ответ", model.TakeTextKey, q.ID)))
	return b.String(), markup
}

// SubmitPrompt — завершающее сообщение сессии прохождения с кнопкой отправки.
func SubmitPrompt(testID int) (string, *tele.ReplyMarkup) {
	markup := &tele.ReplyMarkup{}
	markup.Inline(markup.Row(markup.Data("📤 Отправить тест", model.SubmitTestKey, strconv.Itoa(testID))))
	return "Когда ответите на все вопросы, отправьте тест на проверку.", markup
}

// Results — итог прохождения: счет, развернутые результаты по вопросам
// и, если удалось загрузить, лучшие результаты по тесту.
func Results(test *model.Test, result *model.SubmissionResult, performers []model.TopPerformer) string {
	var b strings.Builder
	b.WriteString("*Результаты*\n")
	fmt.Fprintf(&b, "Набранные баллы: %d / %d\n\n", result.EarnedPoints, result.TotalPoints)

	byID := make(map[string]model.Question, len(test.Questions))
	for _, q := range test.Questions {
		byID[q.ID] = q
	}

	for _, res := range result.DetailedResults {
		question, ok := byID[res.QuestionID]
		if !ok {
			continue
		}
		if res.Correct {
			fmt.Fprintf(&b, "✅ %s: верно (+%d из %d)\n", Escape(question.Text), res.EarnedPoints, res.TotalPoints)
		} else {
			fmt.Fprintf(&b, "❌ %s: неверно\n", Escape(question.Text))
		}
		if res.Message != "" {
			fmt.Fprintf(&b, "Комментарий: %s\n", Escape(res.Message))
		}
	}

	if len(performers) > 0 {
		b.WriteString("\n🏆 *Лучшие результаты:*\n")
		for i, p := range performers {
			fmt.Fprintf(&b, "#%d %s: %d/%d\n", i+1, Escape(p.Username), p.EarnedPoints, p.TotalPoints)
		}
	}

	return b.String()
}

// EditorOverview — сводка черновика с кнопками всех операций редактора.
func EditorOverview(e *editor.Editor) (string, *tele.ReplyMarkup) {
	draft := e.Draft()

	var b strings.Builder
	b.WriteString("✍️ *Создание теста*\n")
	if draft.Title != "" {
		fmt.Fprintf(&b, "Название: %s\n", Escape(draft.Title))
	} else {
		b.WriteString("Название: не задано\n")
	}
	if len(draft.Tags) > 0 {
		fmt.Fprintf(&b, "Теги: %s\n", strings.Join(escapeAll(draft.Tags), ", "))
	}
	fmt.Fprintf(&b, "Вопросов: %d\n", len(draft.Questions))

	markup := &tele.ReplyMarkup{}
	rows := []tele.Row{
		markup.Row(
			markup.Data("Название", model.EditTitleKey),
			markup.Data("Теги", model.EditTagsKey),
		),
	}
	for i, q := range draft.Questions {
		label := fmt.Sprintf("Вопрос %d", i+1)
		if q.Text != "" {
			label = fmt.Sprintf("Вопрос %d: %s", i+1, truncate(q.Text, 30))
		}
		rows = append(rows, markup.Row(markup.Data(label, model.EditQuestionKey, strconv.Itoa(i))))
	}
	rows = append(rows,
		markup.Row(markup.Data("➕ Добавить вопрос", model.AddQuestionKey)),
		markup.Row(markup.Data("🤖 Создать с помощью AI", model.AiCreateKey)),
		markup.Row(markup.Data("💾 Сохранить тест", model.SaveTestKey)),
	)
	markup.Inline(rows...)
	return b.String(), markup
}

// QuestionEditor — карточка одного вопроса в редакторе.
func QuestionEditor(e *editor.Editor, index int) (string, *tele.ReplyMarkup) {
	q := e.Draft().Questions[index]
	idx := strconv.Itoa(index)

	var b strings.Builder
	fmt.Fprintf(&b, "*Вопрос %d*\n", index+1)
	if q.Text != "" {
		fmt.Fprintf(&b, "Текст: %s\n", Escape(q.Text))
	} else {
		b.WriteString("Текст: не задан\n")
	}
	fmt.Fprintf(&b, "Тип: %s\n", questionTypeLabel(q.Type))
	if q.HasChoices() {
		for i, opt := range q.Options {
			mark := ""
			if contains(q.CorrectAnswers, opt) {
				mark = " ✅"
			}
			fmt.Fprintf(&b, "%d. %s%s\n", i+1, Escape(opt), mark)
		}
	}
	if q.Type == model.QuestionText && len(q.CorrectAnswers) > 0 {
		fmt.Fprintf(&b, "Правильный ответ: %s\n", Escape(q.CorrectAnswers[0]))
	}
	fmt.Fprintf(&b, "Баллы: %d\n", q.Points)

	markup := &tele.ReplyMarkup{}
	rows := []tele.Row{
		markup.Row(markup.Data("Текст вопроса", model.QuestionTextKey, idx)),
		markup.Row(
			markup.Data("Один ответ", model.QuestionTypeKey, idx, string(model.QuestionSingle)),
			markup.Data("Множественный", model.QuestionTypeKey, idx, string(model.QuestionMultiple)),
			markup.Data("Текстовый", model.QuestionTypeKey, idx, string(model.QuestionText)),
		),
	}

	if q.HasChoices() {
		// Отметка правильного ответа по номеру варианта.
		optRow := make([]tele.Btn, 0, len(q.Options))
		for i, opt := range q.Options {
			label := strconv.Itoa(i + 1)
			if contains(q.CorrectAnswers, opt) {
				label = "✅ " + label
			}
			optRow = append(optRow, markup.Data(label, model.ToggleCorrectKey, idx, strconv.Itoa(i)))
		}
		for len(optRow) > 0 {
			n := len(optRow)
			if n > 5 {
				n = 5
			}
			rows = append(rows, markup.Row(optRow[:n]...))
			optRow = optRow[n:]
		}
		rows = append(rows, markup.Row(markup.Data("➕ Добавить вариант", model.AddOptionKey, idx)))
	} else {
		rows = append(rows, markup.Row(markup.Data("Правильный ответ", model.TextAnswerKey, idx)))
	}

	rows = append(rows,
		markup.Row(markup.Data("Баллы за вопрос", model.QuestionPointsKey, idx)),
		markup.Row(
			markup.Data("🗑 Удалить вопрос", model.DeleteQuestionKey, idx),
			markup.Data("⬅️ К тесту", model.CreateTestKey),
		),
	)
	markup.Inline(rows...)
	return b.String(), markup
}

// Profile — профиль: идентичность, история прохождений, персональный
// рейтинг. Любая секция может отсутствовать, если её загрузка не удалась.
// Ненулевой tokenExpires добавляет срок действия сессии.
func Profile(identifier string, user *model.User, ranking *model.UserRanking, tokenExpires time.Time) string {
	var b strings.Builder
	b.WriteString("👤 *Профиль пользователя*\n")

	if user != nil {
		fmt.Fprintf(&b, "Имя пользователя / Email: %s / %s\n", Escape(user.Username), Escape(user.Email))
	} else if identifier != "" {
		fmt.Fprintf(&b, "Имя пользователя / Email: %s\n", Escape(identifier))
	} else {
		b.WriteString("Имя пользователя / Email: Гость\n")
	}
	if !tokenExpires.IsZero() {
		fmt.Fprintf(&b, "Сессия действительна до: %s\n", tokenExpires.Format("02.01.2006 15:04"))
	}

	if ranking != nil {
		fmt.Fprintf(&b, "\nРейтинг: %d из %d\n", ranking.Rank, ranking.TotalUsers)
		fmt.Fprintf(&b, "Набрано: %d из %d (%.0f%%)\n", ranking.TotalEarned, ranking.TotalPossible, ranking.AverageScore)
	} else {
		b.WriteString("\nРейтинг недоступен\n")
	}

	b.WriteString("\n*Мои результаты*\n")
	if user == nil {
		b.WriteString("Загрузка не удалась")
	} else if len(user.TestSubmissions) == 0 {
		b.WriteString("Нет пройденных тестов")
	} else {
		for _, s := range user.TestSubmissions {
			fmt.Fprintf(&b, "📝 Тест #%d: %d/%d баллов — %s\n",
				s.TestID, s.EarnedPoints, s.TotalPoints, s.CreatedAt.Format("02.01.2006 15:04"))
		}
	}

	return b.String()
}

// Rankings — топ-10 общего рейтинга.
func Rankings(rankings []model.RankingUser) string {
	var b strings.Builder
	b.WriteString("🏆 *Топ пользователей*\n")
	if len(rankings) == 0 {
		b.WriteString("Рейтинг пока пуст")
		return b.String()
	}
	limit := len(rankings)
	if limit > 10 {
		limit = 10
	}
	for i := 0; i < limit; i++ {
		u := rankings[i]
		fmt.Fprintf(&b, "#%d %s: %s, %.0f%%\n", i+1, Escape(u.Username), helpers.FormatPoints(u.TotalEarned), u.AverageScore)
	}
	return b.String()
}

// markdownEscaper экранирует разметку Markdown в пользовательском
// содержимом. Название теста со звездочкой не должно ломать сообщение.
var markdownEscaper = strings.NewReplacer(
	"*", "\\*",
	"_", "\\_",
	"`", "\\`",
	"[", "\\[",
)

// Escape экранирует пользовательский текст для сообщений с Markdown.
// Касается только тел сообщений: подписи кнопок Telegram не парсит.
func Escape(s string) string {
	return markdownEscaper.Replace(s)
}

func escapeAll(values []string) []string {
	escaped := make([]string, len(values))
	for i, v := range values {
		escaped[i] = Escape(v)
	}
	return escaped
}

func contains(values []string, value string) bool {
	for _, v := range values {
		if v == value {
			return true
		}
	}
	return false
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "…"
}

package state

import (
	"sync"
	"sync/atomic"

	"github.com/quizmaker/tg-client/internal/editor"
	"github.com/quizmaker/tg-client/internal/taking"
	"github.com/quizmaker/tg-client/internal/testlist"
)

// PendingInput описывает, какого текстового сообщения ждет бот от
// пользователя. Диалоговые сценарии (вход, редактор, поиск) собирают
// ввод по шагам через эти маркеры.
type PendingInput string

const (
	InputNone PendingInput = ""

	InputLoginIdentifier PendingInput = "login_identifier"
	InputLoginPassword   PendingInput = "login_password"

	InputRegisterUsername PendingInput = "register_username"
	InputRegisterEmail    PendingInput = "register_email"
	InputRegisterPassword PendingInput = "register_password"

	InputSearch PendingInput = "search"

	InputEditorTitle      PendingInput = "editor_title"
	InputEditorTags       PendingInput = "editor_tags"
	InputQuestionText     PendingInput = "question_text"
	InputQuestionPoints   PendingInput = "question_points"
	InputOptionText       PendingInput = "option_text"
	InputEditorTextAnswer PendingInput = "editor_text_answer"

	InputAiTopic        PendingInput = "ai_topic"
	InputAiCount        PendingInput = "ai_count"
	InputAiInstructions PendingInput = "ai_instructions"

	InputTakingTextAnswer PendingInput = "taking_text_answer"
)

// UserState — состояние интерфейса одного пользователя. Живет только в
// памяти: при перезапуске бота пропадают черновики и недоотправленные
// ответы, но не сессия (токен хранится отдельно).
//
// telebot обрабатывает каждое обновление в отдельной горутине, поэтому
// два быстрых нажатия одного пользователя приходят параллельно.
// Обработчик обязан держать Lock на все время работы с состоянием:
// это сериализует обновления одного пользователя.
type UserState struct {
	mu sync.Mutex

	Pending PendingInput

	// Контекст ожидаемого ввода.
	QuestionIndex  int    // индекс вопроса в редакторе
	TakingQuestion string // ID вопроса, ждущего текстовый ответ

	// Промежуточные значения диалогов.
	LoginIdentifier  string
	RegisterUsername string
	RegisterEmail    string
	AiTopic          string
	AiCount          int

	List   *testlist.ViewModel
	Editor *editor.Editor
	Taking *taking.Session

	// InFlight блокирует повторное нажатие кнопки, пока идет запрос.
	// Сравнение и установка атомарны: второе нажатие проигрывает CAS и
	// игнорируется, даже если мьютекс на время запроса был отпущен.
	InFlight atomic.Bool
}

// Lock захватывает состояние на время обработки одного обновления.
func (s *UserState) Lock() {
	s.mu.Lock()
}

// Unlock освобождает состояние.
func (s *UserState) Unlock() {
	s.mu.Unlock()
}

// Manager хранит состояния интерфейса по Telegram ID пользователя.
type Manager struct {
	mu    sync.Mutex
	users map[int64]*UserState
}

// NewManager создает менеджер состояний.
func NewManager() *Manager {
	return &Manager{users: make(map[int64]*UserState)}
}

// Get возвращает состояние пользователя, создавая его при первом обращении.
func (m *Manager) Get(userID int64) *UserState {
	m.mu.Lock()
	defer m.mu.Unlock()
	us, ok := m.users[userID]
	if !ok {
		us = &UserState{}
		m.users[userID] = us
	}
	return us
}

// Reset сбрасывает состояние интерфейса пользователя. Вызывается при
// выходе: черновики и ответы не должны пережить сессию.
func (m *Manager) Reset(userID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.users, userID)
}

// ClearPending сбрасывает маркер ожидаемого ввода.
func (s *UserState) ClearPending() {
	s.Pending = InputNone
	s.QuestionIndex = 0
	s.TakingQuestion = ""
}

package session

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// State — сессия одного пользователя: идентификатор, под которым он вошел,
// и токен доступа. Это единственное состояние клиента, переживающее
// перезапуск; черновики тестов и ответы не сохраняются.
type State struct {
	Identifier string `json:"identifier"`
	Token      string `json:"token"`
}

// LoggedIn сообщает, есть ли у сессии токен.
func (s State) LoggedIn() bool {
	return s.Token != ""
}

// Sessions управляет сессиями пользователей поверх хранилища.
type Sessions struct {
	store Store
}

// NewSessions создает менеджер сессий.
func NewSessions(store Store) *Sessions {
	return &Sessions{store: store}
}

// Login сохраняет идентификатор и токен пользователя.
func (s *Sessions) Login(userID int64, identifier, token string) error {
	if err := s.store.Set(userID, State{Identifier: identifier, Token: token}); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// Logout очищает сессию. Вызывается при явном выходе и при любом
// ответе 401 от сервера.
func (s *Sessions) Logout(userID int64) error {
	if err := s.store.Delete(userID); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

// Get возвращает сессию пользователя.
func (s *Sessions) Get(userID int64) (State, bool) {
	return s.store.Get(userID)
}

// Token возвращает токен пользователя, если он вошел.
func (s *Sessions) Token(userID int64) (string, bool) {
	state, ok := s.store.Get(userID)
	if !ok || !state.LoggedIn() {
		return "", false
	}
	return state.Token, true
}

// PeekClaims извлекает subject и срок действия из токена без проверки
// подписи. Только для отображения в профиле: подпись и срок действия
// проверяет сервер, клиент токену не доверяет.
func PeekClaims(token string) (subject string, expires time.Time, err error) {
	claims := jwt.MapClaims{}
	if _, _, err = jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return "", time.Time{}, fmt.Errorf("failed to parse token: %w", err)
	}

	subject, _ = claims.GetSubject()
	if exp, expErr := claims.GetExpirationTime(); expErr == nil && exp != nil {
		expires = exp.Time
	}
	return subject, expires, nil
}

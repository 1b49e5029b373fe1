package session

import (
	"os"
	"path/filepath"
	"testing"
)

// TestSessionsLoginLogout проверяет базовый жизненный цикл сессии:
// вход сохраняет идентификатор и токен, выход очищает оба.
func TestSessionsLoginLogout(t *testing.T) {
	sessions := NewSessions(NewMemoryStore())

	if _, ok := sessions.Token(1); ok {
		t.Error("до входа токена быть не должно")
	}

	if err := sessions.Login(1, "ivan", "tok123"); err != nil {
		t.Fatalf("Login вернул ошибку: %v", err)
	}

	state, ok := sessions.Get(1)
	if !ok || state.Identifier != "ivan" || state.Token != "tok123" {
		t.Errorf("неверное состояние сессии: %+v, ok=%v", state, ok)
	}

	token, ok := sessions.Token(1)
	if !ok || token != "tok123" {
		t.Errorf("Token вернул %q, %v", token, ok)
	}

	if err := sessions.Logout(1); err != nil {
		t.Fatalf("Logout вернул ошибку: %v", err)
	}
	if _, ok := sessions.Token(1); ok {
		t.Error("после выхода токена быть не должно")
	}
}

// TestJSONStorePersistence проверяет, что токен переживает пересоздание
// хранилища (перезапуск бота).
func TestJSONStorePersistence(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "sessions.json")

	store := NewJSONStore(filename)
	if err := store.Set(42, State{Identifier: "maria", Token: "tok42"}); err != nil {
		t.Fatalf("Set вернул ошибку: %v", err)
	}

	// Имитируем перезапуск: открываем тот же файл заново.
	reopened := NewJSONStore(filename)
	state, ok := reopened.Get(42)
	if !ok {
		t.Fatal("сессия не найдена после пересоздания хранилища")
	}
	if state.Identifier != "maria" || state.Token != "tok42" {
		t.Errorf("неверное состояние: %+v", state)
	}

	if err := reopened.Delete(42); err != nil {
		t.Fatalf("Delete вернул ошибку: %v", err)
	}
	if _, ok := reopened.Get(42); ok {
		t.Error("сессия должна быть удалена")
	}

	// Файл остается валидным JSON после удаления.
	data, err := os.ReadFile(filename)
	if err != nil {
		t.Fatalf("не удалось прочитать файл: %v", err)
	}
	if len(data) == 0 {
		t.Error("файл хранилища пуст")
	}
}

// TestPeekClaims проверяет извлечение subject и срока действия из токена
// без проверки подписи.
func TestPeekClaims(t *testing.T) {
	// HS256-токен с sub="17" и exp=4102444800 (2100-01-01), подпись не проверяется.
	token := "eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9." +
		"eyJzdWIiOiIxNyIsImV4cCI6NDEwMjQ0NDgwMH0." +
		"invalid-signature"

	subject, expires, err := PeekClaims(token)
	if err != nil {
		t.Fatalf("PeekClaims вернул ошибку: %v", err)
	}
	if subject != "17" {
		t.Errorf("ожидался subject 17, получен %q", subject)
	}
	if expires.Year() != 2100 {
		t.Errorf("неверный срок действия: %v", expires)
	}

	if _, _, err := PeekClaims("не-токен"); err == nil {
		t.Error("для мусора ожидалась ошибка")
	}
}

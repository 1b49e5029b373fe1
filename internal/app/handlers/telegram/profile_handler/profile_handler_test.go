package profile_handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"gopkg.in/telebot.v4"

	"github.com/quizmaker/tg-client/internal/api"
	"github.com/quizmaker/tg-client/internal/session"
)

// fakeContext реализует только те методы telebot.Context, которые нужны
// обработчику профиля; остальные унаследованы от нулевого интерфейса.
type fakeContext struct {
	telebot.Context
	sent []string
}

func (f *fakeContext) Sender() *telebot.User {
	return &telebot.User{ID: 7}
}

func (f *fakeContext) Send(what interface{}, _ ...interface{}) error {
	if s, ok := what.(string); ok {
		f.sent = append(f.sent, s)
	}
	return nil
}

// TestProfileRankingUnauthorizedClearsSession проверяет, что 401 на
// втором запросе профиля (рейтинге) обрабатывается как на любом другом:
// сессия очищается, пользователю предлагается войти заново. Токен может
// истечь между двумя запросами одного раздела.
func TestProfileRankingUnauthorizedClearsSession(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/users/me":
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"id": 1, "username": "ivan", "email": "ivan@example.com", "testSubmissions": []}`))
		case "/users/my-ranking":
			w.WriteHeader(http.StatusUnauthorized)
		default:
			t.Errorf("неожиданный запрос: %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	sessions := session.NewSessions(session.NewMemoryStore())
	if err := sessions.Login(7, "ivan", "token"); err != nil {
		t.Fatalf("не удалось создать сессию: %v", err)
	}

	h := NewProfileHandler(api.NewClient(server.URL), sessions)
	c := &fakeContext{}

	if err := h.Handle(c); err != nil {
		t.Fatalf("Handle: %v", err)
	}

	if _, ok := sessions.Token(7); ok {
		t.Error("сессия должна быть очищена после 401")
	}

	found := false
	for _, msg := range c.sent {
		if strings.Contains(msg, "Сессия истекла") {
			found = true
		}
		if strings.Contains(msg, "Профиль") {
			t.Errorf("профиль не должен показываться после 401: %q", msg)
		}
	}
	if !found {
		t.Errorf("ожидалось предложение войти заново, отправлено: %v", c.sent)
	}
}

package authguard

import (
	"errors"

	"gopkg.in/telebot.v4"

	"github.com/quizmaker/tg-client/internal/api"
	"github.com/quizmaker/tg-client/internal/session"
)

// RequireToken возвращает токен пользователя или предлагает войти.
// Второе возвращаемое значение — false, если обработчику продолжать нечего.
func RequireToken(c telebot.Context, sessions *session.Sessions) (string, bool, error) {
	token, ok := sessions.Token(c.Sender().ID)
	if !ok {
		return "", false, c.Send("Сначала войдите в аккаунт: /login")
	}
	return token, true, nil
}

// HandleUnauthorized обрабатывает ответ 401: сессия очищается, пользователю
// предлагается войти заново. Возвращает true, если ошибка была именно 401 —
// в этом случае никакие другие данные из запроса применять нельзя.
func HandleUnauthorized(c telebot.Context, sessions *session.Sessions, err error) (bool, error) {
	if !errors.Is(err, api.ErrUnauthorized) {
		return false, nil
	}
	_ = sessions.Logout(c.Sender().ID)
	return true, c.Send("Сессия истекла. Войдите заново: /login")
}

package profile_handler

import (
	"context"
	"log"
	"time"

	"gopkg.in/telebot.v4"

	"github.com/quizmaker/tg-client/internal/api"
	"github.com/quizmaker/tg-client/internal/app/handlers/telegram/authguard"
	"github.com/quizmaker/tg-client/internal/app/handlers/telegram/render"
	"github.com/quizmaker/tg-client/internal/session"
)

// ProfileHandler структура для раздела профиля. Секции профиля загружаются
// независимо: отказ одной (например, рейтинга) не прячет остальные.
type ProfileHandler struct {
	apiClient *api.Client
	sessions  *session.Sessions
}

// NewProfileHandler возвращает структуру обработчика
func NewProfileHandler(apiClient *api.Client, sessions *session.Sessions) *ProfileHandler {
	return &ProfileHandler{apiClient: apiClient, sessions: sessions}
}

// Handle показывает профиль текущего пользователя.
func (h *ProfileHandler) Handle(c telebot.Context) error {
	token, ok, err := authguard.RequireToken(c, h.sessions)
	if !ok {
		return err
	}

	if err := c.Send("Загрузка профиля..."); err != nil {
		return err
	}

	ctx := context.Background()
	userID := c.Sender().ID

	user, err := h.apiClient.GetMe(ctx, token)
	if err != nil {
		if handled, herr := authguard.HandleUnauthorized(c, h.sessions, err); handled {
			return herr
		}
		log.Printf("profile: GetMe для %d: %v", userID, err)
		user = nil
	}

	ranking, err := h.apiClient.GetMyRanking(ctx, token)
	if err != nil {
		// Токен мог истечь между запросами: 401 здесь обрабатывается так
		// же, как на любом другом запросе.
		if handled, herr := authguard.HandleUnauthorized(c, h.sessions, err); handled {
			return herr
		}
		log.Printf("profile: GetMyRanking для %d: %v", userID, err)
		ranking = nil
	}

	identifier := ""
	if st, ok := h.sessions.Get(userID); ok {
		identifier = st.Identifier
	}

	// Срок действия токена показываем из его незаверенных claims; проверка
	// подписи остается за сервером.
	var tokenExpires time.Time
	if _, expires, err := session.PeekClaims(token); err == nil {
		tokenExpires = expires
	}

	return c.Send(render.Profile(identifier, user, ranking, tokenExpires), telebot.ModeMarkdown)
}

// GetHandlerFunc возвращает обработчик в формате telebot.HandlerFunc
func (h *ProfileHandler) GetHandlerFunc() telebot.HandlerFunc {
	return func(c telebot.Context) error {
		return h.Handle(c)
	}
}

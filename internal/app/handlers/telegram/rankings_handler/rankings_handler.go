package rankings_handler

import (
	"context"

	"gopkg.in/telebot.v4"

	"github.com/quizmaker/tg-client/internal/api"
	"github.com/quizmaker/tg-client/internal/app/handlers/telegram/authguard"
	"github.com/quizmaker/tg-client/internal/app/handlers/telegram/render"
	"github.com/quizmaker/tg-client/internal/session"
)

// RankingsHandler структура для раздела общего рейтинга пользователей.
type RankingsHandler struct {
	apiClient *api.Client
	sessions  *session.Sessions
}

// NewRankingsHandler возвращает структуру обработчика
func NewRankingsHandler(apiClient *api.Client, sessions *session.Sessions) *RankingsHandler {
	return &RankingsHandler{apiClient: apiClient, sessions: sessions}
}

// Handle показывает топ-10 пользователей по набранным баллам.
func (h *RankingsHandler) Handle(c telebot.Context) error {
	token, ok, err := authguard.RequireToken(c, h.sessions)
	if !ok {
		return err
	}

	if err := c.Send("Загрузка рейтинга..."); err != nil {
		return err
	}

	rankings, err := h.apiClient.GetRankings(context.Background(), token)
	if err != nil {
		if handled, herr := authguard.HandleUnauthorized(c, h.sessions, err); handled {
			return herr
		}
		return c.Send(api.UserMessage(err, "Не удалось загрузить рейтинг."))
	}

	return c.Send(render.Rankings(rankings), telebot.ModeMarkdown)
}

// GetHandlerFunc возвращает обработчик в формате telebot.HandlerFunc
func (h *RankingsHandler) GetHandlerFunc() telebot.HandlerFunc {
	return func(c telebot.Context) error {
		return h.Handle(c)
	}
}

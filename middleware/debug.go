package middleware

import (
	"fmt"

	tele "gopkg.in/telebot.v4"

	"github.com/quizmaker/tg-client/internal/session"
)

// DebugUserActions возвращает middleware, которое при включённом режиме отладки отправляет
// пользователю отладочное сообщение: имя, ID, идентификатор сессии и описание действия.
// Полезно для диагностики поведения пользователей во время разработки.
func DebugUserActions(enabled bool, sessions *session.Sessions) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			err := next(c)
			if enabled && c.Sender() != nil {
				user := c.Sender()
				identifier := "-"
				if state, ok := sessions.Get(user.ID); ok && state.Identifier != "" {
					identifier = state.Identifier
				}
				var action string
				if msg := c.Message(); msg != nil {
					action = "Message: " + msg.Text
				} else if cb := c.Callback(); cb != nil {
					action = "Callback: " + cb.Data
				} else {
					action = "Unknown action"
				}
				debugMsg := fmt.Sprintf("DEBUG: User: %s (ID: %d), Session: %s, Action: %s",
					user.FirstName, user.ID, identifier, action)
				go c.Bot().Send(user, debugMsg)
			}
			return err
		}
	}
}

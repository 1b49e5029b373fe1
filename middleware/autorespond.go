package middleware

import (
	tele "gopkg.in/telebot.v4"
)

// AutoRespond возвращает middleware, которое автоматически отвечает на callback-запросы,
// чтобы кнопки не оставались в состоянии ожидания.
func AutoRespond() tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			if c.Callback() != nil {
				defer c.Respond()
			}
			return next(c)
		}
	}
}

package app

import (
	"log"
	"runtime/debug"

	tele "gopkg.in/telebot.v3"
)

func RecoverMiddleware() tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			defer func() {
				if r := recover(); r != nil {
					chatID := int64(0)
					if c.Chat() != nil {
						chatID = c.Chat().ID
					}
					log.Printf("💥 PANIC [handler, chat %d]: %v\n%s", chatID, r, string(debug.Stack()))
				}
			}()
			return next(c)
		}
	}
}

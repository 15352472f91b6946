package app

import (
	"bytes"
	"log"

	tele "gopkg.in/telebot.v3"
)

// ==========================================
// РЕГИСТРАЦИЯ И МАРШРУТИЗАЦИЯ
// ==========================================

func RegisterHandlers(b *tele.Bot) {
	gw := &gateway{client: &botPlatform{bot: b}, log: store}

	b.Use(RecoverMiddleware())
	if config.Debug {
		b.Use(debugMiddleware())
	}

	// Заявки на опрос
	b.Handle("/poll", handleSubmit(gw))
	b.Handle("/mpoll", handleSubmit(gw))

	// Сервисные команды
	b.Handle("/help", HandleHelp)
	b.Handle("/stats", HandleStats)
	b.Handle("/statschart", HandleStatsChart)
	b.Handle("/refresh_admin", handleRefreshAdmins(b))
	b.Handle("/dup", func(c tele.Context) error {
		if err := gw.handleDuplicateCommand(c.Message()); err != nil {
			countOutcome(outcomeErrored)
			log.Printf("❌ Сбой обработки /dup: %v", err)
			return c.Send(config.Translation.ExceptionError)
		}
		return nil
	})

	// Кнопки карточек модерации. Payload сырой (переживает перезапуск),
	// поэтому разбор в decodeAction, а не в зарегистрированных уникальных
	// кнопках telebot.
	b.Handle(tele.OnCallback, func(c tele.Context) error {
		// Всегда подтверждаем callback, чтобы убрать "часики" на кнопке.
		defer func() {
			_ = c.Respond()
		}()
		gw.handleAction(c.Callback())
		return nil
	})
}

// handleSubmit — внешняя граница для заявок: любой сбой платформы гасится
// здесь, наружу уходит только общее уведомление об ошибке.
func handleSubmit(gw *gateway) tele.HandlerFunc {
	return func(c tele.Context) error {
		msg := c.Message()
		if msg == nil || msg.Chat == nil {
			return nil
		}
		if err := gw.handleSubmission(c.Sender(), msg.Chat.ID, msg.ID, msg.Text); err != nil {
			countOutcome(outcomeErrored)
			log.Printf("❌ Сбой обработки заявки: %v", err)
			return c.Send(config.Translation.ExceptionError)
		}
		return nil
	}
}

func HandleHelp(c tele.Context) error {
	return c.Send(config.Translation.Help, &tele.SendOptions{
		ReplyTo:   c.Message(),
		ParseMode: tele.ModeHTML,
	})
}

func HandleStats(c tele.Context) error {
	if store == nil {
		return c.Send(config.Translation.ExceptionError)
	}
	entries, err := store.StatLog()
	if err != nil {
		log.Printf("⚠️ Не удалось прочитать журнал публикаций: %v", err)
		return c.Send(config.Translation.ExceptionError)
	}
	return c.Send(renderStats(config.Translation.Stats, entries), &tele.SendOptions{
		ReplyTo:               c.Message(),
		ParseMode:             tele.ModeHTML,
		DisableWebPagePreview: true,
	})
}

func HandleStatsChart(c tele.Context) error {
	if c.Sender() == nil || !isAdmin(c.Sender().ID) {
		return c.Send(config.Translation.PermissionError)
	}
	if store == nil {
		return c.Send(config.Translation.ExceptionError)
	}
	rows, err := store.ActivityByDay(30)
	if err != nil {
		log.Printf("⚠️ Не удалось прочитать журнал публикаций: %v", err)
		return c.Send(config.Translation.ExceptionError)
	}
	png, err := buildActivityChart(rows)
	if err != nil {
		return c.Send("Недостаточно данных для графика.")
	}
	photo := &tele.Photo{File: tele.FromReader(bytes.NewReader(png))}
	return c.Send(photo)
}

func handleRefreshAdmins(b *tele.Bot) tele.HandlerFunc {
	return func(c tele.Context) error {
		n, err := refreshAdmins(b)
		if err != nil {
			log.Printf("⚠️ Не удалось обновить список админов: %v", err)
			return c.Send(config.Translation.ExceptionError)
		}
		log.Printf("✅ Список админов обновлен: %d", n)
		return nil
	}
}

// debugMiddleware логирует входящие сообщения в отладочном режиме.
func debugMiddleware() tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			if msg := c.Message(); msg != nil {
				senderID := int64(0)
				if msg.Sender != nil {
					senderID = msg.Sender.ID
				}
				log.Printf("🔍 msg %d chat %d from %d: %s", msg.ID, msg.Chat.ID, senderID, shorten(msg.Text, 200))
			}
			if cb := c.Callback(); cb != nil {
				log.Printf("🔍 callback %s from %d: %s", cb.ID, cb.Sender.ID, cb.Data)
			}
			return next(c)
		}
	}
}

package app

import (
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	tele "gopkg.in/telebot.v3"
)

// ==========================================
// КОНФИГУРАЦИЯ
// ==========================================

type Config struct {
	Token        string      `json:"token"`
	BotAPIUrl    string      `json:"bot_api_url"`
	MainChatID   int64       `json:"main_chat_id"`   // чат, где принимаются заявки и висят карточки модерации
	TargetChatID int64       `json:"target_chat_id"` // чат, куда публикуются одобренные опросы
	DirectSend   bool        `json:"direct_send"`    // админы публикуют без модерации
	DeleteOrigin bool        `json:"delete_origin"`  // удалять исходное сообщение после решения
	Debug        bool        `json:"debug"`
	Translation  Translation `json:"translation"`
}

// Translation — все тексты, видимые пользователю. Любое поле можно
// переопределить в config.json, пустые заполняются значениями по умолчанию.
type Translation struct {
	Help              string `json:"help"`
	Stats             string `json:"stats"`
	Approve           string `json:"approve"`
	Reject            string `json:"reject"`
	Duplicate         string `json:"duplicate"`
	Approved          string `json:"approved"`
	Rejected          string `json:"rejected"`
	RejectError       string `json:"reject_error"`
	FormatError       string `json:"format_error"`
	DisallowError     string `json:"disallow_error"`
	PermissionError   string `json:"permission_error"`
	HashMismatchError string `json:"hash_mismatch_error"`
	NoReplyError      string `json:"no_reply_error"`
	NotPollError      string `json:"not_poll_error"`
	NotClosedError    string `json:"not_closed_error"`
	NotQuizError      string `json:"not_quiz_error"`
	ExceptionError    string `json:"exception_error"`
}

func (t *Translation) applyDefaults() {
	def := func(field *string, value string) {
		if *field == "" {
			*field = value
		}
	}
	def(&t.Help, "📋 <b>Создание опроса</b>\n/poll Вопрос — один вариант ответа\n/mpoll Вопрос — несколько вариантов\nВарианты ответов — каждый с новой строки (минимум два).\n\n/dup — продублировать закрытый опрос (командой в ответ на него)\n/stats — статистика публикаций")
	def(&t.Stats, "📊 Опубликованные опросы:")
	def(&t.Approve, "✅ Одобрить")
	def(&t.Reject, "❌ Отклонить")
	def(&t.Duplicate, "Продублировать этот опрос?")
	def(&t.Approved, "Опубликовано.")
	def(&t.Rejected, "Отклонено.")
	def(&t.RejectError, "Запрос на опрос отклонен.")
	def(&t.FormatError, "Неверный формат. Первая строка — /poll Вопрос, далее минимум два варианта ответа, каждый с новой строки.")
	def(&t.DisallowError, "Опросы создаются только в основном чате.")
	def(&t.PermissionError, "Недостаточно прав.")
	def(&t.HashMismatchError, "Текст заявки изменился. Карточка выпущена заново.")
	def(&t.NoReplyError, "Команда должна быть ответом на сообщение с опросом.")
	def(&t.NotPollError, "В этом сообщении нет опроса.")
	def(&t.NotClosedError, "Опрос еще не закрыт.")
	def(&t.NotQuizError, "Викторины дублировать нельзя.")
	def(&t.ExceptionError, "Внутренняя ошибка. Попробуйте позже.")
}

// ==========================================
// ГЛОБАЛЬНЫЕ ПЕРЕМЕННЫЕ (Общие для всех файлов)
// ==========================================

var (
	config     Config
	store      *LogStore
	botName    string // username бота, для команд вида /poll@имя
	instanceID string // метка процесса в аудит-логе, различает перезапуски
)

// ==========================================
// MAIN
// ==========================================

func Run() {
	initAppLayout()
	InitLogger()
	defer CloseLogger()
	markStart()
	instanceID = uuid.NewString()

	// 1. Загрузка конфигурации (.env -> config.json -> переменные окружения)
	_ = godotenv.Load()
	if err := loadJSON(configFilePath, &config); err != nil {
		log.Printf("⚠️ Файл %s не найден или поврежден (%v), используются переменные окружения", configFilePath, err)
	}
	applyEnvOverrides(&config)
	config.Translation.applyDefaults()
	if config.Token == "" {
		log.Fatalf("❌ Критическая ошибка: не задан токен бота (token / POLLBOT_TOKEN)")
	}
	if config.MainChatID == 0 || config.TargetChatID == 0 {
		log.Fatalf("❌ Критическая ошибка: не заданы main_chat_id / target_chat_id")
	}

	// 2. Журнал публикаций (SQLite)
	var err error
	store, err = NewLogStore(dbFilePath)
	if err != nil {
		log.Fatalf("❌ Ошибка БД: %v", err)
	}
	log.Println("✅ Журнал публикаций (SQLite) подключен.")

	// 3. Настройки бота
	log.Println("🔄 Попытка подключения к Telegram API...")

	pref := tele.Settings{
		Token: config.Token,
		URL:   config.BotAPIUrl,
		Poller: &tele.LongPoller{
			Timeout:        10 * time.Second,
			AllowedUpdates: []string{"message", "callback_query"},
		},
		OnError: func(err error, c tele.Context) {
			log.Printf("❌ Ошибка в Bot Poller: %v", err)
			if c != nil && c.Chat() != nil {
				log.Printf("   -> В чате: %v", c.Chat().ID)
			}
		},
	}

	b, err := tele.NewBot(pref)
	if err != nil {
		log.Fatalf("❌ КРИТИЧЕСКАЯ ОШИБКА при создании бота (проверьте токен или доступ к API): %v", err)
	}
	botName = b.Me.Username
	log.Printf("✅ Соединение установлено! Бот: @%s (ID: %d), instance %s", botName, b.Me.ID, instanceID)

	// 4. Первичная загрузка администраторов основного чата
	if n, err := refreshAdmins(b); err != nil {
		log.Printf("⚠️ Не удалось получить список админов: %v (используйте /refresh_admin)", err)
	} else {
		log.Printf("✅ Администраторов в кеше: %d", n)
	}

	// 5. Регистрация хендлеров и служебных горутин
	RegisterHandlers(b)
	safeGo("housekeeping", startHousekeeping)
	if addr := os.Getenv("POLLBOT_HEALTH_ADDR"); addr != "" {
		safeGo("health-server", func() { startHealthServer(addr) })
	}

	// Сброс вебхука и зависшей очереди апдейтов
	if err := b.RemoveWebhook(true); err != nil {
		log.Printf("⚠️ Не удалось сбросить вебхук: %v", err)
	}

	log.Printf("🚀 Бот запущен. Основной чат: %d, публикация: %d, direct_send=%v", config.MainChatID, config.TargetChatID, config.DirectSend)
	safeGo("bot", func() { b.Start() })

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	log.Println("⏹ Завершение работы...")
	b.Stop()
	if err := store.Close(); err != nil {
		log.Printf("⚠️ Ошибка закрытия БД: %v", err)
	}
}

func applyEnvOverrides(cfg *Config) {
	if cfg == nil {
		return
	}
	if v := os.Getenv("POLLBOT_TOKEN"); v != "" {
		cfg.Token = v
	}
	if v := os.Getenv("POLLBOT_API_URL"); v != "" {
		cfg.BotAPIUrl = v
	}
	if v := os.Getenv("POLLBOT_MAIN_CHAT_ID"); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.MainChatID = id
		}
	}
	if v := os.Getenv("POLLBOT_TARGET_CHAT_ID"); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.TargetChatID = id
		}
	}
	if v := os.Getenv("POLLBOT_DIRECT_SEND"); v != "" {
		cfg.DirectSend = v == "1" || v == "true"
	}
	if v := os.Getenv("POLLBOT_DELETE_ORIGIN"); v != "" {
		cfg.DeleteOrigin = v == "1" || v == "true"
	}
	if v := os.Getenv("POLLBOT_DEBUG"); v != "" {
		cfg.Debug = v == "1" || v == "true"
	}
}

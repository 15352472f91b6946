package app

import (
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"

	tele "gopkg.in/telebot.v3"
)

// ==========================================
// ЦИКЛ СОГЛАСОВАНИЯ ОПРОСА
// ==========================================

// platform — узкий срез Telegram-клиента, который нужен циклу согласования.
// Реализуется поверх *tele.Bot; в тестах подменяется фейком.
type platform interface {
	sendText(chatID int64, text string, opts *tele.SendOptions) (*tele.Message, error)
	sendPoll(chatID int64, poll *tele.Poll, opts *tele.SendOptions) (*tele.Message, error)
	deleteMessage(chatID int64, messageID int) error
	respond(cb *tele.Callback, text string) error
}

type botPlatform struct {
	bot *tele.Bot
}

func (p *botPlatform) sendText(chatID int64, text string, opts *tele.SendOptions) (*tele.Message, error) {
	if opts == nil {
		opts = &tele.SendOptions{}
	}
	return p.bot.Send(tele.ChatID(chatID), text, opts)
}

func (p *botPlatform) sendPoll(chatID int64, poll *tele.Poll, opts *tele.SendOptions) (*tele.Message, error) {
	if opts == nil {
		opts = &tele.SendOptions{}
	}
	return p.bot.Send(tele.ChatID(chatID), poll, opts)
}

func (p *botPlatform) deleteMessage(chatID int64, messageID int) error {
	return p.bot.Delete(tele.StoredMessage{MessageID: strconv.Itoa(messageID), ChatID: chatID})
}

func (p *botPlatform) respond(cb *tele.Callback, text string) error {
	return p.bot.Respond(cb, &tele.CallbackResponse{Text: text})
}

// publicationLog — журнал опубликованных опросов (внешний накопитель).
type publicationLog interface {
	AddLog(userID int64, username, firstName, lastName, title string, messageID int) error
}

// gateway связывает клиент платформы и журнал. Состояния заявки между
// отправкой карточки и решением нигде не хранятся: правда восстанавливается
// из исходного сообщения в момент нажатия кнопки.
type gateway struct {
	client platform
	log    publicationLog
}

func displayName(u *tele.User) string {
	if u == nil {
		return ""
	}
	return strings.TrimSpace(strings.TrimSpace(u.FirstName) + " " + strings.TrimSpace(u.LastName))
}

func decisionMarkup(approveData, rejectData string) *tele.ReplyMarkup {
	// Кнопки с сырыми callback-данными: payload должен пережить перезапуск
	// процесса, поэтому никакой привязки к зарегистрированным хендлерам.
	return &tele.ReplyMarkup{
		InlineKeyboard: [][]tele.InlineButton{{
			{Text: config.Translation.Approve, Data: approveData},
			{Text: config.Translation.Reject, Data: rejectData},
		}},
	}
}

// ==========================================
// ПОДАЧА ЗАЯВКИ
// ==========================================

// handleSubmission обрабатывает входящее /poll- или /mpoll-сообщение.
func (g *gateway) handleSubmission(user *tele.User, chatID int64, messageID int, raw string) error {
	countSubmission()

	req, err := parsePollRequest(raw, botName)
	if err != nil {
		countOutcome(outcomeMalformed)
		_, err := g.client.sendText(chatID, config.Translation.FormatError, nil)
		return err
	}

	if user != nil && isAdmin(user.ID) && config.DirectSend {
		if err := g.publish(user, req); err != nil {
			return err
		}
		countOutcome(outcomePublishedDirect)
		logModAction(user.ID, "publish_direct", req.Title)
		return nil
	}

	if chatID != config.MainChatID {
		countOutcome(outcomeDisallowed)
		_, err := g.client.sendText(chatID, config.Translation.DisallowError, nil)
		return err
	}

	if err := g.sendModerationCard(user, req, messageID, fingerprint(raw)); err != nil {
		return err
	}
	if user != nil {
		logModAction(user.ID, "submit", req.Title)
	}
	return nil
}

// sendModerationCard публикует в основной чат карточку модерации: закрытый
// опрос-превью с кнопками решения, ответом на исходное сообщение. Отпечаток
// текста заявки уезжает внутри кнопки одобрения.
func (g *gateway) sendModerationCard(user *tele.User, req *pollRequest, originID int, fp uint64) error {
	preview := &tele.Poll{
		Type:            tele.PollRegular,
		Question:        fmt.Sprintf("%s by %s", req.Title, displayName(user)),
		Anonymous:       true,
		Closed:          true,
		MultipleAnswers: req.Multi,
	}
	preview.AddOptions(req.Options...)

	opts := &tele.SendOptions{
		ReplyTo:     &tele.Message{ID: originID, Chat: &tele.Chat{ID: config.MainChatID}},
		ReplyMarkup: decisionMarkup(encodeApprove(fp), payloadReject),
	}
	_, err := g.client.sendPoll(config.MainChatID, preview, opts)
	return err
}

// publish отправляет одобренный опрос в целевой чат и пишет запись в журнал.
func (g *gateway) publish(user *tele.User, req *pollRequest) error {
	if user == nil {
		return errors.New("заявка без отправителя")
	}
	poll := &tele.Poll{
		Type:            tele.PollRegular,
		Question:        fmt.Sprintf("%s by %s", req.Title, displayName(user)),
		Anonymous:       true,
		MultipleAnswers: req.Multi,
	}
	poll.AddOptions(req.Options...)

	sent, err := g.client.sendPoll(config.TargetChatID, poll, nil)
	if err != nil {
		return err
	}
	if g.log != nil {
		if err := g.log.AddLog(user.ID, user.Username, user.FirstName, user.LastName, req.Title, sent.ID); err != nil {
			log.Printf("⚠️ Не удалось записать публикацию в журнал: %v", err)
		}
	}
	return nil
}

// ==========================================
// РЕШЕНИЕ ПО КАРТОЧКЕ
// ==========================================

// handleAction — единая точка входа для нажатий на кнопки карточек.
// Сначала проверка прав, затем маршрутизация по payload. Любой сбой
// платформы гасится здесь же: прибраться, известить чат, жить дальше.
func (g *gateway) handleAction(cb *tele.Callback) {
	if cb == nil || cb.Sender == nil {
		return
	}
	if !isAdmin(cb.Sender.ID) {
		// Карточка остается висеть: решение примет настоящий админ.
		_ = g.client.respond(cb, config.Translation.PermissionError)
		return
	}

	err := func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("паника в обработчике решения: %v", r)
			}
		}()
		act := decodeAction(cb.Data)
		switch act.Kind {
		case actionApprove:
			return g.handleApprove(cb, act.Fingerprint)
		case actionDuplicate:
			return g.handleDuplicateApprove(cb)
		default:
			return g.handleReject(cb)
		}
	}()
	if err != nil {
		countOutcome(outcomeErrored)
		log.Printf("❌ Сбой обработки решения (callback %s): %v", cb.ID, err)
		logModAction(cb.Sender.ID, "error", err.Error())
		if cb.Message != nil && cb.Message.Chat != nil {
			_ = g.client.deleteMessage(cb.Message.Chat.ID, cb.Message.ID)
		}
		_ = g.client.respond(cb, config.Translation.ExceptionError)
		_, _ = g.client.sendText(config.MainChatID, config.Translation.ExceptionError, nil)
	}
}

// handleApprove сверяет зашитый в кнопку отпечаток с текущим текстом
// исходного сообщения и только при совпадении публикует опрос.
func (g *gateway) handleApprove(cb *tele.Callback, fp uint64) error {
	card := cb.Message
	if card == nil || card.ReplyTo == nil {
		return errors.New("карточка без исходного сообщения")
	}
	origin := card.ReplyTo
	raw := origin.Text

	req, err := parsePollRequest(raw, botName)
	if err != nil {
		// Исходное сообщение отредактировано до нечитаемого состояния.
		countOutcome(outcomeMalformed)
		logModAction(cb.Sender.ID, "malformed", shorten(raw, 200))
		_ = g.client.deleteMessage(config.MainChatID, card.ID)
		_, err := g.client.sendText(origin.Chat.ID, config.Translation.FormatError, nil)
		return err
	}

	current := fingerprint(raw)
	if current != fp {
		// Заявка изменилась после выпуска карточки: старую убираем и тут же
		// выпускаем новую с актуальным отпечатком.
		countOutcome(outcomeStale)
		logModAction(cb.Sender.ID, "stale", req.Title)
		_ = g.client.respond(cb, config.Translation.HashMismatchError)
		_ = g.client.deleteMessage(config.MainChatID, card.ID)
		return g.sendModerationCard(origin.Sender, req, origin.ID, current)
	}

	if err := g.publish(origin.Sender, req); err != nil {
		return err
	}
	countOutcome(outcomePublished)
	logModAction(cb.Sender.ID, "approve", req.Title)
	_ = g.client.deleteMessage(config.MainChatID, card.ID)
	_ = g.client.respond(cb, config.Translation.Approved)
	if config.DeleteOrigin {
		_ = g.client.deleteMessage(config.MainChatID, origin.ID)
	}
	return nil
}

func (g *gateway) handleReject(cb *tele.Callback) error {
	card := cb.Message
	if card == nil || card.ReplyTo == nil {
		return errors.New("карточка без исходного сообщения")
	}
	countOutcome(outcomeRejected)
	logModAction(cb.Sender.ID, "reject", strconv.Itoa(card.ReplyTo.ID))
	_, _ = g.client.sendText(config.MainChatID, config.Translation.RejectError, &tele.SendOptions{ReplyTo: card.ReplyTo})
	_ = g.client.deleteMessage(config.MainChatID, card.ID)
	_ = g.client.respond(cb, config.Translation.Rejected)
	return nil
}

package app

import (
	"errors"
	"fmt"
	"log"

	tele "gopkg.in/telebot.v3"
)

// ==========================================
// ДУБЛИРОВАНИЕ ЗАКРЫТОГО ОПРОСА
// ==========================================

// handleDuplicateCommand обрабатывает /dup — команду-ответ на сообщение с
// закрытым опросом. Проверки идут по одной, у каждой свой текст ошибки.
// Отпечаток здесь не нужен: закрытый опрос — неизменяемое состояние
// платформы, а не редактируемый текст.
func (g *gateway) handleDuplicateCommand(msg *tele.Message) error {
	if msg == nil || msg.Chat == nil {
		return nil
	}
	if msg.Chat.ID != config.MainChatID {
		_, err := g.client.sendText(msg.Chat.ID, config.Translation.DisallowError, nil)
		return err
	}
	if config.DeleteOrigin {
		_ = g.client.deleteMessage(config.MainChatID, msg.ID)
	}

	rep := msg.ReplyTo
	if rep == nil {
		_, err := g.client.sendText(config.MainChatID, config.Translation.NoReplyError, nil)
		return err
	}
	if rep.Poll == nil {
		_, err := g.client.sendText(config.MainChatID, config.Translation.NotPollError, nil)
		return err
	}
	if !rep.Poll.Closed {
		_, err := g.client.sendText(config.MainChatID, config.Translation.NotClosedError, nil)
		return err
	}
	if rep.Poll.Type == tele.PollQuiz {
		// У викторины есть правильный ответ, повторное голосование не имеет смысла.
		_, err := g.client.sendText(config.MainChatID, config.Translation.NotQuizError, nil)
		return err
	}

	opts := &tele.SendOptions{
		ReplyTo:               rep,
		ParseMode:             tele.ModeHTML,
		DisableWebPagePreview: true,
		DisableNotification:   true,
		ReplyMarkup:           decisionMarkup(payloadDuplicate, payloadReject),
	}
	_, err := g.client.sendText(config.MainChatID, config.Translation.Duplicate, opts)
	return err
}

// handleDuplicateApprove переиздает закрытый опрос из сообщения, на которое
// отвечает карточка: вопрос и варианты дословно, авторство — по автору
// исходного сообщения с опросом.
func (g *gateway) handleDuplicateApprove(cb *tele.Callback) error {
	card := cb.Message
	if card == nil || card.ReplyTo == nil || card.ReplyTo.Poll == nil {
		return errors.New("карточка дублирования без исходного опроса")
	}
	origin := card.ReplyTo
	src := origin.Poll
	author := origin.Sender

	poll := &tele.Poll{
		Type:            tele.PollRegular,
		Question:        fmt.Sprintf("%s by %s", src.Question, displayName(author)),
		Anonymous:       true,
		MultipleAnswers: src.MultipleAnswers,
	}
	for _, op := range src.Options {
		poll.AddOptions(op.Text)
	}

	sent, err := g.client.sendPoll(config.MainChatID, poll, nil)
	if err != nil {
		return err
	}
	if g.log != nil && author != nil {
		if err := g.log.AddLog(author.ID, author.Username, author.FirstName, author.LastName, src.Question, sent.ID); err != nil {
			log.Printf("⚠️ Не удалось записать публикацию в журнал: %v", err)
		}
	}
	countOutcome(outcomeDuplicate)
	logModAction(cb.Sender.ID, "duplicate", src.Question)
	_ = g.client.deleteMessage(config.MainChatID, card.ID)
	_ = g.client.respond(cb, config.Translation.Approved)
	if config.DeleteOrigin {
		_ = g.client.deleteMessage(config.MainChatID, origin.ID)
	}
	return nil
}

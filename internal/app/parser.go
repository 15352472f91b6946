package app

import (
	"errors"
	"strings"
)

// ==========================================
// РАЗБОР ЗАЯВКИ НА ОПРОС
// ==========================================

// pollRequest — разобранная заявка. Создается из сырого текста сообщения
// и после этого не меняется; живет один цикл модерации.
type pollRequest struct {
	Title   string
	Options []string
	Multi   bool
}

var errBadFormat = errors.New("неверный формат заявки")

// parsePollRequest разбирает сырой текст заявки.
// Первая строка: /poll или /mpoll (можно с @имябота), пробел, заголовок.
// Дальше — варианты ответа, каждый с новой строки, минимум два.
// Пустые строки игнорируются, все строки обрезаются по краям.
func parsePollRequest(raw, botName string) (*pollRequest, error) {
	lines := strings.Split(raw, "\n")
	first := strings.TrimSpace(lines[0])

	var title string
	var multi bool
	switch {
	case strings.HasPrefix(first, "/poll "):
		title = strings.TrimPrefix(first, "/poll ")
	case botName != "" && strings.HasPrefix(first, "/poll@"+botName+" "):
		title = strings.TrimPrefix(first, "/poll@"+botName+" ")
	case strings.HasPrefix(first, "/mpoll "):
		title = strings.TrimPrefix(first, "/mpoll ")
		multi = true
	case botName != "" && strings.HasPrefix(first, "/mpoll@"+botName+" "):
		title = strings.TrimPrefix(first, "/mpoll@"+botName+" ")
		multi = true
	default:
		return nil, errBadFormat
	}

	title = strings.TrimSpace(title)
	if title == "" {
		return nil, errBadFormat
	}

	options := make([]string, 0, len(lines)-1)
	for _, line := range lines[1:] {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		options = append(options, line)
	}
	if len(options) < 2 {
		return nil, errBadFormat
	}

	return &pollRequest{Title: title, Options: options, Multi: multi}, nil
}

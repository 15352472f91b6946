package app

import (
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// ==========================================
// ОТПЕЧАТОК ЗАЯВКИ И ПОЛЕЗНАЯ НАГРУЗКА КНОПОК
// ==========================================

// Вся информация о незавершенной заявке живет в самом чате: отпечаток
// исходного текста зашивается в callback-данные кнопки и сверяется с
// текущим текстом сообщения в момент решения. Никакой таблицы заявок нет.

const (
	payloadApprovePrefix = "approve "
	payloadDuplicate     = "duplicate"
	payloadReject        = "reject"
)

type actionKind int

const (
	actionReject actionKind = iota // по умолчанию: любой неопознанный payload
	actionApprove
	actionDuplicate
)

type moderationAction struct {
	Kind        actionKind
	Fingerprint uint64
}

// fingerprint — детерминированный отпечаток сырого текста заявки.
// Не криптография: это детектор редактирования, а не граница доступа.
// Стабилен между перезапусками, иначе переизданные карточки ломались бы.
func fingerprint(raw string) uint64 {
	return xxhash.Sum64String(raw)
}

func encodeApprove(fp uint64) string {
	return payloadApprovePrefix + strconv.FormatUint(fp, 10)
}

// decodeAction разбирает callback-данные кнопки. Все, что не опознано
// (в том числе битый отпечаток), сваливается в отклонение.
func decodeAction(data string) moderationAction {
	data = strings.TrimSpace(data)
	if rest, ok := strings.CutPrefix(data, payloadApprovePrefix); ok {
		fp, err := strconv.ParseUint(strings.TrimSpace(rest), 10, 64)
		if err != nil {
			return moderationAction{Kind: actionReject}
		}
		return moderationAction{Kind: actionApprove, Fingerprint: fp}
	}
	if data == payloadDuplicate {
		return moderationAction{Kind: actionDuplicate}
	}
	return moderationAction{Kind: actionReject}
}

package app

import (
	"sync"

	tele "gopkg.in/telebot.v3"
)

// ==========================================
// КЕШ АДМИНИСТРАТОРОВ
// ==========================================

// Список заполняется при старте и по команде /refresh_admin. Между
// обновлениями читатели могут видеть устаревший список — это гейт прав,
// а не целостность данных, поэтому допустимо.

var (
	adminsMu sync.RWMutex
	admins   []int64
)

func isAdmin(id int64) bool {
	adminsMu.RLock()
	defer adminsMu.RUnlock()
	for _, a := range admins {
		if a == id {
			return true
		}
	}
	return false
}

func setAdmins(ids []int64) {
	adminsMu.Lock()
	admins = ids
	adminsMu.Unlock()
}

func getAdmins() []int64 {
	adminsMu.RLock()
	defer adminsMu.RUnlock()
	out := make([]int64, len(admins))
	copy(out, admins)
	return out
}

// refreshAdmins перечитывает администраторов основного чата. Идемпотентна,
// дергается сколько угодно раз.
func refreshAdmins(b *tele.Bot) (int, error) {
	members, err := b.AdminsOf(&tele.Chat{ID: config.MainChatID})
	if err != nil {
		return 0, err
	}
	ids := make([]int64, 0, len(members))
	for _, m := range members {
		if m.User != nil {
			ids = append(ids, m.User.ID)
		}
	}
	setAdmins(ids)
	return len(ids), nil
}

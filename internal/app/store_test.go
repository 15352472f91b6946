package app

import (
	"path/filepath"
	"testing"
)

func newTestStore(t *testing.T) *LogStore {
	t.Helper()
	s, err := NewLogStore(filepath.Join(t.TempDir(), "polls.db"))
	if err != nil {
		t.Fatalf("NewLogStore: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStatLogGroupsBySubmitter(t *testing.T) {
	s := newTestStore(t)

	mustAdd := func(userID int64, first, last, title string, msgID int) {
		t.Helper()
		if err := s.AddLog(userID, "", first, last, title, msgID); err != nil {
			t.Fatalf("AddLog: %v", err)
		}
	}
	mustAdd(1, "Вася", "Пупкин", "Первый", 100)
	mustAdd(1, "Вася", "Пупкин", "Второй", 101)
	mustAdd(1, "Вася", "Пупкин", "Третий", 102)
	mustAdd(2, "Анна", "", "Четвертый", 103)

	entries, err := s.StatLog()
	if err != nil {
		t.Fatalf("StatLog: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("записей %d, ожидалось 2: %#v", len(entries), entries)
	}
	if entries[0].Name != "Вася Пупкин" || entries[0].Count != 3 {
		t.Fatalf("первая запись: %#v", entries[0])
	}
	if entries[1].Name != "Анна" || entries[1].Count != 1 {
		t.Fatalf("вторая запись: %#v", entries[1])
	}
}

func TestActivityByDay(t *testing.T) {
	s := newTestStore(t)
	for i := 0; i < 4; i++ {
		if err := s.AddLog(1, "", "Вася", "Пупкин", "Опрос", 100+i); err != nil {
			t.Fatalf("AddLog: %v", err)
		}
	}

	rows, err := s.ActivityByDay(7)
	if err != nil {
		t.Fatalf("ActivityByDay: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("дней %d, ожидался 1: %#v", len(rows), rows)
	}
	if rows[0].Count != 4 {
		t.Fatalf("за сегодня %d публикаций, ожидалось 4", rows[0].Count)
	}
}

func TestLogModActionBestEffort(t *testing.T) {
	// Без подключенного журнала аудит просто молчит.
	store = nil
	logModAction(1, "approve", "не должно паниковать")

	store = newTestStore(t)
	defer func() { store = nil }()
	instanceID = "test-instance"
	logModAction(1, "approve", "Заявка")

	var entries []ModEntry
	if err := store.DB.Find(&entries).Error; err != nil {
		t.Fatalf("чтение аудита: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("записей аудита %d, ожидалась 1", len(entries))
	}
	if entries[0].Action != "approve" || entries[0].Instance != "test-instance" {
		t.Fatalf("запись аудита: %#v", entries[0])
	}
}

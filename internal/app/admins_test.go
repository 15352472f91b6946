package app

import "testing"

func TestAdminCache(t *testing.T) {
	setAdmins([]int64{1, 2, 3})
	defer setAdmins(nil)

	if !isAdmin(2) {
		t.Fatal("2 должен быть админом")
	}
	if isAdmin(99) {
		t.Fatal("99 не должен быть админом")
	}

	// Повторная установка полностью замещает список.
	setAdmins([]int64{5})
	if isAdmin(1) {
		t.Fatal("после обновления старый список не действует")
	}
	if got := getAdmins(); len(got) != 1 || got[0] != 5 {
		t.Fatalf("getAdmins: %#v", got)
	}
}

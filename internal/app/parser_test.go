package app

import (
	"strings"
	"testing"
)

func TestParsePollRequest(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		title   string
		options []string
		multi   bool
		wantErr bool
	}{
		{"simple", "/poll Lunch?\nPizza\nSushi", "Lunch?", []string{"Pizza", "Sushi"}, false, false},
		{"multi", "/mpoll Snacks?\nChips\nFruit", "Snacks?", []string{"Chips", "Fruit"}, true, false},
		{"addressed", "/poll@testbot Lunch?\nPizza\nSushi", "Lunch?", []string{"Pizza", "Sushi"}, false, false},
		{"addressed multi", "/mpoll@testbot Snacks?\nChips\nFruit", "Snacks?", []string{"Chips", "Fruit"}, true, false},
		{"trimmed lines", "  /poll  Lunch?  \n  Pizza \n\tSushi\t", "Lunch?", []string{"Pizza", "Sushi"}, false, false},
		{"blank option lines skipped", "/poll Lunch?\nPizza\n\nSushi\n", "Lunch?", []string{"Pizza", "Sushi"}, false, false},
		{"one option", "/poll Lunch?\nPizza", "", nil, false, true},
		{"no options", "/poll Lunch?", "", nil, false, true},
		{"empty", "", "", nil, false, true},
		{"no title", "/poll \nPizza\nSushi", "", nil, false, true},
		{"no space after command", "/poll\nPizza\nSushi", "", nil, false, true},
		{"wrong command", "/vote Lunch?\nPizza\nSushi", "", nil, false, true},
		{"foreign bot", "/poll@otherbot Lunch?\nPizza\nSushi", "", nil, false, true},
		{"plain text", "Lunch?\nPizza\nSushi", "", nil, false, true},
	}
	for _, tt := range tests {
		req, err := parsePollRequest(tt.in, "testbot")
		if tt.wantErr {
			if err == nil {
				t.Fatalf("%s: parsePollRequest(%q) ожидалась ошибка, получено %+v", tt.name, tt.in, req)
			}
			continue
		}
		if err != nil {
			t.Fatalf("%s: parsePollRequest(%q) вернул ошибку: %v", tt.name, tt.in, err)
		}
		if req.Title != tt.title {
			t.Fatalf("%s: title = %q, ожидалось %q", tt.name, req.Title, tt.title)
		}
		if req.Multi != tt.multi {
			t.Fatalf("%s: multi = %v, ожидалось %v", tt.name, req.Multi, tt.multi)
		}
		if len(req.Options) != len(tt.options) {
			t.Fatalf("%s: options = %#v, ожидалось %#v", tt.name, req.Options, tt.options)
		}
		for i := range tt.options {
			if req.Options[i] != tt.options[i] {
				t.Fatalf("%s: options[%d] = %q, ожидалось %q", tt.name, i, req.Options[i], tt.options[i])
			}
		}
	}
}

// Повторный разбор собранной обратно заявки дает тот же результат.
func TestParsePollRequestRoundTrip(t *testing.T) {
	raw := "/mpoll  Куда едем?  \n Горы \nМоре\n\n Лес "
	req, err := parsePollRequest(raw, "testbot")
	if err != nil {
		t.Fatalf("parsePollRequest: %v", err)
	}

	rebuilt := "/mpoll " + req.Title + "\n" + strings.Join(req.Options, "\n")
	again, err := parsePollRequest(rebuilt, "testbot")
	if err != nil {
		t.Fatalf("повторный разбор: %v", err)
	}
	if again.Title != req.Title || again.Multi != req.Multi {
		t.Fatalf("повторный разбор изменил заявку: %+v -> %+v", req, again)
	}
	if len(again.Options) != len(req.Options) {
		t.Fatalf("повторный разбор изменил варианты: %#v -> %#v", req.Options, again.Options)
	}
	for i := range req.Options {
		if again.Options[i] != req.Options[i] {
			t.Fatalf("вариант %d изменился: %q -> %q", i, req.Options[i], again.Options[i])
		}
	}
}

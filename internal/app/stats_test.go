package app

import (
	"strings"
	"testing"
)

func TestRenderStats(t *testing.T) {
	entries := []statEntry{
		{Name: "Вася Пупкин", Count: 5},
		{Name: "Анна <Smith>", Count: 2},
	}
	out := renderStats("📊 Опубликованные опросы:", entries)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("строк %d, ожидалось 3: %q", len(lines), out)
	}
	if lines[0] != "📊 Опубликованные опросы:" {
		t.Fatalf("заголовок %q", lines[0])
	}
	if lines[1] != "<b>5</b>: Вася Пупкин" {
		t.Fatalf("строка статистики %q", lines[1])
	}
	if strings.Contains(lines[2], "<Smith>") {
		t.Fatalf("имя должно экранироваться для HTML: %q", lines[2])
	}
	if !strings.Contains(lines[2], "&lt;Smith&gt;") {
		t.Fatalf("ожидалось экранированное имя: %q", lines[2])
	}
}

func TestRenderStatsEmpty(t *testing.T) {
	out := renderStats("📊 Опубликованные опросы:", nil)
	if out != "📊 Опубликованные опросы:\n" {
		t.Fatalf("пустая статистика: %q", out)
	}
}

func TestBuildActivityChartTooFewPoints(t *testing.T) {
	if _, err := buildActivityChart([]dayCount{{Day: "2026-08-01", Count: 3}}); err == nil {
		t.Fatal("по одной точке график не строится")
	}
}

func TestBuildActivityChart(t *testing.T) {
	rows := []dayCount{
		{Day: "2026-08-01", Count: 3},
		{Day: "2026-08-02", Count: 1},
		{Day: "2026-08-05", Count: 7},
	}
	png, err := buildActivityChart(rows)
	if err != nil {
		t.Fatalf("buildActivityChart: %v", err)
	}
	if len(png) == 0 {
		t.Fatal("пустой PNG")
	}
}

package app

import (
	"bytes"
	"errors"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/wcharczuk/go-chart/v2"
)

// ==========================================
// СТАТИСТИКА ПУБЛИКАЦИЙ
// ==========================================

// renderStats форматирует агрегированный журнал для отправки в чат.
// Агрегация и порядок — забота журнала, здесь только разметка.
func renderStats(header string, entries []statEntry) string {
	var sb strings.Builder
	sb.WriteString(header)
	sb.WriteString("\n")
	for _, e := range entries {
		sb.WriteString(fmt.Sprintf("<b>%d</b>: %s\n", e.Count, html.EscapeString(e.Name)))
	}
	return sb.String()
}

// buildActivityChart рисует PNG-график публикаций по дням.
func buildActivityChart(rows []dayCount) ([]byte, error) {
	if len(rows) < 2 {
		return nil, errors.New("недостаточно данных для графика")
	}

	xs := make([]time.Time, 0, len(rows))
	ys := make([]float64, 0, len(rows))
	for _, r := range rows {
		day, err := time.Parse("2006-01-02", r.Day)
		if err != nil {
			continue
		}
		xs = append(xs, day)
		ys = append(ys, float64(r.Count))
	}
	if len(xs) < 2 {
		return nil, errors.New("недостаточно данных для графика")
	}

	graph := chart.Chart{
		Background: chart.Style{Padding: chart.Box{Top: 20, Left: 20, Right: 20, Bottom: 20}},
		Series: []chart.Series{
			chart.TimeSeries{
				XValues: xs,
				YValues: ys,
				Style:   chart.Style{StrokeColor: chart.ColorBlue, StrokeWidth: 5.0, DotColor: chart.ColorWhite, DotWidth: 4.0},
			},
		},
		XAxis:  chart.XAxis{Name: "Дни", ValueFormatter: chart.TimeValueFormatterWithFormat("02 Jan")},
		YAxis:  chart.YAxis{Name: "Публикации", ValueFormatter: func(v interface{}) string { return fmt.Sprintf("%.0f", v.(float64)) }},
		Height: 400,
		Width:  800,
	}

	buffer := bytes.NewBuffer([]byte{})
	err := graph.Render(chart.PNG, buffer)
	return buffer.Bytes(), err
}

package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"keyscribe/internal/history"
	"keyscribe/internal/usage"
)

const maxTextRunes = 60

// RenderUsage рисует учёт за день. keys нужны только для подписи ключей.
func RenderUsage(d usage.Data, keys []string, capLimit int) string {
	rows := d.Rows()
	if len(rows) == 0 {
		return Muted("%s: no requests", d.Date) + "\n"
	}

	t := Table{
		Title:   "Usage " + d.Date + " (UTC)",
		Headers: []string{"Key", "Model", "Used", "Left"},
		Right:   map[int]bool{2: true, 3: true},
	}
	total := 0
	for _, r := range rows {
		label := "#" + strconv.Itoa(r.KeyIndex+1)
		if r.KeyIndex < len(keys) {
			label += " " + MaskKey(keys[r.KeyIndex])
		}
		t.Rows = append(t.Rows, []string{
			label,
			r.Model,
			fmt.Sprintf("%d/%d", r.Count, capLimit),
			strconv.Itoa(max(capLimit-r.Count, 0)),
		})
		total += r.Count
	}
	return RenderTable(t) + Muted("%s calls today", humanize.Comma(int64(total))) + "\n"
}

// MaskKey оставляет видимыми только последние четыре символа.
func MaskKey(key string) string {
	r := []rune(key)
	if len(r) <= 4 {
		return strings.Repeat("*", len(r))
	}
	return "..." + string(r[len(r)-4:])
}

// RenderHistory рисует последние сессии; now задаёт точку отсчёта для относительного времени.
func RenderHistory(entries []history.Entry, now time.Time) string {
	if len(entries) == 0 {
		return Muted("history is empty") + "\n"
	}

	t := Table{
		Title:   "History",
		Headers: []string{"When", "Length", "Model", "Text"},
		Right:   map[int]bool{1: true},
	}
	for _, e := range entries {
		model := e.Model
		if e.RewriteModel != "" {
			model += " + " + e.RewriteModel
		}
		text := truncate(e.Text)
		if e.Failed() {
			text = errorStyle.Render(truncate(e.Error))
		}
		t.Rows = append(t.Rows, []string{
			humanize.RelTime(e.StartedAt, now, "ago", "from now"),
			e.Duration.Round(100 * time.Millisecond).String(),
			model,
			text,
		})
	}
	return RenderTable(t)
}

func truncate(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= maxTextRunes {
		return s
	}
	return string(r[:maxTextRunes-3]) + "..."
}

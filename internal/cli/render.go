// Package cli форматирует вывод подкоманд keyscribe.
package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	colorBorder = lipgloss.Color("#575653")
	colorText   = lipgloss.Color("#FFFCF0")
	colorAccent = lipgloss.Color("#3AA99F")
	colorRed    = lipgloss.Color("#D14D41")
	colorMuted  = lipgloss.Color("#6F6E69")

	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	valueStyle  = lipgloss.NewStyle().Foreground(colorText)
	errorStyle  = lipgloss.NewStyle().Foreground(colorRed)
	mutedStyle  = lipgloss.NewStyle().Foreground(colorMuted)
	borderStyle = lipgloss.NewStyle().Foreground(colorBorder)
)

// Table - таблица для вывода в терминал.
type Table struct {
	Title   string
	Headers []string
	Rows    [][]string
	// Right - колонки, выравниваемые по правому краю.
	Right map[int]bool
}

// RenderTable рисует таблицу с рамкой.
func RenderTable(t Table) string {
	cols := len(t.Headers)
	widths := make([]int, cols)
	for i, h := range t.Headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range t.Rows {
		for i := 0; i < cols && i < len(row); i++ {
			widths[i] = max(widths[i], lipgloss.Width(row[i]))
		}
	}

	var b strings.Builder
	if t.Title != "" {
		b.WriteString("  " + titleStyle.Render(t.Title) + "\n")
	}

	line := func(left, mid, right string) {
		b.WriteString(borderStyle.Render(left))
		for i, w := range widths {
			b.WriteString(borderStyle.Render(strings.Repeat("─", w+2)))
			if i < cols-1 {
				b.WriteString(borderStyle.Render(mid))
			}
		}
		b.WriteString(borderStyle.Render(right) + "\n")
	}
	row := func(cells []string, style lipgloss.Style) {
		b.WriteString(borderStyle.Render("│"))
		for i, w := range widths {
			cell := ""
			if i < len(cells) {
				cell = cells[i]
			}
			b.WriteString(style.Render(" " + pad(cell, w, t.Right[i]) + " "))
			if i < cols-1 {
				b.WriteString(borderStyle.Render("│"))
			}
		}
		b.WriteString(borderStyle.Render("│") + "\n")
	}

	line("╭", "┬", "╮")
	row(t.Headers, headerStyle)
	line("├", "┼", "┤")
	for _, r := range t.Rows {
		row(r, valueStyle)
	}
	line("╰", "┴", "╯")
	return b.String()
}

func pad(s string, width int, right bool) string {
	gap := width - lipgloss.Width(s)
	if gap <= 0 {
		return s
	}
	if right {
		return strings.Repeat(" ", gap) + s
	}
	return s + strings.Repeat(" ", gap)
}

// Muted рендерит вспомогательную строку.
func Muted(format string, args ...any) string {
	return "  " + mutedStyle.Render(fmt.Sprintf(format, args...))
}

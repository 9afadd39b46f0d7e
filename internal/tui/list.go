package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/matheuskafuri/trendly/internal/newsapi"
)

// Each item is 2 lines + 1 blank line.
const itemHeight = 3

func relativeTime(t time.Time) string {
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh", int(d.Hours()))
	case d < 7*24*time.Hour:
		return fmt.Sprintf("%dd", int(d.Hours()/24))
	default:
		return t.Format("Jan 2")
	}
}

func sourceName(a newsapi.Article) string {
	if a.Source.Name != "" {
		return a.Source.Name
	}
	return "unknown source"
}

func renderListItem(a newsapi.Article, selected bool, width int) string {
	if width < 10 {
		width = 30
	}

	title := a.Title
	if title == "" {
		title = "(untitled)"
	}
	if selected {
		title = itemSelectedStyle.Render("> " + truncateStr(title, width-4))
	} else {
		title = itemTitleStyle.Render("  " + truncateStr(title, width-4))
	}

	meta := "  " + itemSourceStyle.Render(truncateStr(sourceName(a), width-12))
	if pub := a.Published(); !pub.IsZero() {
		meta += " " + itemTimeStyle.Render("· "+relativeTime(pub))
	}

	return title + "\n" + meta
}

func truncateStr(s string, n int) string {
	if n <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	if n <= 3 {
		return string(runes[:n])
	}
	return string(runes[:n-3]) + "..."
}

// visibleItems is how many list items fit in height.
func visibleItems(height int) int {
	if v := height / itemHeight; v > 0 {
		return v
	}
	return 1
}

// listWindow returns the [start, end) slice of items to draw so that cursor stays visible.
func listWindow(cursor, total, visible int) (int, int) {
	start := 0
	if cursor >= visible {
		start = cursor - visible + 1
	}
	end := start + visible
	if end > total {
		end = total
		start = end - visible
		if start < 0 {
			start = 0
		}
	}
	return start, end
}

func renderList(articles []newsapi.Article, cursor, height, width int, footer string) string {
	if len(articles) == 0 {
		return lipglossCenter(footer, width, height)
	}

	// Reserve the last row for the footer.
	visible := visibleItems(height - 1)
	start, end := listWindow(cursor, len(articles), visible)

	var b strings.Builder
	for i := start; i < end; i++ {
		b.WriteString(renderListItem(articles[i], i == cursor, width))
		if i < end-1 {
			b.WriteString("\n\n")
		}
	}
	if footer != "" && end == len(articles) {
		b.WriteString("\n\n" + footerStyle.Render(truncateStr(footer, width)))
	}

	return b.String()
}

// nearEnd reports whether the cursor is within threshold items of the last one.
func nearEnd(cursor, total, threshold int) bool {
	return total > 0 && total-1-cursor < threshold
}

func lipglossCenter(s string, width, height int) string {
	pad := (width - lipgloss.Width(s)) / 2
	if pad < 0 {
		pad = 0
	}
	return strings.Repeat("\n", height/3) + strings.Repeat(" ", pad) + emptyStyle.Render(s)
}

package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

type statusInfo struct {
	count     int
	total     int
	label     string
	sortBy    string
	language  string
	loading   bool
	searching bool
	filtering bool
	showTop   bool
}

func renderStatusBar(s statusInfo, width int) string {
	accent := lipgloss.NewStyle().
		Foreground(colorAccent).
		Bold(true)

	left := fmt.Sprintf(" %d articles", s.count)
	if s.total > s.count {
		left = fmt.Sprintf(" %d of %d articles", s.count, s.total)
	}
	left += " · " + accent.Render(s.label)
	left += " · " + s.sortBy + " · " + s.language
	if s.loading {
		left += " (loading...)"
	}

	right := " / search  f category  s sort  l lang  t theme  ? help  q quit "
	if s.showTop {
		right = " g top " + right
	}
	switch {
	case s.searching:
		right = " esc cancel  enter search "
	case s.filtering:
		right = " ←/→ move  enter select  1-9 jump  esc close "
	}

	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}

	bar := left + fmt.Sprintf("%*s", gap, "") + right

	return statusBarStyle.Width(width).Render(bar)
}

func renderBottomBar(hints string, width int) string {
	right := " " + hints + " "

	gap := width - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}

	return statusBarStyle.Width(width).Render(fmt.Sprintf("%*s", gap, "") + right)
}

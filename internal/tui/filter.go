package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// categoryBar is the row of category tabs. A category is active when it is
// the current query; free-text searches leave every tab inactive.
type categoryBar struct {
	categories []string
	active     string
	selecting  bool
	tabCursor  int
}

func newCategoryBar(categories []string, query string) categoryBar {
	c := categoryBar{categories: categories}
	c.sync(query)
	return c
}

// sync marks the tab matching query active and moves the tab cursor onto it.
func (c *categoryBar) sync(query string) {
	c.active = ""
	for i, cat := range c.categories {
		if cat == query {
			c.active = cat
			c.tabCursor = i
			return
		}
	}
}

func (c *categoryBar) left() {
	if c.tabCursor > 0 {
		c.tabCursor--
	}
}

func (c *categoryBar) right() {
	if c.tabCursor < len(c.categories)-1 {
		c.tabCursor++
	}
}

func (c *categoryBar) current() (string, bool) {
	if c.tabCursor < 0 || c.tabCursor >= len(c.categories) {
		return "", false
	}
	return c.categories[c.tabCursor], true
}

// at returns the category for a 1-based number key.
func (c *categoryBar) at(n int) (string, bool) {
	if n < 1 || n > len(c.categories) {
		return "", false
	}
	c.tabCursor = n - 1
	return c.categories[n-1], true
}

// label describes the current query for the status bar.
func (c *categoryBar) label(query string) string {
	if c.active != "" {
		return c.active
	}
	if query == "" {
		return "general"
	}
	return fmt.Sprintf("search %q", query)
}

func (c *categoryBar) render(width int) string {
	sep := tabSeparatorStyle.Render(" · ")
	parts := make([]string, 0, len(c.categories))

	for i, cat := range c.categories {
		style := tabInactiveStyle
		if cat == c.active {
			style = tabActiveStyle
		}
		label := cat
		if c.selecting && i == c.tabCursor {
			label = "[" + cat + "]"
		}
		if c.selecting && i < 9 {
			label = fmt.Sprintf("%d %s", i+1, label)
		}
		parts = append(parts, style.Render(label))
	}

	// Build row with · separators, stopping when we'd exceed width
	var row string
	for i, part := range parts {
		candidate := row
		if i > 0 {
			candidate += sep
		}
		candidate += part
		if lipgloss.Width(candidate) > width && row != "" {
			break
		}
		row = candidate
	}

	barStyle := lipgloss.NewStyle().
		Background(colorSurface).
		Width(width).
		PaddingLeft(1)
	return barStyle.Render(row)
}

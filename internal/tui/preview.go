package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/matheuskafuri/trendly/internal/newsapi"
)

const (
	noDescription    = "No description available."
	placeholderImage = "(default placeholder)"
)

func renderPreview(article *newsapi.Article, width, height, scroll int) string {
	if article == nil {
		return lipglossCenter("Select an article", width, height)
	}

	contentWidth := width - 2
	if contentWidth < 10 {
		contentWidth = 10
	}

	title := previewTitleStyle.Width(contentWidth).Render(article.Title)

	meta := sourceName(*article)
	if pub := article.Published(); !pub.IsZero() {
		meta += " · " + pub.Format("Jan 2, 2006")
	}
	if article.Author != "" {
		meta += " · " + article.Author
	}
	source := previewSourceStyle.Render(meta)

	desc := article.Description
	if desc == "" {
		desc = noDescription
	}
	body := previewBodyStyle.Width(contentWidth).Render(wrapText(desc, contentWidth))

	image := previewMetaStyle.Width(contentWidth).Render("Image: " + imageURL(*article))
	link := previewLinkStyle.Width(contentWidth).Render("Read more: " + article.URL)

	content := lipgloss.JoinVertical(lipgloss.Left, title, source, "", body, "", image, link)

	lines := strings.Split(content, "\n")
	if scroll > 0 && scroll < len(lines) {
		lines = lines[scroll:]
	}

	if len(lines) < height {
		lines = append(lines, make([]string, height-len(lines))...)
	} else if len(lines) > height {
		lines = lines[:height]
	}

	return strings.Join(lines, "\n")
}

// imageURL falls back to the placeholder when the article has no image.
func imageURL(a newsapi.Article) string {
	if a.URLToImage == "" {
		return placeholderImage
	}
	return a.URLToImage
}

func wrapText(s string, width int) string {
	if width <= 0 {
		return s
	}
	words := strings.Fields(s)
	if len(words) == 0 {
		return ""
	}

	var lines []string
	line := words[0]
	for _, w := range words[1:] {
		if len([]rune(line))+1+len([]rune(w)) > width {
			lines = append(lines, line)
			line = w
		} else {
			line += " " + w
		}
	}
	lines = append(lines, line)
	return strings.Join(lines, "\n")
}

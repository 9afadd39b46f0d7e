package newsapi

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

const maxDescriptionRunes = 300

var strictPolicy = bluemonday.StrictPolicy()

// cleanText strips markup, decodes entities and collapses whitespace.
func cleanText(s string) string {
	if s == "" {
		return ""
	}
	s = html.UnescapeString(strictPolicy.Sanitize(s))
	return strings.Join(strings.Fields(s), " ")
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	if n <= 3 {
		return string(runes[:n])
	}
	return string(runes[:n-3]) + "..."
}

func normalize(articles []Article) []Article {
	for i := range articles {
		a := &articles[i]
		a.Title = cleanText(a.Title)
		a.Description = truncate(cleanText(a.Description), maxDescriptionRunes)
		a.Author = strings.TrimSpace(a.Author)
		a.URL = strings.TrimSpace(a.URL)
		a.URLToImage = strings.TrimSpace(a.URLToImage)
	}
	return articles
}

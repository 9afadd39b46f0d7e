package newsapi

import (
	"fmt"
	"time"
)

type Source struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Article is one item of the /news listing. URL identifies it within a session.
type Article struct {
	Source      Source `json:"source"`
	Author      string `json:"author"`
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	URLToImage  string `json:"urlToImage"`
	PublishedAt string `json:"publishedAt"`
	Content     string `json:"content"`
}

// Published parses PublishedAt, returning the zero time when it is missing or malformed.
func (a Article) Published() time.Time {
	if a.PublishedAt == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, a.PublishedAt)
	if err != nil {
		return time.Time{}
	}
	return t
}

type Response struct {
	Status       string    `json:"status"`
	TotalResults int       `json:"totalResults"`
	Articles     []Article `json:"articles"`

	// Set on error bodies only.
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}

// APIError is returned for non-2xx responses and for bodies reporting status "error".
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	switch {
	case e.Code != "" && e.Message != "":
		return fmt.Sprintf("news api: status %d: %s: %s", e.StatusCode, e.Code, e.Message)
	case e.Message != "":
		return fmt.Sprintf("news api: status %d: %s", e.StatusCode, e.Message)
	default:
		return fmt.Sprintf("news api: status %d", e.StatusCode)
	}
}

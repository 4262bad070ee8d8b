package main

import (
	"io"
	"time"

	"github.com/aquilax/guestbook/comment"
	"github.com/gorilla/feeds"
)

// ExportRSS writes the fetched guestbook as an RSS feed, one item per
// comment, replies flattened under their thread.
func ExportRSS(w io.Writer, cfg *Config, lists []*comment.Comment) error {
	feed := &feeds.Feed{
		Title:       "Guestbook",
		Link:        &feeds.Link{Href: cfg.BaseURL},
		Description: "Guestbook comments and RSVPs",
		Created:     time.Now(),
	}
	appendItems(feed, cfg.BaseURL, lists)
	return feed.WriteRss(w)
}

func appendItems(feed *feeds.Feed, baseURL string, lists []*comment.Comment) {
	for _, c := range lists {
		feed.Items = append(feed.Items, &feeds.Item{
			Id:          c.UUID,
			Title:       c.Name,
			Link:        &feeds.Link{Href: baseURL + "/#" + hfAnchor(c.Name)},
			Description: renderText(c.Comment),
			Created:     parseCreated(c.CreatedAt),
		})
		appendItems(feed, baseURL, c.Comments)
	}
}

func parseCreated(s string) time.Time {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t
	}
	if t, err := time.Parse("2006-01-02 15:04:05", s); err == nil {
		return t
	}
	return time.Time{}
}

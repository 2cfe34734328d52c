package server

import (
	"fmt"
	"time"

	"github.com/gorilla/feeds"
	"github.com/practicedash/newswire/internal/config"
	"github.com/practicedash/newswire/internal/database"
)

// GenerateRSSFeed creates an RSS feed from an industry's articles
func GenerateRSSFeed(articles []database.Article, cfg *config.Config, industry string) (string, error) {
	feed := &feeds.Feed{
		Title:       fmt.Sprintf("%s (%s)", cfg.FeedTitle, industry),
		Link:        &feeds.Link{Href: fmt.Sprintf("%s/api/news/%s", cfg.FeedLink, industry)},
		Description: cfg.FeedDescription,
		Author:      &feeds.Author{Name: cfg.FeedAuthor},
		Created:     time.Now(),
	}

	feed.Items = make([]*feeds.Item, 0, len(articles))
	for _, article := range articles {
		description := article.Summary
		if description == "" {
			description = article.Content
		}
		if len(description) > 500 {
			description = description[:500] + "..."
		}

		item := &feeds.Item{
			Title:       article.Title,
			Link:        &feeds.Link{Href: article.URL},
			Id:          article.URL,
			Description: description,
			Created:     article.PublishedDate,
		}
		if article.Author != "" {
			item.Author = &feeds.Author{Name: article.Author}
		}

		feed.Items = append(feed.Items, item)
	}

	rss, err := feed.ToRss()
	if err != nil {
		return "", fmt.Errorf("failed to generate RSS: %w", err)
	}

	return rss, nil
}

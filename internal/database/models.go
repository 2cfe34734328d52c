package database

import "time"

// Article represents a news article for one of the industry verticals.
// URL is the natural deduplication key.
type Article struct {
	ID            int       `json:"id"`
	Title         string    `json:"title"`
	Summary       string    `json:"summary"`
	Content       string    `json:"content"`
	ImageURL      string    `json:"image_url"`
	URL           string    `json:"url"`
	PublishedDate time.Time `json:"published_date"`
	Author        string    `json:"author"`
	Source        string    `json:"source"`
	Category      string    `json:"category"`
	Industry      string    `json:"industry"`
	Featured      bool      `json:"featured"`
}

// Category is a reference record for an industry's category taxonomy.
type Category struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Industry string `json:"industry"`
}

// Source is a reference record for a known publication.
type Source struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	URL      string `json:"url"`
	Industry string `json:"industry"`
}

// TrendingTopic is a reference record ranked by popularity.
type TrendingTopic struct {
	ID         int    `json:"id"`
	Topic      string `json:"topic"`
	Industry   string `json:"industry"`
	Popularity int    `json:"popularity"`
}

// Event is an upcoming industry event.
type Event struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Location  string    `json:"location"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	URL       string    `json:"url"`
	Industry  string    `json:"industry"`
}

// ArticleFilter narrows an article query. Zero values mean "no filter"
// except Limit, which the caller must set.
type ArticleFilter struct {
	Limit      int
	Category   string
	Source     string
	SearchTerm string
	Since      time.Time
}

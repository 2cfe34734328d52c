package database

import (
	"context"
	"fmt"
	"strings"
)

const articleColumns = "id, title, summary, content, image_url, url, published_date, author, source, category, industry, featured"

// buildArticlesQuery assembles the filtered article query. Split out so the
// WHERE-clause assembly can be tested without a database.
func buildArticlesQuery(industry string, filter ArticleFilter) (string, []any) {
	var sb strings.Builder
	args := []any{strings.ToLower(industry)}

	sb.WriteString("SELECT " + articleColumns + " FROM news_articles WHERE industry = $1")

	if !filter.Since.IsZero() {
		args = append(args, filter.Since)
		fmt.Fprintf(&sb, " AND published_date >= $%d", len(args))
	}
	if filter.Category != "" {
		args = append(args, filter.Category)
		fmt.Fprintf(&sb, " AND category = $%d", len(args))
	}
	if filter.Source != "" {
		args = append(args, filter.Source)
		fmt.Fprintf(&sb, " AND source = $%d", len(args))
	}
	if filter.SearchTerm != "" {
		args = append(args, "%"+filter.SearchTerm+"%")
		fmt.Fprintf(&sb, " AND (title ILIKE $%d OR content ILIKE $%d)", len(args), len(args))
	}

	sb.WriteString(" ORDER BY published_date DESC")

	args = append(args, filter.Limit)
	fmt.Fprintf(&sb, " LIMIT $%d", len(args))

	return sb.String(), args
}

// GetArticles retrieves articles for an industry, newest first, applying the
// optional category/source/search filters.
func (db *DB) GetArticles(ctx context.Context, industry string, filter ArticleFilter) ([]Article, error) {
	query, args := buildArticlesQuery(industry, filter)

	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query articles: %w", err)
	}
	defer rows.Close()

	var articles []Article
	for rows.Next() {
		var a Article
		err := rows.Scan(
			&a.ID,
			&a.Title,
			&a.Summary,
			&a.Content,
			&a.ImageURL,
			&a.URL,
			&a.PublishedDate,
			&a.Author,
			&a.Source,
			&a.Category,
			&a.Industry,
			&a.Featured,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan article: %w", err)
		}
		articles = append(articles, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating articles: %w", err)
	}

	return articles, nil
}

// GetFeaturedArticles retrieves articles flagged for prominent placement,
// newest first.
func (db *DB) GetFeaturedArticles(ctx context.Context, industry string, limit int) ([]Article, error) {
	query := `
		SELECT ` + articleColumns + `
		FROM news_articles
		WHERE industry = $1 AND featured = true
		ORDER BY published_date DESC
		LIMIT $2
	`

	rows, err := db.pool.Query(ctx, query, strings.ToLower(industry), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query featured articles: %w", err)
	}
	defer rows.Close()

	var articles []Article
	for rows.Next() {
		var a Article
		err := rows.Scan(
			&a.ID,
			&a.Title,
			&a.Summary,
			&a.Content,
			&a.ImageURL,
			&a.URL,
			&a.PublishedDate,
			&a.Author,
			&a.Source,
			&a.Category,
			&a.Industry,
			&a.Featured,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan featured article: %w", err)
		}
		articles = append(articles, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating featured articles: %w", err)
	}

	return articles, nil
}

// UpsertArticle inserts an article keyed by URL. A duplicate URL is ignored:
// the first writer wins and the stored row is never overwritten.
func (db *DB) UpsertArticle(ctx context.Context, a Article) error {
	query := `
		INSERT INTO news_articles (title, summary, content, image_url, url, published_date, author, source, category, industry, featured)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (url) DO NOTHING
	`

	_, err := db.pool.Exec(ctx, query,
		a.Title,
		a.Summary,
		a.Content,
		a.ImageURL,
		a.URL,
		a.PublishedDate,
		a.Author,
		a.Source,
		a.Category,
		strings.ToLower(a.Industry),
		a.Featured,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert article: %w", err)
	}

	return nil
}

// ArticleExists reports whether a row with the given URL is already stored.
// The acquisition pipeline uses it to avoid re-scraping known pages.
func (db *DB) ArticleExists(ctx context.Context, url string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM news_articles WHERE url = $1)`

	var exists bool
	err := db.pool.QueryRow(ctx, query, url).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check article existence: %w", err)
	}

	return exists, nil
}

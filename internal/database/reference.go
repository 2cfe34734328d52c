package database

import (
	"context"
	"fmt"
	"strings"
)

// GetCategories retrieves the category taxonomy for an industry.
func (db *DB) GetCategories(ctx context.Context, industry string) ([]Category, error) {
	query := `
		SELECT id, name, industry
		FROM news_categories
		WHERE industry = $1
		ORDER BY id
	`

	rows, err := db.pool.Query(ctx, query, strings.ToLower(industry))
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	var categories []Category
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Industry); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}

	return categories, nil
}

// GetSources retrieves the known publications for an industry.
func (db *DB) GetSources(ctx context.Context, industry string) ([]Source, error) {
	query := `
		SELECT id, name, url, industry
		FROM news_sources
		WHERE industry = $1
		ORDER BY id
	`

	rows, err := db.pool.Query(ctx, query, strings.ToLower(industry))
	if err != nil {
		return nil, fmt.Errorf("failed to query sources: %w", err)
	}
	defer rows.Close()

	var sources []Source
	for rows.Next() {
		var s Source
		if err := rows.Scan(&s.ID, &s.Name, &s.URL, &s.Industry); err != nil {
			return nil, fmt.Errorf("failed to scan source: %w", err)
		}
		sources = append(sources, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sources: %w", err)
	}

	return sources, nil
}

// GetTrendingTopics retrieves the most popular topics for an industry.
func (db *DB) GetTrendingTopics(ctx context.Context, industry string, limit int) ([]TrendingTopic, error) {
	query := `
		SELECT id, topic, industry, popularity
		FROM trending_topics
		WHERE industry = $1
		ORDER BY popularity DESC
		LIMIT $2
	`

	rows, err := db.pool.Query(ctx, query, strings.ToLower(industry), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query trending topics: %w", err)
	}
	defer rows.Close()

	var topics []TrendingTopic
	for rows.Next() {
		var t TrendingTopic
		if err := rows.Scan(&t.ID, &t.Topic, &t.Industry, &t.Popularity); err != nil {
			return nil, fmt.Errorf("failed to scan trending topic: %w", err)
		}
		topics = append(topics, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating trending topics: %w", err)
	}

	return topics, nil
}

// upcomingEventsQuery compares against CURRENT_DATE in the database rather
// than a timestamp computed here, so "today" follows the database session
// instead of the server clock's UTC day boundary.
const upcomingEventsQuery = `
	SELECT id, name, location, start_date, end_date, url, industry
	FROM industry_events
	WHERE industry = $1 AND start_date >= CURRENT_DATE
	ORDER BY start_date ASC
	LIMIT $2
`

// GetUpcomingEvents retrieves events starting today or later, soonest first.
func (db *DB) GetUpcomingEvents(ctx context.Context, industry string, limit int) ([]Event, error) {
	rows, err := db.pool.Query(ctx, upcomingEventsQuery, strings.ToLower(industry), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query upcoming events: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var e Event
		if err := rows.Scan(&e.ID, &e.Name, &e.Location, &e.StartDate, &e.EndDate, &e.URL, &e.Industry); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating events: %w", err)
	}

	return events, nil
}

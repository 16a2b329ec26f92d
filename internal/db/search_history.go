package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"kwpulse/internal/models"
)

// InsertSearchHistory appends one audit row. History rows are never updated
// or deleted by this service.
func (d *DB) InsertSearchHistory(ctx context.Context, e models.SearchHistoryEntry) error {
	id := e.ID
	if id == uuid.Nil {
		id = uuid.New()
	}

	_, err := d.Pool.Exec(ctx, `
		INSERT INTO search_history (
			id, requester_id, prompt, country_code, language_code,
			keywords, keyword_count, dominant_source
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, id, e.RequesterID, e.Prompt, e.CountryCode, e.LanguageCode,
		e.Keywords, e.KeywordCount, e.DominantSource)
	if err != nil {
		return fmt.Errorf("failed to insert search history: %w", err)
	}
	return nil
}

// GetSearchHistory returns a requester's history, newest first.
func (d *DB) GetSearchHistory(ctx context.Context, requesterID string, limit int) ([]models.SearchHistoryEntry, error) {
	rows, err := d.Pool.Query(ctx, `
		SELECT id, requester_id, prompt, country_code, language_code,
		       keywords, keyword_count, dominant_source, created_at
		FROM search_history
		WHERE requester_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, requesterID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []models.SearchHistoryEntry
	for rows.Next() {
		var e models.SearchHistoryEntry
		if err := rows.Scan(&e.ID, &e.RequesterID, &e.Prompt, &e.CountryCode,
			&e.LanguageCode, &e.Keywords, &e.KeywordCount, &e.DominantSource,
			&e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// CountHistoryBySource returns resolution counts grouped by dominant source,
// for metrics export.
func (d *DB) CountHistoryBySource(ctx context.Context) ([]models.SourceCount, error) {
	rows, err := d.Pool.Query(ctx, `
		SELECT dominant_source, COUNT(*) FROM search_history GROUP BY dominant_source
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var counts []models.SourceCount
	for rows.Next() {
		var c models.SourceCount
		if err := rows.Scan(&c.Source, &c.Count); err != nil {
			return nil, err
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

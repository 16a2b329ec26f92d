package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"kwpulse/internal/models"
)

// ReplaceSavedKeywords replaces a requester's saved keyword set for one locale.
func (d *DB) ReplaceSavedKeywords(ctx context.Context, requesterID, countryCode, languageCode string, keywords []string) error {
	tx, err := d.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		DELETE FROM saved_keywords
		WHERE requester_id = $1 AND country_code = $2 AND language_code = $3
	`, requesterID, countryCode, languageCode)
	if err != nil {
		return fmt.Errorf("failed to clear saved keywords: %w", err)
	}

	for _, kw := range keywords {
		_, err = tx.Exec(ctx, `
			INSERT INTO saved_keywords (requester_id, keyword, country_code, language_code)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (requester_id, keyword, country_code, language_code) DO NOTHING
		`, requesterID, kw, countryCode, languageCode)
		if err != nil {
			return fmt.Errorf("failed to save keyword %q: %w", kw, err)
		}
	}

	return tx.Commit(ctx)
}

// GetSavedKeywords returns all keywords a requester has saved, across locales.
func (d *DB) GetSavedKeywords(ctx context.Context, requesterID string) ([]models.SavedKeyword, error) {
	rows, err := d.Pool.Query(ctx, `
		SELECT requester_id, keyword, country_code, language_code, created_at
		FROM saved_keywords
		WHERE requester_id = $1
		ORDER BY country_code, language_code, keyword
	`, requesterID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var saved []models.SavedKeyword
	for rows.Next() {
		var s models.SavedKeyword
		if err := rows.Scan(&s.RequesterID, &s.Keyword, &s.CountryCode,
			&s.LanguageCode, &s.CreatedAt); err != nil {
			return nil, err
		}
		saved = append(saved, s)
	}
	return saved, rows.Err()
}

// ListRequestersWithSavedKeywords returns the distinct requester ids that
// have at least one saved keyword.
func (d *DB) ListRequestersWithSavedKeywords(ctx context.Context) ([]string, error) {
	rows, err := d.Pool.Query(ctx, `SELECT DISTINCT requester_id FROM saved_keywords`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

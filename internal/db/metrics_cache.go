package db

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"kwpulse/internal/models"
)

// GetCachedMetrics returns unexpired cached metrics for the given keywords in
// one locale. Missing or expired keys are simply absent from the result map.
// Returned records carry EXTERNAL_API provenance with cached=true, since only
// successful provider fetches are ever written to the cache.
func (d *DB) GetCachedMetrics(ctx context.Context, keywords []string, countryCode, languageCode string) (map[string]models.KeywordMetrics, error) {
	if len(keywords) == 0 {
		return map[string]models.KeywordMetrics{}, nil
	}

	rows, err := d.Pool.Query(ctx, `
		SELECT keyword, country_code, language_code, search_volume, competition,
		       competition_index, low_bid_micros, high_bid_micros, avg_cpc_micros,
		       monthly_trend
		FROM keyword_metrics_cache
		WHERE keyword = ANY($1) AND country_code = $2 AND language_code = $3
		  AND expires_at > NOW()
	`, keywords, countryCode, languageCode)
	if err != nil {
		return nil, fmt.Errorf("failed to query metrics cache: %w", err)
	}
	defer rows.Close()

	cached := make(map[string]models.KeywordMetrics, len(keywords))
	for rows.Next() {
		var m models.KeywordMetrics
		var trend []byte
		if err := rows.Scan(&m.Keyword, &m.CountryCode, &m.LanguageCode,
			&m.SearchVolume, &m.Competition, &m.CompetitionIndex,
			&m.LowBidMicros, &m.HighBidMicros, &m.AvgCPCMicros, &trend); err != nil {
			return nil, fmt.Errorf("failed to scan cached metrics: %w", err)
		}
		if len(trend) > 0 {
			if err := json.Unmarshal(trend, &m.MonthlyTrend); err != nil {
				return nil, fmt.Errorf("failed to decode monthly trend for %q: %w", m.Keyword, err)
			}
		}
		m.Provenance = models.Provenance{Source: models.SourceExternalAPI, Cached: true}
		cached[m.Keyword] = m
	}
	return cached, rows.Err()
}

// UpsertMetrics writes one metrics record, replacing any previous record for
// the same (keyword, country, language) key and refreshing its expiry.
func (d *DB) UpsertMetrics(ctx context.Context, m models.KeywordMetrics, ttl time.Duration) error {
	var trend []byte
	if len(m.MonthlyTrend) > 0 {
		var err error
		trend, err = json.Marshal(m.MonthlyTrend)
		if err != nil {
			return fmt.Errorf("failed to encode monthly trend for %q: %w", m.Keyword, err)
		}
	}

	_, err := d.Pool.Exec(ctx, `
		INSERT INTO keyword_metrics_cache (
			keyword, country_code, language_code, search_volume, competition,
			competition_index, low_bid_micros, high_bid_micros, avg_cpc_micros,
			monthly_trend, fetched_at, expires_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), $11)
		ON CONFLICT (keyword, country_code, language_code) DO UPDATE SET
			search_volume     = EXCLUDED.search_volume,
			competition       = EXCLUDED.competition,
			competition_index = EXCLUDED.competition_index,
			low_bid_micros    = EXCLUDED.low_bid_micros,
			high_bid_micros   = EXCLUDED.high_bid_micros,
			avg_cpc_micros    = EXCLUDED.avg_cpc_micros,
			monthly_trend     = EXCLUDED.monthly_trend,
			fetched_at        = NOW(),
			expires_at        = EXCLUDED.expires_at
	`, m.Keyword, m.CountryCode, m.LanguageCode, m.SearchVolume, m.Competition,
		m.CompetitionIndex, m.LowBidMicros, m.HighBidMicros, m.AvgCPCMicros,
		trend, time.Now().Add(ttl))
	if err != nil {
		return fmt.Errorf("failed to upsert metrics for %q: %w", m.Keyword, err)
	}
	return nil
}

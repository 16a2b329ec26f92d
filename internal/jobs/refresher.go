package jobs

import (
	"context"
	"log"
	"log/slog"
	"time"

	"kwpulse/internal/models"
	"kwpulse/internal/resolver"
)

// SavedKeywordSource lists saved keywords to refresh.
type SavedKeywordSource interface {
	GetSavedKeywords(ctx context.Context, requesterID string) ([]models.SavedKeyword, error)
	ListRequestersWithSavedKeywords(ctx context.Context) ([]string, error)
}

// KeywordResolver re-resolves a keyword batch.
type KeywordResolver interface {
	Resolve(ctx context.Context, req resolver.Request) ([]models.KeywordMetrics, error)
}

// Refresher periodically re-resolves saved keyword sets so cached metrics
// stay warm.
type Refresher struct {
	store    SavedKeywordSource
	resolver KeywordResolver
	interval time.Duration
}

// NewRefresher creates a new bulk refresh driver.
func NewRefresher(store SavedKeywordSource, res KeywordResolver, interval time.Duration) *Refresher {
	if interval <= 0 {
		interval = 24 * time.Hour
	}
	return &Refresher{store: store, resolver: res, interval: interval}
}

// Start begins the background refresh loop.
func (r *Refresher) Start(ctx context.Context) {
	log.Printf("Keyword refresher started (interval: %v)", r.interval)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Keyword refresher stopped")
			return
		case <-ticker.C:
			r.refreshAll(ctx)
		}
	}
}

// refreshAll refreshes every requester that has saved keywords.
func (r *Refresher) refreshAll(ctx context.Context) {
	requesters, err := r.store.ListRequestersWithSavedKeywords(ctx)
	if err != nil {
		slog.Error("failed to list requesters for refresh", "error", err)
		return
	}

	for _, id := range requesters {
		count, err := r.RefreshUser(ctx, id)
		if err != nil {
			slog.Error("failed to refresh saved keywords", "requester", id, "error", err)
			continue
		}
		slog.Info("refreshed saved keywords", "requester", id, "count", count)
	}
}

type localeKey struct {
	country  string
	language string
}

// RefreshUser re-resolves a requester's saved keywords, grouped by locale to
// minimize provider round-trips. The cache is bypassed on lookup so every
// keyword gets fresh data, but successful fetches still write back. A failed
// locale group is skipped, not fatal: the returned count covers only keywords
// the provider actually answered. Refresh requests are best-effort, so a
// group whose provider call failed comes back as synthetic records rather
// than an error; those records refreshed nothing and must not be counted.
func (r *Refresher) RefreshUser(ctx context.Context, requesterID string) (int, error) {
	saved, err := r.store.GetSavedKeywords(ctx, requesterID)
	if err != nil {
		return 0, err
	}
	if len(saved) == 0 {
		return 0, nil
	}

	groups := make(map[localeKey][]string)
	var order []localeKey
	for _, s := range saved {
		key := localeKey{country: s.CountryCode, language: s.LanguageCode}
		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}
		groups[key] = append(groups[key], s.Keyword)
	}

	refreshed := 0
	for _, key := range order {
		records, err := r.resolver.Resolve(ctx, resolver.Request{
			Keywords:       groups[key],
			CountryCode:    key.country,
			LanguageCode:   key.language,
			UseCache:       false,
			RequesterID:    requesterID,
			GeneratedViaAI: true,
			Background:     true,
		})
		if err != nil {
			slog.Warn("locale group refresh failed", "requester", requesterID,
				"country", key.country, "language", key.language, "error", err)
			continue
		}

		fresh := 0
		for _, rec := range records {
			if rec.Provenance.Source == models.SourceExternalAPI {
				fresh++
			}
		}
		if fresh == 0 {
			slog.Warn("locale group returned no provider data", "requester", requesterID,
				"country", key.country, "language", key.language)
			continue
		}
		refreshed += fresh
	}

	return refreshed, nil
}

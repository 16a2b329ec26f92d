// Package resolver coordinates the three-tier keyword metrics pipeline:
// durable cache, external provider, deterministic synthetic fallback.
package resolver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"kwpulse/internal/metrics"
	"kwpulse/internal/models"
	"kwpulse/internal/provider"
	"kwpulse/internal/synth"
	"kwpulse/internal/validation"
)

// ErrNoKeywords indicates an empty request after trimming and deduplication.
var ErrNoKeywords = errors.New("no keywords to resolve")

// Store is the durable cache and history sink the resolver writes through.
type Store interface {
	GetCachedMetrics(ctx context.Context, keywords []string, countryCode, languageCode string) (map[string]models.KeywordMetrics, error)
	UpsertMetrics(ctx context.Context, m models.KeywordMetrics, ttl time.Duration) error
	InsertSearchHistory(ctx context.Context, e models.SearchHistoryEntry) error
}

// IdeaFetcher fetches keyword ideas from the external provider.
type IdeaFetcher interface {
	KeywordIdeas(ctx context.Context, keywords []string, countryCode, languageCode string) ([]provider.Idea, error)
}

// Options tune the pipeline. Zero values get sensible defaults from New.
type Options struct {
	// Enabled switches the external provider on. When false every request is
	// answered by the deterministic generator, cache untouched.
	Enabled            bool
	CacheTTL           time.Duration
	MaxKeywords        int
	InteractiveTimeout time.Duration
	BackgroundTimeout  time.Duration
}

// Request describes one resolution call.
type Request struct {
	Keywords     []string
	CountryCode  string
	LanguageCode string
	UseCache     bool
	Prompt       string
	RequesterID  string
	// GeneratedViaAI marks best-effort requests: auth failures degrade to
	// synthetic metrics instead of propagating.
	GeneratedViaAI bool
	// Background selects the longer fetch timeout.
	Background bool
}

// Resolver is the pipeline coordinator.
type Resolver struct {
	store    Store
	provider IdeaFetcher
	opts     Options
}

// New creates a resolver. fetcher may be nil when the provider is disabled.
func New(store Store, fetcher IdeaFetcher, opts Options) *Resolver {
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = 30 * 24 * time.Hour
	}
	if opts.MaxKeywords <= 0 {
		opts.MaxKeywords = 50
	}
	if opts.InteractiveTimeout <= 0 {
		opts.InteractiveTimeout = 8 * time.Second
	}
	if opts.BackgroundTimeout <= 0 {
		opts.BackgroundTimeout = 45 * time.Second
	}
	if fetcher == nil {
		opts.Enabled = false
	}
	return &Resolver{store: store, provider: fetcher, opts: opts}
}

// Resolve returns exactly one metrics record per distinct requested keyword,
// in first-seen request order. Transient provider failures degrade to
// synthetic metrics; only validation errors, missing configuration and
// (for non-best-effort requests) expired credentials fail the call.
func (r *Resolver) Resolve(ctx context.Context, req Request) ([]models.KeywordMetrics, error) {
	keywords := validation.NormalizeKeywords(req.Keywords, r.opts.MaxKeywords)
	if len(keywords) == 0 {
		return nil, ErrNoKeywords
	}

	country := req.CountryCode
	if country == "" {
		country = "US"
	}
	lang := req.LanguageCode
	if lang == "" {
		lang = "en"
	}

	results := make(map[string]models.KeywordMetrics, len(keywords))

	if !r.opts.Enabled {
		for _, kw := range keywords {
			results[kw] = synth.Deterministic(kw, country, lang)
		}
		return r.finish(req, keywords, country, lang, results), nil
	}

	if req.UseCache {
		cached, err := r.store.GetCachedMetrics(ctx, keywords, country, lang)
		if err != nil {
			// A broken cache read means a provider round-trip, not a failed request.
			slog.Warn("cache lookup failed", "error", err, "country", country, "language", lang)
		} else {
			for kw, m := range cached {
				results[kw] = m
			}
		}
	}

	var uncached []string
	for _, kw := range keywords {
		if _, ok := results[kw]; !ok {
			uncached = append(uncached, kw)
		}
	}

	if len(uncached) > 0 {
		if err := r.fetchInto(ctx, req, uncached, country, lang, results); err != nil {
			return nil, err
		}
	}

	return r.finish(req, keywords, country, lang, results), nil
}

// fetchInto resolves the uncached subset via the provider, falling back to
// synthetic metrics per keyword according to the failure kind.
func (r *Resolver) fetchInto(ctx context.Context, req Request, uncached []string, country, lang string, results map[string]models.KeywordMetrics) error {
	timeout := r.opts.InteractiveTimeout
	if req.Background {
		timeout = r.opts.BackgroundTimeout
	}
	fetchCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ideas, err := r.provider.KeywordIdeas(fetchCtx, uncached, country, lang)
	switch {
	case err == nil:
		metrics.RecordProviderCall("ok")
		r.mergeIdeas(ctx, uncached, country, lang, ideas, results)
		return nil

	case errors.Is(err, provider.ErrMisconfigured):
		metrics.RecordProviderCall("misconfigured")
		return err

	case errors.Is(err, provider.ErrAuthExpired):
		metrics.RecordProviderCall("auth_expired")
		if !req.GeneratedViaAI {
			return fmt.Errorf("keyword provider authentication failed: %w", err)
		}
		fillFallback(uncached, country, lang, "provider credential expired, synthetic metrics substituted", results)
		return nil

	default:
		if errors.Is(err, provider.ErrNoIdeas) {
			metrics.RecordProviderCall("empty")
		} else {
			metrics.RecordProviderCall("unavailable")
		}
		fillFallback(uncached, country, lang, fallbackReason(err), results)
		return nil
	}
}

// mergeIdeas turns provider ideas into externally-sourced records and writes
// them back to the cache. Cache writes are best-effort: a failure is logged
// and the fresh in-memory record still reaches the caller. Requested keywords
// the provider did not answer fall back to synthetic metrics.
func (r *Resolver) mergeIdeas(ctx context.Context, requested []string, country, lang string, ideas []provider.Idea, results map[string]models.KeywordMetrics) {
	byText := make(map[string]provider.Idea, len(ideas))
	for _, idea := range ideas {
		byText[idea.Text] = idea
	}

	for _, kw := range requested {
		idea, ok := byText[kw]
		if !ok {
			results[kw] = synth.Fallback(kw, country, lang, "keyword missing from provider response")
			continue
		}

		rec := models.KeywordMetrics{
			Keyword:          kw,
			CountryCode:      country,
			LanguageCode:     lang,
			SearchVolume:     idea.AvgMonthlySearches,
			Competition:      idea.Competition,
			CompetitionIndex: idea.CompetitionIndex,
			LowBidMicros:     idea.LowBidMicros,
			HighBidMicros:    idea.HighBidMicros,
			AvgCPCMicros:     idea.AvgCPCMicros,
			MonthlyTrend:     idea.MonthlyTrend,
			Provenance:       models.Provenance{Source: models.SourceExternalAPI},
		}
		results[kw] = rec

		if err := r.store.UpsertMetrics(ctx, rec, r.opts.CacheTTL); err != nil {
			slog.Warn("metrics cache write failed", "keyword", kw, "error", err)
		}
	}
}

// finish orders the results by request order and records history when a
// prompt was supplied.
func (r *Resolver) finish(req Request, keywords []string, country, lang string, results map[string]models.KeywordMetrics) []models.KeywordMetrics {
	merged := make([]models.KeywordMetrics, 0, len(keywords))
	for _, kw := range keywords {
		merged = append(merged, results[kw])
	}

	if req.Prompt != "" {
		go r.recordHistory(req, country, lang, merged)
	}

	return merged
}

// recordHistory persists one audit row. Best-effort: failures are logged,
// never propagated or retried.
func (r *Resolver) recordHistory(req Request, country, lang string, merged []models.KeywordMetrics) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	resolved := make([]string, 0, len(merged))
	for _, m := range merged {
		resolved = append(resolved, m.Keyword)
	}

	entry := models.SearchHistoryEntry{
		RequesterID:    req.RequesterID,
		Prompt:         req.Prompt,
		CountryCode:    country,
		LanguageCode:   lang,
		Keywords:       resolved,
		KeywordCount:   len(resolved),
		DominantSource: dominantSource(merged),
	}
	if err := r.store.InsertSearchHistory(ctx, entry); err != nil {
		slog.Warn("failed to record search history", "requester", req.RequesterID, "error", err)
	}
}

// dominantSource returns the most frequent provenance source in the batch.
func dominantSource(records []models.KeywordMetrics) models.MetricsSource {
	counts := make(map[models.MetricsSource]int, 3)
	for _, m := range records {
		counts[m.Provenance.Source]++
	}
	dominant := models.SourceExternalAPI
	best := -1
	for _, src := range []models.MetricsSource{models.SourceExternalAPI, models.SourceDeterministicMock, models.SourceFallbackMock} {
		if counts[src] > best {
			dominant = src
			best = counts[src]
		}
	}
	return dominant
}

func fillFallback(keywords []string, country, lang, reason string, results map[string]models.KeywordMetrics) {
	for _, kw := range keywords {
		results[kw] = synth.Fallback(kw, country, lang, reason)
	}
}

func fallbackReason(err error) string {
	switch {
	case errors.Is(err, provider.ErrNoIdeas):
		return "provider returned no ideas, synthetic metrics substituted"
	default:
		return "provider unavailable, synthetic metrics substituted"
	}
}

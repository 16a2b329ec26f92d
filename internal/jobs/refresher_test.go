package jobs

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"kwpulse/internal/models"
	"kwpulse/internal/provider"
	"kwpulse/internal/resolver"
)

type fakeSource struct {
	saved   []models.SavedKeyword
	savedBy map[string][]models.SavedKeyword
	err     error
}

func (f *fakeSource) GetSavedKeywords(ctx context.Context, requesterID string) ([]models.SavedKeyword, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.savedBy != nil {
		return f.savedBy[requesterID], nil
	}
	return f.saved, nil
}

func (f *fakeSource) ListRequestersWithSavedKeywords(ctx context.Context) ([]string, error) {
	ids := make([]string, 0, len(f.savedBy))
	for id := range f.savedBy {
		ids = append(ids, id)
	}
	return ids, nil
}

// fakeResolver mirrors the real resolver's contract: provider failures on
// best-effort requests come back as FALLBACK_MOCK records, not errors.
// Only misconfiguration (keyed by country in failFor) escapes as an error.
type fakeResolver struct {
	requests  []resolver.Request
	failFor   map[string]error // locale groups whose Resolve call errors
	mockedFor map[string]bool  // locale groups answered entirely by fallback
}

func (f *fakeResolver) Resolve(ctx context.Context, req resolver.Request) ([]models.KeywordMetrics, error) {
	f.requests = append(f.requests, req)
	if err, ok := f.failFor[req.CountryCode]; ok {
		return nil, err
	}
	source := models.SourceExternalAPI
	if f.mockedFor[req.CountryCode] {
		source = models.SourceFallbackMock
	}
	out := make([]models.KeywordMetrics, 0, len(req.Keywords))
	for _, kw := range req.Keywords {
		out = append(out, models.KeywordMetrics{
			Keyword:    kw,
			Provenance: models.Provenance{Source: source},
		})
	}
	return out, nil
}

func saved(requester, keyword, country, lang string) models.SavedKeyword {
	return models.SavedKeyword{
		RequesterID:  requester,
		Keyword:      keyword,
		CountryCode:  country,
		LanguageCode: lang,
	}
}

func TestRefreshUserGroupsByLocale(t *testing.T) {
	source := &fakeSource{saved: []models.SavedKeyword{
		saved("user-1", "coffee", "US", "en"),
		saved("user-1", "tea", "US", "en"),
		saved("user-1", "kaffee", "DE", "de"),
	}}
	res := &fakeResolver{}
	r := NewRefresher(source, res, time.Hour)

	count, err := r.RefreshUser(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("RefreshUser failed: %v", err)
	}
	if count != 3 {
		t.Errorf("refreshed count = %d, want 3", count)
	}
	if len(res.requests) != 2 {
		t.Fatalf("resolver called %d times, want once per locale group", len(res.requests))
	}
	for _, req := range res.requests {
		if req.UseCache {
			t.Error("refresh must bypass the cache lookup")
		}
		if !req.Background {
			t.Error("refresh must use the background timeout budget")
		}
		if !req.GeneratedViaAI {
			t.Error("refresh must be best-effort so auth failures degrade")
		}
		if req.Prompt != "" {
			t.Error("refresh requests must not create history entries")
		}
	}
}

// A locale group whose provider call failed comes back from the resolver as
// synthetic records. Nothing in that group was refreshed, so it must not
// contribute to the count.
func TestRefreshUserExcludesDegradedGroups(t *testing.T) {
	source := &fakeSource{saved: []models.SavedKeyword{
		saved("user-1", "coffee", "US", "en"),
		saved("user-1", "tea", "US", "en"),
		saved("user-1", "kaffee", "DE", "de"),
	}}
	res := &fakeResolver{mockedFor: map[string]bool{"DE": true}}
	r := NewRefresher(source, res, time.Hour)

	count, err := r.RefreshUser(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("a degraded locale group must not abort the refresh, got %v", err)
	}
	if count != 2 {
		t.Errorf("refreshed count = %d, want only the provider-answered group's 2", count)
	}
}

func TestRefreshUserPartialGroupError(t *testing.T) {
	source := &fakeSource{saved: []models.SavedKeyword{
		saved("user-1", "coffee", "US", "en"),
		saved("user-1", "tea", "US", "en"),
		saved("user-1", "kaffee", "DE", "de"),
	}}
	res := &fakeResolver{failFor: map[string]error{
		"DE": fmt.Errorf("%w: credentials absent", provider.ErrMisconfigured),
	}}
	r := NewRefresher(source, res, time.Hour)

	count, err := r.RefreshUser(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("a failed locale group must not abort the refresh, got %v", err)
	}
	if count != 2 {
		t.Errorf("refreshed count = %d, want only the successful group's 2", count)
	}
}

func TestRefreshUserNoSavedKeywords(t *testing.T) {
	r := NewRefresher(&fakeSource{}, &fakeResolver{}, time.Hour)

	count, err := r.RefreshUser(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("RefreshUser failed: %v", err)
	}
	if count != 0 {
		t.Errorf("refreshed count = %d, want 0", count)
	}
}

func TestRefreshUserSourceError(t *testing.T) {
	r := NewRefresher(&fakeSource{err: errors.New("db down")}, &fakeResolver{}, time.Hour)

	if _, err := r.RefreshUser(context.Background(), "user-1"); err == nil {
		t.Error("expected an error when saved keywords cannot be read")
	}
}

func TestRefreshAllContinuesPastFailures(t *testing.T) {
	source := &fakeSource{savedBy: map[string][]models.SavedKeyword{
		"user-1": {saved("user-1", "coffee", "US", "en")},
		"user-2": {saved("user-2", "kaffee", "DE", "de")},
	}}
	res := &fakeResolver{mockedFor: map[string]bool{"DE": true}}
	r := NewRefresher(source, res, time.Hour)

	r.refreshAll(context.Background())

	if len(res.requests) != 2 {
		t.Errorf("resolver called %d times, want 2 (one per requester)", len(res.requests))
	}
}

// refreshStore satisfies resolver.Store with just enough state to exercise
// the real resolver under the refresher.
type refreshStore struct{}

func (refreshStore) GetCachedMetrics(ctx context.Context, keywords []string, countryCode, languageCode string) (map[string]models.KeywordMetrics, error) {
	return map[string]models.KeywordMetrics{}, nil
}

func (refreshStore) UpsertMetrics(ctx context.Context, m models.KeywordMetrics, ttl time.Duration) error {
	return nil
}

func (refreshStore) InsertSearchHistory(ctx context.Context, e models.SearchHistoryEntry) error {
	return nil
}

// localeFetcher answers one country and fails the rest.
type localeFetcher struct {
	serves string
}

func (f localeFetcher) KeywordIdeas(ctx context.Context, keywords []string, countryCode, languageCode string) ([]provider.Idea, error) {
	if countryCode != f.serves {
		return nil, fmt.Errorf("%w: connection refused", provider.ErrUnavailable)
	}
	out := make([]provider.Idea, 0, len(keywords))
	for i, kw := range keywords {
		out = append(out, provider.Idea{
			Text:               kw,
			AvgMonthlySearches: int64(4000 + i),
			Competition:        models.CompetitionMedium,
		})
	}
	return out, nil
}

// End to end through the real resolver: the failing locale group degrades to
// synthetic records inside Resolve (refresh is best-effort), and the count
// must still reflect only the provider-answered group.
func TestRefreshUserPartialFailureWithRealResolver(t *testing.T) {
	source := &fakeSource{saved: []models.SavedKeyword{
		saved("user-1", "coffee", "US", "en"),
		saved("user-1", "tea", "US", "en"),
		saved("user-1", "kaffee", "DE", "de"),
	}}
	res := resolver.New(refreshStore{}, localeFetcher{serves: "US"}, resolver.Options{
		Enabled:     true,
		MaxKeywords: 50,
	})
	r := NewRefresher(source, res, time.Hour)

	count, err := r.RefreshUser(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("RefreshUser failed: %v", err)
	}
	if count != 2 {
		t.Errorf("refreshed count = %d, want 2 (the DE group fell back to synthetic metrics)", count)
	}
}

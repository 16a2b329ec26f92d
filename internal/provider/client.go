// Package provider implements the client for the external keyword metrics
// provider: OAuth refresh-token exchange, chunked ideas calls and response
// normalization.
package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"time"

	"golang.org/x/oauth2"

	"kwpulse/internal/models"
)

// MaxSeedsPerCall is the provider's hard cap on seed keywords per ideas call.
// Longer lists are split into sequential calls and the results merged.
const MaxSeedsPerCall = 20

// Config holds the provider credentials and endpoints.
type Config struct {
	ClientID       string
	ClientSecret   string
	RefreshToken   string
	DeveloperToken string
	CustomerID     string
	TokenURL       string
	APIBaseURL     string
}

// Idea is one normalized keyword idea from the provider.
type Idea struct {
	Text               string
	AvgMonthlySearches int64
	Competition        models.Competition
	CompetitionIndex   *int
	LowBidMicros       *int64
	HighBidMicros      *int64
	AvgCPCMicros       *int64
	MonthlyTrend       []models.MonthlySearch
}

// Client calls the external keyword metrics provider.
type Client struct {
	cfg        Config
	tokens     oauth2.TokenSource
	httpClient *http.Client
}

// New creates a provider client. Returns ErrMisconfigured when any required
// credential is absent, so misconfiguration surfaces at startup rather than
// on the first user request.
func New(cfg Config) (*Client, error) {
	if cfg.ClientID == "" || cfg.ClientSecret == "" || cfg.RefreshToken == "" {
		return nil, fmt.Errorf("%w: client id, client secret and refresh token are required", ErrMisconfigured)
	}
	if cfg.TokenURL == "" || cfg.APIBaseURL == "" {
		return nil, fmt.Errorf("%w: token and API endpoints are required", ErrMisconfigured)
	}

	return &Client{
		cfg:    cfg,
		tokens: newTokenSource(cfg.ClientID, cfg.ClientSecret, cfg.TokenURL, cfg.RefreshToken),
		httpClient: &http.Client{
			// Backstop only; callers bound each call with a context deadline.
			Timeout: 60 * time.Second,
		},
	}, nil
}

type ideasRequest struct {
	LanguageID   string   `json:"language"`
	GeoTargetID  string   `json:"geo_target"`
	SeedKeywords []string `json:"seed_keywords"`
}

type monthlyVolume struct {
	Year     int   `json:"year"`
	Month    int   `json:"month"`
	Searches int64 `json:"searches"`
}

type ideaResult struct {
	Text               string          `json:"text"`
	AvgMonthlySearches int64           `json:"avg_monthly_searches"`
	CompetitionIndex   *int            `json:"competition_index"`
	LowBidMicros       *int64          `json:"low_top_of_page_bid_micros"`
	HighBidMicros      *int64          `json:"high_top_of_page_bid_micros"`
	AvgCPCMicros       *int64          `json:"avg_cpc_micros"`
	MonthlyVolumes     []monthlyVolume `json:"monthly_volumes"`
}

type ideasResponse struct {
	Results []ideaResult `json:"results"`
}

// KeywordIdeas fetches metrics for the given seed keywords in one locale.
// Lists longer than MaxSeedsPerCall are chunked into sequential calls; no
// keyword is silently dropped. Returns ErrNoIdeas when every call succeeded
// but zero ideas came back.
func (c *Client) KeywordIdeas(ctx context.Context, keywords []string, countryCode, languageCode string) ([]Idea, error) {
	token, err := c.accessToken()
	if err != nil {
		return nil, err
	}

	langID := LanguageID(languageCode)
	geoID := GeoTargetID(countryCode)

	var ideas []Idea
	for start := 0; start < len(keywords); start += MaxSeedsPerCall {
		end := min(start+MaxSeedsPerCall, len(keywords))
		chunk, err := c.generateIdeas(ctx, token, keywords[start:end], langID, geoID)
		if err != nil {
			return nil, err
		}
		ideas = append(ideas, chunk...)
	}

	if len(ideas) == 0 {
		return nil, ErrNoIdeas
	}
	return ideas, nil
}

func (c *Client) generateIdeas(ctx context.Context, token string, seeds []string, langID, geoID string) ([]Idea, error) {
	body, err := json.Marshal(ideasRequest{
		LanguageID:   langID,
		GeoTargetID:  geoID,
		SeedKeywords: seeds,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode ideas request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.cfg.APIBaseURL+"/v1/keywordIdeas:generate", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build ideas request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.DeveloperToken != "" {
		req.Header.Set("Developer-Token", c.cfg.DeveloperToken)
	}
	if c.cfg.CustomerID != "" {
		req.Header.Set("Login-Customer-Id", c.cfg.CustomerID)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Covers context deadline, DNS and connection failures alike.
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, fmt.Errorf("%w: ideas endpoint returned %d", ErrAuthExpired, resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("%w: ideas endpoint returned %d", ErrUnavailable, resp.StatusCode)
	}

	var parsed ideasResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("%w: failed to decode ideas response: %v", ErrUnavailable, err)
	}

	ideas := make([]Idea, 0, len(parsed.Results))
	for _, r := range parsed.Results {
		ideas = append(ideas, Idea{
			Text:               r.Text,
			AvgMonthlySearches: r.AvgMonthlySearches,
			Competition:        BucketCompetition(r.CompetitionIndex),
			CompetitionIndex:   r.CompetitionIndex,
			LowBidMicros:       r.LowBidMicros,
			HighBidMicros:      r.HighBidMicros,
			AvgCPCMicros:       r.AvgCPCMicros,
			MonthlyTrend:       normalizeTrend(r.MonthlyVolumes),
		})
	}
	return ideas, nil
}

// BucketCompetition maps a 0-100 competition index into the coarse buckets:
// below 30 LOW, 30-69 MEDIUM, 70 and above HIGH.
func BucketCompetition(index *int) models.Competition {
	switch {
	case index == nil:
		return models.CompetitionUnknown
	case *index < 30:
		return models.CompetitionLow
	case *index < 70:
		return models.CompetitionMedium
	default:
		return models.CompetitionHigh
	}
}

// normalizeTrend converts provider trend points to the model form, oldest
// first, with a human-readable month label.
func normalizeTrend(volumes []monthlyVolume) []models.MonthlySearch {
	if len(volumes) == 0 {
		return nil
	}
	trend := make([]models.MonthlySearch, 0, len(volumes))
	for _, v := range volumes {
		if v.Month < 1 || v.Month > 12 {
			continue
		}
		trend = append(trend, models.MonthlySearch{
			Year:     v.Year,
			Month:    v.Month,
			Label:    fmt.Sprintf("%s %d", time.Month(v.Month).String()[:3], v.Year),
			Searches: v.Searches,
		})
	}
	// The provider does not guarantee ordering; callers expect oldest first.
	sort.Slice(trend, func(i, j int) bool {
		if trend[i].Year != trend[j].Year {
			return trend[i].Year < trend[j].Year
		}
		return trend[i].Month < trend[j].Month
	})
	return trend
}

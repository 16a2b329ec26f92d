package models

// Competition buckets for a keyword's ad competition level.
type Competition string

const (
	CompetitionLow     Competition = "LOW"
	CompetitionMedium  Competition = "MEDIUM"
	CompetitionHigh    Competition = "HIGH"
	CompetitionUnknown Competition = "UNKNOWN"
)

// MetricsSource identifies which tier produced a metrics record.
type MetricsSource string

const (
	// SourceExternalAPI means the record came from the external keyword provider.
	SourceExternalAPI MetricsSource = "EXTERNAL_API"
	// SourceDeterministicMock means the provider is disabled and synthetic
	// metrics were generated intentionally.
	SourceDeterministicMock MetricsSource = "DETERMINISTIC_MOCK"
	// SourceFallbackMock means a provider call was attempted and failed, and
	// synthetic metrics were substituted.
	SourceFallbackMock MetricsSource = "FALLBACK_MOCK"
)

// MonthlySearch is one point of a keyword's monthly search trend,
// ordered oldest first.
type MonthlySearch struct {
	Year     int    `json:"year"`
	Month    int    `json:"month"`
	Label    string `json:"label"`
	Searches int64  `json:"searches"`
}

// Provenance records which tier answered for a keyword and why.
type Provenance struct {
	Source MetricsSource `json:"source"`
	Cached bool          `json:"cached"`
	Reason string        `json:"reason,omitempty"`
}

// KeywordMetrics is one resolved answer for one keyword in one locale.
// The composite key (Keyword, CountryCode, LanguageCode) is unique in the
// cache; bid fields and the monthly trend are provider-sourced only.
type KeywordMetrics struct {
	Keyword          string          `json:"keyword"`
	CountryCode      string          `json:"country_code"`
	LanguageCode     string          `json:"language_code"`
	SearchVolume     int64           `json:"search_volume"`
	Competition      Competition     `json:"competition"`
	CompetitionIndex *int            `json:"competition_index,omitempty"`
	LowBidMicros     *int64          `json:"low_bid_micros,omitempty"`
	HighBidMicros    *int64          `json:"high_bid_micros,omitempty"`
	AvgCPCMicros     *int64          `json:"avg_cpc_micros,omitempty"`
	MonthlyTrend     []MonthlySearch `json:"monthly_trend,omitempty"`
	Provenance       Provenance      `json:"provenance"`
}

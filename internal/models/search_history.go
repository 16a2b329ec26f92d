package models

import (
	"time"

	"github.com/google/uuid"
)

// SearchHistoryEntry is one append-only audit row: who asked what and which
// tier dominated the answer. Never mutated or deleted by this service.
type SearchHistoryEntry struct {
	ID             uuid.UUID     `json:"id"`
	RequesterID    string        `json:"requester_id"`
	Prompt         string        `json:"prompt"`
	CountryCode    string        `json:"country_code"`
	LanguageCode   string        `json:"language_code"`
	Keywords       []string      `json:"keywords"`
	KeywordCount   int           `json:"keyword_count"`
	DominantSource MetricsSource `json:"dominant_source"`
	CreatedAt      time.Time     `json:"created_at"`
}

// SourceCount is a per-source resolution count, used for metrics export.
type SourceCount struct {
	Source MetricsSource
	Count  int64
}

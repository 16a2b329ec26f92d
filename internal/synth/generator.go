// Package synth generates stable synthetic keyword metrics for when the
// external provider is disabled or unavailable.
package synth

import (
	"unicode/utf16"

	"kwpulse/internal/models"
)

// Volume bounds for synthetic search volumes.
const (
	volumeSpan = 90000
	volumeBase = 1000
)

var competitions = []models.Competition{
	models.CompetitionLow,
	models.CompetitionMedium,
	models.CompetitionHigh,
}

// hash32 computes a signed 32-bit hash over the string's UTF-16 code units
// with the recurrence h = h*31 + unit. The signed wrap-around is intentional:
// outputs must stay stable across releases so mock-mode results never flicker
// between identical requests.
func hash32(s string) int32 {
	var h int32
	for _, u := range utf16.Encode([]rune(s)) {
		h = h*31 + int32(u)
	}
	return h
}

// Metrics derives stable synthetic metrics for a keyword in a locale.
// Pure: same input always yields the same output. SearchVolume lands in
// [1000, 90999]; competition cycles through LOW/MEDIUM/HIGH.
func Metrics(keyword, countryCode, languageCode string) models.KeywordMetrics {
	h := int64(hash32(keyword + "|" + countryCode + "|" + languageCode))
	if h < 0 {
		h = -h
	}

	return models.KeywordMetrics{
		Keyword:      keyword,
		CountryCode:  countryCode,
		LanguageCode: languageCode,
		SearchVolume: h%volumeSpan + volumeBase,
		Competition:  competitions[h%3],
	}
}

// Deterministic returns synthetic metrics marked as intentionally mocked,
// used when the provider is administratively disabled.
func Deterministic(keyword, countryCode, languageCode string) models.KeywordMetrics {
	m := Metrics(keyword, countryCode, languageCode)
	m.Provenance = models.Provenance{
		Source: models.SourceDeterministicMock,
		Reason: "keyword provider disabled",
	}
	return m
}

// Fallback returns synthetic metrics marked as a runtime substitution, used
// when a provider call was attempted and failed.
func Fallback(keyword, countryCode, languageCode, reason string) models.KeywordMetrics {
	m := Metrics(keyword, countryCode, languageCode)
	m.Provenance = models.Provenance{
		Source: models.SourceFallbackMock,
		Reason: reason,
	}
	return m
}

package validation

import (
	"regexp"
	"strings"
)

// CountryCodePattern matches ISO 3166-1 alpha-2 country codes.
var CountryCodePattern = regexp.MustCompile(`^[A-Z]{2}$`)

// LanguageCodePattern matches ISO 639-1 language codes.
var LanguageCodePattern = regexp.MustCompile(`^[a-z]{2}$`)

// NormalizeKeywords trims whitespace, drops empties and duplicates
// (case-sensitive, first occurrence wins, order preserved) and caps the list
// at max distinct keywords. A max of zero or less means no cap.
func NormalizeKeywords(keywords []string, max int) []string {
	seen := make(map[string]struct{}, len(keywords))
	out := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		kw = strings.TrimSpace(kw)
		if kw == "" {
			continue
		}
		if _, dup := seen[kw]; dup {
			continue
		}
		seen[kw] = struct{}{}
		out = append(out, kw)
		if max > 0 && len(out) == max {
			break
		}
	}
	return out
}

// ValidateCountryCode checks an ISO 3166-1 alpha-2 country code.
func ValidateCountryCode(code string) bool {
	return CountryCodePattern.MatchString(code)
}

// ValidateLanguageCode checks an ISO 639-1 language code.
func ValidateLanguageCode(code string) bool {
	return LanguageCodePattern.MatchString(code)
}

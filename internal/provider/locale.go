package provider

// Static lookup tables mapping ISO language/country codes to the provider's
// internal criteria ids. Misses fall back to English / United States, the
// most common locale, rather than failing the call.

const (
	defaultLanguageID = "1000" // English
	defaultGeoID      = "2840" // United States
)

var languageIDs = map[string]string{
	"en": "1000",
	"de": "1001",
	"fr": "1002",
	"es": "1003",
	"it": "1004",
	"ja": "1005",
	"nl": "1010",
	"pt": "1014",
	"pl": "1030",
	"sv": "1015",
	"da": "1009",
	"no": "1013",
	"fi": "1011",
}

var geoTargetIDs = map[string]string{
	"US": "2840",
	"GB": "2826",
	"CA": "2124",
	"AU": "2036",
	"DE": "2276",
	"FR": "2250",
	"ES": "2724",
	"IT": "2380",
	"NL": "2528",
	"SE": "2752",
	"NO": "2578",
	"DK": "2208",
	"FI": "2246",
	"JP": "2392",
	"BR": "2076",
	"PL": "2616",
}

// LanguageID maps an ISO 639-1 language code to a provider language id.
func LanguageID(languageCode string) string {
	if id, ok := languageIDs[languageCode]; ok {
		return id
	}
	return defaultLanguageID
}

// GeoTargetID maps an ISO 3166-1 alpha-2 country code to a provider geo id.
func GeoTargetID(countryCode string) string {
	if id, ok := geoTargetIDs[countryCode]; ok {
		return id
	}
	return defaultGeoID
}

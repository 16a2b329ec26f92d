package models

// ResolveRequest is the JSON body of a keyword resolution call.
type ResolveRequest struct {
	Keywords       []string `json:"keywords"`
	CountryCode    string   `json:"country_code"`
	LanguageCode   string   `json:"language_code"`
	UseCache       *bool    `json:"use_cache,omitempty"`
	Prompt         string   `json:"prompt,omitempty"`
	GeneratedViaAI bool     `json:"generated_via_ai,omitempty"`
}

// ResolveResponse wraps the resolved metrics records.
type ResolveResponse struct {
	Keywords []KeywordMetrics `json:"keywords"`
	Count    int              `json:"count"`
}

// RefreshResponse reports how many saved keywords were re-resolved.
type RefreshResponse struct {
	RefreshedCount int `json:"refreshed_count"`
}

// SavedKeywordsRequest replaces a requester's saved keyword set for one locale.
type SavedKeywordsRequest struct {
	Keywords     []string `json:"keywords"`
	CountryCode  string   `json:"country_code"`
	LanguageCode string   `json:"language_code"`
}

// SavedKeywordsResponse lists a requester's saved keywords.
type SavedKeywordsResponse struct {
	Keywords []SavedKeyword `json:"keywords"`
	Count    int            `json:"count"`
}

package models

import "time"

// SavedKeyword is a keyword a requester has saved for periodic refresh.
type SavedKeyword struct {
	RequesterID  string    `json:"requester_id"`
	Keyword      string    `json:"keyword"`
	CountryCode  string    `json:"country_code"`
	LanguageCode string    `json:"language_code"`
	CreatedAt    time.Time `json:"created_at"`
}

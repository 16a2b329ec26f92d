package validation

import (
	"reflect"
	"testing"
)

func TestNormalizeKeywords(t *testing.T) {
	tests := []struct {
		name  string
		input []string
		max   int
		want  []string
	}{
		{
			name:  "trims whitespace",
			input: []string{"  coffee shop ", "tea"},
			max:   50,
			want:  []string{"coffee shop", "tea"},
		},
		{
			name:  "drops empties",
			input: []string{"", "  ", "coffee"},
			max:   50,
			want:  []string{"coffee"},
		},
		{
			name:  "dedupes preserving first-seen order",
			input: []string{"b", "a", "b", "c", "a"},
			max:   50,
			want:  []string{"b", "a", "c"},
		},
		{
			name:  "dedupe is case-sensitive",
			input: []string{"Coffee", "coffee"},
			max:   50,
			want:  []string{"Coffee", "coffee"},
		},
		{
			name:  "caps at max",
			input: []string{"a", "b", "c", "d"},
			max:   2,
			want:  []string{"a", "b"},
		},
		{
			name:  "zero max means no cap",
			input: []string{"a", "b", "c"},
			max:   0,
			want:  []string{"a", "b", "c"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeKeywords(tt.input, tt.max)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("NormalizeKeywords(%v, %d) = %v, want %v", tt.input, tt.max, got, tt.want)
			}
		})
	}
}

func TestValidateCountryCode(t *testing.T) {
	valid := []string{"US", "GB", "DE"}
	invalid := []string{"", "us", "USA", "U1"}

	for _, code := range valid {
		if !ValidateCountryCode(code) {
			t.Errorf("expected %q to be valid", code)
		}
	}
	for _, code := range invalid {
		if ValidateCountryCode(code) {
			t.Errorf("expected %q to be invalid", code)
		}
	}
}

func TestValidateLanguageCode(t *testing.T) {
	valid := []string{"en", "de", "ja"}
	invalid := []string{"", "EN", "eng", "e1"}

	for _, code := range valid {
		if !ValidateLanguageCode(code) {
			t.Errorf("expected %q to be valid", code)
		}
	}
	for _, code := range invalid {
		if ValidateLanguageCode(code) {
			t.Errorf("expected %q to be invalid", code)
		}
	}
}

package models

import "testing"

func strPtr(s string) *string { return &s }

func TestDisplayName(t *testing.T) {
	tests := []struct {
		name       string
		nickname   *string
		commonName *string
		want       string
	}{
		{"nickname wins", strPtr("Fernando"), strPtr("Boston Fern"), "Fernando"},
		{"falls back to common name", nil, strPtr("Boston Fern"), "Boston Fern"},
		{"empty nickname falls back", strPtr(""), strPtr("Boston Fern"), "Boston Fern"},
		{"generic fallback", nil, nil, "Plant"},
		{"empty everything", strPtr(""), strPtr(""), "Plant"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DisplayName(tt.nickname, tt.commonName); got != tt.want {
				t.Errorf("DisplayName() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDispatchCandidatePlantName(t *testing.T) {
	candidate := DispatchCandidate{
		Nickname:   nil,
		CommonName: strPtr("Ficus"),
	}
	if got := candidate.PlantName(); got != "Ficus" {
		t.Errorf("PlantName() = %q, want %q", got, "Ficus")
	}
}

package research

import (
	"strings"
	"testing"
)

func TestCleanTitle(t *testing.T) {
	tests := []struct {
		name  string
		title string
		want  string
	}{
		{
			name:  "TIL prefix stripped and capitalized",
			title: "TIL that octopuses have three hearts",
			want:  "Octopuses have three hearts",
		},
		{
			name:  "plain title kept",
			title: "The deepest point of the ocean",
			want:  "The deepest point of the ocean",
		},
		{
			name:  "too short rejected",
			title: "TIL cats",
			want:  "",
		},
		{
			name:  "long title cut at a word boundary",
			title: strings.Repeat("word ", 30),
			want:  "W" + strings.TrimSpace(strings.Repeat("word ", 16))[1:],
		},
		{
			name:  "LPT prefix stripped",
			title: "LPT: always read the documentation first",
			want:  "Always read the documentation first",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CleanTitle(tt.title)
			if got != tt.want {
				t.Errorf("CleanTitle(%q) = %q, want %q", tt.title, got, tt.want)
			}
			if len([]rune(got)) > 80 {
				t.Errorf("CleanTitle(%q) = %d runes, want <= 80", tt.title, len([]rune(got)))
			}
		})
	}
}

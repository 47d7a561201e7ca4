package studio

import (
	"math"
	"strings"
	"testing"

	"shorts-factory/types"
)

func TestSplitSentences(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "three sentence types",
			text: "Mars is red. Is it alive? Nobody knows!",
			want: []string{"Mars is red", "Is it alive", "Nobody knows"},
		},
		{
			name: "empty fragments discarded",
			text: "One... Two.",
			want: []string{"One", "Two"},
		},
		{
			name: "no terminator keeps trailing fragment",
			text: "First. second without period",
			want: []string{"First", "second without period"},
		},
		{
			name: "empty input",
			text: "",
			want: nil,
		},
		{
			name: "whitespace trimmed",
			text: "  A fact.   Another fact.  ",
			want: []string{"A fact", "Another fact"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitSentences(tt.text)
			if len(got) != len(tt.want) {
				t.Fatalf("SplitSentences() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("fragment %d = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

// Re-splitting the joined fragments must reproduce the original fragments
func TestSplitSentencesIdempotent(t *testing.T) {
	original := SplitSentences("Mars is red. Is it alive? Nobody knows! The search continues.")
	rejoined := strings.Join(original, ". ") + "."
	again := SplitSentences(rejoined)

	if len(again) != len(original) {
		t.Fatalf("re-split produced %d fragments, want %d", len(again), len(original))
	}
	for i := range again {
		if again[i] != original[i] {
			t.Errorf("fragment %d = %q, want %q", i, again[i], original[i])
		}
	}
}

func TestBuildCues(t *testing.T) {
	fragments := []string{"one", "two", "three", "four"}
	cues := BuildCues(fragments, 30)

	if len(cues) != 4 {
		t.Fatalf("BuildCues() = %d cues, want 4", len(cues))
	}

	// Contiguous, non-overlapping, covering the full duration
	var elapsed float64
	for i, cue := range cues {
		if math.Abs(cue.StartSec-elapsed) > 1e-9 {
			t.Errorf("cue %d starts at %.3f, want %.3f", i, cue.StartSec, elapsed)
		}
		if math.Abs(cue.DurationSec-7.5) > 1e-9 {
			t.Errorf("cue %d duration = %.3f, want 7.5", i, cue.DurationSec)
		}
		elapsed += cue.DurationSec
	}
	if math.Abs(elapsed-30) > 1e-9 {
		t.Errorf("cues cover %.3fs, want 30s", elapsed)
	}
}

func TestBuildCuesEmpty(t *testing.T) {
	if cues := BuildCues(nil, 30); cues != nil {
		t.Errorf("BuildCues(nil) = %v, want nil", cues)
	}
}

func TestWrapText(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		width int
		want  string
	}{
		{"short line untouched", "Mars is red", 35, "Mars is red"},
		{"wraps at width", "aaaa bbbb cccc", 9, "aaaa bbbb\ncccc"},
		{"single long word kept whole", "supercalifragilistic", 5, "supercalifragilistic"},
		{"empty", "", 35, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := WrapText(tt.in, tt.width); got != tt.want {
				t.Errorf("WrapText(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
			}
		})
	}

	t.Run("no line exceeds width", func(t *testing.T) {
		wrapped := WrapText("the quick brown fox jumps over the lazy dog near the river bank", 35)
		for _, line := range strings.Split(wrapped, "\n") {
			if len(line) > 35 {
				t.Errorf("line %q exceeds 35 chars", line)
			}
		}
	})
}

func TestCueFilter(t *testing.T) {
	cue := types.SubtitleCue{Text: "Mars: it's red", StartSec: 7.5, DurationSec: 7.5}
	filter := CueFilter(cue, "", 45, 35, 3)

	for _, want := range []string{
		"drawtext=",
		"fontsize=45",
		"fontcolor=white",
		"borderw=3",
		"x=(w-text_w)/2",
		"y=h*0.8-text_h/2",
		"enable='between(t,7.500,15.000)'",
	} {
		if !strings.Contains(filter, want) {
			t.Errorf("CueFilter() missing %q:\n%s", want, filter)
		}
	}

	if strings.Contains(filter, "fontfile=") {
		t.Errorf("CueFilter() with no font must omit fontfile, got:\n%s", filter)
	}

	withFont := CueFilter(cue, "/usr/share/fonts/DejaVuSans-Bold.ttf", 45, 35, 3)
	if !strings.Contains(withFont, "fontfile='/usr/share/fonts/DejaVuSans-Bold.ttf':") {
		t.Errorf("CueFilter() with font must include quoted fontfile, got:\n%s", withFont)
	}
}

// Apostrophes terminate a quoted filter argument, so they must be emitted
// as '\'' (close, escaped quote, reopen). Anything else would swallow the
// styling options into the text token and break the encode.
func TestCueFilterQuoting(t *testing.T) {
	cue := types.SubtitleCue{Text: "It's a fact", StartSec: 0, DurationSec: 10}
	filter := CueFilter(cue, "", 45, 35, 3)

	if !strings.Contains(filter, `text='It'\''s a fact':fontsize=45`) {
		t.Errorf("CueFilter() apostrophe not re-quoted:\n%s", filter)
	}

	// Colons and percents are literal inside quotes; a backslash before
	// them would render in the subtitle.
	colons := CueFilter(types.SubtitleCue{Text: "Mars: 100% red", DurationSec: 10}, "", 45, 35, 3)
	if !strings.Contains(colons, `text='Mars: 100% red':fontsize=45`) {
		t.Errorf("CueFilter() must keep quoted colons/percents literal:\n%s", colons)
	}
	if strings.Contains(colons, `\:`) || strings.Contains(colons, `\%`) {
		t.Errorf("CueFilter() must not backslash-escape inside quotes:\n%s", colons)
	}
}

func TestSubtitleFilterChainsCues(t *testing.T) {
	cues := BuildCues([]string{"one", "two"}, 10)
	filter := SubtitleFilter(cues, "", 45, 35, 3)

	if got := strings.Count(filter, "drawtext="); got != 2 {
		t.Errorf("SubtitleFilter() has %d drawtext filters, want 2", got)
	}
	if !strings.Contains(filter, "',drawtext=") {
		t.Errorf("SubtitleFilter() cues not comma-chained:\n%s", filter)
	}
}

package studio

import (
	"fmt"
	"os"
	"strings"

	"shorts-factory/types"
)

// SplitSentences splits narration text into sentence fragments on
// terminating punctuation, discarding empty fragments
func SplitSentences(text string) []string {
	var fragments []string
	var current strings.Builder

	flush := func() {
		if s := strings.TrimSpace(current.String()); s != "" {
			fragments = append(fragments, s)
		}
		current.Reset()
	}

	for _, r := range text {
		switch r {
		case '.', '!', '?':
			flush()
		default:
			current.WriteRune(r)
		}
	}
	flush()
	return fragments
}

// BuildCues divides the audio duration evenly across the fragments.
// Cues are contiguous and non-overlapping, covering the full duration.
func BuildCues(fragments []string, totalSec float64) []types.SubtitleCue {
	if len(fragments) == 0 {
		return nil
	}
	slot := totalSec / float64(len(fragments))
	cues := make([]types.SubtitleCue, len(fragments))
	for i, text := range fragments {
		cues[i] = types.SubtitleCue{
			Text:        text,
			StartSec:    float64(i) * slot,
			DurationSec: slot,
		}
	}
	return cues
}

// WrapText word-wraps s to at most width characters per line
func WrapText(s string, width int) string {
	words := strings.Fields(s)
	if len(words) == 0 {
		return ""
	}

	var lines []string
	line := words[0]
	for _, word := range words[1:] {
		if len(line)+1+len(word) > width {
			lines = append(lines, line)
			line = word
			continue
		}
		line += " " + word
	}
	lines = append(lines, line)
	return strings.Join(lines, "\n")
}

// FindFont returns the first candidate font file that exists on disk, or ""
// to let ffmpeg fall back to its built-in default font
func FindFont(candidates []string) string {
	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// CueFilter builds one drawtext filter for a cue: wrapped, centered, bold
// white text with a black outline, anchored near 80% of frame height,
// visible only inside the cue's time slice.
func CueFilter(cue types.SubtitleCue, fontFile string, fontSize, maxChars, strokeWidth int) string {
	var sb strings.Builder
	sb.WriteString("drawtext=")
	if fontFile != "" {
		sb.WriteString(fmt.Sprintf("fontfile='%s':", escapeFFmpegText(fontFile)))
	}
	sb.WriteString(fmt.Sprintf(
		"text='%s':fontsize=%d:fontcolor=white:borderw=%d:bordercolor=black:x=(w-text_w)/2:y=h*0.8-text_h/2:enable='between(t,%.3f,%.3f)'",
		escapeFFmpegText(WrapText(cue.Text, maxChars)),
		fontSize,
		strokeWidth,
		cue.StartSec,
		cue.StartSec+cue.DurationSec,
	))
	return sb.String()
}

// SubtitleFilter chains the per-cue drawtext filters into one -vf value
func SubtitleFilter(cues []types.SubtitleCue, fontFile string, fontSize, maxChars, strokeWidth int) string {
	filters := make([]string, len(cues))
	for i, cue := range cues {
		filters[i] = CueFilter(cue, fontFile, fontSize, maxChars, strokeWidth)
	}
	return strings.Join(filters, ",")
}

// escapeFFmpegText prepares s for use inside a single-quoted filter
// argument. ffmpeg treats every character inside quotes as literal except
// the quote itself, which must be closed, backslash-escaped and reopened.
func escapeFFmpegText(s string) string {
	return strings.ReplaceAll(s, "'", `'\''`)
}

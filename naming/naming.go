package naming

import (
	"fmt"
	"path/filepath"
	"strings"
	"unicode"
)

// Slug reduces a topic to a filesystem-safe name: alphanumerics and
// underscores only, with interior spaces converted to underscores.
func Slug(topic string) string {
	var b strings.Builder
	for _, r := range topic {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ' || r == '_' {
			b.WriteRune(r)
		}
	}
	s := strings.TrimRight(b.String(), " ")
	return strings.ReplaceAll(s, " ", "_")
}

// Artifact builds an intermediate artifact path under dir:
// <slug>_<timestamp>_<suffix>
func Artifact(dir, topic string, timestamp int64, suffix string) string {
	return filepath.Join(dir, fmt.Sprintf("%s_%d_%s", Slug(topic), timestamp, suffix))
}

// Clip builds a numbered clip path under dir:
// <slug>_<timestamp>_<index>_clip.mp4
func Clip(dir, topic string, timestamp int64, index int) string {
	return filepath.Join(dir, fmt.Sprintf("%s_%d_%d_clip.mp4", Slug(topic), timestamp, index))
}

// Final builds the deterministic output path for the rendered video.
// A second run with the same topic overwrites the first.
func Final(dir, topic string) string {
	return filepath.Join(dir, Slug(topic)+"_FINAL.mp4")
}

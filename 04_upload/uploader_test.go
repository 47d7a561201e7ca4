package upload

import (
	"context"
	"strings"
	"testing"

	"shorts-factory/config"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		n    int
		want string
	}{
		{"short untouched", "Life on Mars #Shorts", 100, "Life on Mars #Shorts"},
		{"exact length untouched", "abcde", 5, "abcde"},
		{"long cut", strings.Repeat("x", 120), 100, strings.Repeat("x", 100)},
		{"empty", "", 100, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Truncate(tt.in, tt.n); got != tt.want {
				t.Errorf("Truncate(len %d, %d) = len %d, want len %d", len(tt.in), tt.n, len(got), len(tt.want))
			}
		})
	}
}

func TestWatchURL(t *testing.T) {
	if got, want := WatchURL("dQw4w9WgXcQ"), "https://youtu.be/dQw4w9WgXcQ"; got != want {
		t.Errorf("WatchURL() = %q, want %q", got, want)
	}
}

func TestRunFailsFastWithoutCredentials(t *testing.T) {
	cfg := &config.Config{}
	cfg.Paths.Credentials = t.TempDir() + "/client_secret.json" // does not exist

	u := New(cfg)
	_, err := u.Run(context.Background(), "video.mp4", "title", "desc")
	if err == nil {
		t.Fatal("Run() without credential file must fail")
	}
	if !strings.Contains(err.Error(), "not found") {
		t.Errorf("Run() error = %q, want missing-credential message", err)
	}
}

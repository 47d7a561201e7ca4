package types

// Script is the generated narration text for one video
type Script struct {
	Topic string `json:"topic"`
	Text  string `json:"text"`
	Model string `json:"model"`
}

// AudioTrack is the synthesized narration on disk
type AudioTrack struct {
	Path        string  `json:"path"`
	DurationSec float64 `json:"duration_sec"`
}

// Clip is one downloaded stock video file
type Clip struct {
	Path        string  `json:"path"`
	DurationSec float64 `json:"duration_sec"`
	SourceID    int     `json:"source_id"`
	Width       int     `json:"width"`
}

// ClipSet is the ordered sequence of clips feeding the compositor
type ClipSet []Clip

// TotalDuration sums the reported source durations
func (c ClipSet) TotalDuration() float64 {
	var total float64
	for _, clip := range c {
		total += clip.DurationSec
	}
	return total
}

// SubtitleCue is a timed on-screen text fragment
type SubtitleCue struct {
	Text        string  `json:"text"`
	StartSec    float64 `json:"start_sec"`
	DurationSec float64 `json:"duration_sec"`
}

// ProgressEvent is one observable step reported to the operator surface
type ProgressEvent struct {
	Stage   string `json:"stage"`
	Message string `json:"message"`
	Percent int    `json:"percent,omitempty"`
}

// PipelineState tracks the full state of one pipeline run
type PipelineState struct {
	RunID       string          `json:"run_id"`
	Topic       string          `json:"topic"`
	DurationSec int             `json:"duration_sec"`
	StartedAt   string          `json:"started_at"`
	CompletedAt string          `json:"completed_at"`
	Script      *Script         `json:"script"`
	AudioFile   string          `json:"audio_file"`
	ClipFiles   []string        `json:"clip_files"`
	VideoFile   string          `json:"video_file"`
	YouTubeURL  string          `json:"youtube_url,omitempty"`
	Events      []ProgressEvent `json:"events,omitempty"`
	Error       string          `json:"error,omitempty"`
}

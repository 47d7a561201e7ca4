package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"shorts-factory/config"
	"shorts-factory/types"

	"github.com/google/uuid"
)

const (
	MinDurationSec = 15
	MaxDurationSec = 60
)

// Planner produces a narration script for a topic
type Planner interface {
	Run(ctx context.Context, topic string, durationSec int) (*types.Script, error)
}

// Fetcher produces narration audio and stock clips for a script
type Fetcher interface {
	Run(ctx context.Context, script *types.Script, durationSec int) (*types.AudioTrack, types.ClipSet, error)
}

// Compositor renders the final video file
type Compositor interface {
	Run(ctx context.Context, audio *types.AudioTrack, clips types.ClipSet, script *types.Script) (string, error)
}

// Publisher uploads a rendered video and returns its public link
type Publisher interface {
	Run(ctx context.Context, videoFile, title, description string) (string, error)
}

// Request is one operator-submitted generation job. RunID may be set by
// the caller to correlate progress; left empty, one is assigned.
type Request struct {
	RunID       string `json:"run_id,omitempty"`
	Topic       string `json:"topic"`
	DurationSec int    `json:"duration_sec"`
	Upload      bool   `json:"upload"`
}

// Pipeline runs the four stages strictly forward:
// Planner → Fetcher → Compositor → Publisher
type Pipeline struct {
	cfg      *config.Config
	planner  Planner
	fetcher  Fetcher
	studio   Compositor
	uploader Publisher
}

// New wires the stages together
func New(cfg *config.Config, planner Planner, fetcher Fetcher, studio Compositor, uploader Publisher) *Pipeline {
	return &Pipeline{
		cfg:      cfg,
		planner:  planner,
		fetcher:  fetcher,
		studio:   studio,
		uploader: uploader,
	}
}

// ClampDuration bounds a requested duration to the supported slider range
func ClampDuration(durationSec int) int {
	if durationSec < MinDurationSec {
		return MinDurationSec
	}
	if durationSec > MaxDurationSec {
		return MaxDurationSec
	}
	return durationSec
}

// Run executes one full generation job. The returned state always carries
// whatever was produced before a failure; Error is set when a stage failed.
// progress may be nil.
func (p *Pipeline) Run(ctx context.Context, req Request, progress func(types.ProgressEvent)) *types.PipelineState {
	duration := ClampDuration(req.DurationSec)

	runID := req.RunID
	if runID == "" {
		runID = uuid.NewString()[:8]
	}

	state := &types.PipelineState{
		RunID:       runID,
		Topic:       req.Topic,
		DurationSec: duration,
		StartedAt:   time.Now().UTC().Format(time.RFC3339),
	}

	defer func() {
		state.CompletedAt = time.Now().UTC().Format(time.RFC3339)
		p.saveState(state)
		if state.Error != "" {
			log.Printf("❌ Pipeline failed: %s", state.Error)
		}
	}()

	// Stage 1: script
	p.emit(state, progress, "script", fmt.Sprintf("Writing a %ds script about %q...", duration, req.Topic))
	script, err := p.planner.Run(ctx, req.Topic, duration)
	if err != nil {
		state.Error = fmt.Sprintf("Script: %v", err)
		return state
	}
	state.Script = script

	// Stage 2: assets
	p.emit(state, progress, "assets", "Synthesizing narration and downloading clips...")
	audio, clips, err := p.fetcher.Run(ctx, script, duration)
	if err != nil {
		state.Error = fmt.Sprintf("Assets: %v", err)
		return state
	}
	state.AudioFile = audio.Path
	for _, clip := range clips {
		state.ClipFiles = append(state.ClipFiles, clip.Path)
	}

	// Stage 3: studio
	p.emit(state, progress, "studio", "Editing, stitching and adding subtitles...")
	videoFile, err := p.studio.Run(ctx, audio, clips, script)
	if err != nil {
		state.Error = fmt.Sprintf("Studio: %v", err)
		return state
	}
	state.VideoFile = videoFile
	p.emit(state, progress, "studio", "Render complete: "+filepath.Base(videoFile))

	// Stage 4: upload (optional). A failure here never invalidates the
	// already-rendered video.
	if req.Upload {
		p.emit(state, progress, "upload", "Uploading to YouTube...")
		title := req.Topic + " #Shorts"
		url, err := p.uploader.Run(ctx, videoFile, title, script.Text)
		if err != nil {
			state.Error = fmt.Sprintf("Upload: %v", err)
			return state
		}
		state.YouTubeURL = url
		p.emit(state, progress, "upload", "Upload successful: "+url)
	}

	log.Printf("✅ Pipeline complete! Video: %s", state.VideoFile)
	return state
}

func (p *Pipeline) emit(state *types.PipelineState, progress func(types.ProgressEvent), stage, message string) {
	log.Printf("[pipeline] %s: %s", stage, message)
	event := types.ProgressEvent{Stage: stage, Message: message}
	state.Events = append(state.Events, event)
	if progress != nil {
		progress(event)
	}
}

func (p *Pipeline) saveState(state *types.PipelineState) {
	if err := os.MkdirAll(p.cfg.Paths.Logs, 0755); err != nil {
		log.Printf("Warning: could not create logs dir: %v", err)
		return
	}
	path := filepath.Join(p.cfg.Paths.Logs, fmt.Sprintf("run_%s.json", state.RunID))
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		log.Printf("Warning: could not marshal state for %s: %v", path, err)
		return
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		log.Printf("Warning: could not save %s: %v", path, err)
	}
}

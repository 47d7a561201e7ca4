package assets

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"shorts-factory/config"
	"shorts-factory/naming"
	"shorts-factory/types"
)

// KeywordSource derives a stock-footage search term from a topic
type KeywordSource interface {
	Keyword(ctx context.Context, topic string) string
}

// Fetcher produces narration audio and a set of stock clips for a script
type Fetcher struct {
	cfg      *config.Config
	tts      *Synthesizer
	pexels   *PexelsClient
	keywords KeywordSource
}

// New creates a Fetcher
func New(cfg *config.Config, pexelsKey string, keywords KeywordSource) *Fetcher {
	return &Fetcher{
		cfg:      cfg,
		tts:      NewSynthesizer(cfg.Assets.Voice),
		pexels:   NewPexelsClient(pexelsKey, cfg.Assets.MaxResults, cfg.Assets.SearchTimeoutSec),
		keywords: keywords,
	}
}

// Run synthesizes the narration and downloads clips covering the duration.
// A narration failure is terminal; clip failures degrade to an empty set.
func (f *Fetcher) Run(ctx context.Context, script *types.Script, durationSec int) (*types.AudioTrack, types.ClipSet, error) {
	if err := os.MkdirAll(f.cfg.Paths.Output, 0755); err != nil {
		return nil, nil, fmt.Errorf("create output dir: %w", err)
	}

	timestamp := time.Now().Unix()

	audioFile := naming.Artifact(f.cfg.Paths.Output, script.Topic, timestamp, "audio.mp3")
	audio, err := f.tts.Run(ctx, script.Text, audioFile)
	if err != nil {
		return nil, nil, err
	}

	keyword := f.keywords.Keyword(ctx, script.Topic)
	log.Printf("[assets] Search keyword: %q", keyword)

	clips := f.pexels.FetchClips(ctx, keyword, script.Topic, f.cfg.Paths.Output, durationSec, timestamp)
	return audio, clips, nil
}

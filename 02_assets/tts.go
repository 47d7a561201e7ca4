package assets

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/exec"
	"strings"
	"time"

	"shorts-factory/types"
)

// Synthesizer turns narration text into an audio file.
// It shells out to the command named by TTS_COMMAND, accepting
//
//	--text "..." --output path/to/file.mp3
//
// and falls back to edge-tts (free Microsoft TTS) when TTS_COMMAND is unset.
type Synthesizer struct {
	voice string
}

// NewSynthesizer creates a Synthesizer with a fixed voice/locale
func NewSynthesizer(voice string) *Synthesizer {
	return &Synthesizer{voice: voice}
}

// Run synthesizes text into outFile and measures the resulting duration
func (s *Synthesizer) Run(ctx context.Context, text, outFile string) (*types.AudioTrack, error) {
	log.Println("[assets] Generating voiceover...")

	ttsCmd := strings.TrimSpace(os.Getenv("TTS_COMMAND"))
	if ttsCmd == "" {
		if _, err := exec.LookPath("edge-tts"); err != nil {
			return nil, fmt.Errorf("no TTS engine found. Set TTS_COMMAND in .env or install edge-tts: pip install edge-tts")
		}
		ttsCmd = "edge-tts"
	}

	if err := s.synthesize(ctx, ttsCmd, text, outFile); err != nil {
		return nil, fmt.Errorf("tts failed: %w", err)
	}

	dur, err := probeDuration(outFile)
	if err != nil {
		return nil, fmt.Errorf("measure narration duration: %w", err)
	}

	log.Printf("[assets] ✅ Narration ready: %.1fs → %s", dur, outFile)
	return &types.AudioTrack{Path: outFile, DurationSec: dur}, nil
}

func (s *Synthesizer) synthesize(ctx context.Context, ttsCmd, text, outFile string) error {
	// Retry up to 3 times; the command must be rebuilt per attempt
	var err error
	for attempt := 1; attempt <= 3; attempt++ {
		cmd := s.buildCmd(ctx, ttsCmd, text, outFile)
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr

		err = cmd.Run()
		if err == nil {
			return nil
		}
		log.Printf("[assets] TTS attempt %d failed: %v — retrying...", attempt, err)
		time.Sleep(time.Duration(attempt) * 2 * time.Second)
	}
	return err
}

func (s *Synthesizer) buildCmd(ctx context.Context, ttsCmd, text, outFile string) *exec.Cmd {
	switch {
	case ttsCmd == "edge-tts":
		return exec.CommandContext(ctx,
			"edge-tts",
			"--voice", s.voice,
			"--text", text,
			"--write-media", outFile,
		)

	case strings.HasSuffix(ttsCmd, ".py"):
		return exec.CommandContext(ctx,
			"python3", ttsCmd,
			"--text", text,
			"--output", outFile,
		)

	default:
		return exec.CommandContext(ctx,
			ttsCmd,
			"--text", text,
			"--output", outFile,
		)
	}
}

// probeDuration uses ffprobe to get an accurate media duration in seconds
func probeDuration(file string) (float64, error) {
	out, err := exec.Command("ffprobe",
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		file,
	).Output()
	if err != nil {
		return 0, err
	}
	var dur float64
	_, err = fmt.Sscanf(strings.TrimSpace(string(out)), "%f", &dur)
	return dur, err
}

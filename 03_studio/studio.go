package studio

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"shorts-factory/config"
	"shorts-factory/naming"
	"shorts-factory/types"
)

// Studio composites clips, narration and subtitles into the final video
type Studio struct {
	cfg *config.Config
}

// New creates a Studio
func New(cfg *config.Config) *Studio {
	return &Studio{cfg: cfg}
}

// Run renders output/<slug>_FINAL.mp4. The narration audio file is the one
// required precondition; every other input degrades to a fallback.
func (s *Studio) Run(ctx context.Context, audio *types.AudioTrack, clips types.ClipSet, script *types.Script) (string, error) {
	log.Println("[studio] ✂️  Assembling video...")

	if audio == nil || audio.Path == "" {
		return "", fmt.Errorf("narration audio missing")
	}
	if _, err := os.Stat(audio.Path); err != nil {
		return "", fmt.Errorf("narration audio missing: %w", err)
	}

	target := audio.DurationSec
	if target <= 0 {
		dur, err := probeDuration(audio.Path)
		if err != nil {
			return "", fmt.Errorf("measure narration duration: %w", err)
		}
		target = dur
	}

	workDir := filepath.Join(s.cfg.Paths.Output, naming.Slug(script.Topic)+"_work")
	if err := os.MkdirAll(workDir, 0755); err != nil {
		return "", fmt.Errorf("create work dir: %w", err)
	}
	defer os.RemoveAll(workDir)

	base, err := s.prepareBaseTrack(ctx, clips, target, workDir)
	if err != nil {
		return "", err
	}

	// Subtitles: one cue per sentence, evenly timed across the narration
	log.Println("[studio] 📝 Generating subtitles...")
	cues := BuildCues(SplitSentences(script.Text), target)
	fontFile := FindFont(s.cfg.Studio.Fonts)
	if fontFile == "" {
		log.Println("[studio] ⚠️ No bold font found — using ffmpeg default font")
	}
	vf := SubtitleFilter(cues, fontFile, s.cfg.Studio.FontSize, s.cfg.Studio.MaxCharsPerLine, s.cfg.Studio.StrokeWidth)

	outFile := naming.Final(s.cfg.Paths.Output, script.Topic)
	args := FinalArgs(base, audio.Path, vf, s.cfg.Studio.FPS, s.cfg.Studio.Preset, target, outFile)
	if err := s.ffmpeg(ctx, args); err != nil {
		return "", fmt.Errorf("final encode: %w", err)
	}

	log.Printf("[studio] ✅ Render complete: %s", outFile)
	return outFile, nil
}

// prepareBaseTrack normalizes, concatenates and loops/trims the clips into
// one silent video exactly target seconds long. With no usable clips it
// substitutes a solid black frame.
func (s *Studio) prepareBaseTrack(ctx context.Context, clips types.ClipSet, target float64, workDir string) (string, error) {
	var normalized []string
	var totalDur float64

	for i, clip := range clips {
		outFile := filepath.Join(workDir, fmt.Sprintf("norm_%03d.mp4", i))
		args := NormalizeArgs(clip.Path, outFile, s.cfg.Studio.FrameWidth, s.cfg.Studio.FrameHeight, s.cfg.Studio.FPS, s.cfg.Studio.Preset)
		if err := s.ffmpeg(ctx, args); err != nil {
			log.Printf("[studio] ⚠️ Skipped bad clip %s: %v", clip.Path, err)
			continue
		}

		dur, err := probeDuration(outFile)
		if err != nil {
			log.Printf("[studio] ⚠️ Skipped unreadable clip %s: %v", clip.Path, err)
			continue
		}
		normalized = append(normalized, outFile)
		totalDur += dur
	}

	if len(normalized) == 0 {
		log.Println("[studio] ⚠️ No usable clips — creating black background")
		outFile := filepath.Join(workDir, "black.mp4")
		args := BlackClipArgs(outFile, s.cfg.Studio.FrameWidth, s.cfg.Studio.FrameHeight, s.cfg.Studio.FPS, target)
		if err := s.ffmpeg(ctx, args); err != nil {
			return "", fmt.Errorf("create fallback background: %w", err)
		}
		return outFile, nil
	}

	listFile := filepath.Join(workDir, "concat_list.txt")
	if err := os.WriteFile(listFile, []byte(ConcatList(normalized)), 0644); err != nil {
		return "", err
	}

	concatFile := filepath.Join(workDir, "concat.mp4")
	if err := s.ffmpeg(ctx, ConcatArgs(listFile, concatFile)); err != nil {
		return "", fmt.Errorf("concatenate clips: %w", err)
	}

	baseFile := filepath.Join(workDir, "base.mp4")
	loops := LoopCount(totalDur, target)
	if loops > 0 {
		log.Printf("[studio] Looping %.1fs of footage to cover %.1fs", totalDur, target)
	}
	if err := s.ffmpeg(ctx, LoopTrimArgs(concatFile, loops, target, baseFile)); err != nil {
		return "", fmt.Errorf("match clip duration to audio: %w", err)
	}
	return baseFile, nil
}

func (s *Studio) ffmpeg(ctx context.Context, args []string) error {
	cmd := exec.CommandContext(ctx, "ffmpeg", args...)
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

// NormalizeArgs scales a clip so its height reaches the frame height
// (preserving aspect ratio), center-crops to the frame, locks the frame
// rate and strips audio.
func NormalizeArgs(in, out string, width, height, fps int, preset string) []string {
	vf := fmt.Sprintf(
		"scale=-2:'if(lt(ih,%d),%d,ih)',crop=%d:%d",
		height, height, width, height,
	)
	return []string{
		"-y",
		"-i", in,
		"-vf", vf,
		"-r", fmt.Sprintf("%d", fps),
		"-c:v", "libx264",
		"-preset", preset,
		"-crf", "23",
		"-pix_fmt", "yuv420p",
		"-an",
		out,
	}
}

// BlackClipArgs renders a solid black frame for the full target duration
func BlackClipArgs(out string, width, height, fps int, durationSec float64) []string {
	return []string{
		"-y",
		"-f", "lavfi",
		"-i", fmt.Sprintf("color=c=black:s=%dx%d:d=%.3f", width, height, durationSec),
		"-r", fmt.Sprintf("%d", fps),
		"-c:v", "libx264",
		"-pix_fmt", "yuv420p",
		out,
	}
}

// ConcatList builds the ffmpeg concat demuxer list file content
func ConcatList(files []string) string {
	lines := make([]string, len(files))
	for i, f := range files {
		lines[i] = fmt.Sprintf("file '%s'", f)
	}
	return strings.Join(lines, "\n")
}

// ConcatArgs joins pre-normalized clips without re-encoding
func ConcatArgs(listFile, out string) []string {
	return []string{
		"-y",
		"-f", "concat",
		"-safe", "0",
		"-i", listFile,
		"-c", "copy",
		out,
	}
}

// LoopCount returns how many extra -stream_loop iterations are needed for
// totalDur seconds of footage to cover target seconds. Zero means the
// footage already covers the target.
func LoopCount(totalDur, target float64) int {
	if totalDur <= 0 || totalDur >= target {
		return 0
	}
	return int(target/totalDur) + 1
}

// LoopTrimArgs loops the sequence when needed and trims it to exactly
// target seconds
func LoopTrimArgs(in string, loops int, target float64, out string) []string {
	args := []string{"-y"}
	if loops > 0 {
		args = append(args, "-stream_loop", fmt.Sprintf("%d", loops))
	}
	args = append(args,
		"-i", in,
		"-t", fmt.Sprintf("%.3f", target),
		"-c", "copy",
		out,
	)
	return args
}

// FinalArgs composites the base track, subtitle overlays and narration
// into the output MP4 (H.264 + AAC)
func FinalArgs(videoIn, audioIn, vf string, fps int, preset string, target float64, out string) []string {
	args := []string{
		"-y",
		"-i", videoIn,
		"-i", audioIn,
	}
	if vf != "" {
		args = append(args, "-vf", vf)
	}
	args = append(args,
		"-r", fmt.Sprintf("%d", fps),
		"-c:v", "libx264",
		"-preset", preset,
		"-pix_fmt", "yuv420p",
		"-c:a", "aac",
		"-b:a", "192k",
		"-t", fmt.Sprintf("%.3f", target),
		"-movflags", "+faststart",
		out,
	)
	return args
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

package studio

import (
	"strings"
	"testing"
)

func TestLoopCount(t *testing.T) {
	tests := []struct {
		name     string
		totalDur float64
		target   float64
		want     int
	}{
		{"footage covers target", 35, 30, 0},
		{"exact match", 30, 30, 0},
		{"half coverage", 15, 30, 3},
		{"tiny clip", 4, 30, 8},
		{"no footage", 0, 30, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := LoopCount(tt.totalDur, tt.target)
			if got != tt.want {
				t.Errorf("LoopCount(%.0f, %.0f) = %d, want %d", tt.totalDur, tt.target, got, tt.want)
			}
			// Looping must always cover the gap: (loops+1)*totalDur >= target
			if tt.totalDur > 0 && float64(got+1)*tt.totalDur < tt.target {
				t.Errorf("LoopCount(%.0f, %.0f) = %d leaves footage short of target", tt.totalDur, tt.target, got)
			}
		})
	}
}

func TestNormalizeArgs(t *testing.T) {
	args := NormalizeArgs("in.mp4", "out.mp4", 1080, 1920, 24, "ultrafast")
	joined := strings.Join(args, " ")

	for _, want := range []string{
		"-i in.mp4",
		"scale=-2:'if(lt(ih,1920),1920,ih)'",
		"crop=1080:1920",
		"-r 24",
		"-c:v libx264",
		"-an",
	} {
		if !strings.Contains(joined, want) {
			t.Errorf("NormalizeArgs() missing %q, got: %v", want, args)
		}
	}
	if args[len(args)-1] != "out.mp4" {
		t.Errorf("NormalizeArgs() last arg = %q, want out.mp4", args[len(args)-1])
	}
}

func TestBlackClipArgs(t *testing.T) {
	args := BlackClipArgs("black.mp4", 1080, 1920, 24, 30.5)
	joined := strings.Join(args, " ")

	for _, want := range []string{
		"-f lavfi",
		"color=c=black:s=1080x1920:d=30.500",
		"-r 24",
	} {
		if !strings.Contains(joined, want) {
			t.Errorf("BlackClipArgs() missing %q, got: %v", want, args)
		}
	}
}

func TestConcatList(t *testing.T) {
	got := ConcatList([]string{"/tmp/a.mp4", "/tmp/b.mp4"})
	want := "file '/tmp/a.mp4'\nfile '/tmp/b.mp4'"
	if got != want {
		t.Errorf("ConcatList() = %q, want %q", got, want)
	}
}

func TestLoopTrimArgs(t *testing.T) {
	t.Run("with looping", func(t *testing.T) {
		args := LoopTrimArgs("concat.mp4", 3, 30, "base.mp4")
		joined := strings.Join(args, " ")
		for _, want := range []string{"-stream_loop 3", "-t 30.000", "-c copy"} {
			if !strings.Contains(joined, want) {
				t.Errorf("LoopTrimArgs() missing %q, got: %v", want, args)
			}
		}
	})

	t.Run("trim only", func(t *testing.T) {
		args := LoopTrimArgs("concat.mp4", 0, 30, "base.mp4")
		joined := strings.Join(args, " ")
		if strings.Contains(joined, "-stream_loop") {
			t.Errorf("LoopTrimArgs() with 0 loops must not loop, got: %v", args)
		}
		if !strings.Contains(joined, "-t 30.000") {
			t.Errorf("LoopTrimArgs() missing trim, got: %v", args)
		}
	})
}

func TestFinalArgs(t *testing.T) {
	args := FinalArgs("base.mp4", "audio.mp3", "drawtext=text='hi'", 24, "ultrafast", 30.25, "output/Mars_FINAL.mp4")
	joined := strings.Join(args, " ")

	for _, want := range []string{
		"-i base.mp4",
		"-i audio.mp3",
		"-vf drawtext=text='hi'",
		"-r 24",
		"-preset ultrafast",
		"-c:a aac",
		"-t 30.250",
		"-movflags +faststart",
	} {
		if !strings.Contains(joined, want) {
			t.Errorf("FinalArgs() missing %q, got: %v", want, args)
		}
	}
	if args[len(args)-1] != "output/Mars_FINAL.mp4" {
		t.Errorf("FinalArgs() last arg = %q, want output path", args[len(args)-1])
	}

	t.Run("no subtitles omits -vf", func(t *testing.T) {
		args := FinalArgs("base.mp4", "audio.mp3", "", 24, "ultrafast", 30, "out.mp4")
		if strings.Contains(strings.Join(args, " "), "-vf") {
			t.Errorf("FinalArgs() with empty filter must omit -vf, got: %v", args)
		}
	})
}

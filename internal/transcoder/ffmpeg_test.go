package transcoder

import (
	"strings"
	"testing"

	"github.com/Sandeep45-cyber/Youtube-clone/internal/config"
)

func TestArgsScalePreservesAspectRatio(t *testing.T) {
	f := NewFFmpeg(config.TranscodeConfig{
		Preset:       "veryfast",
		CRF:          23,
		AudioCodec:   "aac",
		AudioBitrate: "128k",
	})

	args := f.args("/tmp/in.mp4", 720, "/tmp/out.mp4")
	joined := strings.Join(args, " ")

	for _, want := range []string{
		"-vf scale=-2:720",
		"-c:v libx264",
		"-preset veryfast",
		"-crf 23",
		"-c:a aac",
		"-b:a 128k",
		"-movflags +faststart",
	} {
		if !strings.Contains(joined, want) {
			t.Errorf("args missing %q: %s", want, joined)
		}
	}

	if args[0] != "-y" {
		t.Errorf("first arg = %s, want -y", args[0])
	}
	if args[len(args)-1] != "/tmp/out.mp4" {
		t.Errorf("last arg = %s, want output path", args[len(args)-1])
	}
}

func TestTail(t *testing.T) {
	if got := tail("  short  ", 512); got != "short" {
		t.Errorf("tail = %q, want trimmed input", got)
	}
	long := strings.Repeat("x", 600) + "END"
	got := tail(long, 8)
	if got != "xxxxxEND" {
		t.Errorf("tail = %q, want last 8 bytes", got)
	}
}

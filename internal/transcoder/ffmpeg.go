package transcoder

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/Sandeep45-cyber/Youtube-clone/internal/config"
)

// Engine re-encodes a media file to a fixed vertical resolution. The
// horizontal dimension is computed to preserve the source aspect ratio.
type Engine interface {
	Transcode(ctx context.Context, inputPath string, height int, outputPath string) error
}

// FFmpeg is the ffmpeg-backed Engine. Container and codec choice are
// fixed configuration, not per-job parameters.
type FFmpeg struct {
	cfg config.TranscodeConfig
}

// NewFFmpeg creates a new ffmpeg engine.
func NewFFmpeg(cfg config.TranscodeConfig) *FFmpeg {
	return &FFmpeg{cfg: cfg}
}

// Transcode runs one encode of inputPath at the target height.
func (f *FFmpeg) Transcode(ctx context.Context, inputPath string, height int, outputPath string) error {
	cmd := exec.CommandContext(ctx, f.cfg.FFmpegPath, f.args(inputPath, height, outputPath)...)

	var stderr strings.Builder
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("ffmpeg %dp encode failed: %w: %s", height, err, tail(stderr.String(), 512))
	}
	return nil
}

// args builds the ffmpeg argument list for one rendition. scale=-2
// derives an even width from the target height, preserving aspect
// ratio.
func (f *FFmpeg) args(inputPath string, height int, outputPath string) []string {
	return []string{
		"-y",
		"-i", inputPath,
		"-vf", fmt.Sprintf("scale=-2:%d", height),
		"-c:v", "libx264",
		"-preset", f.cfg.Preset,
		"-crf", strconv.Itoa(f.cfg.CRF),
		"-c:a", f.cfg.AudioCodec,
		"-b:a", f.cfg.AudioBitrate,
		"-movflags", "+faststart",
		outputPath,
	}
}

// tail returns the last n bytes of s, trimmed.
func tail(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}

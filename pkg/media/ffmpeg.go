// Package media wraps the ffmpeg and ffprobe command line tools.
//
// The pipeline shells out for the two jobs Go has no native answer for:
// probing the duration of a merged MP3 and muxing the image slideshow
// with the audio track. Both binaries must be on PATH.
package media

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strconv"
	"strings"
)

// FFmpeg invokes ffmpeg and ffprobe.
type FFmpeg struct {
	// FFmpegBin is the ffmpeg executable. Defaults to "ffmpeg".
	FFmpegBin string

	// FFprobeBin is the ffprobe executable. Defaults to "ffprobe".
	FFprobeBin string

	// RunCommand executes a command and returns its stdout.
	// Overridable for tests; defaults to os/exec.
	RunCommand func(ctx context.Context, name string, args ...string) ([]byte, error)
}

// New creates an FFmpeg wrapper with default binaries.
func New() *FFmpeg {
	return &FFmpeg{
		FFmpegBin:  "ffmpeg",
		FFprobeBin: "ffprobe",
		RunCommand: runCommand,
	}
}

// runCommand executes a command, capturing stderr into the error.
func runCommand(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		return nil, fmt.Errorf("%s: %w: %s", name, err, tail(msg, 400))
	}
	return stdout.Bytes(), nil
}

// tail returns the last n bytes of s. ffmpeg errors bury the useful
// part at the end of a long banner.
func tail(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return "..." + s[len(s)-n:]
}

// Duration probes the duration of a media file in seconds.
func (f *FFmpeg) Duration(ctx context.Context, path string) (float64, error) {
	out, err := f.RunCommand(ctx, f.FFprobeBin,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	)
	if err != nil {
		return 0, fmt.Errorf("probe %s: %w", path, err)
	}

	dur, err := strconv.ParseFloat(strings.TrimSpace(string(out)), 64)
	if err != nil {
		return 0, fmt.Errorf("probe %s: parse duration %q: %w", path, strings.TrimSpace(string(out)), err)
	}
	return dur, nil
}

// Exec runs ffmpeg with the given arguments, overwriting outputs (-y).
func (f *FFmpeg) Exec(ctx context.Context, args ...string) error {
	full := append([]string{"-y"}, args...)
	slog.Debug("media: running ffmpeg", "args", strings.Join(full, " "))
	_, err := f.RunCommand(ctx, f.FFmpegBin, full...)
	return err
}

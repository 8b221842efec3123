package video

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/praven80/doctalk/pkg/media"
	"github.com/praven80/doctalk/pkg/storage"
)

// concatListPath is where the ffmpeg concat script is staged in the
// working store.
const concatListPath = "slideshow.txt"

// Assembler renders a timeline into an MP4 with the episode audio.
type Assembler struct {
	store *storage.Local
	ff    *media.FFmpeg
}

// NewAssembler creates an Assembler over the run's working store.
func NewAssembler(store *storage.Local, ff *media.FFmpeg) *Assembler {
	return &Assembler{store: store, ff: ff}
}

// Assemble muxes the timeline's image sequence with the audio track
// into outPath.
//
// Images are scaled and letterboxed to 1920x1080 preserving aspect
// ratio, rendered at 24fps, and encoded as H.264 with AAC audio. The
// audio track is never looped or extended; the video runs at least as
// long as the audio. A failure here leaves the already-produced audio
// untouched.
func (a *Assembler) Assemble(ctx context.Context, timeline []Entry, audioPath, outPath string) error {
	if len(timeline) == 0 {
		return ErrNoImages
	}

	w, err := a.store.Write(ctx, concatListPath)
	if err != nil {
		return fmt.Errorf("video: stage concat list: %w", err)
	}
	if err := a.writeConcatList(w, timeline); err != nil {
		w.Close()
		return fmt.Errorf("video: stage concat list: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("video: stage concat list: %w", err)
	}

	filter := fmt.Sprintf(
		"scale=%d:%d:force_original_aspect_ratio=decrease,pad=%d:%d:(ow-iw)/2:(oh-ih)/2:color=black,fps=%d,format=yuv420p",
		Width, Height, Width, Height, FrameRate,
	)

	err = a.ff.Exec(ctx,
		"-f", "concat",
		"-safe", "0",
		"-i", a.store.Path(concatListPath),
		"-i", a.store.Path(audioPath),
		"-vf", filter,
		"-c:v", "libx264",
		"-c:a", "aac",
		"-map", "0:v",
		"-map", "1:a",
		a.store.Path(outPath),
	)
	if err != nil {
		return fmt.Errorf("video: encode %s: %w", outPath, err)
	}

	slog.Info("video: assembled slideshow", "entries", len(timeline), "path", outPath)
	return nil
}

// writeConcatList emits the ffmpeg concat demuxer script for the
// timeline. The final image is repeated without a duration so the last
// frame holds through any trailing audio.
func (a *Assembler) writeConcatList(w io.Writer, timeline []Entry) error {
	var b strings.Builder
	for _, e := range timeline {
		fmt.Fprintf(&b, "file '%s'\n", escapeConcatPath(a.store.Path(e.Image)))
		fmt.Fprintf(&b, "duration %.3f\n", e.Duration)
	}
	fmt.Fprintf(&b, "file '%s'\n", escapeConcatPath(a.store.Path(timeline[len(timeline)-1].Image)))

	_, err := io.WriteString(w, b.String())
	return err
}

// escapeConcatPath quotes single quotes for the concat demuxer's
// single-quoted file syntax.
func escapeConcatPath(p string) string {
	return strings.ReplaceAll(p, `'`, `'\''`)
}

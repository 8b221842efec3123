// Package audio assembles per-utterance speech clips into the final
// podcast audio file.
//
// Clips are MP3 frame streams, so merging is a strict in-order append
// with no gap markers or padding between segments. Intermediate clips
// are deleted once the merge attempt finishes, whether it succeeded
// or not.
package audio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"

	"github.com/praven80/doctalk/pkg/media"
	"github.com/praven80/doctalk/pkg/storage"
)

// ErrNoArtifacts is returned when there is nothing to merge, e.g. every
// utterance failed to synthesize.
var ErrNoArtifacts = errors.New("audio: no artifacts to merge")

// Artifact is one synthesized utterance clip in the working store.
type Artifact struct {
	// Index is the utterance sequence index the clip was produced for.
	Index int

	// Path is the clip's location within the working store.
	Path string
}

// FinalAudio is the merged episode audio.
type FinalAudio struct {
	// Path is the merged file's location within the working store.
	Path string

	// Duration is the probed length in seconds.
	Duration float64
}

// Assembler merges utterance clips into one MP3.
type Assembler struct {
	store *storage.Local
	ff    *media.FFmpeg
}

// NewAssembler creates an Assembler over the run's working store.
func NewAssembler(store *storage.Local, ff *media.FFmpeg) *Assembler {
	return &Assembler{store: store, ff: ff}
}

// Merge concatenates artifacts in ascending index order into outPath
// and probes the result's duration.
//
// Artifacts for dropped utterances are simply absent; the remaining
// clips are appended back to back. Every input artifact is deleted
// before Merge returns, regardless of the outcome. An empty artifact
// list yields ErrNoArtifacts and no output file.
func (a *Assembler) Merge(ctx context.Context, artifacts []Artifact, outPath string) (*FinalAudio, error) {
	defer a.cleanup(ctx, artifacts)

	if len(artifacts) == 0 {
		return nil, ErrNoArtifacts
	}

	sorted := make([]Artifact, len(artifacts))
	copy(sorted, artifacts)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Index < sorted[j].Index })

	w, err := a.store.Write(ctx, outPath)
	if err != nil {
		return nil, fmt.Errorf("audio: create %s: %w", outPath, err)
	}

	for _, art := range sorted {
		if err := a.appendClip(ctx, w, art); err != nil {
			w.Close()
			return nil, err
		}
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("audio: close %s: %w", outPath, err)
	}

	dur, err := a.ff.Duration(ctx, a.store.Path(outPath))
	if err != nil {
		return nil, fmt.Errorf("audio: %w", err)
	}

	slog.Info("audio: merged episode", "segments", len(sorted), "path", outPath, "duration_sec", dur)
	return &FinalAudio{Path: outPath, Duration: dur}, nil
}

// appendClip streams one clip onto the merged output.
func (a *Assembler) appendClip(ctx context.Context, w io.Writer, art Artifact) error {
	r, err := a.store.Read(ctx, art.Path)
	if err != nil {
		return fmt.Errorf("audio: open clip %d (%s): %w", art.Index, art.Path, err)
	}
	defer r.Close()

	if _, err := io.Copy(w, r); err != nil {
		return fmt.Errorf("audio: append clip %d (%s): %w", art.Index, art.Path, err)
	}
	return nil
}

// cleanup releases every input artifact's backing file.
func (a *Assembler) cleanup(ctx context.Context, artifacts []Artifact) {
	for _, art := range artifacts {
		if err := a.store.Delete(ctx, art.Path); err != nil {
			slog.Warn("audio: failed to remove clip", "path", art.Path, "err", err)
		}
	}
}

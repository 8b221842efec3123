// Package speech turns normalized script utterances into per-utterance
// MP3 clips.
//
// A [Synthesizer] produces audio for one utterance; the [Driver] walks
// the whole script, resolves voices, and persists one clip per
// utterance into the run's working store. A failed utterance is logged
// and dropped rather than failing the episode.
package speech

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/praven80/doctalk/pkg/audio"
	"github.com/praven80/doctalk/pkg/script"
	"github.com/praven80/doctalk/pkg/storage"
)

// Synthesizer converts one utterance of text into MP3 audio bytes.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string, voice script.VoiceID) ([]byte, error)
}

// SynthesizeFunc is a function that implements the Synthesizer interface.
type SynthesizeFunc func(ctx context.Context, text string, voice script.VoiceID) ([]byte, error)

// Synthesize implements the Synthesizer interface.
func (f SynthesizeFunc) Synthesize(ctx context.Context, text string, voice script.VoiceID) ([]byte, error) {
	return f(ctx, text, voice)
}

// Driver synthesizes every utterance of a script into clip artifacts.
type Driver struct {
	synth  Synthesizer
	store  *storage.Local
	voices *script.VoiceMap
}

// NewDriver creates a Driver that persists clips into store, resolving
// speakers through voices.
func NewDriver(synth Synthesizer, store *storage.Local, voices *script.VoiceMap) *Driver {
	return &Driver{synth: synth, store: store, voices: voices}
}

// SynthesizeAll synthesizes each utterance in order and returns one
// artifact per successful clip.
//
// An utterance whose synthesis or persistence fails is dropped with a
// warning; the surviving artifacts keep their original indices so the
// merge preserves script order. SynthesizeAll only returns an error
// when the context is canceled.
func (d *Driver) SynthesizeAll(ctx context.Context, utterances []script.Utterance) ([]audio.Artifact, error) {
	artifacts := make([]audio.Artifact, 0, len(utterances))
	for _, u := range utterances {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("speech: %w", err)
		}

		voice := d.voices.Resolve(u.Speaker)
		data, err := d.synth.Synthesize(ctx, u.Text, voice)
		if err != nil {
			slog.Warn("speech: utterance synthesis failed, dropping",
				"index", u.Index, "speaker", u.Speaker, "err", err)
			continue
		}

		path := ClipName(u.Speaker, u.Index)
		if err := storage.WriteFile(ctx, d.store, path, data); err != nil {
			slog.Warn("speech: failed to persist clip, dropping",
				"index", u.Index, "path", path, "err", err)
			continue
		}

		slog.Debug("speech: synthesized utterance",
			"index", u.Index, "speaker", u.Speaker, "voice", voice, "bytes", len(data))
		artifacts = append(artifacts, audio.Artifact{Index: u.Index, Path: path})
	}

	slog.Info("speech: synthesis complete",
		"utterances", len(utterances), "clips", len(artifacts), "dropped", len(utterances)-len(artifacts))
	return artifacts, nil
}

// ClipName returns the working-store path for an utterance clip, e.g.
// "output_Speaker_1_0.mp3".
func ClipName(speaker string, index int) string {
	return fmt.Sprintf("output_%s_%d.mp3", strings.ReplaceAll(speaker, " ", "_"), index)
}

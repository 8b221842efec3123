// Package doctalk orchestrates an episode run: script generation or
// intake, voice synthesis, audio assembly, cover image generation, and
// optional slideshow video.
//
// The pipeline is synchronous; one Run produces one episode. Stages
// degrade independently: a dropped utterance or a failed image never
// aborts the run, and a video failure still leaves the finished audio
// behind.
package doctalk

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/praven80/doctalk/pkg/audio"
	"github.com/praven80/doctalk/pkg/bedrock"
	"github.com/praven80/doctalk/pkg/extract"
	"github.com/praven80/doctalk/pkg/imagegen"
	"github.com/praven80/doctalk/pkg/media"
	"github.com/praven80/doctalk/pkg/script"
	"github.com/praven80/doctalk/pkg/speech"
	"github.com/praven80/doctalk/pkg/storage"
	"github.com/praven80/doctalk/pkg/video"
)

// Episode output names in the working store.
const (
	AudioName   = "final_podcast.mp3"
	VideoName   = "final_podcast.mp4"
	imagePrefix = "generated_image_"
)

// ErrNoScript reports a script-source run with no script text.
var ErrNoScript = errors.New("doctalk: no script provided")

// ScriptGenerator produces a podcast script from a prompt and optional
// source document. The bedrock ScriptService satisfies this interface.
type ScriptGenerator interface {
	Generate(ctx context.Context, req *bedrock.ScriptRequest) (string, error)
}

// ImageGenerator produces one cover image for a prompt. The imagegen
// Driver satisfies this interface.
type ImageGenerator interface {
	Generate(ctx context.Context, prompt string) (*imagegen.Image, error)
}

// Request describes one episode run.
type Request struct {
	// Session carries the run identity, source, and media mode.
	Session *Session

	// Script is the pre-written script text for SourceScript runs.
	Script string

	// Document is the extracted source document for SourceDocument
	// runs.
	Document *extract.Document

	// URL and Article describe the source page for SourceURL runs.
	URL     string
	Article *extract.Article

	// UserPrompt optionally customizes the episode.
	UserPrompt string

	// Images is the slideshow image count for video runs; zero means
	// one.
	Images int
}

// GeneratedImage is one produced cover image.
type GeneratedImage struct {
	// Path is the image's location within the working store.
	Path string

	// Fallback reports whether this is the safe fallback image.
	Fallback bool
}

// Episode is the result of a run.
type Episode struct {
	// Title is the extracted episode title, empty when none was found.
	Title string

	// Script is the full script text the episode was produced from.
	Script string

	// Utterances is the normalized dialogue.
	Utterances []script.Utterance

	// Clips is the number of utterances that synthesized successfully.
	Clips int

	// Audio is the merged episode audio.
	Audio *audio.FinalAudio

	// Images are the generated cover images.
	Images []GeneratedImage

	// VideoPath is the rendered slideshow's location within the
	// working store; empty when no video was produced.
	VideoPath string

	// VideoErr records a video-stage failure. The episode audio is
	// still valid when it is set.
	VideoErr error
}

// Pipeline runs episodes.
type Pipeline struct {
	scripts   ScriptGenerator
	images    ImageGenerator
	store     *storage.Local
	synth     *speech.Driver
	merger    *audio.Assembler
	slideshow *video.Assembler
	publisher storage.FileStore
	voices    *script.VoiceMap
	rng       *rand.Rand
}

// PipelineOption is an option for configuring the Pipeline.
type PipelineOption func(*Pipeline)

// WithPublisher copies finished outputs to store after a successful
// run, typically an S3 store.
func WithPublisher(store storage.FileStore) PipelineOption {
	return func(p *Pipeline) {
		p.publisher = store
	}
}

// WithPipelineRand sets the random source used for timeline durations.
func WithPipelineRand(rng *rand.Rand) PipelineOption {
	return func(p *Pipeline) {
		p.rng = rng
	}
}

// WithVoices overrides the speaker-to-voice mapping.
func WithVoices(voices *script.VoiceMap) PipelineOption {
	return func(p *Pipeline) {
		p.voices = voices
	}
}

// NewPipeline assembles a Pipeline over the run's working store.
func NewPipeline(scripts ScriptGenerator, images ImageGenerator, synth speech.Synthesizer, store *storage.Local, ff *media.FFmpeg, opts ...PipelineOption) *Pipeline {
	p := &Pipeline{
		scripts:   scripts,
		images:    images,
		store:     store,
		merger:    audio.NewAssembler(store, ff),
		slideshow: video.NewAssembler(store, ff),
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
		voices:    script.NewVoiceMap(script.VoiceHostA, script.VoiceHostB),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.synth = speech.NewDriver(synth, store, p.voices)
	return p
}

// Run produces one episode.
//
// The script is generated or taken verbatim depending on the session
// source, normalized into utterances, synthesized clip by clip, and
// merged. Audio runs generate one cover image; video runs generate the
// requested count, schedule them on a timeline, and mux the slideshow.
// A video-stage failure is recorded on the episode instead of failing
// the run.
func (p *Pipeline) Run(ctx context.Context, req *Request) (*Episode, error) {
	text, err := p.scriptText(ctx, req)
	if err != nil {
		return nil, err
	}

	ep := &Episode{
		Title:  script.ExtractTitle(text),
		Script: text,
	}
	slog.Info("doctalk: episode script ready", "run", req.Session.ID, "title", ep.Title)

	ep.Utterances, err = script.Parse(text)
	if err != nil {
		return nil, fmt.Errorf("doctalk: %w", err)
	}

	artifacts, err := p.synth.SynthesizeAll(ctx, ep.Utterances)
	if err != nil {
		return nil, err
	}
	ep.Clips = len(artifacts)

	ep.Audio, err = p.merger.Merge(ctx, artifacts, AudioName)
	if err != nil {
		return nil, err
	}

	ep.Images = p.generateImages(ctx, ep.Title, imageCount(req))

	if req.Session.Media == MediaVideo {
		ep.VideoPath, ep.VideoErr = p.renderVideo(ctx, ep)
		if ep.VideoErr != nil {
			slog.Warn("doctalk: video stage failed, audio preserved", "run", req.Session.ID, "err", ep.VideoErr)
		}
	}

	p.publish(ctx, ep)
	return ep, nil
}

// scriptText resolves the episode script for the request's source.
func (p *Pipeline) scriptText(ctx context.Context, req *Request) (string, error) {
	req.Session.AddPrompt(req.UserPrompt)

	switch req.Session.Source {
	case SourceScript:
		if req.Script == "" {
			return "", ErrNoScript
		}
		return req.Script, nil

	case SourceDocument:
		if req.Document == nil {
			return "", fmt.Errorf("doctalk: document source without a document")
		}
		return p.scripts.Generate(ctx, &bedrock.ScriptRequest{
			Prompt: ScriptPrompt(SourceDocument, "", "", req.UserPrompt),
			Document: &bedrock.Document{
				Name:   req.Document.Name,
				Format: req.Document.Format,
				Data:   req.Document.Data,
			},
		})

	case SourceURL:
		var articleText string
		if req.Article != nil {
			articleText = req.Article.Text
		}
		return p.scripts.Generate(ctx, &bedrock.ScriptRequest{
			Prompt: ScriptPrompt(SourceURL, req.URL, articleText, req.UserPrompt),
		})

	default:
		return "", fmt.Errorf("doctalk: unknown source %q", req.Session.Source)
	}
}

// imageCount is 1 for audio runs; video runs may request more.
func imageCount(req *Request) int {
	if req.Session.Media == MediaVideo && req.Images > 0 {
		return req.Images
	}
	return 1
}

// generateImages produces up to n cover images. A failed image is
// logged and skipped; the fallback behavior inside the driver already
// absorbs non-throttle errors.
func (p *Pipeline) generateImages(ctx context.Context, title string, n int) []GeneratedImage {
	prompt := ImagePrompt(title)

	var out []GeneratedImage
	for i := 0; i < n; i++ {
		img, err := p.images.Generate(ctx, prompt)
		if err != nil {
			slog.Warn("doctalk: image generation failed", "index", i, "err", err)
			continue
		}

		path := fmt.Sprintf("%s%d.png", imagePrefix, i)
		if err := storage.WriteFile(ctx, p.store, path, img.Data); err != nil {
			slog.Warn("doctalk: failed to persist image", "path", path, "err", err)
			continue
		}
		out = append(out, GeneratedImage{Path: path, Fallback: img.Fallback})
	}
	return out
}

// renderVideo schedules the images over the audio and muxes the
// slideshow.
func (p *Pipeline) renderVideo(ctx context.Context, ep *Episode) (string, error) {
	images := make([]string, len(ep.Images))
	for i, img := range ep.Images {
		images[i] = img.Path
	}

	timeline, err := video.BuildTimeline(images, ep.Audio.Duration, p.rng)
	if err != nil {
		return "", err
	}
	if err := p.slideshow.Assemble(ctx, timeline, ep.Audio.Path, VideoName); err != nil {
		return "", err
	}
	return VideoName, nil
}

// publish copies finished outputs to the configured publisher. Publish
// failures are logged, never fatal.
func (p *Pipeline) publish(ctx context.Context, ep *Episode) {
	if p.publisher == nil {
		return
	}

	paths := []string{ep.Audio.Path}
	for _, img := range ep.Images {
		paths = append(paths, img.Path)
	}
	if ep.VideoPath != "" {
		paths = append(paths, ep.VideoPath)
	}

	for _, path := range paths {
		if err := storage.Copy(ctx, p.publisher, p.store, path); err != nil {
			slog.Warn("doctalk: publish failed", "path", path, "err", err)
			continue
		}
		slog.Info("doctalk: published output", "path", path)
	}
}

package speech

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/polly"
	"github.com/aws/aws-sdk-go-v2/service/polly/types"

	"github.com/praven80/doctalk/pkg/script"
)

// PollyAPI abstracts the Polly operation used by [PollySynthesizer].
// The [polly.Client] type satisfies this interface.
type PollyAPI interface {
	SynthesizeSpeech(ctx context.Context, params *polly.SynthesizeSpeechInput, optFns ...func(*polly.Options)) (*polly.SynthesizeSpeechOutput, error)
}

// PollySynthesizer implements [Synthesizer] using Amazon Polly
// generative voices.
type PollySynthesizer struct {
	api      PollyAPI
	engine   types.Engine
	language types.LanguageCode
}

var _ Synthesizer = (*PollySynthesizer)(nil)

// PollyOption is an option for configuring the PollySynthesizer.
type PollyOption func(*PollySynthesizer)

// WithPollyEngine overrides the synthesis engine.
func WithPollyEngine(engine types.Engine) PollyOption {
	return func(s *PollySynthesizer) {
		s.engine = engine
	}
}

// WithPollyLanguage overrides the language code.
func WithPollyLanguage(code types.LanguageCode) PollyOption {
	return func(s *PollySynthesizer) {
		s.language = code
	}
}

// NewPollySynthesizer creates a Polly-backed synthesizer.
//
// Example:
//
//	awsCfg, _ := config.LoadDefaultConfig(ctx)
//	synth := speech.NewPollySynthesizer(polly.NewFromConfig(awsCfg))
func NewPollySynthesizer(api PollyAPI, opts ...PollyOption) *PollySynthesizer {
	s := &PollySynthesizer{
		api:      api,
		engine:   types.EngineGenerative,
		language: types.LanguageCodeEnUs,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Synthesize returns the MP3 audio for one utterance.
func (s *PollySynthesizer) Synthesize(ctx context.Context, text string, voice script.VoiceID) ([]byte, error) {
	slog.Debug("speech: polly synthesize", "voice", voice, "text_len", len(text))

	out, err := s.api.SynthesizeSpeech(ctx, &polly.SynthesizeSpeechInput{
		Engine:       s.engine,
		LanguageCode: s.language,
		OutputFormat: types.OutputFormatMp3,
		Text:         aws.String(text),
		TextType:     types.TextTypeText,
		VoiceId:      types.VoiceId(voice),
	})
	if err != nil {
		return nil, fmt.Errorf("speech: polly synthesize: %w", err)
	}
	defer out.AudioStream.Close()

	data, err := io.ReadAll(out.AudioStream)
	if err != nil {
		return nil, fmt.Errorf("speech: polly read audio stream: %w", err)
	}
	return data, nil
}

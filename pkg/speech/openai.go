package speech

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/praven80/doctalk/pkg/script"
)

// openAIDefaultModel is the default OpenAI speech model.
const openAIDefaultModel = openai.SpeechModelTTS1

// openAIVoices maps podcast voices onto OpenAI TTS voices. Unmapped
// voices fall back to alloy.
var openAIVoices = map[script.VoiceID]openai.AudioSpeechNewParamsVoice{
	script.VoiceHostA: openai.AudioSpeechNewParamsVoice("nova"),
	script.VoiceHostB: openai.AudioSpeechNewParamsVoice("onyx"),
}

// OpenAISynthesizer implements [Synthesizer] using the OpenAI speech
// API.
//
// This can also be used with any OpenAI-compatible provider by setting
// WithOpenAIBaseURL.
type OpenAISynthesizer struct {
	client *openai.Client
	model  openai.SpeechModel
}

var _ Synthesizer = (*OpenAISynthesizer)(nil)

// openAIConfig holds the synthesizer configuration.
type openAIConfig struct {
	model      openai.SpeechModel
	baseURL    string
	httpClient *http.Client
}

// OpenAIOption is an option for configuring the OpenAISynthesizer.
type OpenAIOption func(*openAIConfig)

// WithOpenAIModel overrides the speech model.
func WithOpenAIModel(model openai.SpeechModel) OpenAIOption {
	return func(c *openAIConfig) {
		c.model = model
	}
}

// WithOpenAIBaseURL sets a custom API endpoint.
func WithOpenAIBaseURL(baseURL string) OpenAIOption {
	return func(c *openAIConfig) {
		c.baseURL = baseURL
	}
}

// WithOpenAIHTTPClient sets a custom HTTP client.
func WithOpenAIHTTPClient(hc *http.Client) OpenAIOption {
	return func(c *openAIConfig) {
		c.httpClient = hc
	}
}

// NewOpenAISynthesizer creates an OpenAI-backed synthesizer.
func NewOpenAISynthesizer(apiKey string, opts ...OpenAIOption) *OpenAISynthesizer {
	cfg := openAIConfig{
		model:      openAIDefaultModel,
		httpClient: http.DefaultClient,
	}
	for _, o := range opts {
		o(&cfg)
	}

	clientOpts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithHTTPClient(cfg.httpClient),
	}
	if cfg.baseURL != "" {
		clientOpts = append(clientOpts, option.WithBaseURL(cfg.baseURL))
	}
	client := openai.NewClient(clientOpts...)

	return &OpenAISynthesizer{
		client: &client,
		model:  cfg.model,
	}
}

// Synthesize returns the MP3 audio for one utterance.
func (s *OpenAISynthesizer) Synthesize(ctx context.Context, text string, voice script.VoiceID) ([]byte, error) {
	v, ok := openAIVoices[voice]
	if !ok {
		v = openai.AudioSpeechNewParamsVoiceAlloy
	}

	slog.Debug("speech: openai synthesize", "voice", v, "text_len", len(text))

	res, err := s.client.Audio.Speech.New(ctx, openai.AudioSpeechNewParams{
		Model:          s.model,
		Input:          text,
		Voice:          v,
		ResponseFormat: openai.AudioSpeechNewParamsResponseFormatMP3,
	})
	if err != nil {
		return nil, fmt.Errorf("speech: openai synthesize: %w", err)
	}
	defer res.Body.Close()

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("speech: openai read audio: %w", err)
	}
	return data, nil
}

// Package bedrock wraps the two Amazon Bedrock models DocTalk uses:
// a text model that writes the podcast script and the Nova Canvas
// image model that illustrates it.
//
// The caller supplies a configured [bedrockruntime.Client]; this
// package only shapes requests, classifies errors, and decodes
// responses.
package bedrock

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
)

const (
	// DefaultScriptModel is the default script generation model.
	DefaultScriptModel = "us.amazon.nova-lite-v1:0"

	// DefaultImageModel is the image generation model.
	DefaultImageModel = "amazon.nova-canvas-v1:0"
)

// API abstracts the Bedrock runtime operations used by [Client].
// The [bedrockruntime.Client] type satisfies this interface.
type API interface {
	Converse(ctx context.Context, params *bedrockruntime.ConverseInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.ConverseOutput, error)
	InvokeModel(ctx context.Context, params *bedrockruntime.InvokeModelInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error)
}

// Client is the Bedrock model client.
type Client struct {
	// Script provides podcast script generation.
	Script *ScriptService

	// Image provides cover image generation.
	Image *ImageService

	config *clientConfig
	api    API
}

// clientConfig holds the client configuration.
type clientConfig struct {
	scriptModel string
	imageModel  string
}

// Option is a function that configures the client.
type Option func(*clientConfig)

// WithScriptModel overrides the script generation model.
func WithScriptModel(modelID string) Option {
	return func(c *clientConfig) {
		c.scriptModel = modelID
	}
}

// WithImageModel overrides the image generation model.
func WithImageModel(modelID string) Option {
	return func(c *clientConfig) {
		c.imageModel = modelID
	}
}

// NewClient creates a Bedrock model client on top of api.
//
// Example:
//
//	awsCfg, _ := config.LoadDefaultConfig(ctx)
//	client := bedrock.NewClient(bedrockruntime.NewFromConfig(awsCfg))
func NewClient(api API, opts ...Option) *Client {
	cfg := &clientConfig{
		scriptModel: DefaultScriptModel,
		imageModel:  DefaultImageModel,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	c := &Client{config: cfg, api: api}
	c.Script = &ScriptService{client: c}
	c.Image = &ImageService{client: c}
	return c
}

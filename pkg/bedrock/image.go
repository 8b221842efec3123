package bedrock

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
)

// Image generation parameters for Nova Canvas.
const (
	imageWidth  = 1024
	imageHeight = 1024
	imageCFG    = 8.0
)

// ImageService generates cover images via Nova Canvas text-to-image.
type ImageService struct {
	client *Client
}

// novaCanvasRequest is the Nova Canvas invocation body.
type novaCanvasRequest struct {
	TaskType          string            `json:"taskType"`
	TextToImageParams textToImageParams `json:"textToImageParams"`
	ImageGenConfig    imageGenConfig    `json:"imageGenerationConfig"`
}

type textToImageParams struct {
	Text string `json:"text"`
}

type imageGenConfig struct {
	NumberOfImages int     `json:"numberOfImages"`
	Height         int     `json:"height"`
	Width          int     `json:"width"`
	CFGScale       float64 `json:"cfgScale"`
	Seed           int64   `json:"seed"`
}

// novaCanvasResponse is the Nova Canvas invocation response.
type novaCanvasResponse struct {
	Images []string `json:"images"`
	Error  string   `json:"error"`
}

// Generate produces one 1024x1024 image for the prompt and seed,
// returning decoded image bytes.
//
// Generate satisfies the image driver's Generator interface; throttle
// classification happens through the returned *Error.
func (s *ImageService) Generate(ctx context.Context, prompt string, seed int64) ([]byte, error) {
	body, err := json.Marshal(novaCanvasRequest{
		TaskType:          "TEXT_IMAGE",
		TextToImageParams: textToImageParams{Text: prompt},
		ImageGenConfig: imageGenConfig{
			NumberOfImages: 1,
			Height:         imageHeight,
			Width:          imageWidth,
			CFGScale:       imageCFG,
			Seed:           seed,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("bedrock: marshal image request: %w", err)
	}

	slog.Debug("bedrock: generating image", "model", s.client.config.imageModel, "seed", seed)

	out, err := s.client.api.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(s.client.config.imageModel),
		Body:        body,
		ContentType: aws.String("application/json"),
		Accept:      aws.String("application/json"),
	})
	if err != nil {
		return nil, wrapErr("invoke model", err)
	}

	var resp novaCanvasResponse
	if err := json.Unmarshal(out.Body, &resp); err != nil {
		return nil, fmt.Errorf("bedrock: unmarshal image response: %w", err)
	}
	if resp.Error != "" {
		return nil, &Error{Op: "invoke model", Code: "ImageGenerationError", Message: resp.Error}
	}
	if len(resp.Images) == 0 {
		return nil, fmt.Errorf("bedrock: image response contains no images")
	}

	img, err := base64.StdEncoding.DecodeString(resp.Images[0])
	if err != nil {
		return nil, fmt.Errorf("bedrock: decode image: %w", err)
	}
	return img, nil
}

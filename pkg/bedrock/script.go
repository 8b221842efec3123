package bedrock

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"
)

// ScriptService generates podcast scripts via the Bedrock Converse API.
type ScriptService struct {
	client *Client
}

// Document is an optional source document attached to a script request.
type Document struct {
	// Name is the document name without extension.
	Name string

	// Format is the document format: "pdf", "docx", or "txt".
	Format string

	// Data is the raw document bytes.
	Data []byte
}

// ScriptRequest is a script generation request.
type ScriptRequest struct {
	// Prompt is the full instruction prompt.
	Prompt string

	// Document optionally supplies the source document inline; nil for
	// URL and existing-script sources where the content is already in
	// the prompt.
	Document *Document
}

// Generate asks the text model for a script and returns the raw
// response text, which contains a "Title: ..." line followed by the
// dialogue.
func (s *ScriptService) Generate(ctx context.Context, req *ScriptRequest) (string, error) {
	content := make([]types.ContentBlock, 0, 2)
	if req.Document != nil {
		content = append(content, &types.ContentBlockMemberDocument{
			Value: types.DocumentBlock{
				Name:   aws.String(req.Document.Name),
				Format: types.DocumentFormat(strings.ToLower(req.Document.Format)),
				Source: &types.DocumentSourceMemberBytes{Value: req.Document.Data},
			},
		})
	}
	content = append(content, &types.ContentBlockMemberText{Value: req.Prompt})

	slog.Debug("bedrock: generating script", "model", s.client.config.scriptModel,
		"prompt_len", len(req.Prompt), "has_document", req.Document != nil)

	out, err := s.client.api.Converse(ctx, &bedrockruntime.ConverseInput{
		ModelId: aws.String(s.client.config.scriptModel),
		Messages: []types.Message{{
			Role:    types.ConversationRoleUser,
			Content: content,
		}},
	})
	if err != nil {
		return "", wrapErr("converse", err)
	}

	return extractText(out)
}

// extractText pulls the assistant text out of a Converse response.
func extractText(out *bedrockruntime.ConverseOutput) (string, error) {
	msg, ok := out.Output.(*types.ConverseOutputMemberMessage)
	if !ok {
		return "", fmt.Errorf("bedrock: converse: unexpected output type %T", out.Output)
	}

	var b strings.Builder
	for _, block := range msg.Value.Content {
		if text, ok := block.(*types.ContentBlockMemberText); ok {
			b.WriteString(text.Value)
		}
	}
	if b.Len() == 0 {
		return "", fmt.Errorf("bedrock: converse: response contains no text")
	}
	return b.String(), nil
}

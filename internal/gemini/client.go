// Package gemini wraps the google genai client behind the narrow surface
// the rest of the service needs: plain text generation, scratch-file
// upload, and a single-turn conversation carrying an uploaded file.
package gemini

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"daliago/internal/apperr"
	"daliago/internal/models"
)

// Client holds a configured genai client and the generation parameters
// applied to every call.
type Client struct {
	inner  *genai.Client
	model  string
	genCfg *genai.GenerateContentConfig
}

// NewClient constructs the client for the Gemini API backend.
func NewClient(ctx context.Context, apiKey, model string) (*Client, error) {
	inner, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &Client{
		inner: inner,
		model: model,
		genCfg: &genai.GenerateContentConfig{
			Temperature:      genai.Ptr[float32](2),
			TopP:             genai.Ptr[float32](0.95),
			TopK:             genai.Ptr[float32](40),
			MaxOutputTokens:  8192,
			ResponseMIMEType: "text/plain",
		},
	}, nil
}

// GenerateText sends a single prompt and returns the reply text.
func (c *Client) GenerateText(ctx context.Context, prompt string) (string, error) {
	resp, err := c.inner.Models.GenerateContent(ctx, c.model, genai.Text(prompt), c.genCfg)
	if err != nil {
		return "", apperr.Wrap(apperr.KindGeneration, "generate content", err)
	}
	return resp.Text(), nil
}

// GenerateWithFile opens a conversation whose first turn carries the
// uploaded file plus the opening instruction, then sends the question.
func (c *Client) GenerateWithFile(ctx context.Context, handle models.FileHandle, opening, question string) (string, error) {
	history := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromURI(handle.URI, handle.MIMEType),
			genai.NewPartFromText(opening),
		}, genai.RoleUser),
	}
	chat, err := c.inner.Chats.Create(ctx, c.model, c.genCfg, history)
	if err != nil {
		return "", apperr.Wrap(apperr.KindGeneration, "start chat", err)
	}
	resp, err := chat.SendMessage(ctx, genai.Part{Text: question})
	if err != nil {
		return "", apperr.Wrap(apperr.KindGeneration, "send message", err)
	}
	return resp.Text(), nil
}

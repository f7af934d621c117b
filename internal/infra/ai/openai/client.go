package openai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"

	domain "github.com/safetylens/safetylens/internal/domain/analysis"
	"github.com/safetylens/safetylens/internal/infra/ai/prompt"
)

const (
	maxTokens = 1000
	// Low temperature for consistent analysis
	temperature = 0.1
)

type Client struct {
	*openai.Client
	Model string
}

func NewClient(apiKey, model string) *Client {
	return &Client{Client: openai.NewClient(apiKey), Model: model}
}

// Analyze sends the safety prompt plus one image part to the vision model
// and returns the raw text of the completion. Provider failures come back
// as domain sentinels so the HTTP layer can map them to status codes.
func (c *Client) Analyze(ctx context.Context, imageDataURI string) (string, error) {
	model := c.Model
	if model == "" {
		model = openai.GPT4o
	}
	req := openai.ChatCompletionRequest{
		Model:       model,
		MaxTokens:   maxTokens,
		Temperature: temperature,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{
						Type: openai.ChatMessagePartTypeText,
						Text: prompt.GetSafetyPrompt(),
					},
					{
						Type: openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{
							URL:    imageDataURI,
							Detail: openai.ImageURLDetailHigh,
						},
					},
				},
			},
		},
	}

	resp, err := c.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", classifyProviderError(err)
	}

	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return "", domain.ErrEmptyModelResponse
	}
	return resp.Choices[0].Message.Content, nil
}

// classifyProviderError discriminates provider failures, preferring the
// SDK's typed error over message sniffing. The substring fallback keeps the
// exact phrases the upstream provider uses for unstructured errors.
func classifyProviderError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.HTTPStatusCode {
		case 401:
			return fmt.Errorf("%w: %v", domain.ErrInvalidAPIKey, err)
		case 429:
			return fmt.Errorf("%w: %v", domain.ErrQuotaExceeded, err)
		}
	}
	msg := err.Error()
	if strings.Contains(msg, "API key") {
		return fmt.Errorf("%w: %v", domain.ErrInvalidAPIKey, err)
	}
	if strings.Contains(msg, "quota") {
		return fmt.Errorf("%w: %v", domain.ErrQuotaExceeded, err)
	}
	return fmt.Errorf("failed to create chat completion: %w", err)
}

package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// OpenAIClient is an alternative provider for deployments without a local
// Ollama instance. It speaks the Chat Completions API.
type OpenAIClient struct {
	client *openai.Client
}

const (
	defaultChatTimeout     = 30 * time.Second
	defaultChatTemperature = 0.2
)

// NewOpenAIClient builds a client with defaults against api.openai.com.
func NewOpenAIClient(apiKey string) (*OpenAIClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("api key required")
	}
	cli := openai.NewClient(option.WithAPIKey(apiKey))
	return &OpenAIClient{client: &cli}, nil
}

func (c *OpenAIClient) Generate(ctx context.Context, model, prompt string) (string, error) {
	if c == nil || c.client == nil {
		return "", fmt.Errorf("nil openai client")
	}
	reqCtx, cancel := context.WithTimeout(ctx, defaultChatTimeout)
	defer cancel()
	resp, err := c.client.Chat.Completions.New(reqCtx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			{
				OfUser: &openai.ChatCompletionUserMessageParam{
					Content: openai.ChatCompletionUserMessageParamContentUnion{
						OfString: openai.String(prompt),
					},
				},
			},
		},
		Temperature: openai.Float(defaultChatTemperature),
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("openai: no choices returned")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// CheckModel lists the account's models and matches the wanted identifier as
// a case-insensitive substring, mirroring the Ollama probe contract.
func (c *OpenAIClient) CheckModel(ctx context.Context, model string) error {
	if c == nil || c.client == nil {
		return fmt.Errorf("nil openai client")
	}
	reqCtx, cancel := context.WithTimeout(ctx, defaultChatTimeout)
	defer cancel()
	page, err := c.client.Models.List(reqCtx)
	if err != nil {
		return fmt.Errorf("openai: list models: %w", err)
	}
	want := strings.ToLower(model)
	for page != nil {
		for _, m := range page.Data {
			if strings.Contains(strings.ToLower(m.ID), want) {
				return nil
			}
		}
		page, err = page.GetNextPage()
		if err != nil {
			return fmt.Errorf("openai: list models: %w", err)
		}
	}
	return &ModelMissingError{Model: model}
}

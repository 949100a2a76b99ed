// Package google implements pal.ModelProvider over the Gemini API.
package google

import (
	"context"
	"fmt"

	pal "github.com/agenticpal/pal"
	"google.golang.org/genai"
)

// DefaultModel is used when no model is configured or requested.
const DefaultModel = "gemini-2.0-flash"

// Client wraps the Google GenAI SDK to implement pal.ModelProvider.
type Client struct {
	client *genai.Client
	model  string
}

// New creates a new Gemini client with the given API key.
func New(ctx context.Context, apiKey string, opts ...ClientOption) (*Client, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}
	c := &Client{
		client: client,
		model:  DefaultModel,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// ClientOption configures the Google client.
type ClientOption func(*Client)

// WithModel sets the default model for requests.
func WithModel(model string) ClientOption {
	return func(c *Client) {
		c.model = model
	}
}

func (c *Client) buildRequest(messages []pal.Message, options *pal.Options) (string, []*genai.Content, *genai.GenerateContentConfig) {
	model := c.model
	if options.Model != "" {
		model = options.Model
	}

	contents, system := convertMessages(messages)
	config := &genai.GenerateContentConfig{}
	if system != "" {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: system}},
		}
	}
	if options.MaxTokens > 0 {
		config.MaxOutputTokens = int32(options.MaxTokens)
	}
	if options.Temperature != nil {
		temp := float32(*options.Temperature)
		config.Temperature = &temp
	}
	if len(options.Tools) > 0 {
		config.Tools = convertTools(options.Tools)
		if options.ToolChoice != "" {
			config.ToolConfig = convertToolChoice(options.ToolChoice)
		}
	}
	return model, contents, config
}

// Chat sends a conversation and returns a complete response.
func (c *Client) Chat(ctx context.Context, messages []pal.Message, opts ...pal.Option) (*pal.Response, error) {
	options := pal.ApplyOptions(opts...)
	model, contents, config := c.buildRequest(messages, options)

	resp, err := c.client.Models.GenerateContent(ctx, model, contents, config)
	if err != nil {
		return nil, wrapError(err)
	}

	content := ""
	var toolCalls []pal.ToolCall
	finishReason := ""
	if len(resp.Candidates) > 0 {
		finishReason = string(resp.Candidates[0].FinishReason)
		if resp.Candidates[0].Content != nil {
			for _, part := range resp.Candidates[0].Content.Parts {
				if part.Text != "" {
					content += part.Text
				}
			}
			toolCalls = extractToolCalls(resp.Candidates[0].Content.Parts)
		}
	}

	usage := pal.Usage{}
	if resp.UsageMetadata != nil {
		usage.InputTokens = int(resp.UsageMetadata.PromptTokenCount)
		usage.OutputTokens = int(resp.UsageMetadata.CandidatesTokenCount)
	}

	return &pal.Response{
		Content:      content,
		FinishReason: finishReason,
		Usage:        usage,
		ToolCalls:    toolCalls,
	}, nil
}

// ChatStream sends a conversation and returns a channel of streaming events.
func (c *Client) ChatStream(ctx context.Context, messages []pal.Message, opts ...pal.Option) (<-chan pal.StreamEvent, error) {
	options := pal.ApplyOptions(opts...)
	model, contents, config := c.buildRequest(messages, options)

	ch := make(chan pal.StreamEvent)

	go func() {
		defer close(ch)

		var fullContent string
		var finishReason string
		var usage pal.Usage
		var allParts []*genai.Part
		var iterCount int

		for resp, err := range c.client.Models.GenerateContentStream(ctx, model, contents, config) {
			iterCount++
			if err != nil {
				ch <- pal.StreamEvent{Err: wrapError(err)}
				return
			}

			if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
				ch <- pal.StreamEvent{
					Err: &BlockedError{Reason: string(resp.PromptFeedback.BlockReason)},
				}
				return
			}

			if len(resp.Candidates) > 0 && resp.Candidates[0].Content != nil {
				for _, part := range resp.Candidates[0].Content.Parts {
					allParts = append(allParts, part)
					if part.Text != "" {
						ch <- pal.StreamEvent{Delta: part.Text}
						fullContent += part.Text
					}
				}
				finishReason = string(resp.Candidates[0].FinishReason)
			}

			if resp.UsageMetadata != nil {
				usage.InputTokens = int(resp.UsageMetadata.PromptTokenCount)
				usage.OutputTokens = int(resp.UsageMetadata.CandidatesTokenCount)
			}
		}

		if iterCount == 0 {
			ch <- pal.StreamEvent{Err: fmt.Errorf("stream returned no data")}
			return
		}

		ch <- pal.StreamEvent{
			Done: true,
			Response: &pal.Response{
				Content:      fullContent,
				FinishReason: finishReason,
				Usage:        usage,
				ToolCalls:    extractToolCalls(allParts),
			},
		}
	}()

	return ch, nil
}

var _ pal.ModelProvider = (*Client)(nil)

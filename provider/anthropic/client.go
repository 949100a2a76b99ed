// Package anthropic implements pal.ModelProvider over the Anthropic
// Messages API.
package anthropic

import (
	"context"

	pal "github.com/agenticpal/pal"
	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// DefaultModel is used when no model is configured or requested.
const DefaultModel = "claude-sonnet-4-5"

// Client wraps the Anthropic SDK to implement pal.ModelProvider.
type Client struct {
	client *anthropic.Client
	model  string
}

// New creates a new Anthropic client with the given API key.
func New(apiKey string, opts ...ClientOption) *Client {
	client := anthropic.NewClient(option.WithAPIKey(apiKey))
	c := &Client{
		client: &client,
		model:  DefaultModel,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ClientOption configures the Anthropic client.
type ClientOption func(*Client)

// WithModel sets the default model for requests.
func WithModel(model string) ClientOption {
	return func(c *Client) {
		c.model = model
	}
}

func (c *Client) buildParams(messages []pal.Message, options *pal.Options) anthropic.MessageNewParams {
	model := c.model
	if options.Model != "" {
		model = options.Model
	}

	maxTokens := int64(4096)
	if options.MaxTokens > 0 {
		maxTokens = int64(options.MaxTokens)
	}

	msgs, system := convertMessages(messages)
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(model),
		MaxTokens: maxTokens,
		Messages:  msgs,
	}
	if len(system) > 0 {
		params.System = system
	}
	if options.Temperature != nil {
		params.Temperature = anthropic.Float(*options.Temperature)
	}
	if len(options.Tools) > 0 {
		params.Tools = convertTools(options.Tools)
		if options.ToolChoice != "" && options.ToolChoice != pal.ToolChoiceNone {
			params.ToolChoice = convertToolChoice(options.ToolChoice)
		}
	}
	return params
}

// Chat sends a conversation and returns a complete response.
func (c *Client) Chat(ctx context.Context, messages []pal.Message, opts ...pal.Option) (*pal.Response, error) {
	options := pal.ApplyOptions(opts...)
	params := c.buildParams(messages, options)

	resp, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return nil, wrapError(err)
	}

	content := ""
	var toolCalls []pal.ToolCall
	for _, block := range resp.Content {
		switch block.Type {
		case "text":
			content += block.Text
		case "tool_use":
			toolCalls = append(toolCalls, pal.ToolCall{
				ID:        block.ID,
				Name:      block.Name,
				Arguments: string(block.Input),
			})
		}
	}

	return &pal.Response{
		Content:      content,
		FinishReason: string(resp.StopReason),
		Usage: pal.Usage{
			InputTokens:  int(resp.Usage.InputTokens),
			OutputTokens: int(resp.Usage.OutputTokens),
		},
		ToolCalls: toolCalls,
	}, nil
}

// ChatStream sends a conversation and returns a channel of streaming events.
func (c *Client) ChatStream(ctx context.Context, messages []pal.Message, opts ...pal.Option) (<-chan pal.StreamEvent, error) {
	options := pal.ApplyOptions(opts...)
	params := c.buildParams(messages, options)

	stream := c.client.Messages.NewStreaming(ctx, params)
	ch := make(chan pal.StreamEvent)

	go func() {
		defer close(ch)
		var acc anthropic.Message

		for stream.Next() {
			event := stream.Current()
			acc.Accumulate(event)

			if event.Type == "content_block_delta" {
				delta := event.AsContentBlockDelta()
				if textDelta := delta.Delta.AsTextDelta(); textDelta.Type == "text_delta" {
					ch <- pal.StreamEvent{Delta: textDelta.Text}
				}
			}
		}

		if err := stream.Err(); err != nil {
			ch <- pal.StreamEvent{Err: wrapError(err)}
			return
		}

		content := ""
		var toolCalls []pal.ToolCall
		for _, block := range acc.Content {
			switch block.Type {
			case "text":
				content += block.Text
			case "tool_use":
				toolCalls = append(toolCalls, pal.ToolCall{
					ID:        block.ID,
					Name:      block.Name,
					Arguments: string(block.Input),
				})
			}
		}

		ch <- pal.StreamEvent{
			Done: true,
			Response: &pal.Response{
				Content:      content,
				FinishReason: string(acc.StopReason),
				Usage: pal.Usage{
					InputTokens:  int(acc.Usage.InputTokens),
					OutputTokens: int(acc.Usage.OutputTokens),
				},
				ToolCalls: toolCalls,
			},
		}
	}()

	return ch, nil
}

var _ pal.ModelProvider = (*Client)(nil)

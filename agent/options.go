package agent

import (
	"time"

	pal "github.com/agenticpal/pal"
	"github.com/agenticpal/pal/retry"
)

// DefaultSystemPrompt instructs the model to work through the three
// meta operations rather than a flat tool list.
const DefaultSystemPrompt = `You are a helpful productivity assistant with access to the user's calendar, email, and tasks.

You interact with these services through three operations:
- discover_tools: list available tools by category, action, or keyword
- get_tool_schema: fetch the exact parameters for one tool
- invoke_tool: run a tool with its arguments

Work in that order: discover the right tool, fetch its schema, then invoke it. Do not guess parameters; fetch the schema first.

Some actions delete or modify data. When invoke_tool reports pending_confirmation, the action is held until the user approves it. Tell the user exactly what will happen and ask them to confirm. Never claim a held action has been performed.

Be concise and confirm what you did after completing a request.`

// Options contains configuration for loop execution.
type Options struct {
	// MaxIterations bounds the number of model turns per run. When the
	// bound is hit the run completes gracefully with an explanatory
	// reply rather than an error. Default is 8.
	MaxIterations int

	// Timeout bounds the entire run. Zero means no timeout beyond the
	// caller's context. Default is 2 minutes.
	Timeout time.Duration

	// HandlerTimeout bounds each individual tool invocation.
	// Default is 30 seconds.
	HandlerTimeout time.Duration

	// Retry governs reconnection on transient provider failures when
	// opening a model stream. Defaults to 3 attempts with short backoff.
	Retry retry.Config

	// SystemPrompt is prepended to every model call.
	// Defaults to DefaultSystemPrompt.
	SystemPrompt string

	// ChatOptions are passed through to the model provider on every call.
	ChatOptions []pal.Option
}

// Option is a functional option for configuring loop execution.
type Option func(*Options)

// WithMaxIterations bounds the number of model turns per run.
func WithMaxIterations(n int) Option {
	return func(o *Options) {
		o.MaxIterations = n
	}
}

// WithTimeout bounds the entire run.
func WithTimeout(d time.Duration) Option {
	return func(o *Options) {
		o.Timeout = d
	}
}

// WithHandlerTimeout bounds each individual tool invocation.
func WithHandlerTimeout(d time.Duration) Option {
	return func(o *Options) {
		o.HandlerTimeout = d
	}
}

// WithRetry replaces the provider retry policy. Use retry.Disabled()
// for a single attempt.
func WithRetry(cfg retry.Config) Option {
	return func(o *Options) {
		o.Retry = cfg
	}
}

// WithSystemPrompt replaces the default system prompt.
func WithSystemPrompt(prompt string) Option {
	return func(o *Options) {
		o.SystemPrompt = prompt
	}
}

// WithChatOptions passes options through to the model provider.
// These options are applied to every model call made by the loop.
func WithChatOptions(opts ...pal.Option) Option {
	return func(o *Options) {
		o.ChatOptions = append(o.ChatOptions, opts...)
	}
}

// WithModel is a convenience option to set the model for chat calls.
func WithModel(model string) Option {
	return func(o *Options) {
		o.ChatOptions = append(o.ChatOptions, pal.WithModel(model))
	}
}

// WithMaxTokens is a convenience option to set max tokens for chat calls.
func WithMaxTokens(n int) Option {
	return func(o *Options) {
		o.ChatOptions = append(o.ChatOptions, pal.WithMaxTokens(n))
	}
}

// WithTemperature is a convenience option to set temperature for chat calls.
func WithTemperature(t float64) Option {
	return func(o *Options) {
		o.ChatOptions = append(o.ChatOptions, pal.WithTemperature(t))
	}
}

// ApplyOptions applies functional options to an Options struct with defaults.
func ApplyOptions(opts ...Option) *Options {
	o := &Options{
		MaxIterations:  8,
		Timeout:        2 * time.Minute,
		HandlerTimeout: 30 * time.Second,
		Retry: retry.Config{
			MaxAttempts:  3,
			InitialDelay: 500 * time.Millisecond,
			MaxDelay:     5 * time.Second,
			Multiplier:   2.0,
			Jitter:       0.1,
		},
		SystemPrompt: DefaultSystemPrompt,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

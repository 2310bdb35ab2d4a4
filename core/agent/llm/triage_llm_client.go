package llm

import (
	"context"
	"errors"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/sony/gobreaker"

	"triage_server/pkg/apperr"
	"triage_server/pkg/ratelimit"
)

// Client wraps an OpenAI-compatible completion endpoint behind a circuit
// breaker and a call pacer. A Perplexity-style provider works by pointing
// BaseURL at it.
type Client struct {
	client      *openai.Client
	model       string
	maxTokens   int
	temperature float32
	timeout     time.Duration
	breaker     *gobreaker.CircuitBreaker
	pacer       *ratelimit.Pacer
}

type ClientConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	MaxTokens   int
	Temperature float64
	Timeout     time.Duration
	Pacer       *ratelimit.Pacer
}

const DefaultModel = "gpt-4o-mini"

func NewClientWithConfig(cfg ClientConfig) *Client {
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	maxTokens := cfg.MaxTokens
	if maxTokens == 0 {
		maxTokens = 1000
	}
	temperature := cfg.Temperature
	if temperature == 0 {
		temperature = 0.1
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "oracle",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})

	return &Client{
		client:      openai.NewClientWithConfig(clientCfg),
		model:       model,
		maxTokens:   maxTokens,
		temperature: float32(temperature),
		timeout:     timeout,
		breaker:     breaker,
		pacer:       cfg.Pacer,
	}
}

// Complete sends a system+user prompt pair and returns the raw completion.
// Implements the Oracle port.
func (c *Client) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	if c.pacer != nil {
		release, err := c.pacer.Acquire(ctx)
		if err != nil {
			return "", apperr.OracleOverloaded("oracle pacer rejected call").WithDetail("cause", err.Error())
		}
		defer release()
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	result, err := c.breaker.Execute(func() (any, error) {
		messages := []openai.ChatCompletionMessage{}
		if systemPrompt != "" {
			messages = append(messages, openai.ChatCompletionMessage{
				Role:    openai.ChatMessageRoleSystem,
				Content: systemPrompt,
			})
		}
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleUser,
			Content: userPrompt,
		})

		resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model:       c.model,
			Messages:    messages,
			MaxTokens:   c.maxTokens,
			Temperature: c.temperature,
		})
		if err != nil {
			return nil, err
		}
		if len(resp.Choices) == 0 {
			return "", nil
		}
		return resp.Choices[0].Message.Content, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
			return "", apperr.OracleOverloaded("oracle circuit breaker open")
		case errors.Is(ctx.Err(), context.DeadlineExceeded):
			return "", apperr.OracleTimeout("completion")
		default:
			return "", apperr.OracleUnavailable(err)
		}
	}

	content, _ := result.(string)
	if content == "" {
		return "", apperr.OracleUnparseable("empty completion")
	}
	return content, nil
}

// WithOverrides returns a shallow copy using different token and temperature
// settings. The breaker and pacer are shared so all callers see one oracle.
func (c *Client) WithOverrides(maxTokens int, temperature float64) *Client {
	clone := *c
	if maxTokens > 0 {
		clone.maxTokens = maxTokens
	}
	if temperature > 0 {
		clone.temperature = float32(temperature)
	}
	return &clone
}

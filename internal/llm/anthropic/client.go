package anthropic

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"logit-backend/internal/llm"
)

const defaultMaxTokens = 2048

// Client implements llm.Generator using the Anthropic Messages API.
// Structured output is requested through the prompt only.
type Client struct {
	client anthropic.Client
	model  string
}

// NewClient constructs a new Anthropic client. baseURL is optional.
func NewClient(apiKey, model, baseURL string, timeout time.Duration) (*Client, error) {
	if strings.TrimSpace(model) == "" {
		return nil, fmt.Errorf("LLM_MODEL is required for Anthropic")
	}
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("ANTHROPIC_API_KEY is required")
	}
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(timeout))
	}
	if strings.TrimSpace(baseURL) != "" {
		opts = append(opts, option.WithBaseURL(strings.TrimRight(baseURL, "/")+"/"))
	}
	return &Client{client: anthropic.NewClient(opts...), model: model}, nil
}

func (c *Client) Name() string { return "anthropic" }

func (c *Client) Generate(ctx context.Context, req llm.Request) (llm.Response, error) {
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: defaultMaxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(req.Prompt)),
		},
	}
	if req.Temperature != nil {
		params.Temperature = anthropic.Float(*req.Temperature)
	}

	message, err := c.client.Messages.New(ctx, params)
	if err != nil {
		if isTimeout(err) {
			return llm.Response{Model: c.model}, fmt.Errorf("%w: anthropic: %v", llm.ErrTimeout, err)
		}
		return llm.Response{Model: c.model}, fmt.Errorf("anthropic request: %w", err)
	}

	out := llm.Response{
		Model:        string(message.Model),
		PromptTokens: message.Usage.InputTokens,
		OutputTokens: message.Usage.OutputTokens,
	}
	if out.Model == "" {
		out.Model = c.model
	}
	var text strings.Builder
	for _, block := range message.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	if text.Len() == 0 {
		return out, fmt.Errorf("no text content in Anthropic response")
	}
	out.Text = text.String()
	return out, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

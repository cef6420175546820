package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"logit-backend/internal/llm"
)

const DefaultBaseURL = "http://localhost:11434"

// Client implements llm.Generator against a local Ollama server.
type Client struct {
	baseURL    string
	model      string
	httpClient *http.Client
}

// NewClient constructs a new Ollama client.
func NewClient(baseURL, model string, timeout time.Duration) (*Client, error) {
	if strings.TrimSpace(model) == "" {
		return nil, fmt.Errorf("LLM_MODEL is required for Ollama")
	}
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &Client{
		baseURL:    baseURL,
		model:      model,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

func (c *Client) Name() string { return "ollama" }

type generateRequest struct {
	Model   string           `json:"model"`
	Prompt  string           `json:"prompt"`
	Stream  bool             `json:"stream"`
	Think   bool             `json:"think"`
	Format  map[string]any   `json:"format,omitempty"`
	Options *generateOptions `json:"options,omitempty"`
}

type generateOptions struct {
	Temperature float64 `json:"temperature"`
}

type generateResponse struct {
	Model           string `json:"model"`
	Response        string `json:"response"`
	Done            bool   `json:"done"`
	PromptEvalCount int64  `json:"prompt_eval_count"`
	EvalCount       int64  `json:"eval_count"`
	Error           string `json:"error"`
}

func (c *Client) Generate(ctx context.Context, req llm.Request) (llm.Response, error) {
	body := generateRequest{
		Model:  c.model,
		Prompt: req.Prompt,
		Format: req.Schema,
	}
	if req.Temperature != nil {
		body.Options = &generateOptions{Temperature: *req.Temperature}
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return llm.Response{}, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/generate", bytes.NewReader(payload))
	if err != nil {
		return llm.Response{}, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if isTimeout(err) {
			return llm.Response{Model: c.model}, fmt.Errorf("%w: ollama: %v", llm.ErrTimeout, err)
		}
		return llm.Response{Model: c.model}, fmt.Errorf("ollama request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		if isTimeout(err) {
			return llm.Response{Model: c.model}, fmt.Errorf("%w: ollama: %v", llm.ErrTimeout, err)
		}
		return llm.Response{Model: c.model}, err
	}

	var parsed generateResponse
	decodeErr := json.Unmarshal(raw, &parsed)
	if resp.StatusCode != http.StatusOK {
		msg := strings.TrimSpace(parsed.Error)
		if decodeErr != nil || msg == "" {
			msg = strings.TrimSpace(string(raw))
		}
		return llm.Response{Model: c.model}, fmt.Errorf("ollama status %d: %s", resp.StatusCode, msg)
	}
	if decodeErr != nil {
		return llm.Response{Model: c.model}, fmt.Errorf("ollama response parse: %w", decodeErr)
	}
	if parsed.Error != "" {
		return llm.Response{Model: c.model}, fmt.Errorf("ollama error: %s", parsed.Error)
	}

	model := parsed.Model
	if model == "" {
		model = c.model
	}
	return llm.Response{
		Text:         parsed.Response,
		Model:        model,
		PromptTokens: parsed.PromptEvalCount,
		OutputTokens: parsed.EvalCount,
	}, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const systemPrompt = `You are a helpful assistant for a shared-expense ledger. You have access to the following data:

CONTEXT DATA:
%s

Answer user queries about expenses, balances, groups and users based on this data.

BALANCE INTERPRETATION:
- Positive balance: the person is owed money
- Negative balance: the person owes money
- Zero balance: the person is settled up

Format monetary amounts as **$XX.XX** and use names instead of IDs.
If data is not available, say what is missing.`

// ChatConfig configures an OpenAI-compatible chat completion endpoint.
type ChatConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	MaxTokens   int
	Temperature float64
}

// ChatCompletion answers by sending the snapshot and question to a chat
// completion API.
type ChatCompletion struct {
	cfg    ChatConfig
	client *http.Client
}

var _ Answerer = (*ChatCompletion)(nil)

// NewChatCompletion creates a ChatCompletion. A nil client uses
// http.DefaultClient.
func NewChatCompletion(cfg ChatConfig, client *http.Client) *ChatCompletion {
	if client == nil {
		client = http.DefaultClient
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &ChatCompletion{cfg: cfg, client: client}
}

func (c *ChatCompletion) Name() string {
	return "chat_completion"
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func (c *ChatCompletion) Answer(ctx context.Context, q Question, snap *Snapshot) (string, error) {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode snapshot: %w", err)
	}

	body, err := json.Marshal(chatRequest{
		Model: c.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: fmt.Sprintf(systemPrompt, data)},
			{Role: "user", Content: q.Query},
		},
		MaxTokens:   c.cfg.MaxTokens,
		Temperature: c.cfg.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("chat completion request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("chat completion returned %s: %s", resp.Status, bytes.TrimSpace(msg))
	}

	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if len(out.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}

	answer := strings.TrimSpace(out.Choices[0].Message.Content)
	if answer == "" {
		return "", fmt.Errorf("chat completion returned an empty answer")
	}
	return answer, nil
}

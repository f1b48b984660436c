// Package huggingface provides the Hugging Face router integration for
// embeddings and chat completions, with bounded retries around the
// completion call.
package huggingface

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/fitforge/backend/internal/ports/outbound"
	"github.com/fitforge/backend/pkg/retry"
	"go.uber.org/zap"
)

const maxErrorBodyBytes = 1024

// Config holds client configuration.
type Config struct {
	BaseURL         string
	APIKey          string
	EmbeddingModel  string
	CompletionModel string
	Timeout         time.Duration
	MaxAttempts     int
	TransientDelay  time.Duration
	TransportDelay  time.Duration
}

// Client talks to the Hugging Face router. It implements both
// outbound.CompletionService and outbound.EmbeddingService.
type Client struct {
	cfg    Config
	http   *http.Client
	policy retry.Policy
	logger *zap.Logger
}

// NewClient creates a Hugging Face client. Zero-valued retry settings fall
// back to 3 attempts with 2s/1s delays, matching the upstream's observed
// recovery behavior.
func NewClient(cfg Config, logger *zap.Logger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 90 * time.Second
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 3
	}
	if cfg.TransientDelay <= 0 {
		cfg.TransientDelay = 2 * time.Second
	}
	if cfg.TransportDelay <= 0 {
		cfg.TransportDelay = time.Second
	}

	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
		policy: retry.Policy{
			MaxAttempts:    cfg.MaxAttempts,
			TransientDelay: cfg.TransientDelay,
			TransportDelay: cfg.TransportDelay,
			Classify:       classifyCompletionError,
		},
		logger: logger.Named("huggingface"),
	}
}

// classifyCompletionError retries transient upstream statuses (503/504) and
// network-level failures; other statuses are terminal.
func classifyCompletionError(err error) retry.Class {
	var statusErr *outbound.UpstreamStatusError
	if errors.As(err, &statusErr) {
		if statusErr.Transient() {
			return retry.Transient
		}
		return retry.Terminal
	}
	return retry.Transport
}

type chatCompletionRequest struct {
	Model     string                 `json:"model"`
	Messages  []outbound.ChatMessage `json:"messages"`
	MaxTokens int                    `json:"max_tokens"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
}

type embeddingRequest struct {
	Model string `json:"model"`
	Input string `json:"input"`
}

type embeddingResponse struct {
	Data []struct {
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
}

// Complete sends the chat-completion request and returns the cleaned
// assistant message. Retries are handled here; callers see only the final
// outcome.
func (c *Client) Complete(ctx context.Context, messages []outbound.ChatMessage, maxTokens int) (*outbound.Completion, error) {
	var resp chatCompletionResponse
	attempt := 0
	err := c.policy.Do(ctx, func(ctx context.Context) error {
		attempt++
		// A failed unmarshal can leave partial data behind; every attempt
		// starts from a clean value.
		resp = chatCompletionResponse{}
		return c.postJSON(ctx, "/v1/chat/completions", chatCompletionRequest{
			Model:     c.cfg.CompletionModel,
			Messages:  messages,
			MaxTokens: maxTokens,
		}, &resp)
	})
	if err != nil {
		c.logger.Error("completion request failed",
			zap.Int("attempts", attempt),
			zap.Error(err),
		)
		return nil, err
	}

	var content, finishReason string
	if len(resp.Choices) > 0 {
		content = resp.Choices[0].Message.Content
		finishReason = resp.Choices[0].FinishReason
	}

	truncated := finishReason == "length"
	if truncated {
		// Not fatal: the caller's JSON parse will surface unusable output.
		c.logger.Warn("completion truncated by token limit",
			zap.Int("max_tokens", maxTokens),
		)
	}

	cleaned, kind := StripCodeFence(content)
	if kind == FenceMalformed {
		c.logger.Warn("completion contained an unclosed code fence")
	}

	return &outbound.Completion{
		Content:      cleaned,
		FinishReason: finishReason,
		Truncated:    truncated,
	}, nil
}

// Embed returns the embedding vector for text. No retry: embedding callers
// are best-effort and degrade to an empty context.
func (c *Client) Embed(ctx context.Context, text string) ([]float32, error) {
	var resp embeddingResponse
	if err := c.postJSON(ctx, "/v1/embeddings", embeddingRequest{
		Model: c.cfg.EmbeddingModel,
		Input: text,
	}, &resp); err != nil {
		return nil, err
	}

	if len(resp.Data) == 0 || len(resp.Data[0].Embedding) == 0 {
		return nil, fmt.Errorf("embedding failed: no vector in response")
	}
	return resp.Data[0].Embedding, nil
}

func (c *Client) postJSON(ctx context.Context, path string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return &outbound.UpstreamStatusError{
			StatusCode: resp.StatusCode,
			Body:       truncate(raw),
		}
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}
	return nil
}

func truncate(raw []byte) string {
	if len(raw) <= maxErrorBodyBytes {
		return string(raw)
	}
	return string(raw[:maxErrorBodyBytes]) + "..."
}

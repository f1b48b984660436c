// Package qdrant implements the health-constraint index against a Qdrant
// collection over its HTTP API.
package qdrant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/fitforge/backend/internal/ports/outbound"
	"go.uber.org/zap"
)

const maxErrorBodyBytes = 1024

// Config holds Qdrant connection settings.
type Config struct {
	URL        string
	APIKey     string
	Collection string
	MinScore   float64
	Timeout    time.Duration
}

// Client searches a Qdrant collection for stored health constraints.
type Client struct {
	cfg    Config
	http   *http.Client
	logger *zap.Logger
}

// NewClient creates a Qdrant search client. The collection is only read,
// never written, so no readiness or schema check happens here.
func NewClient(cfg Config, logger *zap.Logger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	cfg.URL = strings.TrimRight(cfg.URL, "/")

	return &Client{
		cfg:    cfg,
		http:   &http.Client{Timeout: cfg.Timeout},
		logger: logger.Named("qdrant"),
	}
}

type searchRequest struct {
	Vector         []float32 `json:"vector"`
	Limit          int       `json:"limit"`
	WithPayload    bool      `json:"with_payload"`
	ScoreThreshold float64   `json:"score_threshold,omitempty"`
}

type searchEnvelope struct {
	Result []searchResultItem `json:"result"`
	Status json.RawMessage    `json:"status"`
}

type searchResultItem struct {
	Score   float64           `json:"score"`
	Payload constraintPayload `json:"payload"`
}

type constraintPayload struct {
	Issue                string `json:"issue"`
	ContraindicatedFoods []struct {
		Food string `json:"food"`
	} `json:"contraindicated_foods"`
	ContraindicatedExercises []struct {
		Exercise string `json:"exercise"`
	} `json:"contraindicated_exercises"`
}

// Search returns up to limit nearest constraint records for the query
// vector, ordered by the index's similarity score.
func (c *Client) Search(ctx context.Context, vector []float32, limit int) ([]outbound.ConstraintMatch, error) {
	if len(vector) == 0 {
		return nil, fmt.Errorf("query vector required")
	}
	if limit <= 0 {
		limit = 2
	}

	body, err := json.Marshal(searchRequest{
		Vector:         vector,
		Limit:          limit,
		WithPayload:    true,
		ScoreThreshold: c.cfg.MinScore,
	})
	if err != nil {
		return nil, fmt.Errorf("encode search request: %w", err)
	}

	url := fmt.Sprintf("%s/collections/%s/points/search", c.cfg.URL, c.cfg.Collection)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build search request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.APIKey != "" {
		req.Header.Set("api-key", c.cfg.APIKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("qdrant request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read qdrant response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("qdrant http status=%d body=%q", resp.StatusCode, truncate(raw))
	}

	var envelope searchEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("decode qdrant envelope: %w", err)
	}

	matches := make([]outbound.ConstraintMatch, 0, len(envelope.Result))
	for _, item := range envelope.Result {
		matches = append(matches, outbound.ConstraintMatch{
			Score:      item.Score,
			Constraint: item.Payload.toConstraint(),
		})
	}

	c.logger.Debug("constraint search completed",
		zap.Int("matches", len(matches)),
		zap.Int("limit", limit),
	)
	return matches, nil
}

func (p constraintPayload) toConstraint() outbound.HealthConstraint {
	foods := make([]string, 0, len(p.ContraindicatedFoods))
	for _, f := range p.ContraindicatedFoods {
		foods = append(foods, f.Food)
	}
	exercises := make([]string, 0, len(p.ContraindicatedExercises))
	for _, e := range p.ContraindicatedExercises {
		exercises = append(exercises, e.Exercise)
	}
	return outbound.HealthConstraint{
		Issue:     p.Issue,
		Foods:     foods,
		Exercises: exercises,
	}
}

func truncate(raw []byte) string {
	if len(raw) <= maxErrorBodyBytes {
		return string(raw)
	}
	return string(raw[:maxErrorBodyBytes]) + "..."
}

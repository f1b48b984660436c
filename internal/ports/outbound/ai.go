// Package outbound defines the contracts consumed from external providers:
// the embedding service, the health-constraint vector index and the
// chat-completion service.
package outbound

import (
	"context"
	"fmt"
)

// ChatMessage is a single message in a completion exchange.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Completion is the post-processed result of a chat-completion call.
// Content has code fences stripped and surrounding whitespace trimmed.
type Completion struct {
	Content      string
	FinishReason string
	Truncated    bool
}

// CompletionService issues a chat-completion request and returns the cleaned
// assistant message. Implementations own the retry policy; callers receive
// either a result or the final error after the attempt budget is spent.
type CompletionService interface {
	Complete(ctx context.Context, messages []ChatMessage, maxTokens int) (*Completion, error)
}

// EmbeddingService turns free text into a fixed-length vector.
type EmbeddingService interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// HealthConstraint is a stored contraindication record. Read-only from this
// system's perspective.
type HealthConstraint struct {
	Issue     string
	Foods     []string
	Exercises []string
}

// ConstraintMatch is a similarity-search hit.
type ConstraintMatch struct {
	Score      float64
	Constraint HealthConstraint
}

// HealthConstraintIndex searches the vector index for the nearest stored
// health-constraint records.
type HealthConstraintIndex interface {
	Search(ctx context.Context, vector []float32, limit int) ([]ConstraintMatch, error)
}

// UpstreamStatusError reports a non-success HTTP status from a provider.
// Transient statuses (503/504) are retried; everything else is terminal.
type UpstreamStatusError struct {
	StatusCode int
	Body       string
}

func (e *UpstreamStatusError) Error() string {
	return fmt.Sprintf("upstream error %d: %s", e.StatusCode, e.Body)
}

// Transient reports whether the status indicates a temporary upstream
// condition worth retrying.
func (e *UpstreamStatusError) Transient() bool {
	return e.StatusCode == 503 || e.StatusCode == 504
}

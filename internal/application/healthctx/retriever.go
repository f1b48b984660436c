// Package healthctx retrieves stored health contraindications relevant to a
// user's free-text conditions and renders them as prompt constraints.
//
// Retrieval is best-effort: any embedding or index failure is logged and
// reported as "no constraints found". Plan generation never blocks on it.
package healthctx

import (
	"context"
	"strings"
	"unicode"

	"github.com/fitforge/backend/internal/ports/outbound"
	"go.uber.org/zap"
)

// DefaultTopK matches the original call sites, which asked for the two
// nearest records.
const DefaultTopK = 2

// Retriever looks up health constraints by semantic similarity.
type Retriever struct {
	embedder outbound.EmbeddingService
	index    outbound.HealthConstraintIndex
	topK     int
	logger   *zap.Logger
}

// NewRetriever creates a retriever. topK <= 0 selects DefaultTopK.
func NewRetriever(embedder outbound.EmbeddingService, index outbound.HealthConstraintIndex, topK int, logger *zap.Logger) *Retriever {
	if topK <= 0 {
		topK = DefaultTopK
	}
	return &Retriever{
		embedder: embedder,
		index:    index,
		topK:     topK,
		logger:   logger.Named("healthctx"),
	}
}

// Retrieve returns a newline-joined constraint summary for the query text,
// or the empty string when the query carries no real content or retrieval
// fails.
func (r *Retriever) Retrieve(ctx context.Context, query string) string {
	if !hasContent(query) {
		return ""
	}

	vector, err := r.embedder.Embed(ctx, query)
	if err != nil {
		r.logger.Warn("embedding failed, skipping health context",
			zap.String("stage", "embedding"),
			zap.Error(err),
		)
		return ""
	}

	matches, err := r.index.Search(ctx, vector, r.topK)
	if err != nil {
		r.logger.Warn("constraint search failed, skipping health context",
			zap.String("stage", "index"),
			zap.Error(err),
		)
		return ""
	}

	lines := make([]string, 0, len(matches))
	for _, m := range matches {
		lines = append(lines, renderConstraint(m.Constraint))
	}
	return strings.Join(lines, "\n")
}

// hasContent reports whether the query still has substance after lowering,
// dropping "none" tokens and stripping punctuation. "None, none." carries no
// content and must not trigger a remote call.
func hasContent(query string) bool {
	for _, token := range strings.FieldsFunc(strings.ToLower(query), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	}) {
		if token != "none" {
			return true
		}
	}
	return false
}

func renderConstraint(c outbound.HealthConstraint) string {
	issue := c.Issue
	if issue == "" {
		issue = "N/A"
	}
	var b strings.Builder
	b.WriteString("Issue: ")
	b.WriteString(issue)
	b.WriteString(". Constraints: Foods to avoid (")
	b.WriteString(strings.Join(c.Foods, ", "))
	b.WriteString("), Exercises to avoid (")
	b.WriteString(strings.Join(c.Exercises, ", "))
	b.WriteString(")")
	return b.String()
}

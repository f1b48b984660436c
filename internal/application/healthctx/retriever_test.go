package healthctx

import (
	"context"
	"errors"
	"testing"

	"github.com/fitforge/backend/internal/ports/outbound"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type fakeEmbedder struct {
	calls  int
	vector []float32
	err    error
}

func (f *fakeEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	f.calls++
	return f.vector, f.err
}

type fakeIndex struct {
	calls   int
	limit   int
	matches []outbound.ConstraintMatch
	err     error
}

func (f *fakeIndex) Search(ctx context.Context, vector []float32, limit int) ([]outbound.ConstraintMatch, error) {
	f.calls++
	f.limit = limit
	return f.matches, f.err
}

func newRetriever(e *fakeEmbedder, i *fakeIndex) *Retriever {
	return NewRetriever(e, i, 0, zap.NewNop())
}

func TestRetrieveSkipsEmptyInputWithoutRemoteCalls(t *testing.T) {
	for _, query := range []string{"", "None, none.", "none", "NONE  none!!", " , . "} {
		embedder := &fakeEmbedder{}
		index := &fakeIndex{}

		got := newRetriever(embedder, index).Retrieve(context.Background(), query)

		assert.Equal(t, "", got, "query %q", query)
		assert.Zero(t, embedder.calls, "query %q must not call the embedder", query)
		assert.Zero(t, index.calls, "query %q must not call the index", query)
	}
}

func TestRetrieveRendersMatches(t *testing.T) {
	embedder := &fakeEmbedder{vector: []float32{0.1, 0.2}}
	index := &fakeIndex{matches: []outbound.ConstraintMatch{
		{Score: 0.91, Constraint: outbound.HealthConstraint{
			Issue:     "knee injury",
			Foods:     []string{"alcohol"},
			Exercises: []string{"squats", "lunges"},
		}},
		{Score: 0.75, Constraint: outbound.HealthConstraint{
			Foods: []string{"peanuts"},
		}},
	}}

	got := newRetriever(embedder, index).Retrieve(context.Background(), "torn meniscus, peanut allergy")

	want := "Issue: knee injury. Constraints: Foods to avoid (alcohol), Exercises to avoid (squats, lunges)\n" +
		"Issue: N/A. Constraints: Foods to avoid (peanuts), Exercises to avoid ()"
	assert.Equal(t, want, got)
	assert.Equal(t, DefaultTopK, index.limit)
}

func TestRetrieveSwallowsEmbeddingFailure(t *testing.T) {
	embedder := &fakeEmbedder{err: errors.New("no vector in response")}
	index := &fakeIndex{}

	got := newRetriever(embedder, index).Retrieve(context.Background(), "asthma")

	assert.Equal(t, "", got)
	assert.Zero(t, index.calls, "index must not be queried when embedding fails")
}

func TestRetrieveSwallowsIndexFailure(t *testing.T) {
	embedder := &fakeEmbedder{vector: []float32{1}}
	index := &fakeIndex{err: errors.New("connection refused")}

	got := newRetriever(embedder, index).Retrieve(context.Background(), "asthma")

	assert.Equal(t, "", got)
}

func TestRetrieveNoMatchesYieldsEmptySummary(t *testing.T) {
	embedder := &fakeEmbedder{vector: []float32{1}}
	index := &fakeIndex{}

	got := newRetriever(embedder, index).Retrieve(context.Background(), "asthma")

	assert.Equal(t, "", got)
	assert.Equal(t, 1, embedder.calls)
	assert.Equal(t, 1, index.calls)
}

func TestNewRetrieverHonoursExplicitTopK(t *testing.T) {
	embedder := &fakeEmbedder{vector: []float32{1}}
	index := &fakeIndex{}

	NewRetriever(embedder, index, 3, zap.NewNop()).Retrieve(context.Background(), "asthma")

	assert.Equal(t, 3, index.limit)
}

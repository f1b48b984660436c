package huggingface

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fitforge/backend/internal/ports/outbound"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewClient(Config{
		BaseURL:         server.URL,
		APIKey:          "test-key",
		EmbeddingModel:  "sentence-transformers/all-MiniLM-L6-v2",
		CompletionModel: "deepseek-ai/DeepSeek-V3",
		Timeout:         5 * time.Second,
		MaxAttempts:     3,
		TransientDelay:  time.Millisecond,
		TransportDelay:  time.Millisecond,
	}, zap.NewNop())
}

func completionBody(content, finishReason string) map[string]any {
	return map[string]any{
		"choices": []map[string]any{
			{
				"message":       map[string]any{"role": "assistant", "content": content},
				"finish_reason": finishReason,
			},
		},
	}
}

func messages() []outbound.ChatMessage {
	return []outbound.ChatMessage{
		{Role: "system", Content: "persona"},
		{Role: "user", Content: "Context:\nctx\n\nTask:\ntask"},
	}
}

func TestCompleteRecoversFromTransientFailures(t *testing.T) {
	requests := 0
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		requests++
		if requests < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		json.NewEncoder(w).Encode(completionBody(`{"days":[]}`, "stop"))
	})

	got, err := client.Complete(context.Background(), messages(), 8000)

	require.NoError(t, err)
	assert.Equal(t, 3, requests)
	assert.Equal(t, `{"days":[]}`, got.Content)
	assert.False(t, got.Truncated)
}

func TestCompleteExhaustsAttemptsOnPersistentOverload(t *testing.T) {
	requests := 0
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	_, err := client.Complete(context.Background(), messages(), 8000)

	require.Error(t, err)
	assert.Equal(t, 3, requests)

	var statusErr *outbound.UpstreamStatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusServiceUnavailable, statusErr.StatusCode)
	assert.True(t, statusErr.Transient())
}

func TestCompleteDoesNotRetryTerminalStatuses(t *testing.T) {
	requests := 0
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		requests++
		http.Error(w, "bad model id", http.StatusBadRequest)
	})

	_, err := client.Complete(context.Background(), messages(), 8000)

	require.Error(t, err)
	assert.Equal(t, 1, requests)

	var statusErr *outbound.UpstreamStatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusBadRequest, statusErr.StatusCode)
	assert.False(t, statusErr.Transient())
}

func TestCompleteRetriesGatewayTimeout(t *testing.T) {
	requests := 0
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		requests++
		if requests == 1 {
			w.WriteHeader(http.StatusGatewayTimeout)
			return
		}
		json.NewEncoder(w).Encode(completionBody("{}", "stop"))
	})

	_, err := client.Complete(context.Background(), messages(), 8000)

	require.NoError(t, err)
	assert.Equal(t, 2, requests)
}

func TestCompleteDoesNotLeakDataAcrossAttempts(t *testing.T) {
	requests := 0
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		requests++
		if requests == 1 {
			// finish_reason has the wrong type: the decoder populates the
			// message before reporting the error.
			w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"stale"},"finish_reason":42}]}`))
			return
		}
		w.Write([]byte(`{}`))
	})

	got, err := client.Complete(context.Background(), messages(), 8000)

	require.NoError(t, err)
	assert.Equal(t, 2, requests)
	assert.Equal(t, "", got.Content, "partial data from the failed attempt must not survive")
	assert.Equal(t, "", got.FinishReason)
}

func TestCompleteStripsCodeFence(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(completionBody("```json\n{\"days\":[]}\n```", "stop"))
	})

	got, err := client.Complete(context.Background(), messages(), 8000)

	require.NoError(t, err)
	assert.Equal(t, `{"days":[]}`, got.Content)
}

func TestCompleteReturnsTruncatedContent(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(completionBody(`{"days":[{"day":1`, "length"))
	})

	got, err := client.Complete(context.Background(), messages(), 100)

	require.NoError(t, err)
	assert.True(t, got.Truncated)
	assert.Equal(t, `{"days":[{"day":1`, got.Content)
}

func TestCompleteSendsExpectedRequest(t *testing.T) {
	var captured chatCompletionRequest
	var auth string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		json.NewEncoder(w).Encode(completionBody("{}", "stop"))
	})

	_, err := client.Complete(context.Background(), messages(), 8000)

	require.NoError(t, err)
	assert.Equal(t, "Bearer test-key", auth)
	assert.Equal(t, "deepseek-ai/DeepSeek-V3", captured.Model)
	assert.Equal(t, 8000, captured.MaxTokens)
	require.Len(t, captured.Messages, 2)
	assert.Equal(t, "system", captured.Messages[0].Role)
}

func TestEmbedReturnsVector(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/embeddings", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]any{{"embedding": []float32{0.1, 0.2, 0.3}}},
		})
	})

	vector, err := client.Embed(context.Background(), "knee injury")

	require.NoError(t, err)
	assert.Equal(t, []float32{0.1, 0.2, 0.3}, vector)
}

func TestEmbedFailsWhenNoVectorReturned(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"data": []map[string]any{}})
	})

	_, err := client.Embed(context.Background(), "knee injury")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no vector")
}

func TestEmbedSurfacesUpstreamStatus(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	})

	_, err := client.Embed(context.Background(), "knee injury")

	var statusErr *outbound.UpstreamStatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusUnauthorized, statusErr.StatusCode)
}

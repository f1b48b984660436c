package qdrant

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewClient(Config{
		URL:        server.URL,
		APIKey:     "qdrant-key",
		Collection: "athlete_health_context",
	}, zap.NewNop())
}

func TestSearchParsesEnvelope(t *testing.T) {
	var gotPath, gotKey string
	var gotBody searchRequest
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("api-key")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		json.NewEncoder(w).Encode(map[string]any{
			"status": "ok",
			"result": []map[string]any{
				{
					"score": 0.92,
					"payload": map[string]any{
						"issue":                     "knee injury",
						"contraindicated_foods":     []map[string]any{{"food": "alcohol"}},
						"contraindicated_exercises": []map[string]any{{"exercise": "squats"}, {"exercise": "lunges"}},
					},
				},
			},
		})
	})

	matches, err := client.Search(context.Background(), []float32{0.1, 0.2}, 2)

	require.NoError(t, err)
	assert.Equal(t, "/collections/athlete_health_context/points/search", gotPath)
	assert.Equal(t, "qdrant-key", gotKey)
	assert.True(t, gotBody.WithPayload)
	assert.Equal(t, 2, gotBody.Limit)

	require.Len(t, matches, 1)
	assert.InDelta(t, 0.92, matches[0].Score, 0.001)
	assert.Equal(t, "knee injury", matches[0].Constraint.Issue)
	assert.Equal(t, []string{"alcohol"}, matches[0].Constraint.Foods)
	assert.Equal(t, []string{"squats", "lunges"}, matches[0].Constraint.Exercises)
}

func TestSearchHandlesEmptyPayloadLists(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"result": []map[string]any{{"score": 0.5, "payload": map[string]any{}}},
		})
	})

	matches, err := client.Search(context.Background(), []float32{1}, 2)

	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Empty(t, matches[0].Constraint.Issue)
	assert.Empty(t, matches[0].Constraint.Foods)
	assert.Empty(t, matches[0].Constraint.Exercises)
}

func TestSearchRejectsEmptyVector(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected")
	})

	_, err := client.Search(context.Background(), nil, 2)

	assert.Error(t, err)
}

func TestSearchSurfacesHTTPErrors(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "collection not found", http.StatusNotFound)
	})

	_, err := client.Search(context.Background(), []float32{1}, 2)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "status=404")
}

func TestSearchDefaultsLimit(t *testing.T) {
	var gotBody searchRequest
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		json.NewEncoder(w).Encode(map[string]any{"result": []any{}})
	})

	_, err := client.Search(context.Background(), []float32{1}, 0)

	require.NoError(t, err)
	assert.Equal(t, 2, gotBody.Limit)
}

package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOllamaGenerate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/generate", r.URL.Path)

		var req struct {
			Model  string `json:"model"`
			Prompt string `json:"prompt"`
			Stream bool   `json:"stream"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "llama3.2", req.Model)
		assert.Equal(t, "Food: Pizza", req.Prompt)
		assert.False(t, req.Stream)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"model":    req.Model,
			"response": "Ingredients: Dough|Cheese",
		})
	}))
	defer server.Close()

	g := NewOllamaGenerator(server.URL+"/", "llama3.2")
	text, err := g.Generate(context.Background(), "Food: Pizza")

	require.NoError(t, err)
	assert.Equal(t, "Ingredients: Dough|Cheese", text)
}

func TestOllamaGenerateNetworkError(t *testing.T) {
	g := NewOllamaGenerator("http://localhost:99999", "llama3.2")
	_, err := g.Generate(context.Background(), "p")
	assert.Error(t, err)
}

func TestOllamaGenerateErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer server.Close()

	_, err := NewOllamaGenerator(server.URL, "missing").Generate(context.Background(), "p")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 404")
	assert.Contains(t, err.Error(), "model not found")
}

func TestOllamaGenerateErrorBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"error":"out of memory"}`))
	}))
	defer server.Close()

	_, err := NewOllamaGenerator(server.URL, "big").Generate(context.Background(), "p")
	assert.ErrorContains(t, err, "out of memory")
}

func TestOllamaGenerateBadJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not json"))
	}))
	defer server.Close()

	_, err := NewOllamaGenerator(server.URL, "m").Generate(context.Background(), "p")
	assert.ErrorContains(t, err, "failed to decode response")
}

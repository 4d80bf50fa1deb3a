package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenAIGenerate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "gpt-4o-mini", req["model"])
		assert.NotContains(t, req, "max_tokens")
		assert.NotContains(t, req, "max_completion_tokens")
		assert.NotContains(t, req, "temperature")

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"choices": [{"index": 0, "message": {"role": "assistant", "content": "Most likely diseases: gout"}, "finish_reason": "stop"}]
		}`))
	}))
	defer server.Close()

	g, err := NewOpenAIGenerator("test-key", "gpt-4o-mini", server.URL)
	require.NoError(t, err)

	text, err := g.Generate(context.Background(), "p")
	require.NoError(t, err)
	assert.Equal(t, "Most likely diseases: gout", text)
}

func TestOpenAIGenerateReasoningModelSendsNoTokenLimit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.NotContains(t, req, "max_tokens")
		assert.NotContains(t, req, "max_completion_tokens")

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"ok"}}]}`))
	}))
	defer server.Close()

	g, err := NewOpenAIGenerator("test-key", "o3-mini", server.URL)
	require.NoError(t, err)

	text, err := g.Generate(context.Background(), "p")
	require.NoError(t, err)
	assert.Equal(t, "ok", text)
}

func TestOpenAIGenerateEmptyContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":""},"finish_reason":"length"}]}`))
	}))
	defer server.Close()

	g, err := NewOpenAIGenerator("test-key", "o3-mini", server.URL)
	require.NoError(t, err)

	_, err = g.Generate(context.Background(), "p")
	assert.ErrorIs(t, err, errNoText)
	assert.ErrorContains(t, err, "length")
}

func TestOpenAIGenerateNoChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer server.Close()

	g, err := NewOpenAIGenerator("test-key", "gpt-4o-mini", server.URL)
	require.NoError(t, err)

	_, err = g.Generate(context.Background(), "p")
	assert.ErrorContains(t, err, "no completion choices")
}

func TestOpenAIGenerateServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"invalid api key","type":"invalid_request_error"}}`))
	}))
	defer server.Close()

	g, err := NewOpenAIGenerator("test-key", "gpt-4o-mini", server.URL)
	require.NoError(t, err)

	_, err = g.Generate(context.Background(), "p")
	assert.ErrorContains(t, err, "invalid api key")
}

func TestNewOpenAIGeneratorMissingKey(t *testing.T) {
	_, err := NewOpenAIGenerator("", "gpt-4o-mini", "")
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}

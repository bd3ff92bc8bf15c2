package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ollama/ollama/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGroqClient(url, model string) *GroqClient {
	return &GroqClient{
		apiKey:     "test-key",
		httpClient: &http.Client{},
		url:        url,
		model:      model,
	}
}

func TestGroqGenerateInference(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req groqRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		// System prompt arrives as the leading message.
		require.NotEmpty(t, req.Messages)
		assert.Equal(t, "system", req.Messages[0].Role)

		json.NewEncoder(w).Encode(groqResponse{
			Choices: []groqChoice{{Message: groqMessage{Role: "assistant", Content: "Hi!"}}},
		})
	}))
	defer srv.Close()

	client := newTestGroqClient(srv.URL, "llama-3.1-8b-instant")

	var got string
	err := client.GenerateInference(context.Background(),
		[]Message{{Role: "user", Content: "hello"}},
		func(chunk string) error {
			got = chunk
			return nil
		},
		WithSystemPrompt("Be brief."),
	)
	require.NoError(t, err)
	assert.Equal(t, "Hi!", got)
}

func TestGroqToolCallsParsed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		response := `{
			"choices": [{
				"message": {
					"role": "assistant",
					"tool_calls": [{
						"id": "call_1",
						"type": "function",
						"function": {"name": "generate_image", "arguments": "{\"prompt\": \"a castle\"}"}
					}]
				}
			}]
		}`
		w.Write([]byte(response))
	}))
	defer srv.Close()

	client := newTestGroqClient(srv.URL, "llama-3.3-70b-versatile")

	var calls []api.ToolCall
	err := client.GenerateInferenceWithTools(context.Background(),
		[]Message{{Role: "user", Content: "draw a castle"}},
		func(string) error { return nil },
		func(toolCalls []api.ToolCall) error {
			calls = toolCalls
			return nil
		},
		WithTools([]api.Tool{{Type: "function", Function: api.ToolFunction{Name: "generate_image"}}}),
	)
	require.NoError(t, err)

	require.Len(t, calls, 1)
	assert.Equal(t, "generate_image", calls[0].Function.Name)
	assert.Equal(t, "a castle", calls[0].Function.Arguments["prompt"])
}

func TestGroqSkipsToolCallsWithBadArguments(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		response := `{
			"choices": [{
				"message": {
					"role": "assistant",
					"tool_calls": [
						{
							"id": "call_1",
							"type": "function",
							"function": {"name": "generate_image", "arguments": "not json"}
						},
						{
							"id": "call_2",
							"type": "function",
							"function": {"name": "search_ui_images", "arguments": "{\"query\": \"castles\"}"}
						}
					]
				}
			}]
		}`
		w.Write([]byte(response))
	}))
	defer srv.Close()

	client := newTestGroqClient(srv.URL, "llama-3.3-70b-versatile")

	var calls []api.ToolCall
	err := client.GenerateInferenceWithTools(context.Background(),
		[]Message{{Role: "user", Content: "draw"}},
		func(string) error { return nil },
		func(toolCalls []api.ToolCall) error {
			calls = toolCalls
			return nil
		},
		WithTools([]api.Tool{{Type: "function", Function: api.ToolFunction{Name: "generate_image"}}}),
	)
	require.NoError(t, err)

	// Only the parseable call comes through; no zero-valued entries.
	require.Len(t, calls, 1)
	assert.Equal(t, "search_ui_images", calls[0].Function.Name)
}

func TestGroqErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := newTestGroqClient(srv.URL, "llama-3.1-8b-instant")

	err := client.GenerateInference(context.Background(),
		[]Message{{Role: "user", Content: "hello"}},
		func(string) error { return nil },
	)
	assert.Error(t, err)
}

func TestGroqCapabilitiesByModel(t *testing.T) {
	tests := []struct {
		model    string
		hasTools bool
	}{
		{"llama-3.3-70b-versatile", true},
		{"llama-3.1-8b-instant", true},
		{"moonshotai/kimi-k2-instruct", true},
		{"gemma2-9b-it", false},
	}

	for _, tt := range tests {
		client := newTestGroqClient("http://unused", tt.model)
		if tt.hasTools {
			assert.NotZero(t, client.Capabilities()&NativeToolCalling, tt.model)
		} else {
			assert.Zero(t, client.Capabilities()&NativeToolCalling, tt.model)
		}
	}
}

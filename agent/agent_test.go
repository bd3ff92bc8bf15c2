package agent

import (
	"context"
	"fmt"

	"github.com/multiflexhq/multiflex/llm"
	"github.com/multiflexhq/multiflex/rag"
	"github.com/multiflexhq/multiflex/search"
	"github.com/ollama/ollama/api"
)

type mockLLMClient struct {
	responses    []string
	callCount    int
	err          error
	toolCalls    []api.ToolCall
	capabilities llm.Capability
	model        string
}

func (m *mockLLMClient) Capabilities() llm.Capability {
	return m.capabilities
}

func (m *mockLLMClient) GetModel() string {
	return m.model
}

func (m *mockLLMClient) GenerateInference(
	ctx context.Context,
	messages []llm.Message,
	callback func(string) error,
	options ...llm.LLMOption,
) error {
	if m.err != nil {
		return m.err
	}

	if m.callCount < len(m.responses) {
		response := m.responses[m.callCount]
		m.callCount++
		return callback(response)
	}

	return callback("Default response")
}

func (m *mockLLMClient) GenerateInferenceWithTools(
	ctx context.Context,
	messages []llm.Message,
	contentCallback func(string) error,
	toolCallback func([]api.ToolCall) error,
	options ...llm.LLMOption,
) error {
	if m.err != nil {
		return m.err
	}

	if len(m.toolCalls) > 0 {
		if err := toolCallback(m.toolCalls); err != nil {
			return err
		}
	}

	return m.GenerateInference(ctx, messages, contentCallback, options...)
}

type mockWebSearcher struct {
	results []search.WebResult
	err     error
	calls   int
}

func (m *mockWebSearcher) Search(ctx context.Context, query string) ([]search.WebResult, error) {
	m.calls++
	return m.results, m.err
}

type mockImageSearcher struct {
	results []search.ImageResult
	err     error
	calls   int
}

func (m *mockImageSearcher) SearchImages(ctx context.Context, query string) ([]search.ImageResult, error) {
	m.calls++
	return m.results, m.err
}

type mockImageGenerator struct {
	payload string
	err     error
	calls   int
}

func (m *mockImageGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	m.calls++
	if m.err != nil {
		return "", m.err
	}
	return m.payload, nil
}

type mockRetriever struct {
	chunks  []rag.ChunkModel
	err     error
	hasDocs bool
	calls   int
}

func (m *mockRetriever) Retrieve(ctx context.Context, query, owner string) ([]rag.ChunkModel, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}

	var out []rag.ChunkModel
	for _, c := range m.chunks {
		if c.UserID == owner {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *mockRetriever) HasDocuments(ctx context.Context, owner string) bool {
	return m.hasDocs
}

func toolCall(name string, args map[string]any) api.ToolCall {
	return api.ToolCall{
		Function: api.ToolCallFunction{
			Name:      name,
			Arguments: args,
		},
	}
}

func routeResponse(path string) string {
	return fmt.Sprintf(`{"path": %q, "reasoning": "test"}`, path)
}

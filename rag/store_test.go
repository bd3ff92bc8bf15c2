package rag

import (
	"context"
	"errors"
	"testing"

	"github.com/multiflexhq/multiflex/llm"
	"github.com/ollama/ollama/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockLLMClient struct {
	responses []string
	callCount int
	err       error
}

func (m *mockLLMClient) Capabilities() llm.Capability { return 0 }
func (m *mockLLMClient) GetModel() string             { return "mock" }

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

	return callback(`{"score": "no"}`)
}

func (m *mockLLMClient) GenerateInferenceWithTools(
	ctx context.Context,
	messages []llm.Message,
	contentCallback func(string) error,
	toolCallback func([]api.ToolCall) error,
	options ...llm.LLMOption,
) error {
	return m.GenerateInference(ctx, messages, contentCallback, options...)
}

func TestGradeRelevanceYes(t *testing.T) {
	s := NewStore(nil, nil, nil, &mockLLMClient{responses: []string{`{"score": "yes"}`}})

	keep, err := s.gradeRelevance(context.Background(), "what is Go?", "Go is a language.")
	require.NoError(t, err)
	assert.True(t, keep)
}

func TestGradeRelevanceNo(t *testing.T) {
	s := NewStore(nil, nil, nil, &mockLLMClient{responses: []string{`{"score": "no"}`}})

	keep, err := s.gradeRelevance(context.Background(), "what is Go?", "A recipe for soup.")
	require.NoError(t, err)
	assert.False(t, keep)
}

func TestGradeRelevanceSurvivesChatter(t *testing.T) {
	s := NewStore(nil, nil, nil, &mockLLMClient{responses: []string{
		"Sure, here is my grade:\n```json\n{\"score\": \"Yes\"}\n```",
	}})

	keep, err := s.gradeRelevance(context.Background(), "q", "d")
	require.NoError(t, err)
	assert.True(t, keep)
}

func TestGradeRelevanceErrorsOnGarbage(t *testing.T) {
	s := NewStore(nil, nil, nil, &mockLLMClient{responses: []string{"no json at all"}})

	_, err := s.gradeRelevance(context.Background(), "q", "d")
	assert.Error(t, err)
}

func TestGradeRelevancePropagatesModelError(t *testing.T) {
	s := NewStore(nil, nil, nil, &mockLLMClient{err: errors.New("model down")})

	_, err := s.gradeRelevance(context.Background(), "q", "d")
	assert.Error(t, err)
}

func TestGradeAllKeepsChunksWhenGradingFails(t *testing.T) {
	s := NewStore(nil, nil, nil, &mockLLMClient{err: errors.New("grader down")})
	candidates := []ChunkModel{
		{ChunkID: "c1", Text: "Go is a language."},
		{ChunkID: "c2", Text: "A recipe for soup."},
	}

	relevant := s.gradeAll(context.Background(), "what is Go?", candidates)
	assert.Equal(t, candidates, relevant, "grading failure must not drop candidates")
}

func TestGradeAllDropsOnlyExplicitNo(t *testing.T) {
	s := NewStore(nil, nil, nil, &mockLLMClient{responses: []string{
		`{"score": "yes"}`,
		`{"score": "no"}`,
		"not json at all",
	}})
	candidates := []ChunkModel{
		{ChunkID: "c1", Text: "relevant"},
		{ChunkID: "c2", Text: "irrelevant"},
		{ChunkID: "c3", Text: "ungradable"},
	}

	relevant := s.gradeAll(context.Background(), "q", candidates)
	require.Len(t, relevant, 2)
	assert.Equal(t, "c1", relevant[0].ChunkID)
	assert.Equal(t, "c3", relevant[1].ChunkID)
}

func TestParseGrade(t *testing.T) {
	tests := []struct {
		name     string
		response string
		expected bool
		wantErr  bool
	}{
		{"yes", `{"score": "yes"}`, true, false},
		{"uppercase yes", `{"score": "YES"}`, true, false},
		{"no", `{"score": "no"}`, false, false},
		{"embedded json", `The grade is {"score": "yes"} as requested`, true, false},
		{"missing score", `{"grade": "yes"}`, false, false},
		{"no braces", "yes", false, true},
		{"broken json", `{"score": `, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			keep, err := parseGrade(tt.response)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, keep)
		})
	}
}

package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/ollama/ollama/api"
)

// OllamaClient runs generation against a local Ollama server via its chat
// endpoint. No API key; the host comes from OLLAMA_HOST.
type OllamaClient struct {
	httpClient *http.Client
	url        string
	model      string
}

func NewOllamaClient(model string) LLMClient {
	host := os.Getenv("OLLAMA_HOST")
	if host == "" {
		host = "http://localhost:11434"
	}

	return &OllamaClient{
		httpClient: &http.Client{Timeout: 120 * time.Second},
		url:        strings.TrimRight(host, "/") + "/api/chat",
		model:      model,
	}
}

func (c *OllamaClient) Capabilities() Capability {
	// Models with native tool calling per Ollama's model library
	toolSupportedModels := []string{
		"llama3.1",
		"llama3.2",
		"llama3.3",
		"qwen2.5",
		"qwen3",
		"mistral-nemo",
		"command-r",
	}

	for _, supportedModel := range toolSupportedModels {
		if strings.Contains(c.model, supportedModel) {
			return NativeToolCalling
		}
	}

	return 0
}

func (c *OllamaClient) GetModel() string {
	return c.model
}

func (c *OllamaClient) GenerateInference(ctx context.Context, messages []Message, callback func(chunk string) error, opts ...LLMOption) error {
	settings := LLMSettings{
		model:       c.model,
		temperature: 0.7,
		maxTokens:   4096,
	}

	for _, opt := range opts {
		opt(&settings)
	}

	return c.makeRequest(ctx, c.buildRequest(messages, settings), callback, nil)
}

func (c *OllamaClient) GenerateInferenceWithTools(
	ctx context.Context,
	messages []Message,
	contentCallback func(chunk string) error,
	toolCallback func(toolCalls []api.ToolCall) error,
	opts ...LLMOption,
) error {
	settings := LLMSettings{
		model:       c.model,
		temperature: 0.7,
		maxTokens:   4096,
	}

	for _, opt := range opts {
		opt(&settings)
	}

	request := c.buildRequest(messages, settings)
	request.Tools = settings.tools

	return c.makeRequest(ctx, request, contentCallback, toolCallback)
}

func (c *OllamaClient) buildRequest(messages []Message, settings LLMSettings) ollamaRequest {
	request := ollamaRequest{
		Model:  settings.model,
		Stream: false,
		Options: ollamaOptions{
			Temperature: settings.temperature,
			NumPredict:  settings.maxTokens,
		},
	}

	// Ollama takes the system prompt as a leading system message
	if settings.system != "" {
		request.Messages = append(request.Messages, ollamaMessage{Role: "system", Content: settings.system})
	}
	for _, m := range messages {
		request.Messages = append(request.Messages, ollamaMessage{Role: m.Role, Content: m.Content})
	}

	return request
}

func (c *OllamaClient) makeRequest(
	ctx context.Context,
	request ollamaRequest,
	contentCallback func(chunk string) error,
	toolCallback func(toolCalls []api.ToolCall) error,
) error {
	jsonData, err := json.Marshal(request)
	if err != nil {
		return fmt.Errorf("error marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.url, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("error making request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("error reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var response ollamaResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return fmt.Errorf("error unmarshaling response: %w", err)
	}

	// Ollama emits tool calls in its native format already
	if len(response.Message.ToolCalls) > 0 && toolCallback != nil {
		return toolCallback(response.Message.ToolCalls)
	}

	if response.Message.Content != "" && contentCallback != nil {
		return contentCallback(response.Message.Content)
	}

	return nil
}

// Ollama chat API types
type ollamaRequest struct {
	Model    string          `json:"model"`
	Messages []ollamaMessage `json:"messages"`
	Stream   bool            `json:"stream"`
	Tools    []api.Tool      `json:"tools,omitempty"`
	Options  ollamaOptions   `json:"options,omitempty"`
}

type ollamaMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ollamaOptions struct {
	Temperature float64 `json:"temperature,omitempty"`
	NumPredict  int     `json:"num_predict,omitempty"`
}

type ollamaResponse struct {
	Model   string                `json:"model"`
	Message ollamaResponseMessage `json:"message"`
	Done    bool                  `json:"done"`
}

type ollamaResponseMessage struct {
	Role      string         `json:"role"`
	Content   string         `json:"content"`
	ToolCalls []api.ToolCall `json:"tool_calls,omitempty"`
}

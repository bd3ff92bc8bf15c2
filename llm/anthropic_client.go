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

	"github.com/SaiNageswarS/go-api-boot/logger"
	"github.com/ollama/ollama/api"
)

type AnthropicClient struct {
	apiKey     string
	httpClient *http.Client
	url        string
	model      string
}

func NewAnthropicClient(model string) LLMClient {
	apiKey := os.Getenv("ANTHROPIC_API_KEY")
	if apiKey == "" {
		// Providers are designed for dependency injection.
		// If the API key is not set, we log a fatal error.
		logger.Fatal("ANTHROPIC_API_KEY environment variable is not set")
		return nil
	}

	return &AnthropicClient{
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 120 * time.Second},
		url:        "https://api.anthropic.com/v1/messages",
		model:      model,
	}
}

func (c *AnthropicClient) Capabilities() Capability {
	return NativeToolCalling
}

func (c *AnthropicClient) GetModel() string {
	return c.model
}

func (c *AnthropicClient) GenerateInference(ctx context.Context, messages []Message, callback func(chunk string) error, opts ...LLMOption) error {
	settings := LLMSettings{
		model:       c.model,
		temperature: 0.7,
		maxTokens:   4096,
	}

	for _, opt := range opts {
		opt(&settings)
	}

	request := anthropicRequest{
		Model:       settings.model,
		MaxTokens:   settings.maxTokens,
		Temperature: settings.temperature,
		System:      settings.system,
		Messages:    toAnthropicMessages(messages),
	}

	response, err := c.makeRequest(ctx, request)
	if err != nil {
		return err
	}

	var text strings.Builder
	for _, block := range response.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}

	if text.Len() == 0 {
		return fmt.Errorf("no content in response")
	}

	return callback(text.String())
}

func (c *AnthropicClient) GenerateInferenceWithTools(
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

	// If no tools are provided, use regular inference
	if len(settings.tools) == 0 {
		return c.GenerateInference(ctx, messages, contentCallback, opts...)
	}

	request := anthropicRequest{
		Model:       settings.model,
		MaxTokens:   settings.maxTokens,
		Temperature: settings.temperature,
		System:      settings.system,
		Messages:    toAnthropicMessages(messages),
		Tools:       convertToolsToAnthropicFormat(settings.tools),
	}

	response, err := c.makeRequest(ctx, request)
	if err != nil {
		return err
	}

	var text strings.Builder
	var toolCalls []api.ToolCall

	for _, block := range response.Content {
		switch block.Type {
		case "text":
			text.WriteString(block.Text)
		case "tool_use":
			toolCalls = append(toolCalls, api.ToolCall{
				Function: api.ToolCallFunction{
					Name:      block.Name,
					Arguments: block.Input,
				},
			})
		}
	}

	if text.Len() > 0 && contentCallback != nil {
		if err := contentCallback(text.String()); err != nil {
			return err
		}
	}

	if len(toolCalls) > 0 && toolCallback != nil {
		return toolCallback(toolCalls)
	}

	return nil
}

func (c *AnthropicClient) makeRequest(ctx context.Context, request anthropicRequest) (*anthropicResponse, error) {
	jsonData, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("error marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", "2023-06-01")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error making request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var response anthropicResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("error unmarshaling response: %w", err)
	}

	return &response, nil
}

// toAnthropicMessages drops message fields the API does not know about and
// folds system-role messages into user turns. Anthropic takes the system
// prompt as a top-level field, not a message role.
func toAnthropicMessages(messages []Message) []anthropicMessage {
	out := make([]anthropicMessage, 0, len(messages))
	for _, m := range messages {
		role := m.Role
		if role == "system" {
			role = "user"
		}
		out = append(out, anthropicMessage{Role: role, Content: m.Content})
	}
	return out
}

func convertToolsToAnthropicFormat(tools []api.Tool) []anthropicTool {
	out := make([]anthropicTool, len(tools))
	for i, tool := range tools {
		out[i] = anthropicTool{
			Name:        tool.Function.Name,
			Description: tool.Function.Description,
			InputSchema: tool.Function.Parameters,
		}
	}
	return out
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicRequest struct {
	Model       string             `json:"model"`
	MaxTokens   int                `json:"max_tokens"`
	Messages    []anthropicMessage `json:"messages"`
	System      string             `json:"system,omitempty"`
	Temperature float64            `json:"temperature"`
	Tools       []anthropicTool    `json:"tools,omitempty"`
}

type anthropicTool struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	InputSchema interface{} `json:"input_schema"`
}

// anthropicResponse represents the response from Anthropic API
type anthropicResponse struct {
	Content []anthropicContent `json:"content"`
	ID      string             `json:"id"`
	Model   string             `json:"model"`
	Role    string             `json:"role"`
	Type    string             `json:"type"`
}

// anthropicContent represents one content block in the response
type anthropicContent struct {
	Type  string                         `json:"type"`
	Text  string                         `json:"text,omitempty"`
	Name  string                         `json:"name,omitempty"`
	Input api.ToolCallFunctionArguments `json:"input,omitempty"`
}

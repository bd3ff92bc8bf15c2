package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/SaiNageswarS/go-api-boot/logger"
)

// ImageGenerator is the synthetic image capability. Callers enforce the
// one-generation-per-round limit, not this interface.
type ImageGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// ImagenClient generates images through Google's Imagen REST API and returns
// them as data URLs ready for <img> src attributes.
type ImagenClient struct {
	apiKey     string
	httpClient *http.Client
	url        string
}

func NewImagenClient() *ImagenClient {
	apiKey := os.Getenv("GOOGLE_API_KEY")
	if apiKey == "" {
		logger.Fatal("GOOGLE_API_KEY environment variable is not set")
		return nil
	}

	return &ImagenClient{
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 60 * time.Second},
		url:        "https://generativelanguage.googleapis.com/v1beta/models/imagen-3.0-generate-002:predict",
	}
}

func (c *ImagenClient) Generate(ctx context.Context, prompt string) (string, error) {
	request := imagenRequest{
		Instances: []imagenInstance{{Prompt: prompt}},
		Parameters: imagenParameters{
			SampleCount:    1,
			OutputMimeType: "image/jpeg",
		},
	}

	jsonData, err := json.Marshal(request)
	if err != nil {
		return "", fmt.Errorf("error marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.url, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("error making request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("error reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("image generation failed with status %d: %s", resp.StatusCode, string(body))
	}

	var response imagenResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return "", fmt.Errorf("error unmarshaling response: %w", err)
	}

	if len(response.Predictions) == 0 || response.Predictions[0].BytesBase64Encoded == "" {
		return "", fmt.Errorf("no image in response")
	}

	return "data:image/jpeg;base64," + response.Predictions[0].BytesBase64Encoded, nil
}

type imagenRequest struct {
	Instances  []imagenInstance `json:"instances"`
	Parameters imagenParameters `json:"parameters"`
}

type imagenInstance struct {
	Prompt string `json:"prompt"`
}

type imagenParameters struct {
	SampleCount    int    `json:"sampleCount"`
	OutputMimeType string `json:"outputMimeType"`
}

type imagenResponse struct {
	Predictions []struct {
		BytesBase64Encoded string `json:"bytesBase64Encoded"`
		MimeType           string `json:"mimeType"`
	} `json:"predictions"`
}

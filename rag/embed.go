package rag

import (
	"context"
	"time"

	"github.com/ollama/ollama/api"
)

const (
	EmbeddingModel      = "nomic-embed-text"
	EmbeddingDimensions = 768
)

// embedOnce embeds one text through the local Ollama server. The model
// stays loaded between calls so ingest batches do not pay a reload per
// chunk.
func embedOnce(ctx context.Context, cli *api.Client, text string) ([]float32, error) {
	resp, err := cli.Embeddings(ctx, &api.EmbeddingRequest{
		Model:     EmbeddingModel,
		Prompt:    text,
		KeepAlive: &api.Duration{Duration: 60 * time.Minute},
	})
	if err != nil {
		return nil, err
	}

	out := make([]float32, len(resp.Embedding))
	for i, v := range resp.Embedding {
		out[i] = float32(v)
	}
	return out, nil
}

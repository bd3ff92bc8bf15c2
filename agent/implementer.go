package agent

import (
	"context"
	"strings"

	"github.com/SaiNageswarS/go-api-boot/logger"
	"github.com/multiflexhq/multiflex/llm"
	"github.com/multiflexhq/multiflex/prompts"
	"github.com/multiflexhq/multiflex/ui"
	"go.uber.org/zap"
)

// Implementer runs the second synthesis stage: turn the design plan plus
// accumulated knowledge into a strict component list. Parsing is
// unforgiving; any malformed output yields the fallback card instead.
type Implementer struct {
	client llm.LLMClient
}

func NewImplementer(client llm.LLMClient) *Implementer {
	return &Implementer{client: client}
}

// Implement never returns nil. Every failure path lands on a single-card
// fallback so the caller always has something renderable.
func (im *Implementer) Implement(ctx context.Context, prompt string, plan *DesignPlan, k *Knowledge) *ui.Description {
	// Fold the designer's decoration into the accumulator so contexts and
	// image resolution see one combined view.
	k.Merge(Delta{UIImages: plan.UIImages, GeneratedImages: plan.GeneratedImages})

	systemPrompt, userPrompt, err := prompts.RenderImplementUIPrompt(prompts.ImplementUIPromptData{
		Prompt:                prompt,
		DesignPlan:            plan.Text,
		SearchSummary:         k.SearchContext(),
		ImageSummary:          k.ImageContext(),
		RagSummary:            k.RagContext(),
		UIImageContext:        k.UIImageContext(),
		GeneratedImageContext: k.GeneratedImageContext(),
	})
	if err != nil {
		logger.Error("Failed to render implement prompt", zap.Error(err))
		return fallbackFor(prompt)
	}

	var response strings.Builder
	err = im.client.GenerateInference(ctx,
		[]llm.Message{{Role: "user", Content: userPrompt}},
		func(chunk string) error {
			response.WriteString(chunk)
			return nil
		},
		llm.WithSystemPrompt(systemPrompt),
		llm.WithTemperature(0.4),
		llm.WithMaxTokens(4096),
	)
	if err != nil {
		logger.Error("Implement call failed", zap.Error(err))
		return fallbackFor(prompt)
	}

	desc, err := ui.ParseDescription(response.String())
	if err != nil {
		logger.Error("Generated UI description rejected", zap.Error(err))
		return fallbackFor(prompt)
	}

	desc.ResolveImages(k.GeneratedImages)
	desc.Truncate()

	logger.Info("UI description implemented", zap.Int("components", len(desc.Components)))
	return desc
}

// fallbackFor builds the degraded single-card answer for a prompt.
func fallbackFor(prompt string) *ui.Description {
	title := strings.TrimSpace(prompt)
	if runes := []rune(title); len(runes) > 50 {
		title = string(runes[:50]) + "..."
	}
	if title == "" {
		title = "Your request"
	}

	return ui.FallbackDescription(
		title,
		"We could not build a custom interface for this request. Please try again.",
		"Fallback",
	)
}

package agent

import (
	"context"
	"math/rand"
	"strings"

	"github.com/SaiNageswarS/go-api-boot/logger"
	"github.com/multiflexhq/multiflex/llm"
	"github.com/multiflexhq/multiflex/prompts"
	"github.com/multiflexhq/multiflex/search"
	"github.com/ollama/ollama/api"
	"go.uber.org/zap"
)

const (
	toolSearchUIImages = "search_ui_images"
	toolGenerateImage  = "generate_image"

	// fallbackPlan keeps the implementation stage running when design
	// planning fails outright.
	fallbackPlan = "No design plan available. Use a clean, simple layout with 3-4 components."
)

// themes rotate across requests so repeated prompts do not converge on one
// look. The seed injects layout variance the same way.
var themes = []string{
	"modern minimal with bold typography",
	"warm editorial with serif accents",
	"dark dashboard with vivid highlights",
	"playful with rounded shapes and bright colors",
	"elegant monochrome with generous whitespace",
	"vibrant gradient with layered depth",
}

// Designer runs the creative-direction stage: the big model drafts a design
// plan for the prompt and may call decoration tools while doing so. At most
// one image generation per plan; extra calls are ignored.
type Designer struct {
	client    llm.LLMClient
	images    search.ImageSearcher
	generator search.ImageGenerator

	pickTheme func() (theme string, seed int)
}

// DesignPlan carries the stage-one output into the implementation stage.
type DesignPlan struct {
	Text            string
	UIImages        []search.ImageResult
	GeneratedImages map[string]string
}

func NewDesigner(client llm.LLMClient, images search.ImageSearcher, generator search.ImageGenerator) *Designer {
	return &Designer{
		client:    client,
		images:    images,
		generator: generator,
		pickTheme: func() (string, int) {
			return themes[rand.Intn(len(themes))], rand.Intn(1000)
		},
	}
}

// Plan never fails. Tool failures and generation errors degrade to a plan
// without decoration; a dead model degrades to fallbackPlan.
func (d *Designer) Plan(ctx context.Context, prompt string, k *Knowledge) *DesignPlan {
	plan := &DesignPlan{GeneratedImages: make(map[string]string)}

	theme, seed := d.pickTheme()
	systemPrompt, userPrompt, err := prompts.RenderDesignPlanPrompt(prompts.DesignPlanPromptData{
		Prompt:        prompt,
		Theme:         theme,
		LayoutSeed:    seed,
		SearchContext: k.SearchContext(),
		ImageContext:  k.ImageContext(),
		RagSummary:    k.RagSummary(),
	})
	if err != nil {
		logger.Error("Failed to render design plan prompt", zap.Error(err))
		plan.Text = fallbackPlan
		return plan
	}

	var content strings.Builder
	var toolCalls []api.ToolCall

	messages := []llm.Message{{Role: "user", Content: userPrompt}}
	opts := []llm.LLMOption{
		llm.WithSystemPrompt(systemPrompt),
		llm.WithTemperature(0.7),
		llm.WithMaxTokens(2048),
	}

	if d.client.Capabilities()&llm.NativeToolCalling != 0 {
		err = d.client.GenerateInferenceWithTools(ctx, messages,
			func(chunk string) error {
				content.WriteString(chunk)
				return nil
			},
			func(calls []api.ToolCall) error {
				toolCalls = append(toolCalls, calls...)
				return nil
			},
			append(opts, llm.WithTools(designTools()))...,
		)
	} else {
		err = d.client.GenerateInference(ctx, messages,
			func(chunk string) error {
				content.WriteString(chunk)
				return nil
			},
			opts...,
		)
	}
	if err != nil {
		logger.Error("Design plan call failed", zap.Error(err))
		plan.Text = fallbackPlan
		return plan
	}

	d.executeToolCalls(ctx, toolCalls, plan)

	plan.Text = strings.TrimSpace(content.String())
	if plan.Text == "" {
		plan.Text = fallbackPlan
	}

	logger.Info("Design plan ready",
		zap.String("theme", theme),
		zap.Int("seed", seed),
		zap.Int("uiImages", len(plan.UIImages)),
		zap.Int("generatedImages", len(plan.GeneratedImages)))
	return plan
}

// executeToolCalls runs the designer's tool requests. Image generation is
// capped at one call; further requests are logged and skipped.
func (d *Designer) executeToolCalls(ctx context.Context, calls []api.ToolCall, plan *DesignPlan) {
	generated := false

	for _, call := range calls {
		switch call.Function.Name {
		case toolSearchUIImages:
			query, ok := call.Function.Arguments["query"].(string)
			if !ok || strings.TrimSpace(query) == "" {
				continue
			}
			results, err := d.images.SearchImages(ctx, query)
			if err != nil {
				logger.Error("UI image search failed", zap.String("query", query), zap.Error(err))
				continue
			}
			plan.UIImages = append(plan.UIImages, results...)

		case toolGenerateImage:
			imagePrompt, ok := call.Function.Arguments["prompt"].(string)
			if !ok || strings.TrimSpace(imagePrompt) == "" {
				continue
			}
			if generated {
				logger.Info("Skipping extra image generation request",
					zap.String("prompt", imagePrompt))
				continue
			}
			payload, err := d.generator.Generate(ctx, imagePrompt)
			if err != nil {
				logger.Error("Image generation failed", zap.String("prompt", imagePrompt), zap.Error(err))
				continue
			}
			plan.GeneratedImages[imagePrompt] = payload
			generated = true

		default:
			logger.Error("Designer requested unknown tool", zap.String("tool", call.Function.Name))
		}
	}
}

func designTools() []api.Tool {
	return []api.Tool{
		stringParamTool(toolSearchUIImages,
			"Search the web for decorative or thematic images to use in the interface design.",
			"query", "Image search query describing the desired imagery."),
		stringParamTool(toolGenerateImage,
			"Generate one custom image when no suitable stock imagery exists. May be called at most once.",
			"prompt", "Detailed description of the image to generate."),
	}
}

func stringParamTool(name, description, paramName, paramDesc string) api.Tool {
	tool := api.Tool{
		Type: "function",
		Function: api.ToolFunction{
			Name:        name,
			Description: description,
		},
	}
	tool.Function.Parameters.Type = "object"
	tool.Function.Parameters.Properties = map[string]api.ToolProperty{
		paramName: {
			Type:        api.PropertyType{"string"},
			Description: paramDesc,
		},
	}
	tool.Function.Parameters.Required = []string{paramName}
	return tool
}
